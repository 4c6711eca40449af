package testreport

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
)

const allTestsSuitesName = "All tests"

type junitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	TestSuites []junitTestSuite `xml:"testsuite"`
}

type junitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	TestCases []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	ClassName string        `xml:"classname,attr"`
	Name      string        `xml:"name,attr"`
	Time      string         `xml:"time,attr,omitempty"`
	Failures  []junitFailure `xml:"failure"`
}

type junitFailure struct {
	XMLName xml.Name `xml:"failure"`
	Message string   `xml:"message,attr"`
	Value   string   `xml:",chardata"`
}

func toJUnit(report Report) junitTestSuites {
	document := junitTestSuites{
		Name:     allTestsSuitesName,
		Tests:    report.Tests(),
		Failures: report.Failures(),
	}

	for _, suite := range report.Suites {
		junitSuite := junitTestSuite{
			Name:     suite.Name,
			Tests:    suite.Tests(),
			Failures: suite.Failures(),
		}

		for _, testCase := range suite.TestCases {
			junitCase := junitTestCase{
				ClassName: suite.Name,
				Name:      testCase.Name,
				Time:      strconv.FormatFloat(testCase.Duration, 'f', -1, 64),
			}
			for _, failure := range testCase.Failures {
				junitCase.Failures = append(junitCase.Failures, junitFailure{
					Message: failure.Message,
					Value:   failure.Location,
				})
			}
			junitSuite.TestCases = append(junitSuite.TestCases, junitCase)
		}

		document.TestSuites = append(document.TestSuites, junitSuite)
	}

	return document
}

// Marshal returns the pretty printed JUnit XML document of the report.
func Marshal(report Report) ([]byte, error) {
	content, err := xml.MarshalIndent(toJUnit(report), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal junit report: %w", err)
	}

	content = append([]byte(xml.Header), content...)
	return append(content, '\n'), nil
}

// Write serializes the report as JUnit XML to pth.
// The document is written next to the destination first and then renamed, so pth either holds
// the complete report or is left untouched.
func Write(report Report, pth string) error {
	content, err := Marshal(report)
	if err != nil {
		return err
	}

	dir := filepath.Dir(pth)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create junit report directory (%s): %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".junit-*.xml")
	if err != nil {
		return fmt.Errorf("failed to create temporary junit report: %w", err)
	}
	tmpPth := tmpFile.Name()
	defer func() {
		// no-op once renamed
		_ = os.Remove(tmpPth)
	}()

	if _, err := tmpFile.Write(content); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("failed to write junit report: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close junit report: %w", err)
	}
	if err := os.Chmod(tmpPth, 0644); err != nil {
		return fmt.Errorf("failed to set junit report permissions: %w", err)
	}
	if err := os.Rename(tmpPth, pth); err != nil {
		return fmt.Errorf("failed to move junit report to %s: %w", pth, err)
	}

	return nil
}

// Summary is what a written report tells about the test run.
type Summary struct {
	Tests int
	// FailedTestCases lists the failed test cases as "classname - name", without duplicates.
	FailedTestCases []string
}

// Parse reads back a JUnit report written by Write.
// A missing report yields an empty Summary.
func Parse(pth string) (Summary, error) {
	content, err := os.ReadFile(pth)
	if errors.Is(err, fs.ErrNotExist) {
		return Summary{}, nil
	} else if err != nil {
		return Summary{}, fmt.Errorf("failed to read junit report (%s): %w", pth, err)
	}

	var document junitTestSuites
	if err := xml.Unmarshal(content, &document); err != nil {
		return Summary{}, fmt.Errorf("failed to parse junit report (%s): %w", pth, err)
	}

	summary := Summary{Tests: document.Tests}
	seen := map[string]bool{}
	for _, suite := range document.TestSuites {
		for _, testCase := range suite.TestCases {
			if len(testCase.Failures) == 0 {
				continue
			}

			name := fmt.Sprintf("%s - %s", testCase.ClassName, testCase.Name)
			if seen[name] {
				continue
			}
			seen[name] = true
			summary.FailedTestCases = append(summary.FailedTestCases, name)
		}
	}

	return summary, nil
}

// ReadReport decodes a JUnit report into the canonical model.
// Test case durations are restored from the time attribute when present.
func ReadReport(pth string) (Report, error) {
	content, err := os.ReadFile(pth)
	if err != nil {
		return Report{}, fmt.Errorf("failed to read junit report (%s): %w", pth, err)
	}

	var document junitTestSuites
	if err := xml.Unmarshal(content, &document); err != nil {
		return Report{}, fmt.Errorf("failed to parse junit report (%s): %w", pth, err)
	}

	var report Report
	for _, junitSuite := range document.TestSuites {
		suite := TestSuite{Name: junitSuite.Name}
		for _, junitCase := range junitSuite.TestCases {
			var duration float64
			if junitCase.Time != "" {
				if duration, err = strconv.ParseFloat(junitCase.Time, 64); err != nil {
					return Report{}, fmt.Errorf("invalid time (%s) of test case %s: %w", junitCase.Time, junitCase.Name, err)
				}
			}

			if len(junitCase.Failures) == 0 {
				suite.TestCases = append(suite.TestCases, NewSuccessfulTestCase(junitCase.Name, duration))
				continue
			}

			failures := make([]Failure, len(junitCase.Failures))
			for i, f := range junitCase.Failures {
				failures[i] = Failure{Message: f.Message, Location: f.Value}
			}
			suite.TestCases = append(suite.TestCases, NewFailedTestCase(junitCase.Name, duration, failures[0], failures[1:]...))
		}
		report.Suites = append(report.Suites, suite)
	}

	return report, nil
}
