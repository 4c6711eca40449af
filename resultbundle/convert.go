package resultbundle

import (
	"fmt"

	"github.com/bitrise-steplib/steps-xcodebuild-junit/testreport"
)

// Convert builds the test report of the groups, one suite per group.
// A failed test with several failure summaries becomes one failed test case per failure, all sharing the test's name.
func Convert(groups []Group) testreport.Report {
	var report testreport.Report
	for _, group := range groups {
		suite := testreport.TestSuite{Name: group.Name + " - " + group.Device}
		for _, test := range group.Tests {
			suite.TestCases = append(suite.TestCases, toTestCases(test)...)
		}
		report.Suites = append(report.Suites, suite)
	}
	return report
}

func toTestCases(test TestSummary) []testreport.TestCase {
	if test.Successful() {
		return []testreport.TestCase{testreport.NewSuccessfulTestCase(test.Name, test.Duration)}
	}

	if len(test.Failures) == 0 {
		failure := testreport.Failure{Message: fmt.Sprintf("Test finished with status %s", test.Status)}
		return []testreport.TestCase{testreport.NewFailedTestCase(test.Name, test.Duration, failure)}
	}

	var testCases []testreport.TestCase
	for _, failure := range test.Failures {
		testCases = append(testCases, testreport.NewFailedTestCase(test.Name, test.Duration, testreport.Failure{
			Message:  failure.Message,
			Location: failure.Location(),
		}))
	}
	return testCases
}

// WriteJUnit converts the result bundle into a JUnit report at junitPath.
// Nothing is written if the bundle can not be extracted.
func WriteJUnit(bundlePath, junitPath string) (testreport.Report, error) {
	groups, err := Extract(bundlePath)
	if err != nil {
		return testreport.Report{}, err
	}

	report := Convert(groups)
	if err := testreport.Write(report, junitPath); err != nil {
		return testreport.Report{}, err
	}

	return report, nil
}
