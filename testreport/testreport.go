package testreport

// Failure is a single assertion failure reported by a test case.
type Failure struct {
	Message string
	// Location is the "file:line" of the failing assertion, empty if unknown.
	Location string
}

// TestCase ...
type TestCase struct {
	Name string
	// Duration in seconds.
	Duration float64
	Failures []Failure
}

// NewSuccessfulTestCase ...
func NewSuccessfulTestCase(name string, duration float64) TestCase {
	return TestCase{Name: name, Duration: duration}
}

// NewFailedTestCase returns a test case that failed with the given failure and any additional ones.
func NewFailedTestCase(name string, duration float64, failure Failure, more ...Failure) TestCase {
	return TestCase{
		Name:     name,
		Duration: duration,
		Failures: append([]Failure{failure}, more...),
	}
}

// Successful reports whether the test case has no failure records.
func (c TestCase) Successful() bool {
	return len(c.Failures) == 0
}

// TestSuite ...
type TestSuite struct {
	Name      string
	TestCases []TestCase
}

// Tests ...
func (s TestSuite) Tests() int {
	return len(s.TestCases)
}

// Failures returns the number of failed test cases of the suite.
func (s TestSuite) Failures() int {
	failures := 0
	for _, testCase := range s.TestCases {
		if !testCase.Successful() {
			failures++
		}
	}
	return failures
}

// Report is the format independent view of a test run.
type Report struct {
	Suites []TestSuite
}

// Tests ...
func (r Report) Tests() int {
	tests := 0
	for _, suite := range r.Suites {
		tests += suite.Tests()
	}
	return tests
}

// Failures ...
func (r Report) Failures() int {
	failures := 0
	for _, suite := range r.Suites {
		failures += suite.Failures()
	}
	return failures
}
