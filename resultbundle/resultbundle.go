package resultbundle

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"howett.net/plist"
)

// TestSummariesFileName is written by xcodebuild into every action directory of the result bundle.
const TestSummariesFileName = "action_TestSummaries.plist"

// SupportedFormatVersions ...
var SupportedFormatVersions = []string{"1.2"}

// Test object classes of the test hierarchy, from the root down to the test cases.
const (
	testableSummaryClass  = "IDESchemeActionTestableSummary"
	testSummaryGroupClass = "IDESchemeActionTestSummaryGroup"
	testSummaryClass      = "IDESchemeActionTestSummary"
)

const successStatus = "Success"

// FailureSummary ...
type FailureSummary struct {
	FileName   string
	LineNumber int
	Message    string
}

// Location returns the "file:line" of the failure.
func (s FailureSummary) Location() string {
	return fmt.Sprintf("%s:%d", s.FileName, s.LineNumber)
}

// TestSummary is a single test case run.
type TestSummary struct {
	Name       string
	Identifier string
	Duration   float64
	Status     string
	Failures   []FailureSummary
	Activities []Activity
}

// Successful ...
func (s TestSummary) Successful() bool {
	return s.Status == successStatus
}

// Group is a test class with the device it ran on.
type Group struct {
	Name   string
	Device string
	Tests  []TestSummary
}

type testSummaries struct {
	FormatVersion     string          `plist:"FormatVersion"`
	RunDestination    *runDestination `plist:"RunDestination"`
	TestableSummaries []testObject    `plist:"TestableSummaries"`
}

type runDestination struct {
	TargetDevice *targetDevice `plist:"TargetDevice"`
}

type targetDevice struct {
	ModelName                             string    `plist:"ModelName"`
	OperatingSystemVersionWithBuildNumber string    `plist:"OperatingSystemVersionWithBuildNumber"`
	Platform                              *platform `plist:"Platform"`
}

type platform struct {
	Name string `plist:"Name"`
}

type testObject struct {
	TestObjectClass   string            `plist:"TestObjectClass"`
	TestName          string            `plist:"TestName"`
	TestIdentifier    string            `plist:"TestIdentifier"`
	Duration          interface{}       `plist:"Duration"`
	TestStatus        string            `plist:"TestStatus"`
	FailureSummaries  []failureSummary  `plist:"FailureSummaries"`
	ActivitySummaries []activitySummary `plist:"ActivitySummaries"`
	Tests             []testObject      `plist:"Tests"`
	Subtests          []testObject      `plist:"Subtests"`
}

type failureSummary struct {
	FileName   string `plist:"FileName"`
	LineNumber int    `plist:"LineNumber"`
	Message    string `plist:"Message"`
}

// node is a test object together with its position in the hierarchy.
type node struct {
	object testObject
	path   string
}

// Extract reads the test summaries of the result bundle and returns the test classes in the order they were run.
// A bundle without test summaries yields no groups.
func Extract(bundlePath string) ([]Group, error) {
	pattern := filepath.Join(bundlePath, "*", TestSummariesFileName)
	summaryPaths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search for test summaries (%s): %w", pattern, err)
	}
	sort.Strings(summaryPaths)

	var groups []Group
	for _, summaryPath := range summaryPaths {
		summaryGroups, err := extractFile(summaryPath)
		if err != nil {
			return nil, err
		}
		groups = append(groups, summaryGroups...)
	}

	return groups, nil
}

func extractFile(pth string) ([]Group, error) {
	content, err := os.ReadFile(pth)
	if err != nil {
		return nil, fmt.Errorf("failed to read test summaries: %w", err)
	}

	var summaries testSummaries
	if _, err := plist.Unmarshal(content, &summaries); err != nil {
		return nil, fmt.Errorf("failed to parse test summaries (%s): %w", pth, err)
	}

	if !isSupportedFormatVersion(summaries.FormatVersion) {
		return nil, &UnsupportedFormatVersionError{
			Path:      pth,
			Version:   summaries.FormatVersion,
			Supported: SupportedFormatVersions,
		}
	}

	device, err := deviceDescription(pth, summaries.RunDestination)
	if err != nil {
		return nil, err
	}

	testableSummaries := make([]node, len(summaries.TestableSummaries))
	for i, object := range summaries.TestableSummaries {
		testableSummaries[i] = node{object: object, path: fmt.Sprintf("TestableSummaries[%d]", i)}
	}
	if err := verifyObjectClass(pth, 0, testableSummaryClass, testableSummaries); err != nil {
		return nil, err
	}

	level := children(testableSummaries, func(object testObject) []testObject { return object.Tests }, "Tests")
	for depth := 1; depth <= 3; depth++ {
		if err := verifyObjectClass(pth, depth, testSummaryGroupClass, level); err != nil {
			return nil, err
		}
		if depth < 3 {
			level = children(level, subtests, "Subtests")
		}
	}

	var groups []Group
	for _, groupNode := range level {
		leaves := children([]node{groupNode}, subtests, "Subtests")
		if err := verifyObjectClass(pth, 4, testSummaryClass, leaves); err != nil {
			return nil, err
		}

		group := Group{Name: groupNode.object.TestName, Device: device}
		for _, leaf := range leaves {
			test, err := toTestSummary(pth, leaf)
			if err != nil {
				return nil, err
			}
			group.Tests = append(group.Tests, test)
		}
		groups = append(groups, group)
	}

	return groups, nil
}

func subtests(object testObject) []testObject {
	return object.Subtests
}

func children(parents []node, childrenOf func(testObject) []testObject, key string) []node {
	var nodes []node
	for _, parent := range parents {
		for i, child := range childrenOf(parent.object) {
			nodes = append(nodes, node{object: child, path: fmt.Sprintf("%s.%s[%d]", parent.path, key, i)})
		}
	}
	return nodes
}

func verifyObjectClass(pth string, depth int, expected string, nodes []node) error {
	for _, n := range nodes {
		if n.object.TestObjectClass != expected {
			return &UnexpectedObjectClassError{
				Path:     pth + ": " + n.path,
				Depth:    depth,
				Expected: expected,
				Got:      n.object.TestObjectClass,
			}
		}
	}
	return nil
}

func toTestSummary(pth string, leaf node) (TestSummary, error) {
	object := leaf.object
	duration, err := seconds(object.Duration)
	if err != nil {
		return TestSummary{}, fmt.Errorf("invalid duration of %s: %s: %w", pth, leaf.path, err)
	}

	summary := TestSummary{
		Name:       object.TestName,
		Identifier: object.TestIdentifier,
		Duration:   duration,
		Status:     object.TestStatus,
		Activities: toActivities(object.ActivitySummaries),
	}
	for _, failure := range object.FailureSummaries {
		summary.Failures = append(summary.Failures, FailureSummary{
			FileName:   failure.FileName,
			LineNumber: failure.LineNumber,
			Message:    failure.Message,
		})
	}
	return summary, nil
}

// seconds converts a plist real or integer duration, a missing duration is zero.
func seconds(value interface{}) (float64, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("unexpected type %T", value)
	}
}

func isSupportedFormatVersion(formatVersion string) bool {
	return slices.Contains(SupportedFormatVersions, formatVersion)
}

// deviceDescription returns a label like "iPhone 8 - iOS Simulator - 11.4 (15F79)".
// Physical devices report the bare "iOS" platform, those get a " Device" suffix.
func deviceDescription(pth string, destination *runDestination) (string, error) {
	if destination == nil {
		return "", &MissingRunDestinationError{Path: pth, Key: "RunDestination"}
	}
	device := destination.TargetDevice
	if device == nil {
		return "", &MissingRunDestinationError{Path: pth, Key: "RunDestination.TargetDevice"}
	}
	if device.ModelName == "" {
		return "", &MissingRunDestinationError{Path: pth, Key: "RunDestination.TargetDevice.ModelName"}
	}
	if device.Platform == nil || device.Platform.Name == "" {
		return "", &MissingRunDestinationError{Path: pth, Key: "RunDestination.TargetDevice.Platform.Name"}
	}

	platformName := device.Platform.Name
	if !strings.Contains(platformName, "Simulator") {
		platformName += " Device"
	}

	return strings.Join([]string{device.ModelName, platformName, device.OperatingSystemVersionWithBuildNumber}, " - "), nil
}
