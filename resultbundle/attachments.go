package resultbundle

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// AttachmentsDirName is the directory next to the test summaries holding the screenshots of UI tests.
const AttachmentsDirName = "Attachments"

const (
	attachmentTimeFormat   = "2006-01-02_03-04-05"
	failedAttachmentsDir   = "Failures"
	legacyScreenshotPrefix = "Screenshot_"
)

// Timestamps of the test summaries are seconds since this date.
var referenceDate = time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)

// Attachment is a file attached to a UI test activity.
type Attachment struct {
	FileName string
	Created  time.Time
}

// Activity is a step of a UI test.
type Activity struct {
	Title         string
	UUID          string
	Attachments   []Attachment
	SubActivities []Activity
}

type activitySummary struct {
	Title             string            `plist:"Title"`
	UUID              string            `plist:"UUID"`
	StartTimeInterval float64           `plist:"StartTimeInterval"`
	HasScreenshotData bool              `plist:"HasScreenshotData"`
	Attachments       []attachment      `plist:"Attachments"`
	SubActivities     []activitySummary `plist:"SubActivities"`
}

type attachment struct {
	Filename  string  `plist:"Filename"`
	Timestamp float64 `plist:"Timestamp"`
}

func toActivities(summaries []activitySummary) []Activity {
	var activities []Activity
	for _, summary := range summaries {
		activity := Activity{
			Title:         summary.Title,
			UUID:          summary.UUID,
			SubActivities: toActivities(summary.SubActivities),
		}

		switch {
		case len(summary.Attachments) > 0:
			for _, a := range summary.Attachments {
				activity.Attachments = append(activity.Attachments, Attachment{
					FileName: a.Filename,
					Created:  timestampToTime(a.Timestamp),
				})
			}
		case summary.HasScreenshotData:
			// Older Xcode versions name the screenshot after the activity, its format is not recorded.
			for _, ext := range []string{"png", "jpg"} {
				activity.Attachments = append(activity.Attachments, Attachment{
					FileName: fmt.Sprintf("%s%s.%s", legacyScreenshotPrefix, summary.UUID, ext),
					Created:  timestampToTime(summary.StartTimeInterval),
				})
			}
		}

		activities = append(activities, activity)
	}
	return activities
}

func timestampToTime(timestamp float64) time.Time {
	return referenceDate.Add(time.Duration(timestamp * float64(time.Second)))
}

// RenameAttachments gives the attachments of every action in the bundle a descriptive name:
// Screenshot_<uuid>.png becomes <test id>_<created>_<activity title>_<uuid>.png.
// Attachments of failed tests are moved into a Failures directory.
// It returns the attachment directories with at least one renamed file.
func RenameAttachments(bundlePath string) ([]string, error) {
	pattern := filepath.Join(bundlePath, "*", TestSummariesFileName)
	summaryPaths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search for test summaries (%s): %w", pattern, err)
	}
	sort.Strings(summaryPaths)

	var attachmentDirs []string
	var renameErrs []error
	for _, summaryPath := range summaryPaths {
		attachmentDir := filepath.Join(filepath.Dir(summaryPath), AttachmentsDirName)
		if info, err := os.Stat(attachmentDir); err != nil || !info.IsDir() {
			continue
		}

		groups, err := extractFile(summaryPath)
		if err != nil {
			return attachmentDirs, err
		}

		renamed, err := commitRenames(renamePlan(groups, attachmentDir))
		if err != nil {
			renameErrs = append(renameErrs, err)
		}
		if renamed > 0 {
			attachmentDirs = append(attachmentDirs, attachmentDir)
		}
	}

	return attachmentDirs, errors.Join(renameErrs...)
}

func renamePlan(groups []Group, attachmentDir string) map[string]string {
	plan := map[string]string{}
	for _, group := range groups {
		for _, test := range group.Tests {
			testID := test.Identifier
			if testID == "" {
				testID = group.Name + "/" + test.Name
			}

			targetDir := attachmentDir
			if !test.Successful() {
				targetDir = filepath.Join(attachmentDir, failedAttachmentsDir)
			}

			for _, activity := range flattenActivities(test.Activities) {
				for _, a := range activity.Attachments {
					name := fmt.Sprintf("%s_%s_%s_%s%s",
						replaceUnsupportedFilenameCharacters(testID),
						a.Created.Format(attachmentTimeFormat),
						replaceUnsupportedFilenameCharacters(activity.Title),
						activity.UUID,
						filepath.Ext(a.FileName),
					)
					plan[filepath.Join(attachmentDir, a.FileName)] = filepath.Join(targetDir, name)
				}
			}
		}
	}
	return plan
}

func flattenActivities(activities []Activity) []Activity {
	var flattened []Activity
	for _, activity := range activities {
		if len(activity.Attachments) > 0 {
			flattened = append(flattened, activity)
		}
		flattened = append(flattened, flattenActivities(activity.SubActivities)...)
	}
	return flattened
}

// commitRenames skips the files missing from the plan, both formats of a legacy screenshot are planned.
func commitRenames(plan map[string]string) (int, error) {
	sources := make([]string, 0, len(plan))
	for source := range plan {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	renamed := 0
	var errs []error
	for _, source := range sources {
		target := plan[source]
		if _, err := os.Stat(source); errors.Is(err, os.ErrNotExist) {
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			errs = append(errs, fmt.Errorf("failed to create attachment directory: %w", err))
			continue
		}
		if err := os.Rename(source, target); err != nil {
			errs = append(errs, fmt.Errorf("failed to rename attachment (%s): %w", filepath.Base(source), err))
			continue
		}
		renamed++
	}

	return renamed, errors.Join(errs...)
}

// replaceUnsupportedFilenameCharacters replaces the characters macOS does not allow in file names.
func replaceUnsupportedFilenameCharacters(s string) string {
	return strings.NewReplacer("/", "-", ":", "-").Replace(s)
}
