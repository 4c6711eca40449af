package resultbundle

import (
	"fmt"
	"strings"
)

// UnsupportedFormatVersionError is returned for test summaries written in a format this package does not understand.
type UnsupportedFormatVersionError struct {
	Path      string
	Version   string
	Supported []string
}

func (e *UnsupportedFormatVersionError) Error() string {
	return fmt.Sprintf("result bundle format version %q of %s is unsupported, supported versions: %s", e.Version, e.Path, strings.Join(e.Supported, ", "))
}

// UnexpectedObjectClassError is returned when a node of the test hierarchy has a different type than its depth requires.
type UnexpectedObjectClassError struct {
	Path     string
	Depth    int
	Expected string
	Got      string
}

func (e *UnexpectedObjectClassError) Error() string {
	return fmt.Sprintf("expecting %s object at %s (depth %d), but got %q", e.Expected, e.Path, e.Depth, e.Got)
}

// MissingRunDestinationError is returned when the test summaries do not tell which device the tests ran on.
type MissingRunDestinationError struct {
	Path string
	Key  string
}

func (e *MissingRunDestinationError) Error() string {
	return fmt.Sprintf("%s of %s is missing", e.Key, e.Path)
}
