package xcodebuild

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"github.com/acarl005/stripansi"
	"gopkg.in/yaml.v3"
)

//go:embed signatures.yml
var signaturesContent []byte

// Signature is a known transient failure of xcodebuild or the simulator.
type Signature struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`

	expression *regexp.Regexp
}

type signatureTable struct {
	Transient []Signature `yaml:"transient"`
	Noise     []string    `yaml:"noise"`
}

var transientSignatures, noiseExpressions = mustLoadSignatures(signaturesContent)

func mustLoadSignatures(content []byte) ([]Signature, []*regexp.Regexp) {
	transient, noise, err := loadSignatures(content)
	if err != nil {
		panic(err)
	}
	return transient, noise
}

func loadSignatures(content []byte) ([]Signature, []*regexp.Regexp, error) {
	var table signatureTable
	if err := yaml.Unmarshal(content, &table); err != nil {
		return nil, nil, fmt.Errorf("failed to parse error signatures: %w", err)
	}

	for i, signature := range table.Transient {
		expression, err := regexp.Compile("(?i)" + signature.Pattern)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid pattern of error signature (%s): %w", signature.Name, err)
		}
		table.Transient[i].expression = expression
	}

	var noise []*regexp.Regexp
	for _, pattern := range table.Noise {
		expression, err := regexp.Compile(pattern)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid noise pattern (%s): %w", pattern, err)
		}
		noise = append(noise, expression)
	}

	return table.Transient, noise, nil
}

// FindTransientError returns the first known transient failure signature found in the stderr lines.
// Signatures are evaluated in table order.
func FindTransientError(stderr []string) (Signature, bool) {
	return findSignature(transientSignatures, stderr)
}

func findSignature(signatures []Signature, stderr []string) (Signature, bool) {
	lines := make([]string, len(stderr))
	for i, line := range stderr {
		lines[i] = stripansi.Strip(line)
	}

	for _, signature := range signatures {
		for _, line := range lines {
			if signature.expression.MatchString(line) {
				return signature, true
			}
		}
	}
	return Signature{}, false
}

// IsTransient ...
func IsTransient(stderr []string) bool {
	_, found := FindTransientError(stderr)
	return found
}

// FilterNoise drops blank lines and uninformative framework chatter, the rest is returned without color codes.
func FilterNoise(stderr []string) []string {
	return filterLines(noiseExpressions, stderr)
}

func filterLines(noise []*regexp.Regexp, stderr []string) []string {
	var filtered []string
	for _, line := range stderr {
		line = stripansi.Strip(line)
		if strings.TrimSpace(line) == "" || matchesAny(noise, line) {
			continue
		}
		filtered = append(filtered, line)
	}
	return filtered
}

func matchesAny(expressions []*regexp.Regexp, line string) bool {
	for _, expression := range expressions {
		if expression.MatchString(line) {
			return true
		}
	}
	return false
}
