package fileremover

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileRemover ...
type FileRemover interface {
	Remove(name string) error
	RemoveAll(path string) error
	RemoveMatching(root, pattern string) ([]string, error)
}

type fileRemover struct{}

// NewFileRemover ...
func NewFileRemover() FileRemover {
	return fileRemover{}
}

func (r fileRemover) Remove(name string) error {
	return os.Remove(name)
}

func (r fileRemover) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// RemoveMatching removes the regular files under root whose name matches the shell pattern.
// It returns the removed paths.
func (r fileRemover) RemoveMatching(root, pattern string) ([]string, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid pattern (%s): %w", pattern, err)
	}

	var removed []string
	err := filepath.WalkDir(root, func(pth string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.Type().IsRegular() {
			return nil
		}

		if matched, _ := filepath.Match(pattern, entry.Name()); !matched {
			return nil
		}
		if err := os.Remove(pth); err != nil {
			return err
		}
		removed = append(removed, pth)
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("failed to remove %s files from %s: %w", pattern, root, err)
	}

	return removed, nil
}
