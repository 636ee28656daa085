package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
)

func Exists(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return true, nil
	} else if os.IsNotExist(err) {
		return false, nil
	} else {
		return false, fmt.Errorf("Failed to determine if %s exists: %w", path, err)
	}
}

// IsEmpty reports whether path is an empty directory. A missing path counts as empty.
func IsEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return true, nil
		}
		return false, err
	}
	return len(entries) == 0, nil
}

func IsDir(path string) (bool, error) {
	file, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return file.Mode().IsDir(), nil
}

// ModTime returns the modification time of path, or the zero time if it does not exist.
func ModTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// ExpandPath expands a leading ~ and makes the path absolute.
func ExpandPath(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(expanded)
}

// WriteIfDifferent writes content to file unless the file already holds exactly that content.
func WriteIfDifferent(fs afero.Fs, file, content string) error {
	bs, err := afero.ReadFile(fs, file)
	switch {
	case err == nil && string(bs) == content:
		return nil
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return err
	}
	return afero.WriteFile(fs, file, []byte(content), 0o644)
}
