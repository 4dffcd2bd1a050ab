// Package filesystem holds path helpers for locating configuration and writing rendered pages.
package filesystem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Common file system errors
var (
	ErrDirNotFound = errors.New("directory not found")
)

// GetDefaultPath returns a default file path in the executable directory
func GetDefaultPath(filename string) (string, error) {
	exePath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}

	exeDir := filepath.Dir(exePath)
	return filepath.Join(exeDir, filename), nil
}

// ResolvePath returns path unchanged if it is absolute or exists relative to
// the working directory. Otherwise it returns the same name next to the
// executable when a file exists there, and path itself when neither exists.
func ResolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	if execPath, err := GetDefaultPath(path); err == nil {
		if _, err := os.Stat(execPath); err == nil {
			return execPath
		}
	}
	return path
}

// EnsureDirectoryExists creates the directory for the given file path if it doesn't exist
func EnsureDirectoryExists(filePath string) error {
	dir := filepath.Dir(filePath)
	if dir == "." {
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrDirNotFound, dir)
		}
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	return nil
}

// WriteFile writes data to path, creating parent directories as needed
func WriteFile(path string, data []byte) error {
	if err := EnsureDirectoryExists(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
