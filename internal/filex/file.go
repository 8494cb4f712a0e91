// Package filex contains small filesystem helpers shared by the client.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureSubdDir creates (if needed) a subdirectory of the current working
// directory and returns its absolute path. The client keeps its upload
// manifest database under such a directory.
func EnsureSubdDir(dirName string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// ReadFileBounded reads a file fully, rejecting files larger than maxSize
// before any bytes are buffered.
func ReadFileBounded(path string, maxSize int64) ([]byte, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.Size() > maxSize {
		return nil, fmt.Errorf("%s: file size %d exceeds limit %d", path, fi.Size(), maxSize)
	}

	return os.ReadFile(path)
}
