// Package storage handles all filesystem I/O for ResQrypt containers:
// reading plaintext/ciphertext inputs and writing outputs atomically.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/CXPhoenix/ResQrypt/internal/resqerr"
)

// FileExists reports whether path exists, regardless of type.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ValidatePath rejects the empty path; cleaning is left to the caller's
// filepath.Join so relative and absolute inputs both work.
func ValidatePath(path string) error {
	if path == "" {
		return resqerr.Wrap(resqerr.ErrIo, "RESQ_EMPTY_PATH", "path must not be empty", nil)
	}
	return nil
}

// ReadFile reads the full contents of path into memory.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, resqerr.IoError(path, err)
	}
	return data, nil
}

// WriteContainerAtomic writes data to path via a temp file in the same
// directory followed by a rename, so a crash mid-write never leaves a
// half-written container at the final path. overwrite must be true for
// an existing path to be replaced.
func WriteContainerAtomic(path string, data []byte, overwrite bool) error {
	if FileExists(path) && !overwrite {
		return resqerr.Wrap(resqerr.ErrOutputExists, "RESQ_OUTPUT_EXISTS",
			fmt.Sprintf("output already exists: %s", path), nil)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return resqerr.IoError(dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return resqerr.IoError(dir, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return resqerr.IoError(tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return resqerr.IoError(tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return resqerr.IoError(tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return resqerr.IoError(path, err)
	}
	return nil
}
