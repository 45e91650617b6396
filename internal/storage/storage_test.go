package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/CXPhoenix/ResQrypt/internal/resqerr"
)

func TestWriteContainerAtomicCreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.resqrypt")

	if err := WriteContainerAtomic(path, []byte("payload"), false); err != nil {
		t.Fatalf("WriteContainerAtomic: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil || !bytes.Equal(got, []byte("payload")) {
		t.Errorf("ReadFile = %q, %v, want %q", got, err, "payload")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the final file to remain, found %d entries", len(entries))
	}
}

func TestWriteContainerAtomicRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.resqrypt")
	if err := os.WriteFile(path, []byte("existing"), 0o600); err != nil {
		t.Fatal(err)
	}

	err := WriteContainerAtomic(path, []byte("new"), false)
	if !errors.Is(err, resqerr.ErrOutputExists) {
		t.Errorf("got %v, want ErrOutputExists", err)
	}
}

func TestWriteContainerAtomicOverwriteAllowed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.resqrypt")
	if err := os.WriteFile(path, []byte("existing"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := WriteContainerAtomic(path, []byte("new"), true); err != nil {
		t.Fatalf("WriteContainerAtomic with overwrite: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil || !bytes.Equal(got, []byte("new")) {
		t.Errorf("ReadFile = %q, %v, want %q", got, err, "new")
	}
}

func TestFileExistsAndIsDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	if !FileExists(file) || IsDir(file) {
		t.Error("file should exist and not be a directory")
	}
	if !FileExists(dir) || !IsDir(dir) {
		t.Error("temp dir should exist and be a directory")
	}
	if FileExists(filepath.Join(dir, "missing")) {
		t.Error("missing path should not exist")
	}
}
