package archive

import (
	"archive/tar"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/CXPhoenix/ResQrypt/internal/resqerr"
)

func TestPackUnpackRoundtrip(t *testing.T) {
	src := t.TempDir()
	if err := os.WriteFile(filepath.Join(src, "a.txt"), []byte("A"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(src, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "sub", "b.txt"), []byte("BB"), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := Pack(src)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Pack returned empty archive")
	}

	dst := t.TempDir()
	if err := Unpack(data, dst); err != nil {
		t.Fatalf("Unpack: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dst, "a.txt"))
	if err != nil || string(got) != "A" {
		t.Errorf("a.txt = %q, %v, want %q", got, err, "A")
	}
	got, err = os.ReadFile(filepath.Join(dst, "sub", "b.txt"))
	if err != nil || string(got) != "BB" {
		t.Errorf("sub/b.txt = %q, %v, want %q", got, err, "BB")
	}
}

func TestUnpackRejectsAbsolutePath(t *testing.T) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	if err := tw.WriteHeader(&tar.Header{Name: "/etc/passwd", Mode: 0o644, Size: 1, Typeflag: tar.TypeReg}); err != nil {
		t.Fatal(err)
	}
	tw.Write([]byte("x"))
	tw.Close()

	dst := t.TempDir()
	err := Unpack(buf.Bytes(), dst)
	if !errors.Is(err, resqerr.ErrUnsafeArchive) {
		t.Errorf("Unpack absolute path: got %v, want ErrUnsafeArchive", err)
	}
}

func TestUnpackRejectsParentEscape(t *testing.T) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	if err := tw.WriteHeader(&tar.Header{Name: "../escape.txt", Mode: 0o644, Size: 1, Typeflag: tar.TypeReg}); err != nil {
		t.Fatal(err)
	}
	tw.Write([]byte("x"))
	tw.Close()

	dst := t.TempDir()
	err := Unpack(buf.Bytes(), dst)
	if !errors.Is(err, resqerr.ErrUnsafeArchive) {
		t.Errorf("Unpack parent escape: got %v, want ErrUnsafeArchive", err)
	}
}

func TestPackPreservesEmptyDirectory(t *testing.T) {
	src := t.TempDir()
	if err := os.MkdirAll(filepath.Join(src, "empty"), 0o755); err != nil {
		t.Fatal(err)
	}

	data, err := Pack(src)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}

	dst := t.TempDir()
	if err := Unpack(data, dst); err != nil {
		t.Fatalf("Unpack: %v", err)
	}

	info, err := os.Stat(filepath.Join(dst, "empty"))
	if err != nil || !info.IsDir() {
		t.Errorf("expected empty directory to be preserved, err=%v", err)
	}
}
