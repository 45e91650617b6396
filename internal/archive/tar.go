// Package archive packs a directory tree into a single tar byte stream
// and unpacks it back, rejecting any entry that would escape the
// destination root.
package archive

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/CXPhoenix/ResQrypt/internal/resqerr"
)

// Pack walks dir and writes a POSIX tar stream of its contents, with
// entry names relative to dir. Empty directories and symlinks are
// preserved.
func Pack(dir string) ([]byte, error) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == dir {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		info, err := d.Info()
		if err != nil {
			return err
		}

		var link string
		if info.Mode()&os.ModeSymlink != 0 {
			link, err = os.Readlink(path)
			if err != nil {
				return err
			}
		}

		hdr, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return err
		}
		hdr.Name = rel
		if d.IsDir() {
			hdr.Name += "/"
		}

		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}

		if info.Mode().IsRegular() {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			if _, err := io.Copy(tw, f); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, resqerr.IoError(dir, err)
	}

	if err := tw.Close(); err != nil {
		return nil, resqerr.IoError(dir, err)
	}
	return buf.Bytes(), nil
}

// Unpack materializes a tar stream under dest, creating dest if needed.
// Any entry with an absolute path or a ".." path component is rejected
// with ErrUnsafeArchive before anything is written.
func Unpack(data []byte, dest string) error {
	scan := tar.NewReader(bytes.NewReader(data))
	for {
		hdr, err := scan.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return resqerr.Wrap(resqerr.ErrIo, "RESQ_TAR_READ", "failed to read archive entry", err)
		}
		if _, err := safeJoin(dest, hdr.Name); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return resqerr.IoError(dest, err)
	}

	tr := tar.NewReader(bytes.NewReader(data))
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return resqerr.Wrap(resqerr.ErrIo, "RESQ_TAR_READ", "failed to read archive entry", err)
		}

		target, err := safeJoin(dest, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return resqerr.IoError(target, err)
			}
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return resqerr.IoError(target, err)
			}
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return resqerr.IoError(target, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return resqerr.IoError(target, err)
			}
			f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(hdr.Mode)&0o777)
			if err != nil {
				return resqerr.IoError(target, err)
			}
			if _, err := io.Copy(f, tr); err != nil {
				f.Close()
				return resqerr.IoError(target, err)
			}
			if err := f.Close(); err != nil {
				return resqerr.IoError(target, err)
			}
		default:
			// Device, FIFO, and other entry types are skipped; only
			// regular files, directories, and symlinks are restored.
		}
	}
}

// safeJoin resolves name against dest and verifies the result stays
// under dest, rejecting absolute paths and parent-escaping components.
func safeJoin(dest, name string) (string, error) {
	if filepath.IsAbs(name) {
		return "", resqerr.Wrap(resqerr.ErrUnsafeArchive, "RESQ_UNSAFE_ARCHIVE",
			fmt.Sprintf("archive entry escapes destination: %q", name), nil)
	}
	for _, part := range strings.Split(filepath.ToSlash(name), "/") {
		if part == ".." {
			return "", resqerr.Wrap(resqerr.ErrUnsafeArchive, "RESQ_UNSAFE_ARCHIVE",
				fmt.Sprintf("archive entry escapes destination: %q", name), nil)
		}
	}

	target := filepath.Join(dest, name)
	destClean := filepath.Clean(dest) + string(os.PathSeparator)
	if target != filepath.Clean(dest) && !strings.HasPrefix(target+string(os.PathSeparator), destClean) {
		return "", resqerr.Wrap(resqerr.ErrUnsafeArchive, "RESQ_UNSAFE_ARCHIVE",
			fmt.Sprintf("archive entry escapes destination: %q", name), nil)
	}
	return target, nil
}
