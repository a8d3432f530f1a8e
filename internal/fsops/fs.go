// Package fsops provides filesystem operations for pod.
//
// All engine I/O goes through the FS interface. The default implementation
// wraps a go-billy filesystem chrooted at the working tree, so every path the
// engine handles is relative to that root and uses forward slashes.
//
// Key features:
//   - Strict Mkdir for replaying directory creation
//   - Atomic writes using temp file + rename for commit log payloads
//   - Tree copies within one filesystem or across two (export)
//   - Path validation for relative paths read back from the log
package fsops

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// FS provides an abstraction for filesystem operations.
type FS interface {
	// Stat returns file info for path.
	Stat(path string) (os.FileInfo, error)

	// ReadDir lists the entries of a directory, sorted by name.
	ReadDir(path string) ([]os.FileInfo, error)

	// Mkdir creates a directory and fails if anything exists at path.
	Mkdir(path string, perm os.FileMode) error

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string, perm os.FileMode) error

	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)

	// WriteFile creates or truncates path and writes data.
	WriteFile(path string, data []byte, perm os.FileMode) error

	// AtomicWrite writes data to path using temp file + rename.
	AtomicWrite(path string, data []byte, perm os.FileMode) error

	// Remove removes a file or empty directory.
	Remove(path string) error

	// RemoveAll removes a path and all its contents. Missing paths are not an error.
	RemoveAll(path string) error

	// Copy copies a file or directory tree from src to dst.
	Copy(src, dst string) error

	// Exists checks if a path exists.
	Exists(path string) (bool, error)
}

// BillyFS implements FS on top of a go-billy filesystem.
type BillyFS struct {
	fs billy.Filesystem
}

// New wraps an existing billy filesystem.
func New(fs billy.Filesystem) *BillyFS {
	return &BillyFS{fs: fs}
}

// NewRealFS creates a BillyFS over the OS directory root.
func NewRealFS(root string) *BillyFS {
	return New(osfs.New(root))
}

// Stat returns file info for path.
func (b *BillyFS) Stat(path string) (os.FileInfo, error) {
	return b.fs.Stat(path)
}

// ReadDir lists the entries of a directory.
func (b *BillyFS) ReadDir(path string) ([]os.FileInfo, error) {
	return b.fs.ReadDir(path)
}

// Mkdir creates a directory and fails with os.ErrExist if path exists.
func (b *BillyFS) Mkdir(path string, perm os.FileMode) error {
	exists, err := b.Exists(path)
	if err != nil {
		return err
	}
	if exists {
		return &os.PathError{Op: "mkdir", Path: path, Err: os.ErrExist}
	}
	return b.fs.MkdirAll(path, perm)
}

// MkdirAll creates a directory and all parent directories.
func (b *BillyFS) MkdirAll(path string, perm os.FileMode) error {
	return b.fs.MkdirAll(path, perm)
}

// ReadFile reads the entire contents of a file.
func (b *BillyFS) ReadFile(path string) ([]byte, error) {
	return util.ReadFile(b.fs, path)
}

// WriteFile creates or truncates path and writes data.
func (b *BillyFS) WriteFile(path string, data []byte, perm os.FileMode) error {
	return util.WriteFile(b.fs, path, data, perm)
}

// AtomicWrite writes data to path atomically using temp file + rename.
func (b *BillyFS) AtomicWrite(filename string, data []byte, perm os.FileMode) error {
	dir := path.Dir(filename)
	if err := b.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	tmpFile, err := b.fs.TempFile(dir, ".pod-tmp-")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = b.fs.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := b.fs.Rename(tmpPath, filename); err != nil {
		_ = b.fs.Remove(tmpPath)
		tmpFile = nil
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	tmpFile = nil
	return nil
}

// Remove removes a file or empty directory.
func (b *BillyFS) Remove(path string) error {
	return b.fs.Remove(path)
}

// RemoveAll removes a path and all its contents.
func (b *BillyFS) RemoveAll(path string) error {
	return util.RemoveAll(b.fs, path)
}

// Copy copies a file or directory tree from src to dst within this filesystem.
func (b *BillyFS) Copy(src, dst string) error {
	return CopyTree(b, src, b, dst)
}

// Exists checks if a path exists.
func (b *BillyFS) Exists(path string) (bool, error) {
	_, err := b.fs.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// ValidateRelPath rejects empty, absolute and escaping paths.
func ValidateRelPath(relPath string) error {
	cleaned := path.Clean(strings.ReplaceAll(relPath, `\`, "/"))

	if relPath == "" || cleaned == "." {
		return fmt.Errorf("invalid path: empty or current directory")
	}
	if path.IsAbs(cleaned) {
		return fmt.Errorf("invalid path: must be relative, got absolute path %q", relPath)
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return fmt.Errorf("invalid path: path traversal not allowed in %q", relPath)
	}
	return nil
}

// CopyTree copies srcPath from src to dstPath in dst. Directories are
// mirrored recursively; every non-directory entry is copied byte for byte.
func CopyTree(src FS, srcPath string, dst FS, dstPath string) error {
	info, err := src.Stat(srcPath)
	if err != nil {
		return fmt.Errorf("failed to stat source: %w", err)
	}
	if !info.IsDir() {
		return copyFile(src, srcPath, dst, dstPath, info.Mode().Perm())
	}

	if err := dst.MkdirAll(dstPath, 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	entries, err := src.ReadDir(srcPath)
	if err != nil {
		return fmt.Errorf("failed to read source directory: %w", err)
	}

	for _, entry := range entries {
		from := path.Join(srcPath, entry.Name())
		to := path.Join(dstPath, entry.Name())
		if entry.IsDir() {
			if err := CopyTree(src, from, dst, to); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(src, from, dst, to, entry.Mode().Perm()); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src FS, srcPath string, dst FS, dstPath string, perm os.FileMode) error {
	if perm == 0 {
		perm = 0644
	}

	// Stream when both sides are billy filesystems.
	sb, okSrc := src.(*BillyFS)
	db, okDst := dst.(*BillyFS)
	if okSrc && okDst {
		in, err := sb.fs.Open(srcPath)
		if err != nil {
			return fmt.Errorf("failed to open source: %w", err)
		}
		defer func() {
			_ = in.Close()
		}()

		out, err := db.fs.OpenFile(dstPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
		if err != nil {
			return fmt.Errorf("failed to create destination: %w", err)
		}
		if _, err := io.Copy(out, in); err != nil {
			_ = out.Close()
			return fmt.Errorf("failed to copy file contents: %w", err)
		}
		return out.Close()
	}

	data, err := src.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("failed to read source: %w", err)
	}
	if err := dst.WriteFile(dstPath, data, perm); err != nil {
		return fmt.Errorf("failed to write destination: %w", err)
	}
	return nil
}
