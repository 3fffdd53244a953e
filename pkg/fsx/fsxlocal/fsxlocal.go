package fsxlocal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/fsx"
)

// LocalFileSystem implements fsx.FileSystem on a directory of the local disk.
// Every access goes through an os.Root so that no path, symlink or ".." can
// reach outside the base directory.
type LocalFileSystem struct {
	baseDir string
	root    *os.Root
}

var _ fsx.FileSystem = (*LocalFileSystem)(nil)

// NewLocalFileSystem creates baseDir if needed and opens it as the root
func NewLocalFileSystem(baseDir string) (*LocalFileSystem, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir %s: %w", baseDir, err)
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", abs, err)
	}

	root, err := os.OpenRoot(abs)
	if err != nil {
		return nil, fmt.Errorf("open upload dir %s: %w", abs, err)
	}

	return &LocalFileSystem{baseDir: abs, root: root}, nil
}

// BaseDir returns the absolute directory backing the file system
func (l *LocalFileSystem) BaseDir() string {
	return l.baseDir
}

// Close releases the root handle
func (l *LocalFileSystem) Close() error {
	return l.root.Close()
}

func (l *LocalFileSystem) Join(elem ...string) string {
	return path.Join(elem...)
}

func (l *LocalFileSystem) ReadFile(ctx context.Context, p string) ([]byte, error) {
	rc, err := l.ReadFileStream(ctx, p)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

func (l *LocalFileSystem) ReadFileStream(ctx context.Context, p string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name, err := clean(p)
	if err != nil {
		return nil, err
	}

	f, err := l.root.Open(name)
	if err != nil {
		return nil, mapErr(err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, mapErr(err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fsx.ErrNotExist
	}

	return f, nil
}

func (l *LocalFileSystem) WriteFile(ctx context.Context, p string, data []byte) error {
	return l.WriteFileStream(ctx, p, bytes.NewReader(data))
}

func (l *LocalFileSystem) WriteFileStream(ctx context.Context, p string, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name, err := clean(p)
	if err != nil {
		return err
	}

	if dir := path.Dir(name); dir != "." {
		if err := l.root.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	f, err := l.root.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open %s for writing: %w", name, mapErr(err))
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}

	return f.Close()
}

func (l *LocalFileSystem) DeleteFile(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name, err := clean(p)
	if err != nil {
		return err
	}

	if err := l.root.Remove(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}

func (l *LocalFileSystem) Exists(ctx context.Context, p string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	name, err := clean(p)
	if err != nil {
		return false, err
	}

	info, err := l.root.Stat(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// clean turns a slash-separated path into a root-relative local name
func clean(p string) (string, error) {
	p = strings.TrimPrefix(p, "/")
	if p == "" || strings.Contains(p, "\\") {
		return "", fsx.ErrInvalidPath
	}

	name := path.Clean(p)
	if !filepath.IsLocal(filepath.FromSlash(name)) {
		return "", fsx.ErrInvalidPath
	}
	return name, nil
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fsx.ErrNotExist
	case strings.Contains(err.Error(), "path escapes from parent"):
		return fsx.ErrInvalidPath
	default:
		return err
	}
}
