// Package fsx abstracts the byte store behind uploaded files so that local
// disk and object storage can be swapped without touching callers.
package fsx

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNotExist is returned when the requested path holds no file
	ErrNotExist = errors.New("fsx: file does not exist")

	// ErrInvalidPath is returned for paths that escape the file system root
	ErrInvalidPath = errors.New("fsx: invalid path")
)

// FileReader reads whole files or streams
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	ReadFileStream(ctx context.Context, path string) (io.ReadCloser, error)
}

// FileWriter writes and removes files
type FileWriter interface {
	WriteFile(ctx context.Context, path string, data []byte) error
	WriteFileStream(ctx context.Context, path string, r io.Reader) error

	// DeleteFile removes path. Deleting a missing file is not an error.
	DeleteFile(ctx context.Context, path string) error
}

// FileSystem is a rooted, slash-separated file store
type FileSystem interface {
	FileReader
	FileWriter

	Exists(ctx context.Context, path string) (bool, error)
	Join(elem ...string) string
}
