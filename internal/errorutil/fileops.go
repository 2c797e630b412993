package errorutil

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
)

// FileError carries the operation and path of a failed file access.
type FileError struct {
	Operation  string // read, write, rename, remove ...
	Path       string
	Underlying error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s operation failed for %s: %v", e.Operation, e.Path, e.Underlying)
}

func (e *FileError) Unwrap() error {
	return e.Underlying
}

// NewFileError wraps err with operation and path context.
func NewFileError(operation, path string, err error) *FileError {
	return &FileError{
		Operation:  operation,
		Path:       path,
		Underlying: err,
	}
}

// LogFileError logs fileErr with its classification and returns it.
func LogFileError(logger *slog.Logger, fileErr *FileError) *FileError {
	if logger == nil {
		return fileErr
	}

	attrs := []slog.Attr{
		slog.String("operation", fileErr.Operation),
		slog.String("file_path", fileErr.Path),
		slog.String("error", fileErr.Underlying.Error()),
		slog.String("error_type", ClassifyFileError(fileErr.Underlying)),
	}
	if dir := filepath.Dir(fileErr.Path); dir != "." {
		attrs = append(attrs, slog.String("directory", dir))
	}

	logger.Error("File operation failed", toArgs(attrs)...)
	return fileErr
}

// DirectoryError is a failed directory operation (create, list).
type DirectoryError struct {
	Operation  string
	Path       string
	Underlying error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("directory %s failed for %s: %v", e.Operation, e.Path, e.Underlying)
}

func (e *DirectoryError) Unwrap() error {
	return e.Underlying
}

func NewDirectoryError(operation, path string, err error) *DirectoryError {
	return &DirectoryError{
		Operation:  operation,
		Path:       path,
		Underlying: err,
	}
}

// LogDirectoryError logs dirErr and returns it.
func LogDirectoryError(logger *slog.Logger, dirErr *DirectoryError) *DirectoryError {
	if logger == nil {
		return dirErr
	}

	attrs := []slog.Attr{
		slog.String("operation", dirErr.Operation),
		slog.String("directory_path", dirErr.Path),
		slog.String("error", dirErr.Underlying.Error()),
		slog.String("error_type", ClassifyFileError(dirErr.Underlying)),
	}

	logger.Error("Directory operation failed", toArgs(attrs)...)
	return dirErr
}

// EnsureDirectory creates path and its parents, logging failures.
func EnsureDirectory(logger *slog.Logger, path string, perm os.FileMode) error {
	if err := os.MkdirAll(path, perm); err != nil {
		return LogDirectoryError(logger, NewDirectoryError("create", path, err))
	}
	if logger != nil {
		logger.Debug("Directory ensured",
			slog.String("directory_path", path),
			slog.String("permissions", perm.String()))
	}
	return nil
}

// ClassifyFileError returns a short machine-friendly label for err.
func ClassifyFileError(err error) string {
	switch {
	case err == nil:
		return "unknown"
	case errors.Is(err, fs.ErrNotExist):
		return "file_not_found"
	case errors.Is(err, fs.ErrPermission):
		return "permission_denied"
	case errors.Is(err, fs.ErrExist):
		return "file_exists"
	case errors.Is(err, syscall.ENOSPC):
		return "no_space_left"
	case errors.Is(err, syscall.EMFILE), errors.Is(err, syscall.ENFILE):
		return "too_many_open_files"
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return "path_error_" + pathErr.Op
	}
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return "link_error_" + linkErr.Op
	}
	return "generic_file_error"
}
