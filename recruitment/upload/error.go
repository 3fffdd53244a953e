package upload

import (
	"net/http"

	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("FILE")

var (
	CodeEmptyFile       = ErrRegistry.Register("EMPTY_FILE", errx.TypeValidation, http.StatusBadRequest, "Failed to store empty file")
	CodeFileTooLarge    = ErrRegistry.Register("FILE_TOO_LARGE", errx.TypeValidation, http.StatusBadRequest, "File size exceeds maximum limit")
	CodeInvalidFileType = ErrRegistry.Register("INVALID_FILE_TYPE", errx.TypeValidation, http.StatusBadRequest, "File type not allowed")
	CodeFileNotFound    = ErrRegistry.Register("FILE_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "File not found")
	CodeStorageFailed   = ErrRegistry.Register("STORAGE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Could not store file")
	CodeMissingFile     = ErrRegistry.Register("MISSING_FILE", errx.TypeValidation, http.StatusBadRequest, "No file provided")
)

func ErrEmptyFile() *errx.Error {
	return ErrRegistry.New(CodeEmptyFile)
}

func ErrFileTooLarge() *errx.Error {
	return ErrRegistry.New(CodeFileTooLarge)
}

func ErrInvalidFileType() *errx.Error {
	return ErrRegistry.New(CodeInvalidFileType)
}

func ErrFileNotFound() *errx.Error {
	return ErrRegistry.New(CodeFileNotFound)
}

func ErrStorageFailed() *errx.Error {
	return ErrRegistry.New(CodeStorageFailed)
}

func ErrMissingFile() *errx.Error {
	return ErrRegistry.New(CodeMissingFile)
}
