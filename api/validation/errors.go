package validation

import "errors"

var (
	ErrInvalidFileType   = errors.New("invalid file type")
	ErrFileTooLarge      = errors.New("file size exceeds limit")
	ErrExtensionMismatch = errors.New("file extension does not match content")
	ErrEmptyFilename     = errors.New("empty filename")
)
