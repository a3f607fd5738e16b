package validation

import "errors"

var (
	ErrInvalidFileType = errors.New("please select a valid video file (MP4, AVI, MOV, or MKV)")
	ErrFileTooLarge    = errors.New("file size must be less than 500MB")
	ErrNotRegularFile  = errors.New("not a regular file")
)
