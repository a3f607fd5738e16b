package validation

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/wailsapp/mimetype"
)

// contentTypes lists, per extension, the sniffed types accepted for it.
// MP4 and QuickTime share the ISO box layout and are often mislabelled.
var contentTypes = map[string][]string{
	".mp4": {"video/mp4", "video/quicktime", "video/x-m4v"},
	".mov": {"video/quicktime", "video/mp4"},
	".avi": {"video/x-msvideo"},
	".mkv": {"video/x-matroska", "video/webm"},
}

func IsAllowedExtension(filename string) bool {
	_, ok := contentTypes[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// DetectContentType sniffs the start of file and rewinds it.
func DetectContentType(file io.ReadSeeker) (*mimetype.MIME, error) {
	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return nil, err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return mtype, nil
}

// ValidateUpload checks the name, size and content of an uploaded video.
func ValidateUpload(filename string, size, maxSize int64, file io.ReadSeeker) error {
	if !IsAllowedExtension(filename) {
		return ErrInvalidFileType
	}
	if size > maxSize {
		return ErrFileTooLarge
	}

	mtype, err := DetectContentType(file)
	if err != nil {
		return err
	}

	for _, accepted := range contentTypes[strings.ToLower(filepath.Ext(filename))] {
		if mtype.Is(accepted) {
			return nil
		}
	}
	return ErrExtensionMismatch
}

// SanitizeFilename strips directories and anything outside a conservative
// character set.
func SanitizeFilename(filename string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	name := strings.TrimLeft(b.String(), ".")
	if name == "" {
		return "", ErrEmptyFilename
	}
	return name, nil
}
