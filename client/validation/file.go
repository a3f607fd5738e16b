package validation

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/wailsapp/mimetype"
)

const MaxFileSize int64 = 500 * 1024 * 1024

const (
	MIMETypeMP4 = "video/mp4"
	MIMETypeAVI = "video/avi"
	MIMETypeMOV = "video/mov"
	MIMETypeMKV = "video/x-matroska"
)

var acceptedMIMETypes = map[string]bool{
	MIMETypeMP4: true,
	MIMETypeAVI: true,
	MIMETypeMOV: true,
	MIMETypeMKV: true,
}

// Sniffers report the registered names for AVI and QuickTime; the upload
// endpoint knows them by the short names.
var mimeAliases = map[string]string{
	"video/x-msvideo": MIMETypeAVI,
	"video/msvideo":   MIMETypeAVI,
	"video/quicktime": MIMETypeMOV,
}

// File is a video picked for upload. Open is called once per submission.
type File struct {
	Name     string
	Size     int64
	MIMEType string
	Open     func() (io.ReadCloser, error)
}

func IsAcceptedMIMEType(mimeType string) bool {
	return acceptedMIMETypes[mimeType]
}

// Validate checks the declared type and size. It never touches the content.
func Validate(f File) error {
	if !IsAcceptedMIMEType(f.MIMEType) {
		return ErrInvalidFileType
	}
	if f.Size > MaxFileSize {
		return ErrFileTooLarge
	}
	return nil
}

// OpenFile builds a File from a path on disk, deriving its MIME type from
// the content.
func OpenFile(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return File{}, fmt.Errorf("%s: %w", path, ErrNotRegularFile)
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return File{}, fmt.Errorf("detect type of %s: %w", path, err)
	}

	return File{
		Name:     filepath.Base(path),
		Size:     info.Size(),
		MIMEType: NormalizeMIMEType(mtype.String()),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

func NormalizeMIMEType(mimeType string) string {
	if alias, ok := mimeAliases[mimeType]; ok {
		return alias
	}
	return mimeType
}

// FormatFileSize renders a byte count the way the upload form shows it.
func FormatFileSize(bytes int64) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%d B", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.2f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%.2f MB", float64(bytes)/(1024*1024))
	}
}
