package imgkit

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Format is an image encoding supported by the package.
type Format int

// Supported image formats.
const (
	JPEG Format = iota + 1
	PNG
	GIF
	BMP
)

var formatNames = map[Format]string{
	JPEG: "jpeg",
	PNG:  "png",
	GIF:  "gif",
	BMP:  "bmp",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// Extension returns the canonical file extension of the format, including the leading dot.
func (f Format) Extension() string {
	if f == JPEG {
		return ".jpg"
	}
	if name, ok := formatNames[f]; ok {
		return "." + name
	}
	return ""
}

// ParseFormat returns the format with the given name or file extension, e.g. "png", "JPG" or ".jpeg".
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "jpg", "jpeg":
		return JPEG, nil
	case "png":
		return PNG, nil
	case "gif":
		return GIF, nil
	case "bmp":
		return BMP, nil
	}
	return 0, errors.Wrapf(ErrUnsupportedFormat, "%q", name)
}

// FormatFromFilename detects the format from the extension of the file name.
func FormatFromFilename(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return 0, errors.Wrapf(ErrUnsupportedFormat, "%s has no file extension", path)
	}
	return ParseFormat(ext)
}

// formatFromContentType maps a sniffed MIME type to a format.
func formatFromContentType(ctype string) (Format, bool) {
	switch ctype {
	case "image/jpeg":
		return JPEG, true
	case "image/png":
		return PNG, true
	case "image/gif":
		return GIF, true
	case "image/bmp":
		return BMP, true
	}
	return 0, false
}
