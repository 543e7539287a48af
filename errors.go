package imgkit

import "github.com/pkg/errors"

// Errors returned by the package. They are wrapped with additional context,
// so callers should match them with errors.Is.
var (
	ErrFileNotFound      = errors.New("file not found")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrDecode            = errors.New("could not decode image")
	ErrInvalidDimensions = errors.New("invalid image dimensions")
	ErrUnsupportedMode   = errors.New("unsupported resize mode")
	ErrUnsupportedFilter = errors.New("unsupported filter")
	ErrOutOfBounds       = errors.New("region out of bounds")
	ErrInvalidQuality    = errors.New("invalid quality")
	ErrWrite             = errors.New("could not write image")
	ErrAlreadyWritten    = errors.New("image already written")
	ErrFormatMismatch    = errors.New("write strategy does not match the image format")
	ErrFontRequired      = errors.New("font is required to draw text")
	ErrFont              = errors.New("could not load font")
)
