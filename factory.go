package imgkit

import (
	"bytes"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/disintegration/imaging"
	"github.com/esimov/imgkit/utils"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Factory opens and creates images and dispatches the resize, filter and
// write operations. The zero value is ready to use.
type Factory struct {
	// Stdout receives the images written with Writer.ToStdout. Defaults to os.Stdout.
	Stdout io.Writer
	// Logger receives the debug events. Defaults to a disabled logger.
	Logger *zerolog.Logger
	// Resample names the resampling filter used by ResizeImage:
	// lanczos (default), catmullrom, mitchell, linear, box or nearest.
	Resample string
	// AutoOrient rotates JPEG images according to their EXIF orientation tag when opened.
	AutoOrient bool
}

// NewFactory returns a Factory writing to os.Stdout and honoring the EXIF orientation.
func NewFactory() *Factory {
	return &Factory{
		Stdout:     os.Stdout,
		AutoOrient: true,
	}
}

var nopLogger = zerolog.Nop()

func (f *Factory) logger() *zerolog.Logger {
	if f.Logger == nil {
		return &nopLogger
	}
	return f.Logger
}

func (f *Factory) stdout() io.Writer {
	if f.Stdout == nil {
		return os.Stdout
	}
	return f.Stdout
}

// OpenImage decodes the image file found at path.
// The image format is detected from the file content.
func (f *Factory) OpenImage(path string) (*Image, error) {
	fi, err := os.Stat(path)
	if err != nil || !fi.Mode().IsRegular() {
		return nil, errors.Wrapf(ErrFileNotFound, "file %s", path)
	}

	ctype, err := utils.DetectContentType(path)
	if err != nil {
		return nil, errors.Wrapf(ErrFileNotFound, "file %s is not readable: %v", path, err)
	}
	format, ok := formatFromContentType(ctype)
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedFormat, "file %s has content type %s", path, ctype)
	}

	src, err := imaging.Open(path, imaging.AutoOrientation(f.AutoOrient))
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "file %s: %v", path, err)
	}
	img := newImage(imaging.Clone(src), format)

	f.logger().Debug().
		Str("path", path).
		Stringer("format", format).
		Int("width", img.Width()).
		Int("height", img.Height()).
		Msg("image opened")

	return img, nil
}

// DecodeImage decodes an image from r.
func (f *Factory) DecodeImage(r io.Reader) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "%v", err)
	}

	_, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "%v", err)
	}
	format, err := ParseFormat(name)
	if err != nil {
		return nil, err
	}

	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(f.AutoOrient))
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "%v", err)
	}
	return newImage(imaging.Clone(src), format), nil
}

// CreateImage returns a transparent width×height canvas.
func (f *Factory) CreateImage(width, height int) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Wrapf(ErrInvalidDimensions, "cannot create a %dx%d image", width, height)
	}
	return newImage(imaging.New(width, height, color.Transparent), 0), nil
}

// ResizeImage fits img into the width×height box according to mode.
func (f *Factory) ResizeImage(img *Image, mode Mode, width, height int) (*Image, error) {
	filter, err := resampleFilter(f.Resample)
	if err != nil {
		return nil, err
	}
	res, err := resize(img, mode, width, height, filter)
	if err != nil {
		return nil, err
	}

	f.logger().Debug().
		Stringer("mode", mode).
		Int("width", res.Width()).
		Int("height", res.Height()).
		Msg("image resized")

	return res, nil
}

// FilterImage returns a copy of img with the filter applied.
func (f *Factory) FilterImage(img *Image, filter Filter) (*Image, error) {
	pix, err := applyFilter(img.pix, filter)
	if err != nil {
		return nil, err
	}
	f.logger().Debug().Str("filter", filter.Name()).Msg("filter applied")

	return newImage(pix, img.format), nil
}

// WriteImage encodes img in the given format. The configure callback
// receives a Writer, selects the write options with Writer.Use and
// emits the image with one of the Writer terminal methods.
// Nothing is written if configure returns without calling one of them.
func (f *Factory) WriteImage(img *Image, format Format, configure func(w *Writer) error) error {
	strategy, err := DefaultStrategy(format)
	if err != nil {
		return err
	}
	if configure == nil {
		return nil
	}

	w := &Writer{
		img:      img,
		strategy: strategy,
		stdout:   f.stdout(),
		logger:   f.logger(),
	}
	if err := configure(w); err != nil {
		return err
	}
	if !w.written {
		f.logger().Debug().Stringer("format", format).Msg("write strategy configured without output")
	}
	return nil
}

// CreateTextElement returns a text element without text and font.
func (f *Factory) CreateTextElement() TextElement {
	return NewTextElement()
}
