package imgkit

import (
	"image"
	"image/png"
	"io"
	"os"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/image/bmp"
)

// WriteStrategy holds the options of a single output format.
// Strategies are plain values: they are validated before anything is encoded.
type WriteStrategy interface {
	Format() Format
	Validate() error
	encode(w io.Writer, img image.Image) error
}

// JPEGStrategy encodes JPEG images. Quality ranges from 0 to 100.
type JPEGStrategy struct {
	Quality int
}

// PNGStrategy encodes PNG images. CompressionLevel ranges from
// 0 (no compression) to 9 (best compression).
type PNGStrategy struct {
	CompressionLevel int
}

// GIFStrategy encodes GIF images. NumColors is the maximum palette
// size, from 0 to 256. Zero means 256.
type GIFStrategy struct {
	NumColors int
}

// BMPStrategy encodes BMP images.
type BMPStrategy struct{}

func (JPEGStrategy) Format() Format { return JPEG }
func (PNGStrategy) Format() Format  { return PNG }
func (GIFStrategy) Format() Format  { return GIF }
func (BMPStrategy) Format() Format  { return BMP }

// Validate reports whether the quality is in the [0, 100] range.
func (s JPEGStrategy) Validate() error {
	if s.Quality < 0 || s.Quality > 100 {
		return errors.Wrapf(ErrInvalidQuality, "jpeg quality %d is not between 0 and 100", s.Quality)
	}
	return nil
}

// Validate reports whether the compression level is in the [0, 9] range.
func (s PNGStrategy) Validate() error {
	if s.CompressionLevel < 0 || s.CompressionLevel > 9 {
		return errors.Wrapf(ErrInvalidQuality, "png compression level %d is not between 0 and 9", s.CompressionLevel)
	}
	return nil
}

// Validate reports whether the palette size is in the [0, 256] range.
func (s GIFStrategy) Validate() error {
	if s.NumColors < 0 || s.NumColors > 256 {
		return errors.Wrapf(ErrInvalidQuality, "gif palette size %d is not between 0 and 256, 0 means 256", s.NumColors)
	}
	return nil
}

// Validate always succeeds, BMP has no options.
func (BMPStrategy) Validate() error { return nil }

func (s JPEGStrategy) encode(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(s.Quality))
}

func (s PNGStrategy) encode(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(pngCompression(s.CompressionLevel)))
}

func (s GIFStrategy) encode(w io.Writer, img image.Image) error {
	n := s.NumColors
	if n == 0 {
		n = 256
	}
	return imaging.Encode(w, img, imaging.GIF, imaging.GIFNumColors(n))
}

func (BMPStrategy) encode(w io.Writer, img image.Image) error {
	return bmp.Encode(w, img)
}

// pngCompression maps the 0-9 compression scale to the levels of the image/png encoder.
func pngCompression(level int) png.CompressionLevel {
	switch {
	case level == 0:
		return png.NoCompression
	case level <= 3:
		return png.BestSpeed
	case level <= 6:
		return png.DefaultCompression
	default:
		return png.BestCompression
	}
}

// DefaultStrategy returns the write strategy used for format when none is configured.
func DefaultStrategy(format Format) (WriteStrategy, error) {
	switch format {
	case JPEG:
		return JPEGStrategy{Quality: 95}, nil
	case PNG:
		return PNGStrategy{CompressionLevel: 6}, nil
	case GIF:
		return GIFStrategy{}, nil
	case BMP:
		return BMPStrategy{}, nil
	}
	return nil, errors.Wrapf(ErrUnsupportedFormat, "%v", format)
}

// Encode validates the strategy and encodes img into w.
func Encode(w io.Writer, img *Image, s WriteStrategy) error {
	if s == nil {
		return errors.Wrap(ErrUnsupportedFormat, "no write strategy")
	}
	if err := s.Validate(); err != nil {
		return err
	}
	if err := s.encode(w, img.pix); err != nil {
		return errors.Wrapf(ErrWrite, "%v: %v", s.Format(), err)
	}
	return nil
}

// Save encodes img into the file found at path. The file is removed if the encoding fails.
func Save(img *Image, path string, s WriteStrategy) (err error) {
	if s == nil {
		return errors.Wrap(ErrUnsupportedFormat, "no write strategy")
	}
	if err := s.Validate(); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(ErrWrite, "%v", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(ErrWrite, "%v", cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	return Encode(f, img, s)
}

// Writer emits a single image through a write strategy. It is handed to the
// configuration callback of Factory.WriteImage and writes at most once.
type Writer struct {
	img      *Image
	strategy WriteStrategy
	stdout   io.Writer
	logger   *zerolog.Logger
	written  bool
}

// Format returns the output format of the writer.
func (w *Writer) Format() Format {
	return w.strategy.Format()
}

// Strategy returns the currently configured write strategy.
func (w *Writer) Strategy() WriteStrategy {
	return w.strategy
}

// Written reports whether the image has already been written.
func (w *Writer) Written() bool {
	return w.written
}

// Use replaces the write strategy. The strategy must target the writer's
// format and carry valid options.
func (w *Writer) Use(s WriteStrategy) error {
	if w.written {
		return ErrAlreadyWritten
	}
	if s == nil || s.Format() != w.strategy.Format() {
		return errors.Wrapf(ErrFormatMismatch, "expected a %v strategy, got %T", w.strategy.Format(), s)
	}
	if err := s.Validate(); err != nil {
		return err
	}
	w.strategy = s
	return nil
}

// ToFile writes the encoded image into the file found at path.
func (w *Writer) ToFile(path string) error {
	if err := w.consume(); err != nil {
		return err
	}
	if err := Save(w.img, path, w.strategy); err != nil {
		return err
	}
	w.logger.Debug().Str("path", path).Stringer("format", w.strategy.Format()).Msg("image written")
	return nil
}

// ToStdout writes the raw encoded image to the standard output.
func (w *Writer) ToStdout() error {
	return w.ToWriter(w.stdout)
}

// ToWriter writes the raw encoded image into dst.
func (w *Writer) ToWriter(dst io.Writer) error {
	if err := w.consume(); err != nil {
		return err
	}
	if err := Encode(dst, w.img, w.strategy); err != nil {
		return err
	}
	w.logger.Debug().Stringer("format", w.strategy.Format()).Msg("image written to stream")
	return nil
}

func (w *Writer) consume() error {
	if w.written {
		return ErrAlreadyWritten
	}
	w.written = true
	return nil
}
