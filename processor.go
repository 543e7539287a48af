package imgkit

import (
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/esimov/imgkit/utils"
	"github.com/pkg/errors"
)

// Flip selects the axis along which Processor mirrors the image.
type Flip int

// Supported flips.
const (
	NoFlip Flip = iota
	FlipVertical
	FlipHorizontal
	FlipBoth
)

// ParseFlip returns the flip with the given name: v(ertical), h(orizontal) or both.
func ParseFlip(name string) (Flip, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return NoFlip, nil
	case "v", "vertical":
		return FlipVertical, nil
	case "h", "horizontal":
		return FlipHorizontal, nil
	case "vh", "hv", "both":
		return FlipBoth, nil
	}
	return NoFlip, errors.Errorf("unsupported flip %q", name)
}

// Placement is an element anchored at a canvas position.
type Placement struct {
	Element Element
	At      image.Point
}

// Processor options. The zero value leaves the image unchanged and
// re-encodes it with the default strategy of the output format.
type Processor struct {
	Factory *Factory

	// Crop is applied first when not empty.
	Crop image.Rectangle

	Mode      Mode
	NewWidth  int
	NewHeight int

	Filters []Filter

	Angle      float64
	Background color.Color
	Flip       Flip

	// Elements are drawn in order after every other transformation.
	Elements []Placement

	// Format is the output format used when it cannot be inferred from the
	// output file name. Defaults to JPEG.
	Format Format
	// Strategy overrides the default write strategy of the output format.
	Strategy WriteStrategy
}

func (p *Processor) factory() *Factory {
	if p.Factory == nil {
		return NewFactory()
	}
	return p.Factory
}

// Apply runs the processing pipeline over a copy of img and returns the result.
// The order is: crop, resize, filters, rotation, flip, elements.
func (p *Processor) Apply(img *Image) (*Image, error) {
	var err error
	f := p.factory()
	img = img.Clone()

	if !p.Crop.Empty() {
		if img, err = img.Crop(p.Crop.Min.X, p.Crop.Min.Y, p.Crop.Dx(), p.Crop.Dy()); err != nil {
			return nil, err
		}
	}

	if p.Mode != 0 || p.NewWidth != 0 || p.NewHeight != 0 {
		mode := p.Mode
		if mode == 0 {
			mode = Scale
		}
		// A missing dimension is derived from the image aspect ratio.
		width, height := p.NewWidth, p.NewHeight
		if width == 0 && height > 0 {
			width = utils.Max(img.Width()*height/img.Height(), 1)
		}
		if height == 0 && width > 0 {
			height = utils.Max(img.Height()*width/img.Width(), 1)
		}
		if img, err = f.ResizeImage(img, mode, width, height); err != nil {
			return nil, err
		}
	}

	for _, filter := range p.Filters {
		if img, err = f.FilterImage(img, filter); err != nil {
			return nil, err
		}
	}

	if p.Angle != 0 {
		img = img.Rotate(p.Angle, p.Background)
	}

	switch p.Flip {
	case FlipVertical:
		img.FlipVertical()
	case FlipHorizontal:
		img.FlipHorizontal()
	case FlipBoth:
		img.FlipBoth()
	}

	for _, pl := range p.Elements {
		if err := img.AppendElementAtPosition(pl.Element, pl.At.X, pl.At.Y); err != nil {
			return nil, err
		}
	}
	return img, nil
}

// Process decodes the image from r, applies the pipeline and encodes the result into w.
// When w is a file, the output format is inferred from its extension.
func (p *Processor) Process(r io.Reader, w io.Writer) error {
	f := p.factory()

	src, err := f.DecodeImage(r)
	if err != nil {
		return err
	}
	img, err := p.Apply(src)
	if err != nil {
		return err
	}

	strategy, err := p.strategy(w)
	if err != nil {
		return err
	}
	return Encode(w, img, strategy)
}

// ProcessFile processes the image file in and saves the result into out.
// The output file is removed if the processing fails.
func (p *Processor) ProcessFile(in, out string) (err error) {
	src, err := os.Open(in)
	if err != nil {
		return errors.Wrapf(ErrFileNotFound, "file %s", in)
	}
	defer src.Close()

	dst, err := os.Create(out)
	if err != nil {
		return errors.Wrapf(ErrWrite, "%v", err)
	}
	defer func() {
		if cerr := dst.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(ErrWrite, "%v", cerr)
		}
		if err != nil {
			os.Remove(out)
		}
	}()

	return p.Process(src, dst)
}

// strategy returns the write strategy for the output w.
func (p *Processor) strategy(w io.Writer) (WriteStrategy, error) {
	format := p.Format
	if file, ok := w.(*os.File); ok && filepath.Ext(file.Name()) != "" {
		ff, err := FormatFromFilename(file.Name())
		if err != nil {
			return nil, err
		}
		format = ff
	}
	if format == 0 {
		format = JPEG
	}

	if p.Strategy != nil {
		if p.Strategy.Format() != format {
			return nil, errors.Wrapf(ErrFormatMismatch, "expected a %v strategy, got %v", format, p.Strategy.Format())
		}
		return p.Strategy, nil
	}
	return DefaultStrategy(format)
}
