package imgkit

import (
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// Filter is a color transformation applied by Factory.FilterImage.
// The set of filters is closed: Greyscale, Invert, Blur, Sharpen, EdgeDetect and Dither.
type Filter interface {
	Name() string
	isFilter()
}

// Greyscale replaces the color channels of each pixel with its luma
// 0.299R + 0.587G + 0.114B. The alpha channel is preserved.
type Greyscale struct{}

// Invert negates the color channels.
type Invert struct{}

// Blur applies a gaussian blur. Sigma is the standard deviation of the kernel.
type Blur struct {
	Sigma float64
}

// Sharpen applies an unsharp mask with the given gaussian sigma.
type Sharpen struct {
	Sigma float64
}

// EdgeDetect highlights the image edges using the Sobel operator.
// Gradient magnitudes not exceeding Threshold are discarded.
type EdgeDetect struct {
	Threshold float64
}

// Dither converts the image to black and white.
type Dither struct{}

func (Greyscale) Name() string  { return "greyscale" }
func (Invert) Name() string     { return "invert" }
func (Blur) Name() string       { return "blur" }
func (Sharpen) Name() string    { return "sharpen" }
func (EdgeDetect) Name() string { return "edge" }
func (Dither) Name() string     { return "dither" }

func (Greyscale) isFilter()  {}
func (Invert) isFilter()     {}
func (Blur) isFilter()       {}
func (Sharpen) isFilter()    {}
func (EdgeDetect) isFilter() {}
func (Dither) isFilter()     {}

// ParseFilter returns the filter with the given name, configured with its default parameters.
func ParseFilter(name string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "greyscale", "grayscale":
		return Greyscale{}, nil
	case "invert", "negate":
		return Invert{}, nil
	case "blur":
		return Blur{Sigma: 1.5}, nil
	case "sharpen":
		return Sharpen{Sigma: 1}, nil
	case "edge", "sobel":
		return EdgeDetect{Threshold: 10}, nil
	case "dither":
		return Dither{}, nil
	}
	return nil, errors.Wrapf(ErrUnsupportedFilter, "%q", name)
}

// applyFilter runs the filter over src and returns the result in a new buffer.
func applyFilter(src *image.NRGBA, f Filter) (*image.NRGBA, error) {
	switch f := f.(type) {
	case Greyscale:
		return imaging.Grayscale(src), nil
	case Invert:
		return imaging.Invert(src), nil
	case Blur:
		return imaging.Blur(src, f.Sigma), nil
	case Sharpen:
		return imaging.Sharpen(src, f.Sigma), nil
	case EdgeDetect:
		return sobel(src, f.Threshold), nil
	case Dither:
		return dither(src), nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedFilter, "%T", f)
	}
}
