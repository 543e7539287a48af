package imgkit

import (
	"strings"

	"github.com/disintegration/imaging"
	"github.com/esimov/imgkit/utils"
	"github.com/pkg/errors"
)

// Mode selects how an image is fitted into the requested dimensions.
type Mode int

// Supported resize modes.
const (
	// Scale returns the largest image fitting into the box, preserving the aspect ratio.
	// The image may be enlarged.
	Scale Mode = iota + 1
	// Fit is like Scale, but images already fitting into the box are left untouched.
	Fit
	// Fill scales the image to cover the box, then crops the overflow around the center.
	Fill
	// Exact stretches the image to the box dimensions.
	Exact
)

var modeNames = map[Mode]string{
	Scale: "scale",
	Fit:   "fit",
	Fill:  "fill",
	Exact: "exact",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseMode returns the resize mode with the given name.
func ParseMode(name string) (Mode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for m, n := range modeNames {
		if n == name {
			return m, nil
		}
	}
	return 0, errors.Wrapf(ErrUnsupportedMode, "%q", name)
}

// resampleFilters holds the resampling filters selectable by name.
var resampleFilters = map[string]imaging.ResampleFilter{
	"lanczos":    imaging.Lanczos,
	"catmullrom": imaging.CatmullRom,
	"mitchell":   imaging.MitchellNetravali,
	"linear":     imaging.Linear,
	"box":        imaging.Box,
	"nearest":    imaging.NearestNeighbor,
}

// resampleFilter returns the named resampling filter. Lanczos is used when name is empty.
func resampleFilter(name string) (imaging.ResampleFilter, error) {
	if name == "" {
		return imaging.Lanczos, nil
	}
	f, ok := resampleFilters[strings.ToLower(name)]
	if !ok {
		return imaging.ResampleFilter{}, errors.Wrapf(ErrUnsupportedMode, "resample filter %q", name)
	}
	return f, nil
}

// resize computes the target dimensions for mode and delegates the resampling to imaging.
func resize(img *Image, mode Mode, width, height int, filter imaging.ResampleFilter) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Wrapf(ErrInvalidDimensions, "cannot resize to %dx%d", width, height)
	}
	srcW, srcH := img.Width(), img.Height()
	if srcW == 0 || srcH == 0 {
		return nil, errors.Wrap(ErrInvalidDimensions, "cannot resize an empty image")
	}

	switch mode {
	case Scale:
		nw, nh := scaledSize(srcW, srcH, width, height)
		return newImage(imaging.Resize(img.pix, nw, nh, filter), img.format), nil
	case Fit:
		if srcW <= width && srcH <= height {
			return img.Clone(), nil
		}
		nw, nh := scaledSize(srcW, srcH, width, height)
		return newImage(imaging.Resize(img.pix, nw, nh, filter), img.format), nil
	case Fill:
		return newImage(imaging.Fill(img.pix, width, height, imaging.Center, filter), img.format), nil
	case Exact:
		return newImage(imaging.Resize(img.pix, width, height, filter), img.format), nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedMode, "%v", mode)
	}
}

// scaledSize returns the largest size with the srcW:srcH aspect ratio
// fitting into a width×height box. The scaled side is rounded down.
func scaledSize(srcW, srcH, width, height int) (int, int) {
	var nw, nh int
	if width*srcH <= height*srcW {
		nw, nh = width, srcH*width/srcW
	} else {
		nw, nh = srcW*height/srcH, height
	}
	return utils.Max(nw, 1), utils.Max(nh, 1)
}
