package imgkit

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/esimov/imgkit/rgb"
	"github.com/pkg/errors"
)

// Image is an in-memory canvas. The pixel buffer always has its origin at (0, 0).
//
// Crop, Rotate and the Factory transformations return a new Image and leave
// the receiver untouched. Fill, the flip methods and AppendElementAtPosition
// modify the receiver in place.
type Image struct {
	pix    *image.NRGBA
	format Format
}

// NewImage wraps an existing image. The pixels are copied.
func NewImage(src image.Image) *Image {
	return newImage(imaging.Clone(src), 0)
}

func newImage(pix *image.NRGBA, format Format) *Image {
	return &Image{pix: pix, format: format}
}

// Width returns the canvas width.
func (img *Image) Width() int {
	return img.pix.Bounds().Dx()
}

// Height returns the canvas height.
func (img *Image) Height() int {
	return img.pix.Bounds().Dy()
}

// Bounds returns the canvas rectangle.
func (img *Image) Bounds() image.Rectangle {
	return img.pix.Bounds()
}

// Format returns the format the image was decoded from,
// or zero if the image was created in memory.
func (img *Image) Format() Format {
	return img.format
}

// NRGBA exposes the underlying pixel buffer. Changes made to the returned
// image are reflected in the canvas.
func (img *Image) NRGBA() *image.NRGBA {
	return img.pix
}

// At returns the color of the pixel at (x, y).
func (img *Image) At(x, y int) rgb.Color {
	return rgb.FromColor(img.pix.NRGBAAt(x, y))
}

// Clone returns a deep copy of the image.
func (img *Image) Clone() *Image {
	return newImage(imaging.Clone(img.pix), img.format)
}

// Crop returns the w×h region whose top-left corner is at (x, y).
func (img *Image) Crop(x, y, w, h int) (*Image, error) {
	rect := image.Rect(x, y, x+w, y+h)
	if w <= 0 || h <= 0 || !rect.In(img.pix.Bounds()) {
		return nil, errors.Wrapf(ErrOutOfBounds, "cannot crop %v from a %dx%d image", rect, img.Width(), img.Height())
	}
	return newImage(imaging.Crop(img.pix, rect), img.format), nil
}

// Rotate rotates the image counter-clockwise by angle degrees.
// The canvas grows to contain the whole rotated image and the
// uncovered areas are filled with the bg color.
func (img *Image) Rotate(angle float64, bg color.Color) *Image {
	if bg == nil {
		bg = color.Transparent
	}
	return newImage(imaging.Rotate(img.pix, angle, bg), img.format)
}

// FlipVertical mirrors the image upside down: pixel (x, y) moves to (x, h-1-y).
func (img *Image) FlipVertical() *Image {
	img.pix = imaging.FlipV(img.pix)
	return img
}

// FlipHorizontal mirrors the image left to right: pixel (x, y) moves to (w-1-x, y).
func (img *Image) FlipHorizontal() *Image {
	img.pix = imaging.FlipH(img.pix)
	return img
}

// FlipBoth mirrors the image along both axes: pixel (x, y) moves to (w-1-x, h-1-y).
func (img *Image) FlipBoth() *Image {
	img.pix = imaging.Rotate180(img.pix)
	return img
}

// Fill paints every pixel of the canvas with c.
func (img *Image) Fill(c color.Color) *Image {
	n := rgb.FromColor(c).NRGBA()
	px := [4]uint8{n.R, n.G, n.B, n.A}

	b := img.pix.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.pix.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			copy(img.pix.Pix[i:i+4], px[:])
			i += 4
		}
	}
	return img
}

// AppendElementAtPosition draws el over the canvas anchored at (x, y).
// Elements appended later are drawn over the earlier ones.
func (img *Image) AppendElementAtPosition(el Element, x, y int) error {
	if el == nil {
		return nil
	}
	return el.Draw(img.pix, image.Pt(x, y))
}
