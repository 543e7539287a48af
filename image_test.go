package imgkit

import (
	"image"
	"image/color"
	"testing"

	"github.com/esimov/imgkit/rgb"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImage_NewImage(t *testing.T) {
	assert := assert.New(t)

	src := sampleImage()
	img := NewImage(src)
	assert.Equal(image.Rect(0, 0, sampleWidth, sampleHeight), img.Bounds())
	assert.Equal(Format(0), img.Format())

	src.SetNRGBA(0, 0, color.NRGBA{R: 0xff, A: 0xff})
	assert.Equal(rgb.FromColor(blue), img.At(0, 0))

	// Images with a non-zero origin are moved to (0, 0).
	sub := sampleImage().SubImage(image.Rect(10, 120, 50, 150))
	img = NewImage(sub)
	assert.Equal(image.Rect(0, 0, 40, 30), img.Bounds())
	assert.Equal(rgb.FromColor(yellow), img.At(0, 0))
}

func TestImage_Rotate(t *testing.T) {
	assert := assert.New(t)
	img := NewImage(sampleImage())

	rotated := img.Rotate(90, nil)
	assert.Equal(sampleHeight, rotated.Width())
	assert.Equal(sampleWidth, rotated.Height())
	// Rotation is counter-clockwise: the upper half ends on the left.
	assert.Equal(rgb.FromColor(blue), rotated.At(10, 150))
	assert.Equal(rgb.FromColor(yellow), rotated.At(190, 150))

	rotated = img.Rotate(180, nil)
	assert.Equal(img.Bounds(), rotated.Bounds())
	assert.Equal(rgb.FromColor(yellow), rotated.At(0, 0))

	red := rgb.Color{R: 0xff}
	rotated = img.Rotate(45, red)
	assert.Greater(rotated.Width(), sampleWidth)
	assert.Greater(rotated.Height(), sampleHeight)
	assert.Equal(red, rotated.At(0, 0))
	assert.Equal(red, rotated.At(rotated.Width()-1, rotated.Height()-1))

	rotated = img.Rotate(45, nil)
	assert.Equal(uint8(0xff), rotated.At(0, 0).Alpha)

	// The receiver is left untouched.
	assert.Equal(image.Rect(0, 0, sampleWidth, sampleHeight), img.Bounds())
}

func TestImage_Flip(t *testing.T) {
	src := gradientImage()
	w, h := sampleWidth, sampleHeight

	testCases := []struct {
		name   string
		flip   func(*Image) *Image
		mapper func(x, y int) (int, int)
	}{
		{"vertical", (*Image).FlipVertical, func(x, y int) (int, int) { return x, h - 1 - y }},
		{"horizontal", (*Image).FlipHorizontal, func(x, y int) (int, int) { return w - 1 - x, y }},
		{"both", (*Image).FlipBoth, func(x, y int) (int, int) { return w - 1 - x, h - 1 - y }},
	}

	points := []image.Point{{0, 0}, {10, 10}, {299, 0}, {0, 199}, {123, 45}, {299, 199}}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			img := NewImage(src)
			flipped := tc.flip(img)
			assert.Same(t, img, flipped)
			assert.Equal(t, src.Bounds(), flipped.Bounds())

			for _, p := range points {
				sx, sy := tc.mapper(p.X, p.Y)
				assert.Equal(t, rgb.FromColor(src.NRGBAAt(sx, sy)), flipped.At(p.X, p.Y), "point %v", p)
			}
		})
	}

	// Flipping twice restores the image.
	img := NewImage(src)
	img.FlipVertical().FlipVertical()
	assert.Equal(t, src.Pix, img.NRGBA().Pix)
}

func TestImage_Crop(t *testing.T) {
	assert := assert.New(t)
	img := NewImage(sampleImage())

	cropped, err := img.Crop(5, 5, 100, 50)
	require.NoError(t, err)
	assert.Equal(100, cropped.Width())
	assert.Equal(50, cropped.Height())
	assert.Equal([4]uint8{0, 0, 255, 0}, cropped.At(0, 0).ToArray())

	grad := NewImage(gradientImage())
	cropped, err = grad.Crop(20, 30, 40, 40)
	require.NoError(t, err)
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			assert.Equal(grad.At(20+x, 30+y), cropped.At(x, y))
		}
	}

	// The whole image is a valid region.
	cropped, err = img.Crop(0, 0, sampleWidth, sampleHeight)
	require.NoError(t, err)
	assert.Equal(img.Bounds(), cropped.Bounds())
}

func TestImage_Crop_OutOfBounds(t *testing.T) {
	img := NewImage(sampleImage())

	for _, r := range []image.Rectangle{
		image.Rect(-1, 0, 10, 10),
		image.Rect(0, 0, 301, 10),
		image.Rect(250, 150, 350, 250),
		image.Rect(10, 10, 10, 20),
		image.Rect(10, 10, 20, 10),
	} {
		_, err := img.Crop(r.Min.X, r.Min.Y, r.Dx(), r.Dy())
		assert.True(t, errors.Is(err, ErrOutOfBounds), "rect %v", r)
	}

	_, err := img.Crop(10, 10, -5, 5)
	assert.True(t, errors.Is(err, ErrOutOfBounds))
}

func TestImage_Fill(t *testing.T) {
	img, err := NewFactory().CreateImage(20, 10)
	require.NoError(t, err)

	assert.Same(t, img, img.Fill(rgb.White()))
	for _, p := range []image.Point{{0, 0}, {19, 9}, {7, 3}} {
		assert.Equal(t, rgb.White(), img.At(p.X, p.Y))
	}

	img.Fill(color.NRGBA{R: 10, G: 20, B: 30, A: 128})
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 128}, img.NRGBA().NRGBAAt(5, 5))

	// A nil color clears the canvas.
	assert.NotPanics(t, func() { img.Fill(nil) })
	assert.Equal(t, color.NRGBA{}, img.NRGBA().NRGBAAt(5, 5))
}

func TestImage_AppendNilElement(t *testing.T) {
	img := NewImage(sampleImage())
	require.NoError(t, img.AppendElementAtPosition(nil, 0, 0))
	assert.Equal(t, rgb.FromColor(blue), img.At(0, 0))
}
