package imgkit

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/esimov/imgkit/imop"
	"github.com/esimov/imgkit/rgb"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

var red = color.NRGBA{R: 0xff, A: 0xff}

func whiteCanvas(t *testing.T, w, h int) *Image {
	t.Helper()

	img, err := NewFactory().CreateImage(w, h)
	require.NoError(t, err)
	return img.Fill(rgb.White())
}

// inkBounds returns the bounding box of the pixels which are not white.
func inkBounds(img *Image) image.Rectangle {
	var r image.Rectangle
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			if img.At(x, y) != rgb.White() {
				r = r.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	return r
}

func TestTextElement_Defaults(t *testing.T) {
	assert := assert.New(t)

	el := NewFactory().CreateTextElement()
	assert.Equal("", el.Text())
	assert.Equal(12.0, el.Size())
	assert.Equal(0.0, el.Angle())
	assert.Equal(color.Black, el.Color())

	modified := el.WithText("imgkit").WithSize(30).WithAngle(45).WithColor(red)
	assert.Equal("imgkit", modified.Text())
	assert.Equal(30.0, modified.Size())
	assert.Equal(45.0, modified.Angle())
	assert.Equal(color.Color(red), modified.Color())

	// The receiver is left untouched.
	assert.Equal("", el.Text())
	assert.Equal(12.0, el.Size())
}

func TestTextElement_Draw(t *testing.T) {
	img := whiteCanvas(t, 300, 100)
	anchor := image.Pt(10, 60)

	el := NewTextElement().WithFontData(goregular.TTF).WithText("Hello").WithSize(40).WithColor(red)
	require.NoError(t, img.AppendElementAtPosition(el, anchor.X, anchor.Y))

	ink := inkBounds(img)
	require.False(t, ink.Empty())
	// The anchor is the left end of the baseline and "Hello" has no descenders.
	assert.LessOrEqual(t, ink.Max.Y, anchor.Y+2)
	assert.Greater(t, ink.Min.Y, anchor.Y-40)
	assert.GreaterOrEqual(t, ink.Min.X, anchor.X)
	assert.Less(t, ink.Min.X, anchor.X+10)

	var solid int
	for y := ink.Min.Y; y < ink.Max.Y; y++ {
		for x := ink.Min.X; x < ink.Max.X; x++ {
			if img.NRGBA().NRGBAAt(x, y) == red {
				solid++
			}
		}
	}
	assert.Greater(t, solid, 0)
}

func TestTextElement_DrawOrder(t *testing.T) {
	img := whiteCanvas(t, 300, 100)
	el := NewTextElement().WithFontData(goregular.TTF).WithText("Hello").WithSize(40)

	require.NoError(t, img.AppendElementAtPosition(el.WithColor(red), 10, 60))
	require.NoError(t, img.AppendElementAtPosition(el.WithColor(blue), 10, 60))

	var reds, blues int
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			switch img.NRGBA().NRGBAAt(x, y) {
			case red:
				reds++
			case blue:
				blues++
			}
		}
	}
	assert.Zero(t, reds)
	assert.Greater(t, blues, 0)
}

func TestTextElement_Shadow(t *testing.T) {
	img := whiteCanvas(t, 300, 100)
	el := NewTextElement().WithFontData(goregular.TTF).WithText("Shadow").WithSize(32)

	require.NoError(t, img.AppendElementAtPosition(el.WithColor(color.NRGBA{A: 0xff}), 12, 62))
	require.NoError(t, img.AppendElementAtPosition(el.WithColor(rgb.MustParse("gold")), 10, 60))

	ink := inkBounds(img)
	assert.GreaterOrEqual(t, ink.Min.X, 10)
	assert.LessOrEqual(t, ink.Max.Y, 64)

	var black int
	for y := ink.Min.Y; y < ink.Max.Y; y++ {
		for x := ink.Min.X; x < ink.Max.X; x++ {
			if img.At(x, y) == rgb.Black() {
				black++
			}
		}
	}
	assert.Greater(t, black, 0)
}

func TestTextElement_Rotated(t *testing.T) {
	img := whiteCanvas(t, 200, 300)
	anchor := image.Pt(100, 250)

	el := NewTextElement().WithFont(writeFont(t)).WithText("Hello").WithSize(40).WithAngle(90)
	require.NoError(t, img.AppendElementAtPosition(el, anchor.X, anchor.Y))

	// Rotated counter-clockwise, the text goes upwards and its glyphs lie left of the anchor.
	ink := inkBounds(img)
	require.False(t, ink.Empty())
	assert.Greater(t, ink.Dy(), ink.Dx())
	assert.LessOrEqual(t, ink.Max.X, anchor.X+3)
	assert.LessOrEqual(t, ink.Max.Y, anchor.Y+3)
	assert.Greater(t, ink.Min.X, anchor.X-40)
}

func TestTextElement_Errors(t *testing.T) {
	img := whiteCanvas(t, 50, 50)
	el := NewTextElement().WithText("imgkit")

	err := img.AppendElementAtPosition(el, 0, 20)
	assert.True(t, errors.Is(err, ErrFontRequired))

	err = img.AppendElementAtPosition(el.WithFont(filepath.Join(t.TempDir(), "missing.ttf")), 0, 20)
	assert.True(t, errors.Is(err, ErrFont))

	err = img.AppendElementAtPosition(el.WithFontData([]byte("not a font")), 0, 20)
	assert.True(t, errors.Is(err, ErrFont))

	err = img.AppendElementAtPosition(el.WithFontData(goregular.TTF).WithSize(0), 0, 20)
	assert.True(t, errors.Is(err, ErrFont))

	// Nothing is drawn for an empty text, even without a font.
	require.NoError(t, img.AppendElementAtPosition(NewTextElement(), 0, 20))
	assert.True(t, inkBounds(img).Empty())
}

func TestImageElement_Draw(t *testing.T) {
	assert := assert.New(t)

	stamp, err := NewFactory().CreateImage(10, 10)
	require.NoError(t, err)
	stamp.Fill(red)

	img := whiteCanvas(t, 30, 30)
	require.NoError(t, img.AppendElementAtPosition(NewImageElement(stamp), 5, 5))

	assert.Equal(rgb.FromColor(red), img.At(5, 5))
	assert.Equal(rgb.FromColor(red), img.At(14, 14))
	assert.Equal(rgb.White(), img.At(4, 4))
	assert.Equal(rgb.White(), img.At(15, 15))

	// Elements partially outside the canvas are clipped.
	require.NoError(t, img.AppendElementAtPosition(NewImageElement(stamp), 25, -5))
	assert.Equal(rgb.FromColor(red), img.At(29, 0))
	assert.Equal(rgb.White(), img.At(24, 0))
}

func TestImageElement_Opacity(t *testing.T) {
	stamp, err := NewFactory().CreateImage(10, 10)
	require.NoError(t, err)
	stamp.Fill(red)

	img := whiteCanvas(t, 10, 10)
	el := NewImageElement(stamp).WithOpacity(0.5)
	require.NoError(t, img.AppendElementAtPosition(el, 0, 0))
	assert.Equal(t, color.NRGBA{R: 255, G: 128, B: 128, A: 255}, img.NRGBA().NRGBAAt(3, 3))

	// Opacity is clamped to [0, 1].
	img = whiteCanvas(t, 10, 10)
	require.NoError(t, img.AppendElementAtPosition(NewImageElement(stamp).WithOpacity(7), 0, 0))
	assert.Equal(t, rgb.FromColor(red), img.At(3, 3))
}

func TestImageElement_CompositeAndBlend(t *testing.T) {
	stamp, err := NewFactory().CreateImage(10, 10)
	require.NoError(t, err)
	stamp.Fill(red)

	img := whiteCanvas(t, 10, 10)
	el := NewImageElement(stamp).WithComposite(imop.DstOver)
	require.NoError(t, img.AppendElementAtPosition(el, 0, 0))
	assert.Equal(t, rgb.White(), img.At(0, 0))

	img = whiteCanvas(t, 10, 10)
	el = NewImageElement(stamp).WithBlend(imop.Multiply)
	require.NoError(t, img.AppendElementAtPosition(el, 0, 0))
	assert.Equal(t, rgb.FromColor(red), img.At(0, 0))

	el = NewImageElement(stamp).WithComposite(imop.Op("plus-lighter"))
	err = img.AppendElementAtPosition(el, 0, 0)
	assert.True(t, errors.Is(err, imop.ErrUnsupportedOp))
}

func writeFont(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "goregular.ttf")
	require.NoError(t, os.WriteFile(path, goregular.TTF, 0o644))
	return path
}
