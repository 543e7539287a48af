package imgkit

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"

	"github.com/disintegration/imaging"
	"github.com/esimov/imgkit/imop"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Element is a drawable overlay composited over a canvas.
type Element interface {
	// Draw renders the element over dst, anchored at pt.
	Draw(dst *image.NRGBA, pt image.Point) error
}

var (
	_ Element = TextElement{}
	_ Element = ImageElement{}
)

// TextElement draws a single line of text using a TrueType or OpenType font.
// The anchor point is the left end of the text baseline and the text is
// rotated counter-clockwise around it.
//
// The With methods return a modified copy, so the same element can be
// reused to draw the text with different attributes.
type TextElement struct {
	text     string
	fontPath string
	fontData []byte
	size     float64
	angle    float64
	color    color.Color
}

// NewTextElement returns an empty, black, 12pt text element without a font.
func NewTextElement() TextElement {
	return TextElement{size: 12, color: color.Black}
}

// WithText sets the text to be drawn.
func (e TextElement) WithText(text string) TextElement {
	e.text = text
	return e
}

// WithFont sets the path of the font file.
func (e TextElement) WithFont(path string) TextElement {
	e.fontPath = path
	e.fontData = nil
	return e
}

// WithFontData sets the font from the content of a font file.
func (e TextElement) WithFontData(data []byte) TextElement {
	e.fontData = data
	e.fontPath = ""
	return e
}

// WithSize sets the font size in points.
func (e TextElement) WithSize(size float64) TextElement {
	e.size = size
	return e
}

// WithAngle sets the rotation angle in degrees.
func (e TextElement) WithAngle(angle float64) TextElement {
	e.angle = angle
	return e
}

// WithColor sets the text color.
func (e TextElement) WithColor(c color.Color) TextElement {
	e.color = c
	return e
}

// Text returns the text to be drawn.
func (e TextElement) Text() string { return e.text }

// Size returns the font size in points.
func (e TextElement) Size() float64 { return e.size }

// Angle returns the rotation angle in degrees.
func (e TextElement) Angle() float64 { return e.angle }

// Color returns the text color.
func (e TextElement) Color() color.Color { return e.color }

// Draw implements the Element interface.
func (e TextElement) Draw(dst *image.NRGBA, pt image.Point) error {
	if e.text == "" {
		return nil
	}
	face, err := e.face()
	if err != nil {
		return err
	}
	defer face.Close()

	mask, origin := e.rasterize(face)
	if mask == nil {
		return nil
	}

	col := e.color
	if col == nil {
		col = color.Black
	}
	r := mask.Bounds().Add(pt.Sub(origin))
	draw.DrawMask(dst, r, image.NewUniform(col), image.Point{}, mask, mask.Bounds().Min, draw.Over)
	return nil
}

// face loads the font and returns a face of the element size.
func (e TextElement) face() (font.Face, error) {
	data := e.fontData
	if data == nil {
		if e.fontPath == "" {
			return nil, ErrFontRequired
		}
		var err error
		if data, err = os.ReadFile(e.fontPath); err != nil {
			return nil, errors.Wrapf(ErrFont, "%v", err)
		}
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, errors.Wrapf(ErrFont, "%v", err)
	}
	if e.size <= 0 {
		return nil, errors.Wrapf(ErrFont, "invalid font size %v", e.size)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    e.size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, errors.Wrapf(ErrFont, "%v", err)
	}
	return face, nil
}

// rasterize renders the glyph coverage of the text into a mask and returns it
// together with the position of the baseline origin inside the mask.
func (e TextElement) rasterize(face font.Face) (image.Image, image.Point) {
	bounds, _ := font.BoundString(face, e.text)
	minX, minY := bounds.Min.X.Floor(), bounds.Min.Y.Floor()
	maxX, maxY := bounds.Max.X.Ceil(), bounds.Max.Y.Ceil()
	if maxX <= minX || maxY <= minY {
		return nil, image.Point{}
	}

	mask := image.NewAlpha(image.Rect(0, 0, maxX-minX, maxY-minY))
	d := font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(-minX, -minY),
	}
	d.DrawString(e.text)

	origin := image.Pt(-minX, -minY)
	if e.angle == 0 {
		return mask, origin
	}

	rotated := imaging.Rotate(mask, e.angle, color.Transparent)

	// Rotate the baseline origin around the mask center, the same way imaging does.
	w, h := float64(mask.Bounds().Dx()), float64(mask.Bounds().Dy())
	rw, rh := float64(rotated.Bounds().Dx()), float64(rotated.Bounds().Dy())
	vx, vy := float64(origin.X)-w/2, float64(origin.Y)-h/2
	sin, cos := math.Sincos(math.Pi * e.angle / 180)

	return rotated, image.Pt(
		int(math.Round(rw/2+vx*cos+vy*sin)),
		int(math.Round(rh/2-vx*sin+vy*cos)),
	)
}

// ImageElement draws an image over the canvas with its top-left corner at the anchor point.
type ImageElement struct {
	img     *Image
	opacity float64
	op      imop.Op
	blend   imop.BlendMode
}

// NewImageElement returns an element drawing img at full opacity
// with the source-over composite operation.
func NewImageElement(img *Image) ImageElement {
	return ImageElement{img: img, opacity: 1, op: imop.SrcOver, blend: imop.Normal}
}

// WithOpacity sets the opacity of the drawn image, between 0 and 1.
func (e ImageElement) WithOpacity(opacity float64) ImageElement {
	e.opacity = math.Max(0, math.Min(opacity, 1))
	return e
}

// WithComposite sets the Porter-Duff composite operation.
func (e ImageElement) WithComposite(op imop.Op) ImageElement {
	e.op = op
	return e
}

// WithBlend sets the blend mode used for mixing the image with the backdrop.
func (e ImageElement) WithBlend(mode imop.BlendMode) ImageElement {
	e.blend = mode
	return e
}

// Draw implements the Element interface.
func (e ImageElement) Draw(dst *image.NRGBA, pt image.Point) error {
	if e.img == nil {
		return nil
	}
	return imop.Draw(dst, e.img.pix, pt, e.op, e.blend, e.opacity)
}
