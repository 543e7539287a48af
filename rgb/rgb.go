// Package rgb converts colors between their packed integer representation,
// channel tuples and textual (hex or named) notation.
//
// The alpha channel of a Color is stored as transparency: 0 is fully opaque
// and 255 fully transparent. This way the zero value of Alpha always
// describes a solid color, e.g. White() is (255, 255, 255, 0).
package rgb

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/colornames"
)

// ErrInvalidColor is returned when a color string cannot be parsed.
var ErrInvalidColor = errors.New("invalid color")

// Color holds the red, green, blue and transparency channels of a pixel.
type Color struct {
	R, G, B uint8
	Alpha   uint8
}

var _ color.Color = Color{}

// FromInt unpacks a color stored as Alpha<<24 | R<<16 | G<<8 | B.
func FromInt(packed uint32) Color {
	return Color{
		R:     uint8(packed >> 16),
		G:     uint8(packed >> 8),
		B:     uint8(packed),
		Alpha: uint8(packed >> 24),
	}
}

// FromIntAsArray unpacks the red, green and blue channels of a packed color.
func FromIntAsArray(packed uint32) [3]uint8 {
	c := FromInt(packed)
	return [3]uint8{c.R, c.G, c.B}
}

// FromColor converts any color.Color to Color. A nil color is transparent.
func FromColor(c color.Color) Color {
	if c == nil {
		return Color{Alpha: 0xff}
	}
	if c, ok := c.(Color); ok {
		return c
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{R: n.R, G: n.G, B: n.B, Alpha: 0xff - n.A}
}

// White returns the opaque white color.
func White() Color {
	return Color{R: 0xff, G: 0xff, B: 0xff}
}

// Black returns the opaque black color.
func Black() Color {
	return Color{}
}

// Int packs the color into a single integer.
func (c Color) Int() uint32 {
	return uint32(c.Alpha)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// ToArray returns the color channels as [R, G, B, Alpha].
func (c Color) ToArray() [4]uint8 {
	return [4]uint8{c.R, c.G, c.B, c.Alpha}
}

// NRGBA returns the non-alpha-premultiplied equivalent of the color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff - c.Alpha}
}

// RGBA implements the color.Color interface.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// String returns the color in #RRGGBB notation, or #RRGGBBAA when the color
// is not opaque. The trailing byte is the opacity, as in CSS.
func (c Color) String() string {
	s := "#" + hexByte(c.R) + hexByte(c.G) + hexByte(c.B)
	if c.Alpha != 0 {
		s += hexByte(0xff - c.Alpha)
	}
	return s
}

// Parse converts a textual color into Color. It accepts the #RGB, #RRGGBB
// and #RRGGBBAA hex notations (the leading # is optional) and the
// SVG 1.1 color keywords like "red" or "cornflowerblue".
func Parse(s string) (Color, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return Color{}, errors.Wrap(ErrInvalidColor, "empty color")
	}
	if name == "transparent" {
		return Color{Alpha: 0xff}, nil
	}
	if c, ok := colornames.Map[name]; ok {
		return FromColor(c), nil
	}

	hex := strings.TrimPrefix(name, "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6, 8:
	default:
		return Color{}, errors.Wrapf(ErrInvalidColor, "%q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, errors.Wrapf(ErrInvalidColor, "%q", s)
	}
	if len(hex) == 8 {
		return Color{
			R:     uint8(v >> 24),
			G:     uint8(v >> 16),
			B:     uint8(v >> 8),
			Alpha: 0xff - uint8(v),
		}, nil
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// MustParse is like Parse but panics if the color cannot be parsed.
func MustParse(s string) Color {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

func hexByte(b uint8) string {
	const digits = "0123456789abcdef"
	return string([]byte{digits[b>>4], digits[b&0x0f]})
}
