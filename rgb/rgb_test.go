package rgb

import (
	"image/color"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestRgb_PackRoundTrip(t *testing.T) {
	assert := assert.New(t)

	for _, packed := range []uint32{0, 0x00ff0000, 0x0000ff00, 0x000000ff, 0x7f123456, 0xffffffff, 0x80abcdef} {
		assert.Equal(packed, FromInt(packed).Int())
	}

	c := Color{R: 1, G: 2, B: 3, Alpha: 4}
	assert.Equal(c, FromInt(c.Int()))
}

func TestRgb_Arrays(t *testing.T) {
	assert := assert.New(t)

	assert.Equal([3]uint8{0x12, 0x34, 0x56}, FromIntAsArray(0x7f123456))
	assert.Equal([4]uint8{0x12, 0x34, 0x56, 0x7f}, FromInt(0x7f123456).ToArray())
	assert.Equal([4]uint8{255, 255, 255, 0}, White().ToArray())
	assert.Equal([4]uint8{0, 0, 0, 0}, Black().ToArray())
}

func TestRgb_ColorInterface(t *testing.T) {
	assert := assert.New(t)

	r, g, b, a := White().RGBA()
	assert.Equal([4]uint32{0xffff, 0xffff, 0xffff, 0xffff}, [4]uint32{r, g, b, a})

	_, _, _, a = Color{Alpha: 0xff}.RGBA()
	assert.Zero(a)

	assert.Equal(Color{R: 10, G: 20, B: 30, Alpha: 55}, FromColor(color.NRGBA{R: 10, G: 20, B: 30, A: 200}))
	assert.Equal(Color{Alpha: 0xff}, FromColor(nil))
	assert.Equal(color.NRGBA{R: 10, G: 20, B: 30, A: 200}, Color{R: 10, G: 20, B: 30, Alpha: 55}.NRGBA())
}

func TestRgb_Parse(t *testing.T) {
	testCases := []struct {
		in   string
		want Color
	}{
		{"#FF0000", Color{R: 0xff}},
		{"#ff0000", Color{R: 0xff}},
		{"ababab", Color{R: 0xab, G: 0xab, B: 0xab}},
		{"#0f0", Color{G: 0xff}},
		{"#0000ff80", Color{B: 0xff, Alpha: 0x7f}},
		{"red", Color{R: 0xff}},
		{" White ", White()},
		{"transparent", Color{Alpha: 0xff}},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			c, err := Parse(tc.in)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, c)
		})
	}
}

func TestRgb_ParseInvalid(t *testing.T) {
	for _, in := range []string{"", "#12", "#12345", "#gggggg", "not-a-color"} {
		_, err := Parse(in)
		assert.True(t, errors.Is(err, ErrInvalidColor), "expected invalid color for %q", in)
	}
	assert.Panics(t, func() { MustParse("#zz") })
}

func TestRgb_String(t *testing.T) {
	assert.Equal(t, "#ff0000", MustParse("red").String())
	assert.Equal(t, "#0000ff80", MustParse("#0000ff80").String())
}
