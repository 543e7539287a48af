package imgkit

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	testCases := []struct {
		names []string
		want  Format
		ext   string
	}{
		{[]string{"jpg", "jpeg", "JPG", ".jpeg"}, JPEG, ".jpg"},
		{[]string{"png", ".PNG"}, PNG, ".png"},
		{[]string{"gif", ".gif"}, GIF, ".gif"},
		{[]string{"bmp", "BMP"}, BMP, ".bmp"},
	}

	for _, tc := range testCases {
		for _, name := range tc.names {
			f, err := ParseFormat(name)
			require.NoError(t, err, name)
			assert.Equal(t, tc.want, f, name)
			assert.Equal(t, tc.ext, f.Extension())
		}
	}

	for _, name := range []string{"", "tiff", "webp", ".svg"} {
		_, err := ParseFormat(name)
		assert.True(t, errors.Is(err, ErrUnsupportedFormat), name)
	}
	assert.Equal(t, "unknown", Format(42).String())
	assert.Equal(t, "", Format(42).Extension())
}

func TestFormatFromFilename(t *testing.T) {
	f, err := FormatFromFilename("/tmp/photo.final.JPEG")
	require.NoError(t, err)
	assert.Equal(t, JPEG, f)

	_, err = FormatFromFilename("/tmp/photo")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestDefaultStrategy(t *testing.T) {
	for _, f := range []Format{JPEG, PNG, GIF, BMP} {
		s, err := DefaultStrategy(f)
		require.NoError(t, err)
		assert.Equal(t, f, s.Format())
		assert.NoError(t, s.Validate())
	}
	s, _ := DefaultStrategy(JPEG)
	assert.Equal(t, JPEGStrategy{Quality: 95}, s)

	_, err := DefaultStrategy(0)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestGIFStrategy_Validate(t *testing.T) {
	assert.NoError(t, GIFStrategy{}.Validate())
	assert.NoError(t, GIFStrategy{NumColors: 256}.Validate())

	err := GIFStrategy{NumColors: 300}.Validate()
	assert.True(t, errors.Is(err, ErrInvalidQuality))
	assert.Contains(t, err.Error(), "between 0 and 256, 0 means 256")
}
