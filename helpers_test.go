package imgkit

import (
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

const (
	sampleWidth  = 300
	sampleHeight = 200
)

var (
	blue   = color.NRGBA{B: 0xff, A: 0xff}
	yellow = color.NRGBA{R: 0xff, G: 0xff, A: 0xff}
)

// sampleImage returns a 300x200 image, blue on the upper half and yellow on the lower half.
func sampleImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, sampleWidth, sampleHeight))
	draw.Draw(img, image.Rect(0, 0, sampleWidth, sampleHeight/2), &image.Uniform{blue}, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(0, sampleHeight/2, sampleWidth, sampleHeight), &image.Uniform{yellow}, image.Point{}, draw.Src)
	return img
}

// gradientImage returns a 300x200 image where every pixel has a distinct color.
func gradientImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, sampleWidth, sampleHeight))
	for y := 0; y < sampleHeight; y++ {
		for x := 0; x < sampleWidth; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x),
				G: uint8(y),
				B: uint8(x >> 8),
				A: 0xff,
			})
		}
	}
	return img
}

// writeSample encodes img into a new file called name inside the test temporary directory.
// The encoder is selected by the file extension.
func writeSample(t *testing.T, img image.Image, name string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	switch filepath.Ext(name) {
	case ".png":
		err = png.Encode(f, img)
	case ".jpg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 100})
	case ".gif":
		err = gif.Encode(f, img, nil)
	case ".bmp":
		err = bmp.Encode(f, img)
	default:
		_, err = f.WriteString("not an image")
	}
	require.NoError(t, err)

	return path
}

// decodeConfig returns the dimensions and format name of the encoded image file.
func decodeConfig(t *testing.T, path string) (image.Config, string) {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	require.NoError(t, err)

	return cfg, format
}
