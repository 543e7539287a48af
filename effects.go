package imgkit

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/esimov/imgkit/utils"
)

var (
	kernelX = [3][3]int{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}

	kernelY = [3][3]int{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// sobel detects the image edges.
// See https://en.wikipedia.org/wiki/Sobel_operator
func sobel(src *image.NRGBA, threshold float64) *image.NRGBA {
	gray := imaging.Grayscale(src)
	dx, dy := gray.Bounds().Dx(), gray.Bounds().Dy()
	dst := image.NewNRGBA(gray.Bounds())

	// luma reads the grey level at (x, y), replicating the border pixels.
	luma := func(x, y int) int {
		x = utils.Clamp(x, 0, dx-1)
		y = utils.Clamp(y, 0, dy-1)
		return int(gray.Pix[gray.PixOffset(x, y)])
	}

	for y := 0; y < dy; y++ {
		for x := 0; x < dx; x++ {
			var sumX, sumY int
			for ky := 0; ky < 3; ky++ {
				for kx := 0; kx < 3; kx++ {
					l := luma(x+kx-1, y+ky-1)
					sumX += l * kernelX[ky][kx]
					sumY += l * kernelY[ky][kx]
				}
			}
			magnitude := utils.Min(math.Sqrt(float64(sumX*sumX+sumY*sumY)), 255)
			if magnitude <= threshold {
				magnitude = 0
			}

			i := dst.PixOffset(x, y)
			m := uint8(magnitude)
			dst.Pix[i+0] = m
			dst.Pix[i+1] = m
			dst.Pix[i+2] = m
			dst.Pix[i+3] = src.Pix[src.PixOffset(x, y)+3]
		}
	}
	return dst
}

// dither converts an image to black and white using the luma 127 threshold.
// The alpha channel is preserved.
func dither(src *image.NRGBA) *image.NRGBA {
	dst := imaging.Grayscale(src)
	for i := 0; i < len(dst.Pix); i += 4 {
		var v uint8
		if dst.Pix[i] > 127 {
			v = 0xff
		}
		dst.Pix[i+0] = v
		dst.Pix[i+1] = v
		dst.Pix[i+2] = v
	}
	return dst
}
