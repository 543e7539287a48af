/*
Package imgkit is a small image manipulation library built on top of the
github.com/disintegration/imaging and golang.org/x/image packages.
It opens JPEG, PNG, GIF and BMP files, applies geometric and color transformations
(resize, crop, rotate, flip, greyscale and other filters), draws text and image
elements over a canvas and encodes the result through format specific write strategies.

The package also provides a command line interface. To check the supported flags type:

	$ imgkit --help

A typical pipeline looks like this:

	package main

	import (
		"log"

		"github.com/esimov/imgkit"
	)

	func main() {
		f := imgkit.NewFactory()

		img, err := f.OpenImage("in.png")
		if err != nil {
			log.Fatal(err)
		}
		img, err = f.ResizeImage(img, imgkit.Scale, 640, 480)
		if err != nil {
			log.Fatal(err)
		}

		err = f.WriteImage(img, imgkit.JPEG, func(w *imgkit.Writer) error {
			if err := w.Use(imgkit.JPEGStrategy{Quality: 90}); err != nil {
				return err
			}
			return w.ToFile("out.jpg")
		})
		if err != nil {
			log.Fatal(err)
		}
	}
*/
package imgkit
