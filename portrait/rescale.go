package portrait

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Rescale stretches a microscopy frame linearly between its darkest and
// brightest pixels and returns an 8-bit grayscale image. The gallery's raw
// 16-bit TIFFs use a small slice of their dynamic range, so they render
// nearly black without this.
func Rescale(img image.Image) *image.Gray {
	bounds := img.Bounds()

	min, max := uint32(1<<16-1), uint32(0)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			v, _, _, _ := img.At(x, y).RGBA()
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}

	out := image.NewGray(bounds)
	scale := max - min
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			v, _, _, _ := img.At(x, y).RGBA()
			if scale == 0 {
				out.SetGray(x, y, gray8(0))
				continue
			}
			out.SetGray(x, y, gray8((v-min)*255/scale))
		}
	}

	return out
}

func gray8(v uint32) color.Gray {
	return color.Gray{Y: uint8(v)}
}

// Thumbnail rescales and resizes a frame to the given width for display,
// preserving the aspect ratio.
func Thumbnail(img image.Image, width int) image.Image {
	return imaging.Resize(Rescale(img), width, 0, imaging.Lanczos)
}
