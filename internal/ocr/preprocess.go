package ocr

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

const (
	// maxUpscale bounds the enlargement factor of a narrow image
	maxUpscale = 4.0
	// maxUpscaledPixels bounds the size of the enlarged copy
	maxUpscaledPixels = 40_000_000
)

// upscale enlarges images narrower than minWidth, keeping the aspect ratio.
// Tesseract loses accuracy on small screenshots. The factor is capped so a
// thin strip such as 1x20000 cannot allocate an enormous canvas.
func upscale(img image.Image, minWidth int) image.Image {
	b := img.Bounds()
	if minWidth <= 0 || b.Dx() == 0 || b.Dy() == 0 || b.Dx() >= minWidth {
		return img
	}

	scale := math.Min(float64(minWidth)/float64(b.Dx()), maxUpscale)
	if pixels := float64(b.Dx()) * float64(b.Dy()) * scale * scale; pixels > maxUpscaledPixels {
		scale *= math.Sqrt(maxUpscaledPixels / pixels)
	}
	width := int(float64(b.Dx()) * scale)
	height := int(float64(b.Dy()) * scale)
	if width <= b.Dx() || height < 1 {
		return img
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
