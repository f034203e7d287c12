package postprocess

import (
	"image"
	"math"
)

// Crop alpha thresholds. Sharp structure corners only partly cover their
// pixels, so draft renders need a lower threshold.
const (
	DraftCropAlpha = 170
	FullCropAlpha  = 255
)

// FindCropRect returns the bounding box of pixels with alpha >= minAlpha.
// ok is false when no pixel qualifies.
func FindCropRect(img *image.NRGBA, minAlpha uint8) (r image.Rectangle, ok bool) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	minX, minY := w, h
	maxX, maxY := -1, -1
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			if row[x*4+3] < minAlpha {
				continue
			}
			minX = min(minX, x)
			maxX = max(maxX, x)
			minY = min(minY, y)
			maxY = max(maxY, y)
		}
	}

	if maxX < 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// AdjustCropAspect changes the height of r so that its aspect ratio matches
// width:height. The width is kept, since the isometric width of a structure
// is exact. The height difference is split evenly between top and bottom.
func AdjustCropAspect(r image.Rectangle, width, height int) image.Rectangle {
	if width <= 0 || height <= 0 || r.Empty() {
		return r
	}

	expected := float64(width) / float64(height)
	adjusted := int(math.RoundToEven(float64(r.Dx()) / expected))
	diff := adjusted - r.Dy()
	if diff == 0 {
		return r
	}

	shift := int(math.RoundToEven(math.Abs(float64(diff)) / 2))
	if diff > 0 {
		r.Min.Y -= shift
	} else {
		r.Min.Y += shift
	}
	r.Max.Y = r.Min.Y + adjusted
	return r
}

// Crop copies the r region of img into a new image at the origin. Parts of r
// outside img are transparent.
func Crop(img *image.NRGBA, r image.Rectangle) *image.NRGBA {
	cropped := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))

	src := r.Intersect(img.Bounds())
	if src.Empty() {
		return cropped
	}
	rowLen := src.Dx() * 4
	for y := src.Min.Y; y < src.Max.Y; y++ {
		srcOff := img.PixOffset(src.Min.X, y)
		dstOff := cropped.PixOffset(src.Min.X-r.Min.X, y-r.Min.Y)
		copy(cropped.Pix[dstOff:dstOff+rowLen], img.Pix[srcOff:srcOff+rowLen])
	}
	return cropped
}
