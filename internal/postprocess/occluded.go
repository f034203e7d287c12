package postprocess

import "image"

const (
	// OccludedAlpha is the mask alpha from which a pixel counts as occluded.
	OccludedAlpha = 16

	// darkChannel: replacement candidates with every channel below this are
	// skipped, they are usually crevices rather than the surface we want.
	darkChannel = 16

	maxScanRadius = 6
)

// ScanOffsets lists neighbor offsets in concentric rings out to radius 6.
// Each ring starts with top, bottom, left and right, then the remaining ring
// pixels, corners last.
var ScanOffsets = buildScanOffsets(maxScanRadius)

func buildScanOffsets(radius int) [][2]int {
	var offsets [][2]int
	for r := 1; r <= radius; r++ {
		offsets = append(offsets, [2]int{0, -r}, [2]int{0, r}, [2]int{-r, 0}, [2]int{r, 0})
		for k := 1; k < r; k++ {
			offsets = append(offsets,
				[2]int{r, -k}, [2]int{r, k}, [2]int{-r, -k}, [2]int{-r, k},
				[2]int{k, -r}, [2]int{k, r}, [2]int{-k, -r}, [2]int{-k, r},
			)
		}
		if r == 1 {
			offsets = append(offsets, [2]int{1, -1}, [2]int{1, 1}, [2]int{-1, 1}, [2]int{-1, -1})
			continue
		}
		offsets = append(offsets, [2]int{r, -r}, [2]int{r, r}, [2]int{-r, -r}, [2]int{-r, r})
	}
	return offsets
}

// FixOccludedFaces recolors, in place, every pixel of img whose mask alpha is
// at least OccludedAlpha. The color is copied from the first ScanOffsets
// neighbor that is not occluded, not transparent and not dark; the result is
// opaque. Pixels are visited in row order, so fixed pixels may feed later
// ones. mask must have the same size as img. It returns the number of
// recolored pixels.
func FixOccludedFaces(img, mask *image.NRGBA) int {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if mask.Bounds().Dx() != w || mask.Bounds().Dy() != h {
		return 0
	}

	occluded := func(x, y int) bool {
		return mask.Pix[y*mask.Stride+x*4+3] >= OccludedAlpha
	}

	fixed := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !occluded(x, y) {
				continue
			}
			for _, off := range ScanOffsets {
				nx, ny := x+off[0], y+off[1]
				if nx < 0 || ny < 0 || nx >= w || ny >= h || occluded(nx, ny) {
					continue
				}
				si := ny*img.Stride + nx*4
				r, g, bl, a := img.Pix[si], img.Pix[si+1], img.Pix[si+2], img.Pix[si+3]
				if a == 0 || (r < darkChannel && g < darkChannel && bl < darkChannel) {
					continue
				}
				di := y*img.Stride + x*4
				img.Pix[di], img.Pix[di+1], img.Pix[di+2], img.Pix[di+3] = r, g, bl, 255
				fixed++
				break
			}
		}
	}
	return fixed
}
