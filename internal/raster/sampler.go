package raster

import "image"

// SampleNearest returns the texel under (u, v) with UV wrapping. v grows
// upwards as in OBJ texture space. Palette textures need exact texels, so
// there is no filtering.
func SampleNearest(tex *image.NRGBA, u, v float64) (r, g, b, a uint8) {
	w := tex.Rect.Dx()
	h := tex.Rect.Dy()
	if w == 0 || h == 0 {
		return 0, 0, 0, 0
	}

	u = wrap(u)
	v = wrap(v)

	x := int(u * float64(w))
	y := int((1 - v) * float64(h))
	if x >= w {
		x = w - 1
	}
	if y >= h {
		y = h - 1
	}
	if y < 0 {
		y = 0
	}

	i := y*tex.Stride + x*4
	return tex.Pix[i], tex.Pix[i+1], tex.Pix[i+2], tex.Pix[i+3]
}

func wrap(t float64) float64 {
	t = t - float64(int(t))
	if t < 0 {
		t += 1.0
	}
	return t
}
