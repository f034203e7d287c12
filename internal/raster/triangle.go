package raster

import (
	"image"
	"math"

	"pictoria-renderer/internal/mathutil"
)

// ScreenTriangle is a projected triangle ready for rasterization. X and Y
// are in pixels, Z is camera-space depth (larger is nearer).
type ScreenTriangle struct {
	X, Y, Z [3]float64
	U, V    [3]float64

	Tex   *image.NRGBA // nil for untextured faces
	Kd    mathutil.Vec3
	Shade float64
}

// Band is a half-open row range [Min, Max) owned by one rasterizer.
type Band struct {
	Min, Max int
}

// RasterizeTriangle rasterizes a single triangle into the rows of band with
// z-buffering, texture or diffuse color, flat shading and tone mapping.
// Pixels are sampled at their centers.
//
// This is the HOT PATH: zero allocation in the inner loop.
func RasterizeTriangle(fb *FrameBuffer, t *ScreenTriangle, band Band, lc *LightConfig) {
	x0, y0, z0 := t.X[0], t.Y[0], t.Z[0]
	x1, y1, z1 := t.X[1], t.Y[1], t.Z[1]
	x2, y2, z2 := t.X[2], t.Y[2], t.Z[2]

	// Pixel range whose centers may be covered
	minX := int(math.Ceil(math.Min(math.Min(x0, x1), x2) - 0.5))
	maxX := int(math.Floor(math.Max(math.Max(x0, x1), x2) - 0.5))
	minY := int(math.Ceil(math.Min(math.Min(y0, y1), y2) - 0.5))
	maxY := int(math.Floor(math.Max(math.Max(y0, y1), y2) - 0.5))

	if minX < 0 {
		minX = 0
	}
	if maxX > fb.Width-1 {
		maxX = fb.Width - 1
	}
	if minY < band.Min {
		minY = band.Min
	}
	if maxY > band.Max-1 {
		maxY = band.Max - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-12 && det < 1e-12 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	hasUV := t.Tex != nil
	kr, kg, kb := t.Kd[0], t.Kd[1], t.Kd[2]
	shade := t.Shade

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -1e-9 || w1 < -1e-9 || w2 < -1e-9 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}

			lr, lg, lb := kr, kg, kb
			var ca uint8 = 255
			if hasUV {
				u := w0*t.U[0] + w1*t.U[1] + w2*t.U[2]
				v := w0*t.V[0] + w1*t.V[1] + w2*t.V[2]
				var cr, cg, cb uint8
				cr, cg, cb, ca = SampleNearest(t.Tex, u, v)

				// Skip transparent texels
				if ca < 8 {
					continue
				}
				lr *= srgbToLinear[cr]
				lg *= srgbToLinear[cg]
				lb *= srgbToLinear[cb]
			}
			fb.ZBuf[zIdx] = z

			pxIdx := zIdx * 4
			fb.Color[pxIdx] = lc.Encode(lr * shade)
			fb.Color[pxIdx+1] = lc.Encode(lg * shade)
			fb.Color[pxIdx+2] = lc.Encode(lb * shade)
			fb.Color[pxIdx+3] = ca
		}
	}
}
