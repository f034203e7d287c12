package raster

import (
	"math"

	"pictoria-renderer/internal/mathutil"
	"pictoria-renderer/internal/scene"
)

// LightConfig holds precomputed lighting parameters.
type LightConfig struct {
	LightDir mathutil.Vec3 // unit vector pointing towards the sun
	Ambient  float64
	Direct   float64
	Exposure float64
	Filmic   bool
	InvGamma float64

	Background mathutil.Vec3 // linear world color * strength
}

// LightConfigFor derives lighting from the scene's world and its first sun
// light. Other light types do not contribute.
func LightConfigFor(s *scene.Scene) LightConfig {
	lc := LightConfig{
		Ambient:    s.World.Strength * (s.World.Color[0] + s.World.Color[1] + s.World.Color[2]) / 3,
		Exposure:   1.0,
		Filmic:     s.Render.ViewTransform == scene.ViewTransform,
		InvGamma:   1.0 / 2.2,
		Background: s.World.Color.Scale(s.World.Strength),
	}

	for _, l := range s.Lights() {
		if l.Light.Type != scene.SunLight {
			continue
		}
		// a sun shines along its local -Z
		lc.LightDir = mathutil.EulerDegToMat3(l.Rotation).MulVec3(mathutil.Vec3{0, 0, 1}).Normalize()
		lc.Direct = l.Light.Energy / math.Pi
		break
	}
	return lc
}

// Shade returns the flat lighting scalar for a unit face normal. Faces are
// lit from both sides.
func (lc *LightConfig) Shade(normal mathutil.Vec3) float64 {
	return lc.Ambient + math.Abs(normal.Dot(lc.LightDir))*lc.Direct
}

// Encode maps a linear radiance value to an 8-bit display value.
func (lc *LightConfig) Encode(x float64) uint8 {
	x *= lc.Exposure
	if lc.Filmic {
		x = ACESTonemap(x)
	}
	if x <= 0 {
		return 0
	}
	return clamp255(math.Pow(x, lc.InvGamma) * 255)
}

// Precomputed sRGB-to-linear lookup table (256 entries).
var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// ACESTonemap applies ACES Filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
