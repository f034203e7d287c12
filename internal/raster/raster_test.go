package raster

import (
	"image"
	"image/color"
	"io"
	"testing"

	"pictoria-renderer/internal/log"
	"pictoria-renderer/internal/mathutil"
	"pictoria-renderer/internal/scene"
	"pictoria-renderer/internal/wavefront"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetSink(io.Discard)
}

// topDownScene has a camera at z=10 looking down -Z with 4 world units
// across 8 pixels.
func topDownScene() *scene.Scene {
	s := scene.New()
	scene.Initialize(s, scene.InitParams{
		OrthoScale:       4,
		CameraLocation:   mathutil.Vec3{0, 0, 10},
		ResolutionWidth:  8,
		ResolutionHeight: 8,
		DraftSamples:     1,
		FullSamples:      1,
		WorldStrength:    0.2,
		SunEnergy:        12,
	})
	cam, _ := s.Camera()
	cam.Rotation = mathutil.Vec3{}
	return s
}

func quad(half, z float64, kd mathutil.Vec3) *scene.Object {
	mesh := &wavefront.Mesh{
		Verts: []mathutil.Vec3{
			{-half, -half, z}, {half, -half, z}, {half, half, z}, {-half, half, z},
		},
		Tris: []wavefront.Triangle{
			{VI: [3]int{0, 1, 2}, TI: [3]int{-1, -1, -1}},
			{VI: [3]int{0, 2, 3}, TI: [3]int{-1, -1, -1}},
		},
		Materials: []*wavefront.Material{{Name: "m", Kd: kd}},
	}
	return &scene.Object{Name: "Quad", Type: scene.MeshObject, VisibleCamera: true, Mesh: mesh}
}

func TestProjectionIsometric(t *testing.T) {
	cam := &scene.Object{
		Type:     scene.CameraObject,
		Location: mathutil.Vec3{10, -10, 8},
		Rotation: scene.CameraRotation,
		Camera:   &scene.Camera{Ortho: true, OrthoScale: 10, SensorFit: scene.SensorFitHorizontal, ClipStart: 0.001, ClipEnd: 1000},
	}
	proj, err := NewProjection(cam, 200, 100)
	require.NoError(t, err)

	forward := mathutil.EulerDegToMat3(cam.Rotation).MulVec3(mathutil.Vec3{0, 0, -1})
	x, y, z := proj.Project(cam.Location.Add(forward.Scale(5)))
	assert.InDelta(t, 100, x, 1e-9)
	assert.InDelta(t, 50, y, 1e-9)
	assert.InDelta(t, -5, z, 1e-9)
	assert.True(t, proj.InClip(z))
	assert.False(t, proj.InClip(5))

	// orthoScale spans the width: 10 units over 200 pixels
	right := mathutil.EulerDegToMat3(cam.Rotation).MulVec3(mathutil.Vec3{1, 0, 0})
	x, _, _ = proj.Project(cam.Location.Add(forward.Scale(5)).Add(right.Scale(5)))
	assert.InDelta(t, 200, x, 1e-9)

	cam.Camera.Ortho = false
	_, err = NewProjection(cam, 200, 100)
	assert.ErrorIs(t, err, ErrPerspective)
}

func TestRenderDepthOrder(t *testing.T) {
	s := topDownScene()
	s.Add(quad(1, 0, mathutil.Vec3{0, 0, 1}))
	s.Add(quad(0.5, 1, mathutil.Vec3{1, 0, 0}))

	img, err := Render(s, Options{Workers: 3})
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 8, 8), img.Bounds())

	assert.Equal(t, uint8(0), img.NRGBAAt(0, 0).A)
	assert.Equal(t, uint8(0), img.NRGBAAt(7, 7).A)

	// outer ring of the far quad is blue
	edge := img.NRGBAAt(2, 2)
	assert.Equal(t, uint8(255), edge.A)
	assert.Greater(t, edge.B, edge.R)

	// near quad covers the center
	center := img.NRGBAAt(4, 4)
	assert.Equal(t, uint8(255), center.A)
	assert.Greater(t, center.R, center.B)
	assert.Equal(t, uint8(0), center.G)
}

func TestRenderDeterministicAcrossWorkers(t *testing.T) {
	s := topDownScene()
	s.Add(quad(1.3, 0, mathutil.Vec3{0.8, 0.6, 0.2}))

	one, err := Render(s, Options{Supersample: 2, Workers: 1})
	require.NoError(t, err)
	many, err := Render(s, Options{Supersample: 2, Workers: 5})
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 16, 16), one.Bounds())
	assert.Equal(t, one.Pix, many.Pix)
}

func TestRenderHiddenAndClipped(t *testing.T) {
	s := topDownScene()
	q := s.Add(quad(1, 0, mathutil.Vec3{1, 1, 1}))
	q.VisibleCamera = false

	img, err := Render(s, Options{})
	require.NoError(t, err)
	for i := 3; i < len(img.Pix); i += 4 {
		require.Zero(t, img.Pix[i])
	}

	q.VisibleCamera = true
	cam, _ := s.Camera()
	cam.Camera.ClipEnd = 5
	img, err = Render(s, Options{})
	require.NoError(t, err)
	assert.Zero(t, img.NRGBAAt(4, 4).A)
}

func TestRenderOpaqueFilm(t *testing.T) {
	s := topDownScene()
	s.Render.FilmTransparent = false

	img, err := Render(s, Options{})
	require.NoError(t, err)
	bg := img.NRGBAAt(0, 0)
	assert.Equal(t, uint8(255), bg.A)
	assert.Equal(t, bg.R, bg.G)
	assert.NotZero(t, bg.R)
}

func TestRenderInvalidResolution(t *testing.T) {
	s := topDownScene()
	s.Render.ResolutionX = 0
	_, err := Render(s, Options{})
	assert.Error(t, err)
}

func TestSampleNearest(t *testing.T) {
	tex := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	tex.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	tex.SetNRGBA(1, 1, color.NRGBA{B: 255, A: 255})

	// v grows upwards: (0.25, 0.75) is the top-left texel
	r, _, _, a := SampleNearest(tex, 0.25, 0.75)
	assert.Equal(t, uint8(255), r)
	assert.Equal(t, uint8(255), a)

	_, _, b, _ := SampleNearest(tex, 0.75, 0.25)
	assert.Equal(t, uint8(255), b)

	// wrapping
	r, _, _, _ = SampleNearest(tex, 1.25, -0.25)
	assert.Equal(t, uint8(255), r)
}

func TestTonemap(t *testing.T) {
	assert.InDelta(t, 0, ACESTonemap(0), 1e-12)
	assert.Less(t, ACESTonemap(100), 1.1)

	lc := LightConfig{Exposure: 1, Filmic: true, InvGamma: 1 / 2.2}
	assert.Equal(t, uint8(0), lc.Encode(0))
	assert.Greater(t, lc.Encode(4), lc.Encode(1))
}
