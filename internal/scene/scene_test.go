package scene

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"pictoria-renderer/internal/catalog"
	"pictoria-renderer/internal/device"
	"pictoria-renderer/internal/log"
	"pictoria-renderer/internal/mathutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetSink(io.Discard)
}

func writeTriangle(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), 0o644))
	return path
}

func TestStartupScene(t *testing.T) {
	s := New()

	names := make([]string, 0, 3)
	for _, o := range s.Objects() {
		names = append(names, o.Name)
	}
	assert.Equal(t, []string{"Camera", "Cube", "Light"}, names)
	assert.Len(t, s.Renderable(), 1)
	assert.Empty(t, s.Selected())
}

func TestImportOBJ(t *testing.T) {
	dir := t.TempDir()
	s := New()

	first, err := s.ImportOBJ(writeTriangle(t, dir, "a.obj"))
	require.NoError(t, err)
	assert.Equal(t, "ObjObject", first.Name)
	assert.True(t, first.VisibleCamera)
	assert.Equal(t, []*Object{first}, s.Selected())

	second, err := s.ImportOBJ(writeTriangle(t, dir, "b.obj"))
	require.NoError(t, err)
	assert.Equal(t, "ObjObject.001", second.Name)
	assert.False(t, first.Selected())
	assert.True(t, second.Selected())

	_, err = s.ImportOBJ(filepath.Join(dir, "missing.obj"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRenameAndRemove(t *testing.T) {
	s := New()
	o, err := s.ImportOBJ(writeTriangle(t, t.TempDir(), "house.obj"))
	require.NoError(t, err)

	require.NoError(t, s.Rename(o, "House"))
	assert.Same(t, o, s.Object("House"))
	assert.Equal(t, "House", o.Mesh.Name)

	assert.ErrorIs(t, s.Rename(o, "Cube"), ErrNameTaken)

	s.Remove(o)
	assert.Nil(t, s.Object("House"))
	assert.Empty(t, s.Selected())

	// second removal is a no-op
	s.Remove(o)
	assert.Len(t, s.Objects(), 3)
}

func TestRenameOverHostObjects(t *testing.T) {
	dir := t.TempDir()
	s := New()
	Initialize(s, InitParams{OrthoScale: 1, ResolutionWidth: 10, ResolutionHeight: 10, SunEnergy: 12})

	camStructure, err := s.ImportOBJ(writeTriangle(t, dir, "camera.obj"))
	require.NoError(t, err)
	require.NoError(t, s.Rename(camStructure, "Camera"))
	sunStructure, err := s.ImportOBJ(writeTriangle(t, dir, "sun.obj"))
	require.NoError(t, err)
	require.NoError(t, s.Rename(sunStructure, "Sun"))

	assert.Same(t, camStructure, s.Object("Camera"))
	assert.Same(t, sunStructure, s.Object("Sun"))

	cam, err := s.Camera()
	require.NoError(t, err)
	assert.Equal(t, "Camera.001", cam.Name)
	lights := s.Lights()
	require.Len(t, lights, 1)
	assert.Equal(t, "Sun.001", lights[0].Name)

	// structures still cannot share a name
	assert.ErrorIs(t, s.Rename(sunStructure, "Camera"), ErrNameTaken)
}

func TestInitialize(t *testing.T) {
	s := New()
	counts := Initialize(s, InitParams{
		OrthoScale:       12.5,
		CameraLocation:   mathutil.Vec3{10, -10, 8},
		ResolutionWidth:  640,
		ResolutionHeight: 360,
		DraftSamples:     32,
		FullSamples:      2048,
		UseFullSamples:   true,
		WorldStrength:    0.2,
		SunEnergy:        12,
		Compute:          device.Config{Backend: device.HIP},
	})

	assert.Equal(t, SampleCounts{Draft: 32, Final: 2048}, counts)
	assert.Equal(t, 32, s.Render.Samples)

	// cube and default light removed, a sun added
	assert.Empty(t, s.Renderable())
	lights := s.Lights()
	require.Len(t, lights, 1)
	assert.Equal(t, SunLight, lights[0].Light.Type)
	assert.Equal(t, 12.0, lights[0].Light.Energy)
	assert.Equal(t, SunRotation, lights[0].Rotation)

	cam, err := s.Camera()
	require.NoError(t, err)
	assert.Equal(t, mathutil.Vec3{60, 0, -45}, cam.Rotation)
	assert.Equal(t, mathutil.Vec3{10, -10, 8}, cam.Location)
	assert.Equal(t, Camera{Ortho: true, OrthoScale: 12.5, SensorFit: SensorFitHorizontal, ClipStart: 0.001, ClipEnd: 1000}, *cam.Camera)

	w, h := s.Render.Size()
	assert.Equal(t, 640, w)
	assert.Equal(t, 360, h)
	assert.True(t, s.Render.FilmTransparent)
	assert.Equal(t, "Filmic", s.Render.ViewTransform)
	assert.Equal(t, device.HIP, s.Render.Compute.Backend)
	assert.Equal(t, World{Color: mathutil.Vec3{1, 1, 1}, Strength: 0.2}, s.World)
}

func TestInitializeDraftOnly(t *testing.T) {
	counts := Initialize(New(), InitParams{DraftSamples: 32, FullSamples: 2048, ResolutionWidth: 1, ResolutionHeight: 1})
	assert.Equal(t, SampleCounts{Draft: 32, Final: 32}, counts)
}

func TestApplyRenderParams(t *testing.T) {
	s := New()
	Initialize(s, InitParams{OrthoScale: 1, ResolutionWidth: 10, ResolutionHeight: 10})

	require.NoError(t, s.ApplyRenderParams(catalog.RenderParams{
		OrthoScale: 4, CameraX: 1, CameraY: 2, CameraZ: 3, ResolutionWidth: 200, ResolutionHeight: 100,
	}))

	cam, err := s.Camera()
	require.NoError(t, err)
	assert.Equal(t, 4.0, cam.Camera.OrthoScale)
	assert.Equal(t, mathutil.Vec3{1, 2, 3}, cam.Location)
	assert.Equal(t, 200, s.Render.ResolutionX)
	assert.Equal(t, 100, s.Render.ResolutionY)

	s.Remove(cam)
	assert.ErrorIs(t, s.ApplyRenderParams(catalog.RenderParams{}), ErrNoCamera)
}
