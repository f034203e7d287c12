package render

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"time"

	"pictoria-renderer/internal/log"
	"pictoria-renderer/internal/postprocess"
	"pictoria-renderer/internal/raster"
	"pictoria-renderer/internal/scene"
)

var logger = log.New("render")

// Backend renders the scene's current camera, resolution, sample count and
// visibility state to a still image at outputPath. Render blocks until the
// file is written.
type Backend interface {
	Render(s *scene.Scene, outputPath string) error
}

// Pass names the kind of image a job produces.
type Pass string

// Render passes.
const (
	PassScene         Pass = "scene"
	PassStructure     Pass = "structure"
	PassVolume        Pass = "volume"
	PassOccludedFaces Pass = "occludedFaces"
)

// Job records one render invocation.
type Job struct {
	Structure  string
	Pass       Pass
	OutputPath string
	Width      int
	Height     int
	Samples    int
	Duration   time.Duration
}

// RasterBackend renders with the software rasterizer. The sample count maps
// to a supersampling grid of ⌊√samples⌋² capped by MaxSupersample per axis.
type RasterBackend struct {
	MaxSupersample int
	Workers        int
}

// Supersample returns the grid side used for a sample count.
func (b *RasterBackend) Supersample(samples int) int {
	ss := int(math.Sqrt(float64(samples)))
	if b.MaxSupersample > 0 && ss > b.MaxSupersample {
		ss = b.MaxSupersample
	}
	if ss < 1 {
		ss = 1
	}
	return ss
}

func (b *RasterBackend) Render(s *scene.Scene, outputPath string) error {
	ss := b.Supersample(s.Render.Samples)
	img, err := raster.Render(s, raster.Options{Supersample: ss, Workers: b.Workers})
	if err != nil {
		return fmt.Errorf("render: %s: %w", outputPath, err)
	}

	if ss > 1 {
		w, h := s.Render.Size()
		img = postprocess.Downsample(img, w, h)
	}

	if err := SavePNG(outputPath, img); err != nil {
		return err
	}
	logger.Debugf("wrote %s (supersample %d, %d objects)", outputPath, ss, len(s.Renderable()))
	return nil
}

// SavePNG encodes img to path, creating the parent directory.
func SavePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("render: encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}
