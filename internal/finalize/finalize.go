// Package finalize turns raw structure renders into cropped, repaired and
// scaled images ready for the map viewer.
package finalize

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"pictoria-renderer/internal/catalog"
	"pictoria-renderer/internal/log"
	"pictoria-renderer/internal/postprocess"
	"pictoria-renderer/internal/render"

	"github.com/HugoSmits86/nativewebp"
)

var logger = log.New("finalize")

// Config holds the shared settings of a finalize run.
type Config struct {
	RendersDir     string
	OutputDir      string
	FullResolution bool
	WebP           bool
	Workers        int
}

// Result holds the outcome of finalizing one structure.
type Result struct {
	Name    string
	Success bool
	Error   string
	Crop    image.Rectangle
	Fixed   int
}

// Run finalizes all structures using a worker pool. Results are in the
// order of structures.
func Run(cfg Config, structures []catalog.StructureInfo) []Result {
	total := len(structures)
	results := make([]Result, total)
	if total == 0 {
		return results
	}
	workers := max(cfg.Workers, 1)

	if err := prepareOutputDir(cfg.OutputDir); err != nil {
		for i, st := range structures {
			results[i] = Result{Name: st.Name, Error: err.Error()}
		}
		return results
	}

	var processed atomic.Int64
	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if p := processed.Load(); p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					logger.Infof("[%d/%d] %.1f structures/sec", p, total, rate)
				}
			}
		}
	}()

	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = processStructure(cfg, structures[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range structures {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	close(done)

	logger.Infof("finalized %d structures in %s", total, time.Since(start).Round(time.Millisecond))
	return results
}

// Failed returns the results that did not succeed.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	return failed
}

// prepareOutputDir creates dir and removes images left by a previous run.
func prepareOutputDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("finalize: create output directory: %w", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("finalize: read output directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".webp":
			if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
				return fmt.Errorf("finalize: clear output directory: %w", err)
			}
		}
	}
	return nil
}

func processStructure(cfg Config, st catalog.StructureInfo) Result {
	res := Result{Name: st.Name}
	if err := finalizeStructure(cfg, st, &res); err != nil {
		res.Error = err.Error()
		logger.Warningf("%s: %v", st.Name, err)
		return res
	}
	res.Success = true
	return res
}

func finalizeStructure(cfg Config, st catalog.StructureInfo, res *Result) error {
	dims := st.ImageDimensions

	volume, err := postprocess.LoadImage(filepath.Join(cfg.RendersDir, st.Name+"_"+string(render.PassVolume)+".png"))
	if err != nil {
		return err
	}
	threshold := uint8(postprocess.DraftCropAlpha)
	if cfg.FullResolution {
		threshold = postprocess.FullCropAlpha
	}
	rect, ok := postprocess.FindCropRect(volume, threshold)
	if !ok {
		return fmt.Errorf("volume render has no pixel with alpha >= %d", threshold)
	}
	rect = postprocess.AdjustCropAspect(rect, dims.Width, dims.Height)
	res.Crop = rect

	img, err := postprocess.LoadImage(filepath.Join(cfg.RendersDir, st.Name+".png"))
	if err != nil {
		return err
	}
	img = postprocess.Crop(img, rect)

	maskPath := filepath.Join(cfg.RendersDir, st.Name+"_"+string(render.PassOccludedFaces)+".png")
	mask, err := postprocess.LoadImage(maskPath)
	switch {
	case err == nil:
		res.Fixed = postprocess.FixOccludedFaces(img, postprocess.Crop(mask, rect))
	case errors.Is(err, os.ErrNotExist):
		logger.Debugf("%s: no occluded faces render", st.Name)
	default:
		return err
	}

	if dims.Width > 0 && dims.Height > 0 {
		img = postprocess.Scale(img, dims.Width, dims.Height)
	}

	if err := render.SavePNG(filepath.Join(cfg.OutputDir, st.Name+".png"), img); err != nil {
		return err
	}
	if cfg.WebP {
		if err := saveWebP(filepath.Join(cfg.OutputDir, st.Name+".webp"), img); err != nil {
			return err
		}
	}

	logger.Debugf("%s: crop %v, %d occluded pixels fixed", st.Name, rect, res.Fixed)
	return nil
}

func saveWebP(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fmt.Errorf("WebP encode: %w", err)
	}
	return f.Close()
}
