package main

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"pictoria-renderer/internal/catalog"
	"pictoria-renderer/internal/config"
	"pictoria-renderer/internal/device"
	"pictoria-renderer/internal/finalize"
	"pictoria-renderer/internal/log"
	"pictoria-renderer/internal/mathutil"
	"pictoria-renderer/internal/orchestrator"
	"pictoria-renderer/internal/render"
	"pictoria-renderer/internal/scene"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

var logger = log.New("pictoria")

func setupLogging(ctx *cli.Context) error {
	if name := ctx.GlobalString("log-level"); name != "" {
		level, ok := log.ParseLevel(name)
		if !ok {
			return fmt.Errorf("unknown log level %q", name)
		}
		log.SetLevel(level)
	}

	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
	return nil
}

func renderStructures(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	params, err := config.ParseArgs(ctx.Args())
	if err != nil {
		var argErr *config.ArgumentError
		if errors.As(err, &argErr) {
			cli.ShowAppHelp(ctx)
		}
		return err
	}

	var settings config.Settings
	if path := ctx.GlobalString("config"); path != "" {
		if settings, err = config.Load(path); err != nil {
			return err
		}
	}
	settings.Resolve(config.Flags{
		FinalizeDir:    ctx.GlobalString("finalize"),
		FullResolution: ctx.GlobalBool("full-resolution"),
		WebP:           ctx.GlobalBool("webp"),
		Workers:        ctx.GlobalInt("workers"),
	})

	cat, err := catalog.LoadDirs(params.MetadataDir, params.ObjDir)
	if err != nil {
		return err
	}
	logger.Infof("catalog: %d structures", cat.Len())

	compute := device.Select(device.SysfsProber{}, device.DefaultPreference)

	s := scene.New()
	samples := scene.Initialize(s, scene.InitParams{
		OrthoScale:       params.OrthoScale,
		CameraLocation:   mathutil.Vec3{params.CameraX, params.CameraY, params.CameraZ},
		ResolutionWidth:  params.ResolutionWidth,
		ResolutionHeight: params.ResolutionHeight,
		DraftSamples:     settings.DraftSamples,
		FullSamples:      settings.FullSamples,
		UseFullSamples:   params.FullSamples,
		WorldStrength:    *settings.WorldStrength,
		SunEnergy:        *settings.SunEnergy,
		Compute:          compute,
	})

	mode := orchestrator.ModeFromFlag(params.SkipIndividualRenders)
	backend := &render.RasterBackend{MaxSupersample: settings.MaxSupersample, Workers: settings.Workers}

	start := time.Now()
	report, err := orchestrator.New(s, cat, backend, orchestrator.Options{
		ObjDir:    params.ObjDir,
		OutputDir: params.OutputDir,
		Mode:      mode,
		Samples:   samples,
	}).Run()
	if err != nil {
		return err
	}
	displayJobStats(report, compute, time.Since(start))

	if settings.FinalizeDir == "" {
		return nil
	}
	if mode != orchestrator.PerStructure {
		logger.Warning("finalize needs per-structure renders, skipping")
		return nil
	}
	return finalizeRenders(params.OutputDir, cat, settings)
}

func finalizeRenders(rendersDir string, cat *catalog.Catalog, settings config.Settings) error {
	structures := cat.Structures()
	results := finalize.Run(finalize.Config{
		RendersDir:     rendersDir,
		OutputDir:      settings.FinalizeDir,
		FullResolution: settings.FullResolution,
		WebP:           settings.WebP,
		Workers:        settings.Workers,
	}, structures)

	manifestPath := filepath.Join(settings.FinalizeDir, "manifest.json")
	if err := finalize.WriteManifest(manifestPath, structures, results, settings.WebP); err != nil {
		logger.Warningf("manifest write failed: %v", err)
	} else {
		logger.Infof("manifest: %s", manifestPath)
	}

	failed := finalize.Failed(results)
	if len(failed) == 0 {
		logger.Noticef("finalized %d structures into %s", len(results), settings.FinalizeDir)
		return nil
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Structure", "Error"})
	for _, r := range failed {
		table.Append([]string{r.Name, r.Error})
	}
	table.Render()
	logger.Errorf("finalize failures\n%s", buf.String())

	return fmt.Errorf("finalize: %d of %d structures failed", len(failed), len(results))
}

func displayJobStats(report orchestrator.Report, compute device.Config, total time.Duration) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Structure", "Pass", "Size", "Samples", "Render time"})
	for _, job := range report.Jobs {
		name := job.Structure
		if name == "" {
			name = "-"
		}
		table.Append([]string{
			name,
			string(job.Pass),
			fmt.Sprintf("%dx%d", job.Width, job.Height),
			fmt.Sprintf("%d", job.Samples),
			job.Duration.Round(time.Millisecond).String(),
		})
	}
	table.SetFooter([]string{string(compute.Backend), report.Mode.String(), "", "TOTAL", total.Round(time.Millisecond).String()})

	table.Render()
	logger.Noticef("render statistics\n%s", buf.String())
}
