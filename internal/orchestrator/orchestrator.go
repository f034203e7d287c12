package orchestrator

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pictoria-renderer/internal/catalog"
	"pictoria-renderer/internal/log"
	"pictoria-renderer/internal/render"
	"pictoria-renderer/internal/scene"
)

var logger = log.New("orchestrator")

// Mode selects what the main render produces.
type Mode int

const (
	// WholeScene renders every structure together into scene.png.
	WholeScene Mode = iota
	// PerStructure renders auxiliary passes and one isolated image per
	// structure.
	PerStructure
)

func (m Mode) String() string {
	if m == WholeScene {
		return "whole-scene"
	}
	return "per-structure"
}

// ModeFromFlag maps the skip-individual-renders flag to a mode.
func ModeFromFlag(skipIndividualRenders bool) Mode {
	if skipIndividualRenders {
		return WholeScene
	}
	return PerStructure
}

// State is a step of a run.
type State int

const (
	Init State = iota
	AuxiliaryPass
	MainImport
	MainRender
	Done
)

var stateNames = [...]string{"init", "auxiliary-pass", "main-import", "main-render", "done"}

func (s State) String() string {
	if s < Init || s > Done {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// SceneFile is the output of a whole-scene render.
const SceneFile = "scene.png"

// Options configure a run.
type Options struct {
	ObjDir    string
	OutputDir string
	Mode      Mode
	Samples   scene.SampleCounts
}

// Report lists every render of a successful run in invocation order.
type Report struct {
	Mode Mode
	Jobs []render.Job
}

// Orchestrator sequences imports, camera parameters, visibility and render
// invocations over one scene. Renders run strictly one at a time.
type Orchestrator struct {
	scene    *scene.Scene
	catalog  *catalog.Catalog
	backend  render.Backend
	importer *Importer
	vis      *Visibility
	opts     Options

	state State
	jobs  []render.Job
}

func New(s *scene.Scene, cat *catalog.Catalog, backend render.Backend, opts Options) *Orchestrator {
	vis := NewVisibility(s)
	return &Orchestrator{
		scene:    s,
		catalog:  cat,
		backend:  backend,
		importer: NewImporter(s, vis),
		vis:      vis,
		opts:     opts,
	}
}

// State returns the current step.
func (o *Orchestrator) State() State { return o.state }

// Visibility returns the visibility controller of the run.
func (o *Orchestrator) Visibility() *Visibility { return o.vis }

func (o *Orchestrator) setState(s State) {
	o.state = s
	logger.Debugf("state: %s", s)
}

// Run executes Init → AuxiliaryPass → MainImport → MainRender → Done. The
// first error aborts the run.
func (o *Orchestrator) Run() (Report, error) {
	o.setState(Init)
	structures := o.catalog.Structures()

	// Every structure must be renderable before anything is written.
	for _, st := range structures {
		if _, err := o.catalog.Lookup(st.Name); err != nil {
			return Report{}, err
		}
	}
	if err := os.MkdirAll(o.opts.OutputDir, 0755); err != nil {
		return Report{}, fmt.Errorf("orchestrator: create output directory: %w", err)
	}
	logger.Noticef("rendering %d structures (%s)", len(structures), o.opts.Mode)

	if o.opts.Mode == PerStructure {
		o.setState(AuxiliaryPass)
		o.scene.Render.Samples = o.opts.Samples.Draft
		if err := o.auxiliarySweep(structures, render.PassVolume, true); err != nil {
			return Report{}, err
		}
		if err := o.auxiliarySweep(structures, render.PassOccludedFaces, false); err != nil {
			return Report{}, err
		}
	}

	o.setState(MainImport)
	for _, st := range structures {
		if _, err := o.importer.Import(st.Name, o.opts.ObjDir); err != nil {
			return Report{}, err
		}
		if o.opts.Mode == PerStructure {
			if err := o.vis.SetVisible(st.Name, false); err != nil {
				return Report{}, err
			}
		}
	}

	o.scene.Render.Samples = o.opts.Samples.Final

	o.setState(MainRender)
	if o.opts.Mode == WholeScene {
		if err := o.render("", render.PassScene, filepath.Join(o.opts.OutputDir, SceneFile)); err != nil {
			return Report{}, err
		}
	} else {
		for _, st := range structures {
			if err := o.renderStructure(st.Name); err != nil {
				return Report{}, err
			}
		}
	}

	o.setState(Done)
	return Report{Mode: o.opts.Mode, Jobs: o.jobs}, nil
}

// auxiliarySweep renders one transient pass for every structure. A missing
// asset is fatal when required, skipped otherwise.
func (o *Orchestrator) auxiliarySweep(structures []catalog.StructureInfo, pass render.Pass, required bool) error {
	for _, st := range structures {
		if !o.importer.Has(st.Name, o.opts.ObjDir, pass) {
			if required {
				return &AssetError{Structure: st.Name, Pass: pass, Path: AssetPath(o.opts.ObjDir, st.Name, pass)}
			}
			logger.Debugf("%s: no %s asset, skipping", st.Name, pass)
			continue
		}

		if err := o.applyParams(st.Name); err != nil {
			return err
		}
		obj, err := o.importer.ImportPass(st.Name, o.opts.ObjDir, pass)
		if err != nil {
			return err
		}

		out := filepath.Join(o.opts.OutputDir, fmt.Sprintf("%s_%s.png", st.Name, pass))
		err = o.render(st.Name, pass, out)
		o.scene.Remove(obj)
		if err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) renderStructure(name string) error {
	if err := o.applyParams(name); err != nil {
		return err
	}
	if err := o.vis.SetVisible(name, true); err != nil {
		return err
	}

	if visible := o.vis.Visible(); len(visible) != 1 || visible[0] != name {
		return fmt.Errorf("orchestrator: rendering %s with visible structures %v", name, visible)
	}

	if err := o.render(name, render.PassStructure, filepath.Join(o.opts.OutputDir, name+".png")); err != nil {
		return err
	}

	// hide failure is fatal
	return o.vis.SetVisible(name, false)
}

func (o *Orchestrator) applyParams(name string) error {
	params, err := o.catalog.Lookup(name)
	if err != nil {
		return err
	}
	return o.scene.ApplyRenderParams(params)
}

func (o *Orchestrator) render(structure string, pass render.Pass, outputPath string) error {
	w, h := o.scene.Render.Size()
	job := render.Job{
		Structure:  structure,
		Pass:       pass,
		OutputPath: outputPath,
		Width:      w,
		Height:     h,
		Samples:    o.scene.Render.Samples,
	}

	start := time.Now()
	if err := o.backend.Render(o.scene, outputPath); err != nil {
		return err
	}
	job.Duration = time.Since(start)
	o.jobs = append(o.jobs, job)

	logger.Infof("rendered %s (%dx%d, %d samples) in %s", outputPath, w, h, job.Samples, job.Duration.Round(time.Millisecond))
	return nil
}
