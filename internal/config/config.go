package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
)

// Settings holds render settings that are not part of the positional
// arguments. A settings file is optional; zero fields get defaults in Resolve.
type Settings struct {
	// Sampling
	DraftSamples   int `json:"draft_samples" toml:"draft_samples"`
	FullSamples    int `json:"full_samples" toml:"full_samples"`
	MaxSupersample int `json:"max_supersample" toml:"max_supersample"`

	// World and lighting. Nil until set; zero is a valid value.
	WorldStrength *float64 `json:"world_strength" toml:"world_strength"`
	SunEnergy     *float64 `json:"sun_energy" toml:"sun_energy"`

	// Raster
	Workers int `json:"workers" toml:"workers"`

	// Finalize
	FinalizeDir    string `json:"finalize_dir" toml:"finalize_dir"`
	FullResolution bool   `json:"full_resolution" toml:"full_resolution"`
	WebP           bool   `json:"webp" toml:"webp"`
}

// Defaults for render settings.
const (
	DefaultDraftSamples   = 32
	DefaultFullSamples    = 2048
	DefaultMaxSupersample = 4
	DefaultWorldStrength  = 0.2
	DefaultSunEnergy      = 12
)

// Load reads a settings file. Files ending in .toml are decoded as TOML,
// everything else as JSON. Fields not set in the file keep their zero values.
func Load(path string) (Settings, error) {
	var s Settings

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.DecodeFile(path, &s); err != nil {
			return Settings{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return s, nil
}

// Flags holds CLI flag values that override settings file values.
type Flags struct {
	FinalizeDir    string
	FullResolution bool
	WebP           bool
	Workers        int
}

// Resolve applies CLI overrides and fills in defaults.
func (s *Settings) Resolve(flags Flags) {
	// CLI flags override settings file
	if flags.FinalizeDir != "" {
		s.FinalizeDir = flags.FinalizeDir
	}
	if flags.FullResolution {
		s.FullResolution = true
	}
	if flags.WebP {
		s.WebP = true
	}
	if flags.Workers > 0 {
		s.Workers = flags.Workers
	}

	if s.DraftSamples <= 0 {
		s.DraftSamples = DefaultDraftSamples
	}
	if s.FullSamples <= 0 {
		s.FullSamples = DefaultFullSamples
	}
	if s.MaxSupersample <= 0 {
		s.MaxSupersample = DefaultMaxSupersample
	}
	s.WorldStrength = nonNegative(s.WorldStrength, DefaultWorldStrength)
	s.SunEnergy = nonNegative(s.SunEnergy, DefaultSunEnergy)
	if s.Workers <= 0 {
		s.Workers = runtime.NumCPU()
	}
}

func nonNegative(v *float64, def float64) *float64 {
	if v == nil || *v < 0 {
		return &def
	}
	return v
}
