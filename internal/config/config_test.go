package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validArgs() []string {
	return []string{"obj", "out", "bin", "False", "YES", "12.5", "640", "480", "-1.5", "2", "3e2"}
}

func TestParseArgs(t *testing.T) {
	p, err := ParseArgs(validArgs())
	require.NoError(t, err)

	assert.Equal(t, Params{
		ObjDir:                "obj",
		OutputDir:             "out",
		MetadataDir:           "bin",
		SkipIndividualRenders: false,
		FullSamples:           true,
		OrthoScale:            12.5,
		ResolutionWidth:       640,
		ResolutionHeight:      480,
		CameraX:               -1.5,
		CameraY:               2,
		CameraZ:               300,
	}, p)
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"true", "TRUE", "1", "t", "T", "y", "Yes"} {
		assert.True(t, ParseBool(s), s)
	}
	for _, s := range []string{"false", "0", "no", "", "2", "on"} {
		assert.False(t, ParseBool(s), s)
	}
}

func TestParseArgsErrors(t *testing.T) {
	specs := []struct {
		name    string
		mutate  func([]string) []string
		wantArg string
	}{
		{"too few", func(a []string) []string { return a[:10] }, ""},
		{"empty dir", func(a []string) []string { a[1] = " "; return a }, "output directory"},
		{"bad ortho", func(a []string) []string { a[5] = "wide"; return a }, "ortho scale"},
		{"bad width", func(a []string) []string { a[6] = "6.5"; return a }, "resolution width"},
		{"zero height", func(a []string) []string { a[7] = "0"; return a }, "resolution height"},
		{"bad camera", func(a []string) []string { a[10] = "z"; return a }, "camera z"},
	}

	for _, spec := range specs {
		t.Run(spec.name, func(t *testing.T) {
			_, err := ParseArgs(spec.mutate(validArgs()))
			var argErr *ArgumentError
			require.True(t, errors.As(err, &argErr), "got %v", err)
			assert.Equal(t, spec.wantArg, argErr.Arg)
		})
	}
}

func TestLoadAndResolve(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"draft_samples": 4, "webp": true}`), 0o644))
	tomlPath := filepath.Join(dir, "settings.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte("full_samples = 64\nsun_energy = 3.5\n"), 0o644))

	s, err := Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, 4, s.DraftSamples)
	assert.True(t, s.WebP)

	s, err = Load(tomlPath)
	require.NoError(t, err)
	assert.Equal(t, 64, s.FullSamples)
	require.NotNil(t, s.SunEnergy)
	assert.Equal(t, 3.5, *s.SunEnergy)
	assert.Nil(t, s.WorldStrength)

	s.Resolve(Flags{FinalizeDir: "images", Workers: 3})
	assert.Equal(t, DefaultDraftSamples, s.DraftSamples)
	assert.Equal(t, 64, s.FullSamples)
	assert.Equal(t, DefaultMaxSupersample, s.MaxSupersample)
	assert.Equal(t, DefaultWorldStrength, *s.WorldStrength)
	assert.Equal(t, 3.5, *s.SunEnergy)
	assert.Equal(t, 3, s.Workers)
	assert.Equal(t, "images", s.FinalizeDir)

	var empty Settings
	empty.Resolve(Flags{})
	assert.Equal(t, runtime.NumCPU(), empty.Workers)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestResolveKeepsZeroLighting(t *testing.T) {
	dir := t.TempDir()

	tomlPath := filepath.Join(dir, "unlit.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte("world_strength = 0.0\nsun_energy = -1.0\n"), 0o644))
	s, err := Load(tomlPath)
	require.NoError(t, err)
	s.Resolve(Flags{})
	assert.Equal(t, 0.0, *s.WorldStrength)
	assert.Equal(t, float64(DefaultSunEnergy), *s.SunEnergy)

	jsonPath := filepath.Join(dir, "unlit.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"world_strength": 0, "sun_energy": 0}`), 0o644))
	s, err = Load(jsonPath)
	require.NoError(t, err)
	s.Resolve(Flags{})
	assert.Equal(t, 0.0, *s.WorldStrength)
	assert.Equal(t, 0.0, *s.SunEnergy)

	var empty Settings
	empty.Resolve(Flags{})
	assert.Equal(t, DefaultWorldStrength, *empty.WorldStrength)
	assert.Equal(t, float64(DefaultSunEnergy), *empty.SunEnergy)
}
