package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// File names of the configuration documents.
const (
	StructuresFile   = "structure_infos.json"
	RenderParamsFile = "render_params.json"
)

// ErrMissingConfiguration is matched by every MissingConfigError.
var ErrMissingConfiguration = errors.New("missing configuration")

// MissingConfigError reports a structure without render parameters.
type MissingConfigError struct {
	Name string
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf("catalog: no render parameters for structure %q", e.Name)
}

func (e *MissingConfigError) Unwrap() error { return ErrMissingConfiguration }

// Catalog merges the ordered structure list with the keyed render parameters.
type Catalog struct {
	structures []StructureInfo
	params     map[string]RenderParams
}

// New builds a catalog and validates it.
func New(structures []StructureInfo, params map[string]RenderParams) (*Catalog, error) {
	c := &Catalog{structures: structures, params: params}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads the structure list and render parameter documents.
func Load(structuresPath, paramsPath string) (*Catalog, error) {
	var structures []StructureInfo
	if err := readJSON(structuresPath, &structures); err != nil {
		return nil, err
	}

	var params map[string]RenderParams
	if err := readJSON(paramsPath, &params); err != nil {
		return nil, err
	}

	return New(structures, params)
}

// LoadDirs reads structure_infos.json from metadataDir and
// render_params.json from objDir.
func LoadDirs(metadataDir, objDir string) (*Catalog, error) {
	return Load(filepath.Join(metadataDir, StructuresFile), filepath.Join(objDir, RenderParamsFile))
}

func readJSON(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("catalog: read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	return nil
}

// Validate checks that names are unique and non-empty and that every
// structure has render parameters.
func (c *Catalog) Validate() error {
	seen := make(map[string]struct{}, len(c.structures))
	for i, s := range c.structures {
		if s.Name == "" {
			return fmt.Errorf("catalog: structure %d has no name", i)
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("catalog: duplicate structure %q", s.Name)
		}
		seen[s.Name] = struct{}{}

		if _, ok := c.params[s.Name]; !ok {
			return &MissingConfigError{Name: s.Name}
		}
	}
	return nil
}

// Lookup returns the render parameters of a structure.
func (c *Catalog) Lookup(name string) (RenderParams, error) {
	p, ok := c.params[name]
	if !ok {
		return RenderParams{}, &MissingConfigError{Name: name}
	}
	return p, nil
}

// Structures returns the structures in configuration order.
func (c *Catalog) Structures() []StructureInfo {
	return c.structures
}

// Len returns the number of structures.
func (c *Catalog) Len() int {
	return len(c.structures)
}
