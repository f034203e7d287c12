package wavefront

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"pictoria-renderer/internal/log"
	"pictoria-renderer/internal/mathutil"
)

var logger = log.New("wavefront")

type objReader struct {
	path     string
	dir      string
	textures *TextureCache

	mesh *Mesh

	// material name -> index in mesh.Materials
	matNameToIndex map[string]int
	curMaterial    int
}

// Load parses an OBJ file and the MTL libraries it references. Relative
// mtllib and map_Kd paths resolve against the OBJ's directory. textures may
// be nil, in which case textures are decoded without caching.
//
// OBJ data is Y-up; vertices are converted to the Z-up world frame with
// (x, y, z) -> (x, -z, y).
func Load(path string, textures *TextureCache) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wavefront: open %s: %w", path, err)
	}
	defer f.Close()

	if textures == nil {
		textures = NewTextureCache()
	}

	base := filepath.Base(path)
	r := &objReader{
		path:           path,
		dir:            filepath.Dir(path),
		textures:       textures,
		mesh:           &Mesh{Name: strings.TrimSuffix(base, filepath.Ext(base))},
		matNameToIndex: make(map[string]int),
		curMaterial:    -1,
	}
	if err := r.parse(f); err != nil {
		return nil, err
	}
	return r.mesh, nil
}

func (r *objReader) emitError(line int, msgFormat string, args ...interface{}) error {
	return fmt.Errorf("wavefront: [%s: %d] %s", r.path, line, fmt.Sprintf(msgFormat, args...))
}

func (r *objReader) parse(in io.Reader) error {
	lineNum := 0
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNum++
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 || strings.HasPrefix(tokens[0], "#") {
			continue
		}

		switch tokens[0] {
		case "mtllib":
			if len(tokens) < 2 {
				return r.emitError(lineNum, "unsupported syntax for 'mtllib'; expected at least 1 argument")
			}
			for _, lib := range tokens[1:] {
				r.loadMaterialLib(lib)
			}
		case "usemtl":
			if len(tokens) != 2 {
				return r.emitError(lineNum, "unsupported syntax for 'usemtl'; expected 1 argument; got %d", len(tokens)-1)
			}
			idx, ok := r.matNameToIndex[tokens[1]]
			if !ok {
				logger.Warningf("%s:%d: undefined material '%s'; using default", r.path, lineNum, tokens[1])
				idx = -1
			}
			r.curMaterial = idx
		case "v":
			v, err := parseVec3(tokens)
			if err != nil {
				return r.emitError(lineNum, "%v", err)
			}
			r.mesh.Verts = append(r.mesh.Verts, mathutil.Vec3{v[0], -v[2], v[1]})
		case "vt":
			uv, err := parseVec2(tokens)
			if err != nil {
				return r.emitError(lineNum, "%v", err)
			}
			r.mesh.UVs = append(r.mesh.UVs, uv)
		case "o":
			if len(tokens) >= 2 {
				r.mesh.Name = tokens[1]
			}
		case "f":
			if err := r.parseFace(tokens); err != nil {
				return r.emitError(lineNum, "%v", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("wavefront: read %s: %w", r.path, err)
	}
	return nil
}

// parseFace fan-triangulates a polygon.
func (r *objReader) parseFace(tokens []string) error {
	if len(tokens) < 4 {
		return fmt.Errorf("unsupported syntax for 'f'; expected at least 3 vertices; got %d", len(tokens)-1)
	}

	n := len(tokens) - 1
	vi := make([]int, n)
	ti := make([]int, n)
	for i, tok := range tokens[1:] {
		parts := strings.Split(tok, "/")

		v, err := resolveIndex(parts[0], len(r.mesh.Verts))
		if err != nil {
			return fmt.Errorf("vertex %q: %v", tok, err)
		}
		vi[i] = v

		ti[i] = -1
		if len(parts) > 1 && parts[1] != "" {
			t, err := resolveIndex(parts[1], len(r.mesh.UVs))
			if err != nil {
				return fmt.Errorf("texcoord %q: %v", tok, err)
			}
			ti[i] = t
		}
	}

	for k := 1; k+1 < n; k++ {
		r.mesh.Tris = append(r.mesh.Tris, Triangle{
			VI:       [3]int{vi[0], vi[k], vi[k+1]},
			TI:       [3]int{ti[0], ti[k], ti[k+1]},
			Material: r.curMaterial,
		})
	}
	return nil
}

// resolveIndex converts a 1-based (or negative, relative) OBJ index to a
// 0-based index.
func resolveIndex(raw string, count int) (int, error) {
	idx, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	switch {
	case idx > 0 && idx <= count:
		return idx - 1, nil
	case idx < 0 && -idx <= count:
		return count + idx, nil
	}
	return 0, fmt.Errorf("index %d out of range [1, %d]", idx, count)
}

func (r *objReader) loadMaterialLib(name string) {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.dir, name)
	}

	mats, err := loadMTL(path, r.textures)
	if err != nil {
		// A missing material library only loses colours.
		logger.Warningf("%s: %v", r.path, err)
		return
	}
	for _, m := range mats {
		r.matNameToIndex[m.Name] = len(r.mesh.Materials)
		r.mesh.Materials = append(r.mesh.Materials, m)
	}
}

func parseFloats(tokens []string, n int) ([]float64, error) {
	if len(tokens)-1 < n {
		return nil, fmt.Errorf("unsupported syntax for '%s'; expected %d arguments; got %d", tokens[0], n, len(tokens)-1)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(tokens[i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("could not parse %q as float: %v", tokens[i+1], err)
		}
		out[i] = v
	}
	return out, nil
}

func parseVec3(tokens []string) (mathutil.Vec3, error) {
	f, err := parseFloats(tokens, 3)
	if err != nil {
		return mathutil.Vec3{}, err
	}
	return mathutil.Vec3{f[0], f[1], f[2]}, nil
}

func parseVec2(tokens []string) ([2]float64, error) {
	f, err := parseFloats(tokens, 2)
	if err != nil {
		// vt with a single coordinate is legal
		f, err = parseFloats(tokens, 1)
		if err != nil {
			return [2]float64{}, err
		}
		return [2]float64{f[0], 0}, nil
	}
	return [2]float64{f[0], f[1]}, nil
}
