package wavefront

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// loadMTL parses the newmtl, Kd and map_Kd statements of a material library.
// Other statements are ignored. A texture that cannot be decoded leaves the
// material untextured.
func loadMTL(path string, textures *TextureCache) ([]*Material, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wavefront: open material library: %w", err)
	}
	defer f.Close()

	var (
		mats    []*Material
		cur     *Material
		lineNum int
		dir     = filepath.Dir(path)
	)

	emitError := func(msgFormat string, args ...interface{}) error {
		return fmt.Errorf("wavefront: [%s: %d] %s", path, lineNum, fmt.Sprintf(msgFormat, args...))
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNum++
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 || strings.HasPrefix(tokens[0], "#") {
			continue
		}

		switch tokens[0] {
		case "newmtl":
			if len(tokens) != 2 {
				return nil, emitError("unsupported syntax for 'newmtl'; expected 1 argument; got %d", len(tokens)-1)
			}
			cur = &Material{Name: tokens[1], Kd: DefaultMaterial.Kd}
			mats = append(mats, cur)
		case "Kd":
			if cur == nil {
				return nil, emitError("got 'Kd' without a 'newmtl'")
			}
			kd, err := parseVec3(tokens)
			if err != nil {
				return nil, emitError("%v", err)
			}
			cur.Kd = kd
		case "map_Kd":
			if cur == nil {
				return nil, emitError("got 'map_Kd' without a 'newmtl'")
			}
			if len(tokens) < 2 {
				return nil, emitError("unsupported syntax for 'map_Kd'; expected at least 1 argument")
			}
			// options precede the file name
			texPath := tokens[len(tokens)-1]
			if !filepath.IsAbs(texPath) {
				texPath = filepath.Join(dir, texPath)
			}
			img, err := textures.Resolve(texPath)
			if err != nil {
				logger.Warningf("material '%s': %v", cur.Name, err)
				continue
			}
			cur.Texture = img
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("wavefront: read %s: %w", path, err)
	}
	return mats, nil
}
