package orchestrator

import (
	"fmt"
	"os"
	"path/filepath"

	"pictoria-renderer/internal/render"
	"pictoria-renderer/internal/scene"
)

// Host is the part of the scene graph the importer and visibility controller
// need. *scene.Scene implements it.
type Host interface {
	ImportOBJ(path string) (*scene.Object, error)
	Selected() []*scene.Object
	Object(name string) *scene.Object
	Rename(o *scene.Object, name string) error
}

// AssetPath returns the mesh file of a structure pass.
func AssetPath(dir, name string, pass render.Pass) string {
	switch pass {
	case render.PassVolume, render.PassOccludedFaces:
		return filepath.Join(dir, name+"_"+string(pass)+".obj")
	}
	return filepath.Join(dir, name+".obj")
}

// Importer loads structure meshes into the host scene.
type Importer struct {
	host Host
	vis  *Visibility
}

func NewImporter(h Host, vis *Visibility) *Importer {
	return &Importer{host: h, vis: vis}
}

// Has reports whether the asset of a pass exists.
func (im *Importer) Has(name, dir string, pass render.Pass) bool {
	_, err := os.Stat(AssetPath(dir, name, pass))
	return err == nil
}

// Import loads {dir}/{name}.obj as a persistent structure. The object and
// its mesh data are renamed to name and registered as visible.
func (im *Importer) Import(name, dir string) (*scene.Object, error) {
	obj, err := im.load(name, dir, render.PassStructure)
	if err != nil {
		return nil, err
	}

	host := obj.Name
	if err := im.host.Rename(obj, name); err != nil {
		return nil, err
	}
	im.vis.Register(name, obj.VisibleCamera)

	logger.Debugf("imported %s as %s", name, host)
	return obj, nil
}

// ImportPass loads the transient volume or occludedFaces mesh of a
// structure. The object keeps its host name; the caller removes it after
// rendering.
func (im *Importer) ImportPass(name, dir string, pass render.Pass) (*scene.Object, error) {
	return im.load(name, dir, pass)
}

func (im *Importer) load(name, dir string, pass render.Pass) (*scene.Object, error) {
	path := AssetPath(dir, name, pass)
	if _, err := os.Stat(path); err != nil {
		return nil, &AssetError{Structure: name, Pass: pass, Path: path}
	}

	obj, err := im.host.ImportOBJ(path)
	if err != nil {
		return nil, err
	}
	if obj != nil {
		return obj, nil
	}

	// No handle from the host: the new object is the only selected one.
	selected := im.host.Selected()
	if len(selected) != 1 {
		logger.Errorf("import of %s left %d selected objects", path, len(selected))
		return nil, fmt.Errorf("orchestrator: import %s: %w", path, ErrImportIdentification)
	}
	return selected[0], nil
}
