package orchestrator

import (
	"errors"
	"fmt"

	"pictoria-renderer/internal/render"
)

var (
	// ErrMissingAsset is matched by every AssetError.
	ErrMissingAsset = errors.New("missing asset")

	// ErrImportIdentification means the host created no identifiable object
	// for an import.
	ErrImportIdentification = errors.New("imported object could not be identified")

	// ErrObjectNotFound means a structure name has no object in the scene.
	ErrObjectNotFound = errors.New("object not found")
)

// AssetError reports a mesh file that does not exist.
type AssetError struct {
	Structure string
	Pass      render.Pass
	Path      string
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("orchestrator: missing %s asset for structure %q: %s", e.Pass, e.Structure, e.Path)
}

func (e *AssetError) Unwrap() error { return ErrMissingAsset }
