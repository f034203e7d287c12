package orchestrator

import (
	"fmt"
	"maps"
)

// Visibility toggles camera visibility of structures by canonical name. Its
// name→visible map is authoritative; objects are never removed to hide them.
type Visibility struct {
	host  Host
	state map[string]bool
	order []string
}

func NewVisibility(h Host) *Visibility {
	return &Visibility{host: h, state: make(map[string]bool)}
}

// Register starts tracking a structure with the given visibility.
func (v *Visibility) Register(name string, visible bool) {
	if _, ok := v.state[name]; !ok {
		v.order = append(v.order, name)
	}
	v.state[name] = visible
}

// SetVisible sets the camera visibility of a structure. Only the object's
// camera visibility changes.
func (v *Visibility) SetVisible(name string, visible bool) error {
	obj := v.host.Object(name)
	if obj == nil {
		return fmt.Errorf("orchestrator: set visibility of %q: %w", name, ErrObjectNotFound)
	}
	obj.VisibleCamera = visible
	v.Register(name, visible)
	return nil
}

// Visible returns the visible structures in registration order.
func (v *Visibility) Visible() []string {
	var names []string
	for _, name := range v.order {
		if v.state[name] {
			names = append(names, name)
		}
	}
	return names
}

// Snapshot returns a copy of the visibility map.
func (v *Visibility) Snapshot() map[string]bool {
	return maps.Clone(v.state)
}
