package scene

import (
	"errors"
	"fmt"

	"pictoria-renderer/internal/device"
	"pictoria-renderer/internal/log"
	"pictoria-renderer/internal/mathutil"
	"pictoria-renderer/internal/wavefront"
)

var logger = log.New("scene")

var (
	ErrNameTaken = errors.New("scene: object name already in use")
	ErrNoCamera  = errors.New("scene: no camera object")
)

type ObjectType uint8

// Object types.
const (
	MeshObject ObjectType = iota
	CameraObject
	LightObject
)

func (t ObjectType) String() string {
	switch t {
	case CameraObject:
		return "CAMERA"
	case LightObject:
		return "LIGHT"
	}
	return "MESH"
}

type SensorFit string

const (
	SensorFitAuto       SensorFit = "AUTO"
	SensorFitHorizontal SensorFit = "HORIZONTAL"
)

// Camera holds camera intrinsics. Location and rotation live on the owning
// Object.
type Camera struct {
	Ortho      bool
	OrthoScale float64
	SensorFit  SensorFit
	ClipStart  float64
	ClipEnd    float64
}

type LightType string

const (
	PointLight LightType = "POINT"
	SunLight   LightType = "SUN"
)

type Light struct {
	Type   LightType
	Energy float64
}

// Object is a node of the scene graph.
type Object struct {
	Name     string
	Type     ObjectType
	Location mathutil.Vec3
	Rotation mathutil.Vec3 // Euler XYZ, degrees

	// VisibleCamera controls whether the object contributes to renders.
	VisibleCamera bool

	Mesh   *wavefront.Mesh
	Camera *Camera
	Light  *Light

	selected bool
}

// Selected reports whether the object is part of the current selection.
func (o *Object) Selected() bool { return o.selected }

// Transform returns the object's local-to-world transform.
func (o *Object) Transform() mathutil.Mat4 {
	return mathutil.FromMat3Translation(mathutil.EulerDegToMat3(o.Rotation), o.Location)
}

// World is the uniform background.
type World struct {
	Color    mathutil.Vec3
	Strength float64
}

// RenderSettings are the output settings shared by every render.
type RenderSettings struct {
	ResolutionX     int
	ResolutionY     int
	Percentage      int
	FilmTransparent bool
	ViewTransform   string
	Samples         int
	Compute         device.Config
}

// Size returns the output size after the resolution percentage.
func (r RenderSettings) Size() (int, int) {
	pct := r.Percentage
	if pct <= 0 {
		pct = 100
	}
	return r.ResolutionX * pct / 100, r.ResolutionY * pct / 100
}

// Scene is an in-memory scene graph. It is not safe for concurrent
// mutation; renders read it while the caller is blocked.
type Scene struct {
	objects  []*Object
	textures *wavefront.TextureCache

	Render RenderSettings
	World  World
}

// New returns the default startup scene: a perspective camera, a cube and a
// point light.
func New() *Scene {
	s := &Scene{
		textures: wavefront.NewTextureCache(),
		Render: RenderSettings{
			ResolutionX:   1920,
			ResolutionY:   1080,
			Percentage:    100,
			ViewTransform: "Standard",
			Samples:       128,
			Compute:       device.Config{Backend: device.CPU},
		},
		World: World{Color: mathutil.Vec3{0.05, 0.05, 0.05}, Strength: 1},
	}

	s.objects = []*Object{
		{
			Name:          "Camera",
			Type:          CameraObject,
			Location:      mathutil.Vec3{7.3589, -6.9258, 4.9583},
			Rotation:      mathutil.Vec3{63.559, 0, 46.692},
			VisibleCamera: true,
			Camera: &Camera{
				OrthoScale: 7.314,
				SensorFit:  SensorFitAuto,
				ClipStart:  0.1,
				ClipEnd:    100,
			},
		},
		{
			Name:          "Cube",
			Type:          MeshObject,
			VisibleCamera: true,
			Mesh:          cubeMesh(),
		},
		{
			Name:          "Light",
			Type:          LightObject,
			Location:      mathutil.Vec3{4.0762, 1.0055, 5.9039},
			VisibleCamera: true,
			Light:         &Light{Type: PointLight, Energy: 1000},
		},
	}
	return s
}

// Objects returns the scene objects in creation order.
func (s *Scene) Objects() []*Object {
	return append([]*Object(nil), s.objects...)
}

// Object returns the object with the given name, or nil.
func (s *Scene) Object(name string) *Object {
	for _, o := range s.objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// Camera returns the first camera object.
func (s *Scene) Camera() (*Object, error) {
	for _, o := range s.objects {
		if o.Type == CameraObject {
			return o, nil
		}
	}
	return nil, ErrNoCamera
}

// Lights returns every light object.
func (s *Scene) Lights() []*Object {
	var lights []*Object
	for _, o := range s.objects {
		if o.Type == LightObject {
			lights = append(lights, o)
		}
	}
	return lights
}

// Renderable returns the camera-visible mesh objects in creation order.
func (s *Scene) Renderable() []*Object {
	var out []*Object
	for _, o := range s.objects {
		if o.Type == MeshObject && o.VisibleCamera && o.Mesh != nil {
			out = append(out, o)
		}
	}
	return out
}

// Selected returns the selected objects.
func (s *Scene) Selected() []*Object {
	var out []*Object
	for _, o := range s.objects {
		if o.selected {
			out = append(out, o)
		}
	}
	return out
}

// Select replaces the selection with objs.
func (s *Scene) Select(objs ...*Object) {
	for _, o := range s.objects {
		o.selected = false
	}
	for _, o := range objs {
		o.selected = true
	}
}

// Add links an object into the scene. Its name is made unique.
func (s *Scene) Add(o *Object) *Object {
	o.Name = s.uniqueName(o.Name)
	s.objects = append(s.objects, o)
	return o
}

// ImportOBJ loads an OBJ file as a new mesh object. The new object gets a
// host-generated name (ObjObject, ObjObject.001, ...), is camera-visible and
// becomes the only selected object.
func (s *Scene) ImportOBJ(path string) (*Object, error) {
	mesh, err := wavefront.Load(path, s.textures)
	if err != nil {
		return nil, fmt.Errorf("scene: import %s: %w", path, err)
	}

	o := s.Add(&Object{
		Name:          "ObjObject",
		Type:          MeshObject,
		VisibleCamera: true,
		Mesh:          mesh,
	})
	s.Select(o)

	logger.Debugf("imported %s as %s (%d verts, %d tris)", path, o.Name, len(mesh.Verts), len(mesh.Tris))
	return o, nil
}

// Rename renames an object and its mesh data. A camera or light holding the
// name moves to the next free suffixed name; another mesh holding it is an
// error.
func (s *Scene) Rename(o *Object, name string) error {
	if other := s.Object(name); other != nil && other != o {
		if other.Type == MeshObject {
			return fmt.Errorf("%w: %s", ErrNameTaken, name)
		}
		other.Name = s.uniqueName(name)
		logger.Debugf("renamed %s %s to %s", other.Type, name, other.Name)
	}
	o.Name = name
	if o.Mesh != nil {
		o.Mesh.Name = name
	}
	return nil
}

// Remove unlinks an object. Removing an object that is not in the scene is a
// no-op.
func (s *Scene) Remove(o *Object) {
	for i, cur := range s.objects {
		if cur == o {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			o.selected = false
			return
		}
	}
}

// RemoveAllExceptCamera unlinks every object that is not a camera.
func (s *Scene) RemoveAllExceptCamera() {
	kept := s.objects[:0]
	for _, o := range s.objects {
		if o.Type == CameraObject {
			kept = append(kept, o)
			continue
		}
		o.selected = false
	}
	for i := len(kept); i < len(s.objects); i++ {
		s.objects[i] = nil
	}
	s.objects = kept
}

func (s *Scene) uniqueName(base string) string {
	if s.Object(base) == nil {
		return base
	}
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s.%03d", base, i)
		if s.Object(name) == nil {
			return name
		}
	}
}

func cubeMesh() *wavefront.Mesh {
	m := &wavefront.Mesh{Name: "Cube"}
	for _, z := range []float64{-1, 1} {
		for _, y := range []float64{-1, 1} {
			for _, x := range []float64{-1, 1} {
				m.Verts = append(m.Verts, mathutil.Vec3{x, y, z})
			}
		}
	}
	quads := [][4]int{
		{0, 2, 3, 1}, {4, 5, 7, 6}, // bottom, top
		{0, 1, 5, 4}, {2, 6, 7, 3}, // front, back
		{0, 4, 6, 2}, {1, 3, 7, 5}, // left, right
	}
	for _, q := range quads {
		m.Tris = append(m.Tris,
			wavefront.Triangle{VI: [3]int{q[0], q[1], q[2]}, TI: [3]int{-1, -1, -1}, Material: -1},
			wavefront.Triangle{VI: [3]int{q[0], q[2], q[3]}, TI: [3]int{-1, -1, -1}, Material: -1},
		)
	}
	return m
}
