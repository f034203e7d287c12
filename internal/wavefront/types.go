package wavefront

import (
	"image"

	"pictoria-renderer/internal/mathutil"
)

// Triangle holds index triples into a mesh's vertex and texcoord arrays.
// TI entries are -1 when the face has no texture coordinates.
type Triangle struct {
	VI       [3]int
	TI       [3]int
	Material int // index into Mesh.Materials, -1 for the default material
}

// Material is a diffuse-only MTL material.
type Material struct {
	Name    string
	Kd      mathutil.Vec3
	Texture *image.NRGBA // decoded map_Kd, nil if absent
}

// Mesh holds imported geometry. Vertices are already converted to the
// Z-up world frame.
type Mesh struct {
	Name      string
	Verts     []mathutil.Vec3
	UVs       [][2]float64
	Tris      []Triangle
	Materials []*Material
}

// DefaultMaterial is used for faces without a usemtl statement.
var DefaultMaterial = &Material{Name: "default", Kd: mathutil.Vec3{0.8, 0.8, 0.8}}

// MaterialFor returns the material of a triangle.
func (m *Mesh) MaterialFor(tri Triangle) *Material {
	if tri.Material < 0 || tri.Material >= len(m.Materials) {
		return DefaultMaterial
	}
	return m.Materials[tri.Material]
}

// Bounds returns the world-space bounding box of the mesh.
func (m *Mesh) Bounds() (min, max mathutil.Vec3) {
	if len(m.Verts) == 0 {
		return
	}
	min, max = m.Verts[0], m.Verts[0]
	for _, v := range m.Verts[1:] {
		for k := 0; k < 3; k++ {
			if v[k] < min[k] {
				min[k] = v[k]
			}
			if v[k] > max[k] {
				max[k] = v[k]
			}
		}
	}
	return
}
