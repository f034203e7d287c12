package raster

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"pictoria-renderer/internal/mathutil"
	"pictoria-renderer/internal/scene"
)

var ErrPerspective = errors.New("raster: only orthographic cameras are supported")

// Options control one render.
type Options struct {
	// Supersample renders at Supersample times the output resolution.
	Supersample int
	// Workers is the number of row bands rasterized concurrently.
	Workers int
}

// Projection maps world points to pixel coordinates of an orthographic camera.
type Projection struct {
	view      mathutil.Mat4
	scale     float64 // pixels per world unit
	cx, cy    float64
	clipStart float64
	clipEnd   float64
}

// NewProjection builds the projection of camObj for a w×h target.
func NewProjection(camObj *scene.Object, w, h int) (Projection, error) {
	cam := camObj.Camera
	if cam == nil {
		return Projection{}, fmt.Errorf("raster: object %s is not a camera", camObj.Name)
	}
	if !cam.Ortho {
		return Projection{}, ErrPerspective
	}
	if cam.OrthoScale <= 0 {
		return Projection{}, fmt.Errorf("raster: invalid ortho scale %g", cam.OrthoScale)
	}

	// orthoScale spans the width, unless auto fit picks the larger side
	span := float64(w)
	if cam.SensorFit == scene.SensorFitAuto && h > w {
		span = float64(h)
	}

	return Projection{
		view:      mathutil.RigidInverse(mathutil.EulerDegToMat3(camObj.Rotation), camObj.Location),
		scale:     span / cam.OrthoScale,
		cx:        float64(w) / 2,
		cy:        float64(h) / 2,
		clipStart: cam.ClipStart,
		clipEnd:   cam.ClipEnd,
	}, nil
}

// Project returns the pixel position of a world point and its camera-space z.
// The camera looks down its local -Z axis.
func (p Projection) Project(world mathutil.Vec3) (x, y, z float64) {
	local := p.view.MulPoint(world)
	return p.cx + local[0]*p.scale, p.cy - local[1]*p.scale, local[2]
}

// InClip reports whether a camera-space z lies between the clip planes.
func (p Projection) InClip(z float64) bool {
	d := -z
	return d >= p.clipStart && d <= p.clipEnd
}

// Render rasterizes the camera-visible meshes of s at the scene's output
// resolution times opts.Supersample.
func Render(s *scene.Scene, opts Options) (*image.NRGBA, error) {
	camObj, err := s.Camera()
	if err != nil {
		return nil, err
	}

	ss := opts.Supersample
	if ss < 1 {
		ss = 1
	}
	w, h := s.Render.Size()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("raster: invalid resolution %dx%d", w, h)
	}
	w, h = w*ss, h*ss

	proj, err := NewProjection(camObj, w, h)
	if err != nil {
		return nil, err
	}
	lc := LightConfigFor(s)
	tris := projectScene(s.Renderable(), proj, &lc)

	fb := NewFrameBuffer(w, h)
	if !s.Render.FilmTransparent {
		fb.Fill(lc.Encode(lc.Background[0]), lc.Encode(lc.Background[1]), lc.Encode(lc.Background[2]), 255)
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > h {
		workers = h
	}
	rows := (h + workers - 1) / workers

	var wg sync.WaitGroup
	for b := 0; b < h; b += rows {
		band := Band{Min: b, Max: min(b+rows, h)}
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range tris {
				RasterizeTriangle(fb, &tris[i], band, &lc)
			}
		}()
	}
	wg.Wait()

	return fb.Image(), nil
}

// projectScene transforms every triangle to screen space. Triangles with a
// vertex outside the clip range are dropped.
func projectScene(objects []*scene.Object, proj Projection, lc *LightConfig) []ScreenTriangle {
	var out []ScreenTriangle
	for _, o := range objects {
		mesh := o.Mesh
		toWorld := o.Transform()

		world := make([]mathutil.Vec3, len(mesh.Verts))
		px := make([]float64, len(mesh.Verts))
		py := make([]float64, len(mesh.Verts))
		pz := make([]float64, len(mesh.Verts))
		for i, v := range mesh.Verts {
			world[i] = toWorld.MulPoint(v)
			px[i], py[i], pz[i] = proj.Project(world[i])
		}

	tris:
		for _, tri := range mesh.Tris {
			var st ScreenTriangle
			for k, vi := range tri.VI {
				if vi < 0 || vi >= len(mesh.Verts) || !proj.InClip(pz[vi]) {
					continue tris
				}
				st.X[k], st.Y[k], st.Z[k] = px[vi], py[vi], pz[vi]
			}

			// Flat shading from the world-space face normal
			a, b, c := world[tri.VI[0]], world[tri.VI[1]], world[tri.VI[2]]
			n := b.Sub(a).Cross(c.Sub(a))
			if n.Len() < 1e-12 {
				continue
			}
			st.Shade = lc.Shade(n.Normalize())

			mat := mesh.MaterialFor(tri)
			st.Kd = mat.Kd
			if mat.Texture != nil && hasUVs(tri.TI, len(mesh.UVs)) {
				st.Tex = mat.Texture
				for k, ti := range tri.TI {
					st.U[k], st.V[k] = mesh.UVs[ti][0], mesh.UVs[ti][1]
				}
			}
			out = append(out, st)
		}
	}
	return out
}

func hasUVs(ti [3]int, n int) bool {
	for _, i := range ti {
		if i < 0 || i >= n {
			return false
		}
	}
	return true
}
