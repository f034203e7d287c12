package main

import (
	"fmt"
	"math"
	"os"

	"pictoria-renderer/internal/wavefront"

	"github.com/olekukonko/tablewriter"
)

// Face directions in the Z-up world frame.
var directions = []string{"-Y(front)", "+Y(back)", "+X(right)", "-X(left)", "+Z(top)", "-Z(bottom)"}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: inspect <file.obj> ...")
		os.Exit(1)
	}

	cache := wavefront.NewTextureCache()
	failed := false
	for _, path := range os.Args[1:] {
		m, err := wavefront.Load(path, cache)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			failed = true
			continue
		}
		inspect(path, m)
	}
	if failed {
		os.Exit(1)
	}
}

func inspect(path string, m *wavefront.Mesh) {
	fmt.Printf("%s: verts=%d, uvs=%d, tris=%d, materials=%d\n", path, len(m.Verts), len(m.UVs), len(m.Tris), len(m.Materials))

	lo, hi := m.Bounds()
	fmt.Printf("  BBox: X[%.2f, %.2f] Y[%.2f, %.2f] Z[%.2f, %.2f]\n", lo[0], hi[0], lo[1], hi[1], lo[2], hi[2])
	fmt.Printf("  Size: %.2f x %.2f x %.2f\n", hi[0]-lo[0], hi[1]-lo[1], hi[2]-lo[2])

	// Surface area and triangle count by dominant normal direction
	area := map[string]float64{}
	count := map[string]int{}
	untextured := 0
	for _, tri := range m.Tris {
		v0, v1, v2 := m.Verts[tri.VI[0]], m.Verts[tri.VI[1]], m.Verts[tri.VI[2]]
		c := v1.Sub(v0).Cross(v2.Sub(v0))
		dir := direction(c[0], c[1], c[2])
		area[dir] += 0.5 * c.Len()
		count[dir]++
		if tri.TI[0] < 0 {
			untextured++
		}
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Direction", "Triangles", "Area"})
	for _, d := range directions {
		table.Append([]string{d, fmt.Sprintf("%d", count[d]), fmt.Sprintf("%.2f", area[d])})
	}
	table.Render()
	if untextured > 0 {
		fmt.Printf("  %d triangles without texture coordinates\n", untextured)
	}

	if len(m.Materials) == 0 {
		return
	}
	table = tablewriter.NewWriter(os.Stdout)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Material", "Kd", "Texture"})
	for _, mat := range m.Materials {
		tex := "-"
		if mat.Texture != nil {
			b := mat.Texture.Bounds()
			tex = fmt.Sprintf("%dx%d", b.Dx(), b.Dy())
		}
		table.Append([]string{mat.Name, fmt.Sprintf("%.3f %.3f %.3f", mat.Kd[0], mat.Kd[1], mat.Kd[2]), tex})
	}
	table.Render()
}

func direction(cx, cy, cz float64) string {
	acx, acy, acz := math.Abs(cx), math.Abs(cy), math.Abs(cz)
	switch {
	case acx >= acy && acx >= acz:
		if cx > 0 {
			return "+X(right)"
		}
		return "-X(left)"
	case acy >= acx && acy >= acz:
		if cy > 0 {
			return "+Y(back)"
		}
		return "-Y(front)"
	default:
		if cz > 0 {
			return "+Z(top)"
		}
		return "-Z(bottom)"
	}
}
