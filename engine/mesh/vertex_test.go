package mesh

import (
	"reflect"
	"testing"

	"github.com/tylercaldwell27/prism/engine/assets"
)

func corner(x, y float32) assets.Corner {
	return assets.Corner{
		Position: [3]float32{x, y, 0},
		TexCoord: [2]float32{x, y},
	}
}

func TestDeduplicateTriangle(t *testing.T) {
	corners := []assets.Corner{corner(0, 0), corner(1, 0), corner(0, 1)}

	vertices, indices := Deduplicate(corners)

	if len(vertices) != 3 {
		t.Fatalf("vertices = %d, want 3", len(vertices))
	}
	if want := []uint32{0, 1, 2}; !reflect.DeepEqual(indices, want) {
		t.Fatalf("indices = %v, want %v", indices, want)
	}
	for i, v := range vertices {
		if v.Color != [3]float32{1, 1, 1} {
			t.Errorf("vertex %d color = %v, want white", i, v.Color)
		}
	}
}

func TestDeduplicateQuad(t *testing.T) {
	// Two triangles sharing an edge, as produced by fan triangulation.
	a, b, c, d := corner(0, 0), corner(1, 0), corner(1, 1), corner(0, 1)
	corners := []assets.Corner{a, b, c, c, d, a}

	vertices, indices := Deduplicate(corners)

	if len(vertices) != 4 {
		t.Fatalf("vertices = %d, want 4", len(vertices))
	}
	if want := []uint32{0, 1, 2, 2, 3, 0}; !reflect.DeepEqual(indices, want) {
		t.Fatalf("indices = %v, want %v", indices, want)
	}
}

func TestDeduplicateStable(t *testing.T) {
	corners := []assets.Corner{
		corner(0, 0), corner(1, 0), corner(0, 1),
		corner(1, 0), corner(0, 1), corner(1, 1),
	}

	v1, i1 := Deduplicate(corners)
	v2, i2 := Deduplicate(corners)

	if !reflect.DeepEqual(v1, v2) || !reflect.DeepEqual(i1, i2) {
		t.Fatal("repeated dedup of the same input diverged")
	}
}

func TestDeduplicateIdempotent(t *testing.T) {
	corners := []assets.Corner{
		corner(0, 0), corner(1, 0), corner(0, 1),
		corner(1, 0), corner(0, 1), corner(1, 1),
	}
	v1, _ := Deduplicate(corners)

	// Feed the unique vertices back through as a corner stream: the vertex
	// array must survive unchanged and the indices must be the identity.
	again := make([]assets.Corner, len(v1))
	for i, v := range v1 {
		again[i] = assets.Corner{Position: v.Position, TexCoord: v.TexCoord}
	}
	v2, i2 := Deduplicate(again)

	if !reflect.DeepEqual(v2, v1) {
		t.Fatalf("second pass changed the vertex array: %v, want %v", v2, v1)
	}
	for i, idx := range i2 {
		if idx != uint32(i) {
			t.Fatalf("index %d = %d, want identity mapping", i, idx)
		}
	}
}

func TestDeduplicateDistinctTexCoords(t *testing.T) {
	// Same position with different texcoords must stay distinct vertices.
	a := assets.Corner{Position: [3]float32{0, 0, 0}, TexCoord: [2]float32{0, 0}}
	b := assets.Corner{Position: [3]float32{0, 0, 0}, TexCoord: [2]float32{1, 1}}

	vertices, indices := Deduplicate([]assets.Corner{a, b, a})

	if len(vertices) != 2 {
		t.Fatalf("vertices = %d, want 2", len(vertices))
	}
	if want := []uint32{0, 1, 0}; !reflect.DeepEqual(indices, want) {
		t.Fatalf("indices = %v, want %v", indices, want)
	}
}
