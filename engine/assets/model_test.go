package assets

import (
	"os"
	"path/filepath"
	"testing"
)

func writeModel(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.obj")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadModelTriangle(t *testing.T) {
	path := writeModel(t, `
v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 0
vt 0 1
f 1/1 2/2 3/3
`)

	corners, err := LoadModel(path)
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	if len(corners) != 3 {
		t.Fatalf("corners = %d, want 3", len(corners))
	}
	if corners[1].Position != [3]float32{1, 0, 0} {
		t.Errorf("corner 1 position = %v", corners[1].Position)
	}
	// V is flipped on load.
	if corners[2].TexCoord != [2]float32{0, 0} {
		t.Errorf("corner 2 texcoord = %v, want flipped {0 0}", corners[2].TexCoord)
	}
}

func TestLoadModelFanTriangulation(t *testing.T) {
	path := writeModel(t, `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`)

	corners, err := LoadModel(path)
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	if len(corners) != 6 {
		t.Fatalf("corners = %d, want two triangles (6)", len(corners))
	}
	// Fan: (1,2,3) then (1,3,4).
	if corners[3].Position != [3]float32{0, 0, 0} || corners[4].Position != [3]float32{1, 1, 0} {
		t.Errorf("second triangle = %v %v %v", corners[3].Position, corners[4].Position, corners[5].Position)
	}
}

func TestLoadModelNegativeIndices(t *testing.T) {
	path := writeModel(t, `
v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`)

	corners, err := LoadModel(path)
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	if corners[0].Position != [3]float32{0, 0, 0} || corners[2].Position != [3]float32{0, 1, 0} {
		t.Errorf("negative index resolution wrong: %v", corners)
	}
}

func TestLoadModelIgnoresNormalsAndComments(t *testing.T) {
	path := writeModel(t, `
# a comment
v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
vt 0 0
vt 1 0
vt 0 1
f 1/1/1 2/2/1 3/3/1
`)

	corners, err := LoadModel(path)
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	if len(corners) != 3 {
		t.Fatalf("corners = %d, want 3", len(corners))
	}
}

func TestLoadModelErrors(t *testing.T) {
	if _, err := LoadModel(filepath.Join(t.TempDir(), "missing.obj")); err == nil {
		t.Error("missing file did not error")
	}

	noFaces := writeModel(t, "v 0 0 0\n")
	if _, err := LoadModel(noFaces); err == nil {
		t.Error("model without faces did not error")
	}

	badIndex := writeModel(t, "v 0 0 0\nf 1 2 3\n")
	if _, err := LoadModel(badIndex); err == nil {
		t.Error("out-of-range face index did not error")
	}
}
