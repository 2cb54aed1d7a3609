package assets

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadImageConvertsToRGBA(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	src.Set(0, 0, color.NRGBA{R: 255, A: 255})
	src.Set(3, 1, color.NRGBA{B: 255, A: 255})

	path := filepath.Join(t.TempDir(), "tex.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, src); err != nil {
		t.Fatal(err)
	}
	f.Close()

	data, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	if data.Width != 4 || data.Height != 2 {
		t.Fatalf("size = %dx%d, want 4x2", data.Width, data.Height)
	}
	if data.Size() != 32 {
		t.Fatalf("Size() = %d, want 32", data.Size())
	}
	if len(data.Pixels) != 32 {
		t.Fatalf("pixel payload = %d bytes, want 32", len(data.Pixels))
	}
	if data.Pixels[0] != 255 || data.Pixels[3] != 255 {
		t.Errorf("texel (0,0) = %v, want opaque red", data.Pixels[0:4])
	}
}

func TestLoadImageRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tex.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadImage(path); err == nil {
		t.Fatal("garbage decoded successfully")
	}
}

func TestLoadShaderAlignment(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "ok.spv")
	os.WriteFile(good, make([]byte, 16), 0o644)
	if _, err := LoadShader(good); err != nil {
		t.Errorf("aligned blob rejected: %v", err)
	}

	bad := filepath.Join(dir, "bad.spv")
	os.WriteFile(bad, make([]byte, 15), 0o644)
	if _, err := LoadShader(bad); err == nil {
		t.Error("misaligned blob accepted")
	}

	empty := filepath.Join(dir, "empty.spv")
	os.WriteFile(empty, nil, 0o644)
	if _, err := LoadShader(empty); err == nil {
		t.Error("empty blob accepted")
	}
}
