package vulkan

import "testing"

func TestRecreateExtentPrefersCachedSize(t *testing.T) {
	w, h, ok := recreateExtent(1280, 720, 800, 600)
	if !ok || w != 1280 || h != 720 {
		t.Fatalf("extent = %dx%d ok=%v, want 1280x720 true", w, h, ok)
	}
}

func TestRecreateExtentFallsBackToFramebuffer(t *testing.T) {
	w, h, ok := recreateExtent(0, 0, 800, 600)
	if !ok || w != 800 || h != 600 {
		t.Fatalf("extent = %dx%d ok=%v, want 800x600 true", w, h, ok)
	}
}

func TestRecreateExtentZeroSizedDefers(t *testing.T) {
	if _, _, ok := recreateExtent(0, 0, 0, 0); ok {
		t.Fatal("zero-sized framebuffer did not defer")
	}
	if _, _, ok := recreateExtent(0, 100, 0, 0); ok {
		t.Fatal("degenerate cached size did not defer")
	}
}
