package vulkan

import (
	"math"
	"testing"

	vk "github.com/goki/vulkan"
)

func TestSelectSurfaceFormatPrefersSRGB(t *testing.T) {
	formats := []vk.SurfaceFormat{
		{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear},
	}

	got := selectSurfaceFormat(formats)
	if got.Format != vk.FormatB8g8r8a8Srgb {
		t.Fatalf("format = %d, want FormatB8g8r8a8Srgb", got.Format)
	}
}

func TestSelectSurfaceFormatFallsBackToFirst(t *testing.T) {
	formats := []vk.SurfaceFormat{
		{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		{Format: vk.FormatB8g8r8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear},
	}

	got := selectSurfaceFormat(formats)
	if got.Format != vk.FormatR8g8b8a8Unorm {
		t.Fatalf("format = %d, want first advertised", got.Format)
	}
}

func TestSelectPresentMode(t *testing.T) {
	withMailbox := []vk.PresentMode{vk.PresentModeImmediate, vk.PresentModeMailbox, vk.PresentModeFifo}
	withoutMailbox := []vk.PresentMode{vk.PresentModeImmediate, vk.PresentModeFifo}

	if got := selectPresentMode(withMailbox, false); got != vk.PresentModeMailbox {
		t.Errorf("mode = %d, want mailbox", got)
	}
	if got := selectPresentMode(withoutMailbox, false); got != vk.PresentModeFifo {
		t.Errorf("mode = %d, want fifo fallback", got)
	}
	if got := selectPresentMode(withMailbox, true); got != vk.PresentModeFifo {
		t.Errorf("mode with vsync = %d, want fifo", got)
	}
}

func TestSelectExtentUsesPinnedExtent(t *testing.T) {
	caps := vk.SurfaceCapabilities{
		CurrentExtent:  vk.Extent2D{Width: 1280, Height: 720},
		MinImageExtent: vk.Extent2D{Width: 1, Height: 1},
		MaxImageExtent: vk.Extent2D{Width: 4096, Height: 4096},
	}

	got := selectExtent(caps, 800, 600)
	if got.Width != 1280 || got.Height != 720 {
		t.Fatalf("extent = %dx%d, want the surface's 1280x720", got.Width, got.Height)
	}
}

func TestSelectExtentClampsFramebufferSize(t *testing.T) {
	caps := vk.SurfaceCapabilities{
		CurrentExtent:  vk.Extent2D{Width: math.MaxUint32, Height: math.MaxUint32},
		MinImageExtent: vk.Extent2D{Width: 320, Height: 240},
		MaxImageExtent: vk.Extent2D{Width: 1920, Height: 1080},
	}

	if got := selectExtent(caps, 8000, 100); got.Width != 1920 || got.Height != 240 {
		t.Fatalf("extent = %dx%d, want clamped 1920x240", got.Width, got.Height)
	}
	if got := selectExtent(caps, 800, 600); got.Width != 800 || got.Height != 600 {
		t.Fatalf("extent = %dx%d, want unclamped 800x600", got.Width, got.Height)
	}
}

func TestSelectImageCount(t *testing.T) {
	unbounded := vk.SurfaceCapabilities{MinImageCount: 2, MaxImageCount: 0}
	if got := selectImageCount(unbounded); got != 3 {
		t.Errorf("count = %d, want min+1 = 3", got)
	}

	capped := vk.SurfaceCapabilities{MinImageCount: 2, MaxImageCount: 2}
	if got := selectImageCount(capped); got != 2 {
		t.Errorf("count = %d, want capped at 2", got)
	}
}
