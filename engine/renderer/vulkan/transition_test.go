package vulkan

import (
	"errors"
	"testing"

	vk "github.com/goki/vulkan"

	"github.com/tylercaldwell27/prism/engine/core"
)

func TestMipLevels(t *testing.T) {
	cases := []struct {
		w, h uint32
		want uint32
	}{
		{800, 600, 10},
		{600, 800, 10},
		{1, 1, 1},
		{2, 1, 2},
		{1024, 1024, 11},
		{1023, 1, 10},
		{0, 0, 1},
	}
	for _, c := range cases {
		if got := MipLevels(c.w, c.h); got != c.want {
			t.Errorf("MipLevels(%d, %d) = %d, want %d", c.w, c.h, got, c.want)
		}
	}
}

func TestMipExtentFloorsAtOne(t *testing.T) {
	w, h := int32(8), int32(2)
	steps := [][2]int32{{4, 1}, {2, 1}, {1, 1}, {1, 1}}
	for i, want := range steps {
		w, h = mipExtent(w, h)
		if w != want[0] || h != want[1] {
			t.Fatalf("step %d: extent = %dx%d, want %dx%d", i, w, h, want[0], want[1])
		}
	}
}

func TestBarrierMasksKnownTransitions(t *testing.T) {
	masks, err := barrierMasksFor(vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal)
	if err != nil {
		t.Fatalf("undefined -> transfer-dst: %v", err)
	}
	if masks.srcAccess != 0 {
		t.Errorf("srcAccess = %#x, want 0", masks.srcAccess)
	}
	if masks.dstAccess != vk.AccessFlags(vk.AccessTransferWriteBit) {
		t.Errorf("dstAccess = %#x, want transfer write", masks.dstAccess)
	}
	if masks.dstStage != vk.PipelineStageFlags(vk.PipelineStageTransferBit) {
		t.Errorf("dstStage = %#x, want transfer", masks.dstStage)
	}

	masks, err = barrierMasksFor(vk.ImageLayoutTransferSrcOptimal, vk.ImageLayoutShaderReadOnlyOptimal)
	if err != nil {
		t.Fatalf("transfer-src -> shader-read: %v", err)
	}
	if masks.dstStage != vk.PipelineStageFlags(vk.PipelineStageFragmentShaderBit) {
		t.Errorf("dstStage = %#x, want fragment shader", masks.dstStage)
	}
}

func TestBarrierMasksRejectsUnknownTransition(t *testing.T) {
	_, err := barrierMasksFor(vk.ImageLayoutShaderReadOnlyOptimal, vk.ImageLayoutTransferDstOptimal)
	if !errors.Is(err, core.ErrUnsupportedTransition) {
		t.Fatalf("err = %v, want ErrUnsupportedTransition", err)
	}
}
