package vulkan

import (
	"math/bits"

	vk "github.com/goki/vulkan"

	"github.com/tylercaldwell27/prism/engine/core"
)

// layoutTransition keys the closed set of image layout moves the engine
// performs. Anything outside the table is a programming error, not a
// recoverable condition.
type layoutTransition struct {
	from vk.ImageLayout
	to   vk.ImageLayout
}

type barrierMasks struct {
	srcAccess vk.AccessFlags
	dstAccess vk.AccessFlags
	srcStage  vk.PipelineStageFlags
	dstStage  vk.PipelineStageFlags
}

var transitionRules = map[layoutTransition]barrierMasks{
	{vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal}: {
		srcAccess: 0,
		dstAccess: vk.AccessFlags(vk.AccessTransferWriteBit),
		srcStage:  vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit),
		dstStage:  vk.PipelineStageFlags(vk.PipelineStageTransferBit),
	},
	{vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutShaderReadOnlyOptimal}: {
		srcAccess: vk.AccessFlags(vk.AccessTransferWriteBit),
		dstAccess: vk.AccessFlags(vk.AccessShaderReadBit),
		srcStage:  vk.PipelineStageFlags(vk.PipelineStageTransferBit),
		dstStage:  vk.PipelineStageFlags(vk.PipelineStageFragmentShaderBit),
	},
	{vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutTransferSrcOptimal}: {
		srcAccess: vk.AccessFlags(vk.AccessTransferWriteBit),
		dstAccess: vk.AccessFlags(vk.AccessTransferReadBit),
		srcStage:  vk.PipelineStageFlags(vk.PipelineStageTransferBit),
		dstStage:  vk.PipelineStageFlags(vk.PipelineStageTransferBit),
	},
	{vk.ImageLayoutTransferSrcOptimal, vk.ImageLayoutShaderReadOnlyOptimal}: {
		srcAccess: vk.AccessFlags(vk.AccessTransferReadBit),
		dstAccess: vk.AccessFlags(vk.AccessShaderReadBit),
		srcStage:  vk.PipelineStageFlags(vk.PipelineStageTransferBit),
		dstStage:  vk.PipelineStageFlags(vk.PipelineStageFragmentShaderBit),
	},
}

// barrierMasksFor resolves the access and stage masks of a supported layout
// transition. ErrUnsupportedTransition for any pair outside the table.
func barrierMasksFor(from, to vk.ImageLayout) (barrierMasks, error) {
	masks, ok := transitionRules[layoutTransition{from, to}]
	if !ok {
		return barrierMasks{}, core.ErrUnsupportedTransition
	}
	return masks, nil
}

// MipLevels is the full mip chain length for a base level of w by h:
// floor(log2(max(w, h))) + 1.
func MipLevels(width, height uint32) uint32 {
	largest := width
	if height > largest {
		largest = height
	}
	if largest == 0 {
		return 1
	}
	return uint32(bits.Len32(largest))
}

// mipExtent halves an extent for the next mip level, never dropping below 1
// on either axis.
func mipExtent(width, height int32) (int32, int32) {
	if width > 1 {
		width /= 2
	}
	if height > 1 {
		height /= 2
	}
	return width, height
}

// recordTransition records a pipeline barrier moving levelCount mip levels
// of the image from one layout to another.
func recordTransition(cmd vk.CommandBuffer, image vk.Image, from, to vk.ImageLayout, baseMipLevel, levelCount uint32) error {
	masks, err := barrierMasksFor(from, to)
	if err != nil {
		core.LogError("unsupported image layout transition %d -> %d", from, to)
		return err
	}

	barrier := vk.ImageMemoryBarrier{
		SType:               vk.StructureTypeImageMemoryBarrier,
		OldLayout:           from,
		NewLayout:           to,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               image,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
			BaseMipLevel:   baseMipLevel,
			LevelCount:     levelCount,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
		SrcAccessMask: masks.srcAccess,
		DstAccessMask: masks.dstAccess,
	}

	vk.CmdPipelineBarrier(cmd,
		masks.srcStage, masks.dstStage,
		0,
		0, nil,
		0, nil,
		1, []vk.ImageMemoryBarrier{barrier})
	return nil
}
