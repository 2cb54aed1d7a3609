package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/tylercaldwell27/prism/engine/assets"
	"github.com/tylercaldwell27/prism/engine/core"
)

// Texture is a sampled image with a full mip chain and its sampler.
type Texture struct {
	Image      *Image
	Sampler    vk.Sampler
	Generation uint32
}

const textureFormat = vk.FormatR8g8b8a8Srgb

// TextureCreate uploads decoded pixels into a device-local image, builds
// its mip chain on the GPU and creates the sampler.
func TextureCreate(context *Context, engine *TransferEngine, data *assets.ImageData) (*Texture, error) {
	mipLevels := MipLevels(data.Width, data.Height)

	if !context.Device.SupportsLinearBlit(textureFormat) {
		err := fmt.Errorf("texture format does not support linear blitting, cannot generate mipmaps")
		core.LogError(err.Error())
		return nil, err
	}

	staging, err := NewBuffer(context, vk.DeviceSize(data.Size()),
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return nil, err
	}
	defer staging.Destroy(context)

	if err := staging.LoadData(context, 0, data.Pixels); err != nil {
		return nil, err
	}

	image, err := ImageCreate(
		context,
		data.Width,
		data.Height,
		mipLevels,
		vk.SampleCount1Bit,
		textureFormat,
		vk.ImageTilingOptimal,
		vk.ImageUsageFlags(vk.ImageUsageTransferSrcBit|vk.ImageUsageTransferDstBit|vk.ImageUsageSampledBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
		true,
		vk.ImageAspectFlags(vk.ImageAspectColorBit))
	if err != nil {
		return nil, err
	}

	err = engine.RunOnce(func(cmd vk.CommandBuffer) error {
		// All mip levels move to transfer-dst; the copy fills level 0 and
		// the blit chain fills the rest.
		if err := recordTransition(cmd, image.Handle, vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal, 0, mipLevels); err != nil {
			return err
		}

		region := vk.BufferImageCopy{
			BufferOffset:      0,
			BufferRowLength:   0,
			BufferImageHeight: 0,
			ImageSubresource: vk.ImageSubresourceLayers{
				AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
				MipLevel:       0,
				BaseArrayLayer: 0,
				LayerCount:     1,
			},
			ImageExtent: vk.Extent3D{
				Width:  data.Width,
				Height: data.Height,
				Depth:  1,
			},
		}
		vk.CmdCopyBufferToImage(cmd, staging.Handle, image.Handle, vk.ImageLayoutTransferDstOptimal, 1, []vk.BufferImageCopy{region})

		return recordMipChain(cmd, image, mipLevels)
	})
	if err != nil {
		image.Destroy(context)
		return nil, err
	}

	sampler, err := createSampler(context, mipLevels)
	if err != nil {
		image.Destroy(context)
		return nil, err
	}

	core.LogInfo("texture uploaded: %dx%d, %d mip levels", data.Width, data.Height, mipLevels)
	return &Texture{
		Image:   image,
		Sampler: sampler,
	}, nil
}

func (t *Texture) Destroy(context *Context) {
	if t.Sampler != nil {
		vk.DestroySampler(context.Device.LogicalDevice, t.Sampler, context.Allocator)
		t.Sampler = nil
	}
	if t.Image != nil {
		t.Image.Destroy(context)
		t.Image = nil
	}
}

// recordMipChain downsamples level i-1 into level i with linear blits.
// Each source level is flipped to transfer-src before its blit and lands in
// shader-read-only once consumed; the last level goes there directly.
func recordMipChain(cmd vk.CommandBuffer, image *Image, mipLevels uint32) error {
	width := int32(image.Width)
	height := int32(image.Height)

	for level := uint32(1); level < mipLevels; level++ {
		if err := recordTransition(cmd, image.Handle, vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutTransferSrcOptimal, level-1, 1); err != nil {
			return err
		}

		dstWidth, dstHeight := mipExtent(width, height)

		blit := vk.ImageBlit{
			SrcSubresource: vk.ImageSubresourceLayers{
				AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
				MipLevel:       level - 1,
				BaseArrayLayer: 0,
				LayerCount:     1,
			},
			SrcOffsets: [2]vk.Offset3D{
				{X: 0, Y: 0, Z: 0},
				{X: width, Y: height, Z: 1},
			},
			DstSubresource: vk.ImageSubresourceLayers{
				AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
				MipLevel:       level,
				BaseArrayLayer: 0,
				LayerCount:     1,
			},
			DstOffsets: [2]vk.Offset3D{
				{X: 0, Y: 0, Z: 0},
				{X: dstWidth, Y: dstHeight, Z: 1},
			},
		}
		vk.CmdBlitImage(cmd,
			image.Handle, vk.ImageLayoutTransferSrcOptimal,
			image.Handle, vk.ImageLayoutTransferDstOptimal,
			1, []vk.ImageBlit{blit},
			vk.FilterLinear)

		if err := recordTransition(cmd, image.Handle, vk.ImageLayoutTransferSrcOptimal, vk.ImageLayoutShaderReadOnlyOptimal, level-1, 1); err != nil {
			return err
		}

		width, height = dstWidth, dstHeight
	}

	// The final level was only ever written, never blitted from.
	return recordTransition(cmd, image.Handle, vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutShaderReadOnlyOptimal, mipLevels-1, 1)
}

func createSampler(context *Context, mipLevels uint32) (vk.Sampler, error) {
	samplerCreateInfo := vk.SamplerCreateInfo{
		SType:                   vk.StructureTypeSamplerCreateInfo,
		MagFilter:               vk.FilterLinear,
		MinFilter:               vk.FilterLinear,
		AddressModeU:            vk.SamplerAddressModeRepeat,
		AddressModeV:            vk.SamplerAddressModeRepeat,
		AddressModeW:            vk.SamplerAddressModeRepeat,
		AnisotropyEnable:        vk.True,
		MaxAnisotropy:           context.Device.Properties.Limits.MaxSamplerAnisotropy,
		BorderColor:             vk.BorderColorIntOpaqueBlack,
		UnnormalizedCoordinates: vk.False,
		CompareEnable:           vk.False,
		CompareOp:               vk.CompareOpAlways,
		MipmapMode:              vk.SamplerMipmapModeLinear,
		MipLodBias:              0,
		MinLod:                  0,
		MaxLod:                  float32(mipLevels),
	}

	var sampler vk.Sampler
	if res := vk.CreateSampler(context.Device.LogicalDevice, &samplerCreateInfo, context.Allocator, &sampler); res != vk.Success {
		err := fmt.Errorf("failed to create texture sampler: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return nil, err
	}
	return sampler, nil
}
