package vulkan

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	vk "github.com/goki/vulkan"

	"github.com/tylercaldwell27/prism/engine/core"
)

// UniformBufferObject matches the std140 block in the vertex shader.
type UniformBufferObject struct {
	Model mgl32.Mat4
	View  mgl32.Mat4
	Proj  mgl32.Mat4
}

var uniformBufferSize = vk.DeviceSize(unsafe.Sizeof(UniformBufferObject{}))

func DescriptorSetLayoutCreate(context *Context) (vk.DescriptorSetLayout, error) {
	uboBinding := vk.DescriptorSetLayoutBinding{
		Binding:         0,
		DescriptorType:  vk.DescriptorTypeUniformBuffer,
		DescriptorCount: 1,
		StageFlags:      vk.ShaderStageFlags(vk.ShaderStageVertexBit),
	}
	samplerBinding := vk.DescriptorSetLayoutBinding{
		Binding:         1,
		DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
		DescriptorCount: 1,
		StageFlags:      vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
	}

	layoutCreateInfo := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: 2,
		PBindings:    []vk.DescriptorSetLayoutBinding{uboBinding, samplerBinding},
	}

	var layout vk.DescriptorSetLayout
	if res := vk.CreateDescriptorSetLayout(context.Device.LogicalDevice, &layoutCreateInfo, context.Allocator, &layout); res != vk.Success {
		err := fmt.Errorf("failed to create descriptor set layout: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return nil, err
	}
	return layout, nil
}

// UniformSet holds the per-swapchain-image uniform buffers and descriptor
// sets. Indexed by image index, never by frame slot: the GPU may still be
// reading image i's buffer while a different frame slot records.
type UniformSet struct {
	Buffers []*Buffer
	mapped  []unsafe.Pointer

	Pool vk.DescriptorPool
	Sets []vk.DescriptorSet
}

func NewUniformSet(context *Context, layout vk.DescriptorSetLayout, imageCount uint32, texture *Texture) (*UniformSet, error) {
	us := &UniformSet{
		Buffers: make([]*Buffer, imageCount),
		mapped:  make([]unsafe.Pointer, imageCount),
		Sets:    make([]vk.DescriptorSet, imageCount),
	}

	for i := uint32(0); i < imageCount; i++ {
		buffer, err := NewBuffer(context, uniformBufferSize,
			vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit),
			vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
		if err != nil {
			us.Destroy(context)
			return nil, err
		}
		us.Buffers[i] = buffer

		// Persistently mapped; written every frame.
		ptr, err := buffer.Map(context, 0, uniformBufferSize)
		if err != nil {
			us.Destroy(context)
			return nil, err
		}
		us.mapped[i] = ptr
	}

	poolSizes := []vk.DescriptorPoolSize{
		{Type: vk.DescriptorTypeUniformBuffer, DescriptorCount: imageCount},
		{Type: vk.DescriptorTypeCombinedImageSampler, DescriptorCount: imageCount},
	}
	poolCreateInfo := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		PoolSizeCount: uint32(len(poolSizes)),
		PPoolSizes:    poolSizes,
		MaxSets:       imageCount,
	}
	var pool vk.DescriptorPool
	if res := vk.CreateDescriptorPool(context.Device.LogicalDevice, &poolCreateInfo, context.Allocator, &pool); res != vk.Success {
		us.Destroy(context)
		err := fmt.Errorf("failed to create descriptor pool: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return nil, err
	}
	us.Pool = pool

	layouts := make([]vk.DescriptorSetLayout, imageCount)
	for i := range layouts {
		layouts[i] = layout
	}
	allocateInfo := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     pool,
		DescriptorSetCount: imageCount,
		PSetLayouts:        layouts,
	}
	if res := vk.AllocateDescriptorSets(context.Device.LogicalDevice, &allocateInfo, &us.Sets[0]); res != vk.Success {
		us.Destroy(context)
		err := fmt.Errorf("failed to allocate descriptor sets: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return nil, err
	}

	for i := uint32(0); i < imageCount; i++ {
		bufferInfo := vk.DescriptorBufferInfo{
			Buffer: us.Buffers[i].Handle,
			Offset: 0,
			Range:  uniformBufferSize,
		}
		imageInfo := vk.DescriptorImageInfo{
			ImageLayout: vk.ImageLayoutShaderReadOnlyOptimal,
			ImageView:   texture.Image.View,
			Sampler:     texture.Sampler,
		}

		writes := []vk.WriteDescriptorSet{
			{
				SType:           vk.StructureTypeWriteDescriptorSet,
				DstSet:          us.Sets[i],
				DstBinding:      0,
				DstArrayElement: 0,
				DescriptorType:  vk.DescriptorTypeUniformBuffer,
				DescriptorCount: 1,
				PBufferInfo:     []vk.DescriptorBufferInfo{bufferInfo},
			},
			{
				SType:           vk.StructureTypeWriteDescriptorSet,
				DstSet:          us.Sets[i],
				DstBinding:      1,
				DstArrayElement: 0,
				DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
				DescriptorCount: 1,
				PImageInfo:      []vk.DescriptorImageInfo{imageInfo},
			},
		}
		vk.UpdateDescriptorSets(context.Device.LogicalDevice, uint32(len(writes)), writes, 0, nil)
	}

	return us, nil
}

// RebindTexture points every descriptor set's sampler binding at a new
// texture. Used by hot reload; the device must be idle.
func (us *UniformSet) RebindTexture(context *Context, texture *Texture) {
	for i := range us.Sets {
		imageInfo := vk.DescriptorImageInfo{
			ImageLayout: vk.ImageLayoutShaderReadOnlyOptimal,
			ImageView:   texture.Image.View,
			Sampler:     texture.Sampler,
		}
		write := vk.WriteDescriptorSet{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          us.Sets[i],
			DstBinding:      1,
			DstArrayElement: 0,
			DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
			DescriptorCount: 1,
			PImageInfo:      []vk.DescriptorImageInfo{imageInfo},
		}
		vk.UpdateDescriptorSets(context.Device.LogicalDevice, 1, []vk.WriteDescriptorSet{write}, 0, nil)
	}
}

// Update writes the uniform block for one swapchain image.
func (us *UniformSet) Update(imageIndex uint32, ubo *UniformBufferObject) {
	bytes := unsafe.Slice((*byte)(unsafe.Pointer(ubo)), int(uniformBufferSize))
	vk.Memcopy(us.mapped[imageIndex], bytes)
}

func (us *UniformSet) Destroy(context *Context) {
	if us.Pool != nil {
		// Sets are freed with the pool.
		vk.DestroyDescriptorPool(context.Device.LogicalDevice, us.Pool, context.Allocator)
		us.Pool = nil
	}
	for i, buffer := range us.Buffers {
		if buffer == nil {
			continue
		}
		if us.mapped[i] != nil {
			buffer.Unmap(context)
			us.mapped[i] = nil
		}
		buffer.Destroy(context)
		us.Buffers[i] = nil
	}
}
