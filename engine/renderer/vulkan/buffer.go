package vulkan

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"
	"github.com/google/uuid"

	"github.com/tylercaldwell27/prism/engine/core"
)

// Buffer couples a VkBuffer with its backing memory allocation.
type Buffer struct {
	ID     uuid.UUID
	Handle vk.Buffer
	Memory vk.DeviceMemory
	Size   vk.DeviceSize
}

func NewBuffer(context *Context, size vk.DeviceSize, usage vk.BufferUsageFlags, memoryFlags vk.MemoryPropertyFlags) (*Buffer, error) {
	buffer := &Buffer{
		ID:   uuid.New(),
		Size: size,
	}

	bufferCreateInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        size,
		Usage:       usage,
		SharingMode: vk.SharingModeExclusive,
	}
	var handle vk.Buffer
	if res := vk.CreateBuffer(context.Device.LogicalDevice, &bufferCreateInfo, context.Allocator, &handle); res != vk.Success {
		err := fmt.Errorf("failed to create buffer: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return nil, err
	}
	buffer.Handle = handle

	var requirements vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(context.Device.LogicalDevice, buffer.Handle, &requirements)
	requirements.Deref()

	memoryIndex, err := context.FindMemoryIndex(requirements.MemoryTypeBits, memoryFlags)
	if err != nil {
		buffer.Destroy(context)
		return nil, err
	}

	allocateInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  requirements.Size,
		MemoryTypeIndex: memoryIndex,
	}
	var memory vk.DeviceMemory
	if res := vk.AllocateMemory(context.Device.LogicalDevice, &allocateInfo, context.Allocator, &memory); res != vk.Success {
		buffer.Destroy(context)
		err := fmt.Errorf("failed to allocate buffer memory: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return nil, err
	}
	buffer.Memory = memory

	if res := vk.BindBufferMemory(context.Device.LogicalDevice, buffer.Handle, buffer.Memory, 0); res != vk.Success {
		buffer.Destroy(context)
		err := fmt.Errorf("failed to bind buffer memory: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return nil, err
	}

	core.LogDebug("buffer %s allocated (%d bytes)", buffer.ID, size)
	return buffer, nil
}

func (b *Buffer) Destroy(context *Context) {
	if b.Handle != nil {
		vk.DestroyBuffer(context.Device.LogicalDevice, b.Handle, context.Allocator)
		b.Handle = nil
	}
	if b.Memory != nil {
		vk.FreeMemory(context.Device.LogicalDevice, b.Memory, context.Allocator)
		b.Memory = nil
	}
}

// Map exposes the buffer's memory to the host. Only valid for host-visible
// allocations.
func (b *Buffer) Map(context *Context, offset, size vk.DeviceSize) (unsafe.Pointer, error) {
	var ptr unsafe.Pointer
	if res := vk.MapMemory(context.Device.LogicalDevice, b.Memory, offset, size, 0, &ptr); res != vk.Success {
		err := fmt.Errorf("failed to map buffer memory: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return nil, err
	}
	return ptr, nil
}

func (b *Buffer) Unmap(context *Context) {
	vk.UnmapMemory(context.Device.LogicalDevice, b.Memory)
}

// LoadData maps the buffer, copies data into it and unmaps.
func (b *Buffer) LoadData(context *Context, offset vk.DeviceSize, data []byte) error {
	ptr, err := b.Map(context, offset, vk.DeviceSize(len(data)))
	if err != nil {
		return err
	}
	vk.Memcopy(ptr, data)
	b.Unmap(context)
	return nil
}

// CopyTo records a full copy into dst. Runs on a transfer engine's one-shot
// command buffer.
func (b *Buffer) CopyTo(engine *TransferEngine, dst *Buffer, size vk.DeviceSize) error {
	return engine.RunOnce(func(cmd vk.CommandBuffer) error {
		region := vk.BufferCopy{
			SrcOffset: 0,
			DstOffset: 0,
			Size:      size,
		}
		vk.CmdCopyBuffer(cmd, b.Handle, dst.Handle, 1, []vk.BufferCopy{region})
		return nil
	})
}

// UploadDeviceLocal stages data through a host-visible buffer into a fresh
// device-local buffer with the given usage.
func UploadDeviceLocal(context *Context, engine *TransferEngine, data []byte, usage vk.BufferUsageFlags) (*Buffer, error) {
	size := vk.DeviceSize(len(data))

	staging, err := NewBuffer(context, size,
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return nil, err
	}
	defer staging.Destroy(context)

	if err := staging.LoadData(context, 0, data); err != nil {
		return nil, err
	}

	dst, err := NewBuffer(context, size,
		usage|vk.BufferUsageFlags(vk.BufferUsageTransferDstBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if err != nil {
		return nil, err
	}

	if err := staging.CopyTo(engine, dst, size); err != nil {
		dst.Destroy(context)
		return nil, err
	}
	return dst, nil
}
