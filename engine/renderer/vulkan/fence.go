package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/tylercaldwell27/prism/engine/core"
)

type Fence struct {
	Handle     vk.Fence
	IsSignaled bool

	context *Context
}

func NewFence(context *Context, createSignaled bool) (*Fence, error) {
	fence := &Fence{
		IsSignaled: createSignaled,
		context:    context,
	}

	fenceCreateInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}
	if fence.IsSignaled {
		fenceCreateInfo.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}

	var pFence vk.Fence
	if res := vk.CreateFence(context.Device.LogicalDevice, &fenceCreateInfo, context.Allocator, &pFence); res != vk.Success {
		err := fmt.Errorf("failed to create fence: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return nil, err
	}
	fence.Handle = pFence
	return fence, nil
}

func (f *Fence) Destroy() {
	if f.Handle != nil {
		vk.DestroyFence(f.context.Device.LogicalDevice, f.Handle, f.context.Allocator)
		f.Handle = nil
	}
	f.IsSignaled = false
}

// Wait blocks until the fence signals or the timeout elapses. An already
// signaled fence returns immediately.
func (f *Fence) Wait(timeoutNs uint64) error {
	if f.IsSignaled {
		return nil
	}
	result := vk.WaitForFences(f.context.Device.LogicalDevice, 1, []vk.Fence{f.Handle}, vk.True, timeoutNs)
	if result != vk.Success {
		err := fmt.Errorf("fence wait failed: %s", VulkanResultString(result))
		core.LogError(err.Error())
		return err
	}
	f.IsSignaled = true
	return nil
}

// Reset returns the fence to the unsignaled state. Must only be called once
// any wait on it has completed.
func (f *Fence) Reset() error {
	if !f.IsSignaled {
		return nil
	}
	if res := vk.ResetFences(f.context.Device.LogicalDevice, 1, []vk.Fence{f.Handle}); res != vk.Success {
		err := fmt.Errorf("failed to reset fence: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return err
	}
	f.IsSignaled = false
	return nil
}
