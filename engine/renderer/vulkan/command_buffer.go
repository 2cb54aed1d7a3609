package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/tylercaldwell27/prism/engine/core"
)

type CommandBufferState int

const (
	COMMAND_BUFFER_STATE_NOT_ALLOCATED CommandBufferState = iota
	COMMAND_BUFFER_STATE_READY
	COMMAND_BUFFER_STATE_RECORDING
	COMMAND_BUFFER_STATE_RECORDING_ENDED
	COMMAND_BUFFER_STATE_SUBMITTED
)

type CommandBuffer struct {
	Handle vk.CommandBuffer
	State  CommandBufferState
}

func NewCommandBuffer(context *Context, pool vk.CommandPool, isPrimary bool) (*CommandBuffer, error) {
	cb := &CommandBuffer{
		State: COMMAND_BUFFER_STATE_NOT_ALLOCATED,
	}

	level := vk.CommandBufferLevelPrimary
	if !isPrimary {
		level = vk.CommandBufferLevelSecondary
	}

	allocateInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        pool,
		CommandBufferCount: 1,
		Level:              level,
	}

	handles := make([]vk.CommandBuffer, 1)
	if res := vk.AllocateCommandBuffers(context.Device.LogicalDevice, &allocateInfo, handles); res != vk.Success {
		err := fmt.Errorf("failed to allocate command buffer: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return nil, err
	}
	cb.Handle = handles[0]
	cb.State = COMMAND_BUFFER_STATE_READY

	return cb, nil
}

func (cb *CommandBuffer) Free(context *Context, pool vk.CommandPool) {
	vk.FreeCommandBuffers(context.Device.LogicalDevice, pool, 1, []vk.CommandBuffer{cb.Handle})
	cb.Handle = nil
	cb.State = COMMAND_BUFFER_STATE_NOT_ALLOCATED
}

func (cb *CommandBuffer) Begin(singleUse, simultaneousUse bool) error {
	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
	}
	if singleUse {
		beginInfo.Flags |= vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit)
	}
	if simultaneousUse {
		beginInfo.Flags |= vk.CommandBufferUsageFlags(vk.CommandBufferUsageSimultaneousUseBit)
	}

	if res := vk.BeginCommandBuffer(cb.Handle, &beginInfo); res != vk.Success {
		err := fmt.Errorf("failed to begin command buffer: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return err
	}
	cb.State = COMMAND_BUFFER_STATE_RECORDING
	return nil
}

func (cb *CommandBuffer) End() error {
	if res := vk.EndCommandBuffer(cb.Handle); res != vk.Success {
		err := fmt.Errorf("failed to end command buffer: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return err
	}
	cb.State = COMMAND_BUFFER_STATE_RECORDING_ENDED
	return nil
}

func (cb *CommandBuffer) UpdateSubmitted() {
	cb.State = COMMAND_BUFFER_STATE_SUBMITTED
}

// TransferEngine runs one-shot GPU work: texture uploads, buffer copies,
// layout transitions outside the frame loop.
type TransferEngine struct {
	context *Context
	pool    vk.CommandPool
	queue   vk.Queue
}

func NewTransferEngine(context *Context, pool vk.CommandPool, queue vk.Queue) *TransferEngine {
	return &TransferEngine{
		context: context,
		pool:    pool,
		queue:   queue,
	}
}

// RunOnce allocates a single-use command buffer, records into it, submits
// and blocks until the queue drains, then frees it. Synchronous on purpose:
// all callers need the result before continuing.
func (te *TransferEngine) RunOnce(record func(cmd vk.CommandBuffer) error) error {
	cb, err := NewCommandBuffer(te.context, te.pool, true)
	if err != nil {
		return err
	}
	defer cb.Free(te.context, te.pool)

	if err := cb.Begin(true, false); err != nil {
		return err
	}
	if err := record(cb.Handle); err != nil {
		return err
	}
	if err := cb.End(); err != nil {
		return err
	}

	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{cb.Handle},
	}
	if res := vk.QueueSubmit(te.queue, 1, []vk.SubmitInfo{submitInfo}, nil); res != vk.Success {
		err := fmt.Errorf("failed to submit one-shot command buffer: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return err
	}
	cb.UpdateSubmitted()

	if res := vk.QueueWaitIdle(te.queue); res != vk.Success {
		err := fmt.Errorf("transfer queue failed to drain: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return err
	}
	return nil
}
