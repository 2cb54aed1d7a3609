package vulkan

import "fmt"

// Waiter is the slice of fence behavior frame pacing needs. The concrete
// type is *Fence; tests substitute fakes.
type Waiter interface {
	Wait(timeoutNs uint64) error
	Reset() error
}

// FrameSync paces the CPU against the GPU. It owns two index spaces that
// must never be conflated: frame slots (fixed count, cycled round-robin)
// and swapchain images (driver-chosen count, acquired in driver order).
// Each slot has an in-flight fence; each image remembers which slot's fence
// guards the last submit that rendered to it.
type FrameSync struct {
	inFlight       []Waiter
	imagesInFlight []Waiter
	currentSlot    uint32
}

func NewFrameSync(inFlight []Waiter, imageCount uint32) (*FrameSync, error) {
	if len(inFlight) == 0 {
		return nil, fmt.Errorf("frame sync needs at least one in-flight fence")
	}
	return &FrameSync{
		inFlight:       inFlight,
		imagesInFlight: make([]Waiter, imageCount),
	}, nil
}

// SlotCount reports the number of frame slots.
func (fs *FrameSync) SlotCount() uint32 {
	return uint32(len(fs.inFlight))
}

// CurrentSlot reports the frame slot the next frame will use.
func (fs *FrameSync) CurrentSlot() uint32 {
	return fs.currentSlot
}

// CurrentFence returns the in-flight fence of the current slot.
func (fs *FrameSync) CurrentFence() Waiter {
	return fs.inFlight[fs.currentSlot]
}

// BeginFrame blocks until the current slot's previous submission has
// retired. The fence is left signaled; it is reset in ClaimImage only once
// the frame is certain to submit.
func (fs *FrameSync) BeginFrame(timeoutNs uint64) error {
	return fs.inFlight[fs.currentSlot].Wait(timeoutNs)
}

// ClaimImage takes ownership of an acquired swapchain image for the current
// slot. If an earlier frame is still rendering to that image, it waits on
// that frame's fence first. The slot fence is reset here, after every wait,
// so an early exit can never leave it unsignaled with no submit pending.
func (fs *FrameSync) ClaimImage(imageIndex uint32, timeoutNs uint64) error {
	if imageIndex >= uint32(len(fs.imagesInFlight)) {
		return fmt.Errorf("image index %d out of range (have %d)", imageIndex, len(fs.imagesInFlight))
	}
	if prev := fs.imagesInFlight[imageIndex]; prev != nil {
		if err := prev.Wait(timeoutNs); err != nil {
			return err
		}
	}
	fs.imagesInFlight[imageIndex] = fs.inFlight[fs.currentSlot]
	return fs.inFlight[fs.currentSlot].Reset()
}

// ClaimImageThenWrite claims the image and, once no older frame can still
// be reading it, runs write against the image's per-image state. The write
// is skipped entirely when the claim fails.
func (fs *FrameSync) ClaimImageThenWrite(imageIndex uint32, timeoutNs uint64, write func()) error {
	if err := fs.ClaimImage(imageIndex, timeoutNs); err != nil {
		return err
	}
	write()
	return nil
}

// EndFrame advances to the next frame slot.
func (fs *FrameSync) EndFrame() {
	fs.currentSlot = (fs.currentSlot + 1) % uint32(len(fs.inFlight))
}

// Invalidate forgets all image ownership. Called on swapchain recreation:
// the old images are gone, and the device has been drained, so no fence
// still guards one.
func (fs *FrameSync) Invalidate(imageCount uint32) {
	fs.imagesInFlight = make([]Waiter, imageCount)
	fs.currentSlot = 0
}
