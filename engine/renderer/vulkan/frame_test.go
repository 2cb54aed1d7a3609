package vulkan

import (
	"errors"
	"reflect"
	"testing"
)

// fakeFence records the wait/reset sequence applied to it. When seq is
// set, every operation also appends to the shared log.
type fakeFence struct {
	name     string
	signaled bool
	waits    int
	resets   int
	waitErr  error
	seq      *[]string
}

func (f *fakeFence) Wait(timeoutNs uint64) error {
	f.waits++
	if f.seq != nil {
		*f.seq = append(*f.seq, f.name+":wait")
	}
	if f.waitErr != nil {
		return f.waitErr
	}
	f.signaled = true
	return nil
}

func (f *fakeFence) Reset() error {
	f.resets++
	if f.seq != nil {
		*f.seq = append(*f.seq, f.name+":reset")
	}
	f.signaled = false
	return nil
}

func newSync(t *testing.T, slots int, images uint32) (*FrameSync, []*fakeFence) {
	t.Helper()
	fences := make([]*fakeFence, slots)
	waiters := make([]Waiter, slots)
	for i := range fences {
		fences[i] = &fakeFence{name: string(rune('a' + i)), signaled: true}
		waiters[i] = fences[i]
	}
	fs, err := NewFrameSync(waiters, images)
	if err != nil {
		t.Fatalf("NewFrameSync: %v", err)
	}
	return fs, fences
}

func TestSlotAdvancesModuloFrameCount(t *testing.T) {
	fs, _ := newSync(t, 2, 3)

	want := []uint32{0, 1, 0, 1, 0}
	for i, w := range want {
		if got := fs.CurrentSlot(); got != w {
			t.Fatalf("frame %d: slot = %d, want %d", i, got, w)
		}
		fs.EndFrame()
	}
}

func TestClaimImageResetsSlotFenceAfterWaits(t *testing.T) {
	fs, fences := newSync(t, 2, 3)

	if err := fs.BeginFrame(1); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	if err := fs.ClaimImage(1, 1); err != nil {
		t.Fatalf("ClaimImage: %v", err)
	}
	if fences[0].resets != 1 {
		t.Fatalf("slot fence resets = %d, want 1", fences[0].resets)
	}
	if fences[0].signaled {
		t.Fatal("slot fence still signaled after claim")
	}
}

func TestClaimWaitsOnPriorOwnerOfSameImage(t *testing.T) {
	// 3 images, 2 slots. Frame 0 renders image 1; frame 2 gets image 1
	// back and must wait on slot 0's fence before touching it.
	fs, fences := newSync(t, 2, 3)

	// Frame 0 -> image 1.
	fs.BeginFrame(1)
	fs.ClaimImage(1, 1)
	fs.EndFrame()

	// Frame 1 -> image 2.
	fences[1].signaled = true
	fs.BeginFrame(1)
	fs.ClaimImage(2, 1)
	fs.EndFrame()

	// Frame 2 (slot 0 again) -> image 1 again.
	fences[0].signaled = true
	waitsBefore := fences[0].waits
	fs.BeginFrame(1)
	if err := fs.ClaimImage(1, 1); err != nil {
		t.Fatalf("ClaimImage: %v", err)
	}
	// One wait from BeginFrame plus one from the image tracker.
	if got := fences[0].waits - waitsBefore; got != 2 {
		t.Fatalf("slot 0 waits during frame 2 = %d, want 2", got)
	}
}

func TestClaimSkipsWaitForUnownedImage(t *testing.T) {
	fs, fences := newSync(t, 2, 3)

	fs.BeginFrame(1)
	waitsBefore := fences[1].waits
	if err := fs.ClaimImage(0, 1); err != nil {
		t.Fatalf("ClaimImage: %v", err)
	}
	if fences[1].waits != waitsBefore {
		t.Fatal("claiming a never-rendered image waited on an unrelated fence")
	}
}

func TestClaimPropagatesWaitError(t *testing.T) {
	fs, fences := newSync(t, 2, 2)

	fs.BeginFrame(1)
	fs.ClaimImage(0, 1)
	fs.EndFrame()

	boom := errors.New("device lost")
	fences[0].waitErr = boom

	fences[1].signaled = true
	fs.BeginFrame(1)
	if err := fs.ClaimImage(0, 1); !errors.Is(err, boom) {
		t.Fatalf("ClaimImage error = %v, want %v", err, boom)
	}
	// The slot fence must not have been reset on the failure path.
	if fences[1].resets != 0 {
		t.Fatal("slot fence reset despite failed image wait")
	}
}

func TestClaimImageThenWriteOrdersWriteAfterImageWait(t *testing.T) {
	// 3 images, 2 slots. Image 1 comes back while slot 0's earlier
	// submission to it may still be executing: the per-image write must
	// run only after that fence wait and the slot fence reset.
	fs, fences := newSync(t, 2, 3)
	var seq []string
	for _, f := range fences {
		f.seq = &seq
	}

	fs.BeginFrame(1)
	fs.ClaimImage(1, 1)
	fs.EndFrame()

	fences[1].signaled = true
	fs.BeginFrame(1)
	fs.ClaimImage(2, 1)
	fs.EndFrame()

	fences[0].signaled = true
	seq = seq[:0]
	fs.BeginFrame(1)
	if err := fs.ClaimImageThenWrite(1, 1, func() {
		seq = append(seq, "write")
	}); err != nil {
		t.Fatalf("ClaimImageThenWrite: %v", err)
	}

	want := []string{"a:wait", "a:wait", "a:reset", "write"}
	if !reflect.DeepEqual(seq, want) {
		t.Fatalf("sequence = %v, want %v", seq, want)
	}
}

func TestClaimImageThenWriteSkipsWriteOnWaitError(t *testing.T) {
	fs, fences := newSync(t, 2, 2)

	fs.BeginFrame(1)
	fs.ClaimImage(0, 1)
	fs.EndFrame()

	boom := errors.New("device lost")
	fences[0].waitErr = boom

	fences[1].signaled = true
	fs.BeginFrame(1)
	wrote := false
	err := fs.ClaimImageThenWrite(0, 1, func() { wrote = true })
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want %v", err, boom)
	}
	if wrote {
		t.Fatal("per-image write ran despite failed image wait")
	}
}

func TestClaimImageOutOfRange(t *testing.T) {
	fs, _ := newSync(t, 2, 2)

	if err := fs.ClaimImage(2, 1); err == nil {
		t.Fatal("claiming image index beyond image count succeeded")
	}
}

func TestInvalidateForgetsImageOwnership(t *testing.T) {
	fs, fences := newSync(t, 2, 3)

	fs.BeginFrame(1)
	fs.ClaimImage(1, 1)
	fs.EndFrame()

	fs.Invalidate(4)

	if fs.CurrentSlot() != 0 {
		t.Fatalf("slot after invalidate = %d, want 0", fs.CurrentSlot())
	}
	fences[0].signaled = true
	waitsBefore := fences[0].waits
	fs.BeginFrame(1)
	if err := fs.ClaimImage(1, 1); err != nil {
		t.Fatalf("ClaimImage after invalidate: %v", err)
	}
	// Only the BeginFrame wait; the stale ownership is gone.
	if got := fences[0].waits - waitsBefore; got != 1 {
		t.Fatalf("waits after invalidate = %d, want 1", got)
	}
}

func TestMoreImagesThanSlots(t *testing.T) {
	// N=4 images, F=2 slots: cycling all images never deadlocks and each
	// claim records the current slot's fence.
	fs, fences := newSync(t, 2, 4)

	for frame := 0; frame < 8; frame++ {
		slot := fs.CurrentSlot()
		fences[slot].signaled = true
		if err := fs.BeginFrame(1); err != nil {
			t.Fatalf("frame %d BeginFrame: %v", frame, err)
		}
		if err := fs.ClaimImage(uint32(frame%4), 1); err != nil {
			t.Fatalf("frame %d ClaimImage: %v", frame, err)
		}
		fs.EndFrame()
	}
	if fences[0].resets != 4 || fences[1].resets != 4 {
		t.Fatalf("resets = %d/%d, want 4/4", fences[0].resets, fences[1].resets)
	}
}
