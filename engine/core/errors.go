package core

import (
	"errors"
)

var (
	// ErrSwapchainStale is absorbed by the render loop: the frame is skipped
	// and the swapchain rebuilt before the next one.
	ErrSwapchainStale = errors.New("swapchain out of date, frame skipped")

	// ErrUnsupportedTransition marks a request outside the closed image
	// layout transition table. Always a logic defect, never retried.
	ErrUnsupportedTransition = errors.New("unsupported image layout transition")

	// ErrNoSuitableMemoryType is a fatal setup failure.
	ErrNoSuitableMemoryType = errors.New("no suitable GPU memory type")
)
