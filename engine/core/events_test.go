package core

import "testing"

func TestEventRegisterFireUnregister(t *testing.T) {
	if !EventSystemInitialize() {
		t.Fatal("event system failed to initialize")
	}
	t.Cleanup(EventSystemShutdown)

	listener := &struct{}{}
	got := 0
	EventRegister(EVENT_CODE_RESIZED, listener, func(code SystemEventCode, sender interface{}, data EventContext) bool {
		got++
		if data.U32[0] != 640 || data.U32[1] != 480 {
			t.Errorf("payload = %v", data.U32)
		}
		return true
	})

	if !EventFire(EVENT_CODE_RESIZED, nil, EventContext{U32: [2]uint32{640, 480}}) {
		t.Fatal("event was not handled")
	}
	if got != 1 {
		t.Fatalf("handler ran %d times, want 1", got)
	}

	if !EventUnregister(EVENT_CODE_RESIZED, listener) {
		t.Fatal("unregister failed")
	}
	if EventFire(EVENT_CODE_RESIZED, nil, EventContext{}) {
		t.Fatal("event handled after unregister")
	}
}

func TestEventDuplicateRegistrationRejected(t *testing.T) {
	if !EventSystemInitialize() {
		t.Fatal("event system failed to initialize")
	}
	t.Cleanup(EventSystemShutdown)

	listener := &struct{}{}
	fn := func(code SystemEventCode, sender interface{}, data EventContext) bool { return false }

	if !EventRegister(EVENT_CODE_KEY_PRESSED, listener, fn) {
		t.Fatal("first registration failed")
	}
	if EventRegister(EVENT_CODE_KEY_PRESSED, listener, fn) {
		t.Fatal("duplicate registration accepted")
	}
}

func TestEventStopsAfterHandled(t *testing.T) {
	if !EventSystemInitialize() {
		t.Fatal("event system failed to initialize")
	}
	t.Cleanup(EventSystemShutdown)

	first := &struct{}{}
	second := &struct{}{}
	secondRan := false

	EventRegister(EVENT_CODE_KEY_RELEASED, first, func(code SystemEventCode, sender interface{}, data EventContext) bool {
		return true
	})
	EventRegister(EVENT_CODE_KEY_RELEASED, second, func(code SystemEventCode, sender interface{}, data EventContext) bool {
		secondRan = true
		return false
	})

	EventFire(EVENT_CODE_KEY_RELEASED, nil, EventContext{})
	if secondRan {
		t.Fatal("handled event was passed to a later listener")
	}
}
