package containers

import (
	"errors"
	"testing"
)

func TestRingQueueFIFO(t *testing.T) {
	q := NewRingQueue[string](3)

	for _, s := range []string{"a", "b", "c"} {
		if err := q.Enqueue(s); err != nil {
			t.Fatalf("Enqueue(%q): %v", s, err)
		}
	}
	if err := q.Enqueue("d"); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("Enqueue on full queue: err = %v, want ErrQueueFull", err)
	}

	for _, want := range []string{"a", "b", "c"} {
		got, err := q.Dequeue()
		if err != nil {
			t.Fatalf("Dequeue: %v", err)
		}
		if got != want {
			t.Fatalf("Dequeue = %q, want %q", got, want)
		}
	}
	if _, err := q.Dequeue(); !errors.Is(err, ErrQueueEmpty) {
		t.Fatalf("Dequeue on empty queue: err = %v, want ErrQueueEmpty", err)
	}
}

func TestRingQueueWrapsAround(t *testing.T) {
	q := NewRingQueue[int](2)

	q.Enqueue(1)
	q.Enqueue(2)
	q.Dequeue()
	if err := q.Enqueue(3); err != nil {
		t.Fatalf("Enqueue after wrap: %v", err)
	}

	if got, _ := q.Peek(); got != 2 {
		t.Fatalf("Peek = %d, want 2", got)
	}
	if q.Len() != 2 {
		t.Fatalf("Len = %d, want 2", q.Len())
	}
}
