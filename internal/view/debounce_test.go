package view

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerRunsLastOnly(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var last atomic.Value
	var runs atomic.Int32
	for _, s := range []string{"a", "ab", "abc"} {
		s := s
		d.Trigger(func() {
			runs.Add(1)
			last.Store(s)
		})
	}
	waitFor(t, "debounced run", func() bool { return runs.Load() == 1 })
	time.Sleep(40 * time.Millisecond)

	if runs.Load() != 1 {
		t.Fatalf("runs = %d, want 1", runs.Load())
	}
	if got := last.Load(); got != "abc" {
		t.Fatalf("ran %v, want abc", got)
	}
}

func TestDebouncerCancel(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)

	var runs atomic.Int32
	d.Trigger(func() { runs.Add(1) })
	d.Cancel()
	time.Sleep(30 * time.Millisecond)

	if runs.Load() != 0 {
		t.Fatalf("runs = %d after Cancel, want 0", runs.Load())
	}
}
