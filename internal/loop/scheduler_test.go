package loop

import (
	"testing"
	"time"
)

func TestFrameSchedulerFire(t *testing.T) {
	s := NewFrameScheduler()
	var calls []int

	s.RequestFrame(func() { calls = append(calls, 1) })
	id := s.RequestFrame(func() { calls = append(calls, 2) })
	s.RequestFrame(func() { calls = append(calls, 3) })
	s.CancelFrame(id)

	if s.Pending() != 2 {
		t.Errorf("Pending() = %d, expected 2", s.Pending())
	}
	if n := s.Fire(); n != 2 {
		t.Errorf("Fire() = %d, expected 2", n)
	}
	if len(calls) != 2 || calls[0] != 1 || calls[1] != 3 {
		t.Errorf("calls = %v, expected [1 3]", calls)
	}
	if s.Fire() != 0 {
		t.Error("second Fire() should run nothing")
	}
}

func TestFrameSchedulerRequestDuringFire(t *testing.T) {
	s := NewFrameScheduler()
	runs := 0
	var fn func()
	fn = func() {
		runs++
		s.RequestFrame(fn)
	}
	s.RequestFrame(fn)

	for range 3 {
		if n := s.Fire(); n != 1 {
			t.Fatalf("Fire() = %d, expected 1", n)
		}
	}
	if runs != 3 {
		t.Errorf("runs = %d, expected 3", runs)
	}
}

func TestManualClock(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewManualClock(start)
	c.Advance(250 * time.Millisecond)
	if got := c.Now().Sub(start); got != 250*time.Millisecond {
		t.Errorf("elapsed = %v, expected 250ms", got)
	}
}
