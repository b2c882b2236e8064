package loop

import "sync"

// FrameID identifies a requested frame callback. Zero is never issued.
type FrameID uint64

// Scheduler runs frame callbacks on the host's render cadence.
type Scheduler interface {
	RequestFrame(fn func()) FrameID
	CancelFrame(id FrameID)
}

// FrameScheduler is a Scheduler whose frames are fired explicitly by the
// host, e.g. on every Bubble Tea tick message.
type FrameScheduler struct {
	mu      sync.Mutex
	nextID  FrameID
	pending map[FrameID]func()
	order   []FrameID
}

// NewFrameScheduler creates an empty scheduler.
func NewFrameScheduler() *FrameScheduler {
	return &FrameScheduler{pending: make(map[FrameID]func())}
}

// RequestFrame queues fn for the next Fire.
func (s *FrameScheduler) RequestFrame(fn func()) FrameID {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	s.pending[s.nextID] = fn
	s.order = append(s.order, s.nextID)
	return s.nextID
}

// CancelFrame drops a queued callback. Unknown ids are ignored.
func (s *FrameScheduler) CancelFrame(id FrameID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
}

// Pending returns the number of queued callbacks.
func (s *FrameScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Fire runs the callbacks queued before the call, in request order.
// Callbacks requested while firing wait for the next Fire.
// It returns the number of callbacks run.
func (s *FrameScheduler) Fire() int {
	s.mu.Lock()
	order := s.order
	s.order = nil
	fns := make([]func(), 0, len(order))
	for _, id := range order {
		if fn, ok := s.pending[id]; ok {
			fns = append(fns, fn)
			delete(s.pending, id)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return len(fns)
}
