// Package telemetry records the drill's steering commands. Commands carry a
// sequence number and are flushed to a Sink in fixed-size batches.
package telemetry

import (
	"sync"

	"github.com/google/uuid"
)

// DefaultBatchSize is the number of commands per flushed batch.
const DefaultBatchSize = 10

// Command is one steering command issued during a simulated tick.
type Command struct {
	Seq      uint64
	DtMs     float64
	AngleDeg float64
	Throttle float64
}

// Sink receives batches of commands for a session.
type Sink interface {
	Write(sessionID string, batch []Command) error
}

// NewSessionID returns a random identifier for a run.
func NewSessionID() string {
	return uuid.NewString()
}

// Recorder numbers commands and forwards them to a Sink in batches.
type Recorder struct {
	mu        sync.Mutex
	sessionID string
	sink      Sink
	batchSize int
	seq       uint64
	buf       []Command
	sent      int
	err       error
}

// NewRecorder creates a recorder for one session. batchSize <= 0 uses
// DefaultBatchSize.
func NewRecorder(sessionID string, sink Sink, batchSize int) *Recorder {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Recorder{
		sessionID: sessionID,
		sink:      sink,
		batchSize: batchSize,
		buf:       make([]Command, 0, batchSize),
	}
}

// SessionID returns the session the recorder writes under.
func (r *Recorder) SessionID() string { return r.sessionID }

// Record appends a command and flushes when the batch is full. Sink
// failures are kept and reported by Err; recording continues.
func (r *Recorder) Record(dtMs, angleDeg, throttle float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	r.buf = append(r.buf, Command{
		Seq:      r.seq,
		DtMs:     dtMs,
		AngleDeg: angleDeg,
		Throttle: throttle,
	})
	if len(r.buf) >= r.batchSize {
		r.flushLocked()
	}
}

// Flush sends any buffered commands.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flushLocked()
	return r.err
}

// Close flushes the remainder. The recorder must not be used afterwards.
func (r *Recorder) Close() error {
	return r.Flush()
}

// Sent returns the number of commands delivered to the sink.
func (r *Recorder) Sent() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sent
}

// Err returns the first sink error, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *Recorder) flushLocked() {
	if len(r.buf) == 0 || r.sink == nil {
		r.buf = r.buf[:0]
		return
	}

	batch := make([]Command, len(r.buf))
	copy(batch, r.buf)
	r.buf = r.buf[:0]

	if err := r.sink.Write(r.sessionID, batch); err != nil {
		if r.err == nil {
			r.err = err
		}
		return
	}
	r.sent += len(batch)
}
