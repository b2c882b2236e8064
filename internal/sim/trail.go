package sim

import "github.com/vovakirdan/oil-strike/internal/core"

// trail is a fixed-capacity ring of past drill positions. Pushing onto a
// full ring evicts the oldest point.
type trail struct {
	buf   []core.Vec2
	start int
	n     int
}

func newTrail(capacity int) *trail {
	if capacity < 1 {
		capacity = 1
	}
	return &trail{buf: make([]core.Vec2, capacity)}
}

func (t *trail) push(p core.Vec2) {
	if t.n < len(t.buf) {
		t.buf[(t.start+t.n)%len(t.buf)] = p
		t.n++
		return
	}
	t.buf[t.start] = p
	t.start = (t.start + 1) % len(t.buf)
}

func (t *trail) reset() {
	t.start = 0
	t.n = 0
}

func (t *trail) len() int { return t.n }

// points returns the trail oldest first.
func (t *trail) points() []core.Vec2 {
	out := make([]core.Vec2, t.n)
	for i := range t.n {
		out[i] = t.buf[(t.start+i)%len(t.buf)]
	}
	return out
}
