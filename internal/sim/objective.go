package sim

import "math"

// Objective tracks droplet collection during geosteering.
// Target <= 0 disables the win condition; TimeLimit <= 0 disables the countdown.
type Objective struct {
	Target    int
	Spawned   int
	Collected int
	Missed    int
	TimeLimit float64 // Seconds
	Remaining float64 // Seconds
}

// Met reports whether enough droplets were collected to win.
func (o Objective) Met() bool {
	return o.Target > 0 && o.Collected >= o.Target
}

// Expired reports whether the countdown ran out.
func (o Objective) Expired() bool {
	return o.TimeLimit > 0 && o.Remaining <= 0
}

// SecondsLeft returns the countdown rounded up to whole seconds.
func (o Objective) SecondsLeft() int {
	if o.TimeLimit <= 0 || o.Remaining <= 0 {
		return 0
	}
	return int(math.Ceil(o.Remaining - 1e-9))
}
