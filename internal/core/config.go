package core

// ReferenceHeight is the display height the gameplay constants are tuned for.
const ReferenceHeight = 1080.0

// Viewport is the logical drawing area in pixels.
type Viewport struct {
	W, H float64
}

// Valid reports whether the viewport can host a simulation frame.
func (v Viewport) Valid() bool {
	return v.W > 0 && v.H > 0
}

// Scale returns the display-height scale factor s = H / refHeight, keeping
// gameplay feel independent of resolution. refHeight <= 0 uses ReferenceHeight.
func (v Viewport) Scale(refHeight float64) float64 {
	if refHeight <= 0 {
		refHeight = ReferenceHeight
	}
	return v.H / refHeight
}
