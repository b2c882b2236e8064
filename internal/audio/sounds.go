package audio

import (
	"time"

	"github.com/gopxl/beep"

	"github.com/vovakirdan/oil-strike/internal/sim"
)

const ms = time.Millisecond

// Sound returns a fresh finite streamer for a cue.
func Sound(c sim.Cue) beep.Streamer {
	switch c {
	case sim.CueRockHit:
		// Dull thud, like a footstep on gravel
		return beep.Mix(
			note(WaveSaw, 90, 80*ms),
			newVolume(note(WaveNoise, 1, 60*ms), 0.4),
		)
	case sim.CueMagmaBurn:
		return newVolume(newTone(WaveNoise, 1, 1, 70*ms, 5*ms, 50*ms), 0.6)
	case sim.CuePowerup:
		return beep.Seq(
			note(WaveSquare, 659.25, 60*ms),
			note(WaveSquare, 880, 60*ms),
			note(WaveSquare, 1318.51, 90*ms),
		)
	case sim.CueCoin:
		return beep.Seq(
			note(WaveSquare, 987.77, 70*ms),
			note(WaveSquare, 1318.51, 160*ms),
		)
	case sim.CueTransition:
		return sweep(WaveSaw, 110, 440, 600*ms)
	case sim.CueCountdownTick:
		return note(WaveSine, 1000, 50*ms)
	case sim.CueWin:
		return beep.Seq(
			note(WaveSquare, 523.25, 120*ms),
			note(WaveSquare, 659.25, 120*ms),
			note(WaveSquare, 783.99, 120*ms),
			note(WaveSquare, 1046.5, 300*ms),
		)
	case sim.CueLose:
		return beep.Seq(
			note(WaveSaw, 392, 180*ms),
			note(WaveSaw, 311.13, 180*ms),
			sweep(WaveSaw, 261.63, 130, 500*ms),
		)
	default:
		return beep.Silence(0)
	}
}

// LoopSound returns a fresh endless streamer for a loop.
func LoopSound(l sim.Loop) beep.Streamer {
	switch l {
	case sim.LoopDescent:
		// A minor bass line, eighth notes at 120 bpm
		return newDrone(WaveSaw, []float64{110, 0, 110, 130.81, 0, 98, 110, 0}, 250*ms, 0)
	case sim.LoopDrill:
		return newDrone(WaveSquare, []float64{55, 58.27}, 40*ms, 0.35)
	default:
		return beep.Silence(-1)
	}
}

// gapFor is the minimum time between two plays of a cue. Contact cues fire
// every tick while overlapping and would otherwise stack.
func gapFor(c sim.Cue) time.Duration {
	switch c {
	case sim.CueRockHit:
		return 120 * ms
	case sim.CueMagmaBurn:
		return 90 * ms
	default:
		return 0
	}
}
