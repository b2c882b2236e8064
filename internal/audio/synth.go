package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// SampleRate is the output rate for every generated sound.
const SampleRate = beep.SampleRate(44100)

// Wave selects an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// tone is a finite oscillator with a linear attack/release envelope.
// freqEnd != freq sweeps the pitch linearly over the tone.
type tone struct {
	wave     Wave
	freq     float64
	freqEnd  float64
	total    int
	attack   int
	release  int
	position int
	phase    float64
	noise    *rand.Rand
}

// newTone creates a tone streamer. Noise is seeded so renders are repeatable.
func newTone(wave Wave, freq, freqEnd float64, d, attack, release time.Duration) *tone {
	return &tone{
		wave:    wave,
		freq:    freq,
		freqEnd: freqEnd,
		total:   SampleRate.N(d),
		attack:  SampleRate.N(attack),
		release: SampleRate.N(release),
		noise:   rand.New(rand.NewSource(int64(freq*1000) + int64(d))),
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.position >= t.total {
			return i, i > 0
		}

		val := sample(t.wave, t.phase, t.noise) * t.envelope()
		samples[i][0] = val
		samples[i][1] = val

		progress := float64(t.position) / float64(t.total)
		freq := t.freq + (t.freqEnd-t.freq)*progress
		t.phase += freq / float64(SampleRate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

func (t *tone) envelope() float64 {
	if t.attack > 0 && t.position < t.attack {
		return float64(t.position) / float64(t.attack)
	}
	if remaining := t.total - t.position; t.release > 0 && remaining < t.release {
		return float64(remaining) / float64(t.release)
	}
	return 1
}

func sample(w Wave, phase float64, noise *rand.Rand) float64 {
	switch w {
	case WaveSquare:
		if phase < 0.5 {
			return 1
		}
		return -1
	case WaveSaw:
		return 2 * (phase - 0.5)
	case WaveNoise:
		return noise.Float64()*2 - 1
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

// note is a short enveloped tone at one pitch.
func note(w Wave, freq float64, d time.Duration) beep.Streamer {
	return newTone(w, freq, freq, d, 5*time.Millisecond, d/2)
}

// sweep glides from one pitch to another.
func sweep(w Wave, from, to float64, d time.Duration) beep.Streamer {
	return newTone(w, from, to, d, 10*time.Millisecond, d/3)
}

// newVolume scales a stream linearly. Zero or less is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// drone is an endless generator for background loops. It cycles through a
// bass pattern, optionally mixed with motor noise.
type drone struct {
	pattern  []float64 // Hz per step, 0 rests
	step     int
	stepLen  int
	position int
	phase    float64
	wave     Wave
	rumble   float64 // Noise mix in [0, 1]
	noise    *rand.Rand
}

func newDrone(wave Wave, pattern []float64, stepLen time.Duration, rumble float64) *drone {
	return &drone{
		pattern: pattern,
		stepLen: SampleRate.N(stepLen),
		wave:    wave,
		rumble:  rumble,
		noise:   rand.New(rand.NewSource(int64(len(pattern)))),
	}
}

func (d *drone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		freq := d.pattern[d.step]

		val := 0.0
		if freq > 0 {
			// Pluck each step so notes are audible as a rhythm
			decay := 1 - float64(d.position)/float64(d.stepLen)
			val = sample(d.wave, d.phase, d.noise) * decay * (1 - d.rumble)
			d.phase += freq / float64(SampleRate)
			d.phase -= math.Floor(d.phase)
		}
		if d.rumble > 0 {
			val += (d.noise.Float64()*2 - 1) * d.rumble * 0.5
		}

		samples[i][0] = val
		samples[i][1] = val

		d.position++
		if d.position >= d.stepLen {
			d.position = 0
			d.step = (d.step + 1) % len(d.pattern)
		}
	}
	return len(samples), true
}

func (d *drone) Err() error { return nil }
