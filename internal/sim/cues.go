package sim

// Cue is a one-shot sound event.
type Cue int

const (
	CueRockHit Cue = iota
	CueMagmaBurn
	CuePowerup
	CueCoin
	CueTransition
	CueCountdownTick
	CueWin
	CueLose
)

// AllCues lists every cue, in declaration order.
var AllCues = []Cue{CueRockHit, CueMagmaBurn, CuePowerup, CueCoin, CueTransition, CueCountdownTick, CueWin, CueLose}

func (c Cue) String() string {
	switch c {
	case CueRockHit:
		return "rock_hit"
	case CueMagmaBurn:
		return "magma_burn"
	case CuePowerup:
		return "powerup"
	case CueCoin:
		return "coin"
	case CueTransition:
		return "transition"
	case CueCountdownTick:
		return "countdown_tick"
	case CueWin:
		return "win"
	case CueLose:
		return "lose"
	default:
		return "unknown"
	}
}

// Loop is a sound that plays until stopped.
type Loop int

const (
	LoopNone    Loop = iota
	LoopDescent      // Background music while descending
	LoopDrill        // Drill motor while geosteering
)

// AllLoops lists every playable loop.
var AllLoops = []Loop{LoopDescent, LoopDrill}

func (l Loop) String() string {
	switch l {
	case LoopDescent:
		return "descent"
	case LoopDrill:
		return "drill"
	default:
		return "none"
	}
}

// Cues receives sound events from the simulation.
type Cues interface {
	Play(c Cue)
	StartLoop(l Loop)
	StopLoop(l Loop)
}

// NopCues discards every event.
type NopCues struct{}

func (NopCues) Play(Cue)       {}
func (NopCues) StartLoop(Loop) {}
func (NopCues) StopLoop(Loop)  {}

// loopFor returns the loop that accompanies a phase.
func loopFor(p Phase) Loop {
	switch p {
	case PhaseVertical:
		return LoopDescent
	case PhaseHorizontal:
		return LoopDrill
	default:
		return LoopNone
	}
}
