package sim

// Phase is a stage of a run. Phases only move forward.
type Phase int

const (
	PhaseVertical Phase = iota
	PhaseTransition
	PhaseHorizontal
	PhaseWin
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseVertical:
		return "VERTICAL"
	case PhaseTransition:
		return "TRANSITION"
	case PhaseHorizontal:
		return "HORIZONTAL"
	case PhaseWin:
		return "WIN"
	case PhaseGameOver:
		return "GAME_OVER"
	default:
		return "UNKNOWN"
	}
}

// IsTerminal reports whether the run has ended.
func (p Phase) IsTerminal() bool {
	return p == PhaseWin || p == PhaseGameOver
}

// CanAdvance reports whether to is a legal successor of p.
func (p Phase) CanAdvance(to Phase) bool {
	switch p {
	case PhaseVertical:
		return to == PhaseTransition || to == PhaseGameOver
	case PhaseTransition:
		return to == PhaseHorizontal
	case PhaseHorizontal:
		return to == PhaseWin || to == PhaseGameOver
	default:
		return false
	}
}
