package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/oil-strike/internal/core"
)

// DefaultHoldWindow is how long a steering key counts as held after its
// last key event. Terminals report no key-up, so auto-repeat keeps the key
// alive; the window outlasts the usual initial repeat delay.
const DefaultHoldWindow = 600 * time.Millisecond

// KeyMapper translates Bubble Tea key messages to game actions.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to an action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	case "a", "left":
		return core.ActionLeft, false
	case "d", "right":
		return core.ActionRight, false
	case "w", "up":
		return core.ActionUp, false
	case "s", "down":
		return core.ActionDown, false
	case "enter":
		return core.ActionConfirm, false
	case "b":
		return core.ActionBack, false
	case "p", "esc":
		return core.ActionPause, false
	case "r":
		return core.ActionRestart, false
	}
	return core.ActionNone, false
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
	MenuActionScoreboard
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}
	return MenuActionNone
}

// holdTracker turns key-down events into press/release edges. Each axis
// holds at most one action.
type holdTracker struct {
	window time.Duration
	held   map[core.Axis]heldKey
}

type heldKey struct {
	action core.Action
	until  time.Time
}

func newHoldTracker(window time.Duration) *holdTracker {
	return &holdTracker{window: window, held: make(map[core.Axis]heldKey, 2)}
}

// press records a key event and reports whether it is a steering key.
// Every steering event is forwarded, repeats included, so a key held across
// a phase change starts steering on the new axis.
func (h *holdTracker) press(a core.Action, now time.Time) bool {
	axis, _ := a.Direction()
	if axis == core.AxisNone {
		return false
	}
	h.held[axis] = heldKey{action: a, until: now.Add(h.window)}
	return true
}

// expire calls release for every key whose window has passed.
func (h *holdTracker) expire(now time.Time, release func(core.Action)) {
	for axis, k := range h.held {
		if now.After(k.until) {
			delete(h.held, axis)
			release(k.action)
		}
	}
}

// releaseAll releases every held key at once.
func (h *holdTracker) releaseAll(release func(core.Action)) {
	for axis, k := range h.held {
		delete(h.held, axis)
		release(k.action)
	}
}

// reset forgets every held key.
func (h *holdTracker) reset() {
	clear(h.held)
}
