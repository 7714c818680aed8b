package snake

import "github.com/vovakirdan/tui-snake/internal/core"

// Phase is the game's lifecycle state.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseRunning Phase = "running"
	PhasePaused  Phase = "paused"
	PhaseOver    Phase = "over"
)

// Valid reports whether p is one of the known phases.
func (p Phase) Valid() bool {
	switch p {
	case PhaseIdle, PhaseRunning, PhasePaused, PhaseOver:
		return true
	}
	return false
}

// State is a point-in-time copy of the whole game state.
// Renderers receive it; mutating it does not affect the Machine.
type State struct {
	Body      []core.Cell
	Direction Direction // committed movement direction
	Pending   Direction // applied on the next tick
	Target    core.Cell
	Score     int
	Phase     Phase
	Won       bool // set with PhaseOver when the board filled up
	GridSize  int
}

// Head returns the head cell of the body.
func (s State) Head() core.Cell {
	return s.Body[0]
}
