package snake

// Event is a notification published by the Machine to its subscribers.
type Event interface {
	event()
}

// TickEvent follows every tick that moved the body.
type TickEvent struct {
	State State
}

// ScoreEvent reports a changed score.
type ScoreEvent struct {
	Score int
}

// GameOverEvent is published once when the game ends. Won is set when the
// body filled the board.
type GameOverEvent struct {
	Score int
	Won   bool
	State State
}

// PhaseEvent reports Start, Pause and Resume transitions.
type PhaseEvent struct {
	From  Phase
	To    Phase
	State State
}

// ResetEvent follows Reset with the fresh starting state.
type ResetEvent struct {
	State State
}

// RestoreEvent follows a successful Restore.
type RestoreEvent struct {
	State State
}

func (TickEvent) event()     {}
func (ScoreEvent) event()    {}
func (GameOverEvent) event() {}
func (PhaseEvent) event()    {}
func (ResetEvent) event()    {}
func (RestoreEvent) event()  {}
