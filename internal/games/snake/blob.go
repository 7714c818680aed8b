package snake

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// StateBlob is the persisted form of a game.
// Blobs written before next_dx/next_dy and phase existed restore as a
// running game whose pending direction equals its movement direction.
type StateBlob struct {
	Snake     []core.Cell `json:"snake"`
	DX        int         `json:"dx"`
	DY        int         `json:"dy"`
	NextDX    int         `json:"next_dx"`
	NextDY    int         `json:"next_dy"`
	Food      core.Cell   `json:"food"`
	Score     int         `json:"score"`
	Phase     Phase       `json:"phase,omitempty"`
	Won       bool        `json:"won,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Serialize captures the full game state. Timestamp is left for the
// persistence layer to stamp.
func (m *Machine) Serialize() StateBlob {
	dx, dy := m.direction.Vector()
	ndx, ndy := m.pending.Vector()
	return StateBlob{
		Snake:  m.body.Cells(),
		DX:     dx,
		DY:     dy,
		NextDX: ndx,
		NextDY: ndy,
		Food:   m.target,
		Score:  m.score,
		Phase:  m.phase,
		Won:    m.won,
	}
}

// Restore replaces the game state with blob after validating it.
// On error the machine is unchanged and the error wraps ErrInvalidSaveData.
func (m *Machine) Restore(blob StateBlob) error {
	st, err := m.decode(blob)
	if err != nil {
		return err
	}

	m.body = NewBody(st.Body...)
	m.direction = st.Direction
	m.pending = st.Pending
	m.target = st.Target
	m.score = st.Score
	m.phase = st.Phase
	m.won = st.Won

	m.emit(RestoreEvent{State: m.Snapshot()})
	return nil
}

// decode validates blob against the machine's grid and converts it to a State.
func (m *Machine) decode(blob StateBlob) (State, error) {
	invalid := func(format string, args ...any) (State, error) {
		return State{}, fmt.Errorf("%w: %s", ErrInvalidSaveData, fmt.Sprintf(format, args...))
	}

	if len(blob.Snake) == 0 {
		return invalid("empty body")
	}

	seen := make(map[core.Cell]bool, len(blob.Snake))
	for i, c := range blob.Snake {
		if !m.grid.InBounds(c) {
			return invalid("body cell (%d,%d) out of bounds", c.X, c.Y)
		}
		if seen[c] {
			return invalid("duplicate body cell (%d,%d)", c.X, c.Y)
		}
		seen[c] = true
		if i > 0 && !blob.Snake[i-1].Adjacent(c) {
			return invalid("body is not contiguous at segment %d", i)
		}
	}

	dir, ok := DirectionFromVector(blob.DX, blob.DY)
	if !ok {
		return invalid("bad direction vector (%d,%d)", blob.DX, blob.DY)
	}
	pending, ok := DirectionFromVector(blob.NextDX, blob.NextDY)
	if !ok {
		return invalid("bad pending vector (%d,%d)", blob.NextDX, blob.NextDY)
	}
	if pending == DirNone {
		pending = dir
	}
	if dir != DirNone && pending == dir.Opposite() {
		return invalid("pending direction reverses movement")
	}

	if !m.grid.InBounds(blob.Food) {
		return invalid("target (%d,%d) out of bounds", blob.Food.X, blob.Food.Y)
	}
	// A won game ends with the head on the last target.
	if seen[blob.Food] && !blob.Won {
		return invalid("target (%d,%d) on body", blob.Food.X, blob.Food.Y)
	}

	if blob.Score < 0 {
		return invalid("negative score %d", blob.Score)
	}

	phase := blob.Phase
	if phase == "" {
		phase = PhaseRunning
	}
	if !phase.Valid() {
		return invalid("unknown phase %q", phase)
	}
	if blob.Won && phase != PhaseOver {
		return invalid("won flag outside game over")
	}

	return State{
		Body:      blob.Snake,
		Direction: dir,
		Pending:   pending,
		Target:    blob.Food,
		Score:     blob.Score,
		Phase:     phase,
		Won:       blob.Won,
		GridSize:  m.grid.TileCount(),
	}, nil
}
