// Package snake implements the snake game state machine: a body that moves
// one cell per tick on a fixed grid, grows by eating targets and dies on
// walls or on itself. The package is pure; adapters drive it through
// SetDirection, Tick and the phase operations and observe it via events.
package snake

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// Rules are the fixed parameters of a game.
type Rules struct {
	GridSize   int // tiles per side
	FoodPoints int // score added per target eaten
}

// DefaultRules returns the classic 20x20 board with 10 points per target.
func DefaultRules() Rules {
	return Rules{
		GridSize:   20,
		FoodPoints: 10,
	}
}

// Machine owns a single game's state. It is not safe for concurrent use;
// adapters must funnel all calls through one goroutine.
type Machine struct {
	rules   Rules
	grid    core.Grid
	rng     *rand.Rand
	spawner *Spawner

	body      *Body
	direction Direction
	pending   Direction
	target    core.Cell
	score     int
	phase     Phase
	won       bool

	listeners []func(Event)
}

// NewMachine creates a machine in the Idle phase holding a fresh starting
// configuration. Call Start to begin play.
func NewMachine(rules Rules, seed int64) (*Machine, error) {
	if rules.GridSize < 2 {
		return nil, fmt.Errorf("%w: grid size %d", ErrInvalidRules, rules.GridSize)
	}
	if rules.FoodPoints <= 0 {
		return nil, fmt.Errorf("%w: food points %d", ErrInvalidRules, rules.FoodPoints)
	}

	grid := core.NewGrid(rules.GridSize)
	rng := rand.New(rand.NewSource(seed))
	m := &Machine{
		rules:   rules,
		grid:    grid,
		rng:     rng,
		spawner: NewSpawner(grid, rng),
	}
	m.newGame()
	m.phase = PhaseIdle
	return m, nil
}

// Subscribe registers fn to receive every event in publication order.
func (m *Machine) Subscribe(fn func(Event)) {
	m.listeners = append(m.listeners, fn)
}

func (m *Machine) emit(e Event) {
	for _, fn := range m.listeners {
		fn(e)
	}
}

// newGame installs the starting configuration and enters Running.
func (m *Machine) newGame() {
	m.body = NewBody(m.grid.Origin())
	m.direction = DirNone
	m.pending = DirNone
	m.score = 0
	m.won = false
	m.phase = PhaseRunning

	// A grid of at least 2x2 always has a free cell next to a 1-cell body.
	m.target, _ = m.spawner.Spawn(m.body)
}

// Rules returns the rules the machine was created with.
func (m *Machine) Rules() Rules {
	return m.rules
}

// Grid returns the board.
func (m *Machine) Grid() core.Grid {
	return m.grid
}

// Phase returns the current lifecycle phase.
func (m *Machine) Phase() Phase {
	return m.phase
}

// Score returns the current score.
func (m *Machine) Score() int {
	return m.score
}

// Snapshot returns a deep copy of the current state.
func (m *Machine) Snapshot() State {
	return State{
		Body:      m.body.Cells(),
		Direction: m.direction,
		Pending:   m.pending,
		Target:    m.target,
		Score:     m.score,
		Phase:     m.phase,
		Won:       m.won,
		GridSize:  m.grid.TileCount(),
	}
}

// SetDirection buffers a direction change for the next tick.
// Ignored unless Running, for DirNone, and for the exact reverse of the
// committed movement direction.
func (m *Machine) SetDirection(d Direction) {
	if m.phase != PhaseRunning || d == DirNone {
		return
	}
	if m.direction != DirNone && d == m.direction.Opposite() {
		return
	}
	m.pending = d
}

// Tick advances the game by one step.
func (m *Machine) Tick() {
	if m.phase != PhaseRunning {
		return
	}
	// Nothing moves until a direction has been chosen.
	if m.pending == DirNone {
		return
	}

	m.direction = m.pending
	dx, dy := m.direction.Vector()
	next := m.body.Head().Add(dx, dy)

	if !m.grid.InBounds(next) {
		m.finish(false)
		return
	}
	if m.body.OccupiesExceptTail(next) {
		m.finish(false)
		return
	}

	grew := next == m.target
	m.body.Advance(next, grew)

	if grew {
		m.score += m.rules.FoodPoints
		m.emit(ScoreEvent{Score: m.score})

		target, err := m.spawner.Spawn(m.body)
		if err != nil {
			m.emit(TickEvent{State: m.Snapshot()})
			m.finish(true)
			return
		}
		m.target = target
	}

	m.emit(TickEvent{State: m.Snapshot()})
}

func (m *Machine) finish(won bool) {
	m.phase = PhaseOver
	m.won = won
	m.emit(GameOverEvent{Score: m.score, Won: won, State: m.Snapshot()})
}

// Start moves an Idle machine to Running. No-op in any other phase.
func (m *Machine) Start() {
	if m.phase != PhaseIdle {
		return
	}
	m.setPhase(PhaseRunning)
}

// Pause suspends a Running game. No-op in any other phase.
func (m *Machine) Pause() {
	if m.phase != PhaseRunning {
		return
	}
	m.setPhase(PhasePaused)
}

// Resume continues a Paused game. No-op in any other phase.
func (m *Machine) Resume() {
	if m.phase != PhasePaused {
		return
	}
	m.setPhase(PhaseRunning)
}

func (m *Machine) setPhase(to Phase) {
	from := m.phase
	m.phase = to
	m.emit(PhaseEvent{From: from, To: to, State: m.Snapshot()})
}

// Reset discards the current game and starts a fresh one in Running.
func (m *Machine) Reset() {
	m.newGame()
	m.emit(ResetEvent{State: m.Snapshot()})
}
