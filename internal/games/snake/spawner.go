package snake

import (
	"math/rand"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// Spawner picks free cells for new targets.
type Spawner struct {
	grid core.Grid
	rng  *rand.Rand
}

// NewSpawner creates a spawner drawing from rng over grid.
func NewSpawner(grid core.Grid, rng *rand.Rand) *Spawner {
	return &Spawner{grid: grid, rng: rng}
}

// Spawn returns a uniformly chosen cell not occupied by avoid.
// It samples random cells first; once the sample budget is spent it picks
// among the enumerated free cells, so a crowded board never stalls a tick.
// Returns ErrSpawnExhausted when avoid covers the whole grid.
func (s *Spawner) Spawn(avoid *Body) (core.Cell, error) {
	if avoid.Len() >= s.grid.Cells() {
		return core.Cell{}, ErrSpawnExhausted
	}

	for i := 0; i < s.grid.Cells(); i++ {
		c := s.grid.RandomCell(s.rng)
		if !avoid.Occupies(c) {
			return c, nil
		}
	}

	var free []core.Cell
	s.grid.Each(func(c core.Cell) {
		if !avoid.Occupies(c) {
			free = append(free, c)
		}
	})
	if len(free) == 0 {
		return core.Cell{}, ErrSpawnExhausted
	}
	return free[s.rng.Intn(len(free))], nil
}
