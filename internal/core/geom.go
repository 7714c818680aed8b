// Package core provides fundamental types shared by the game and its adapters.
// It contains no external dependencies (especially no Bubble Tea) to keep game
// logic pure and testable.
package core

import "math/rand"

// Cell is a discrete grid coordinate. Cells compare by value.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the cell offset by (dx, dy).
func (c Cell) Add(dx, dy int) Cell {
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// Adjacent reports whether two cells share an edge.
func (c Cell) Adjacent(other Cell) bool {
	return Abs(c.X-other.X)+Abs(c.Y-other.Y) == 1
}

// Grid is a fixed-size square board of TileCount x TileCount cells.
// It is a value type and carries no state beyond its size.
type Grid struct {
	size int
}

// NewGrid creates a grid with the given number of tiles per side.
func NewGrid(size int) Grid {
	return Grid{size: size}
}

// TileCount returns the number of tiles per side.
func (g Grid) TileCount() int {
	return g.size
}

// Cells returns the total number of cells on the grid.
func (g Grid) Cells() int {
	return g.size * g.size
}

// InBounds reports whether c lies on the grid.
func (g Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.size && c.Y >= 0 && c.Y < g.size
}

// RandomCell returns a cell chosen uniformly over the whole grid.
func (g Grid) RandomCell(rng *rand.Rand) Cell {
	return Cell{X: rng.Intn(g.size), Y: rng.Intn(g.size)}
}

// Origin returns the starting cell of a new body, the grid center.
func (g Grid) Origin() Cell {
	return Cell{X: g.size / 2, Y: g.size / 2}
}

// Each calls fn for every cell in row-major order.
func (g Grid) Each(fn func(Cell)) {
	for y := 0; y < g.size; y++ {
		for x := 0; x < g.size; x++ {
			fn(Cell{X: x, Y: y})
		}
	}
}

// Rect represents an axis-aligned rectangle on a screen.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
