package snake

import "github.com/vovakirdan/tui-snake/internal/core"

// Body is the ordered sequence of occupied cells, head first.
// It knows nothing about collision rules; the Machine enforces them.
type Body struct {
	cells []core.Cell
}

// NewBody creates a body from cells given head first. The slice is copied.
func NewBody(cells ...core.Cell) *Body {
	b := &Body{cells: make([]core.Cell, len(cells))}
	copy(b.cells, cells)
	return b
}

// Head returns the first cell.
func (b *Body) Head() core.Cell {
	return b.cells[0]
}

// Tail returns the last cell.
func (b *Body) Tail() core.Cell {
	return b.cells[len(b.cells)-1]
}

// Len returns the number of segments.
func (b *Body) Len() int {
	return len(b.cells)
}

// Cells returns a copy of the segments, head first.
func (b *Body) Cells() []core.Cell {
	out := make([]core.Cell, len(b.cells))
	copy(out, b.cells)
	return out
}

// Occupies reports whether any segment is on c.
func (b *Body) Occupies(c core.Cell) bool {
	for _, seg := range b.cells {
		if seg == c {
			return true
		}
	}
	return false
}

// OccupiesExceptTail reports whether any segment but the last is on c.
// The tail cell is vacated by a move that does not grow.
func (b *Body) OccupiesExceptTail(c core.Cell) bool {
	for _, seg := range b.cells[:len(b.cells)-1] {
		if seg == c {
			return true
		}
	}
	return false
}

// Advance prepends newHead and drops the tail unless grew is set.
func (b *Body) Advance(newHead core.Cell, grew bool) {
	b.cells = append(b.cells, core.Cell{})
	copy(b.cells[1:], b.cells)
	b.cells[0] = newHead
	if !grew {
		b.cells = b.cells[:len(b.cells)-1]
	}
}
