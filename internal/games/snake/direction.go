package snake

// Direction represents the body's movement direction.
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// Vector returns the unit step (dx, dy) for the direction.
// Screen coordinates grow downwards, so Up is (0, -1).
func (d Direction) Vector() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// Opposite returns the reverse direction. None is its own opposite.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	default:
		return DirNone
	}
}

// DirectionFromVector maps a unit vector back to a Direction.
// Returns false for anything other than a unit vector or (0, 0).
func DirectionFromVector(dx, dy int) (Direction, bool) {
	switch {
	case dx == 0 && dy == 0:
		return DirNone, true
	case dx == 0 && dy == -1:
		return DirUp, true
	case dx == 0 && dy == 1:
		return DirDown, true
	case dx == -1 && dy == 0:
		return DirLeft, true
	case dx == 1 && dy == 0:
		return DirRight, true
	}
	return DirNone, false
}

func (d Direction) String() string {
	switch d {
	case DirNone:
		return "none"
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}
