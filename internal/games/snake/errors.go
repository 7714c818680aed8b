package snake

import "errors"

var (
	// ErrInvalidSaveData is returned by Restore for malformed or
	// out-of-bounds state. The machine is left untouched.
	ErrInvalidSaveData = errors.New("snake: invalid save data")

	// ErrSpawnExhausted means no free cell is left for a target.
	ErrSpawnExhausted = errors.New("snake: no free cell for target")

	// ErrInvalidRules is returned by NewMachine for unusable rules.
	ErrInvalidRules = errors.New("snake: invalid rules")
)
