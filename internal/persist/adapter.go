package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vovakirdan/tui-snake/internal/games/snake"
)

// Default keys, compatible with saves written by the browser version.
const (
	DefaultSaveKey      = "snakeGameSave"
	DefaultHighScoreKey = "snakeHighScore"
)

var (
	// ErrNoSavedState is returned by Load when nothing has been saved.
	ErrNoSavedState = errors.New("persist: no saved game")
	// ErrNoActiveGame is returned by Save outside Running and Paused.
	ErrNoActiveGame = errors.New("persist: no active game to save")
)

// Game is the part of *snake.Machine the adapter needs.
type Game interface {
	Phase() snake.Phase
	Serialize() snake.StateBlob
	Restore(snake.StateBlob) error
}

// Adapter maps game state to and from a KV store.
type Adapter struct {
	kv           KV
	saveKey      string
	highScoreKey string
	now          func() time.Time
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithKeys overrides the save and best-score keys. Empty values keep the
// defaults.
func WithKeys(saveKey, highScoreKey string) Option {
	return func(a *Adapter) {
		if saveKey != "" {
			a.saveKey = saveKey
		}
		if highScoreKey != "" {
			a.highScoreKey = highScoreKey
		}
	}
}

// WithClock sets the time source used to stamp saves.
func WithClock(now func() time.Time) Option {
	return func(a *Adapter) {
		a.now = now
	}
}

// NewAdapter creates an adapter over kv.
func NewAdapter(kv KV, opts ...Option) *Adapter {
	a := &Adapter{
		kv:           kv,
		saveKey:      DefaultSaveKey,
		highScoreKey: DefaultHighScoreKey,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Save writes the game's current state. Only Running and Paused games can
// be saved.
func (a *Adapter) Save(g Game) (time.Time, error) {
	switch g.Phase() {
	case snake.PhaseRunning, snake.PhasePaused:
	default:
		return time.Time{}, ErrNoActiveGame
	}

	blob := g.Serialize()
	blob.Timestamp = a.now().UTC().Truncate(time.Second)

	data, err := json.Marshal(blob)
	if err != nil {
		return time.Time{}, fmt.Errorf("persist: cannot encode save: %w", err)
	}
	if err := a.kv.Set(a.saveKey, string(data)); err != nil {
		return time.Time{}, fmt.Errorf("persist: cannot write save: %w", err)
	}
	return blob.Timestamp, nil
}

// Load restores the saved game into g and returns when it was saved.
// Undecodable records are reported as snake.ErrInvalidSaveData; g is left
// unchanged on any error.
func (a *Adapter) Load(g Game) (time.Time, error) {
	raw, ok, err := a.kv.Get(a.saveKey)
	if err != nil {
		return time.Time{}, fmt.Errorf("persist: cannot read save: %w", err)
	}
	if !ok {
		return time.Time{}, ErrNoSavedState
	}

	var blob snake.StateBlob
	if err := json.Unmarshal([]byte(raw), &blob); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", snake.ErrInvalidSaveData, err)
	}
	if err := g.Restore(blob); err != nil {
		return time.Time{}, err
	}
	return blob.Timestamp, nil
}

// HasSave reports whether a save record exists.
func (a *Adapter) HasSave() (bool, error) {
	_, ok, err := a.kv.Get(a.saveKey)
	if err != nil {
		return false, fmt.Errorf("persist: cannot read save: %w", err)
	}
	return ok, nil
}

// ClearSave removes the save record.
func (a *Adapter) ClearSave() error {
	if err := a.kv.Delete(a.saveKey); err != nil {
		return fmt.Errorf("persist: cannot clear save: %w", err)
	}
	return nil
}

// BestScore returns the persisted best score, 0 when none. A corrupt value
// counts as 0.
func (a *Adapter) BestScore() (int, error) {
	raw, ok, err := a.kv.Get(a.highScoreKey)
	if err != nil {
		return 0, fmt.Errorf("persist: cannot read best score: %w", err)
	}
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0, nil
	}
	return n, nil
}

// RecordScore stores score as the best score when it beats the current one.
// Returns true when a new best was written.
func (a *Adapter) RecordScore(score int) (bool, error) {
	best, err := a.BestScore()
	if err != nil {
		return false, err
	}
	if score <= best {
		return false, nil
	}
	if err := a.kv.Set(a.highScoreKey, strconv.Itoa(score)); err != nil {
		return false, fmt.Errorf("persist: cannot write best score: %w", err)
	}
	return true, nil
}
