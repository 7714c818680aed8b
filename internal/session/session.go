// Package session drives one player's game: it maps input actions onto the
// snake machine, persists saves and scores, and tells the presentation layer
// what to show and whether the tick source should run.
package session

import (
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/persist"
)

// Status messages shown to the player.
const (
	MsgStarted     = "Game Started! Use arrow keys or WASD to move"
	MsgPaused      = "Game Paused"
	MsgResumed     = "Game Resumed"
	MsgSaved       = "Game saved successfully!"
	MsgNoGame      = "No active game to save!"
	MsgSaveFailed  = "Error saving game!"
	MsgNoSave      = "No saved game found!"
	MsgLoadFailed  = "Error loading saved game!"
	MsgGameOver    = "Game Over!"
	MsgYouWin      = "You Win!"
	MsgNewBest     = "New High Score!"
	loadedTemplate = "Game loaded from "
)

// Ticker tells the adapter what to do with its tick source.
type Ticker int

const (
	TickerKeep Ticker = iota
	TickerStart
	TickerStop
)

// Status is a transient message with its display duration.
type Status struct {
	Text     string
	Duration time.Duration
}

// Outcome reports the effects of one Apply or Tick call.
type Outcome struct {
	Events []snake.Event
	Status *Status
	Ticker Ticker
	Quit   bool
}

// ScoreRecorder keeps the history of finished games. *storage.Store
// satisfies it.
type ScoreRecorder interface {
	SaveScore(player string, score, length int) (int64, error)
}

// Session is not safe for concurrent use; like the machine it wraps, it
// belongs to one goroutine.
type Session struct {
	machine  *snake.Machine
	store    *persist.Adapter
	recorder ScoreRecorder
	player   string
	logger   *log.Logger

	short time.Duration
	long  time.Duration

	best   int
	events []snake.Event
}

// Option configures a Session.
type Option func(*Session)

// WithRecorder records every finished game for player.
func WithRecorder(r ScoreRecorder, player string) Option {
	return func(s *Session) {
		s.recorder = r
		s.player = player
	}
}

// WithLogger sets the logger. Sessions log nothing by default.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// WithStatusDurations sets how long short and long status messages last.
func WithStatusDurations(short, long time.Duration) Option {
	return func(s *Session) {
		s.short = short
		s.long = long
	}
}

// New wraps machine. The persisted best score is read once here.
func New(machine *snake.Machine, store *persist.Adapter, opts ...Option) *Session {
	s := &Session{
		machine: machine,
		store:   store,
		logger:  log.New(io.Discard),
		short:   2 * time.Second,
		long:    3 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}

	machine.Subscribe(func(e snake.Event) {
		s.events = append(s.events, e)
	})

	best, err := store.BestScore()
	if err != nil {
		s.logger.Warn("cannot read best score", "err", err)
	}
	s.best = best
	return s
}

// State returns a snapshot for rendering.
func (s *Session) State() snake.State {
	return s.machine.Snapshot()
}

// Best returns the best score, including the current game's.
func (s *Session) Best() int {
	return max(s.best, s.machine.Score())
}

// Start begins play if the machine is Idle.
func (s *Session) Start() Outcome {
	s.events = nil
	if s.machine.Phase() != snake.PhaseIdle {
		return s.outcome(nil, TickerKeep)
	}
	s.machine.Start()
	s.logger.Info("game started")
	return s.outcome(s.status(MsgStarted, false), TickerStart)
}

// Apply performs one input action.
func (s *Session) Apply(a core.Action) Outcome {
	s.events = nil

	switch a {
	case core.ActionUp:
		s.machine.SetDirection(snake.DirUp)
	case core.ActionDown:
		s.machine.SetDirection(snake.DirDown)
	case core.ActionLeft:
		s.machine.SetDirection(snake.DirLeft)
	case core.ActionRight:
		s.machine.SetDirection(snake.DirRight)
	case core.ActionToggle:
		return s.toggle()
	case core.ActionPause:
		return s.pause()
	case core.ActionResume:
		return s.resume()
	case core.ActionNewGame:
		return s.newGame()
	case core.ActionSave:
		return s.save()
	case core.ActionLoad:
		return s.load()
	case core.ActionQuit:
		out := s.outcome(nil, TickerStop)
		out.Quit = true
		return out
	}
	return s.outcome(nil, TickerKeep)
}

// Tick advances the game by one step.
func (s *Session) Tick() Outcome {
	s.events = nil
	s.machine.Tick()

	for _, e := range s.events {
		if over, ok := e.(snake.GameOverEvent); ok {
			return s.outcome(s.finish(over), TickerStop)
		}
	}
	return s.outcome(nil, TickerKeep)
}

func (s *Session) toggle() Outcome {
	switch s.machine.Phase() {
	case snake.PhaseIdle:
		return s.Start()
	case snake.PhaseRunning:
		return s.pause()
	case snake.PhasePaused:
		return s.resume()
	default:
		return s.newGame()
	}
}

func (s *Session) pause() Outcome {
	if s.machine.Phase() != snake.PhaseRunning {
		return s.outcome(nil, TickerKeep)
	}
	s.machine.Pause()
	return s.outcome(s.status(MsgPaused, false), TickerStop)
}

func (s *Session) resume() Outcome {
	if s.machine.Phase() != snake.PhasePaused {
		return s.outcome(nil, TickerKeep)
	}
	s.machine.Resume()
	return s.outcome(s.status(MsgResumed, false), TickerStart)
}

func (s *Session) newGame() Outcome {
	s.machine.Reset()
	s.logger.Info("new game")
	return s.outcome(s.status(MsgStarted, false), TickerStart)
}

func (s *Session) save() Outcome {
	ts, err := s.store.Save(s.machine)
	switch {
	case errors.Is(err, persist.ErrNoActiveGame):
		return s.outcome(s.status(MsgNoGame, false), TickerKeep)
	case err != nil:
		s.logger.Error("save failed", "err", err)
		return s.outcome(s.status(MsgSaveFailed, false), TickerKeep)
	}
	s.logger.Info("game saved", "score", s.machine.Score(), "at", ts)
	return s.outcome(s.status(MsgSaved, false), TickerKeep)
}

func (s *Session) load() Outcome {
	ts, err := s.store.Load(s.machine)
	switch {
	case errors.Is(err, persist.ErrNoSavedState):
		return s.outcome(s.status(MsgNoSave, false), TickerKeep)
	case err != nil:
		s.logger.Warn("load failed", "err", err)
		return s.outcome(s.status(MsgLoadFailed, false), TickerKeep)
	}

	s.logger.Info("game loaded", "score", s.machine.Score(), "saved", ts)
	ticker := TickerStop
	if s.machine.Phase() == snake.PhaseRunning {
		ticker = TickerStart
	}
	return s.outcome(s.status(LoadedMessage(ts), true), ticker)
}

// finish persists the result of a finished game and picks its message.
func (s *Session) finish(over snake.GameOverEvent) *Status {
	s.logger.Info("game over", "score", over.Score, "won", over.Won, "length", len(over.State.Body))

	if s.recorder != nil {
		if _, err := s.recorder.SaveScore(s.player, over.Score, len(over.State.Body)); err != nil {
			s.logger.Error("cannot record score", "err", err)
		}
	}

	isNew, err := s.store.RecordScore(over.Score)
	if err != nil {
		s.logger.Error("cannot record best score", "err", err)
	}
	if over.Score > s.best {
		s.best = over.Score
	}

	switch {
	case isNew:
		return s.status(MsgNewBest, true)
	case over.Won:
		return s.status(MsgYouWin, true)
	default:
		return s.status(MsgGameOver, true)
	}
}

func (s *Session) status(text string, long bool) *Status {
	d := s.short
	if long {
		d = s.long
	}
	return &Status{Text: text, Duration: d}
}

func (s *Session) outcome(st *Status, t Ticker) Outcome {
	events := s.events
	s.events = nil
	return Outcome{Events: events, Status: st, Ticker: t}
}

// LoadedMessage formats the status shown after a successful load.
func LoadedMessage(ts time.Time) string {
	if ts.IsZero() {
		return loadedTemplate + "an unknown date"
	}
	return loadedTemplate + ts.Local().Format("Jan 2, 2006 15:04:05")
}
