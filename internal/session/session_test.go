package session

import (
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/persist"
)

type fakeRecorder struct {
	player string
	scores []int
}

func (f *fakeRecorder) SaveScore(player string, score, length int) (int64, error) {
	f.player = player
	f.scores = append(f.scores, score)
	return int64(len(f.scores)), nil
}

func newTestSession(t *testing.T, kv persist.KV, opts ...Option) *Session {
	t.Helper()
	m, err := snake.NewMachine(snake.DefaultRules(), 42)
	if err != nil {
		t.Fatalf("NewMachine() failed: %v", err)
	}
	return New(m, persist.NewAdapter(kv), opts...)
}

// crash steers up until the game ends and returns the final outcome.
func crash(t *testing.T, s *Session) Outcome {
	t.Helper()
	s.Apply(core.ActionUp)
	for i := 0; i < 50; i++ {
		out := s.Tick()
		if s.State().Phase == snake.PhaseOver {
			return out
		}
	}
	t.Fatal("Game did not end")
	return Outcome{}
}

func statusText(out Outcome) string {
	if out.Status == nil {
		return ""
	}
	return out.Status.Text
}

func TestStartAndToggle(t *testing.T) {
	s := newTestSession(t, persist.NewMemoryKV())

	if s.State().Phase != snake.PhaseIdle {
		t.Fatalf("Expected idle before start, got %s", s.State().Phase)
	}

	steps := []struct {
		action core.Action
		phase  snake.Phase
		status string
		ticker Ticker
	}{
		{core.ActionToggle, snake.PhaseRunning, MsgStarted, TickerStart},
		{core.ActionToggle, snake.PhasePaused, MsgPaused, TickerStop},
		{core.ActionToggle, snake.PhaseRunning, MsgResumed, TickerStart},
		{core.ActionPause, snake.PhasePaused, MsgPaused, TickerStop},
		{core.ActionPause, snake.PhasePaused, "", TickerKeep},
		{core.ActionResume, snake.PhaseRunning, MsgResumed, TickerStart},
		{core.ActionResume, snake.PhaseRunning, "", TickerKeep},
	}

	for i, st := range steps {
		out := s.Apply(st.action)
		if got := s.State().Phase; got != st.phase {
			t.Errorf("step %d (%s): phase = %s, expected %s", i, st.action, got, st.phase)
		}
		if got := statusText(out); got != st.status {
			t.Errorf("step %d (%s): status = %q, expected %q", i, st.action, got, st.status)
		}
		if out.Ticker != st.ticker {
			t.Errorf("step %d (%s): ticker = %v, expected %v", i, st.action, out.Ticker, st.ticker)
		}
	}
}

func TestDirectionActionsSteer(t *testing.T) {
	s := newTestSession(t, persist.NewMemoryKV())
	s.Start()

	head := s.State().Head()
	s.Apply(core.ActionLeft)
	out := s.Tick()

	if got := s.State().Head(); got != (core.Cell{X: head.X - 1, Y: head.Y}) {
		t.Errorf("Head = %v, expected one cell left of %v", got, head)
	}
	if len(out.Events) == 0 {
		t.Error("Tick should report events")
	}
}

func TestGameOverRecordsScores(t *testing.T) {
	kv := persist.NewMemoryKV()
	rec := &fakeRecorder{}
	s := newTestSession(t, kv, WithRecorder(rec, "alice"), WithStatusDurations(time.Second, 5*time.Second))
	s.Start()

	out := crash(t, s)
	if out.Ticker != TickerStop {
		t.Errorf("Ticker = %v, expected stop after game over", out.Ticker)
	}
	if len(rec.scores) != 1 || rec.player != "alice" {
		t.Errorf("Recorder got %v for %q, expected one score for alice", rec.scores, rec.player)
	}

	// A zero score never beats the empty best.
	wantMsg := MsgGameOver
	if s.State().Score > 0 {
		wantMsg = MsgNewBest
	}
	if statusText(out) != wantMsg {
		t.Errorf("Status = %q, expected %q", statusText(out), wantMsg)
	}
	if out.Status.Duration != 5*time.Second {
		t.Errorf("Game over status should use the long duration, got %v", out.Status.Duration)
	}
}

func TestNewHighScoreMessage(t *testing.T) {
	kv := persist.NewMemoryKV()
	s := newTestSession(t, kv)
	s.Start()

	// Load a game with points that is about to hit the top wall.
	kv.Set(persist.DefaultSaveKey, `{"snake":[{"x":4,"y":0}],"dx":0,"dy":-1,"food":{"x":9,"y":9},"score":70}`)
	if out := s.Apply(core.ActionLoad); !strings.HasPrefix(statusText(out), "Game loaded from") {
		t.Fatalf("Load status = %q", statusText(out))
	}

	out := s.Tick()
	if statusText(out) != MsgNewBest {
		t.Errorf("Status = %q, expected %q", statusText(out), MsgNewBest)
	}
	if s.Best() != 70 {
		t.Errorf("Best() = %d, expected 70", s.Best())
	}
	if raw, _, _ := kv.Get(persist.DefaultHighScoreKey); raw != "70" {
		t.Errorf("Stored best = %q, expected 70", raw)
	}

	// A second session reads the stored best.
	other := newTestSession(t, kv)
	if other.Best() != 70 {
		t.Errorf("New session Best() = %d, expected 70", other.Best())
	}
}

func TestToggleAfterGameOverStartsNewGame(t *testing.T) {
	s := newTestSession(t, persist.NewMemoryKV())
	s.Start()
	crash(t, s)

	out := s.Apply(core.ActionToggle)
	if s.State().Phase != snake.PhaseRunning || s.State().Score != 0 {
		t.Errorf("Expected a fresh running game, got %+v", s.State())
	}
	if out.Ticker != TickerStart {
		t.Errorf("Ticker = %v, expected start", out.Ticker)
	}
}

func TestSaveAndLoadMessages(t *testing.T) {
	s := newTestSession(t, persist.NewMemoryKV())

	if got := statusText(s.Apply(core.ActionSave)); got != MsgNoGame {
		t.Errorf("Save while idle = %q, expected %q", got, MsgNoGame)
	}
	if got := statusText(s.Apply(core.ActionLoad)); got != MsgNoSave {
		t.Errorf("Load without save = %q, expected %q", got, MsgNoSave)
	}

	s.Start()
	s.Apply(core.ActionRight)
	s.Tick()
	saved := s.State()

	if got := statusText(s.Apply(core.ActionSave)); got != MsgSaved {
		t.Errorf("Save = %q, expected %q", got, MsgSaved)
	}

	s.Apply(core.ActionNewGame)
	out := s.Apply(core.ActionLoad)
	if !strings.HasPrefix(statusText(out), "Game loaded from") {
		t.Errorf("Load status = %q", statusText(out))
	}
	if out.Ticker != TickerStart {
		t.Errorf("Ticker = %v, expected start after loading a running game", out.Ticker)
	}
	if s.State().Head() != saved.Head() || s.State().Score != saved.Score {
		t.Errorf("Loaded state %+v, expected %+v", s.State(), saved)
	}
}

func TestLoadPausedGameStaysPaused(t *testing.T) {
	s := newTestSession(t, persist.NewMemoryKV())
	s.Start()
	s.Apply(core.ActionPause)
	s.Apply(core.ActionSave)

	s.Apply(core.ActionNewGame)
	out := s.Apply(core.ActionLoad)
	if s.State().Phase != snake.PhasePaused {
		t.Errorf("Phase = %s, expected paused", s.State().Phase)
	}
	if out.Ticker != TickerStop {
		t.Errorf("Ticker = %v, expected stop", out.Ticker)
	}
}

func TestLoadCorruptSave(t *testing.T) {
	kv := persist.NewMemoryKV()
	kv.Set(persist.DefaultSaveKey, "not json")
	s := newTestSession(t, kv)
	s.Start()
	before := s.State()

	out := s.Apply(core.ActionLoad)
	if statusText(out) != MsgLoadFailed {
		t.Errorf("Status = %q, expected %q", statusText(out), MsgLoadFailed)
	}
	if s.State().Head() != before.Head() || s.State().Phase != snake.PhaseRunning {
		t.Error("Failed load must leave the game as it was")
	}
}

func TestQuit(t *testing.T) {
	s := newTestSession(t, persist.NewMemoryKV())
	out := s.Apply(core.ActionQuit)
	if !out.Quit {
		t.Error("Quit action should set Quit")
	}
}

func TestLoadedMessage(t *testing.T) {
	if got := LoadedMessage(time.Time{}); !strings.Contains(got, "unknown") {
		t.Errorf("LoadedMessage(zero) = %q", got)
	}
	ts := time.Date(2024, 5, 1, 10, 30, 0, 0, time.Local)
	if got := LoadedMessage(ts); got != "Game loaded from May 1, 2024 10:30:00" {
		t.Errorf("LoadedMessage() = %q", got)
	}
}
