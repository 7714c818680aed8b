package persist

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

var fixedNow = time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

func newTestAdapter(kv KV) *Adapter {
	return NewAdapter(kv, WithClock(func() time.Time { return fixedNow }))
}

func newGame(t *testing.T, seed int64) *snake.Machine {
	t.Helper()
	m, err := snake.NewMachine(snake.DefaultRules(), seed)
	if err != nil {
		t.Fatalf("NewMachine() failed: %v", err)
	}
	return m
}

func playFewTicks(m *snake.Machine) {
	m.Start()
	m.SetDirection(snake.DirUp)
	m.Tick()
	m.SetDirection(snake.DirLeft)
	m.Tick()
}

func TestSaveLoadRoundTrip(t *testing.T) {
	kv := NewMemoryKV()
	a := newTestAdapter(kv)

	src := newGame(t, 1)
	playFewTicks(src)

	ts, err := a.Save(src)
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if !ts.Equal(fixedNow) {
		t.Errorf("Save() timestamp = %v, expected %v", ts, fixedNow)
	}

	dst := newGame(t, 2)
	loaded, err := a.Load(dst)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !loaded.Equal(fixedNow) {
		t.Errorf("Load() timestamp = %v, expected %v", loaded, fixedNow)
	}
	if !reflect.DeepEqual(dst.Snapshot(), src.Snapshot()) {
		t.Errorf("Loaded state mismatch:\n got %+v\nwant %+v", dst.Snapshot(), src.Snapshot())
	}
}

func TestSaveFormat(t *testing.T) {
	kv := NewMemoryKV()
	a := newTestAdapter(kv)

	m := newGame(t, 1)
	playFewTicks(m)
	if _, err := a.Save(m); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	raw, ok, _ := kv.Get(DefaultSaveKey)
	if !ok {
		t.Fatalf("Nothing stored under %q", DefaultSaveKey)
	}
	for _, field := range []string{`"snake":[`, `"dx":-1`, `"dy":0`, `"food":{`, `"score":`, `"timestamp":"2024-05-01T10:30:00Z"`} {
		if !strings.Contains(raw, field) {
			t.Errorf("Save record missing %s: %s", field, raw)
		}
	}
}

func TestSaveRequiresActiveGame(t *testing.T) {
	a := newTestAdapter(NewMemoryKV())

	idle := newGame(t, 1)
	if _, err := a.Save(idle); !errors.Is(err, ErrNoActiveGame) {
		t.Errorf("Save(idle) error = %v, expected ErrNoActiveGame", err)
	}

	paused := newGame(t, 1)
	paused.Start()
	paused.Pause()
	if _, err := a.Save(paused); err != nil {
		t.Errorf("Save(paused) failed: %v", err)
	}

	over := newGame(t, 1)
	over.Start()
	over.SetDirection(snake.DirUp)
	for i := 0; i < 20; i++ {
		over.Tick()
	}
	if over.Phase() != snake.PhaseOver {
		t.Fatalf("Expected game over after running into the wall, got %s", over.Phase())
	}
	if _, err := a.Save(over); !errors.Is(err, ErrNoActiveGame) {
		t.Errorf("Save(over) error = %v, expected ErrNoActiveGame", err)
	}
}

func TestLoadWithoutSave(t *testing.T) {
	a := newTestAdapter(NewMemoryKV())
	m := newGame(t, 1)
	before := m.Snapshot()

	if _, err := a.Load(m); !errors.Is(err, ErrNoSavedState) {
		t.Errorf("Load() error = %v, expected ErrNoSavedState", err)
	}
	if !reflect.DeepEqual(m.Snapshot(), before) {
		t.Error("Failed load must not change the game")
	}
}

func TestLoadCorruptRecord(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "{broken"},
		{"wrong type", `{"snake":"head"}`},
		{"empty body", `{"snake":[],"dx":1,"dy":0,"food":{"x":1,"y":1},"score":0}`},
		{"off board", `{"snake":[{"x":40,"y":1}],"dx":1,"dy":0,"food":{"x":1,"y":1},"score":0}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			kv := NewMemoryKV()
			kv.Set(DefaultSaveKey, tc.raw)
			a := newTestAdapter(kv)

			m := newGame(t, 1)
			before := m.Snapshot()

			if _, err := a.Load(m); !errors.Is(err, snake.ErrInvalidSaveData) {
				t.Errorf("Load() error = %v, expected ErrInvalidSaveData", err)
			}
			if !reflect.DeepEqual(m.Snapshot(), before) {
				t.Error("Failed load must not change the game")
			}
		})
	}
}

func TestHasAndClearSave(t *testing.T) {
	a := newTestAdapter(NewMemoryKV())

	if ok, _ := a.HasSave(); ok {
		t.Error("HasSave() = true on empty store")
	}

	m := newGame(t, 1)
	m.Start()
	a.Save(m)
	if ok, _ := a.HasSave(); !ok {
		t.Error("HasSave() = false after Save()")
	}

	if err := a.ClearSave(); err != nil {
		t.Fatalf("ClearSave() failed: %v", err)
	}
	if ok, _ := a.HasSave(); ok {
		t.Error("HasSave() = true after ClearSave()")
	}
}

func TestRecordScore(t *testing.T) {
	kv := NewMemoryKV()
	a := newTestAdapter(kv)

	steps := []struct {
		score   int
		wantNew bool
		best    int
	}{
		{0, false, 0},
		{30, true, 30},
		{20, false, 30},
		{30, false, 30},
		{50, true, 50},
	}

	for _, s := range steps {
		isNew, err := a.RecordScore(s.score)
		if err != nil {
			t.Fatalf("RecordScore(%d) failed: %v", s.score, err)
		}
		if isNew != s.wantNew {
			t.Errorf("RecordScore(%d) = %v, expected %v", s.score, isNew, s.wantNew)
		}
		if best, _ := a.BestScore(); best != s.best {
			t.Errorf("BestScore() after %d = %d, expected %d", s.score, best, s.best)
		}
	}

	if raw, _, _ := kv.Get(DefaultHighScoreKey); raw != "50" {
		t.Errorf("Stored best = %q, expected decimal \"50\"", raw)
	}
}

func TestBestScoreIgnoresGarbage(t *testing.T) {
	kv := NewMemoryKV()
	kv.Set(DefaultHighScoreKey, "lots")
	a := newTestAdapter(kv)

	best, err := a.BestScore()
	if err != nil || best != 0 {
		t.Errorf("BestScore() = %d, %v; expected 0, nil", best, err)
	}
}

func TestWithKeysSeparatesPlayers(t *testing.T) {
	kv := NewMemoryKV()
	alice := NewAdapter(kv, WithKeys("alice:save", "alice:best"))
	bob := NewAdapter(kv, WithKeys("bob:save", "bob:best"))

	alice.RecordScore(40)
	if best, _ := bob.BestScore(); best != 0 {
		t.Errorf("bob's best = %d, expected 0", best)
	}

	m := newGame(t, 1)
	m.Start()
	alice.Save(m)
	if ok, _ := bob.HasSave(); ok {
		t.Error("bob sees alice's save")
	}
}

func TestAdapterOverSQLite(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "snake.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	defer store.Close()

	a := newTestAdapter(store)
	src := newGame(t, 3)
	playFewTicks(src)

	if _, err := a.Save(src); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	dst := newGame(t, 4)
	if _, err := a.Load(dst); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !reflect.DeepEqual(dst.Snapshot(), src.Snapshot()) {
		t.Error("SQLite round trip changed the state")
	}
}
