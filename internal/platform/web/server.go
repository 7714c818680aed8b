// Package web serves the snake game to browsers over a websocket. Each
// connection plays its own game; the server owns the tick clock and pushes
// a state message after every change.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"regexp"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/persist"
	"github.com/vovakirdan/tui-snake/internal/session"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

//go:embed static
var staticFiles embed.FS

// ScoreLister is the read side of the score history.
type ScoreLister interface {
	TopScores(player string, limit int) ([]storage.ScoreEntry, error)
}

// Config holds the per-game settings for web sessions.
type Config struct {
	Addr         string
	Rules        snake.Rules
	TickInterval time.Duration
	StatusShort  time.Duration
	StatusLong   time.Duration
	SaveKey      string
	HighScoreKey string
}

// Server is the HTTP and websocket front end.
type Server struct {
	cfg      Config
	kv       persist.KV
	recorder session.ScoreRecorder
	scores   ScoreLister
	logger   *log.Logger
	upgrader websocket.Upgrader
	seed     func() int64
}

// Option configures a Server.
type Option func(*Server)

// WithScores records finished games and exposes them at /api/scores.
func WithScores(rec session.ScoreRecorder, list ScoreLister) Option {
	return func(s *Server) {
		s.recorder = rec
		s.scores = list
	}
}

// WithSeed sets the seed source for new games.
func WithSeed(seed func() int64) Option {
	return func(s *Server) {
		s.seed = seed
	}
}

// NewServer creates a server keeping saves and best scores in kv.
func NewServer(cfg Config, kv persist.KV, logger *log.Logger, opts ...Option) *Server {
	s := &Server{
		cfg:    cfg,
		kv:     kv,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Same-origin browsers and CLI clients only send what the page sends.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		seed: func() int64 { return time.Now().UnixNano() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	static, _ := fs.Sub(staticFiles, "static")
	mux.Handle("/", http.FileServer(http.FS(static)))
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/scores", s.serveScores)

	return mux
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting web server", "address", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

var playerName = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)

// player returns the sanitized player name from the query string.
func player(r *http.Request) string {
	name := r.URL.Query().Get("player")
	if !playerName.MatchString(name) {
		return "web"
	}
	return name
}

func (s *Server) newSession(name string) (*session.Session, error) {
	machine, err := snake.NewMachine(s.cfg.Rules, s.seed())
	if err != nil {
		return nil, err
	}

	adapter := persist.NewAdapter(s.kv, persist.WithKeys(
		prefixed(name, s.cfg.SaveKey, persist.DefaultSaveKey),
		prefixed(name, s.cfg.HighScoreKey, persist.DefaultHighScoreKey),
	))

	opts := []session.Option{
		session.WithLogger(s.logger.With("player", name)),
	}
	if s.cfg.StatusShort > 0 && s.cfg.StatusLong > 0 {
		opts = append(opts, session.WithStatusDurations(s.cfg.StatusShort, s.cfg.StatusLong))
	}
	if s.recorder != nil {
		opts = append(opts, session.WithRecorder(s.recorder, name))
	}
	return session.New(machine, adapter, opts...), nil
}

func prefixed(name, key, fallback string) string {
	if key == "" {
		key = fallback
	}
	return "web:" + name + ":" + key
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	name := player(r)
	sess, err := s.newSession(name)
	if err != nil {
		s.logger.Error("cannot start game", "error", err)
		http.Error(w, "cannot start game", http.StatusInternalServerError)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	s.logger.Info("session started", "player", name, "remote", r.RemoteAddr)
	c := newClient(conn, sess, s.cfg.TickInterval, s.logger)
	go c.writePump()
	go c.readPump()
	go func() {
		c.run()
		s.logger.Info("session ended", "player", name, "remote", r.RemoteAddr)
	}()
}

type scoreRow struct {
	Player    string    `json:"player"`
	Score     int       `json:"score"`
	Length    int       `json:"length"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) serveScores(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	rows := []scoreRow{}

	if s.scores != nil {
		entries, err := s.scores.TopScores(r.URL.Query().Get("player"), 10)
		if err != nil {
			s.logger.Error("cannot list scores", "error", err)
			http.Error(w, `{"error":"cannot list scores"}`, http.StatusInternalServerError)
			return
		}
		for _, e := range entries {
			rows = append(rows, scoreRow{Player: e.Player, Score: e.Score, Length: e.Length, CreatedAt: e.CreatedAt})
		}
	}

	json.NewEncoder(w).Encode(rows)
}
