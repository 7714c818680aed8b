package web

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/session"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// Command is a message from the browser.
type Command struct {
	Action string `json:"action"`
}

// StateView is the wire form of a game state.
type StateView struct {
	Snake     []core.Cell `json:"snake"`
	Food      core.Cell   `json:"food"`
	Direction string      `json:"direction"`
	Score     int         `json:"score"`
	Phase     snake.Phase `json:"phase"`
	Won       bool        `json:"won"`
	GridSize  int         `json:"grid_size"`
}

// Message is sent to the browser after every change.
type Message struct {
	Event    string     `json:"event"` // "state" or "error"
	State    *StateView `json:"state,omitempty"`
	Best     int        `json:"best"`
	Status   string     `json:"status,omitempty"`
	StatusMS int64      `json:"status_ms,omitempty"`
	Error    string     `json:"error,omitempty"`
}

func viewOf(st snake.State) *StateView {
	return &StateView{
		Snake:     st.Body,
		Food:      st.Target,
		Direction: st.Direction.String(),
		Score:     st.Score,
		Phase:     st.Phase,
		Won:       st.Won,
		GridSize:  st.GridSize,
	}
}

// client is one websocket connection. run owns the session; the pumps only
// move bytes.
type client struct {
	conn     *websocket.Conn
	sess     *session.Session
	interval time.Duration
	logger   *log.Logger

	actions  chan core.Action
	send     chan []byte
	done     chan struct{} // closed when the read side ends
	finished chan struct{} // closed when run returns
}

func newClient(conn *websocket.Conn, sess *session.Session, interval time.Duration, logger *log.Logger) *client {
	return &client{
		conn:     conn,
		sess:     sess,
		interval: interval,
		logger:   logger,
		actions:  make(chan core.Action, 16),
		send:     make(chan []byte, 64),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}
}

// run is the session loop. It is the only goroutine touching sess.
func (c *client) run() {
	var (
		ticker *time.Ticker
		tick   <-chan time.Time
	)
	stop := func() {
		if ticker != nil {
			ticker.Stop()
			ticker, tick = nil, nil
		}
	}
	defer func() {
		stop()
		close(c.finished)
	}()

	handle := func(out session.Outcome) bool {
		switch out.Ticker {
		case session.TickerStart:
			stop()
			ticker = time.NewTicker(c.interval)
			tick = ticker.C
		case session.TickerStop:
			stop()
		}
		c.push(out)
		return !out.Quit
	}

	if !handle(c.sess.Start()) {
		return
	}

	for {
		select {
		case <-c.done:
			return
		case a := <-c.actions:
			if !handle(c.sess.Apply(a)) {
				return
			}
		case <-tick:
			if !handle(c.sess.Tick()) {
				return
			}
		}
	}
}

// push queues a state message; a slow client misses frames instead of
// stalling the game.
func (c *client) push(out session.Outcome) {
	msg := Message{
		Event: "state",
		State: viewOf(c.sess.State()),
		Best:  c.sess.Best(),
	}
	if out.Status != nil {
		msg.Status = out.Status.Text
		msg.StatusMS = out.Status.Duration.Milliseconds()
	}
	c.queue(msg)
}

func (c *client) queue(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("cannot encode message", "error", err)
		return
	}
	select {
	case c.send <- data:
	default:
		c.logger.Warn("client too slow, dropping frame")
	}
}

// readPump decodes commands from the connection.
func (c *client) readPump() {
	defer func() {
		close(c.done)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("websocket error", "error", err)
			}
			return
		}

		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			c.reject("malformed command")
			continue
		}
		action, ok := core.ParseAction(strings.TrimSpace(cmd.Action))
		if !ok {
			c.reject("unknown action " + cmd.Action)
			continue
		}

		select {
		case c.actions <- action:
		case <-c.finished:
			return
		case <-time.After(writeWait):
			c.logger.Warn("session loop stalled, dropping action", "action", action)
		}
	}
}

// reject reports a bad command. Errors bypass the session loop, so they
// go straight to the writer.
func (c *client) reject(reason string) {
	data, _ := json.Marshal(Message{Event: "error", Error: reason})
	select {
	case c.send <- data:
	default:
	}
}

// writePump writes queued messages and keeps the connection alive.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-c.finished:
			// Flush what the session queued before it ended.
			for len(c.send) > 0 {
				c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := c.conn.WriteMessage(websocket.TextMessage, <-c.send); err != nil {
					return
				}
			}
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
			return

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
