package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/Sigma-Eleven/model/internal/game"
	"github.com/Sigma-Eleven/model/internal/participant"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second

	sendBuffer = 256
)

// Client is a remote seat. It satisfies game.Participant whether or not a
// socket is attached: while disconnected, or when the player does not answer
// within the turn timeout, the fallback participant plays the turn.
type Client struct {
	GameID string
	Seat   string

	fallback game.Participant
	timeout  time.Duration
	log      *slog.Logger

	mu      sync.Mutex
	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{}
	nextID  int64
	pending map[int64]chan string
}

func NewClient(gameID, seat string, fallback game.Participant, turnTimeout time.Duration, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	if fallback == nil {
		fallback = participant.NewRobot(seat, nil)
	}
	return &Client{
		GameID:   gameID,
		Seat:     seat,
		fallback: fallback,
		timeout:  turnTimeout,
		log:      log.With("game", gameID, "seat", seat),
		pending:  make(map[int64]chan string),
	}
}

// Connected reports whether a socket is attached.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

func (c *Client) Speak(ctx context.Context, prompt string) (string, error) {
	v, ok, err := c.ask(ctx, RequestPayload{Type: MsgSpeak, Prompt: prompt})
	if err != nil || ok {
		return v, err
	}
	return c.fallback.Speak(ctx, prompt)
}

func (c *Client) Choose(ctx context.Context, prompt string, candidates []string, allowSkip bool) (string, error) {
	v, ok, err := c.ask(ctx, RequestPayload{Type: MsgChoose, Prompt: prompt, Candidates: candidates, AllowSkip: allowSkip})
	if err != nil || ok {
		return v, err
	}
	return c.fallback.Choose(ctx, prompt, candidates, allowSkip)
}

func (c *Client) Receive(a game.Announcement) {
	c.fallback.Receive(a)
	c.push(AnnouncePayload{Type: MsgAnnounce, Announcement: a})
}

// ask sends a request to the socket and waits for the matching reply. ok is
// false when the turn has to be played by the fallback.
func (c *Client) ask(ctx context.Context, req RequestPayload) (string, bool, error) {
	c.mu.Lock()
	if c.conn == nil {
		c.mu.Unlock()
		return "", false, nil
	}
	c.nextID++
	req.ID = c.nextID
	reply := make(chan string, 1)
	c.pending[req.ID] = reply
	done := c.done
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, req.ID)
		c.mu.Unlock()
	}()

	if !c.push(req) {
		return "", false, nil
	}

	var timeout <-chan time.Time
	if c.timeout > 0 {
		timer := time.NewTimer(c.timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case v := <-reply:
		return v, true, nil
	case <-timeout:
		turnTimeouts.Inc()
		c.log.Warn("turn timed out, fallback plays", "request", req.Type, "id", req.ID)
		return "", false, nil
	case <-done:
		c.log.Warn("seat disconnected during turn, fallback plays", "request", req.Type)
		return "", false, nil
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
}

// push queues a message for the attached socket without blocking.
func (c *Client) push(v any) bool {
	b, err := json.Marshal(v)
	if err != nil {
		c.log.Error("encode message failed", "error", err)
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return false
	}
	select {
	case c.send <- b:
		return true
	default:
		c.log.Warn("send buffer full, dropping message")
		return false
	}
}

func (c *Client) resolve(id int64, value string) {
	c.mu.Lock()
	ch, ok := c.pending[id]
	c.mu.Unlock()
	if !ok {
		c.log.Debug("reply without pending request", "id", id)
		return
	}
	select {
	case ch <- value:
	default:
	}
}

// Serve attaches conn to the seat and blocks until it disconnects. A new
// connection replaces the previous one.
func (c *Client) Serve(conn *websocket.Conn) {
	send, done := c.attach(conn)
	wsConnections.Inc()
	defer wsConnections.Dec()

	go c.writePump(conn, send, done)

	c.push(ReadyPayload{Type: MsgReady, GameID: c.GameID, Seat: c.Seat})
	c.log.Info("seat connected")

	c.readPump(conn)
	c.detach(conn)
	c.log.Info("seat disconnected")
}

func (c *Client) attach(conn *websocket.Conn) (chan []byte, chan struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		close(c.done)
		_ = c.conn.Close()
	}
	c.conn = conn
	c.send = make(chan []byte, sendBuffer)
	c.done = make(chan struct{})
	return c.send, c.done
}

func (c *Client) detach(conn *websocket.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != conn {
		return
	}
	close(c.done)
	c.conn = nil
	_ = conn.Close()
}

// Close drops the socket, if any.
func (c *Client) Close() {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn != nil {
		c.detach(conn)
	}
}

// read
func (c *Client) readPump(conn *websocket.Conn) {
	conn.SetReadLimit(4096)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("read error", "error", err)
			}
			return
		}

		var in ReplyPayload
		if err := json.Unmarshal(msg, &in); err != nil {
			c.push(ErrorPayload{Type: MsgError, Message: "invalid message"})
			continue
		}
		switch in.Type {
		case MsgReply:
			c.resolve(in.ID, in.Value)
		case MsgPing:
			c.push(map[string]string{"type": MsgPong})
		default:
			c.push(ErrorPayload{Type: MsgError, Message: "unknown message type"})
		}
	}
}

// write
func (c *Client) writePump(conn *websocket.Conn, send <-chan []byte, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case msg := <-send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.log.Warn("write error", "error", err)
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-done:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
