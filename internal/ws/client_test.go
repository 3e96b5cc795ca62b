package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Sigma-Eleven/model/internal/game"
	"github.com/Sigma-Eleven/model/internal/participant"
	"github.com/Sigma-Eleven/model/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type seatServer struct {
	srv    *httptest.Server
	hub    *Hub
	tokens *service.SeatTokens
}

func newSeatServer(t *testing.T) *seatServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := service.NewSeatTokens("ws-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	hub := NewHub()
	r := gin.New()
	r.GET("/ws", HandleWS(hub, tokens, ""))

	s := &seatServer{srv: httptest.NewServer(r), hub: hub, tokens: tokens}
	t.Cleanup(s.srv.Close)
	return s
}

func (s *seatServer) dial(t *testing.T, gameID, seat string) *websocket.Conn {
	t.Helper()
	tok, err := s.tokens.Issue(gameID, seat)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	url := "ws" + strings.TrimPrefix(s.srv.URL, "http") + "/ws?token=" + tok
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	// the server attaches the socket before queuing the ready message
	var ready ReadyPayload
	readJSON(t, conn, &ready)
	if ready.Type != MsgReady || ready.Seat != seat {
		t.Fatalf("handshake = %+v", ready)
	}
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := json.Unmarshal(msg, v); err != nil {
		t.Fatalf("decode %s: %v", msg, err)
	}
}

func TestClientRelaysTurnsToSocket(t *testing.T) {
	s := newSeatServer(t)
	client := NewClient("g1", "Alice", participant.NewScripted(nil, nil), 3*time.Second, nil)
	s.hub.Register(client)
	conn := s.dial(t, "g1", "Alice")

	type answer struct {
		v   string
		err error
	}
	got := make(chan answer, 1)
	go func() {
		v, err := client.Choose(context.Background(), "vote", []string{"Bob", "Carol"}, true)
		got <- answer{v, err}
	}()

	var req RequestPayload
	readJSON(t, conn, &req)
	if req.Type != MsgChoose || req.Prompt != "vote" || len(req.Candidates) != 2 || !req.AllowSkip {
		t.Fatalf("request = %+v", req)
	}
	if err := conn.WriteJSON(ReplyPayload{Type: MsgReply, ID: req.ID, Value: "Carol"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case a := <-got:
		if a.err != nil || a.v != "Carol" {
			t.Fatalf("choose = %q, %v", a.v, a.err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no answer")
	}

	client.Receive(game.Announcement{Seq: 1, Message: "dawn", Style: game.StyleNarration})
	var ann AnnouncePayload
	readJSON(t, conn, &ann)
	if ann.Type != MsgAnnounce || ann.Announcement.Message != "dawn" {
		t.Fatalf("announce = %+v", ann)
	}
}

func TestClientFallsBackOnTimeout(t *testing.T) {
	s := newSeatServer(t)
	client := NewClient("g2", "Bob", participant.NewScripted([]string{"robot line"}, nil), 50*time.Millisecond, nil)
	s.hub.Register(client)
	conn := s.dial(t, "g2", "Bob")

	v, err := client.Speak(context.Background(), "your turn")
	if err != nil || v != "robot line" {
		t.Fatalf("speak = %q, %v", v, err)
	}

	// the unanswered request still reached the socket
	var req RequestPayload
	readJSON(t, conn, &req)
	if req.Type != MsgSpeak {
		t.Fatalf("request = %+v", req)
	}
}

func TestClientWithoutSocketUsesFallback(t *testing.T) {
	fb := participant.NewScripted([]string{"offline"}, nil)
	client := NewClient("g3", "Carol", fb, time.Second, nil)

	if client.Connected() {
		t.Fatal("connected without a socket")
	}
	v, err := client.Speak(context.Background(), "talk")
	if err != nil || v != "offline" {
		t.Fatalf("speak = %q, %v", v, err)
	}
	client.Receive(game.Announcement{Message: "kept"})
	if m := fb.Messages(); len(m) != 1 || m[0] != "kept" {
		t.Fatalf("fallback feed = %v", m)
	}
}

func TestHandleWSRejectsBadTokens(t *testing.T) {
	s := newSeatServer(t)
	base := "ws" + strings.TrimPrefix(s.srv.URL, "http") + "/ws"

	if _, resp, err := websocket.DefaultDialer.Dial(base, nil); err == nil || resp == nil || resp.StatusCode != 401 {
		t.Fatalf("missing token: err=%v resp=%v", err, resp)
	}
	if _, resp, err := websocket.DefaultDialer.Dial(base+"?token=garbage", nil); err == nil || resp == nil || resp.StatusCode != 401 {
		t.Fatalf("bad token: err=%v resp=%v", err, resp)
	}

	tok, _ := s.tokens.Issue("nope", "nobody")
	if _, resp, err := websocket.DefaultDialer.Dial(base+"?token="+tok, nil); err == nil || resp == nil || resp.StatusCode != 404 {
		t.Fatalf("unknown seat: err=%v resp=%v", err, resp)
	}
}

func TestHubRemoveDropsSeats(t *testing.T) {
	h := NewHub()
	h.Register(NewClient("g", "A", nil, 0, nil))
	if _, err := h.Lookup("g", "A"); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	h.Remove("g")
	if _, err := h.Lookup("g", "A"); err != ErrUnknownSeat {
		t.Fatalf("after remove err = %v", err)
	}
	if h.Games() != 0 {
		t.Fatalf("games = %d", h.Games())
	}
}
