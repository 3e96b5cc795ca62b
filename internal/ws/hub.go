package ws

import (
	"errors"
	"sync"
)

var ErrUnknownSeat = errors.New("unknown seat")

// Hub maps (game id, seat) to the remote seat waiting for a socket.
type Hub struct {
	mu    sync.RWMutex
	seats map[string]map[string]*Client
}

func NewHub() *Hub {
	return &Hub{seats: make(map[string]map[string]*Client)}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	game, ok := h.seats[c.GameID]
	if !ok {
		game = make(map[string]*Client)
		h.seats[c.GameID] = game
	}
	game[c.Seat] = c
}

func (h *Hub) Lookup(gameID, seat string) (*Client, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	c, ok := h.seats[gameID][seat]
	if !ok {
		return nil, ErrUnknownSeat
	}
	return c, nil
}

// Remove forgets every seat of a game and drops their sockets.
func (h *Hub) Remove(gameID string) {
	h.mu.Lock()
	game := h.seats[gameID]
	delete(h.seats, gameID)
	h.mu.Unlock()

	for _, c := range game {
		c.Close()
	}
}

// Games returns how many games have registered seats.
func (h *Hub) Games() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.seats)
}
