package ws

import "github.com/Sigma-Eleven/model/internal/game"

// client → server
type ReplyPayload struct {
	Type  string `json:"type"`
	ID    int64  `json:"id"`
	Value string `json:"value"`
}

// server → client
type ReadyPayload struct {
	Type   string `json:"type"`
	GameID string `json:"game_id"`
	Seat   string `json:"seat"`
}

type RequestPayload struct {
	Type       string   `json:"type"`
	ID         int64    `json:"id"`
	Prompt     string   `json:"prompt"`
	Candidates []string `json:"candidates,omitempty"`
	AllowSkip  bool     `json:"allow_skip,omitempty"`
}

type AnnouncePayload struct {
	Type         string            `json:"type"`
	Announcement game.Announcement `json:"announcement"`
}

type ErrorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
