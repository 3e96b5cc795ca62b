package domain

import "time"

// GameOutcome - how a game ended
type GameOutcome string

const (
	OutcomeGameOver GameOutcome = "game_over"
	OutcomeStopped  GameOutcome = "stopped"
	OutcomeFailed   GameOutcome = "failed"
)

// SeatRecord - final state of one seat
type SeatRecord struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	Alive  bool   `json:"alive"`
	Remote bool   `json:"remote"`
}

// GameRecord - a finished game
type GameRecord struct {
	ID         int64        `db:"id" json:"id"`
	GameID     string       `db:"game_id" json:"game_id"`
	Variant    string       `db:"variant" json:"variant"`
	Outcome    GameOutcome  `db:"outcome" json:"outcome"`
	Winner     string       `db:"winner" json:"winner,omitempty"`
	Days       int          `db:"days" json:"days"`
	Seats      []SeatRecord `db:"seats" json:"seats"`
	Error      string       `db:"error" json:"error,omitempty"`
	StartedAt  time.Time    `db:"started_at" json:"started_at"`
	FinishedAt time.Time    `db:"finished_at" json:"finished_at"`
}
