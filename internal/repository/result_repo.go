package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Sigma-Eleven/model/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

type ResultRepository struct {
	db *pgxpool.Pool
}

func NewResultRepository(db *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{db: db}
}

// Create stores a finished game
func (r *ResultRepository) Create(ctx context.Context, rec *domain.GameRecord) error {
	seatsJSON, err := json.Marshal(rec.Seats)
	if err != nil {
		seatsJSON = []byte("[]")
	}

	return r.db.QueryRow(ctx,
		`INSERT INTO game_results
			(game_id, variant, outcome, winner, days, seats, error, started_at, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		rec.GameID,
		rec.Variant,
		rec.Outcome,
		rec.Winner,
		rec.Days,
		seatsJSON,
		rec.Error,
		rec.StartedAt,
		rec.FinishedAt,
	).Scan(&rec.ID)
}

// GetByGameID returns the stored result of a game
func (r *ResultRepository) GetByGameID(ctx context.Context, gameID string) (*domain.GameRecord, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, game_id, variant, outcome, winner, days, seats, error, started_at, finished_at
		 FROM game_results
		 WHERE game_id = $1`,
		gameID,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

// Recent returns the latest finished games
func (r *ResultRepository) Recent(ctx context.Context, limit int) ([]*domain.GameRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, game_id, variant, outcome, winner, days, seats, error, started_at, finished_at
		 FROM game_results
		 ORDER BY finished_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.GameRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

func scanRecord(row pgx.Row) (*domain.GameRecord, error) {
	var (
		rec       domain.GameRecord
		seatsJSON []byte
	)
	if err := row.Scan(
		&rec.ID, &rec.GameID, &rec.Variant, &rec.Outcome, &rec.Winner,
		&rec.Days, &seatsJSON, &rec.Error, &rec.StartedAt, &rec.FinishedAt,
	); err != nil {
		return nil, err
	}
	if len(seatsJSON) > 0 {
		_ = json.Unmarshal(seatsJSON, &rec.Seats)
	}
	return &rec, nil
}
