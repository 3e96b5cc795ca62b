package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrNoSecret     = errors.New("seat token secret is empty")
)

// SeatClaims identify one seat of one game.
type SeatClaims struct {
	GameID string `json:"game_id"`
	Seat   string `json:"seat"`
}

// SeatTokens signs and parses the HS256 tokens handed to remote players.
type SeatTokens struct {
	secret []byte
	ttl    time.Duration
}

func NewSeatTokens(secret string, ttl time.Duration) (*SeatTokens, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SeatTokens{secret: []byte(secret), ttl: ttl}, nil
}

func (s *SeatTokens) Issue(gameID, seat string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"game_id": gameID,
		"seat":    seat,
		"exp":     now.Add(s.ttl).Unix(),
		"iat":     now.Unix(),
		"nbf":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *SeatTokens) Parse(tokenString string) (SeatClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return SeatClaims{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return SeatClaims{}, ErrInvalidToken
	}

	gameID, _ := claims["game_id"].(string)
	seat, _ := claims["seat"].(string)
	if gameID == "" || seat == "" {
		return SeatClaims{}, errors.New("seat claims missing")
	}
	return SeatClaims{GameID: gameID, Seat: seat}, nil
}
