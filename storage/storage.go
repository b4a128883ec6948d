package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS round_history (
	id UUID PRIMARY KEY,
	ended_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	lobby_id TEXT NOT NULL,
	winners TEXT[] NOT NULL,
	player_count INT NOT NULL,
	end_reason TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_round_history_lobby ON round_history(lobby_id);
`

// RoundRecord is one finished round as stored.
type RoundRecord struct {
	ID          string    `json:"id"`
	EndedAt     time.Time `json:"endedAt"`
	LobbyID     string    `json:"lobbyId"`
	Winners     []string  `json:"winners"`
	PlayerCount int       `json:"playerCount"`
	EndReason   string    `json:"endReason"`
}

// Store persists finished-round results. It is write-mostly and entirely
// outside the game rules; games never read it back.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to Postgres and ensures the round_history table exists.
// If databaseURL is empty, NewStore returns (nil, nil) and no history is
// recorded.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, nil
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// InsertRoundResult records one finished round.
func (s *Store) InsertRoundResult(ctx context.Context, lobbyID string, winners []string, playerCount int, endReason string, endedAt time.Time) error {
	if winners == nil {
		winners = []string{}
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO round_history (id, ended_at, lobby_id, winners, player_count, end_reason)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.NewString(), endedAt, lobbyID, winners, playerCount, endReason)
	return err
}

// ListByLobbyID returns the rounds recorded for a lobby, newest first.
func (s *Store) ListByLobbyID(ctx context.Context, lobbyID string, limit int) ([]RoundRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, ended_at, lobby_id, winners, player_count, end_reason
		 FROM round_history WHERE lobby_id = $1 ORDER BY ended_at DESC LIMIT $2`,
		lobbyID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []RoundRecord
	for rows.Next() {
		var r RoundRecord
		if err := rows.Scan(&r.ID, &r.EndedAt, &r.LobbyID, &r.Winners, &r.PlayerCount, &r.EndReason); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Close releases the connection pool.
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}
