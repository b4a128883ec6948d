package storage

import (
	"context"
	"time"
)

// RoundStore abstracts round-history persistence. Implementations can be
// swapped for testing (mocks) or different backends.
type RoundStore interface {
	InsertRoundResult(ctx context.Context, lobbyID string, winners []string, playerCount int, endReason string, endedAt time.Time) error
	ListByLobbyID(ctx context.Context, lobbyID string, limit int) ([]RoundRecord, error)
	Close()
}

// Ensure *Store implements RoundStore at compile time.
var _ RoundStore = (*Store)(nil)
