package repositories

import (
	"context"

	"github.com/zatekoja/coachlanding/internal/domain/entities"
)

// EventHistoryRepository keeps the recent conversion sends for diagnostics
type EventHistoryRepository interface {
	// Append records one send, evicting the oldest entry when full
	Append(ctx context.Context, record entities.EventRecord) error

	// List returns up to limit records, newest first. limit <= 0 returns everything retained.
	List(ctx context.Context, limit int) ([]entities.EventRecord, error)

	// Total returns the number of records ever appended
	Total(ctx context.Context) (int, error)
}
