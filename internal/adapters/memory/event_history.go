package memory

import (
	"context"
	"sync"

	"github.com/zatekoja/coachlanding/internal/domain/entities"
	"github.com/zatekoja/coachlanding/internal/domain/repositories"
)

// DefaultHistorySize is the number of conversion sends retained
const DefaultHistorySize = 100

// EventHistory is a fixed-capacity ring buffer of conversion sends
type EventHistory struct {
	mu      sync.RWMutex
	records []entities.EventRecord
	next    int
	size    int
	total   int
}

// NewEventHistory creates a ring buffer holding at most capacity records
func NewEventHistory(capacity int) repositories.EventHistoryRepository {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &EventHistory{records: make([]entities.EventRecord, capacity)}
}

// Append records one send, overwriting the oldest entry when full
func (h *EventHistory) Append(ctx context.Context, record entities.EventRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.records[h.next] = record
	h.next = (h.next + 1) % len(h.records)
	if h.size < len(h.records) {
		h.size++
	}
	h.total++
	return nil
}

// List returns up to limit records, newest first
func (h *EventHistory) List(ctx context.Context, limit int) ([]entities.EventRecord, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := h.size
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]entities.EventRecord, 0, n)
	for i := 1; i <= n; i++ {
		idx := (h.next - i + len(h.records)) % len(h.records)
		out = append(out, h.records[idx])
	}
	return out, nil
}

// Total returns the number of records ever appended
func (h *EventHistory) Total(ctx context.Context) (int, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.total, nil
}
