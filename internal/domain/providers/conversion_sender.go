package providers

import (
	"context"

	"github.com/zatekoja/coachlanding/internal/domain/entities"
)

// ConversionSender delivers shaped events to the ad platform
type ConversionSender interface {
	// Send posts a batch. testEventCode routes the batch to the test-events tool when non-empty.
	Send(ctx context.Context, events []entities.ServerEvent, testEventCode string) (*entities.ConversionResponse, error)
}
