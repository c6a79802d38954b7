package facebook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/zatekoja/coachlanding/internal/domain/entities"
	"github.com/zatekoja/coachlanding/internal/infrastructure/observability"
	"github.com/zatekoja/coachlanding/pkg/config"
)

// ConversionsSender sends server events via the Facebook Conversions API
type ConversionsSender struct {
	pixelID     string
	accessToken string
	httpClient  *http.Client
	baseURL     string
	metrics     *observability.Metrics
}

// NewConversionsSender creates a new Conversions API sender
func NewConversionsSender(cfg *config.FacebookConfig, metrics *observability.Metrics) (*ConversionsSender, error) {
	if cfg.PixelID == "" || cfg.AccessToken == "" {
		return nil, fmt.Errorf("FACEBOOK_PIXEL_ID and FACEBOOK_ACCESS_TOKEN must be set")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ConversionsSender{
		pixelID:     cfg.PixelID,
		accessToken: cfg.AccessToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: fmt.Sprintf("%s/%s", cfg.BaseURL, cfg.APIVersion),
		metrics: metrics,
	}, nil
}

// EventsPayload is the batch request body
type EventsPayload struct {
	Data          []entities.ServerEvent `json:"data"`
	AccessToken   string                 `json:"access_token"`
	TestEventCode string                 `json:"test_event_code,omitempty"`
}

// GraphError is the error object of a failed Graph API call
type GraphError struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      int    `json:"code"`
	FBTraceID string `json:"fbtrace_id"`
}

// Send posts a batch of events to the pixel
func (s *ConversionsSender) Send(ctx context.Context, events []entities.ServerEvent, testEventCode string) (resp *entities.ConversionResponse, err error) {
	ctx, span := observability.StartSpan(ctx, "facebook.events")
	defer span.End()
	start := time.Now()
	defer func() {
		observability.RecordError(span, err)
		observability.RecordUpstreamCall(ctx, s.metrics, "facebook", "events", err, time.Since(start))
	}()

	if len(events) == 0 {
		return nil, fmt.Errorf("no events to send")
	}

	url := fmt.Sprintf("%s/%s/events", s.baseURL, s.pixelID)

	jsonData, err := json.Marshal(EventsPayload{
		Data:          events,
		AccessToken:   s.accessToken,
		TestEventCode: testEventCode,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal events: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		var graphErr struct {
			Error GraphError `json:"error"`
		}
		if json.Unmarshal(body, &graphErr) == nil && graphErr.Error.Message != "" {
			return nil, fmt.Errorf("conversions API error (status %d, code %d): %s", httpResp.StatusCode, graphErr.Error.Code, graphErr.Error.Message)
		}
		return nil, fmt.Errorf("conversions API error (status %d): %s", httpResp.StatusCode, string(body))
	}

	var out entities.ConversionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &out, nil
}
