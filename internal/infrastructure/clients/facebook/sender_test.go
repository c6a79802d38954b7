package facebook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/coachlanding/internal/domain/entities"
	"github.com/zatekoja/coachlanding/pkg/config"
)

func TestNewConversionsSender(t *testing.T) {
	tests := []struct {
		name        string
		pixelID     string
		accessToken string
		wantErr     bool
	}{
		{"Valid credentials", "123", "token", false},
		{"Missing pixel", "", "token", true},
		{"Missing token", "123", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender, err := NewConversionsSender(&config.FacebookConfig{
				PixelID:     tt.pixelID,
				AccessToken: tt.accessToken,
				APIVersion:  "v18.0",
				BaseURL:     "https://graph.facebook.com",
			}, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 10*time.Second, sender.httpClient.Timeout)
		})
	}
}

func TestConversionsSender_Send(t *testing.T) {
	tests := []struct {
		name           string
		testEventCode  string
		mockStatusCode int
		mockBody       string
		wantErr        string
	}{
		{
			name:           "Successful send",
			mockStatusCode: http.StatusOK,
			mockBody:       `{"events_received":1,"messages":[],"fbtrace_id":"AbC"}`,
		},
		{
			name:           "Test event code forwarded",
			testEventCode:  "TEST123",
			mockStatusCode: http.StatusOK,
			mockBody:       `{"events_received":1,"fbtrace_id":"AbC"}`,
		},
		{
			name:           "Graph error",
			mockStatusCode: http.StatusBadRequest,
			mockBody:       `{"error":{"message":"Invalid parameter","type":"OAuthException","code":100,"fbtrace_id":"x"}}`,
			wantErr:        "Invalid parameter",
		},
		{
			name:           "Opaque error",
			mockStatusCode: http.StatusInternalServerError,
			mockBody:       `oops`,
			wantErr:        "status 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v18.0/px-1/events", r.URL.Path)

				var payload EventsPayload
				require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
				assert.Equal(t, "secret", payload.AccessToken)
				assert.Equal(t, tt.testEventCode, payload.TestEventCode)
				require.Len(t, payload.Data, 1)
				assert.Equal(t, "Lead", payload.Data[0].EventName)

				w.WriteHeader(tt.mockStatusCode)
				w.Write([]byte(tt.mockBody))
			}))
			defer server.Close()

			sender, err := NewConversionsSender(&config.FacebookConfig{
				PixelID:     "px-1",
				AccessToken: "secret",
				APIVersion:  "v18.0",
				BaseURL:     server.URL,
				Timeout:     time.Second,
			}, nil)
			require.NoError(t, err)

			resp, err := sender.Send(context.Background(), []entities.ServerEvent{{
				EventName:    "Lead",
				EventTime:    1700000000,
				ActionSource: "website",
			}}, tt.testEventCode)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, resp.EventsReceived)
			assert.Equal(t, "AbC", resp.FBTraceID)
		})
	}
}

func TestConversionsSender_EmptyBatch(t *testing.T) {
	sender, err := NewConversionsSender(&config.FacebookConfig{PixelID: "1", AccessToken: "t"}, nil)
	require.NoError(t, err)

	_, err = sender.Send(context.Background(), nil, "")
	assert.Error(t, err)
}
