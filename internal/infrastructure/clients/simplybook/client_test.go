package simplybook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/coachlanding/pkg/config"
)

func newTestClient(url string) *Client {
	return NewClient(&config.SimplyBookConfig{
		APIURL:       url,
		CompanyLogin: "acme",
		Timeout:      5 * time.Second,
	}, nil)
}

func TestClient_GetToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/login", r.URL.Path)
		assert.Equal(t, "acme", r.Header.Get("X-Company-Login"))

		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "2.0", req.JSONRPC)
		assert.Equal(t, "getToken", req.Method)
		assert.Equal(t, []interface{}{"acme", "api-key"}, req.Params)

		json.NewEncoder(w).Encode(map[string]interface{}{"jsonrpc": "2.0", "result": "tok-1", "id": req.ID})
	}))
	defer server.Close()

	token, err := newTestClient(server.URL).GetToken(context.Background(), "api-key")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
}

func TestClient_CallAdminHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin", r.URL.Path)
		assert.Equal(t, "user-tok", r.Header.Get("X-User-Token"))
		assert.Empty(t, r.Header.Get("X-Token"))
		w.Write([]byte(`{"jsonrpc":"2.0","result":{"id":"42"},"id":1}`))
	}))
	defer server.Close()

	var out struct {
		ID string `json:"id"`
	}
	err := newTestClient(server.URL).CallAdmin(context.Background(), "user-tok", "getBooking", []interface{}{"42"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "42", out.ID)
}

func TestClient_CallPublicHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Path)
		assert.Equal(t, "pub-tok", r.Header.Get("X-Token"))
		w.Write([]byte(`{"jsonrpc":"2.0","result":3600,"id":1}`))
	}))
	defer server.Close()

	var offset int
	err := newTestClient(server.URL+"/").CallPublic(context.Background(), "pub-tok", "getCompanyTimezoneOffset", nil, &offset)
	require.NoError(t, err)
	assert.Equal(t, 3600, offset)
}

func TestClient_RPCError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","error":{"code":-32062,"message":"Selected time start is not available"},"id":1}`))
	}))
	defer server.Close()

	err := newTestClient(server.URL).CallAdmin(context.Background(), "t", "book", nil, nil)
	require.Error(t, err)

	var rpcErr *RPCError
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, -32062, rpcErr.Code)
	assert.Contains(t, rpcErr.Message, "not available")
}

func TestClient_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>bad gateway</html>`))
	}))
	defer server.Close()

	err := newTestClient(server.URL).CallPublic(context.Background(), "t", "getCompanyInfo", nil, &struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed response")
}

func TestClient_EmptyToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","result":"","id":1}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetUserToken(context.Background(), "admin", "secret")
	assert.Error(t, err)
}
