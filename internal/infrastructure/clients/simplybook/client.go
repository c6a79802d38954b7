package simplybook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/zatekoja/coachlanding/internal/infrastructure/observability"
	"github.com/zatekoja/coachlanding/pkg/config"
	"go.opentelemetry.io/otel/attribute"
)

const (
	loginPath  = "/login"
	publicPath = ""
	adminPath  = "/admin"
)

// Client is a JSON-RPC 2.0 client for the SimplyBook.me user API
type Client struct {
	baseURL      string
	companyLogin string
	httpClient   *http.Client
	metrics      *observability.Metrics
	nextID       atomic.Int64
}

// Request is the JSON-RPC request envelope
type Request struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int64         `json:"id"`
}

// Response is the JSON-RPC response envelope
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
	ID      int64           `json:"id"`
}

// RPCError is an error object returned by the API
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("simplybook rpc error %d: %s", e.Code, e.Message)
}

// NewClient creates a new SimplyBook client
func NewClient(cfg *config.SimplyBookConfig, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL:      cfg.APIURL,
		companyLogin: cfg.CompanyLogin,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		metrics:      metrics,
	}
}

// CompanyLogin returns the company the client is bound to
func (c *Client) CompanyLogin() string {
	return c.companyLogin
}

// GetToken obtains a public API token
func (c *Client) GetToken(ctx context.Context, apiKey string) (string, error) {
	var token string
	if err := c.call(ctx, loginPath, nil, "getToken", []interface{}{c.companyLogin, apiKey}, &token); err != nil {
		return "", err
	}
	if token == "" {
		return "", fmt.Errorf("simplybook getToken returned an empty token")
	}
	return token, nil
}

// GetUserToken obtains an administrative token for a company user
func (c *Client) GetUserToken(ctx context.Context, userLogin, password string) (string, error) {
	var token string
	if err := c.call(ctx, loginPath, nil, "getUserToken", []interface{}{c.companyLogin, userLogin, password}, &token); err != nil {
		return "", err
	}
	if token == "" {
		return "", fmt.Errorf("simplybook getUserToken returned an empty token")
	}
	return token, nil
}

// CallPublic invokes a method of the public company API
func (c *Client) CallPublic(ctx context.Context, token, method string, params []interface{}, result interface{}) error {
	return c.call(ctx, publicPath, map[string]string{"X-Token": token}, method, params, result)
}

// CallAdmin invokes a method of the company administration API
func (c *Client) CallAdmin(ctx context.Context, userToken, method string, params []interface{}, result interface{}) error {
	return c.call(ctx, adminPath, map[string]string{"X-User-Token": userToken}, method, params, result)
}

func (c *Client) call(ctx context.Context, path string, headers map[string]string, method string, params []interface{}, result interface{}) (err error) {
	ctx, span := observability.StartSpan(ctx, "simplybook."+method)
	defer span.End()
	start := time.Now()
	defer func() {
		observability.RecordError(span, err)
		observability.RecordUpstreamCall(ctx, c.metrics, "simplybook", method, err, time.Since(start))
	}()

	if params == nil {
		params = []interface{}{}
	}
	id := c.nextID.Add(1)
	payload, err := json.Marshal(Request{JSONRPC: "2.0", Method: method, Params: params, ID: id})
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Company-Login", c.companyLogin)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	observability.SetSpanAttributes(span,
		attribute.String("rpc.system", "jsonrpc"),
		attribute.String("rpc.method", method),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("simplybook %s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", method, err)
	}

	var rpcResp Response
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return fmt.Errorf("simplybook %s returned malformed response (status %d): %w", method, resp.StatusCode, err)
	}
	if rpcResp.Error != nil {
		return rpcResp.Error
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("simplybook %s failed with status %d", method, resp.StatusCode)
	}

	if result == nil || len(rpcResp.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(rpcResp.Result, result); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	return nil
}
