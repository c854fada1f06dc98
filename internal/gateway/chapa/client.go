package chapa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// DefaultTimeout bounds every call to the gateway.
const DefaultTimeout = 30 * time.Second

// Config holds the gateway connection settings.
type Config struct {
	SecretKey string
	BaseURL   string
	Timeout   time.Duration
}

// Client calls the Chapa transaction API. Each call is a single attempt.
type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Client. It fails with ErrGatewayNotConfigured when
// no secret key is set so that misconfiguration surfaces at startup.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, ErrGatewayNotConfigured
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		secretKey: cfg.SecretKey,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: newrelic.NewRoundTripper(http.DefaultTransport),
		},
	}, nil
}

// Initialize starts a hosted checkout transaction.
func (c *Client) Initialize(ctx context.Context, req InitializeRequest) (*InitializeResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal initialize request: %w", err)
	}

	status, raw, err := c.do(ctx, http.MethodPost, "/transaction/initialize", body)
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK && status != http.StatusCreated {
		return nil, c.reject("initialize", status, raw, "unexpected http status")
	}

	var resp InitializeResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, c.reject("initialize", status, raw, "malformed response body")
	}

	if resp.Status != StatusSuccess || resp.Data == nil {
		return nil, c.reject("initialize", status, raw, fmt.Sprintf("status %q", resp.Status))
	}

	resp.Raw = raw
	return &resp, nil
}

// Verify looks up the outcome of a transaction by its tx_ref.
func (c *Client) Verify(ctx context.Context, txRef string) (*VerifyResponse, error) {
	status, raw, err := c.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(txRef), nil)
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		return nil, c.reject("verify", status, raw, "unexpected http status")
	}

	var resp VerifyResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, c.reject("verify", status, raw, "malformed response body")
	}

	resp.Raw = raw
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build chapa request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[CHAPA] %s %s failed: %v", method, path, err)
		return 0, nil, fmt.Errorf("%w: %v", ErrGatewayUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[CHAPA] %s %s: reading body failed: %v", method, path, err)
		return 0, nil, fmt.Errorf("%w: %v", ErrGatewayUnreachable, err)
	}

	return resp.StatusCode, raw, nil
}

func (c *Client) reject(op string, status int, raw []byte, reason string) error {
	log.Printf("[CHAPA] %s rejected: status=%d reason=%s body=%s", op, status, reason, string(raw))
	return &RejectedError{Op: op, StatusCode: status, Body: raw, Reason: reason}
}
