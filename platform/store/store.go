// Package store provides the client for the hosted tabular data store.
// The store speaks the PostgREST wire protocol: tables are URL paths, column
// projection and filters are query parameters, and writes return the affected
// rows when asked to. The client owns no state beyond the connection settings,
// so a single instance is shared safely across requests.
// This is part of the platform layer and contains no business logic.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"crm_backend/platform/config"
	"crm_backend/platform/logger"
)

// ErrNoRows is returned by single-row reads that matched nothing.
var ErrNoRows = errors.New("store: no rows in result set")

// Error is the uniform failure reported for any store operation. The store
// never returns structured error detail beyond a message; network, auth and
// schema mismatches all surface the same way.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("store: %s (status %d)", e.Message, e.Status)
	}
	return "store: " + e.Message
}

// IsStoreError reports whether err originated in the store client.
func IsStoreError(err error) bool {
	var se *Error
	return errors.As(err, &se)
}

// Client is the connection handle to the external tabular store.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *logger.Logger
}

// New creates a store client from the REST root URL and access key.
func New(cfg config.StoreConfig, log *logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.GetStoreURL(), "/"),
		apiKey:     cfg.GetStoreAPIKey(),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        log,
	}
}

// From starts a table-scoped query.
func (c *Client) From(table string) *Query {
	return &Query{client: c, table: table}
}

// Ping verifies the store is reachable; used by the readiness endpoint.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	c.setHeaders(req, false)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return &Error{Status: resp.StatusCode, Message: "store unreachable"}
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request, write bool) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if write {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=representation")
	}
}

// do executes the request and returns the raw response body, converting every
// failure to the uniform *Error.
func (c *Client) do(ctx context.Context, method, rawURL string, body interface{}, single bool) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Message: "encode request: " + err.Error()}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, &Error{Message: "create request: " + err.Error()}
	}
	c.setHeaders(req, body != nil || method == http.MethodDelete)
	if single {
		req.Header.Set("Accept", "application/vnd.pgrst.object+json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("store request failed", "method", method, "url", rawURL, "error", err)
		return nil, &Error{Message: err.Error()}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Message: "read response: " + err.Error()}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		// A single-object read over zero rows is a miss, not a store fault.
		if single && resp.StatusCode == http.StatusNotAcceptable {
			return nil, ErrNoRows
		}
		message := extractMessage(payload)
		c.log.Error("store request rejected", "method", method, "url", rawURL, "status", resp.StatusCode, "message", message)
		return nil, &Error{Status: resp.StatusCode, Message: message}
	}

	return payload, nil
}

// extractMessage pulls the human-readable message out of a PostgREST error
// body, falling back to the raw body.
func extractMessage(payload []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &body); err == nil && body.Message != "" {
		return body.Message
	}
	trimmed := strings.TrimSpace(string(payload))
	if trimmed == "" {
		return "operation failed"
	}
	return trimmed
}
