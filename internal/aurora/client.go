package aurora

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"aquarius/internal/config"
	"aquarius/internal/logging"
)

var (
	// ErrClient indicates a non-success response from the source system.
	ErrClient = errors.New("aurora client error")
	// ErrNotFound indicates a lookup returned zero or an unexpected number
	// of results.
	ErrNotFound = errors.New("aurora record not found")
)

// HTTPDoer describes the HTTP client used by the Aurora client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a token-authenticated client for the source system of record.
type Client struct {
	baseURL  string
	username string
	password string
	client   HTTPDoer
	logger   *slog.Logger

	mu    sync.Mutex
	token string
}

// NewClient constructs a client from configuration.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	timeout := time.Duration(cfg.Aurora.RequestTimeout) * time.Second
	return &Client{
		baseURL:  strings.TrimRight(cfg.Aurora.BaseURL, "/"),
		username: cfg.Aurora.Username,
		password: cfg.Aurora.Password,
		client:   &http.Client{Timeout: timeout},
		logger:   logging.NewComponentLogger(logger, "aurora"),
	}
}

func (c *Client) authenticate(ctx context.Context) (string, error) {
	body, err := json.Marshal(map[string]string{
		"username": c.username,
		"password": c.password,
	})
	if err != nil {
		return "", fmt.Errorf("encode credentials: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/get-token/", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrClient, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token endpoint returned %d", ErrClient, resp.StatusCode)
	}
	var payload struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: decode token response: %w", ErrClient, err)
	}
	if payload.Token == "" {
		return "", fmt.Errorf("%w: empty token", ErrClient)
	}
	return payload.Token, nil
}

func (c *Client) bearerToken(ctx context.Context, refresh bool) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && !refresh {
		return c.token, nil
	}
	token, err := c.authenticate(ctx)
	if err != nil {
		return "", err
	}
	c.token = token
	return token, nil
}

// resolveURL accepts absolute URLs as well as paths relative to the base.
func (c *Client) resolveURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return trimmed
	}
	return c.baseURL + "/" + strings.TrimLeft(trimmed, "/")
}

func (c *Client) do(ctx context.Context, method, rawURL string, query url.Values, body any) (*http.Response, error) {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		payload = data
	}

	endpoint := c.resolveURL(rawURL)
	if len(query) > 0 {
		separator := "?"
		if strings.Contains(endpoint, "?") {
			separator = "&"
		}
		endpoint += separator + query.Encode()
	}

	refresh := false
	for attempt := 0; attempt < 2; attempt++ {
		token, err := c.bearerToken(ctx, refresh)
		if err != nil {
			return nil, err
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrClient, err)
		}
		if resp.StatusCode == http.StatusUnauthorized && attempt == 0 {
			_ = resp.Body.Close()
			refresh = true
			continue
		}
		return resp, nil
	}
	return nil, fmt.Errorf("%w: token refresh exhausted", ErrClient)
}

// Retrieve fetches a record by URL into out.
func (c *Client) Retrieve(ctx context.Context, rawURL string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, rawURL, nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, rawURL)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned %d", ErrClient, rawURL, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrClient, err)
	}
	return nil
}

type pagedResponse struct {
	Next    string            `json:"next"`
	Results []json.RawMessage `json:"results"`
}

// RetrievePaged walks a paginated list endpoint and returns every result.
func (c *Client) RetrievePaged(ctx context.Context, rawURL string, params url.Values) ([]json.RawMessage, error) {
	var results []json.RawMessage
	next := rawURL
	query := params
	for next != "" {
		resp, err := c.do(ctx, http.MethodGet, next, query, nil)
		if err != nil {
			return nil, err
		}
		var page pagedResponse
		decodeErr := json.NewDecoder(resp.Body).Decode(&page)
		status := resp.StatusCode
		_ = resp.Body.Close()
		if status != http.StatusOK {
			return nil, fmt.Errorf("%w: %s returned %d", ErrClient, next, status)
		}
		if decodeErr != nil {
			return nil, fmt.Errorf("%w: decode page: %w", ErrClient, decodeErr)
		}
		results = append(results, page.Results...)
		next = page.Next
		query = nil // the next link already carries its parameters
	}
	return results, nil
}

// Update sends changed record data back to the source system.
func (c *Client) Update(ctx context.Context, rawURL string, record any) error {
	resp, err := c.do(ctx, http.MethodPut, rawURL, nil, record)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: update %s returned %d: %s", ErrClient, rawURL, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	c.logger.Debug("record updated", logging.String("url", rawURL))
	return nil
}

// FindBagByID looks up a bag record by identifier and decodes the full
// record into out. Exactly one listing must match.
func (c *Client) FindBagByID(ctx context.Context, identifier string, out any) error {
	query := url.Values{}
	query.Set("id", identifier)
	resp, err := c.do(ctx, http.MethodGet, "bags/", query, nil)
	if err != nil {
		return err
	}
	var listing []struct {
		URL string `json:"url"`
	}
	decodeErr := json.NewDecoder(resp.Body).Decode(&listing)
	status := resp.StatusCode
	_ = resp.Body.Close()
	if status != http.StatusOK {
		return fmt.Errorf("%w: bag listing returned %d", ErrClient, status)
	}
	if decodeErr != nil {
		return fmt.Errorf("%w: decode bag listing: %w", ErrClient, decodeErr)
	}
	if len(listing) != 1 {
		return fmt.Errorf("%w: expected exactly 1 bag for %q, got %d", ErrNotFound, identifier, len(listing))
	}
	return c.Retrieve(ctx, listing[0].URL, out)
}
