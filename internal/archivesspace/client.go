package archivesspace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"aquarius/internal/config"
	"aquarius/internal/logging"
)

// Record kinds accepted by Create and GetOrCreate.
const (
	KindAccession         = "accession"
	KindComponent         = "component"
	KindGroupingComponent = "grouping_component"
	KindDigitalObject     = "digital object"
	KindPerson            = "person"
	KindOrganization      = "organization"
	KindFamily            = "family"
)

// indexLagWindow widens fallback scans to compensate for search-index delay.
const indexLagWindow = 120 * time.Second

// HTTPDoer describes the HTTP client used by the ArchivesSpace client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a session-authenticated ArchivesSpace API client.
type Client struct {
	baseURL  string
	username string
	password string
	repoID   int
	client   HTTPDoer
	logger   *slog.Logger

	mu      sync.Mutex
	session string
}

// NewClient constructs a client from configuration.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	timeout := time.Duration(cfg.ArchivesSpace.RequestTimeout) * time.Second
	return &Client{
		baseURL:  strings.TrimRight(cfg.ArchivesSpace.BaseURL, "/"),
		username: cfg.ArchivesSpace.Username,
		password: cfg.ArchivesSpace.Password,
		repoID:   cfg.ArchivesSpace.RepositoryID,
		client:   &http.Client{Timeout: timeout},
		logger:   logging.NewComponentLogger(logger, "archivesspace"),
	}
}

type kindRoute struct {
	endpoint   string
	searchType string
}

func (c *Client) routeFor(kind string) (kindRoute, error) {
	switch kind {
	case KindAccession:
		return kindRoute{fmt.Sprintf("repositories/%d/accessions", c.repoID), "accession"}, nil
	case KindComponent, KindGroupingComponent:
		return kindRoute{fmt.Sprintf("repositories/%d/archival_objects", c.repoID), "archival_object"}, nil
	case KindDigitalObject:
		return kindRoute{fmt.Sprintf("repositories/%d/digital_objects", c.repoID), "digital_object"}, nil
	case KindPerson:
		return kindRoute{"agents/people", "agent_person"}, nil
	case KindOrganization:
		return kindRoute{"agents/corporate_entities", "agent_corporate_entity"}, nil
	case KindFamily:
		return kindRoute{"agents/families", "agent_family"}, nil
	default:
		return kindRoute{}, fmt.Errorf("unknown record kind %q", kind)
	}
}

func (c *Client) authenticate(ctx context.Context) (string, error) {
	loginURL := fmt.Sprintf("%s/users/%s/login?password=%s",
		c.baseURL, url.PathEscape(c.username), url.QueryEscape(c.password))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: build login request: %w", ErrAuth, err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuth, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: login returned %d", ErrAuth, resp.StatusCode)
	}
	var payload struct {
		Session string `json:"session"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: decode login response: %w", ErrAuth, err)
	}
	if payload.Session == "" {
		return "", fmt.Errorf("%w: empty session token", ErrAuth)
	}
	return payload.Session, nil
}

func (c *Client) sessionToken(ctx context.Context, refresh bool) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != "" && !refresh {
		return c.session, nil
	}
	token, err := c.authenticate(ctx)
	if err != nil {
		return "", err
	}
	c.session = token
	return token, nil
}

// do issues a request against the API, re-authenticating once when the
// session has expired.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		payload = data
	}

	endpoint := fmt.Sprintf("%s/%s", c.baseURL, strings.TrimLeft(path, "/"))
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	refresh := false
	for attempt := 0; attempt < 2; attempt++ {
		token, err := c.sessionToken(ctx, refresh)
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
		req.Header.Set("X-ArchivesSpace-Session", token)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		if (resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusPreconditionFailed) && attempt == 0 {
			_ = resp.Body.Close()
			refresh = true
			continue
		}
		return resp, nil
	}
	return nil, fmt.Errorf("%w: session refresh exhausted", ErrAuth)
}

type uriResponse struct {
	URI string `json:"uri"`
}

// Create posts a new record of the given kind and returns its reference.
func (c *Client) Create(ctx context.Context, kind string, payload any) (string, error) {
	route, err := c.routeFor(kind)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCreate, err)
	}

	requestID := uuid.NewString()
	resp, err := c.do(ctx, http.MethodPost, route.endpoint, nil, payload)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCreate, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if isDuplicateAccessionNumber(body) {
			return "", fmt.Errorf("%w: %s", ErrDuplicateAccessionNumber, strings.TrimSpace(string(body)))
		}
		return "", fmt.Errorf("%w: %s returned %d: %s", ErrCreate, route.endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result uriResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", ErrCreate, err)
	}
	c.logger.Debug("record created",
		logging.String("kind", kind),
		logging.String("uri", result.URI),
		logging.String(logging.FieldCorrelationID, requestID))
	return result.URI, nil
}

// isDuplicateAccessionNumber recognizes the identifier-collision error body.
func isDuplicateAccessionNumber(body []byte) bool {
	text := strings.ToLower(string(body))
	return strings.Contains(text, "id_1") ||
		strings.Contains(text, "identifier") && strings.Contains(text, "already in use")
}

// Retrieve fetches a record by reference into out.
func (c *Client) Retrieve(ctx context.Context, ref string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, ref, nil, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRetrieve, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned %d", ErrRetrieve, ref, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrRetrieve, err)
	}
	return nil
}

// RetrieveJSON fetches a record by reference as a generic document.
func (c *Client) RetrieveJSON(ctx context.Context, ref string) (map[string]any, error) {
	var record map[string]any
	if err := c.Retrieve(ctx, ref, &record); err != nil {
		return nil, err
	}
	return record, nil
}

// Update posts changed data to an existing record's reference.
func (c *Client) Update(ctx context.Context, ref string, payload any) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, ref, nil, payload)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpdate, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: %s returned %d: %s", ErrUpdate, ref, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var result uriResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", ErrUpdate, err)
	}
	return result.URI, nil
}

type searchResponse struct {
	TotalHits int `json:"total_hits"`
	Results   []struct {
		URI        string `json:"uri"`
		Identifier string `json:"identifier"`
	} `json:"results"`
}

func (c *Client) search(ctx context.Context, recordType, field, value, sort string) (*searchResponse, error) {
	aq, err := json.Marshal(map[string]any{
		"query": map[string]any{
			"field":          field,
			"value":          value,
			"jsonmodel_type": "field_query",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	query := url.Values{}
	query.Set("page", "1")
	query.Set("type[]", recordType)
	query.Set("aq", string(aq))
	if sort != "" {
		query.Set("sort", sort)
	}

	resp, err := c.do(ctx, http.MethodGet, "search", query, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned %d", resp.StatusCode)
	}
	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return &result, nil
}

// GetOrCreate searches the index for a record of kind where field == value.
// Because the index lags behind writes, a zero-hit search falls back to a
// bounded scan of records modified since `since` minus the lag window,
// comparing field literally. Create runs only when both passes miss.
func (c *Client) GetOrCreate(ctx context.Context, kind, field, value string, since time.Time, payload any) (string, error) {
	route, err := c.routeFor(kind)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrLookup, err)
	}

	result, err := c.search(ctx, route.searchType, field, value, "")
	if err != nil {
		return "", fmt.Errorf("%w: index search: %w", ErrLookup, err)
	}
	if len(result.Results) > 0 {
		return result.Results[0].URI, nil
	}

	ref, found, err := c.scanModifiedSince(ctx, route.endpoint, field, value, since.Add(-indexLagWindow))
	if err != nil {
		return "", fmt.Errorf("%w: fallback scan: %w", ErrLookup, err)
	}
	if found {
		return ref, nil
	}

	c.logger.Debug("no match found, creating record",
		logging.String("kind", kind),
		logging.String("field", field),
		logging.String("value", value))
	return c.Create(ctx, kind, payload)
}

// scanModifiedSince lists records changed since the cutoff and compares the
// requested field literally against value.
func (c *Client) scanModifiedSince(ctx context.Context, endpoint, field, value string, cutoff time.Time) (string, bool, error) {
	query := url.Values{}
	query.Set("all_ids", "true")
	query.Set("modified_since", fmt.Sprintf("%d", cutoff.Unix()))

	resp, err := c.do(ctx, http.MethodGet, endpoint, query, nil)
	if err != nil {
		return "", false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("%s returned %d", endpoint, resp.StatusCode)
	}
	var ids []int64
	if err := json.NewDecoder(resp.Body).Decode(&ids); err != nil {
		return "", false, fmt.Errorf("decode id list: %w", err)
	}

	for _, id := range ids {
		record, err := c.RetrieveJSON(ctx, fmt.Sprintf("%s/%d", endpoint, id))
		if err != nil {
			return "", false, err
		}
		if candidate, ok := record[field].(string); ok && candidate == value {
			if uri, ok := record["uri"].(string); ok {
				return uri, true, nil
			}
		}
	}
	return "", false, nil
}
