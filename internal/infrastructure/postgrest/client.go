package postgrest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"resty.dev/v3"

	"github.com/zjrosen/signup/internal/log"
	"github.com/zjrosen/signup/internal/registry/domain"
)

const (
	restPath      = "/rest/v1"
	defaultSchema = "public"
	userAgent     = "signup-go"
)

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// URL is the project endpoint, e.g. https://xyzcompany.supabase.co.
	URL string
	// Key is the project access key.
	Key string
	// Schema selects the exposed database schema. Empty means "public".
	Schema string
	// Timeout bounds each request. Zero means no client-side timeout.
	Timeout time.Duration
}

// Client talks to one hosted project. It is safe for concurrent use.
type Client struct {
	rest    *resty.Client
	baseURL string
	schema  string
}

// NewClient validates cfg and builds a Client. No request is made.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, ErrMissingURL
	}
	if cfg.Key == "" {
		return nil, ErrMissingKey
	}
	parsed, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("postgrest: invalid URL %q: %w", cfg.URL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("postgrest: invalid URL %q: scheme must be http or https", cfg.URL)
	}

	schema := cfg.Schema
	if schema == "" {
		schema = defaultSchema
	}

	baseURL := strings.TrimRight(cfg.URL, "/") + restPath
	rest := resty.New().
		SetBaseURL(baseURL).
		SetHeader("apikey", cfg.Key).
		SetAuthToken(cfg.Key).
		SetHeader("User-Agent", userAgent)
	if cfg.Timeout > 0 {
		rest.SetTimeout(cfg.Timeout)
	}

	return &Client{rest: rest, baseURL: baseURL, schema: schema}, nil
}

// BaseURL returns the REST root requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Close releases idle connections.
func (c *Client) Close() error {
	return c.rest.Close()
}

// Table returns a handle on the named table.
func (c *Client) Table(name string) *Table {
	return &Table{client: c, name: name}
}

// Table is a domain.Table backed by one remote table.
type Table struct {
	client *Client
	name   string
}

var _ domain.Table = (*Table)(nil)

// Name returns the remote table name.
func (t *Table) Name() string {
	return t.name
}

func (t *Table) request(ctx context.Context) (*resty.Request, string) {
	requestID := uuid.NewString()
	req := t.client.rest.R().
		SetContext(ctx).
		SetPathParam("table", t.name).
		SetHeader("X-Request-Id", requestID)
	return req, requestID
}

// SelectAll fetches every row. A null or empty body is an empty table.
func (t *Table) SelectAll(ctx context.Context) ([]domain.Registrant, error) {
	req, requestID := t.request(ctx)
	res, err := req.
		SetHeader("Accept", "application/json").
		SetHeader("Accept-Profile", t.client.schema).
		SetQueryParam("select", "*").
		Get("/{table}")
	if err != nil {
		log.ErrorErr(log.CatRemote, "select failed", err, "table", t.name, "request_id", requestID)
		return nil, fmt.Errorf("postgrest: select %s: %w", t.name, err)
	}
	if res.IsError() {
		apiErr := newAPIError(res.StatusCode(), res.String())
		log.ErrorErr(log.CatRemote, "select rejected", apiErr, "table", t.name, "request_id", requestID)
		return nil, apiErr
	}

	rows, err := decodeRows(res.String())
	if err != nil {
		return nil, fmt.Errorf("postgrest: select %s: %w", t.name, err)
	}
	log.Debug(log.CatRemote, "select ok", "table", t.name, "rows", len(rows), "request_id", requestID)
	return rows, nil
}

// Insert posts a single row and asks the server not to echo it back.
func (t *Table) Insert(ctx context.Context, r domain.Registrant) error {
	req, requestID := t.request(ctx)
	res, err := req.
		SetHeader("Content-Type", "application/json").
		SetHeader("Content-Profile", t.client.schema).
		SetHeader("Prefer", "return=minimal").
		SetBody(r).
		Post("/{table}")
	if err != nil {
		log.ErrorErr(log.CatRemote, "insert failed", err, "table", t.name, "request_id", requestID)
		return fmt.Errorf("postgrest: insert into %s: %w", t.name, err)
	}
	if res.IsError() {
		apiErr := newAPIError(res.StatusCode(), res.String())
		log.ErrorErr(log.CatRemote, "insert rejected", apiErr, "table", t.name, "request_id", requestID)
		return apiErr
	}
	log.Debug(log.CatRemote, "insert ok", "table", t.name, "status", res.StatusCode(), "request_id", requestID)
	return nil
}

// decodeRows keeps name and data and ignores any service-managed columns.
func decodeRows(body string) ([]domain.Registrant, error) {
	body = strings.TrimSpace(body)
	if body == "" || body == "null" {
		return []domain.Registrant{}, nil
	}
	var rows []domain.Registrant
	if err := json.Unmarshal([]byte(body), &rows); err != nil {
		return nil, fmt.Errorf("decoding rows: %w", err)
	}
	if rows == nil {
		rows = []domain.Registrant{}
	}
	return rows, nil
}
