package airtable

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.airtable.com/v0"

// idChunkSize bounds the number of RECORD_ID() clauses per filter formula
// to keep the request URL within Airtable's length limits.
const idChunkSize = 50

// Client fetches records from one Airtable base.
type Client struct {
	httpClient *http.Client
	baseURL    string
	baseID     string
	token      string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (used by tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the given base. Credentials are validated by
// the caller's config layer before any client is constructed.
func New(baseID, token string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		baseID:     baseID,
		token:      token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchOptions narrow a table fetch. The zero value fetches every record
// with every field in table order.
type FetchOptions struct {
	// SortField, when set, sorts descending on that field.
	SortField string
	// Fields, when set, restricts the payload to the named fields.
	Fields []string
	// Filter is an Airtable filterByFormula expression.
	Filter string
}

type recordsPage struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset"`
}

// FetchAll returns the complete record list for a table, transparently
// following pagination offsets until exhausted. HTTP 429 yields a
// *RateLimitError; any other non-2xx status yields a *FetchError. No
// retry is attempted here; backoff policy belongs to the caller.
func (c *Client) FetchAll(ctx context.Context, table string, opts FetchOptions) ([]Record, error) {
	var all []Record
	offset := ""
	for {
		page, err := c.fetchPage(ctx, table, opts, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Records...)
		if page.Offset == "" {
			return all, nil
		}
		offset = page.Offset
	}
}

// FetchStamps pages through a table requesting only record ids plus the
// named last-modified field, for cheap staleness checks.
func (c *Client) FetchStamps(ctx context.Context, table, modifiedField string) ([]Stamp, error) {
	records, err := c.FetchAll(ctx, table, FetchOptions{Fields: []string{modifiedField}})
	if err != nil {
		return nil, err
	}
	stamps := make([]Stamp, 0, len(records))
	for _, rec := range records {
		stamps = append(stamps, Stamp{ID: rec.ID, LastModified: rec.Str(modifiedField)})
	}
	return stamps, nil
}

// FetchByIDs retrieves only the named records via an OR-of-id-equality
// filter formula, chunked to respect URL length limits. Order of the
// result follows the API's response order, not the input order.
func (c *Client) FetchByIDs(ctx context.Context, table string, ids []string) ([]Record, error) {
	var all []Record
	for start := 0; start < len(ids); start += idChunkSize {
		end := min(start+idChunkSize, len(ids))
		records, err := c.FetchAll(ctx, table, FetchOptions{Filter: idFilter(ids[start:end])})
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
	}
	return all, nil
}

// idFilter builds OR(RECORD_ID()='rec1',RECORD_ID()='rec2',...).
func idFilter(ids []string) string {
	if len(ids) == 1 {
		return fmt.Sprintf("RECORD_ID()='%s'", ids[0])
	}
	clauses := make([]string, len(ids))
	for i, id := range ids {
		clauses[i] = fmt.Sprintf("RECORD_ID()='%s'", id)
	}
	return "OR(" + strings.Join(clauses, ",") + ")"
}

func (c *Client) fetchPage(ctx context.Context, table string, opts FetchOptions, offset string) (*recordsPage, error) {
	q := url.Values{}
	q.Set("pageSize", "100")
	if opts.SortField != "" {
		q.Set("sort[0][field]", opts.SortField)
		q.Set("sort[0][direction]", "desc")
	}
	for _, f := range opts.Fields {
		q.Add("fields[]", f)
	}
	if opts.Filter != "" {
		q.Set("filterByFormula", opts.Filter)
	}
	if offset != "" {
		q.Set("offset", offset)
	}

	reqURL := fmt.Sprintf("%s/%s/%s?%s", c.baseURL, c.baseID, url.PathEscape(table), q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("airtable: new request for %s: %w", table, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("airtable: fetch %s: %w", table, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &RateLimitError{Table: table}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, &FetchError{Table: table, Status: resp.StatusCode}
	}

	var page recordsPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("airtable: decode %s page: %w", table, err)
	}
	return &page, nil
}
