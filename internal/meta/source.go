package meta

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/portfolio"
)

// Source is one strategy for loading portfolio data. Sources are
// evaluated in order by a Chain; the first success wins.
type Source interface {
	Name() string
	Load(ctx context.Context) (*portfolio.Data, error)
}

// DataURLSource fetches the full portfolio data JSON from a CDN URL.
type DataURLSource struct {
	URL    string
	Client *http.Client
}

func (s *DataURLSource) Name() string { return "cdn-data" }

func (s *DataURLSource) Load(ctx context.Context) (*portfolio.Data, error) {
	body, err := fetchJSON(ctx, s.Client, s.URL)
	if err != nil {
		return nil, err
	}
	var data portfolio.Data
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("meta: decode portfolio data: %w", err)
	}
	return &data, nil
}

// ShareURLSource fetches the lightweight share manifest from a CDN URL
// and expands it into sparse portfolio data.
type ShareURLSource struct {
	URL    string
	Client *http.Client
}

func (s *ShareURLSource) Name() string { return "cdn-share" }

func (s *ShareURLSource) Load(ctx context.Context) (*portfolio.Data, error) {
	body, err := fetchJSON(ctx, s.Client, s.URL)
	if err != nil {
		return nil, err
	}
	var manifest portfolio.ShareManifest
	if err := json.Unmarshal(body, &manifest); err != nil {
		return nil, fmt.Errorf("meta: decode share manifest: %w", err)
	}
	data := manifest.Data()
	return &data, nil
}

// FileReader is the subset of the artifact store the file source needs.
type FileReader interface {
	Read(path string) ([]byte, error)
}

// ShareFileSource reads the local share manifest fallback, the last tier
// of the chain.
type ShareFileSource struct {
	Store FileReader
	Path  string
}

func (s *ShareFileSource) Name() string { return "local-share" }

func (s *ShareFileSource) Load(_ context.Context) (*portfolio.Data, error) {
	body, err := s.Store.Read(s.Path)
	if err != nil {
		return nil, err
	}
	var manifest portfolio.ShareManifest
	if err := json.Unmarshal(body, &manifest); err != nil {
		return nil, fmt.Errorf("meta: decode local share manifest: %w", err)
	}
	data := manifest.Data()
	return &data, nil
}

func fetchJSON(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("meta: new request %s: %w", url, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("meta: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("meta: fetch %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 10<<20))
}

// Chain evaluates sources in order and returns the first success along
// with the winning source's name. Each failed attempt is logged, not
// accumulated; the rewriter only needs something to work with.
type Chain struct {
	Sources []Source
	Logger  *slog.Logger
}

// Load walks the chain. Returns apperr.ErrNoData when every source fails.
func (c *Chain) Load(ctx context.Context) (*portfolio.Data, string, error) {
	for _, src := range c.Sources {
		data, err := src.Load(ctx)
		if err != nil {
			if c.Logger != nil {
				c.Logger.Debug("meta: source failed",
					slog.String("source", src.Name()),
					slog.String("error", err.Error()))
			}
			continue
		}
		return data, src.Name(), nil
	}
	return nil, "", apperr.ErrNoData
}

// Cache wraps a Chain with a TTL. The clock is injectable so tests can
// advance time without sleeping; a nil now defaults to time.Now.
type Cache struct {
	chain *Chain
	ttl   time.Duration
	now   func() time.Time

	mu        sync.Mutex
	data      *portfolio.Data
	source    string
	fetchedAt time.Time
}

// NewCache creates a cache over the chain.
func NewCache(chain *Chain, ttl time.Duration, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{chain: chain, ttl: ttl, now: now}
}

// Get returns cached data while fresh, otherwise reloads through the
// chain. A reload failure keeps serving stale data if any exists.
func (c *Cache) Get(ctx context.Context) (*portfolio.Data, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.data != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.data, c.source, nil
	}

	data, source, err := c.chain.Load(ctx)
	if err != nil {
		if c.data != nil {
			return c.data, c.source, nil
		}
		return nil, "", err
	}
	c.data = data
	c.source = source
	c.fetchedAt = c.now()
	return data, source, nil
}

// Invalidate drops the cached data, forcing the next Get to reload.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.data = nil
	c.mu.Unlock()
}
