package meta

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

// Cache-Control issued on rewritten pages: short public TTL with a
// longer stale-while-revalidate window.
const rewriteCacheControl = "public, max-age=300, stale-while-revalidate=600"

// rewriteHeader marks responses whose head block was injected, for
// debugging share previews.
const rewriteHeader = "X-Meta-Rewrite"

// Rewriter wraps the origin handler and injects social meta into the
// HTML it produces. Each request is handled independently with no state
// shared across invocations beyond the data cache.
type Rewriter struct {
	origin  http.Handler
	cache   *Cache
	profile Profile
	logger  *slog.Logger
}

// NewRewriter creates a rewriter in front of the origin handler.
func NewRewriter(origin http.Handler, cache *Cache, profile Profile, logger *slog.Logger) *Rewriter {
	return &Rewriter{origin: origin, cache: cache, profile: profile, logger: logger}
}

// responseBuffer captures the origin response so it can be either
// rewritten or replayed untouched.
type responseBuffer struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newResponseBuffer() *responseBuffer {
	return &responseBuffer{header: make(http.Header), status: http.StatusOK}
}

func (b *responseBuffer) Header() http.Header { return b.header }

func (b *responseBuffer) WriteHeader(status int) { b.status = status }

func (b *responseBuffer) Write(p []byte) (int, error) { return b.body.Write(p) }

// ServeHTTP fetches the origin response, and for recognized HTML pages
// splices the replacement meta block in. Any failure (source chain
// exhausted, malformed HTML, even a panic) results in the unmodified
// origin response; the user always gets a page.
func (rw *Rewriter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	kind, slug := ClassifyPath(r.URL.Path)
	if kind == PageOther {
		rw.origin.ServeHTTP(w, r)
		return
	}

	// Splicing operates on plain HTML, so the client's Accept-Encoding
	// must not reach the origin: crawlers all negotiate gzip, and a
	// compressed body would never match the splice markers.
	or := r.Clone(r.Context())
	or.Header.Set("Accept-Encoding", "identity")

	buf := newResponseBuffer()
	rw.origin.ServeHTTP(buf, or)

	if body, ok := rw.tryRewrite(r, buf, kind, slug); ok {
		h := w.Header()
		copyHeader(h, buf.header)
		h.Del("Content-Encoding")
		h.Set("Cache-Control", rewriteCacheControl)
		h.Set(rewriteHeader, "1")
		h.Set("Content-Length", strconv.Itoa(len(body)))
		w.WriteHeader(buf.status)
		_, _ = w.Write(body)
		return
	}

	// Passthrough: replay the origin response byte for byte.
	copyHeader(w.Header(), buf.header)
	w.WriteHeader(buf.status)
	_, _ = w.Write(buf.body.Bytes())
}

// tryRewrite attempts the full load→build→splice pipeline. It recovers
// panics so a bug in tag generation can never take down page delivery.
func (rw *Rewriter) tryRewrite(r *http.Request, buf *responseBuffer, kind PageKind, slug string) (body []byte, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			rw.logger.Error("meta: rewrite panicked", slog.Any("panic", rec), slog.String("path", r.URL.Path))
			body, ok = nil, false
		}
	}()

	if buf.status != http.StatusOK || !isHTML(buf.header) {
		return nil, false
	}

	// Some origins compress unconditionally, ignoring Accept-Encoding.
	html, err := decodeBody(buf)
	if err != nil {
		rw.logger.Warn("meta: cannot decode origin body", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		return nil, false
	}

	data, source, err := rw.cache.Get(r.Context())
	if err != nil {
		rw.logger.Warn("meta: all data sources failed", slog.String("error", err.Error()))
		return nil, false
	}

	pageMeta := BuildPageMeta(kind, slug, data, rw.profile, rw.logger)
	block := RenderMetaBlock(pageMeta, rw.profile.SiteName)

	rewritten, err := Splice(html, block)
	if err != nil {
		rw.logger.Warn("meta: splice failed", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		return nil, false
	}

	rw.logger.Debug("meta: injected",
		slog.String("path", r.URL.Path),
		slog.String("source", source),
		slog.String("og_type", pageMeta.OGType))
	return []byte(rewritten), true
}

// decodeBody returns the buffered body as plain HTML. Gzip bodies are
// inflated; any other Content-Encoding is unsupported and forces
// passthrough.
func decodeBody(buf *responseBuffer) (string, error) {
	enc := buf.header.Get("Content-Encoding")
	switch {
	case enc == "" || strings.EqualFold(enc, "identity"):
		return buf.body.String(), nil
	case strings.EqualFold(enc, "gzip"):
		zr, err := gzip.NewReader(bytes.NewReader(buf.body.Bytes()))
		if err != nil {
			return "", err
		}
		defer zr.Close()
		plain, err := io.ReadAll(zr)
		if err != nil {
			return "", err
		}
		return string(plain), nil
	default:
		return "", fmt.Errorf("unsupported content encoding %q", enc)
	}
}

func isHTML(h http.Header) bool {
	ct := h.Get("Content-Type")
	return ct == "" || strings.Contains(ct, "text/html")
}

func copyHeader(dst, src http.Header) {
	for k, values := range src {
		for _, v := range values {
			dst.Add(k, v)
		}
	}
}
