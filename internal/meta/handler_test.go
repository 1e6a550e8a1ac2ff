package meta

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func htmlOrigin(status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

func testRewriter(origin http.Handler, sources ...Source) *Rewriter {
	cache := NewCache(&Chain{Sources: sources}, time.Minute, nil)
	return NewRewriter(origin, cache, testProfile(), testLogger())
}

func TestRewriter_InjectsMeta(t *testing.T) {
	rw := testRewriter(htmlOrigin(http.StatusOK, originHTML), &stubSource{name: "s", data: testData()})

	req := httptest.NewRequest(http.MethodGet, "/work/midnight-harvest", nil)
	rec := httptest.NewRecorder()
	rw.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("X-Meta-Rewrite"); got != "1" {
		t.Errorf("X-Meta-Rewrite = %q", got)
	}
	if got := rec.Header().Get("Cache-Control"); got != "public, max-age=300, stale-while-revalidate=600" {
		t.Errorf("Cache-Control = %q", got)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "<title>Midnight Harvest | Alex Marlowe</title>") {
		t.Errorf("title not injected:\n%s", body)
	}
	if !strings.Contains(body, `<meta property="og:type" content="video.movie">`) {
		t.Error("og:type not injected")
	}
	if !strings.Contains(body, "<body><h1>Page</h1></body>") {
		t.Error("origin body altered")
	}
	if strings.Contains(body, "Old Title") {
		t.Error("origin head survived")
	}
}

func TestRewriter_UnknownPathPassthrough(t *testing.T) {
	origin := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/css")
		_, _ = io.WriteString(w, "body{}")
	})
	rw := testRewriter(origin, &stubSource{name: "s", data: testData()})

	rec := httptest.NewRecorder()
	rw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/css/app.css", nil))

	if rec.Header().Get("X-Meta-Rewrite") != "" {
		t.Error("rewrite header on passthrough")
	}
	if rec.Body.String() != "body{}" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestRewriter_OriginErrorPassthrough(t *testing.T) {
	rw := testRewriter(htmlOrigin(http.StatusNotFound, "<html>not found</html>"),
		&stubSource{name: "s", data: testData()})

	rec := httptest.NewRecorder()
	rw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/work/x", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 preserved", rec.Code)
	}
	if rec.Header().Get("X-Meta-Rewrite") != "" {
		t.Error("rewrite header on error passthrough")
	}
	if rec.Body.String() != "<html>not found</html>" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestRewriter_NonHTMLPassthrough(t *testing.T) {
	origin := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"ok":true}`)
	})
	rw := testRewriter(origin, &stubSource{name: "s", data: testData()})

	rec := httptest.NewRecorder()
	rw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/work/midnight-harvest", nil))

	if rec.Header().Get("X-Meta-Rewrite") != "" {
		t.Error("rewrite header on non-HTML response")
	}
	if rec.Body.String() != `{"ok":true}` {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestRewriter_AllSourcesFailPassthrough(t *testing.T) {
	rw := testRewriter(htmlOrigin(http.StatusOK, originHTML),
		&stubSource{name: "a", err: errors.New("down")},
		&stubSource{name: "b", err: errors.New("down")})

	rec := httptest.NewRecorder()
	rw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/work/midnight-harvest", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
	if rec.Header().Get("X-Meta-Rewrite") != "" {
		t.Error("rewrite header despite no data")
	}
	if rec.Body.String() != originHTML {
		t.Error("origin body not preserved byte for byte")
	}
}

func TestRewriter_MalformedOriginPassthrough(t *testing.T) {
	// Origin HTML without a canonical link cannot be spliced.
	rw := testRewriter(htmlOrigin(http.StatusOK, "<html><head><title>t</title></head></html>"),
		&stubSource{name: "s", data: testData()})

	rec := httptest.NewRecorder()
	rw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/work/midnight-harvest", nil))

	if rec.Header().Get("X-Meta-Rewrite") != "" {
		t.Error("rewrite header despite splice failure")
	}
	if rec.Body.String() != "<html><head><title>t</title></head></html>" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func gzipBytes(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(s)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// The client's Accept-Encoding must never reach the origin: a gzip
// body would defeat the splice markers.
func TestRewriter_ClientAcceptEncodingNotForwarded(t *testing.T) {
	origin := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			w.Header().Set("Content-Encoding", "gzip")
			_, _ = w.Write(gzipBytes(t, originHTML))
			return
		}
		_, _ = io.WriteString(w, originHTML)
	})
	rw := testRewriter(origin, &stubSource{name: "s", data: testData()})

	req := httptest.NewRequest(http.MethodGet, "/work/midnight-harvest", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	rw.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Meta-Rewrite"); got != "1" {
		t.Fatalf("X-Meta-Rewrite = %q, want rewrite despite gzip-capable client", got)
	}
	if !strings.Contains(rec.Body.String(), "<title>Midnight Harvest | Alex Marlowe</title>") {
		t.Errorf("title not injected:\n%s", rec.Body.String())
	}
	if rec.Header().Get("Content-Encoding") != "" {
		t.Error("rewritten response must not claim an encoding")
	}
}

func TestRewriter_OriginForcedGzip(t *testing.T) {
	// Some hosts compress unconditionally, ignoring Accept-Encoding.
	origin := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write(gzipBytes(t, originHTML))
	})
	rw := testRewriter(origin, &stubSource{name: "s", data: testData()})

	rec := httptest.NewRecorder()
	rw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/work/midnight-harvest", nil))

	if got := rec.Header().Get("X-Meta-Rewrite"); got != "1" {
		t.Fatalf("X-Meta-Rewrite = %q, want rewrite of inflated body", got)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `<meta property="og:type" content="video.movie">`) {
		t.Errorf("og:type not injected:\n%s", body)
	}
	if rec.Header().Get("Content-Encoding") != "" {
		t.Error("Content-Encoding header survived the inflate")
	}
}

func TestRewriter_UnknownEncodingPassthrough(t *testing.T) {
	origin := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Encoding", "br")
		_, _ = io.WriteString(w, "brotli-bytes")
	})
	rw := testRewriter(origin, &stubSource{name: "s", data: testData()})

	rec := httptest.NewRecorder()
	rw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/work/midnight-harvest", nil))

	if rec.Header().Get("X-Meta-Rewrite") != "" {
		t.Error("rewrite header despite undecodable encoding")
	}
	if rec.Body.String() != "brotli-bytes" {
		t.Errorf("body = %q, want origin bytes untouched", rec.Body.String())
	}
	if rec.Header().Get("Content-Encoding") != "br" {
		t.Error("passthrough must preserve the origin encoding header")
	}
}

func TestRewriter_HomePage(t *testing.T) {
	rw := testRewriter(htmlOrigin(http.StatusOK, originHTML), &stubSource{name: "s", data: testData()})

	rec := httptest.NewRecorder()
	rw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	body := rec.Body.String()
	if !strings.Contains(body, `<meta property="og:type" content="website">`) {
		t.Error("home page should carry og:type website")
	}
	if !strings.Contains(body, `"@type":"Person"`) {
		t.Error("home page should carry a Person JSON-LD block")
	}
}
