package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/folio/internal/api"
	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/meta"
	"github.com/starford/folio/internal/portfolio"
	"github.com/starford/folio/internal/syncer"
	"github.com/starford/folio/internal/testutil"
)

type stubSource struct {
	data *portfolio.Data
	err  error
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Load(context.Context) (*portfolio.Data, error) {
	return s.data, s.err
}

type fakeSyncer struct {
	result *syncer.Result
	err    error
}

func (f *fakeSyncer) Run(context.Context) (*syncer.Result, error)            { return f.result, f.err }
func (f *fakeSyncer) RunIncremental(context.Context) (*syncer.Result, error) { return f.result, f.err }

func testData() *portfolio.Data {
	return &portfolio.Data{
		Projects: []portfolio.Project{
			{ID: "r1", Slug: "midnight-harvest", Title: "Midnight Harvest", Category: "Narrative", DisplayStatus: "Public"},
			{ID: "r2", Slug: "brand-spot", Title: "Brand Spot", Category: "Commercial", DisplayStatus: "Public"},
		},
		Posts: []portfolio.JournalPost{
			{ID: "r3", Slug: "on-colour", Title: "On Colour", ReadingTime: "1 min read", Status: "Published"},
		},
		Config: portfolio.SiteConfig{OwnerName: "Alex Marlowe"},
	}
}

func testServer(t *testing.T, src meta.Source, sync api.Syncer) *Server {
	t.Helper()
	db := testutil.TestDB(t)
	cache := meta.NewCache(&meta.Chain{Sources: []meta.Source{src}}, time.Minute, nil)
	svc := api.NewService(cache, sync, db)
	return New(svc, meta.ProfileForMode(meta.ModeDirecting, "https://site.example.com"))
}

func toolReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type %T", result.Content[0])
	}
	return text.Text
}

func TestListProjects(t *testing.T) {
	s := testServer(t, &stubSource{data: testData()}, nil)

	result, err := s.listProjects(context.Background(), toolReq(nil))
	if err != nil {
		t.Fatal(err)
	}
	var rows []map[string]any
	if err := json.Unmarshal([]byte(resultText(t, result)), &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Errorf("rows = %d, want 2", len(rows))
	}
}

func TestListProjects_CategoryFilter(t *testing.T) {
	s := testServer(t, &stubSource{data: testData()}, nil)

	result, err := s.listProjects(context.Background(), toolReq(map[string]any{"category": "commercial"}))
	if err != nil {
		t.Fatal(err)
	}
	var rows []map[string]any
	if err := json.Unmarshal([]byte(resultText(t, result)), &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0]["slug"] != "brand-spot" {
		t.Errorf("rows = %v", rows)
	}
}

func TestGetProject(t *testing.T) {
	s := testServer(t, &stubSource{data: testData()}, nil)

	result, err := s.getProject(context.Background(), toolReq(map[string]any{"slug": "midnight-harvest"}))
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}
	if !strings.Contains(resultText(t, result), "Midnight Harvest") {
		t.Errorf("text = %s", resultText(t, result))
	}
}

func TestGetProject_NotFound(t *testing.T) {
	s := testServer(t, &stubSource{data: testData()}, nil)

	result, err := s.getProject(context.Background(), toolReq(map[string]any{"slug": "nope"}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Fatal("expected error result")
	}
	if !strings.Contains(resultText(t, result), "not found: nope") {
		t.Errorf("text = %s", resultText(t, result))
	}
}

func TestListPosts(t *testing.T) {
	s := testServer(t, &stubSource{data: testData()}, nil)

	result, err := s.listPosts(context.Background(), toolReq(nil))
	if err != nil {
		t.Fatal(err)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "on-colour") || !strings.Contains(text, "1 min read") {
		t.Errorf("text = %s", text)
	}
}

func TestRunSync(t *testing.T) {
	sync := &fakeSyncer{result: &syncer.Result{Mode: "full", Projects: 2, Posts: 1}}
	s := testServer(t, &stubSource{data: testData()}, sync)

	result, err := s.runSync(context.Background(), toolReq(nil))
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}
	var r syncer.Result
	if err := json.Unmarshal([]byte(resultText(t, result)), &r); err != nil {
		t.Fatal(err)
	}
	if r.Projects != 2 {
		t.Errorf("result = %+v", r)
	}
}

func TestRunSync_RateLimited(t *testing.T) {
	sync := &fakeSyncer{err: fmt.Errorf("sync: %w", apperr.ErrRateLimited)}
	s := testServer(t, &stubSource{data: testData()}, sync)

	result, err := s.runSync(context.Background(), toolReq(nil))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Fatal("expected error result")
	}
	if !strings.Contains(resultText(t, result), "rate limited") {
		t.Errorf("text = %s", resultText(t, result))
	}
}

func TestRunSync_UnknownMode(t *testing.T) {
	s := testServer(t, &stubSource{data: testData()}, &fakeSyncer{result: &syncer.Result{}})

	result, err := s.runSync(context.Background(), toolReq(map[string]any{"mode": "partial"}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Fatal("expected error result for unknown mode")
	}
}

func TestPreviewShareMeta(t *testing.T) {
	s := testServer(t, &stubSource{data: testData()}, nil)

	result, err := s.previewShareMeta(context.Background(), toolReq(map[string]any{"path": "/work/midnight-harvest"}))
	if err != nil {
		t.Fatal(err)
	}
	block := resultText(t, result)
	if !strings.Contains(block, "<title>Midnight Harvest | Alex Marlowe</title>") {
		t.Errorf("block = %s", block)
	}
	if !strings.Contains(block, `<meta property="og:type" content="video.movie">`) {
		t.Errorf("og:type missing:\n%s", block)
	}
}

func TestReadDataResource(t *testing.T) {
	s := testServer(t, &stubSource{data: testData()}, nil)

	contents, err := s.readDataResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if len(contents) != 1 {
		t.Fatalf("contents = %d", len(contents))
	}
	text, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("content type %T", contents[0])
	}
	if text.MIMEType != "application/json" {
		t.Errorf("mime = %q", text.MIMEType)
	}
	var data portfolio.Data
	if err := json.Unmarshal([]byte(text.Text), &data); err != nil {
		t.Fatal(err)
	}
	if len(data.Projects) != 2 {
		t.Errorf("projects = %d", len(data.Projects))
	}
}

func TestReadDataResource_NoData(t *testing.T) {
	s := testServer(t, &stubSource{err: errors.New("down")}, nil)

	if _, err := s.readDataResource(context.Background(), mcp.ReadResourceRequest{}); err == nil {
		t.Error("expected error when no source can serve")
	}
}
