package storage

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWatch_ReportsContentChange(t *testing.T) {
	fs := testFS(t)
	if err := fs.Write("data.json", []byte("v1")); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan string, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = Watch(ctx, fs, []string{"data.json"}, discardLogger(), func(name string) {
			changed <- name
		})
	}()

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)

	if err := fs.Write("data.json", []byte("v2")); err != nil {
		t.Fatal(err)
	}

	select {
	case name := <-changed:
		if name != "data.json" {
			t.Errorf("changed name = %q", name)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for change callback")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not stop on cancel")
	}
}

func TestWatch_IgnoresUntrackedFiles(t *testing.T) {
	fs := testFS(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan string, 8)
	go func() {
		_ = Watch(ctx, fs, []string{"data.json"}, discardLogger(), func(name string) {
			changed <- name
		})
	}()

	time.Sleep(100 * time.Millisecond)
	if err := fs.Write("other.json", []byte("x")); err != nil {
		t.Fatal(err)
	}

	select {
	case name := <-changed:
		t.Errorf("unexpected callback for %q", name)
	case <-time.After(500 * time.Millisecond):
	}
}
