package storage

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeCallback is called when a tracked artifact's content changes.
type ChangeCallback func(name string)

// Watch starts an fsnotify watcher on the artifact root and reports
// content changes to the tracked files until ctx is cancelled. The sync
// orchestrator is not the only writer of the artifact directory (a CI
// job or rsync may replace the files out of band), so consumers use this
// to invalidate caches and notify preview clients.
//
// Events are debounced and deduplicated by checksum: editors and rename
// chains fire multiple events per logical write, and the atomic
// write-then-rename pattern itself produces Create events for temp files
// that must be ignored.
func Watch(ctx context.Context, fs *FS, tracked []string, logger *slog.Logger, cb ChangeCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(fs.Root()); err != nil {
		return err
	}

	trackedSet := make(map[string]bool, len(tracked))
	lastSum := make(map[string]string, len(tracked))
	for _, name := range tracked {
		trackedSet[name] = true
		if sum, err := fs.Checksum(name); err == nil {
			lastSum[name] = sum
		}
	}

	logger.Info("watcher: started", slog.String("root", fs.Root()))

	// Debounce timer shared across tracked files; on fire, every tracked
	// file is re-checked against its last known checksum.
	var debounce *time.Timer
	var debounceCh <-chan time.Time

	schedule := func() {
		if debounce == nil {
			debounce = time.NewTimer(200 * time.Millisecond)
			debounceCh = debounce.C
		} else {
			debounce.Reset(200 * time.Millisecond)
		}
	}

	recheck := func() {
		for name := range trackedSet {
			sum, err := fs.Checksum(name)
			if err != nil {
				continue
			}
			if lastSum[name] == sum {
				continue
			}
			lastSum[name] = sum
			logger.Debug("watcher: artifact changed", slog.String("name", name))
			if cb != nil {
				cb(name)
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-debounceCh:
			recheck()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if !trackedSet[filepath.Base(ev.Name)] {
				continue
			}
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
