// Package watcher observes the annotation source directory so a running
// session can pick up diagrams added to the corpus mid-batch.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/diagramlab/diagram-annotator/pkg/logging"
)

// ChangeEvent represents a batch of new or rewritten annotation files
type ChangeEvent struct {
	Paths     []string
	Timestamp time.Time
}

// CorpusWatcher watches an annotation directory for new diagram records
type CorpusWatcher struct {
	watcher *fsnotify.Watcher
	dir     string
	events  chan ChangeEvent
}

// NewCorpusWatcher creates a watcher over one annotation directory
func NewCorpusWatcher(dir string) (*CorpusWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &CorpusWatcher{
		watcher: watcher,
		dir:     dir,
		events:  make(chan ChangeEvent, 100),
	}, nil
}

// Start begins watching for annotation file changes
func (cw *CorpusWatcher) Start(ctx context.Context) error {
	if err := cw.watcher.Add(cw.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", cw.dir, err)
	}

	logging.Info("started watching annotation directory", "path", cw.dir)

	go cw.processEvents(ctx)

	return nil
}

// processEvents batches raw file system events so one copied corpus does
// not produce one event per file
func (cw *CorpusWatcher) processEvents(ctx context.Context) {
	var paths []string

	flushTimer := time.NewTimer(100 * time.Millisecond)
	flushTimer.Stop()

	flush := func() {
		if len(paths) > 0 {
			cw.events <- ChangeEvent{
				Paths:     paths,
				Timestamp: time.Now(),
			}
			paths = nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			cw.watcher.Close()
			close(cw.events)
			return

		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}

			// Only completed writes and arrivals of .json records matter
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !strings.HasSuffix(filepath.Base(event.Name), ".json") {
				continue
			}

			paths = append(paths, event.Name)
			flushTimer.Reset(100 * time.Millisecond)

		case <-flushTimer.C:
			flush()

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("watcher error", "error", err)
		}
	}
}

// Events returns the channel of change events
func (cw *CorpusWatcher) Events() <-chan ChangeEvent {
	return cw.events
}

// Stop stops the watcher
func (cw *CorpusWatcher) Stop() error {
	return cw.watcher.Close()
}
