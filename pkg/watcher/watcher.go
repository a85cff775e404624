package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/ritzau/pagerank-gs/pkg/adjlist"
	"github.com/ritzau/pagerank-gs/pkg/logging"
)

// ChangeType represents the type of input change detected
type ChangeType int

const (
	// ChangeTypeWrite covers created or rewritten input files
	ChangeTypeWrite ChangeType = iota
	// ChangeTypeRemove covers removed or renamed input files
	ChangeTypeRemove
)

func (c ChangeType) String() string {
	switch c {
	case ChangeTypeWrite:
		return "write"
	case ChangeTypeRemove:
		return "remove"
	default:
		return fmt.Sprintf("ChangeType(%d)", int(c))
	}
}

// ChangeEvent represents a batch of file system changes
type ChangeEvent struct {
	Type      ChangeType
	Paths     []string
	Timestamp time.Time
}

// FileWatcher watches a dataset directory for changes to its input files
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	events   chan ChangeEvent
	stopOnce sync.Once
}

// NewFileWatcher creates a new file system watcher for a dataset directory
func NewFileWatcher(dir string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &FileWatcher{
		watcher: watcher,
		dir:     dir,
		events:  make(chan ChangeEvent, 100),
	}, nil
}

// Start begins watching the directory. Events stop and the channel closes
// when ctx is done.
func (fw *FileWatcher) Start(ctx context.Context) error {
	// Watch the directory rather than the files so that editors replacing a
	// file by rename are still seen
	if err := fw.watcher.Add(fw.dir); err != nil {
		_ = fw.watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", fw.dir, err)
	}

	logging.Info("watching dataset", "path", fw.dir)

	go fw.processEvents(ctx)
	return nil
}

// IsInput reports whether name is one of the files a run reads
func IsInput(name string) bool {
	base := filepath.Base(name)
	return base == adjlist.NodesFile || base == adjlist.AdjListFile
}

// processEvents filters events down to input files and batches them by type
func (fw *FileWatcher) processEvents(ctx context.Context) {
	var written, removed []string

	flushTimer := time.NewTimer(100 * time.Millisecond)
	flushTimer.Stop()

	flush := func() {
		if len(removed) > 0 {
			fw.events <- ChangeEvent{Type: ChangeTypeRemove, Paths: removed, Timestamp: time.Now()}
			removed = nil
		}
		if len(written) > 0 {
			fw.events <- ChangeEvent{Type: ChangeTypeWrite, Paths: written, Timestamp: time.Now()}
			written = nil
		}
	}

	defer close(fw.events)

	for {
		select {
		case <-ctx.Done():
			fw.Stop()
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				flush()
				return
			}
			if !IsInput(event.Name) {
				continue
			}

			switch {
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				removed = append(removed, event.Name)
			case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
				written = append(written, event.Name)
			default:
				continue
			}
			logging.Trace("input changed", "path", event.Name, "op", event.Op.String())
			flushTimer.Reset(100 * time.Millisecond)

		case <-flushTimer.C:
			flush()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("watcher error", "error", err)
		}
	}
}

// Events returns the channel of change events
func (fw *FileWatcher) Events() <-chan ChangeEvent {
	return fw.events
}

// Stop stops the file watcher. It is safe to call more than once.
func (fw *FileWatcher) Stop() error {
	var err error
	fw.stopOnce.Do(func() {
		err = fw.watcher.Close()
	})
	return err
}
