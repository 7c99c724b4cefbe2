package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"picpp/internal/logging"
)

// DefaultQuiet is how long a directory must stay quiet before pending files
// are handed out as a batch.
const DefaultQuiet = 500 * time.Millisecond

// Watcher turns create/write notifications in one directory into batches
// of file paths.
type Watcher struct {
	dir     string
	accept  func(path string) bool
	quiet   time.Duration
	fsw     *fsnotify.Watcher
	batches chan []string
	logger  logging.Logger
}

func New(dir string, accept func(path string) bool, quiet time.Duration, logger logging.Logger) (*Watcher, error) {
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch folder %s: %w", dir, err)
	}
	logger.Infof("Watching folder: %s", dir)

	return &Watcher{
		dir:     dir,
		accept:  accept,
		quiet:   quiet,
		fsw:     fsw,
		batches: make(chan []string),
		logger:  logger,
	}, nil
}

// Batches yields debounced groups of new files. It is closed when Run returns.
func (w *Watcher) Batches() <-chan []string {
	return w.batches
}

// Run processes notifications until ctx is done. Batches that pile up while
// the consumer is busy are merged into one.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.batches)
	defer w.fsw.Close()

	timer := time.NewTimer(w.quiet)
	timer.Stop()
	var quietC <-chan time.Time

	pending := make(map[string]bool)
	var ready []string
	var out chan<- []string

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if strings.HasPrefix(filepath.Base(event.Name), ".") {
				continue
			}
			if w.accept != nil && !w.accept(event.Name) {
				continue
			}
			pending[event.Name] = true
			timer.Reset(w.quiet)
			quietC = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warnf("Watcher error: %v", err)

		case <-quietC:
			quietC = nil
			ready = mergeBatch(ready, pending)
			pending = make(map[string]bool)
			if len(ready) > 0 {
				out = w.batches
			}

		case out <- ready:
			w.logger.Verbosef("Dispatched batch of %d files", len(ready))
			ready = nil
			out = nil
		}
	}
}

// mergeBatch appends the still existing pending paths to ready in lexical order.
func mergeBatch(ready []string, pending map[string]bool) []string {
	seen := make(map[string]bool, len(ready))
	for _, path := range ready {
		seen[path] = true
	}
	var fresh []string
	for path := range pending {
		if seen[path] {
			continue
		}
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		fresh = append(fresh, path)
	}
	sort.Strings(fresh)
	return append(ready, fresh...)
}
