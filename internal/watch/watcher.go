package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDelay is the quiet period before a batch of changes is delivered
const DefaultDelay = 100 * time.Millisecond

// Options configures a Watcher
type Options struct {
	// Dir is the directory to watch. Subdirectories are not watched,
	// matching the scope of a single Go package.
	Dir string
	// Patterns are base-name globs a file must match, e.g. "*.go".
	// An empty list matches every file.
	Patterns []string
	// Ignore are base-name globs that are never reported.
	Ignore []string
	Delay  time.Duration
	Logger *zap.Logger
}

// Watcher reports batches of changed files in one directory
type Watcher struct {
	fsw       *fsnotify.Watcher
	debouncer *Debouncer
	opts      Options
	logger    *zap.Logger
	onChange  func([]string) error
	stopChan  chan struct{}
	wg        sync.WaitGroup
}

// New creates a watcher. onChange receives the sorted set of changed paths
// once no further change has arrived for opts.Delay.
func New(opts Options, onChange func([]string) error) (*Watcher, error) {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		fsw:       fsw,
		debouncer: NewDebouncer(opts.Delay),
		opts:      opts,
		logger:    logger.Named("watch"),
		onChange:  onChange,
		stopChan:  make(chan struct{}),
	}

	w.debouncer.SetCallback(func(files []string) {
		if err := w.onChange(files); err != nil {
			w.logger.Error("change handler failed", zap.Strings("files", files), zap.Error(err))
		}
	})

	return w, nil
}

// Start begins watching in the background
func (w *Watcher) Start() error {
	if err := w.fsw.Add(w.opts.Dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", w.opts.Dir, err)
	}
	w.logger.Info("watching directory", zap.String("dir", w.opts.Dir), zap.Strings("patterns", w.opts.Patterns))

	w.wg.Add(1)
	go w.loop()
	return nil
}

// Run starts the watcher and blocks until ctx is done
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	return w.Stop()
}

// Stop stops the watcher. It is safe to call more than once.
func (w *Watcher) Stop() error {
	select {
	case <-w.stopChan:
		return nil
	default:
		close(w.stopChan)
	}

	w.wg.Wait()
	w.debouncer.Stop()
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if w.shouldIgnore(event.Name) || !w.matchesPattern(event.Name) {
				continue
			}
			w.logger.Debug("file changed", zap.String("path", event.Name), zap.Stringer("op", event.Op))
			w.debouncer.Add(event.Name)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-w.stopChan:
			return
		}
	}
}

// shouldIgnore reports hidden files, editor backups and configured ignores
func (w *Watcher) shouldIgnore(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return true
	}
	for _, pattern := range w.opts.Ignore {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

func (w *Watcher) matchesPattern(path string) bool {
	if len(w.opts.Patterns) == 0 {
		return true
	}
	base := filepath.Base(path)
	for _, pattern := range w.opts.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}
