package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kbukum/scribe/logger"
	"github.com/kbukum/scribe/pipeline"
)

// Runner runs one recording through the pipeline. *pipeline.Service
// implements it.
type Runner interface {
	Run(ctx context.Context, path, recordingID string, opts pipeline.RunOptions) (*pipeline.Outcome, error)
}

// Watcher runs the pipeline for audio files dropped into a directory.
type Watcher struct {
	cfg    Config
	runner Runner
	log    *logger.Logger
	fs     *fsnotify.Watcher

	sem     chan struct{}
	ready   chan string
	pending map[string]*time.Timer
	wg      sync.WaitGroup
}

// New creates a Watcher on cfg.Dir. The directory must exist.
func New(cfg Config, runner Runner, log *logger.Logger) (*Watcher, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNop()
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: create: %w", err)
	}
	if err := fs.Add(cfg.Dir); err != nil {
		_ = fs.Close()
		return nil, fmt.Errorf("watcher: add %s: %w", cfg.Dir, err)
	}

	return &Watcher{
		cfg:     cfg,
		runner:  runner,
		log:     log.WithComponent("watcher"),
		fs:      fs,
		sem:     make(chan struct{}, cfg.Concurrency),
		ready:   make(chan string, 16),
		pending: make(map[string]*time.Timer),
	}, nil
}

// RecordingID derives the recording id from a file name: the base name
// without its extension.
func RecordingID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Accepts reports whether path has one of the configured extensions.
func (w *Watcher) Accepts(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, accepted := range w.cfg.Extensions {
		if ext == accepted {
			return true
		}
	}
	return false
}

// Run watches until ctx is cancelled, then waits for in-flight runs and
// closes the underlying watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	w.log.Info("Watching inbox", map[string]interface{}{
		"dir":         w.cfg.Dir,
		"extensions":  w.cfg.Extensions,
		"concurrency": w.cfg.Concurrency,
	})

	if w.cfg.ScanExisting {
		if err := w.scan(ctx); err != nil {
			w.log.Warn("Initial scan failed", map[string]interface{}{"error": err.Error()})
		}
	}

	for {
		select {
		case <-ctx.Done():
			for path, t := range w.pending {
				t.Stop()
				delete(w.pending, path)
			}
			w.log.Info("Waiting for in-flight runs")
			w.wg.Wait()
			w.log.Info("Watcher stopped")
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return fmt.Errorf("watcher: events channel closed")
			}
			w.handle(ctx, event)

		case path := <-w.ready:
			if _, ok := w.pending[path]; !ok {
				continue
			}
			delete(w.pending, path)
			w.dispatch(ctx, path)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return fmt.Errorf("watcher: errors channel closed")
			}
			w.log.Error("Watcher error", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	if !w.Accepts(event.Name) {
		return
	}
	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		w.settle(ctx, event.Name)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		if t, ok := w.pending[event.Name]; ok {
			t.Stop()
			delete(w.pending, event.Name)
		}
	}
}

// settle (re)starts the quiet-period timer of path. Each write resets it,
// so a file still being copied is processed once, after it stops changing.
func (w *Watcher) settle(ctx context.Context, path string) {
	if t, ok := w.pending[path]; ok {
		t.Reset(w.cfg.Settle)
		return
	}
	w.pending[path] = time.AfterFunc(w.cfg.Settle, func() {
		select {
		case w.ready <- path:
		case <-ctx.Done():
		}
	})
}

func (w *Watcher) scan(ctx context.Context) error {
	entries, err := os.ReadDir(w.cfg.Dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !w.Accepts(e.Name()) {
			continue
		}
		w.dispatch(ctx, filepath.Join(w.cfg.Dir, e.Name()))
	}
	return nil
}

func (w *Watcher) dispatch(ctx context.Context, path string) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		select {
		case w.sem <- struct{}{}:
		case <-ctx.Done():
			return
		}
		defer func() { <-w.sem }()
		w.process(ctx, path)
	}()
}

func (w *Watcher) process(ctx context.Context, path string) {
	id := RecordingID(path)
	log := w.log.WithFields(map[string]interface{}{"path": path, "recording_id": id})
	start := time.Now()

	out, err := w.runner.Run(ctx, path, id, pipeline.RunOptions{})
	if err != nil {
		log.Error("Inbox file failed", map[string]interface{}{"error": err.Error()})
		return
	}
	if !out.Created {
		log.Debug("Inbox file already transcribed")
		return
	}
	log.Info("Inbox file transcribed", map[string]interface{}{
		"quality":     out.Record.Quality,
		"duration_ms": time.Since(start).Milliseconds(),
	})
}
