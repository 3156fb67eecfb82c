// Package watch re-runs an export whenever its input file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/grepdoc/internal/debug"
)

// DefaultDebounce is used when a non-positive debounce is configured.
const DefaultDebounce = 200 * time.Millisecond

// Watcher calls a handler once a burst of writes to a single file settles.
// The parent directory is watched so editors and tools that replace the
// file through a rename are still noticed.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func(path string)
	onError  func(err error)

	fsw    *fsnotify.Watcher
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	stop   sync.Once

	statsMu     sync.RWMutex
	events      int64
	triggers    int64
	errorCount  int64
	lastTrigger time.Time
}

// Stats summarises watcher activity.
type Stats struct {
	EventsSeen  int64
	Triggers    int64
	ErrorCount  int64
	LastTrigger time.Time
	IsActive    bool
}

// New creates a watcher for path. onChange runs on the watcher goroutine,
// so a slow handler delays the next trigger rather than overlapping it.
func New(path string, debounce time.Duration, onChange func(path string)) (*Watcher, error) {
	if onChange == nil {
		return nil, fmt.Errorf("watch %s: nil change handler", path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		path:     abs,
		debounce: debounce,
		onChange: onChange,
		onError:  func(err error) { debug.LogWatch("watcher error: %v\n", err) },
		fsw:      fsw,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// SetErrorHandler replaces the default handler, which only logs. Must be
// called before Start.
func (w *Watcher) SetErrorHandler(fn func(err error)) {
	if fn != nil {
		w.onError = fn
	}
}

// Start begins watching. It returns once the watch is registered.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.path)
	if err := w.fsw.Add(dir); err != nil {
		// release the fsnotify backend; a later Stop is a no-op
		_ = w.Stop()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w.wg.Add(1)
	go w.loop()

	debug.LogWatch("watching %s (debounce %v)\n", w.path, w.debounce)
	return nil
}

// Stop ends the watch and waits for the watcher goroutine to exit. Pending
// changes that have not fired yet are dropped.
func (w *Watcher) Stop() error {
	var err error
	w.stop.Do(func() {
		w.cancel()
		err = w.fsw.Close()
		w.wg.Wait()
		debug.LogWatch("stopped watching %s\n", w.path)
	})
	return err
}

// Stats returns a snapshot of the counters.
func (w *Watcher) Stats() Stats {
	w.statsMu.RLock()
	defer w.statsMu.RUnlock()

	return Stats{
		EventsSeen:  w.events,
		Triggers:    w.triggers,
		ErrorCount:  w.errorCount,
		LastTrigger: w.lastTrigger,
		IsActive:    w.ctx.Err() == nil,
	}
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.count(func() { w.events++ })
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.count(func() { w.errorCount++ })
			w.onError(err)

		case <-fire:
			fire = nil
			w.count(func() {
				w.triggers++
				w.lastTrigger = time.Now()
			})
			debug.LogWatch("change settled: %s\n", w.path)
			w.onChange(w.path)
		}
	}
}

// relevant reports whether event means the watched file has new content.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create) != 0
}

func (w *Watcher) count(update func()) {
	w.statsMu.Lock()
	update()
	w.statsMu.Unlock()
}
