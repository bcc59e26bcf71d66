package itemfile

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeHandler receives the reloaded document, or the error that prevented
// loading it.
type ChangeHandler func(doc *Document, err error)

// Watcher reloads one item file whenever it changes on disk.
type Watcher struct {
	path     string
	debounce time.Duration
	handler  ChangeHandler
	watcher  *fsnotify.Watcher

	stopOnce sync.Once
	done     chan struct{}
}

// NewWatcher watches path. Bursts of events inside debounce collapse into a
// single reload.
func NewWatcher(path string, debounce time.Duration, handler ChangeHandler) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		fw.Close()
		return nil, err
	}
	// Watch the directory: editors often replace the file rather than write it.
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}
	return &Watcher{
		path:     abs,
		debounce: debounce,
		handler:  handler,
		watcher:  fw,
		done:     make(chan struct{}),
	}, nil
}

// Run delivers reloads until ctx is canceled or Stop is called.
func (w *Watcher) Run(ctx context.Context) {
	var timer *time.Timer
	var timerC <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C
		case <-timerC:
			timerC = nil
			w.handler(Load(w.path))
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.handler(nil, err)
		}
	}
}

// Stop releases the underlying watcher.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.watcher.Close()
	})
}
