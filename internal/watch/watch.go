// Package watch reports debounced changes to a set of files.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of events from one save.
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches files through their parent directories so that editors
// replacing a file by rename are still seen.
type Watcher struct {
	fs       *fsnotify.Watcher
	targets  map[string]bool
	debounce time.Duration
	pending  sync.WaitGroup
}

// New starts watching paths. A non-positive debounce uses DefaultDebounce.
func New(paths []string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	w := &Watcher{fs: fw, targets: make(map[string]bool), debounce: debounce}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch: %s: %w", p, err)
		}
		w.targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch: add %s: %w", dir, err)
		}
	}
	return w, nil
}

// Run calls fn with the absolute path of each changed file, at most once
// per debounce window per file, until ctx is done. fn runs on the caller's
// goroutine.
func (w *Watcher) Run(ctx context.Context, fn func(path string)) error {
	defer w.fs.Close()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fire := make(chan string)
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			if t.Stop() {
				w.pending.Done()
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			path := filepath.Clean(ev.Name)
			if !w.targets[path] || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if t, ok := timers[path]; ok {
				if !t.Reset(w.debounce) {
					w.pending.Add(1)
				}
				continue
			}
			w.pending.Add(1)
			timers[path] = time.AfterFunc(w.debounce, func() {
				defer w.pending.Done()
				select {
				case fire <- path:
				case <-ctx.Done():
				}
			})
		case path := <-fire:
			delete(timers, path)
			fn(path)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: %w", err)
		}
	}
}
