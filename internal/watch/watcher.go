// Package watch monitors a project tree for C/C++ source changes and feeds
// debounced change batches to a callback, keeping the fact database fresh
// while someone edits.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"cdoc/internal/crawler"
)

// DefaultDebounce is the quiet period before a change batch is delivered.
// Editors fire several events per save; one callback per save is enough.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches a directory tree recursively.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	pending  map[string]struct{}
	timer    *time.Timer
}

// New creates a watcher rooted at root. Dot-directories are not watched.
func New(root string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		fsw:      fsw,
		debounce: debounce,
		pending:  make(map[string]struct{}),
	}
	if err := w.addRecursive(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Close releases the underlying OS watches.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

// Run blocks, delivering debounced batches of changed source files to
// onChange until ctx is cancelled. Newly created directories are picked up
// and watched as they appear.
func (w *Watcher) Run(ctx context.Context, onChange func(files []string)) error {
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.accept(ev) {
				continue
			}
			w.pending[ev.Name] = struct{}{}
			if w.timer == nil {
				w.timer = time.NewTimer(w.debounce)
			} else {
				if !w.timer.Stop() {
					select {
					case <-w.timer.C:
					default:
					}
				}
				w.timer.Reset(w.debounce)
			}
			timerC = w.timer.C

		case <-timerC:
			files := make([]string, 0, len(w.pending))
			for f := range w.pending {
				files = append(files, f)
			}
			sort.Strings(files)
			w.pending = make(map[string]struct{})
			w.timer = nil
			timerC = nil
			onChange(files)

		case _, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			// Watch errors are not fatal; the next event may be fine.
		}
	}
}

// accept filters events down to source-file changes, and hooks new
// directories into the watch as a side effect.
func (w *Watcher) accept(ev fsnotify.Event) bool {
	if ev.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			_ = w.addRecursive(ev.Name)
			return false
		}
	}
	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) &&
		!ev.Op.Has(fsnotify.Rename) && !ev.Op.Has(fsnotify.Remove) {
		return false
	}
	return crawler.IsSourceFile(ev.Name)
}
