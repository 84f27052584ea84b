package catalog

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the burst of write events most editors and
// atomic-rename writers emit for a single save.
const watchDebounce = 500 * time.Millisecond

// Watcher reloads the catalog file into the store whenever it changes on
// disk. It watches the parent directory rather than the file itself so
// rename-over-replace writes keep working.
type Watcher struct {
	path  string
	store *Store
	fsw   *fsnotify.Watcher
}

func NewWatcher(path string, store *Store) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fs watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch catalog dir: %w", err)
	}
	return &Watcher{path: path, store: store, fsw: fsw}, nil
}

// Run blocks until ctx is done, reloading on relevant events. A failed
// reload keeps the previous snapshot in place and logs the error.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	var timer *time.Timer
	var timerC <-chan time.Time
	target := filepath.Clean(w.path)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(watchDebounce)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			log.Printf("catalog watcher error: %v", err)
		case <-timerC:
			timerC = nil
			timer = nil
			snap, err := LoadFile(w.path)
			if err != nil {
				log.Printf("catalog reload failed, keeping previous snapshot: %v", err)
				continue
			}
			w.store.Replace(snap)
			log.Printf("catalog reloaded: version=%s listings=%d", snap.Version, len(snap.Listings))
		}
	}
}
