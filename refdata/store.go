package refdata

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Store holds the current reference data snapshot. Snapshots are immutable;
// Replace swaps the whole snapshot atomically so readers never observe a
// partially updated table.
type Store struct {
	current atomic.Pointer[Data]
}

// NewStore creates a store holding d. A nil d stores Default().
func NewStore(d *Data) *Store {
	if d == nil {
		d = Default()
	}
	s := &Store{}
	s.current.Store(d)

	return s
}

// Load returns the current snapshot.
func (s *Store) Load() *Data {
	return s.current.Load()
}

// Replace installs d as the current snapshot.
func (s *Store) Replace(d *Data) {
	if d != nil {
		s.current.Store(d)
	}
}

// WatchHooks receive reload outcomes from Watch. Both are optional.
type WatchHooks struct {
	OnReload func(d *Data)
	OnError  func(err error)
}

// reloadDebounce collapses the burst of events most editors emit on save.
const reloadDebounce = 100 * time.Millisecond

// Watch reloads path into s whenever the file changes, until ctx is done.
// The parent directory is watched so that editors replacing the file by
// rename are handled. A file that fails validation leaves the previous
// snapshot in place and is reported through hooks.OnError.
func (s *Store) Watch(ctx context.Context, path string, hooks WatchHooks) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return err
	}

	go s.watchLoop(ctx, w, abs, hooks)

	return nil
}

func (s *Store) watchLoop(ctx context.Context, w *fsnotify.Watcher, path string, hooks WatchHooks) {
	defer w.Close()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			d, err := LoadFile(path)
			if err != nil {
				if hooks.OnError != nil {
					hooks.OnError(err)
				}
				continue
			}
			s.Replace(d)
			if hooks.OnReload != nil {
				hooks.OnReload(d)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			if hooks.OnError != nil && !errors.Is(err, context.Canceled) {
				hooks.OnError(err)
			}
		}
	}
}
