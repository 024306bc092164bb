package config

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the config directory and emits a token on Changed()
// whenever config.toml is written, matching spec §5's bounded
// (capacity-1) file-watcher channel. Grounded on the teacher's
// (editor.Editor).setupFileWatcher (daisied-aln editor/editor.go):
// same fsnotify.NewWatcher, "degrade gracefully if the watcher can't be
// created" posture, generalized from a recursive project-tree watch to
// a single config-file watch.
type Watcher struct {
	fsw     *fsnotify.Watcher
	changed chan struct{}
	path    string
}

// NewWatcher starts watching config.toml's directory. On failure it
// returns a non-nil error; callers should log and continue without
// hot-reload per spec §7 ("errors suppressed; hot-reload simply stops
// working until next successful watch").
func NewWatcher() (*Watcher, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{fsw: fsw, changed: make(chan struct{}, 1), path: path}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			select {
			case w.changed <- struct{}{}:
			default:
			}
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			// Errors are suppressed per spec §7; the channel keeps draining
			// so a later successful watch isn't blocked behind a stale error.
		}
	}
}

// Changed delivers a token each time config.toml is modified. Reads
// should be non-blocking (select with default), matching the UI
// thread's cooperative-only suspension rule in spec §5.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changed
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
