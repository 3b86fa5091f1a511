package batch

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce is how long a file must stay quiet before it is reported.
const debounce = 100 * time.Millisecond

// imageExts lists the extensions Watcher reports.
var imageExts = map[string]bool{
	".pgm":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// Watcher monitors a directory for new or rewritten images using fsnotify.
type Watcher struct {
	Dir     string
	Changes <-chan string // Read-only external channel of file paths

	changes chan string
	done    chan struct{}
	watcher *fsnotify.Watcher
	skip    func(path string) bool
	started bool
}

// NewWatcher creates a watcher for dir. Hidden files, files IsOutput
// recognizes and files for which skip returns true are ignored. skip may be
// nil.
func NewWatcher(dir string, skip func(path string) bool) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan string, 16)
	return &Watcher{
		Dir:     dir,
		Changes: ch,
		changes: ch,
		done:    make(chan struct{}),
		watcher: fw,
		skip:    skip,
	}, nil
}

// Start begins watching the directory.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.Dir); err != nil {
		return err
	}
	w.started = true
	go w.loop()
	return nil
}

// Stop closes the watcher and then the Changes channel. Changes not yet
// received are discarded.
func (w *Watcher) Stop() {
	w.watcher.Close()
	if !w.started {
		close(w.changes)
		return
	}
	for {
		select {
		case <-w.done:
			close(w.changes)
			return
		case <-w.changes:
		}
	}
}

func (w *Watcher) loop() {
	defer close(w.done)

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				for file := range pending {
					w.changes <- file
				}
				return
			}
			if !w.isImage(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				pending[event.Name] = time.Now()
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				delete(pending, event.Name)
			}

		case now := <-ticker.C:
			for file, t := range pending {
				if now.Sub(t) >= debounce {
					w.changes <- file
					delete(pending, file)
				}
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal.
		}
	}
}

func (w *Watcher) isImage(name string) bool {
	if !imageExts[strings.ToLower(filepath.Ext(name))] {
		return false
	}
	if strings.HasPrefix(filepath.Base(name), ".") || IsOutput(name) {
		return false
	}
	return w.skip == nil || !w.skip(name)
}

// Watch labels every image that appears in w.Dir until ctx is cancelled,
// writing results to outDir and handing each Result to report. Files that
// IsOutput recognizes are never relabeled.
func Watch(ctx context.Context, w *Watcher, outDir string, preview bool, opts Options, report func(Result)) error {
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-w.Changes:
			if !ok {
				return nil
			}
			report(Process(TaskFor(path, outDir, preview), opts))
		}
	}
}
