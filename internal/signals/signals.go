// Package signals lets an operator stop a running quality-gated loop by
// dropping a file into the .codegate/signals directory.
package signals

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// stopFile is the signal file name watched for.
const stopFile = "stop"

// Watcher observes the signals directory for a stop request. The watcher
// is consulted by the orchestrator before each attempt; a stop request
// finalizes the run with the best attempt found so far.
type Watcher struct {
	dir string

	mu         sync.RWMutex
	stopSignal bool

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewWatcher creates a watcher rooted at workDir/.codegate/signals. The
// directory is created if missing. A failed fsnotify setup is not fatal;
// ShouldStop falls back to polling the file directly.
func NewWatcher(workDir string) (*Watcher, error) {
	dir := filepath.Join(workDir, ".codegate", "signals")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	w := &Watcher{
		dir:  dir,
		done: make(chan struct{}),
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return w, nil
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return w, nil
	}
	w.watcher = fsw
	go w.watch()

	return w, nil
}

// watch marks the stop flag as soon as the signal file appears.
func (w *Watcher) watch() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) == stopFile &&
				(event.Op&fsnotify.Create != 0 || event.Op&fsnotify.Write != 0) {
				w.mu.Lock()
				w.stopSignal = true
				w.mu.Unlock()
			}
		case <-w.watcher.Errors:
			// Ignore errors, keep watching
		}
	}
}

// ShouldStop returns true if a stop signal has been received. The file is
// also checked directly in case the watcher missed the event.
func (w *Watcher) ShouldStop() bool {
	if _, err := os.Stat(filepath.Join(w.dir, stopFile)); err == nil {
		w.mu.Lock()
		w.stopSignal = true
		w.mu.Unlock()
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stopSignal
}

// RequestStop creates the stop signal file for a running loop to find.
func (w *Watcher) RequestStop() error {
	return os.WriteFile(filepath.Join(w.dir, stopFile), []byte("stop requested\n"), 0644)
}

// Clear removes the signal file and resets the stop flag.
func (w *Watcher) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopSignal = false
	os.Remove(filepath.Join(w.dir, stopFile))
}

// Close shuts down the watcher.
func (w *Watcher) Close() {
	close(w.done)
	if w.watcher != nil {
		w.watcher.Close()
	}
}
