package app

import (
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileWatcher polls the currently open image file and triggers a
// callback when it is modified on disk, so an image edited in another
// program reloads automatically.
type FileWatcher struct {
	mu            sync.Mutex
	path          string
	lastMod       time.Time
	checkInterval time.Duration
	stopCh        chan struct{}
	onChange      func(path string)
}

// NewFileWatcher creates a watcher that polls at the given interval.
// Call Watch to point it at a file and Start to begin polling.
func NewFileWatcher(checkInterval time.Duration) *FileWatcher {
	return &FileWatcher{
		checkInterval: checkInterval,
		stopCh:        make(chan struct{}),
	}
}

// OnChange sets the callback invoked when the watched file changes.
// The callback runs on a background goroutine - use appropriate
// synchronization if updating UI.
func (w *FileWatcher) OnChange(callback func(path string)) {
	w.mu.Lock()
	w.onChange = callback
	w.mu.Unlock()
}

// Watch switches the watcher to a new file. An empty path stops
// watching without stopping the poll loop. Symlinks are resolved so
// editors that replace the file are still noticed.
func (w *FileWatcher) Watch(path string) {
	var mod time.Time
	if path != "" {
		if real, err := filepath.EvalSymlinks(path); err == nil {
			path = real
		}
		if info, err := os.Stat(path); err == nil {
			mod = info.ModTime()
		}
	}

	w.mu.Lock()
	w.path = path
	w.lastMod = mod
	w.mu.Unlock()
}

// Start begins polling in a background goroutine.
func (w *FileWatcher) Start() {
	w.stopCh = make(chan struct{})
	go w.pollLoop()
}

// Stop stops the poll goroutine.
func (w *FileWatcher) Stop() {
	close(w.stopCh)
}

func (w *FileWatcher) pollLoop() {
	ticker := time.NewTicker(w.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.check()
		}
	}
}

// check fires the callback at most once per observed modification.
func (w *FileWatcher) check() {
	w.mu.Lock()
	path := w.path
	last := w.lastMod
	callback := w.onChange
	w.mu.Unlock()

	if path == "" {
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if !info.ModTime().After(last) {
		return
	}

	w.mu.Lock()
	w.lastMod = info.ModTime()
	w.mu.Unlock()

	if callback != nil {
		callback(path)
	}
}
