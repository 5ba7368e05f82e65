package app

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"pixelview/internal/imaging"
)

func writeTestPNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestStateLoadImage(t *testing.T) {
	path := writeTestPNG(t, t.TempDir(), "a.png", 20, 10)

	state := NewState(nil)
	state.Session().Resize(100, 100)

	var loaded *imaging.Source
	views := 0
	state.On(EventImageLoaded, func(data interface{}) {
		loaded = data.(*imaging.Source)
	})
	state.On(EventViewChanged, func(interface{}) { views++ })

	if err := state.LoadImage(path); err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	if loaded == nil || loaded.Width() != 20 {
		t.Errorf("image loaded event carried %+v", loaded)
	}
	if views != 1 {
		t.Errorf("view changed %d times, want 1", views)
	}
	if !state.Session().Loaded() {
		t.Error("session not loaded")
	}
}

func TestStateLoadImageFailureKeepsCurrent(t *testing.T) {
	dir := t.TempDir()
	good := writeTestPNG(t, dir, "good.png", 8, 8)
	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}

	state := NewState(nil)
	state.Session().Resize(100, 100)
	if err := state.LoadImage(good); err != nil {
		t.Fatalf("LoadImage: %v", err)
	}

	if err := state.LoadImage(bad); err == nil {
		t.Fatal("expected error for corrupt file")
	}
	if src := state.Session().Source(); src == nil || src.Path != good {
		t.Error("failed load replaced the current image")
	}
}

func TestStateSaveImageWithoutImage(t *testing.T) {
	state := NewState(nil)
	if err := state.SaveImage(filepath.Join(t.TempDir(), "out.png")); err == nil {
		t.Error("expected error when no image is loaded")
	}
}

func TestStateGenerationFlag(t *testing.T) {
	state := NewState(nil)

	if state.Generating() {
		t.Error("new state should not be generating")
	}
	if !state.BeginGeneration() {
		t.Fatal("first BeginGeneration refused")
	}
	if state.BeginGeneration() {
		t.Error("second BeginGeneration should be refused while busy")
	}
	state.EndGeneration()
	if !state.BeginGeneration() {
		t.Error("BeginGeneration refused after EndGeneration")
	}
}

func TestFileWatcherDetectsChange(t *testing.T) {
	path := writeTestPNG(t, t.TempDir(), "watched.png", 4, 4)

	w := NewFileWatcher(5 * time.Millisecond)
	var mu sync.Mutex
	fired := 0
	w.OnChange(func(string) {
		mu.Lock()
		fired++
		mu.Unlock()
	})
	w.Watch(path)
	w.Start()
	defer w.Stop()

	// Poll a few intervals without a change first.
	time.Sleep(25 * time.Millisecond)
	mu.Lock()
	if fired != 0 {
		mu.Unlock()
		t.Fatal("watcher fired without a modification")
	}
	mu.Unlock()

	future := time.Now().Add(time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := fired
		mu.Unlock()
		if n > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("watcher never fired after modification")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
