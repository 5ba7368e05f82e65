// Package app provides application state, events, and the viewer theme.
package app

import (
	"context"
	"fmt"
	"sync"

	"pixelview/internal/fetch"
	"pixelview/internal/imaging"
	"pixelview/internal/view"
)

// State holds the application state: the view session, the generation
// busy flag, and event listeners.
//
// The view session is not synchronized; call session-touching methods
// from the UI thread only. The mutex covers the listeners map and the
// generation flag, which background workers read.
type State struct {
	mu sync.RWMutex

	session *view.Session

	// True while a generation request is in flight.
	generating bool

	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventImageLoaded EventType = iota
	EventViewChanged
	EventPointerMoved
	EventGenerationStarted
	EventGenerationFinished
	EventImageSaved
	EventStatus
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates a new application state. The factory builds the
// renderer-specific wrapper for cached bitmaps.
func NewState(factory view.RenderableFactory) *State {
	return &State{
		session:   view.NewSession(factory),
		listeners: make(map[EventType][]EventListener),
	}
}

// Session returns the view session. UI thread only.
func (s *State) Session() *view.Session {
	return s.session
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// LoadImage loads an image from a file path and makes it current.
func (s *State) LoadImage(path string) error {
	src, err := imaging.Load(path)
	if err != nil {
		return err
	}
	return s.SetSource(src)
}

// LoadURL downloads an image and makes it current.
func (s *State) LoadURL(ctx context.Context, url string) error {
	src, err := fetch.Download(ctx, url)
	if err != nil {
		return err
	}
	return s.SetSource(src)
}

// SetSource installs a new image in the session. On failure the
// previous image stays current.
func (s *State) SetSource(src *imaging.Source) error {
	if err := s.session.SetSource(src); err != nil {
		return err
	}
	s.Emit(EventImageLoaded, src)
	s.Emit(EventViewChanged, nil)
	return nil
}

// SaveImage writes the current image to path.
func (s *State) SaveImage(path string) error {
	src := s.session.Source()
	if src == nil || !src.Valid() {
		return fmt.Errorf("no image to save")
	}
	if err := imaging.Save(src.Image, path); err != nil {
		return err
	}
	s.Emit(EventImageSaved, path)
	return nil
}

// Generating reports whether a generation request is in flight.
func (s *State) Generating() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generating
}

// BeginGeneration marks a generation request as started. Returns false
// if one is already in flight.
func (s *State) BeginGeneration() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generating {
		return false
	}
	s.generating = true
	return true
}

// EndGeneration clears the generation flag.
func (s *State) EndGeneration() {
	s.mu.Lock()
	s.generating = false
	s.mu.Unlock()
}
