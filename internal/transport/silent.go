package transport

import (
	"sync"
	"time"
)

// Silent acknowledges every command without producing audio. One-shot CLI
// commands use it to drive the player over a stored session.
type Silent struct {
	mu       sync.Mutex
	gen      uint64
	loaded   bool
	position time.Duration
	level    float64
	events   *eventQueue
}

// NewSilent creates a silent transport.
func NewSilent() *Silent {
	return &Silent{events: newEventQueue()}
}

func (s *Silent) emit(ev Event) {
	s.events.push(ev)
}

// Load implements Transport.
func (s *Silent) Load(gen uint64, url string) {
	s.mu.Lock()
	s.gen = gen
	s.loaded = url != ""
	s.position = 0
	s.mu.Unlock()
}

// Play implements Transport.
func (s *Silent) Play() {
	s.mu.Lock()
	gen, loaded := s.gen, s.loaded
	s.mu.Unlock()

	if !loaded {
		s.emit(Event{Kind: EventPlayFailed, Generation: gen, Err: errNothingLoaded})
		return
	}
	s.emit(Event{Kind: EventPlayStarted, Generation: gen})
}

// Pause implements Transport.
func (s *Silent) Pause() {}

// Seek implements Transport.
func (s *Silent) Seek(position time.Duration) {
	s.mu.Lock()
	s.position = position
	s.mu.Unlock()
}

// SetVolume implements Transport.
func (s *Silent) SetVolume(level float64) {
	s.mu.Lock()
	s.level = level
	s.mu.Unlock()
}

// Level returns the last effective volume applied.
func (s *Silent) Level() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

// Stop implements Transport.
func (s *Silent) Stop() {
	s.mu.Lock()
	s.loaded = false
	s.position = 0
	s.mu.Unlock()
}

// Events implements Transport.
func (s *Silent) Events() <-chan Event {
	return s.events.events()
}

// Close implements Transport. Undelivered events are discarded.
func (s *Silent) Close() error {
	s.Stop()
	s.events.close()
	return nil
}
