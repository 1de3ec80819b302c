// Package state provides thread-safe simulation state shared by the frame loops.
package state

import (
	"math"
	"sync"
	"time"
)

const (
	// MinSpeed and MaxSpeed bound the user-adjustable speed multiplier.
	MinSpeed = 0.1
	MaxSpeed = 5.0

	// DefaultSpeed is the speed multiplier at startup.
	DefaultSpeed = 1.0
)

// EventType represents the type of state change event.
type EventType string

const (
	EventFocus    EventType = "FOCUS"
	EventOverview EventType = "OVERVIEW"
	EventPause    EventType = "PAUSE"
	EventResume   EventType = "RESUME"
	EventSpeed    EventType = "SPEED"
)

// Event records a user-visible state change.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Body      string    `json:"body,omitempty"`
	Speed     float64   `json:"speed,omitempty"`
}

// Simulation holds the speed multiplier and running flag. Both frame loops
// read it; only UI handlers write it.
type Simulation struct {
	mu sync.RWMutex

	speed   float64
	running bool

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	now func() time.Time
}

// Config holds configuration for the simulation state.
type Config struct {
	Speed     float64
	Paused    bool
	MaxEvents int
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Speed:     DefaultSpeed,
		MaxEvents: 20,
	}
}

// NewSimulation creates simulation state.
func NewSimulation(cfg Config) *Simulation {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 20
	}
	speed := cfg.Speed
	if speed == 0 {
		speed = DefaultSpeed
	}
	return &Simulation{
		speed:     ClampSpeed(speed),
		running:   !cfg.Paused,
		maxEvents: maxEvents,
		events:    make([]Event, 0, maxEvents),
		now:       time.Now,
	}
}

// ClampSpeed limits a multiplier to [MinSpeed, MaxSpeed]. NaN maps to
// DefaultSpeed.
func ClampSpeed(v float64) float64 {
	if math.IsNaN(v) {
		return DefaultSpeed
	}
	if v < MinSpeed {
		return MinSpeed
	}
	if v > MaxSpeed {
		return MaxSpeed
	}
	return v
}

// Speed returns the current speed multiplier.
func (s *Simulation) Speed() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.speed
}

// Running reports whether the animation is advancing.
func (s *Simulation) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// SetSpeed sets the speed multiplier, clamped to the allowed range, and
// returns the value actually stored.
func (s *Simulation) SetSpeed(v float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	v = ClampSpeed(v)
	if v != s.speed {
		s.speed = v
		s.addEvent(Event{Type: EventSpeed, Timestamp: s.now(), Speed: v})
	}
	return v
}

// SetRunning pauses or resumes the animation.
func (s *Simulation) SetRunning(running bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setRunningLocked(running)
}

// ToggleRunning flips the running flag and returns the new value.
func (s *Simulation) ToggleRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setRunningLocked(!s.running)
	return s.running
}

// setRunningLocked records a pause or resume event on change. Caller holds the lock.
func (s *Simulation) setRunningLocked(running bool) {
	if running == s.running {
		return
	}
	s.running = running
	typ := EventPause
	if running {
		typ = EventResume
	}
	s.addEvent(Event{Type: typ, Timestamp: s.now()})
}

// RecordEvent appends a view event (focus or overview) to the log.
func (s *Simulation) RecordEvent(typ EventType, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addEvent(Event{Type: typ, Timestamp: s.now(), Body: body})
}

// addEvent adds an event to the ring buffer. Caller holds the lock.
func (s *Simulation) addEvent(e Event) {
	if len(s.events) < s.maxEvents {
		s.events = append(s.events, e)
	} else {
		s.events[s.eventWriteAt] = e
		s.eventWriteAt = (s.eventWriteAt + 1) % s.maxEvents
	}
}

// Snapshot represents an immutable snapshot of simulation state.
type Snapshot struct {
	Speed   float64
	Running bool
	Events  []Event
}

// Snapshot returns a consistent snapshot of current state.
func (s *Simulation) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Speed:   s.speed,
		Running: s.running,
		Events:  s.getEventsOrdered(),
	}
}

// LastEvent returns the most recent event, if any.
func (s *Simulation) LastEvent() (Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := s.getEventsOrdered()
	if len(events) == 0 {
		return Event{}, false
	}
	return events[len(events)-1], true
}

// getEventsOrdered returns events in chronological order.
func (s *Simulation) getEventsOrdered() []Event {
	if len(s.events) == 0 {
		return nil
	}

	if len(s.events) < s.maxEvents {
		result := make([]Event, len(s.events))
		copy(result, s.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, s.maxEvents)
	for i := 0; i < s.maxEvents; i++ {
		idx := (s.eventWriteAt + i) % s.maxEvents
		result[i] = s.events[idx]
	}
	return result
}
