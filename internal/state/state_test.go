package state

import (
	"math"
	"sync"
	"testing"
)

func TestNewSimulation(t *testing.T) {
	s := NewSimulation(DefaultConfig())

	if s == nil {
		t.Fatal("NewSimulation returned nil")
	}
	if s.Speed() != DefaultSpeed {
		t.Errorf("Speed = %v, want %v", s.Speed(), DefaultSpeed)
	}
	if !s.Running() {
		t.Error("Running should be true initially")
	}
	if _, ok := s.LastEvent(); ok {
		t.Error("no events expected initially")
	}
}

func TestNewSimulation_PausedAndClamped(t *testing.T) {
	s := NewSimulation(Config{Speed: 42, Paused: true})

	if s.Running() {
		t.Error("Running should be false when Paused is set")
	}
	if s.Speed() != MaxSpeed {
		t.Errorf("Speed = %v, want clamp to %v", s.Speed(), MaxSpeed)
	}
}

func TestSimulation_SetSpeedClamps(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.5, 0.5},
		{0, MinSpeed},
		{-3, MinSpeed},
		{5, 5},
		{7.5, MaxSpeed},
		{math.NaN(), DefaultSpeed},
		{math.Inf(1), MaxSpeed},
		{math.Inf(-1), MinSpeed},
	}

	for _, tt := range tests {
		s := NewSimulation(DefaultConfig())
		if got := s.SetSpeed(tt.in); got != tt.want {
			t.Errorf("SetSpeed(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if s.Speed() != tt.want {
			t.Errorf("Speed after SetSpeed(%v) = %v, want %v", tt.in, s.Speed(), tt.want)
		}
	}
}

func TestNewSimulation_NaNSpeed(t *testing.T) {
	s := NewSimulation(Config{Speed: math.NaN()})

	if s.Speed() != DefaultSpeed {
		t.Errorf("Speed = %v, want %v", s.Speed(), DefaultSpeed)
	}
}

func TestSimulation_ConcurrentToggle(t *testing.T) {
	const toggles = 64
	s := NewSimulation(Config{MaxEvents: toggles})

	var wg sync.WaitGroup
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.ToggleRunning()
		}()
	}
	wg.Wait()

	// An even number of flips lands back on the initial state.
	if !s.Running() {
		t.Error("Running = false after an even number of toggles")
	}
	snap := s.Snapshot()
	if len(snap.Events) != toggles {
		t.Fatalf("events = %d, want %d", len(snap.Events), toggles)
	}
	for i, ev := range snap.Events {
		want := EventPause
		if i%2 == 1 {
			want = EventResume
		}
		if ev.Type != want {
			t.Fatalf("event %d = %s, want %s", i, ev.Type, want)
		}
	}
}

func TestSimulation_ToggleRecordsEvents(t *testing.T) {
	s := NewSimulation(DefaultConfig())

	if s.ToggleRunning() {
		t.Fatal("first toggle should pause")
	}
	if !s.ToggleRunning() {
		t.Fatal("second toggle should resume")
	}
	// Setting the same value again is not an event.
	s.SetRunning(true)

	snap := s.Snapshot()
	if len(snap.Events) != 2 {
		t.Fatalf("events = %d, want 2", len(snap.Events))
	}
	if snap.Events[0].Type != EventPause || snap.Events[1].Type != EventResume {
		t.Errorf("events = %v, want PAUSE then RESUME", snap.Events)
	}
}

func TestSimulation_EventRingBuffer(t *testing.T) {
	s := NewSimulation(Config{MaxEvents: 3})

	for _, body := range []string{"a", "b", "c", "d", "e"} {
		s.RecordEvent(EventFocus, body)
	}

	snap := s.Snapshot()
	if len(snap.Events) != 3 {
		t.Fatalf("events = %d, want 3", len(snap.Events))
	}
	for i, want := range []string{"c", "d", "e"} {
		if snap.Events[i].Body != want {
			t.Errorf("event[%d].Body = %q, want %q", i, snap.Events[i].Body, want)
		}
	}

	last, ok := s.LastEvent()
	if !ok || last.Body != "e" {
		t.Errorf("LastEvent = %v, %v; want body e", last, ok)
	}
}

func TestSimulation_SnapshotIsCopy(t *testing.T) {
	s := NewSimulation(DefaultConfig())
	s.RecordEvent(EventOverview, "")

	snap := s.Snapshot()
	snap.Events[0].Body = "mutated"

	if again := s.Snapshot(); again.Events[0].Body != "" {
		t.Error("Snapshot events alias internal storage")
	}
}

func TestSimulation_ConcurrentAccess(t *testing.T) {
	s := NewSimulation(DefaultConfig())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.SetSpeed(float64(j%50) / 10)
				s.SetRunning(j%2 == 0)
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = s.Speed()
				_ = s.Running()
				_ = s.Snapshot()
			}
		}()
	}
	wg.Wait()

	if v := s.Speed(); v < MinSpeed || v > MaxSpeed {
		t.Errorf("speed escaped bounds: %v", v)
	}
}
