package transport

import (
	"errors"
	"testing"

	apperrors "github.com/tessro/auralyn/internal/errors"
)

func next(t *testing.T, s *Silent) Event {
	t.Helper()
	return receive(t, s.Events())
}

func TestSilentPlayReportsGeneration(t *testing.T) {
	s := NewSilent()
	defer s.Close()
	s.Load(7, "https://cdn.example/a.mp3")
	s.Play()

	ev := next(t, s)
	if ev.Kind != EventPlayStarted {
		t.Errorf("Kind = %v, want %v", ev.Kind, EventPlayStarted)
	}
	if ev.Generation != 7 {
		t.Errorf("Generation = %d, want 7", ev.Generation)
	}
}

func TestSilentPlayWithoutMediaFails(t *testing.T) {
	s := NewSilent()
	defer s.Close()
	s.Load(1, "https://cdn.example/a.mp3")
	s.Stop()
	s.Play()

	ev := next(t, s)
	if ev.Kind != EventPlayFailed {
		t.Fatalf("Kind = %v, want %v", ev.Kind, EventPlayFailed)
	}
	if !errors.Is(ev.Err, apperrors.ErrPlaybackRejected) {
		t.Errorf("Err = %v, want ErrPlaybackRejected", ev.Err)
	}
}

func TestSilentDoesNotBlockWhenUndrained(t *testing.T) {
	s := NewSilent()
	defer s.Close()
	s.Load(1, "u")
	for i := 0; i < 1000; i++ {
		s.Play()
	}
}

func TestEventKindString(t *testing.T) {
	if EventEnded.String() != "ended" {
		t.Errorf("String() = %q, want %q", EventEnded.String(), "ended")
	}
	if EventKind(99).String() != "EventKind(99)" {
		t.Errorf("String() = %q", EventKind(99).String())
	}
}
