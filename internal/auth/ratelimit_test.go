package auth

import (
	"testing"
	"time"
)

func TestRateLimiter_AdmitsUpToCeiling(t *testing.T) {
	l := NewRateLimiter(5, time.Minute)
	now := time.Date(2024, 1, 15, 7, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		if !l.Admit("tok", now.Add(time.Duration(i)*time.Second)) {
			t.Fatalf("request %d should be admitted", i+1)
		}
	}
	if l.Admit("tok", now.Add(10*time.Second)) {
		t.Error("request above the ceiling must be rejected")
	}
}

func TestRateLimiter_RejectionDoesNotConsumeSlot(t *testing.T) {
	l := NewRateLimiter(3, time.Minute)
	now := time.Date(2024, 1, 15, 7, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		l.Admit("tok", now)
	}
	l.Admit("tok", now.Add(time.Second)) // rejected

	if got := l.WindowSize("tok"); got != 3 {
		t.Errorf("rejected attempt must not extend the window: got %d timestamps", got)
	}
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	l := NewRateLimiter(3, time.Minute)
	now := time.Date(2024, 1, 15, 7, 0, 0, 0, time.UTC)

	l.Admit("tok", now)
	l.Admit("tok", now.Add(10*time.Second))
	l.Admit("tok", now.Add(20*time.Second))

	if l.Admit("tok", now.Add(30*time.Second)) {
		t.Error("fourth request inside the window must be rejected")
	}

	// 61s after the first request it falls out of the window, freeing a slot.
	if !l.Admit("tok", now.Add(61*time.Second)) {
		t.Error("request should be admitted once the oldest timestamp expires")
	}
}

func TestRateLimiter_TokensIndependent(t *testing.T) {
	l := NewRateLimiter(1, time.Minute)
	now := time.Date(2024, 1, 15, 7, 0, 0, 0, time.UTC)

	if !l.Admit("a", now) {
		t.Error("first request for a should be admitted")
	}
	if !l.Admit("b", now) {
		t.Error("b has its own window and should be admitted")
	}
	if l.Admit("a", now) {
		t.Error("a is at its ceiling")
	}
}

func TestRateLimiter_Forget(t *testing.T) {
	l := NewRateLimiter(1, time.Minute)
	now := time.Date(2024, 1, 15, 7, 0, 0, 0, time.UTC)

	l.Admit("tok", now)
	l.Forget("tok")

	if got := l.WindowSize("tok"); got != 0 {
		t.Errorf("expected empty window after Forget, got %d", got)
	}
	if !l.Admit("tok", now) {
		t.Error("token should be admitted again after its window is forgotten")
	}
}
