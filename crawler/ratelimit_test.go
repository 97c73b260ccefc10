package crawler

import (
	"context"
	"testing"
	"time"
)

func TestPacer_PauseSpansFullDelay(t *testing.T) {
	delay := 50 * time.Millisecond
	pacer := NewPacer(delay)

	for i := range 3 {
		start := time.Now()
		if err := pacer.Pause(context.Background()); err != nil {
			t.Fatalf("Pause() error: %v", err)
		}
		if elapsed := time.Since(start); elapsed < delay-5*time.Millisecond {
			t.Errorf("pause %d took %v, want at least %v", i, elapsed, delay)
		}
	}
}

// TestPacer_PauseAfterIdle verifies that time spent elsewhere does not
// count towards the next pause.
func TestPacer_PauseAfterIdle(t *testing.T) {
	delay := 50 * time.Millisecond
	pacer := NewPacer(delay)

	if err := pacer.Pause(context.Background()); err != nil {
		t.Fatalf("Pause() error: %v", err)
	}
	time.Sleep(2 * delay)

	start := time.Now()
	if err := pacer.Pause(context.Background()); err != nil {
		t.Fatalf("Pause() error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < delay-5*time.Millisecond {
		t.Errorf("pause after idle took %v, want at least %v", elapsed, delay)
	}
}

func TestPacer_ZeroDelayUnlimited(t *testing.T) {
	pacer := NewPacer(0)

	start := time.Now()
	for range 100 {
		if err := pacer.Pause(context.Background()); err != nil {
			t.Fatalf("Pause() error: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("unpaced pauses took %v", elapsed)
	}
	if pacer.Delay() != 0 {
		t.Errorf("Delay() = %v, want 0", pacer.Delay())
	}
}

func TestPacer_ContextCancelled(t *testing.T) {
	pacer := NewPacer(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	if err := pacer.Pause(ctx); err == nil {
		t.Error("Pause() with cancelled context should return error")
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("cancelled Pause() took %v", elapsed)
	}
}
