package audio

import (
	"context"
	"os/exec"
	"testing"
	"time"
)

func TestNewCommandPlayerWithoutCommand(t *testing.T) {
	if p := NewCommandPlayer(nil); p != nil {
		t.Fatal("expected nil player when no command is configured")
	}
}

func TestCommandPlayerNewPlaybackStopsPrevious(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}

	p := NewCommandPlayer([]string{"sleep", "10"})
	buf := &Buffer{SampleRate: 24000, Channels: [][]float32{{0, 0.5}}}

	first := make(chan error, 1)
	go func() { first <- p.Play(context.Background(), buf) }()

	// give the first process a moment to start
	time.Sleep(100 * time.Millisecond)

	second := make(chan error, 1)
	go func() { second <- p.Play(context.Background(), buf) }()

	select {
	case err := <-first:
		if err != nil {
			t.Fatalf("replaced playback should end quietly, got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("first playback was not torn down")
	}

	time.Sleep(100 * time.Millisecond)
	p.Stop()
	select {
	case err := <-second:
		if err != nil {
			t.Fatalf("stopped playback should end quietly, got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Stop did not end the playback")
	}
}
