package tray

import (
	"context"
	"testing"
	"time"

	"github.com/ayusman/airkeys/internal/hub"
	"github.com/ayusman/airkeys/internal/selection"
	"github.com/ayusman/airkeys/internal/session"
)

func TestTitles(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"", "Last: none"},
		{" ", "Last: Space"},
		{"a", "Last: a"},
		{"<-", "Last: <-"},
	}
	for _, tt := range tests {
		if got := lastKeyTitle(tt.label); got != tt.want {
			t.Errorf("lastKeyTitle(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
	if pauseTitle(true) == pauseTitle(false) {
		t.Error("pause titles should differ")
	}
}

func TestTray_TogglePauseWithoutMenu(t *testing.T) {
	tr := New()
	var got []bool
	tr.OnPause(func(paused bool) { got = append(got, paused) })

	tr.togglePause()
	tr.togglePause()

	if len(got) != 2 || !got[0] || got[1] {
		t.Errorf("callbacks = %v, want [true false]", got)
	}
	if tr.IsPaused() {
		t.Error("tray should be running after two toggles")
	}
}

func TestTray_Follow(t *testing.T) {
	h := hub.New()
	tr := New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		tr.Follow(ctx, h)
		close(done)
	}()

	// Publish until the follower has subscribed and seen the activation.
	deadline := time.Now().Add(2 * time.Second)
	for tr.LastKey() != "q" {
		if time.Now().After(deadline) {
			t.Fatal("tray did not pick up the last key")
		}
		h.Publish(session.View{Activation: &selection.Activation{Label: "q"}}, nil)
		time.Sleep(5 * time.Millisecond)
	}

	// Frames without an activation keep the last key.
	h.Publish(session.View{}, nil)
	time.Sleep(10 * time.Millisecond)
	if tr.LastKey() != "q" {
		t.Errorf("LastKey() = %q, want q", tr.LastKey())
	}

	h.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Follow should return when the hub closes")
	}
}
