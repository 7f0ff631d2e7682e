package netstatus

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func waitChange(t *testing.T, ch <-chan bool) bool {
	t.Helper()
	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatal("changes channel closed unexpectedly")
		}
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a status change")
		return false
	}
}

func TestProberEmitsOnlyTransitions(t *testing.T) {
	var failing atomic.Bool
	check := func(context.Context) error {
		if failing.Load() {
			return errors.New("unreachable")
		}
		return nil
	}

	p := NewProber(check, 10*time.Millisecond)
	p.Start(context.Background())
	defer p.Stop()

	if !waitChange(t, p.Changes()) {
		t.Fatal("first probe against a healthy store must report online")
	}

	failing.Store(true)
	if waitChange(t, p.Changes()) {
		t.Fatal("expected an offline transition")
	}

	failing.Store(false)
	if !waitChange(t, p.Changes()) {
		t.Fatal("expected an online transition")
	}
}

func TestProberStopClosesChannel(t *testing.T) {
	p := NewProber(func(context.Context) error { return nil }, 10*time.Millisecond)
	p.Start(context.Background())

	waitChange(t, p.Changes())
	p.Stop()

	select {
	case _, open := <-p.Changes():
		if open {
			// A buffered transition may still be pending; the next
			// receive must observe the close.
			if _, open := <-p.Changes(); open {
				t.Fatal("changes channel must close after Stop")
			}
		}
	case <-time.After(time.Second):
		t.Fatal("changes channel must close after Stop")
	}
}
