package load

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
	"time"
)

func nextState[T any](t *testing.T, states <-chan State[T]) State[T] {
	t.Helper()
	select {
	case s, ok := <-states:
		if !ok {
			t.Fatal("state stream closed")
		}
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for state")
	}
	return State[T]{}
}

func assertNoState[T any](t *testing.T, states <-chan State[T]) {
	t.Helper()
	select {
	case s := <-states:
		t.Fatalf("unexpected state %+v", s)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPresenter_LoadSuccess(t *testing.T) {
	p := NewPresenter[string]("greeting", time.Second, nil)
	t.Cleanup(p.Close)

	p.Load(func(context.Context) (string, error) { return "hello", nil })

	if s := nextState(t, p.States()); !s.Loading || s.Loaded {
		t.Fatalf("expected loading state, got %+v", s)
	}
	s := nextState(t, p.States())
	if s.Loading || !s.Loaded || s.Data != "hello" || s.Err != nil {
		t.Fatalf("expected loaded state, got %+v", s)
	}
}

func TestPresenter_LoadErrorIsLogged(t *testing.T) {
	var logs bytes.Buffer
	p := NewPresenter[int]("answer", time.Second, log.New(&logs, "", 0))
	t.Cleanup(p.Close)

	p.Load(func(context.Context) (int, error) { return 0, errors.New("offline") })

	nextState(t, p.States())
	s := nextState(t, p.States())
	if s.Loading || s.Loaded || s.Err == nil || s.Err.Error() != "offline" {
		t.Fatalf("expected error state, got %+v", s)
	}
	if !strings.Contains(logs.String(), "answer: load failed: offline") {
		t.Fatalf("expected failure log, got %q", logs.String())
	}
}

func TestPresenter_ReloadKeepsDataWhileLoading(t *testing.T) {
	p := NewPresenter[string]("greeting", time.Second, nil)
	t.Cleanup(p.Close)

	p.Load(func(context.Context) (string, error) { return "first", nil })
	nextState(t, p.States())
	nextState(t, p.States())

	release := make(chan struct{})
	p.Load(func(context.Context) (string, error) {
		<-release
		return "second", nil
	})
	s := nextState(t, p.States())
	if !s.Loading || !s.Loaded || s.Data != "first" {
		t.Fatalf("expected reload to keep previous data, got %+v", s)
	}
	close(release)
	if s := nextState(t, p.States()); s.Data != "second" || s.Loading {
		t.Fatalf("expected second result, got %+v", s)
	}
}

func TestPresenter_LatestLoadWins(t *testing.T) {
	p := NewPresenter[string]("search", time.Second, nil)
	t.Cleanup(p.Close)

	canceled := make(chan error, 1)
	p.Load(func(ctx context.Context) (string, error) {
		<-ctx.Done()
		canceled <- ctx.Err()
		return "stale", ctx.Err()
	})
	nextState(t, p.States())

	p.Load(func(context.Context) (string, error) { return "fresh", nil })
	nextState(t, p.States())
	if s := nextState(t, p.States()); s.Data != "fresh" {
		t.Fatalf("expected latest result, got %+v", s)
	}

	select {
	case err := <-canceled:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected replaced load to be canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("replaced load was not canceled")
	}
	assertNoState(t, p.States())
}

func TestPresenter_LoadTimeout(t *testing.T) {
	p := NewPresenter[string]("slow", 20*time.Millisecond, nil)
	t.Cleanup(p.Close)

	p.Load(func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	nextState(t, p.States())
	if s := nextState(t, p.States()); !errors.Is(s.Err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %+v", s)
	}
}

func TestPresenter_ResetReturnsToZeroState(t *testing.T) {
	p := NewPresenter[string]("search", time.Second, nil)
	t.Cleanup(p.Close)

	p.Load(func(context.Context) (string, error) { return "result", nil })
	nextState(t, p.States())
	nextState(t, p.States())

	p.Reset()
	if s := nextState(t, p.States()); s.Loading || s.Loaded || s.Data != "" || s.Err != nil {
		t.Fatalf("expected zero state, got %+v", s)
	}
}

func TestPresenter_CloseEndsStream(t *testing.T) {
	p := NewPresenter[string]("details", time.Second, nil)
	started := make(chan struct{})
	p.Load(func(ctx context.Context) (string, error) {
		close(started)
		<-ctx.Done()
		return "", ctx.Err()
	})
	<-started

	p.Close()
	p.Close()
	p.Load(func(context.Context) (string, error) { return "late", nil })
	p.Reset()

	for s := range p.States() {
		if s.Loaded {
			t.Fatalf("unexpected state after close: %+v", s)
		}
	}
}
