package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestStaticTiers_NotConfigured(t *testing.T) {
	var s StaticTiers
	_, err := s.Client(TierLite)
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestStaticTiers_UnknownTier(t *testing.T) {
	s := StaticTiers{TierLite: &FakeClient{}}
	if _, err := s.Client(Tier("turbo")); err == nil {
		t.Fatalf("expected error for unknown tier")
	}
	if _, err := s.Client(TierLite); err != nil {
		t.Fatalf("known tier: %v", err)
	}
}

func TestGateway_UnconfiguredInvoke(t *testing.T) {
	g := NewGateway()
	_, err := g.Invoke(context.Background(), TierFlash, "hello")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if g.Configured() {
		t.Fatalf("gateway should report unconfigured")
	}
}

func TestGateway_ConfigureRejectsEmptyKey(t *testing.T) {
	g := NewGateway()
	if err := g.Configure(context.Background(), "   "); err == nil {
		t.Fatalf("expected error for blank key")
	}
}

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	fake := &FakeClient{Fn: func(ctx context.Context, prompt string) (string, error) {
		calls++
		if calls < 3 {
			return "", fmt.Errorf("transient %d", calls)
		}
		return "ok", nil
	}}
	c := Chain(fake, Retry(3, time.Millisecond))
	out, err := c.Generate(context.Background(), "p")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "ok" || calls != 3 {
		t.Fatalf("expected 3 calls and ok, got %d calls, %q", calls, out)
	}
}

func TestRetry_StopsOnPermanentError(t *testing.T) {
	calls := 0
	fake := &FakeClient{Fn: func(ctx context.Context, prompt string) (string, error) {
		calls++
		return "", &PermanentError{Err: errors.New("bad request")}
	}}
	c := Chain(fake, Retry(5, time.Millisecond))
	_, err := c.Generate(context.Background(), "p")
	var perm *PermanentError
	if !errors.As(err, &perm) {
		t.Fatalf("expected PermanentError, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("permanent error must not be retried, got %d calls", calls)
	}
}

func TestRetry_HonorsCancellation(t *testing.T) {
	fake := &FakeClient{Fn: func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("always fails")
	}}
	c := Chain(fake, Retry(10, 50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := c.Generate(ctx, "p")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFakeClient_StreamDeliversChunk(t *testing.T) {
	fake := &FakeClient{Fn: func(ctx context.Context, prompt string) (string, error) {
		return "<svg></svg>", nil
	}}
	var chunks []string
	out, err := fake.GenerateStream(context.Background(), "p", func(c string) {
		chunks = append(chunks, c)
	})
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	if out != "<svg></svg>" || len(chunks) != 1 || chunks[0] != out {
		t.Fatalf("unexpected stream result: %q %v", out, chunks)
	}
}
