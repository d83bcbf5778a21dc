package llm

import (
	"context"
	"errors"
	"log"
	"time"
)

// Retry retries failed completions with exponential backoff. Permanent
// errors and context cancellation stop the loop immediately.
func Retry(maxAttempts int, base time.Duration) Middleware {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return func(next Client) Client {
		return &retryClient{next: next, attempts: maxAttempts, base: base}
	}
}

type retryClient struct {
	next     Client
	attempts int
	base     time.Duration
}

func (r *retryClient) Name() string { return r.next.Name() }
func (r *retryClient) Close() error { return r.next.Close() }

func (r *retryClient) Generate(ctx context.Context, prompt string) (string, error) {
	return r.do(ctx, func() (string, error) {
		return r.next.Generate(ctx, prompt)
	})
}

func (r *retryClient) GenerateStream(ctx context.Context, prompt string, onChunk func(chunk string)) (string, error) {
	return r.do(ctx, func() (string, error) {
		return r.next.GenerateStream(ctx, prompt, onChunk)
	})
}

func (r *retryClient) do(ctx context.Context, call func() (string, error)) (string, error) {
	var lastErr error
	for i := 0; i < r.attempts; i++ {
		if i > 0 {
			wait := r.base * time.Duration(1<<(i-1))
			log.Printf("%s: attempt %d/%d failed (%v), retrying in %s", r.next.Name(), i, r.attempts, lastErr, wait)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(wait):
			}
		}
		out, err := call()
		if err == nil {
			return out, nil
		}
		lastErr = err
		var perm *PermanentError
		if errors.As(err, &perm) {
			return "", err
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	return "", lastErr
}
