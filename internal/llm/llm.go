package llm

import (
	"context"
	"errors"
	"fmt"
)

// Client is the minimal text-completion surface every model tier
// exposes. Cross-cutting concerns (retries, logging) are applied via
// Middleware.
type Client interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
	GenerateStream(ctx context.Context, prompt string, onChunk func(chunk string)) (string, error)
	Close() error
}

// Tier names a quality/cost point. Most text-structuring stages run on
// the lite tier; SVG generation uses pro; revision and task flows use
// flash.
type Tier string

const (
	TierLite  Tier = "lite"
	TierFlash Tier = "flash"
	TierPro   Tier = "pro"
)

// ErrNotConfigured is returned when a tier is used before the gateway
// has been configured with credentials.
var ErrNotConfigured = errors.New("model gateway not configured")

// ErrEmptyResponse is returned when the provider answers with no
// candidates or no text parts.
var ErrEmptyResponse = errors.New("model returned an empty response")

// PermanentError marks a failure that retrying cannot fix (bad request,
// invalid credentials). Middleware must not retry these.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return fmt.Sprintf("permanent: %v", e.Err) }
func (e *PermanentError) Unwrap() error { return e.Err }

// Middleware wraps a Client with additional behavior.
type Middleware func(Client) Client

// Chain applies middlewares so the first listed is outermost.
func Chain(c Client, mws ...Middleware) Client {
	for i := len(mws) - 1; i >= 0; i-- {
		c = mws[i](c)
	}
	return c
}
