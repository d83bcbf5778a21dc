package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
)

// TierSource resolves a tier to a usable client. The Gateway implements
// it for production; tests use StaticTiers.
type TierSource interface {
	Client(tier Tier) (Client, error)
}

// Gateway owns one client per tier and swaps all of them atomically on
// (re)configuration. Using any tier before Configure fails with
// ErrNotConfigured.
type Gateway struct {
	mu      sync.RWMutex
	clients map[Tier]Client
	mws     []Middleware
}

// NewGateway returns an unconfigured gateway. Middlewares are applied
// to every client built by Configure.
func NewGateway(mws ...Middleware) *Gateway {
	return &Gateway{mws: mws}
}

// Configure builds the three tier clients for the given credential and
// replaces any previous set in one step. Old clients are closed.
func (g *Gateway) Configure(ctx context.Context, apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return fmt.Errorf("configure gateway: api key is required")
	}

	models := map[Tier]string{
		TierLite:  geminiLite,
		TierFlash: geminiFlash,
		TierPro:   geminiPro,
	}
	next := make(map[Tier]Client, len(models))
	for tier, model := range models {
		cli, err := NewGeminiClient(ctx, apiKey, model)
		if err != nil {
			for _, c := range next {
				_ = c.Close()
			}
			return fmt.Errorf("configure %s tier: %w", tier, err)
		}
		next[tier] = Chain(cli, g.mws...)
	}

	g.mu.Lock()
	prev := g.clients
	g.clients = next
	g.mu.Unlock()

	for _, c := range prev {
		_ = c.Close()
	}
	log.Printf("model gateway configured (key %s)", maskKey(apiKey))
	return nil
}

// Configured reports whether Configure has succeeded at least once.
func (g *Gateway) Configured() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.clients) > 0
}

// Client returns the client for a tier.
func (g *Gateway) Client(tier Tier) (Client, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if len(g.clients) == 0 {
		return nil, ErrNotConfigured
	}
	c, ok := g.clients[tier]
	if !ok {
		return nil, fmt.Errorf("unknown model tier %q", tier)
	}
	return c, nil
}

// Invoke runs one completion on the named tier.
func (g *Gateway) Invoke(ctx context.Context, tier Tier, prompt string) (string, error) {
	c, err := g.Client(tier)
	if err != nil {
		return "", err
	}
	return c.Generate(ctx, prompt)
}

// InvokeStream runs one completion on the named tier, delivering chunks
// through onChunk.
func (g *Gateway) InvokeStream(ctx context.Context, tier Tier, prompt string, onChunk func(chunk string)) (string, error) {
	c, err := g.Client(tier)
	if err != nil {
		return "", err
	}
	return c.GenerateStream(ctx, prompt, onChunk)
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// StaticTiers is a fixed tier table for tests and offline runs.
type StaticTiers map[Tier]Client

func (s StaticTiers) Client(tier Tier) (Client, error) {
	if len(s) == 0 {
		return nil, ErrNotConfigured
	}
	c, ok := s[tier]
	if !ok {
		return nil, fmt.Errorf("unknown model tier %q", tier)
	}
	return c, nil
}
