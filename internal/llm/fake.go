package llm

import (
	"context"
	"time"
)

// FakeClient scripts model responses for tests. Fn receives the prompt
// and returns the canned response; a nil Fn echoes the prompt back.
type FakeClient struct {
	Fn    func(ctx context.Context, prompt string) (string, error)
	Delay time.Duration
}

func (f *FakeClient) Name() string { return "Fake" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) Generate(ctx context.Context, prompt string) (string, error) {
	if f.Delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(f.Delay):
		}
	}
	if f.Fn == nil {
		return prompt, nil
	}
	return f.Fn(ctx, prompt)
}

func (f *FakeClient) GenerateStream(ctx context.Context, prompt string, onChunk func(chunk string)) (string, error) {
	out, err := f.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if onChunk != nil {
		onChunk(out)
	}
	return out, nil
}
