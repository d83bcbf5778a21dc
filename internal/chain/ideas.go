package chain

import (
	"context"
	"log"
	"strings"

	"ideaforge/internal/llm"
	"ideaforge/internal/prompt"
	"ideaforge/internal/types"
	"ideaforge/internal/util/jsonutil"
)

// DivergentIdeasStage brainstorms product metaphors for the given
// ideation input.
type DivergentIdeasStage struct {
	Model llm.Client
}

func (s *DivergentIdeasStage) Run(ctx context.Context, in types.IdeationInput) ([]types.Idea, error) {
	p, err := prompt.DivergentIdeas.Render(map[string]string{
		"context":      in.Context,
		"user":         in.User,
		"goal":         in.Goal,
		"tasks":        strings.Join(in.Tasks, "; "),
		"examples":     strings.Join(in.Examples, "; "),
		"userComments": in.Comments,
	})
	if err != nil {
		return nil, err
	}
	raw, err := s.Model.Generate(ctx, p)
	if err != nil {
		return nil, err
	}
	var ideas []types.Idea
	if err := jsonutil.RecoverInto(raw, "divergent ideas", &ideas); err != nil {
		return nil, err
	}
	if len(ideas) == 0 {
		return nil, &ValidationError{Stage: "divergent ideas", Reason: "empty idea list"}
	}
	if len(ideas) < 10 {
		log.Printf("divergent ideas: only %d ideas generated, expected at least 10", len(ideas))
	}
	return ideas, nil
}
