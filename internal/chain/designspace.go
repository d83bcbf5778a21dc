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

// DesignSpaceStage condenses a set of divergent ideas into exactly
// three orthogonal design dimensions with discrete options.
type DesignSpaceStage struct {
	Model llm.Client
}

func (s *DesignSpaceStage) Run(ctx context.Context, in types.IdeationInput, ideas []types.Idea) (types.DesignSpace, error) {
	ideasJSON, err := jsonutil.MarshalNoEscapeIndent(ideas, "", "  ")
	if err != nil {
		return nil, err
	}
	p, err := prompt.DesignSpaceFromIdeas.Render(map[string]string{
		"divergentIdeas": string(ideasJSON),
		"context":        in.Context,
		"user":           in.User,
		"goal":           in.Goal,
		"tasks":          strings.Join(in.Tasks, "; "),
		"examples":       strings.Join(in.Examples, "; "),
		"userComments":   in.Comments,
	})
	if err != nil {
		return nil, err
	}
	raw, err := s.Model.Generate(ctx, p)
	if err != nil {
		return nil, err
	}
	var space types.DesignSpace
	if err := jsonutil.RecoverInto(raw, "design space", &space); err != nil {
		return nil, err
	}
	if len(space) != 3 {
		return nil, &ValidationError{Stage: "design space", Reason: "expected exactly 3 dimensions"}
	}
	for _, dim := range space {
		if n := len(dim.Options); n < 3 || n > 5 {
			log.Printf("design space: dimension %q has %d options, expected 3-5", dim.DimensionName, n)
		}
	}
	return space, nil
}
