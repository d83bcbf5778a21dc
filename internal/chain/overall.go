package chain

import (
	"context"

	"ideaforge/internal/llm"
	"ideaforge/internal/prompt"
	"ideaforge/internal/types"
	"ideaforge/internal/util/jsonutil"
)

// OverallDesignsStage generates high-level design concepts for one
// combination of design parameters.
type OverallDesignsStage struct {
	Model llm.Client
}

func (s *OverallDesignsStage) Run(ctx context.Context, designParameters, userComments string) ([]types.OverallDesign, error) {
	p, err := prompt.OverallDesign.Render(map[string]string{
		"designParameters": designParameters,
		"userComments":     userComments,
	})
	if err != nil {
		return nil, err
	}
	raw, err := s.Model.Generate(ctx, p)
	if err != nil {
		return nil, err
	}
	var designs []types.OverallDesign
	if err := jsonutil.RecoverInto(raw, "overall design", &designs); err != nil {
		return nil, err
	}
	if len(designs) == 0 {
		return nil, &ValidationError{Stage: "overall design", Reason: "empty design list"}
	}
	return designs, nil
}
