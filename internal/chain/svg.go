package chain

import (
	"context"
	"strings"

	"ideaforge/internal/llm"
	"ideaforge/internal/prompt"
	"ideaforge/internal/types"
	"ideaforge/internal/util/jsonutil"
)

// SVGCodeStage renders one screen description into an SVG wireframe.
type SVGCodeStage struct {
	Model llm.Client
}

func (s *SVGCodeStage) Run(ctx context.Context, screen types.ScreenDescription, userComments string) (string, error) {
	screenJSON, err := jsonutil.MarshalNoEscapeIndent(screen, "", "  ")
	if err != nil {
		return "", err
	}
	p, err := prompt.SVGCodeGeneration.Render(map[string]string{
		"screenDescription": string(screenJSON),
		"userComments":      userComments,
	})
	if err != nil {
		return "", err
	}
	code, err := s.Model.Generate(ctx, p)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(jsonutil.StripFences(code)), nil
}
