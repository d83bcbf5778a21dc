package chain

import (
	"context"
	"strings"

	"ideaforge/internal/llm"
	"ideaforge/internal/prompt"
	"ideaforge/internal/types"
	"ideaforge/internal/util/jsonutil"
)

// RevisionStage revises an SVG in two model calls: the lite tier
// translates critiques into a concrete change list, then the flash tier
// applies those changes surgically to the original code.
type RevisionStage struct {
	Lite  llm.Client
	Flash llm.Client
}

func (s *RevisionStage) Run(ctx context.Context, originalUICode string, critiques []types.Critique, userComments string) (string, error) {
	if len(critiques) == 0 {
		return originalUICode, nil
	}
	critiquesJSON, err := jsonutil.MarshalNoEscapeIndent(critiques, "", "  ")
	if err != nil {
		return "", err
	}
	changesPrompt, err := prompt.CritiqueToChanges.Render(map[string]string{
		"originalUICode": originalUICode,
		"critiques":      string(critiquesJSON),
		"userComments":   userComments,
	})
	if err != nil {
		return "", err
	}
	changesRaw, err := s.Lite.Generate(ctx, changesPrompt)
	if err != nil {
		return "", err
	}
	var changes []types.Change
	if err := jsonutil.RecoverInto(changesRaw, "ui code changes", &changes); err != nil {
		return "", err
	}

	changesJSON, err := jsonutil.MarshalNoEscapeIndent(changes, "", "  ")
	if err != nil {
		return "", err
	}
	applyPrompt, err := prompt.ApplyChangesToSVG.Render(map[string]string{
		"originalUICode": originalUICode,
		"changes":        string(changesJSON),
		"userComments":   userComments,
	})
	if err != nil {
		return "", err
	}
	revised, err := s.Flash.Generate(ctx, applyPrompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(jsonutil.StripFences(revised)), nil
}
