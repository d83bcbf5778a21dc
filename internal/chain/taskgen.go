package chain

import (
	"context"
	"strings"

	"ideaforge/internal/llm"
	"ideaforge/internal/prompt"
	"ideaforge/internal/types"
	"ideaforge/internal/util/jsonutil"
)

// TaskSuggestionStage proposes one additional task for the stated goal.
// Output is plain text, not JSON.
type TaskSuggestionStage struct {
	Model llm.Client
}

func (s *TaskSuggestionStage) Run(ctx context.Context, in types.IdeationInput) (string, error) {
	p, err := prompt.TaskGeneration.Render(map[string]string{
		"context":      in.Context,
		"user":         in.User,
		"goal":         in.Goal,
		"examples":     strings.Join(in.Examples, "; "),
		"userComments": in.Comments,
	})
	if err != nil {
		return "", err
	}
	raw, err := s.Model.Generate(ctx, p)
	if err != nil {
		return "", err
	}
	task := strings.TrimSpace(jsonutil.StripFences(raw))
	task = strings.Trim(task, `"`)
	if task == "" {
		return "", &ValidationError{Stage: "task generation", Reason: "empty task"}
	}
	return task, nil
}
