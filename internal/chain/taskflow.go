package chain

import (
	"context"
	"encoding/json"
	"strings"

	"ideaforge/internal/llm"
	"ideaforge/internal/prompt"
	"ideaforge/internal/util/jsonutil"
)

// TaskFlowStage identifies, per screen in a task's sequence, the SVG
// snippets of the elements the user interacts with to move forward.
// The response often embeds raw SVG with unescaped quotes, so parsing
// goes through the full recovery cascade.
type TaskFlowStage struct {
	Model llm.Client
}

func (s *TaskFlowStage) Run(ctx context.Context, task string, uiCodes []string, interactions []string) ([][]string, error) {
	codesJSON, err := jsonutil.MarshalNoEscapeIndent(uiCodes, "", "  ")
	if err != nil {
		return nil, err
	}
	p, err := prompt.TaskFlowGeneration.Render(map[string]string{
		"task":               task,
		"uiCodes":            string(codesJSON),
		"screenInteractions": strings.Join(interactions, "\n"),
	})
	if err != nil {
		return nil, err
	}
	raw, err := s.Model.Generate(ctx, p)
	if err != nil {
		return nil, err
	}
	recovered, err := jsonutil.Recover(raw, "task flow")
	if err != nil {
		return nil, err
	}
	return normalizeFlows(recovered, len(uiCodes)), nil
}

// normalizeFlows coerces whatever array shape the model produced into
// one snippet list per screen. Elements may be plain strings, string
// arrays, or {screen_index, highlighted_ui_code} objects; out-of-range
// screen indices are clamped.
func normalizeFlows(recovered json.RawMessage, n int) [][]string {
	out := make([][]string, n)
	if n == 0 {
		return out
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(recovered, &elements); err != nil {
		return out
	}
	clamp := func(i int) int {
		if i < 0 {
			return 0
		}
		if i >= n {
			return n - 1
		}
		return i
	}
	for i, el := range elements {
		var str string
		if err := json.Unmarshal(el, &str); err == nil {
			out[clamp(i)] = append(out[clamp(i)], str)
			continue
		}
		var list []string
		if err := json.Unmarshal(el, &list); err == nil {
			out[clamp(i)] = append(out[clamp(i)], list...)
			continue
		}
		var obj struct {
			ScreenIndex *int   `json:"screen_index"`
			Code        string `json:"highlighted_ui_code"`
		}
		if err := json.Unmarshal(el, &obj); err == nil && obj.Code != "" {
			at := i
			if obj.ScreenIndex != nil {
				at = *obj.ScreenIndex
			}
			out[clamp(at)] = append(out[clamp(at)], obj.Code)
		}
	}
	return out
}
