package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"

	"ideaforge/internal/llm"
	"ideaforge/internal/prompt"
	"ideaforge/internal/types"
	"ideaforge/internal/util/jsonutil"
)

// TaskScreenText pairs a task with the free-form screen description
// generated for it.
type TaskScreenText struct {
	Task        string
	Description string
}

// TaskwiseScreensStage describes the screens each task needs, one model
// call per task. Calls run sequentially unless Parallel is set; a
// failed task keeps its slot with an inline error note so the merge
// step still sees every task.
type TaskwiseScreensStage struct {
	Model    llm.Client
	Parallel bool
}

func (s *TaskwiseScreensStage) Run(ctx context.Context, overallDesign string, tasks []string) ([]TaskScreenText, error) {
	if len(tasks) == 0 {
		return nil, &ValidationError{Stage: "taskwise screens", Reason: "no tasks provided"}
	}
	out := make([]TaskScreenText, len(tasks))
	describe := func(i int) {
		out[i] = TaskScreenText{Task: tasks[i], Description: s.describeTask(ctx, overallDesign, tasks[i])}
	}
	if s.Parallel {
		var wg sync.WaitGroup
		for i := range tasks {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				describe(i)
			}(i)
		}
		wg.Wait()
	} else {
		for i := range tasks {
			describe(i)
		}
	}
	return out, nil
}

func (s *TaskwiseScreensStage) describeTask(ctx context.Context, overallDesign, task string) string {
	p, err := prompt.TaskwiseScreenDescriptions.Render(map[string]string{
		"overallDesign": overallDesign,
		"tasks":         task,
	})
	if err == nil {
		var desc string
		if desc, err = s.Model.Generate(ctx, p); err == nil {
			return desc
		}
	}
	log.Printf("taskwise screens: task %q failed: %v", task, err)
	return fmt.Sprintf("Error generating screen descriptions for this task: %v", err)
}

// MergeScreensStage unifies the per-task descriptions into a minimal
// screen set. The model is asked for JSON; when it answers in prose
// instead, a line-oriented extractor salvages what it can, and as a
// last resort a single generic screen is produced. Every returned
// screen carries a fresh stable id.
type MergeScreensStage struct {
	Model llm.Client
}

func (s *MergeScreensStage) Run(ctx context.Context, described []TaskScreenText) ([]types.ScreenDescription, error) {
	if len(described) == 0 {
		return nil, &ValidationError{Stage: "merge screens", Reason: "no screen descriptions provided"}
	}
	var sb strings.Builder
	for i, d := range described {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "Task %d: %s\nScreen Description: %s", i+1, d.Task, d.Description)
	}
	p, err := prompt.MergeScreenDescriptions.Render(map[string]string{
		"screenDescriptions": sb.String(),
	})
	if err != nil {
		return nil, err
	}
	raw, err := s.Model.Generate(ctx, p)
	if err != nil {
		return nil, err
	}

	var screens []types.ScreenDescription
	if err := jsonutil.RecoverInto(raw, "merged screen descriptions", &screens); err != nil || len(screens) == 0 {
		log.Printf("merge screens: JSON parse failed, extracting from natural language")
		screens = screensFromProse(raw)
	}
	if len(screens) == 0 {
		log.Printf("merge screens: could not extract screens, using generic fallback")
		screens = []types.ScreenDescription{{
			Title:           "Main Screen",
			Purpose:         "Primary application screen",
			CoreElements:    types.FlexStrings{"Core functionality elements"},
			KeyInteractions: types.FlexStrings{"Primary user interactions"},
		}}
	}
	for i := range screens {
		screens[i].ID = uuid.NewString()
	}
	return screens, nil
}

var screenBlockStart = regexp.MustCompile(`^(Screen(\s+\d+)?\b|\d+\.|[-*]\s)`)

// screensFromProse splits a prose answer into screen blocks and pulls
// title/purpose/elements/interactions lines out of each.
func screensFromProse(text string) []types.ScreenDescription {
	var blocks [][]string
	var cur []string
	for _, line := range strings.Split(jsonutil.StripFences(text), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if screenBlockStart.MatchString(trimmed) && len(cur) > 0 {
			blocks = append(blocks, cur)
			cur = nil
		}
		cur = append(cur, trimmed)
	}
	if len(cur) > 0 {
		blocks = append(blocks, cur)
	}

	var out []types.ScreenDescription
	for i, block := range blocks {
		screen := types.ScreenDescription{
			Title:           fmt.Sprintf("Screen %d", i+1),
			Purpose:         "Screen purpose not specified",
			CoreElements:    types.FlexStrings{"Core elements not specified"},
			KeyInteractions: types.FlexStrings{"Key interactions not specified"},
		}
		for _, line := range block {
			lower := strings.ToLower(line)
			switch {
			case strings.Contains(lower, "title:"), strings.Contains(lower, "name:"):
				if v := lineValue(line); v != "" {
					screen.Title = v
				}
			case strings.Contains(lower, "purpose:"), strings.Contains(lower, "goal:"):
				if v := lineValue(line); v != "" {
					screen.Purpose = v
				}
			case strings.Contains(lower, "elements:"), strings.Contains(lower, "components:"):
				if items := splitList(lineValue(line)); len(items) > 0 {
					screen.CoreElements = items
				}
			case strings.Contains(lower, "interactions:"), strings.Contains(lower, "actions:"):
				if items := splitList(lineValue(line)); len(items) > 0 {
					screen.KeyInteractions = items
				}
			}
		}
		out = append(out, screen)
	}
	return out
}

func lineValue(line string) string {
	if _, after, ok := strings.Cut(line, ":"); ok {
		return strings.Trim(strings.TrimSpace(after), "*_")
	}
	return ""
}

func splitList(v string) types.FlexStrings {
	var out types.FlexStrings
	for _, part := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ';' }) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// MapTasksStage assigns each task an ordered screen sequence. The model
// references screens by 0-based index; the stage clamps out-of-range
// indices and translates them to the screens' stable ids. Any parse
// failure degrades to a mapping that sends every task to the first
// screen.
type MapTasksStage struct {
	Model llm.Client
}

func (s *MapTasksStage) Run(ctx context.Context, tasks []string, screens []types.ScreenDescription) (types.TaskScreenMapping, error) {
	if len(tasks) == 0 {
		return nil, &ValidationError{Stage: "task screen mapping", Reason: "no tasks provided"}
	}
	if len(screens) == 0 {
		return nil, &ValidationError{Stage: "task screen mapping", Reason: "no screens provided"}
	}
	screensJSON, err := jsonutil.MarshalNoEscapeIndent(screens, "", "  ")
	if err != nil {
		return nil, err
	}
	p, err := prompt.TaskScreenMapping.Render(map[string]string{
		"tasks":              strings.Join(tasks, "\n"),
		"screenDescriptions": string(screensJSON),
	})
	if err != nil {
		return nil, err
	}
	raw, err := s.Model.Generate(ctx, p)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw) == "" {
		log.Printf("task screen mapping: empty model response, using fallback mapping")
		return fallbackMapping(tasks, screens), nil
	}
	entries, ok := parseMappingResponse(raw)
	if !ok || len(entries) == 0 {
		log.Printf("task screen mapping: unparseable model response, using fallback mapping")
		return fallbackMapping(tasks, screens), nil
	}

	out := make(types.TaskScreenMapping, 0, len(entries))
	for _, e := range entries {
		ts := types.TaskScreens{Task: e.Task}
		for _, ref := range e.Screens {
			idx := ref.ScreenID
			if idx < 0 {
				idx = 0
			}
			if idx >= len(screens) {
				idx = len(screens) - 1
			}
			ts.Screens = append(ts.Screens, types.ScreenRef{
				ScreenID:    screens[idx].ID,
				Index:       idx,
				Interaction: ref.Interaction,
			})
		}
		if len(ts.Screens) == 0 {
			ts.Screens = []types.ScreenRef{{ScreenID: screens[0].ID, Index: 0, Interaction: "Complete task: " + e.Task}}
		}
		out = append(out, ts)
	}
	return out, nil
}

type rawScreenRef struct {
	ScreenID    int    `json:"screen_id"`
	Interaction string `json:"interaction"`
}

type rawTaskScreens struct {
	Task    string         `json:"task"`
	Screens []rawScreenRef `json:"screens"`
}

// parseMappingResponse accepts the documented {"tasksWithScreens": [...]}
// shape, or falls back to the first object value that looks like the
// mapping array.
func parseMappingResponse(raw string) ([]rawTaskScreens, bool) {
	recovered, err := jsonutil.Recover(raw, "task screen mapping")
	if err != nil {
		return nil, false
	}
	var wrapped struct {
		TasksWithScreens []rawTaskScreens `json:"tasksWithScreens"`
	}
	if err := json.Unmarshal(recovered, &wrapped); err == nil && len(wrapped.TasksWithScreens) > 0 {
		return wrapped.TasksWithScreens, true
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(recovered, &obj); err == nil {
		for _, v := range obj {
			var entries []rawTaskScreens
			if err := json.Unmarshal(v, &entries); err == nil && len(entries) > 0 {
				return entries, true
			}
		}
	}
	var entries []rawTaskScreens
	if err := json.Unmarshal(recovered, &entries); err == nil && len(entries) > 0 {
		return entries, true
	}
	return nil, false
}

func fallbackMapping(tasks []string, screens []types.ScreenDescription) types.TaskScreenMapping {
	out := make(types.TaskScreenMapping, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, types.TaskScreens{
			Task: task,
			Screens: []types.ScreenRef{{
				ScreenID:    screens[0].ID,
				Index:       0,
				Interaction: "Complete task: " + task,
			}},
		})
	}
	return out
}
