package chain

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ideaforge/internal/llm"
	"ideaforge/internal/types"
)

func fakeReplying(response string) *llm.FakeClient {
	return &llm.FakeClient{Fn: func(ctx context.Context, prompt string) (string, error) {
		return response, nil
	}}
}

func TestDivergentIdeas_ParsesAndValidates(t *testing.T) {
	stage := &DivergentIdeasStage{Model: fakeReplying(`[
		{"idea_id": 1, "idea_name": "Command Center", "description": "d", "inspiration": "i"},
		{"idea_id": 2, "idea_name": "Garden", "description": "d", "inspiration": "i"}
	]`)}
	ideas, err := stage.Run(context.Background(), types.IdeationInput{
		Context: "c", User: "u", Goal: "g", Tasks: []string{"t1"},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(ideas) != 2 || ideas[0].IdeaName != "Command Center" {
		t.Fatalf("unexpected ideas: %+v", ideas)
	}
}

func TestDivergentIdeas_EmptyArrayRejected(t *testing.T) {
	stage := &DivergentIdeasStage{Model: fakeReplying(`[]`)}
	_, err := stage.Run(context.Background(), types.IdeationInput{
		Context: "c", User: "u", Goal: "g", Tasks: []string{"t"},
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestDesignSpace_RequiresExactlyThreeDimensions(t *testing.T) {
	two := `[
		{"dimension_name": "A", "dimension_description": "?", "options": [{"option_name": "x", "option_description": "d"}]},
		{"dimension_name": "B", "dimension_description": "?", "options": [{"option_name": "y", "option_description": "d"}]}
	]`
	stage := &DesignSpaceStage{Model: fakeReplying(two)}
	_, err := stage.Run(context.Background(), types.IdeationInput{
		Context: "c", User: "u", Goal: "g", Tasks: []string{"t"},
	}, []types.Idea{{IdeaID: 1, IdeaName: "n"}})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for 2 dimensions, got %v", err)
	}
}

func TestDesignSpace_ThreeDimensionsAccepted(t *testing.T) {
	three := `[
		{"dimension_name": "Navigation", "dimension_description": "?", "options": [
			{"option_name": "Tabs", "option_description": "d"},
			{"option_name": "Drawer", "option_description": "d"},
			{"option_name": "Cards", "option_description": "d"}
		]},
		{"dimension_name": "Density", "dimension_description": "?", "options": [
			{"option_name": "Compact", "option_description": "d"},
			{"option_name": "Roomy", "option_description": "d"},
			{"option_name": "Adaptive", "option_description": "d"}
		]},
		{"dimension_name": "Guidance", "dimension_description": "?", "options": [
			{"option_name": "Wizard", "option_description": "d"},
			{"option_name": "Freeform", "option_description": "d"},
			{"option_name": "Hints", "option_description": "d"}
		]}
	]`
	stage := &DesignSpaceStage{Model: fakeReplying(three)}
	space, err := stage.Run(context.Background(), types.IdeationInput{
		Context: "c", User: "u", Goal: "g", Tasks: []string{"t"},
	}, []types.Idea{{IdeaID: 1, IdeaName: "n"}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(space) != 3 || space[0].DimensionName != "Navigation" {
		t.Fatalf("unexpected space: %+v", space)
	}
}

func TestTaskwiseScreens_FailedTaskKeepsSlot(t *testing.T) {
	model := &llm.FakeClient{Fn: func(ctx context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, "broken task") {
			return "", errors.New("rate limited")
		}
		return "screens for the task", nil
	}}
	stage := &TaskwiseScreensStage{Model: model}
	out, err := stage.Run(context.Background(), "overall", []string{"good task", "broken task", "another good task"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 results, got %d", len(out))
	}
	if out[0].Description != "screens for the task" || out[2].Description != "screens for the task" {
		t.Fatalf("good tasks should succeed: %+v", out)
	}
	if !strings.Contains(out[1].Description, "Error generating screen descriptions for this task") {
		t.Fatalf("failed task missing inline error: %q", out[1].Description)
	}
	if out[1].Task != "broken task" {
		t.Fatalf("order not preserved: %+v", out)
	}
}

func TestMergeScreens_JSONPathAssignsStableIDs(t *testing.T) {
	stage := &MergeScreensStage{Model: fakeReplying(`[
		{"title": "Dashboard", "purpose": "p", "core_elements": ["a"], "key_interactions": ["b"]},
		{"title": "Settings", "purpose": "p", "core_elements": "one element", "key_interactions": ["c"]}
	]`)}
	screens, err := stage.Run(context.Background(), []TaskScreenText{{Task: "t", Description: "d"}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(screens) != 2 {
		t.Fatalf("expected 2 screens, got %d", len(screens))
	}
	if screens[0].ID == "" || screens[1].ID == "" || screens[0].ID == screens[1].ID {
		t.Fatalf("ids must be unique and non-empty: %q %q", screens[0].ID, screens[1].ID)
	}
	if screens[1].CoreElements.String() != "one element" {
		t.Fatalf("flexible core_elements lost: %+v", screens[1].CoreElements)
	}
}

func TestMergeScreens_ProseFallback(t *testing.T) {
	prose := `Screen 1
Title: Dashboard
Purpose: Overview of recent activity
Elements: chart, recent list
Interactions: click item, scroll
Screen 2
Title: Settings
Purpose: Configure preferences`
	stage := &MergeScreensStage{Model: fakeReplying(prose)}
	screens, err := stage.Run(context.Background(), []TaskScreenText{{Task: "t", Description: "d"}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(screens) != 2 {
		t.Fatalf("expected 2 screens, got %d: %+v", len(screens), screens)
	}
	if screens[0].Title != "Dashboard" || screens[1].Title != "Settings" {
		t.Fatalf("titles not extracted: %+v", screens)
	}
	if len(screens[0].CoreElements) != 2 {
		t.Fatalf("elements not split: %+v", screens[0].CoreElements)
	}
}

func TestMergeScreens_GenericFallback(t *testing.T) {
	stage := &MergeScreensStage{Model: fakeReplying("I could not produce anything useful.")}
	screens, err := stage.Run(context.Background(), []TaskScreenText{{Task: "t", Description: "d"}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(screens) != 1 || screens[0].Title != "Main Screen" {
		t.Fatalf("expected generic fallback screen, got %+v", screens)
	}
	if screens[0].ID == "" {
		t.Fatalf("fallback screen must still get an id")
	}
}

func twoScreens() []types.ScreenDescription {
	return []types.ScreenDescription{
		{ID: "id-a", Title: "A"},
		{ID: "id-b", Title: "B"},
	}
}

func TestMapTasks_TranslatesAndClampsIndices(t *testing.T) {
	stage := &MapTasksStage{Model: fakeReplying(`{"tasksWithScreens": [
		{"task": "t1", "screens": [
			{"screen_id": 0, "interaction": "tap start"},
			{"screen_id": 99, "interaction": "finish"}
		]}
	]}`)}
	mapping, err := stage.Run(context.Background(), []string{"t1"}, twoScreens())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(mapping) != 1 || len(mapping[0].Screens) != 2 {
		t.Fatalf("unexpected mapping: %+v", mapping)
	}
	if mapping[0].Screens[0].ScreenID != "id-a" {
		t.Fatalf("ordinal 0 should map to first screen id: %+v", mapping[0].Screens[0])
	}
	if mapping[0].Screens[1].ScreenID != "id-b" || mapping[0].Screens[1].Index != 1 {
		t.Fatalf("out-of-range ordinal should clamp to last screen: %+v", mapping[0].Screens[1])
	}
}

func TestMapTasks_EmptyResponseFallsBack(t *testing.T) {
	stage := &MapTasksStage{Model: fakeReplying("")}
	mapping, err := stage.Run(context.Background(), []string{"t1", "t2"}, twoScreens())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(mapping) != 2 {
		t.Fatalf("expected one entry per task, got %d", len(mapping))
	}
	for _, ts := range mapping {
		if len(ts.Screens) != 1 || ts.Screens[0].ScreenID != "id-a" {
			t.Fatalf("fallback must point at the first screen: %+v", ts)
		}
		if !strings.HasPrefix(ts.Screens[0].Interaction, "Complete task: ") {
			t.Fatalf("fallback interaction missing: %+v", ts.Screens[0])
		}
	}
}

func TestMapTasks_AlternateWrapperKey(t *testing.T) {
	stage := &MapTasksStage{Model: fakeReplying(`{"mapping": [
		{"task": "t1", "screens": [{"screen_id": 1, "interaction": "go"}]}
	]}`)}
	mapping, err := stage.Run(context.Background(), []string{"t1"}, twoScreens())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(mapping) != 1 || mapping[0].Screens[0].ScreenID != "id-b" {
		t.Fatalf("alternate wrapper key not handled: %+v", mapping)
	}
}

func TestTaskFlow_NormalizesStrings(t *testing.T) {
	stage := &TaskFlowStage{Model: fakeReplying(`[["<rect x=\"1\"/>"], ["<circle r=\"2\"/>", "<text>Go</text>"]]`)}
	flows, err := stage.Run(context.Background(), "t", []string{"<svg/>", "<svg/>"}, []string{"a", "b"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(flows) != 2 || len(flows[0]) != 1 || len(flows[1]) != 2 {
		t.Fatalf("unexpected flows: %+v", flows)
	}
}

func TestTaskFlow_NormalizesIndexedObjects(t *testing.T) {
	stage := &TaskFlowStage{Model: fakeReplying(`[
		{"screen_index": 1, "highlighted_ui_code": "<rect/>"},
		{"screen_index": 5, "highlighted_ui_code": "<circle/>"}
	]`)}
	flows, err := stage.Run(context.Background(), "t", []string{"<svg/>", "<svg/>"}, []string{"a", "b"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(flows) != 2 {
		t.Fatalf("expected one slot per screen, got %d", len(flows))
	}
	if len(flows[0]) != 0 {
		t.Fatalf("first screen should be empty: %+v", flows[0])
	}
	// index 5 clamps onto the last screen alongside index 1
	if len(flows[1]) != 2 {
		t.Fatalf("clamped snippets missing: %+v", flows[1])
	}
}

func TestRevision_TwoStepUsesBothTiers(t *testing.T) {
	var litePrompt, flashPrompt string
	lite := &llm.FakeClient{Fn: func(ctx context.Context, p string) (string, error) {
		litePrompt = p
		return `[{"ui_element": "submit button", "critique": "too small", "changes": [
			{"type": "modify", "description": "widen", "target": "width attribute", "value": "120"}
		]}]`, nil
	}}
	flash := &llm.FakeClient{Fn: func(ctx context.Context, p string) (string, error) {
		flashPrompt = p
		return "```svg\n<svg><rect width=\"120\"/></svg>\n```", nil
	}}
	stage := &RevisionStage{Lite: lite, Flash: flash}
	out, err := stage.Run(context.Background(), "<svg><rect width=\"60\"/></svg>",
		[]types.Critique{{ScreenTitle: "A", UIElement: "submit button", Feedback: "too small"}}, "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != `<svg><rect width="120"/></svg>` {
		t.Fatalf("fences not stripped: %q", out)
	}
	if !strings.Contains(litePrompt, "too small") {
		t.Fatalf("critique missing from first step prompt")
	}
	if !strings.Contains(flashPrompt, "width attribute") {
		t.Fatalf("change list missing from second step prompt")
	}
}

func TestRevision_NoCritiquesIsNoop(t *testing.T) {
	stage := &RevisionStage{Lite: fakeReplying("x"), Flash: fakeReplying("y")}
	out, err := stage.Run(context.Background(), "<svg/>", nil, "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "<svg/>" {
		t.Fatalf("expected original code back, got %q", out)
	}
}

func TestTaskSuggestion_TrimsDecoration(t *testing.T) {
	stage := &TaskSuggestionStage{Model: fakeReplying("\"Complete the profile setup by filling required fields.\"\n")}
	task, err := stage.Run(context.Background(), types.IdeationInput{Context: "c", User: "u", Goal: "g"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if task != "Complete the profile setup by filling required fields." {
		t.Fatalf("unexpected task: %q", task)
	}
}

func TestSVGCode_StripsFences(t *testing.T) {
	stage := &SVGCodeStage{Model: fakeReplying("```svg\n<svg viewBox=\"0 0 1 1\"></svg>\n```")}
	code, err := stage.Run(context.Background(), types.ScreenDescription{Title: "A"}, "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if code != `<svg viewBox="0 0 1 1"></svg>` {
		t.Fatalf("fences not stripped: %q", code)
	}
}
