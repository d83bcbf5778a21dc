package generation

import (
	"context"
	"fmt"

	"ideaforge/internal/chain"
	"ideaforge/internal/llm"
	"ideaforge/internal/types"
)

// GenerateTaskFlows identifies the interactive elements for one task's
// screen walk-through. Results are memoized per task; repeat calls for
// the same task return the cached flow without a model call.
func (s *Service) GenerateTaskFlows(ctx context.Context, task string, mapping types.TaskScreenMapping, uiCodes []string) ([][]string, error) {
	if cached, ok := s.taskFlows.Get(task); ok {
		return cached, nil
	}

	var entry *types.TaskScreens
	for i := range mapping {
		if mapping[i].Task == task {
			entry = &mapping[i]
			break
		}
	}
	if entry == nil {
		return nil, fmt.Errorf("task %q not found in task screen mapping", task)
	}
	if len(uiCodes) == 0 {
		return nil, fmt.Errorf("no ui codes available for task %q", task)
	}

	relevant := make([]string, 0, len(entry.Screens))
	interactions := make([]string, 0, len(entry.Screens))
	for _, ref := range entry.Screens {
		idx := ref.Index
		if idx < 0 {
			idx = 0
		}
		if idx >= len(uiCodes) {
			idx = len(uiCodes) - 1
		}
		relevant = append(relevant, uiCodes[idx])
		interactions = append(interactions, ref.Interaction)
	}

	flash, err := s.client(llm.TierFlash)
	if err != nil {
		return nil, err
	}
	flows, err := (&chain.TaskFlowStage{Model: flash}).Run(ctx, task, relevant, interactions)
	if err != nil {
		return nil, err
	}
	s.taskFlows.Add(task, flows)
	return flows, nil
}

// IsTaskFlowCached reports whether a flow for the task is memoized.
func (s *Service) IsTaskFlowCached(task string) bool {
	return s.taskFlows.Contains(task)
}

// CachedTaskFlows returns a copy of the memoized flows keyed by task.
func (s *Service) CachedTaskFlows() map[string][][]string {
	out := make(map[string][][]string, s.taskFlows.Len())
	for _, task := range s.taskFlows.Keys() {
		if flow, ok := s.taskFlows.Peek(task); ok {
			out[task] = flow
		}
	}
	return out
}

// RestoreTaskFlows seeds the cache, e.g. when a session is reloaded.
func (s *Service) RestoreTaskFlows(flows map[string][][]string) {
	for task, flow := range flows {
		s.taskFlows.Add(task, flow)
	}
}

// ClearTaskFlows empties the memoization cache.
func (s *Service) ClearTaskFlows() {
	s.taskFlows.Purge()
}

// GenerateTask suggests one additional task for the ideation input.
func (s *Service) GenerateTask(ctx context.Context, in types.IdeationInput) (string, error) {
	lite, err := s.client(llm.TierLite)
	if err != nil {
		return "", err
	}
	return (&chain.TaskSuggestionStage{Model: lite}).Run(ctx, in)
}
