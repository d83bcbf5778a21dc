// Package generation orchestrates the ideation pipeline end to end:
// design space, diverse designs, screens, wireframes, revision, and
// task flows. Stages come from internal/chain; this package owns tier
// selection, fan-out, caching, and fallbacks.
package generation

import (
	"context"
	"fmt"
	"log"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"ideaforge/internal/chain"
	"ideaforge/internal/llm"
	"ideaforge/internal/sampler"
	"ideaforge/internal/types"
)

// Quality selects the model tier for wireframe generation.
type Quality string

const (
	QualityFast Quality = "fast"
	QualityHigh Quality = "high"
)

const (
	defaultDesignSlots   = 4
	defaultAttempts      = 2
	defaultTaskFlowCache = 64
)

// Config wires the service. Tiers is required; everything else has a
// sensible default.
type Config struct {
	Tiers llm.TierSource
	// Sampler used for diverse parameter combinations; a time-seeded
	// one is built when nil.
	Sampler *sampler.Sampler
	// Attempts per design slot before the fallback design is used.
	Attempts int
	// ParallelTasks runs the per-task screen description calls
	// concurrently instead of sequentially.
	ParallelTasks bool
	// TaskFlowCacheSize bounds the task flow memoization cache.
	TaskFlowCacheSize int
}

// Service is the pipeline facade. Safe for concurrent use.
type Service struct {
	tiers    llm.TierSource
	sampler  *sampler.Sampler
	attempts int
	parallel bool

	mu        sync.Mutex
	uiCodes   []string
	screens   []types.ScreenDescription
	taskFlows *lru.Cache[string, [][]string]
}

func New(cfg Config) (*Service, error) {
	if cfg.Tiers == nil {
		return nil, fmt.Errorf("generation: Tiers is required")
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = defaultAttempts
	}
	if cfg.TaskFlowCacheSize <= 0 {
		cfg.TaskFlowCacheSize = defaultTaskFlowCache
	}
	if cfg.Sampler == nil {
		cfg.Sampler = sampler.New(nil)
	}
	flows, err := lru.New[string, [][]string](cfg.TaskFlowCacheSize)
	if err != nil {
		return nil, err
	}
	return &Service{
		tiers:     cfg.Tiers,
		sampler:   cfg.Sampler,
		attempts:  cfg.Attempts,
		parallel:  cfg.ParallelTasks,
		taskFlows: flows,
	}, nil
}

func (s *Service) client(tier llm.Tier) (llm.Client, error) {
	return s.tiers.Client(tier)
}

// GenerateDesignSpace brainstorms divergent ideas and condenses them
// into a three-dimensional design space.
func (s *Service) GenerateDesignSpace(ctx context.Context, in types.IdeationInput) (types.DesignSpace, error) {
	lite, err := s.client(llm.TierLite)
	if err != nil {
		return nil, err
	}
	ideas, err := (&chain.DivergentIdeasStage{Model: lite}).Run(ctx, in)
	if err != nil {
		return nil, err
	}
	return (&chain.DesignSpaceStage{Model: lite}).Run(ctx, in, ideas)
}

// GenerateOverallDesigns produces design concepts for one parameter
// combination.
func (s *Service) GenerateOverallDesigns(ctx context.Context, designParameters, userComments string) ([]types.OverallDesign, error) {
	lite, err := s.client(llm.TierLite)
	if err != nil {
		return nil, err
	}
	return (&chain.OverallDesignsStage{Model: lite}).Run(ctx, designParameters, userComments)
}

// GenerateDiverseDesigns samples diverse parameter combinations from
// the design space and generates one design per combination. Failed
// slots retry and then degrade to a labeled fallback so the caller
// always gets a full set.
func (s *Service) GenerateDiverseDesigns(ctx context.Context, space types.DesignSpace, userComments string) ([]types.OverallDesign, error) {
	params := s.sampler.Diverse(space, defaultDesignSlots)
	if len(params) == 0 {
		params = []string{"No specific design parameters provided"}
	}

	designs := make([]types.OverallDesign, 0, defaultDesignSlots)
	for i, combo := range params {
		var picked *types.OverallDesign
		for attempt := 0; attempt < s.attempts; attempt++ {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			result, err := s.GenerateOverallDesigns(ctx, combo, userComments)
			if err != nil {
				log.Printf("diverse designs: slot %d attempt %d failed: %v", i+1, attempt+1, err)
				continue
			}
			if len(result) > 0 {
				picked = &result[0]
				break
			}
		}
		if picked == nil {
			log.Printf("diverse designs: slot %d exhausted %d attempts, using fallback", i+1, s.attempts)
			designs = append(designs, fallbackDesign(i+1, combo))
			continue
		}
		picked.DesignID = i + 1
		picked.DesignParameters = combo
		designs = append(designs, *picked)
	}

	for len(designs) < defaultDesignSlots {
		designs = append(designs, fallbackDesign(len(designs)+1, ""))
	}
	return designs, nil
}

func fallbackDesign(id int, params string) types.OverallDesign {
	concept := "A fallback design approach when generation was incomplete"
	if params != "" {
		concept = "A design approach based on: " + params
	}
	return types.OverallDesign{
		DesignID:         id,
		DesignName:       fmt.Sprintf("Design %d (Fallback)", id),
		CoreConcept:      types.FlexStrings{concept},
		DesignParameters: params,
	}
}

// GenerateScreenDescriptions runs the screen pipeline for one design:
// per-task descriptions, merge into a unified screen set, and the
// task-to-screen mapping.
func (s *Service) GenerateScreenDescriptions(ctx context.Context, overallDesign string, tasks []string) ([]types.ScreenDescription, types.TaskScreenMapping, error) {
	lite, err := s.client(llm.TierLite)
	if err != nil {
		return nil, nil, err
	}
	described, err := (&chain.TaskwiseScreensStage{Model: lite, Parallel: s.parallel}).Run(ctx, overallDesign, tasks)
	if err != nil {
		return nil, nil, err
	}
	screens, err := (&chain.MergeScreensStage{Model: lite}).Run(ctx, described)
	if err != nil {
		return nil, nil, err
	}
	mapping, err := (&chain.MapTasksStage{Model: lite}).Run(ctx, tasks, screens)
	if err != nil {
		return nil, nil, err
	}
	s.mu.Lock()
	s.screens = append([]types.ScreenDescription(nil), screens...)
	s.mu.Unlock()
	return screens, mapping, nil
}

// UpdateScreenDescriptions replaces the cached screen set with the
// user-edited one.
func (s *Service) UpdateScreenDescriptions(screens []types.ScreenDescription) []types.ScreenDescription {
	cp := append([]types.ScreenDescription(nil), screens...)
	s.mu.Lock()
	s.screens = cp
	s.mu.Unlock()
	return cp
}

// ScreenDescriptions returns a copy of the cached screen set.
func (s *Service) ScreenDescriptions() []types.ScreenDescription {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.ScreenDescription(nil), s.screens...)
}
