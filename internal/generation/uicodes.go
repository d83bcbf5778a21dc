package generation

import (
	"context"
	"log"
	"sync"

	"ideaforge/internal/chain"
	"ideaforge/internal/llm"
	"ideaforge/internal/svgutil"
	"ideaforge/internal/types"
)

// ProgressFunc receives a snapshot of all codes generated so far plus
// the screen that just finished. Snapshots arrive in completion order;
// unfinished slots hold the empty string.
type ProgressFunc func(codes []string, index int, code string)

// GenerateUICodesStreaming renders every screen's wireframe in
// parallel, reporting each completion through onProgress as it lands.
// A screen whose generation fails gets the error placeholder SVG. The
// returned slice is in input order regardless of completion order.
func (s *Service) GenerateUICodesStreaming(ctx context.Context, screens []types.ScreenDescription, userComments string, quality Quality, onProgress ProgressFunc) ([]string, error) {
	tier := llm.TierLite
	if quality == QualityHigh {
		tier = llm.TierPro
	}
	model, err := s.client(tier)
	if err != nil {
		return nil, err
	}
	stage := &chain.SVGCodeStage{Model: model}

	codes := make([]string, len(screens))
	var progressMu sync.Mutex
	report := func(index int, code string) {
		progressMu.Lock()
		codes[index] = code
		if onProgress != nil {
			snapshot := append([]string(nil), codes...)
			onProgress(snapshot, index, code)
		}
		progressMu.Unlock()
	}

	var wg sync.WaitGroup
	for i := range screens {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			code, err := stage.Run(ctx, screens[i], userComments)
			if err != nil {
				log.Printf("ui codes: screen %d (%s) failed: %v", i, screens[i].Title, err)
				code = svgutil.ErrorScreenSVG
			}
			report(i, code)
		}(i)
	}
	wg.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	result := append([]string(nil), codes...)
	s.mu.Lock()
	s.uiCodes = append([]string(nil), result...)
	s.mu.Unlock()
	return result, nil
}

// ReviseUICodes applies critiques screen by screen. Screens without
// critiques keep their current code; a screen whose revision fails
// falls back to its original code. The result is index-aligned with
// the input screens.
func (s *Service) ReviseUICodes(ctx context.Context, screens []types.ScreenDescription, critiques []types.Critique, userComments string) ([]string, error) {
	result := make([]string, len(screens))
	for i, screen := range screens {
		result[i] = screen.UICode
	}
	if len(screens) == 0 || len(critiques) == 0 {
		return result, nil
	}

	lite, err := s.client(llm.TierLite)
	if err != nil {
		return nil, err
	}
	flash, err := s.client(llm.TierFlash)
	if err != nil {
		return nil, err
	}
	stage := &chain.RevisionStage{Lite: lite, Flash: flash}

	byTitle := make(map[string][]types.Critique)
	for _, c := range critiques {
		byTitle[c.ScreenTitle] = append(byTitle[c.ScreenTitle], c)
	}

	for i, screen := range screens {
		screenCritiques, ok := byTitle[screen.Title]
		if !ok {
			continue
		}
		revised, err := stage.Run(ctx, screen.UICode, screenCritiques, userComments)
		if err != nil {
			log.Printf("revise ui codes: screen %q failed, keeping original: %v", screen.Title, err)
			continue
		}
		result[i] = revised
	}

	s.mu.Lock()
	if len(s.uiCodes) == len(result) {
		s.uiCodes = append([]string(nil), result...)
	}
	s.mu.Unlock()
	return result, nil
}

// UICodes returns a copy of the last generated code set.
func (s *Service) UICodes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.uiCodes...)
}

// ClearUICodes drops the cached code set.
func (s *Service) ClearUICodes() {
	s.mu.Lock()
	s.uiCodes = nil
	s.mu.Unlock()
}
