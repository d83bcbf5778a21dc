package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"ideaforge/internal/chain"
	"ideaforge/internal/generation"
	"ideaforge/internal/llm"
	"ideaforge/internal/prompt"
	"ideaforge/internal/sessionexport"
	"ideaforge/internal/svgutil"
	"ideaforge/internal/trialstore"
	"ideaforge/internal/types"
)

// apiServer wires the generation service, the trial store, and the
// session exporter behind the HTTP surface.
type apiServer struct {
	gateway  *llm.Gateway
	svc      *generation.Service
	trials   *trialstore.Store
	exporter *sessionexport.Exporter
}

func newAPIServer(gw *llm.Gateway, svc *generation.Service, trials *trialstore.Store, exporter *sessionexport.Exporter) *apiServer {
	return &apiServer{gateway: gw, svc: svc, trials: trials, exporter: exporter}
}

func buildMux(s *apiServer) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/credentials", s.handleCredentials)
	mux.HandleFunc("/api/design-space", s.handleDesignSpace)
	mux.HandleFunc("/api/designs", s.handleDesigns)
	mux.HandleFunc("/api/designs/diverse", s.handleDiverseDesigns)
	mux.HandleFunc("/api/screens", s.handleScreens)
	mux.HandleFunc("/api/screens/stream", s.handleScreenStream)
	mux.HandleFunc("/api/revise", s.handleRevise)
	mux.HandleFunc("/api/task-flows", s.handleTaskFlows)
	mux.HandleFunc("/api/task", s.handleTask)
	mux.HandleFunc("/api/highlight", s.handleHighlight)
	mux.HandleFunc("/api/trials", s.handleTrials)
	mux.HandleFunc("/api/behavior", s.handleBehavior)
	mux.HandleFunc("/api/sessions/export", s.handleSessionExport)
	mux.HandleFunc("/api/sessions", s.handleSessions)

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var vErr *chain.ValidationError
	var mErr *prompt.MissingFieldError
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		status = http.StatusConflict
	case errors.Is(err, trialstore.ErrNotFound):
		status = http.StatusNotFound
	case errors.As(err, &vErr), errors.As(err, &mErr):
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return false
	}
	return true
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func (s *apiServer) handleCredentials(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var in struct {
		APIKey string `json:"api_key"`
	}
	if !decodeBody(w, r, &in) {
		return
	}
	if err := s.gateway.Configure(r.Context(), in.APIKey); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"configured": true})
}

func (s *apiServer) handleDesignSpace(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var in types.IdeationInput
	if !decodeBody(w, r, &in) {
		return
	}
	space, err := s.svc.GenerateDesignSpace(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"design_space": space})
}

func (s *apiServer) handleDesigns(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var in struct {
		DesignParameters string `json:"design_parameters"`
		UserComments     string `json:"user_comments"`
	}
	if !decodeBody(w, r, &in) {
		return
	}
	designs, err := s.svc.GenerateOverallDesigns(r.Context(), in.DesignParameters, in.UserComments)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"designs": designs})
}

func (s *apiServer) handleDiverseDesigns(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var in struct {
		DesignSpace  types.DesignSpace `json:"design_space"`
		UserComments string            `json:"user_comments"`
	}
	if !decodeBody(w, r, &in) {
		return
	}
	designs, err := s.svc.GenerateDiverseDesigns(r.Context(), in.DesignSpace, in.UserComments)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"designs": designs})
}

func (s *apiServer) handleScreens(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var in struct {
			OverallDesign string   `json:"overall_design"`
			Tasks         []string `json:"tasks"`
		}
		if !decodeBody(w, r, &in) {
			return
		}
		screens, mapping, err := s.svc.GenerateScreenDescriptions(r.Context(), in.OverallDesign, in.Tasks)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"screens":             screens,
			"task_screen_mapping": mapping,
		})
	case http.MethodPut:
		// User-edited screen set replaces the cached one.
		var in struct {
			Screens []types.ScreenDescription `json:"screens"`
		}
		if !decodeBody(w, r, &in) {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"screens": s.svc.UpdateScreenDescriptions(in.Screens),
		})
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{
			"screens": s.svc.ScreenDescriptions(),
		})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *apiServer) handleRevise(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var in struct {
		Screens      []types.ScreenDescription `json:"screens"`
		Critiques    []types.Critique          `json:"critiques"`
		UserComments string                    `json:"user_comments"`
	}
	if !decodeBody(w, r, &in) {
		return
	}
	codes, err := s.svc.ReviseUICodes(r.Context(), in.Screens, in.Critiques, in.UserComments)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ui_codes": codes})
}

func (s *apiServer) handleTaskFlows(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var in struct {
			Task    string                  `json:"task"`
			Mapping types.TaskScreenMapping `json:"task_screen_mapping"`
			UICodes []string                `json:"ui_codes"`
		}
		if !decodeBody(w, r, &in) {
			return
		}
		flows, err := s.svc.GenerateTaskFlows(r.Context(), in.Task, in.Mapping, in.UICodes)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"task_flows": flows})
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"task_flows": s.svc.CachedTaskFlows()})
	case http.MethodPut:
		// Restores memoized flows when a saved trial is reopened.
		var in struct {
			TaskFlows map[string][][]string `json:"task_flows"`
		}
		if !decodeBody(w, r, &in) {
			return
		}
		s.svc.RestoreTaskFlows(in.TaskFlows)
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *apiServer) handleTask(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var in types.IdeationInput
	if !decodeBody(w, r, &in) {
		return
	}
	task, err := s.svc.GenerateTask(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"task": task})
}

func (s *apiServer) handleHighlight(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var in struct {
		UICode     string `json:"ui_code"`
		SVGElement string `json:"svg_element"`
	}
	if !decodeBody(w, r, &in) {
		return
	}
	out, err := svgutil.Highlight(in.UICode, in.SVGElement)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"ui_code": out})
}

func (s *apiServer) handleTrials(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		trials, err := s.trials.ListTrials()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"trials": trials})
	case http.MethodPost:
		var trial types.Trial
		if !decodeBody(w, r, &trial) {
			return
		}
		if strings.TrimSpace(trial.ID) == "" {
			trial.ID = uuid.NewString()
		}
		if trial.Timestamp.IsZero() {
			trial.Timestamp = time.Now().UTC()
		}
		// Updates reuse the same route: an existing id replaces the trial.
		err := s.trials.UpdateTrial(trial)
		if errors.Is(err, trialstore.ErrNotFound) {
			err = s.trials.AppendTrial(trial)
		}
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": trial.ID})
	case http.MethodDelete:
		if err := s.trials.ClearTrials(); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"cleared": true})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *apiServer) handleBehavior(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		events, err := s.trials.ListEvents()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"events": events})
	case http.MethodPost:
		var event types.BehaviorEvent
		if !decodeBody(w, r, &event) {
			return
		}
		if strings.TrimSpace(event.Type) == "" {
			http.Error(w, "type is required", http.StatusBadRequest)
			return
		}
		if event.Timestamp.IsZero() {
			event.Timestamp = time.Now().UTC()
		}
		if err := s.trials.AppendEvent(event); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *apiServer) handleSessionExport(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	trials, err := s.trials.ListTrials()
	if err != nil {
		writeError(w, err)
		return
	}
	events, err := s.trials.ListEvents()
	if err != nil {
		writeError(w, err)
		return
	}
	name, body, err := s.exporter.Export(r.Context(), trials, events)
	if err != nil {
		writeError(w, err)
		return
	}
	log.Printf("exported %d trials and %d events as %s", len(trials), len(events), name)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *apiServer) handleSessions(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodDelete) {
		return
	}
	if err := s.trials.ClearTrials(); err != nil {
		writeError(w, err)
		return
	}
	if err := s.trials.ClearEvents(); err != nil {
		writeError(w, err)
		return
	}
	s.svc.ClearUICodes()
	s.svc.ClearTaskFlows()
	writeJSON(w, http.StatusOK, map[string]bool{"cleared": true})
}
