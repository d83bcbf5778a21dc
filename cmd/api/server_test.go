package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"ideaforge/internal/generation"
	"ideaforge/internal/llm"
	"ideaforge/internal/sessionexport"
	"ideaforge/internal/trialstore"
	"ideaforge/internal/types"
)

func newTestServer(t *testing.T, fn func(ctx context.Context, prompt string) (string, error)) *httptest.Server {
	t.Helper()
	fake := &llm.FakeClient{Fn: fn}
	tiers := llm.StaticTiers{
		llm.TierLite:  fake,
		llm.TierFlash: fake,
		llm.TierPro:   fake,
	}
	svc, err := generation.New(generation.Config{Tiers: tiers})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	store := trialstore.New(t.TempDir())
	exporter := sessionexport.New(nil)
	srv := httptest.NewServer(buildMux(newAPIServer(llm.NewGateway(), svc, store, exporter)))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestTaskEndpoint(t *testing.T) {
	srv := newTestServer(t, func(_ context.Context, _ string) (string, error) {
		return "Order a coffee for pickup.", nil
	})
	resp := postJSON(t, srv.URL+"/api/task", types.IdeationInput{
		Context: "coffee shop app", User: "commuter", Goal: "get coffee fast",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var out struct {
		Task string `json:"task"`
	}
	decodeJSON(t, resp, &out)
	if out.Task != "Order a coffee for pickup." {
		t.Fatalf("unexpected task: %q", out.Task)
	}
}

func TestHighlightEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	resp := postJSON(t, srv.URL+"/api/highlight", map[string]string{
		"ui_code":     `<svg><rect x="10" y="20" width="5" height="5"/></svg>`,
		"svg_element": `<rect x="10" y="20"/>`,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var out struct {
		UICode string `json:"ui_code"`
	}
	decodeJSON(t, resp, &out)
	if !strings.Contains(out.UICode, "svg-highlight") {
		t.Fatalf("element not highlighted: %s", out.UICode)
	}
}

func TestTrialsLifecycle(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := postJSON(t, srv.URL+"/api/trials", types.Trial{
		Input: types.IdeationInput{Goal: "g"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("append status %d", resp.StatusCode)
	}
	var created struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &created)
	if created.ID == "" {
		t.Fatalf("no id assigned")
	}

	// Same id again updates in place.
	resp = postJSON(t, srv.URL+"/api/trials", types.Trial{
		ID:    created.ID,
		Input: types.IdeationInput{Goal: "updated"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status %d", resp.StatusCode)
	}

	resp, err := http.Get(srv.URL + "/api/trials")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var listed struct {
		Trials []types.Trial `json:"trials"`
	}
	decodeJSON(t, resp, &listed)
	if len(listed.Trials) != 1 || listed.Trials[0].Input.Goal != "updated" {
		t.Fatalf("unexpected trials: %+v", listed.Trials)
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/trials", nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	resp.Body.Close()
	resp, _ = http.Get(srv.URL + "/api/trials")
	decodeJSON(t, resp, &listed)
	if len(listed.Trials) != 0 {
		t.Fatalf("trials survived clear: %+v", listed.Trials)
	}
}

func TestDesignSpaceUnconfiguredGateway(t *testing.T) {
	store := trialstore.New(t.TempDir())
	gw := llm.NewGateway()
	svc, err := generation.New(generation.Config{Tiers: gw})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	srv := httptest.NewServer(buildMux(newAPIServer(gw, svc, store, sessionexport.New(nil))))
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/design-space", types.IdeationInput{
		Context: "c", User: "u", Goal: "g", Tasks: []string{"t"},
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestSessionExportEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	postJSON(t, srv.URL+"/api/trials", types.Trial{ID: "t1"}).Body.Close()

	resp := postJSON(t, srv.URL+"/api/sessions/export", struct{}{})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "sessions-") {
		t.Fatalf("missing filename: %q", cd)
	}
	var snap sessionexport.Snapshot
	decodeJSON(t, resp, &snap)
	if len(snap.Trials) != 1 || snap.Trials[0].ID != "t1" {
		t.Fatalf("trial missing from export: %+v", snap)
	}
}

func TestScreenStreamWebsocket(t *testing.T) {
	srv := newTestServer(t, func(_ context.Context, _ string) (string, error) {
		return "<svg><rect/></svg>", nil
	})
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/screens/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	req := screenWSRequest{Screens: []types.ScreenDescription{
		{ID: "s1", Title: "Home"},
		{ID: "s2", Title: "Checkout"},
	}}
	if err := conn.WriteJSON(req); err != nil {
		t.Fatalf("write request: %v", err)
	}

	progress := 0
	for {
		var frame screenWSFrame
		if err := conn.ReadJSON(&frame); err != nil {
			t.Fatalf("read frame: %v", err)
		}
		switch frame.Type {
		case "progress":
			progress++
			if frame.Code != "<svg><rect/></svg>" {
				t.Fatalf("unexpected code: %q", frame.Code)
			}
		case "done":
			if progress != 2 {
				t.Fatalf("expected 2 progress frames, got %d", progress)
			}
			if len(frame.Codes) != 2 {
				t.Fatalf("unexpected terminal codes: %+v", frame.Codes)
			}
			return
		case "error":
			t.Fatalf("stream error: %s", frame.Message)
		}
	}
}
