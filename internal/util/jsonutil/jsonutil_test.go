package jsonutil

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestRecover_ValidJSONPassesThrough(t *testing.T) {
	in := `{"a":1,"b":["x","y"]}`
	got, err := Recover(in, "design space")
	if err != nil {
		t.Fatalf("recover error: %v", err)
	}
	var direct, recovered any
	if err := json.Unmarshal([]byte(in), &direct); err != nil {
		t.Fatalf("direct parse: %v", err)
	}
	if err := json.Unmarshal(got, &recovered); err != nil {
		t.Fatalf("recovered parse: %v", err)
	}
	if !reflect.DeepEqual(direct, recovered) {
		t.Fatalf("recover changed value: %v vs %v", direct, recovered)
	}
}

func TestRecover_StripsCodeFences(t *testing.T) {
	in := "```json\n[{\"idea_id\":1}]\n```"
	got, err := Recover(in, "divergent ideas")
	if err != nil {
		t.Fatalf("recover error: %v", err)
	}
	var arr []map[string]any
	if err := json.Unmarshal(got, &arr); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(arr) != 1 {
		t.Fatalf("expected 1 element, got %d", len(arr))
	}
}

func TestRecover_TaskFlowUnescapedQuotes(t *testing.T) {
	in := `["<svg width="400" height="300"><rect x="10"/></svg>", "<svg viewBox="0 0 100 100"></svg>"]`
	got, err := Recover(in, "task flow")
	if err != nil {
		t.Fatalf("recover error: %v", err)
	}
	var arr []string
	if err := json.Unmarshal(got, &arr); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(arr) != 2 {
		t.Fatalf("expected 2 strings, got %d: %v", len(arr), arr)
	}
	if !strings.Contains(arr[0], `width="400"`) {
		t.Fatalf("inner quotes lost: %q", arr[0])
	}
}

func TestRecover_TaskFlowTruncatedArray(t *testing.T) {
	in := `[{"screen_index": 0, "note": "ok"}, {"screen_index": 1, "note": "also ok"}`
	got, err := Recover(in, "task flow")
	if err != nil {
		t.Fatalf("recover error: %v", err)
	}
	var arr []map[string]any
	if err := json.Unmarshal(got, &arr); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(arr) == 0 {
		t.Fatalf("expected non-empty array")
	}
}

func TestRecover_NonTaskFlowContextFailsLoudly(t *testing.T) {
	_, err := Recover("this is not JSON at all", "design space")
	var rerr *RecoveryError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected RecoveryError, got %v", err)
	}
	if !strings.Contains(rerr.Error(), "design space") {
		t.Fatalf("error should name the context: %v", rerr)
	}
}

func TestRecover_TaskFlowExhaustedStrategies(t *testing.T) {
	_, err := Recover("no structure here whatsoever", "task flow")
	var rerr *RecoveryError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected RecoveryError, got %v", err)
	}
}

func TestExtractLargestObjectArray(t *testing.T) {
	in := `garbage [{"a":1}] more garbage [{"a":1},{"b":2}] trailing`
	v, ok := extractLargestObjectArray(in)
	if !ok {
		t.Fatalf("expected success")
	}
	arr, ok := v.([]any)
	if !ok || len(arr) != 2 {
		t.Fatalf("expected the larger array, got %v", v)
	}
}

func TestExtractCodeObjects(t *testing.T) {
	in := `[{"screen_index": 0, "highlighted_ui_code": "<rect x="5" y="5"/>"}]`
	v, ok := extractCodeObjects(in)
	if !ok {
		t.Fatalf("expected success")
	}
	arr := v.([]any)
	obj := arr[0].(map[string]any)
	code, _ := obj["highlighted_ui_code"].(string)
	if !strings.Contains(code, `x="5"`) {
		t.Fatalf("code field not repaired: %q", code)
	}
}

func TestMarshalNoEscape_KeepsAngleBrackets(t *testing.T) {
	b, err := MarshalNoEscape(map[string]string{"svg": "<svg viewBox=\"0 0 1 1\"></svg>"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), "<svg") || strings.Contains(string(b), `\u003c`) {
		t.Fatalf("angle brackets escaped: %s", b)
	}
}

func TestUnmarshalFlex_QuotedPayload(t *testing.T) {
	// Some models wrap the whole JSON document in one quoted string.
	raw := []byte(`"{\"code\":\"<svg></svg>\"}"`)
	var out struct {
		Code string `json:"code"`
	}
	if err := UnmarshalFlex(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Code != "<svg></svg>" {
		t.Fatalf("expected svg payload, got %q", out.Code)
	}
}

func TestRecoverInto_TypedTarget(t *testing.T) {
	in := "```json\n[{\"idea_id\": 3, \"idea_name\": \"Garden\"}]\n```"
	var ideas []struct {
		IdeaID   int    `json:"idea_id"`
		IdeaName string `json:"idea_name"`
	}
	if err := RecoverInto(in, "divergent ideas", &ideas); err != nil {
		t.Fatalf("recover into: %v", err)
	}
	if len(ideas) != 1 || ideas[0].IdeaName != "Garden" {
		t.Fatalf("unexpected result: %+v", ideas)
	}
}
