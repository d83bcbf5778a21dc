package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// RecoveryError is returned when every extraction strategy failed for a
// given payload.
type RecoveryError struct {
	Context string
}

func (e *RecoveryError) Error() string {
	return fmt.Sprintf("failed to extract valid JSON from %s", e.Context)
}

var fenceReplacer = strings.NewReplacer("```json\n", "", "```svg\n", "", "```xml\n", "", "```\n", "", "```", "")

// StripFences removes markdown code-fence markers anywhere in the string.
func StripFences(s string) string {
	return fenceReplacer.Replace(s)
}

// Recover coerces a raw model response into valid JSON bytes. It strips
// code fences and tries a direct parse first. For the "task flow"
// context, which is known to carry raw SVG strings with unescaped
// quotes, a cascade of repair strategies runs before giving up.
func Recover(raw, context string) (json.RawMessage, error) {
	cleaned := strings.TrimSpace(StripFences(raw))
	if json.Valid([]byte(cleaned)) && cleaned != "" {
		return json.RawMessage(cleaned), nil
	}
	if context == "task flow" {
		for _, strategy := range taskFlowStrategies {
			if v, ok := strategy(cleaned); ok {
				b, err := MarshalNoEscape(v)
				if err == nil {
					return b, nil
				}
			}
		}
	}
	return nil, &RecoveryError{Context: context}
}

// RecoverInto runs Recover and unmarshals the result into v.
func RecoverInto(raw, context string, v any) error {
	b, err := Recover(raw, context)
	if err != nil {
		return err
	}
	if err := UnmarshalFlex(b, v); err != nil {
		return fmt.Errorf("%s JSON invalid: %w\nraw: %s", context, err, raw)
	}
	return nil
}

// A recoveryStrategy attempts to pull a structured value out of a
// malformed payload. First success wins.
type recoveryStrategy func(s string) (any, bool)

var taskFlowStrategies = []recoveryStrategy{
	repairQuotedStringArray,
	extractSVGStrings,
	extractCodeObjects,
	extractLargestObjectArray,
	extractObjectFragments,
	repairTruncatedArray,
}

// repairQuotedStringArray handles an array-of-strings shape whose string
// values contain unescaped double quotes (raw SVG attributes). A quote
// only terminates an item when the next non-space rune is ',' or ']';
// every other quote is escaped before re-parsing.
func repairQuotedStringArray(s string) (any, bool) {
	open := strings.IndexByte(s, '[')
	end := strings.LastIndexByte(s, ']')
	if open < 0 || end <= open {
		return nil, false
	}
	body := s[open+1 : end]

	var items []string
	var cur strings.Builder
	inItem := false
	for i := 0; i < len(body); i++ {
		c := body[i]
		if !inItem {
			if c == '"' {
				inItem = true
				cur.Reset()
			}
			continue
		}
		if c == '"' && (i == 0 || body[i-1] != '\\') {
			rest := strings.TrimLeft(body[i+1:], " \t\r\n")
			if rest == "" || rest[0] == ',' || rest[0] == ']' {
				items = append(items, cur.String())
				inItem = false
				continue
			}
			cur.WriteString(`\"`)
			continue
		}
		cur.WriteByte(c)
	}
	if len(items) == 0 {
		return nil, false
	}

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, it := range items {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(it)
		buf.WriteByte('"')
	}
	buf.WriteByte(']')

	var out []string
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		return nil, false
	}
	decoded := make([]any, len(out))
	for i, v := range out {
		decoded[i] = v
	}
	return decoded, true
}

// extractSVGStrings reconstructs a list from individual quoted
// SVG-opening fragments when the surrounding array is beyond repair.
func extractSVGStrings(s string) (any, bool) {
	var out []any
	rest := s
	for {
		start := strings.Index(rest, `"<svg`)
		if start < 0 {
			break
		}
		frag := rest[start+1:]
		end := len(frag)
		if next := strings.Index(frag, `"<svg`); next > 0 {
			end = next
		}
		chunk := frag[:end]
		if q := strings.LastIndexByte(chunk, '"'); q > 0 {
			out = append(out, chunk[:q])
		}
		rest = frag[end:]
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

// extractCodeObjects collects {...} fragments carrying a field whose
// name ends in "_code", repairing unescaped quotes inside that field's
// value before parsing each fragment independently.
func extractCodeObjects(s string) (any, bool) {
	var out []any
	for _, frag := range braceFragments(s) {
		if !strings.Contains(frag, `_code"`) {
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(frag), &obj); err != nil {
			repaired, ok := repairCodeField(frag)
			if !ok {
				continue
			}
			if err := json.Unmarshal([]byte(repaired), &obj); err != nil {
				continue
			}
		}
		if hasCodeKey(obj) {
			out = append(out, obj)
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

func hasCodeKey(obj map[string]any) bool {
	for k := range obj {
		if strings.HasSuffix(k, "_code") {
			return true
		}
	}
	return false
}

// repairCodeField escapes raw quotes inside the value of the first
// field whose name ends in _code, leaving the JSON structure alone.
func repairCodeField(frag string) (string, bool) {
	key := strings.Index(frag, `_code"`)
	if key < 0 {
		return "", false
	}
	colon := strings.IndexByte(frag[key:], ':')
	if colon < 0 {
		return "", false
	}
	valStart := strings.IndexByte(frag[key+colon:], '"')
	if valStart < 0 {
		return "", false
	}
	valStart += key + colon + 1
	valEnd := strings.LastIndexByte(frag, '"')
	if valEnd <= valStart {
		return "", false
	}
	inner := frag[valStart:valEnd]
	inner = strings.ReplaceAll(inner, `\"`, `"`)
	inner = strings.ReplaceAll(inner, `"`, `\"`)
	return frag[:valStart] + inner + frag[valEnd:], true
}

// extractLargestObjectArray finds [ {...} ]-shaped substrings and tries
// them longest first, keeping the first that parses into a non-empty
// array.
func extractLargestObjectArray(s string) (any, bool) {
	var candidates []string
	for i := 0; i < len(s); i++ {
		if s[i] != '[' {
			continue
		}
		depth := 0
		for j := i; j < len(s); j++ {
			switch s[j] {
			case '[':
				depth++
			case ']':
				depth--
				if depth == 0 {
					candidates = append(candidates, s[i:j+1])
					j = len(s)
				}
			}
		}
	}
	// Longest candidate is the most complete one.
	best := ""
	var bestVal []any
	for _, c := range candidates {
		if len(c) <= len(best) {
			continue
		}
		var arr []any
		if err := json.Unmarshal([]byte(c), &arr); err == nil && len(arr) > 0 {
			best = c
			bestVal = arr
		}
	}
	if best == "" {
		return nil, false
	}
	return bestVal, true
}

// extractObjectFragments parses each balanced {...} fragment
// independently and collects the successes into an array.
func extractObjectFragments(s string) (any, bool) {
	var out []any
	for _, frag := range braceFragments(s) {
		var obj map[string]any
		if err := json.Unmarshal([]byte(frag), &obj); err == nil {
			out = append(out, obj)
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

// repairTruncatedArray closes an array cut off mid-stream: everything up
// to the last complete '}' plus a closing ']'. Failing that, a single
// parsable object becomes a singleton array.
func repairTruncatedArray(s string) (any, bool) {
	last := strings.LastIndexByte(s, '}')
	if last < 0 {
		return nil, false
	}
	candidate := s[:last+1] + "]"
	var arr []any
	if err := json.Unmarshal([]byte(candidate), &arr); err == nil {
		return arr, true
	}
	for _, frag := range braceFragments(s) {
		var obj map[string]any
		if err := json.Unmarshal([]byte(frag), &obj); err == nil {
			return []any{obj}, true
		}
	}
	return nil, false
}

// braceFragments returns every top-level balanced {...} substring.
func braceFragments(s string) []string {
	var out []string
	depth := 0
	start := -1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					out = append(out, s[start:i+1])
					start = -1
				}
			}
		}
	}
	return out
}

// MarshalNoEscape encodes v into JSON without escaping <, >, & into
// \u003c etc. SVG payloads must survive a round trip unchanged.
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalNoEscapeIndent is MarshalNoEscape with indentation.
func MarshalNoEscapeIndent(v any, prefix, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent(prefix, indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalFlex tries a direct unmarshal first, then normalizes
// double-escaped unicode sequences and retries.
func UnmarshalFlex(raw []byte, v any) error {
	if err := json.Unmarshal(raw, v); err == nil {
		return nil
	}
	norm, err := NormalizeJSONUnicode(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(norm, v)
}

// NormalizeJSONUnicode parses JSON bytes and recursively unescapes any
// remaining double-escaped unicode sequences (e.g. "\\u003e") inside
// string values.
func NormalizeJSONUnicode(raw []byte) ([]byte, error) {
	var anyVal any
	if err := json.Unmarshal(raw, &anyVal); err != nil {
		return nil, err
	}
	// Unwrap payloads delivered as one quoted JSON string, possibly twice.
	for i := 0; i < 2; i++ {
		s, ok := anyVal.(string)
		if !ok || !json.Valid([]byte(s)) {
			break
		}
		if err := json.Unmarshal([]byte(s), &anyVal); err != nil {
			return nil, errors.New("jsonutil: cannot parse JSON payload")
		}
	}
	return MarshalNoEscape(deepUnescape(anyVal))
}

// UnescapeUnicodeString converts JSON unicode escapes like "\u003e"
// into actual characters. Handles double-escaped sequences too.
func UnescapeUnicodeString(s string) (string, error) {
	esc := strings.ReplaceAll(s, `\`, `\\`)
	esc = strings.ReplaceAll(esc, `"`, `\"`)
	var out string
	if err := json.Unmarshal([]byte(`"`+esc+`"`), &out); err != nil {
		return "", err
	}
	return out, nil
}

func deepUnescape(v any) any {
	switch x := v.(type) {
	case string:
		if s, err := UnescapeUnicodeString(x); err == nil {
			return s
		}
		return x
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = deepUnescape(x[i])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, vv := range x {
			out[k] = deepUnescape(vv)
		}
		return out
	default:
		return v
	}
}
