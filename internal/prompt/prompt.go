// Package prompt holds the prompt templates for every model call in the
// ideation pipeline and the interpolation logic that fills them.
package prompt

import (
	"fmt"
	"strings"
)

// MissingFieldError is returned when Render is called without a value
// for a required placeholder.
type MissingFieldError struct {
	Template string
	Field    string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("prompt %s: missing required field %q", e.Template, e.Field)
}

// Template is a prompt with {name}-style placeholders. Required fields
// must be supplied to Render; optional fields fall back to a default
// phrase so the model knows nothing was provided.
type Template struct {
	Name     string
	Text     string
	Required []string
	Optional map[string]string
}

// Render substitutes the placeholders and returns the final prompt.
// Interpolation is pure string work; no model call happens here.
func (t *Template) Render(fields map[string]string) (string, error) {
	pairs := make([]string, 0, 2*(len(t.Required)+len(t.Optional)))
	for _, name := range t.Required {
		v, ok := fields[name]
		if !ok || strings.TrimSpace(v) == "" {
			return "", &MissingFieldError{Template: t.Name, Field: name}
		}
		pairs = append(pairs, "{"+name+"}", v)
	}
	for name, def := range t.Optional {
		v, ok := fields[name]
		if !ok || strings.TrimSpace(v) == "" {
			v = def
		}
		pairs = append(pairs, "{"+name+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(t.Text), nil
}

const (
	noUserComments     = "No specific user comments provided"
	noDesignParameters = "No specific design parameters provided"
	noExamples         = "No specific examples provided"
)
