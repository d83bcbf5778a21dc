package types

import (
	"encoding/json"
	"strings"
	"time"
)

// IdeationInput is everything the user tells us about the product
// before any generation happens.
type IdeationInput struct {
	Context  string   `json:"context"`
	User     string   `json:"user"`
	Goal     string   `json:"goal"`
	Tasks    []string `json:"tasks"`
	Examples []string `json:"examples"`
	Comments string   `json:"comments"`
}

// Idea is one divergent design metaphor from the brainstorm stage.
type Idea struct {
	IdeaID      int    `json:"idea_id"`
	IdeaName    string `json:"idea_name"`
	Description string `json:"description"`
	Inspiration string `json:"inspiration"`
}

type Option struct {
	OptionName        string `json:"option_name"`
	OptionDescription string `json:"option_description"`
}

type Dimension struct {
	DimensionName        string   `json:"dimension_name"`
	DimensionDescription string   `json:"dimension_description"`
	Options              []Option `json:"options"`
}

// DesignSpace is the distilled decision space: exactly three dimensions,
// each with a handful of discrete options.
type DesignSpace []Dimension

// OverallDesign is one high-level design concept generated for a
// parameter combination.
type OverallDesign struct {
	DesignID            int         `json:"design_id"`
	DesignName          string      `json:"design_name"`
	CoreConcept         FlexStrings `json:"core_concept"`
	DetailedDescription string      `json:"detailed_description,omitempty"`
	DesignParameters    string      `json:"design_parameters,omitempty"`
}

// ScreenDescription is one conceptual screen of a design. The ID is an
// opaque identifier assigned when screens are merged; it is the stable
// reference used by the task mapping, independent of list position.
type ScreenDescription struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Purpose         string      `json:"purpose"`
	CoreElements    FlexStrings `json:"core_elements"`
	KeyInteractions FlexStrings `json:"key_interactions"`
	DataNotes       string      `json:"data_notes,omitempty"`
	UICode          string      `json:"ui_code,omitempty"`
}

// ScreenRef points at one screen within a task's walk-through. Index is
// the position in the owning design's screen list, kept as a derived
// convenience; ScreenID is authoritative.
type ScreenRef struct {
	ScreenID    string `json:"screen_id"`
	Index       int    `json:"screen_index"`
	Interaction string `json:"interaction"`
}

type TaskScreens struct {
	Task    string      `json:"task"`
	Screens []ScreenRef `json:"screens"`
}

// TaskScreenMapping associates each task with the ordered screens a
// user traverses to complete it.
type TaskScreenMapping []TaskScreens

// Design is a finalized design within a trial: the chosen parameters,
// the merged screens, and the task mapping. Screen UI code is mutated
// in place as SVGs are generated or revised.
type Design struct {
	ID                string              `json:"id"`
	DesignName        string              `json:"design_name"`
	CoreConcept       FlexStrings         `json:"core_concept"`
	DesignParameters  string              `json:"design_parameters"`
	Screens           []ScreenDescription `json:"screens"`
	TaskScreenMapping TaskScreenMapping   `json:"task_screen_mapping"`
}

// Trial is the append-only record of one ideation session.
type Trial struct {
	ID          string        `json:"id"`
	Timestamp   time.Time     `json:"timestamp"`
	Input       IdeationInput `json:"input"`
	DesignSpace DesignSpace   `json:"design_space"`
	Designs     []Design      `json:"designs"`
}

// Critique is transient user feedback on one element of one screen.
type Critique struct {
	ScreenTitle string `json:"screen_title"`
	UIElement   string `json:"ui_element"`
	Feedback    string `json:"feedback"`
}

type ChangeOp struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Target      string `json:"target"`
	Value       string `json:"value"`
	SVGElement  string `json:"svg_element,omitempty"`
}

// Change is the intermediate artifact between a critique and a revised
// SVG. It lives only within one revision call.
type Change struct {
	UIElement string     `json:"ui_element"`
	Critique  string     `json:"critique"`
	Changes   []ChangeOp `json:"changes"`
}

// BehaviorEvent is one logged user interaction.
type BehaviorEvent struct {
	Timestamp time.Time       `json:"timestamp"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// FlexStrings accepts either a single string or an array of strings on
// the wire. Models frequently return one where the other was asked for.
type FlexStrings []string

func (f *FlexStrings) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*f = list
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if strings.TrimSpace(s) == "" {
		*f = nil
		return nil
	}
	*f = []string{s}
	return nil
}

func (f FlexStrings) String() string {
	return strings.Join(f, "; ")
}
