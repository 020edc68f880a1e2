// Package flextmpl loads static Flex bubble templates and turns mutated
// copies into SDK Flex containers.
//
// Templates are trusted static assets embedded at build time. Path
// lookups into a template use unchecked assertions on purpose: a
// template that does not match its composer's expected shape is a
// programming error and must fail hard, not degrade.
package flextmpl

import (
	"encoding/json"
	"fmt"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// Template is an ordered list of bubble documents parsed from JSON.
type Template struct {
	bubbles []map[string]any
}

// Parse loads a template from its JSON source: a top-level array of
// bubble objects.
func Parse(raw []byte) (*Template, error) {
	var bubbles []map[string]any
	if err := json.Unmarshal(raw, &bubbles); err != nil {
		return nil, fmt.Errorf("parse flex template: %w", err)
	}
	if len(bubbles) == 0 {
		return nil, fmt.Errorf("parse flex template: no bubbles")
	}
	return &Template{bubbles: bubbles}, nil
}

// MustParse is Parse for embedded assets, panicking on failure.
func MustParse(raw []byte) *Template {
	t, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return t
}

// BubbleCount returns the number of bubbles in the template.
func (t *Template) BubbleCount() int { return len(t.bubbles) }

// CloneBubbles returns a deep copy of the bubble list, safe to mutate.
func (t *Template) CloneBubbles() []map[string]any {
	// Marshal round-trip is the simplest faithful deep copy for
	// arbitrarily nested JSON documents.
	raw, err := json.Marshal(t.bubbles)
	if err != nil {
		panic(fmt.Errorf("clone flex template: %w", err))
	}
	var clone []map[string]any
	if err := json.Unmarshal(raw, &clone); err != nil {
		panic(fmt.Errorf("clone flex template: %w", err))
	}
	return clone
}

// SetText overwrites the "text" field of the node at path inside doc.
// Path elements are string map keys and int array indexes. Any shape
// mismatch panics.
func SetText(doc map[string]any, value string, path ...any) {
	node := any(doc)
	for _, p := range path {
		switch key := p.(type) {
		case string:
			node = node.(map[string]any)[key]
		case int:
			node = node.([]any)[key]
		default:
			panic(fmt.Errorf("flex template path element %v (%T)", p, p))
		}
	}
	node.(map[string]any)["text"] = value
}

// Carousel wraps bubbles into a Flex carousel container for the SDK.
func Carousel(bubbles []map[string]any) (messaging_api.FlexContainerInterface, error) {
	raw, err := json.Marshal(map[string]any{
		"type":     "carousel",
		"contents": bubbles,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal flex carousel: %w", err)
	}
	container, err := messaging_api.UnmarshalFlexContainer(raw)
	if err != nil {
		return nil, fmt.Errorf("build flex carousel: %w", err)
	}
	return container, nil
}
