// Package conversation implements the per-user dialogue state machine.
//
// A conversation is a short linear flow: a trigger phrase selects one of
// three flows, each following turn collects one field, and the last field
// hands the complete set to a terminal action. State and collected fields
// are serialized as strings so the storage layer stays schema-free.
package conversation

import (
	"encoding/json"
	"fmt"
)

// State identifies which field the bot is currently waiting for.
// The empty string means no flow is active.
type State string

const (
	StateNone State = ""

	StateCampRegion     State = "camp_region"
	StateCampDate       State = "camp_date"
	StateCampConditions State = "camp_conditions"

	StateBivouacPrefecture State = "bivouac_prefecture"
	StateBivouacConditions State = "bivouac_conditions"

	StateItemLocation   State = "item_location"
	StateItemDuration   State = "item_duration"
	StateItemConditions State = "item_conditions"
)

// Flow names one of the three conversation flows.
type Flow string

const (
	FlowCamp    Flow = "camp"
	FlowBivouac Flow = "bivouac"
	FlowItem    Flow = "item"
)

// FlowOf reports which flow a waiting state belongs to, or "" for
// StateNone and unrecognized states.
func FlowOf(s State) Flow {
	switch s {
	case StateCampRegion, StateCampDate, StateCampConditions:
		return FlowCamp
	case StateBivouacPrefecture, StateBivouacConditions:
		return FlowBivouac
	case StateItemLocation, StateItemDuration, StateItemConditions:
		return FlowItem
	default:
		return ""
	}
}

// Params is the collected-field payload of one flow. Exactly one concrete
// variant exists per flow; each holds the fields gathered so far.
type Params interface {
	Flow() Flow
	// Fields returns the collected fields as a name→value map.
	Fields() map[string]string
}

// CampParams holds the fields of the camp lookup flow.
type CampParams struct {
	Region     string `json:"region,omitempty"`
	Date       string `json:"date,omitempty"`
	Conditions string `json:"conditions,omitempty"`
}

func (*CampParams) Flow() Flow { return FlowCamp }

func (p *CampParams) Fields() map[string]string {
	return map[string]string{
		"region":     p.Region,
		"date":       p.Date,
		"conditions": p.Conditions,
	}
}

// BivouacParams holds the fields of the bivouac lookup flow.
type BivouacParams struct {
	Prefecture string `json:"prefecture,omitempty"`
	Conditions string `json:"conditions,omitempty"`
}

func (*BivouacParams) Flow() Flow { return FlowBivouac }

func (p *BivouacParams) Fields() map[string]string {
	return map[string]string{
		"prefecture": p.Prefecture,
		"conditions": p.Conditions,
	}
}

// ItemParams holds the fields of the item suggestion flow.
type ItemParams struct {
	Location   string `json:"location,omitempty"`
	Duration   string `json:"duration,omitempty"`
	Conditions string `json:"conditions,omitempty"`
}

func (*ItemParams) Flow() Flow { return FlowItem }

func (p *ItemParams) Fields() map[string]string {
	return map[string]string{
		"location":   p.Location,
		"duration":   p.Duration,
		"conditions": p.Conditions,
	}
}

// EncodeParams serializes a payload for the store's data column.
// A nil payload encodes as the empty string.
func EncodeParams(p Params) (string, error) {
	if p == nil {
		return "", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode %s params: %w", p.Flow(), err)
	}
	return string(b), nil
}

// DecodeParams deserializes the store's data column into the variant
// matching the given waiting state. Empty data yields a zero-value
// payload for the state's flow.
func DecodeParams(s State, data string) (Params, error) {
	var p Params
	switch FlowOf(s) {
	case FlowCamp:
		p = &CampParams{}
	case FlowBivouac:
		p = &BivouacParams{}
	case FlowItem:
		p = &ItemParams{}
	default:
		return nil, fmt.Errorf("no flow for state %q", s)
	}
	if data == "" {
		return p, nil
	}
	if err := json.Unmarshal([]byte(data), p); err != nil {
		return nil, fmt.Errorf("decode %s params: %w", FlowOf(s), err)
	}
	return p, nil
}
