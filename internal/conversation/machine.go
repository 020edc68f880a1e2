package conversation

import (
	"strings"

	"golang.org/x/text/width"
)

// Trigger phrases selecting a flow from the no-state menu.
const (
	TriggerCamp    = "きゃんぷ場調べ"
	TriggerBivouac = "野営地調べ"
	TriggerItem    = "持ち物提案"
)

// Fixed prompts, one per waiting state.
const (
	PromptCampRegion     = "どの地域のキャンプ場をお探しですか?(例:北海道、関東、長野県)"
	PromptCampDate       = "利用予定日はいつですか?(例:3/1、来週末)"
	PromptCampConditions = "その他の希望条件があれば教えてください!(例:ペット可、オートサイト、焚き火OK)"

	PromptBivouacPrefecture = "どの都道府県の野営地をお探しですか?(例:岐阜県)"
	PromptBivouacConditions = "希望する条件を教えてください!(例:川沿い、車で乗り入れ可)"

	PromptItemLocation   = "どんな場所でキャンプをしますか?(例:山、海辺、河原)"
	PromptItemDuration   = "何泊の予定ですか?(例:日帰り、1泊2日)"
	PromptItemConditions = "その他の条件があれば教えてください!(例:冬キャンプ、ソロ、バイク積載)"
)

// Terminal names the side-effecting pipeline to run after this turn,
// if any.
type Terminal string

const (
	TerminalNone    Terminal = ""
	TerminalGeneral Terminal = "general"
	TerminalCamp    Terminal = "camp"
	TerminalBivouac Terminal = "bivouac"
	TerminalItem    Terminal = "item"
)

// StepResult is the outcome of one state machine step.
//
// Persistence rules for the caller: when Next is a waiting state, store
// Next with the encoded Params. When Next is StateNone and Clear is set,
// reset the stored conversation. Either write happens before any reply
// is sent for the turn.
type StepResult struct {
	Next State
	// Params are the fields collected so far. Mid-flow they are the
	// payload to persist; on flow completion they are the full set
	// handed to the terminal action.
	Params   Params
	Clear    bool
	Reply    string
	Terminal Terminal
}

// Step advances one conversation turn. Pure: it inspects the inbound
// text against the current state and decides the next state, the data to
// persist, the fixed prompt to reply with, and the terminal action to
// run. It performs no I/O.
//
// Undecodable data or an unrecognized state resets the conversation and
// falls back to the general-message action.
func Step(text string, state State, data string) StepResult {
	if state == StateNone {
		return stepMenu(text)
	}

	params, err := DecodeParams(state, data)
	if err != nil {
		// Defensive reset, should not occur under normal operation.
		return StepResult{Clear: true, Terminal: TerminalGeneral}
	}

	switch state {
	case StateCampRegion:
		p := params.(*CampParams)
		p.Region = text
		return StepResult{Next: StateCampDate, Params: p, Reply: PromptCampDate}
	case StateCampDate:
		p := params.(*CampParams)
		p.Date = text
		return StepResult{Next: StateCampConditions, Params: p, Reply: PromptCampConditions}
	case StateCampConditions:
		p := params.(*CampParams)
		p.Conditions = text
		return StepResult{Clear: true, Params: p, Terminal: TerminalCamp}

	case StateBivouacPrefecture:
		p := params.(*BivouacParams)
		p.Prefecture = text
		return StepResult{Next: StateBivouacConditions, Params: p, Reply: PromptBivouacConditions}
	case StateBivouacConditions:
		p := params.(*BivouacParams)
		p.Conditions = text
		return StepResult{Clear: true, Params: p, Terminal: TerminalBivouac}

	case StateItemLocation:
		p := params.(*ItemParams)
		p.Location = text
		return StepResult{Next: StateItemDuration, Params: p, Reply: PromptItemDuration}
	case StateItemDuration:
		p := params.(*ItemParams)
		p.Duration = text
		return StepResult{Next: StateItemConditions, Params: p, Reply: PromptItemConditions}
	case StateItemConditions:
		p := params.(*ItemParams)
		p.Conditions = text
		return StepResult{Clear: true, Params: p, Terminal: TerminalItem}
	}

	return StepResult{Clear: true, Terminal: TerminalGeneral}
}

// stepMenu handles a message arriving with no active flow.
func stepMenu(text string) StepResult {
	switch normalizeTrigger(text) {
	case TriggerCamp:
		return StepResult{Next: StateCampRegion, Params: &CampParams{}, Reply: PromptCampRegion}
	case TriggerBivouac:
		return StepResult{Next: StateBivouacPrefecture, Params: &BivouacParams{}, Reply: PromptBivouacPrefecture}
	case TriggerItem:
		return StepResult{Next: StateItemLocation, Params: &ItemParams{}, Reply: PromptItemLocation}
	}
	return StepResult{Terminal: TerminalGeneral}
}

// normalizeTrigger folds half/full-width variants so menu taps typed by
// hand still match.
func normalizeTrigger(text string) string {
	return width.Fold.String(strings.TrimSpace(text))
}
