package model

import (
	"errors"
	"net/url"

	"go-away-stress/utils"
)

// Form field names, shared by the survey page, the CLI and the collector
const (
	FieldStressSituation    = "stress_situation"
	FieldStressSituationEtc = "stress_situation_etc"
	FieldStressAction       = "stress_action"
	FieldStressActionEtc    = "stress_action_etc"
	FieldBestTime           = "best_time"
	FieldContentService     = "content_service"
	FieldContentServiceEtc  = "content_service_etc"
	FieldSpecialMethod      = "special_method"
	FieldStressLevel        = "stress_level"
)

var (
	ErrValidation  = errors.New("validation failed")
	ErrNoSituation = &ValidationError{Field: FieldStressSituation, Reason: "select at least one option"}
)

// ValidationError reports a required field left empty. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Record is one normalized survey response
type Record struct {
	StressSituation    []string `json:"stress_situation"`
	StressSituationEtc string   `json:"stress_situation_etc"`
	StressAction       []string `json:"stress_action"`
	StressActionEtc    string   `json:"stress_action_etc"`
	BestTime           string   `json:"best_time"`
	ContentService     []string `json:"content_service"`
	ContentServiceEtc  string   `json:"content_service_etc"`
	SpecialMethod      string   `json:"special_method"`
	StressLevel        string   `json:"stress_level,omitempty"` // Only sent by forms that ask for it
}

// multiSelect pairs a multi-select field with its free-text "other" field
type multiSelect struct {
	field string
	etc   string
}

var multiSelects = []multiSelect{
	{FieldStressSituation, FieldStressSituationEtc},
	{FieldStressAction, FieldStressActionEtc},
	{FieldContentService, FieldContentServiceEtc},
}

// SelectionRules holds the per-field selection caps and the value carried by
// the "other" checkbox of every multi-select question.
type SelectionRules struct {
	MaxSelections map[string]int // Zero or missing means uncapped
	OtherTag      string
}

// DefaultSelectionRules caps stress_situation at two answers.
func DefaultSelectionRules() SelectionRules {
	return SelectionRules{
		MaxSelections: map[string]int{FieldStressSituation: 2},
		OtherTag:      "기타",
	}
}

// Cap returns the selection cap for field, 0 when uncapped
func (r SelectionRules) Cap(field string) int {
	if r.MaxSelections == nil {
		return 0
	}
	if n := r.MaxSelections[field]; n > 0 {
		return n
	}
	return 0
}

// BuildRecord normalizes raw form values into a Record. Repeated keys carry
// multi-select answers in selection order. Malformed input degrades to empty
// fields.
func BuildRecord(form url.Values, rules SelectionRules) Record {
	selected := make(map[string][]string, len(multiSelects))
	etc := make(map[string]string, len(multiSelects))

	for _, ms := range multiSelects {
		tags := utils.CleanList(form[ms.field])
		if n := rules.Cap(ms.field); n > 0 && len(tags) > n {
			tags = tags[:n]
		}
		selected[ms.field] = tags

		text := utils.Trim(form.Get(ms.etc))
		if !rules.hasOther(tags) {
			text = ""
		}
		etc[ms.etc] = text
	}

	return Record{
		StressSituation:    selected[FieldStressSituation],
		StressSituationEtc: etc[FieldStressSituationEtc],
		StressAction:       selected[FieldStressAction],
		StressActionEtc:    etc[FieldStressActionEtc],
		BestTime:           utils.Trim(form.Get(FieldBestTime)),
		ContentService:     selected[FieldContentService],
		ContentServiceEtc:  etc[FieldContentServiceEtc],
		SpecialMethod:      utils.Trim(form.Get(FieldSpecialMethod)),
		StressLevel:        utils.Trim(form.Get(FieldStressLevel)),
	}
}

func (r SelectionRules) hasOther(tags []string) bool {
	if r.OtherTag == "" {
		return false
	}
	for _, t := range tags {
		if t == r.OtherTag {
			return true
		}
	}
	return false
}

// Validate checks the fields the survey requires before anything is sent
func (r Record) Validate() error {
	if len(r.StressSituation) == 0 {
		return ErrNoSituation
	}
	return nil
}

// Toggle applies one checkbox change to form the way the survey page does:
// checking a value past the field's cap is refused, and unchecking the
// "other" option clears its free text. It reports whether the change was
// applied.
func Toggle(form url.Values, field, value string, checked bool, rules SelectionRules) bool {
	current := form[field]
	idx := -1
	for i, v := range current {
		if v == value {
			idx = i
			break
		}
	}

	if checked {
		if idx >= 0 {
			return true
		}
		if n := rules.Cap(field); n > 0 && len(current) >= n {
			return false
		}
		form[field] = append(current, value)
		return true
	}

	if idx >= 0 {
		form[field] = append(current[:idx:idx], current[idx+1:]...)
	}
	if value == rules.OtherTag {
		ClearEtc(form, field)
	}
	return true
}

// ClearEtc empties the free-text field paired with a multi-select field
func ClearEtc(form url.Values, field string) {
	for _, ms := range multiSelects {
		if ms.field == field {
			form.Del(ms.etc)
			return
		}
	}
}

// Normalize trims every field and cleans the lists of a record that arrived
// from outside BuildRecord. Caps are not applied.
func (r Record) Normalize() Record {
	return Record{
		StressSituation:    utils.CleanList(r.StressSituation),
		StressSituationEtc: utils.Trim(r.StressSituationEtc),
		StressAction:       utils.CleanList(r.StressAction),
		StressActionEtc:    utils.Trim(r.StressActionEtc),
		BestTime:           utils.Trim(r.BestTime),
		ContentService:     utils.CleanList(r.ContentService),
		ContentServiceEtc:  utils.Trim(r.ContentServiceEtc),
		SpecialMethod:      utils.Trim(r.SpecialMethod),
		StressLevel:        utils.Trim(r.StressLevel),
	}
}
