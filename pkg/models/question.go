package models

import "fmt"

// QuestionType is the input widget a question is rendered with.
type QuestionType string

const (
	QuestionTypeSingle QuestionType = "single"
	QuestionTypeSlider QuestionType = "slider"
)

// QuestionOption is one selectable answer. Value is a string or a number.
type QuestionOption struct {
	Value   any      `json:"value" yaml:"value" validate:"required"`
	Label   string   `json:"label" yaml:"label" validate:"required"`
	LabelEn string   `json:"labelEn" yaml:"labelEn"`
	Tags    []string `json:"tags" yaml:"tags"`
}

// Key is the display form of the option value.
func (o QuestionOption) Key() string {
	return ValueKey(o.Value)
}

// Identity distinguishes option values of different kinds that print alike.
func (o QuestionOption) Identity() string {
	return ValueIdentity(o.Value)
}

// Question is an immutable questionnaire entry.
type Question struct {
	ID       string           `json:"id" yaml:"id" validate:"required"`
	Text     string           `json:"text" yaml:"text" validate:"required"`
	TextEn   string           `json:"textEn" yaml:"textEn"`
	Type     QuestionType     `json:"type" yaml:"type" validate:"required,oneof=single slider"`
	Category string           `json:"category" yaml:"category"`
	Options  []QuestionOption `json:"options" yaml:"options" validate:"required,min=1,dive"`
}

// Option returns the option whose value matches value. An option of the same
// kind wins; otherwise the first option with the same string form is used, so
// "2" still selects a numeric 2.
func (q *Question) Option(value any) (*QuestionOption, bool) {
	identity := ValueIdentity(value)
	for i := range q.Options {
		if q.Options[i].Identity() == identity {
			return &q.Options[i], true
		}
	}
	key := ValueKey(value)
	for i := range q.Options {
		if q.Options[i].Key() == key {
			return &q.Options[i], true
		}
	}
	return nil, false
}

// ValueKey renders an option or answer value for comparison.
// JSON numbers decode as float64 while YAML yields int, so both print alike.
func ValueKey(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprint(t)
	default:
		return fmt.Sprint(t)
	}
}

// ValueIdentity is ValueKey tagged with the value's kind. Numbers share one
// kind whatever their Go type, so a YAML int and a JSON float64 compare equal.
func ValueIdentity(v any) string {
	switch v.(type) {
	case nil:
		return ""
	case string:
		return "string:" + ValueKey(v)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return "number:" + ValueKey(v)
	default:
		return fmt.Sprintf("%T:%s", v, ValueKey(v))
	}
}
