package models

import (
	"fmt"
	"time"
)

// BirthDateLayout is the calendar date format of BirthInfo.Date.
const BirthDateLayout = "2006-01-02"

// BirthInfo carries the user's birth data. Location is display-only.
type BirthInfo struct {
	Date     string `json:"date"`
	Time     string `json:"time,omitempty"`
	HasTime  bool   `json:"hasTime"`
	Location string `json:"location,omitempty"`
}

// ParsedDate parses Date as a calendar date.
func (b *BirthInfo) ParsedDate() (time.Time, error) {
	if b == nil || b.Date == "" {
		return time.Time{}, fmt.Errorf("birth date is empty")
	}
	if t, err := time.Parse(BirthDateLayout, b.Date); err == nil {
		return t, nil
	}
	// ISO timestamps are accepted as well
	t, err := time.Parse(time.RFC3339, b.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid birth date %q: %w", b.Date, err)
	}
	return t, nil
}

// QuestionnaireAnswer is one answered question with its option tags copied in.
type QuestionnaireAnswer struct {
	QuestionID string   `json:"questionId"`
	Answer     any      `json:"answer"`
	Tags       []string `json:"tags"`
}

// FormData is the sole input to the matcher.
type FormData struct {
	MBTI                 *MBTIType             `json:"mbti,omitempty"`
	BirthInfo            *BirthInfo            `json:"birthInfo,omitempty"`
	QuestionnaireAnswers []QuestionnaireAnswer `json:"questionnaireAnswers"`
}

// HasInput reports whether any part of the wizard has been filled in.
func (f FormData) HasInput() bool {
	return f.MBTI != nil || f.BirthInfo != nil || len(f.QuestionnaireAnswers) > 0
}

// AllTags flattens the tags of every answer in order.
func (f FormData) AllTags() []string {
	var tags []string
	for _, a := range f.QuestionnaireAnswers {
		tags = append(tags, a.Tags...)
	}
	return tags
}

// Clone returns a deep copy.
func (f FormData) Clone() FormData {
	c := FormData{}
	if f.MBTI != nil {
		m := *f.MBTI
		c.MBTI = &m
	}
	if f.BirthInfo != nil {
		b := *f.BirthInfo
		c.BirthInfo = &b
	}
	c.QuestionnaireAnswers = make([]QuestionnaireAnswer, len(f.QuestionnaireAnswers))
	for i, a := range f.QuestionnaireAnswers {
		a.Tags = append([]string(nil), a.Tags...)
		c.QuestionnaireAnswers[i] = a
	}
	return c
}
