package models

import "time"

// MatchResult is the outcome of one completed questionnaire.
type MatchResult struct {
	Persona       *Persona `json:"persona"`
	MatchScore    float64  `json:"matchScore"`
	MBTIMatch     int      `json:"mbtiMatch"`
	ElementMatch  int      `json:"elementMatch"`
	BehaviorMatch int      `json:"behaviorMatch"`
	Reasoning     []string `json:"reasoning"`
}

// Clone returns a deep copy.
func (r *MatchResult) Clone() *MatchResult {
	if r == nil {
		return nil
	}
	c := *r
	c.Persona = r.Persona.Clone()
	c.Reasoning = append([]string(nil), r.Reasoning...)
	return &c
}

// Session is one in-progress or completed matching session.
type Session struct {
	SessionID   string       `json:"sessionId"`
	FormData    FormData     `json:"formData"`
	Result      *MatchResult `json:"result,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	CompletedAt *time.Time   `json:"completedAt,omitempty"`
}

// IsCompleted reports whether a result has been attached.
func (s *Session) IsCompleted() bool {
	return s != nil && s.Result != nil && s.CompletedAt != nil
}

// Clone returns a deep copy so history entries never share state with the current slot.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.FormData = s.FormData.Clone()
	c.Result = s.Result.Clone()
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}
