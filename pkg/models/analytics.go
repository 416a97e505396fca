package models

import "time"

// AnalyticsEventType names a tracked wizard event.
type AnalyticsEventType string

const (
	EventSessionStarted         AnalyticsEventType = "session_started"
	EventMBTICompleted          AnalyticsEventType = "mbti_completed"
	EventMBTISkipped            AnalyticsEventType = "mbti_skipped"
	EventBirthInfoCompleted     AnalyticsEventType = "birth_info_completed"
	EventQuestionnaireCompleted AnalyticsEventType = "questionnaire_completed"
	EventSessionCompleted       AnalyticsEventType = "session_completed"
	EventResultGenerated        AnalyticsEventType = "result_generated"
	EventResultShared           AnalyticsEventType = "result_shared"
	EventFormAbandoned          AnalyticsEventType = "form_abandoned"
	EventErrorOccurred          AnalyticsEventType = "error_occurred"
)

// AnalyticsEvent is one entry of the local analytics log.
type AnalyticsEvent struct {
	Type      AnalyticsEventType `json:"type"`
	Timestamp time.Time          `json:"timestamp"`
	Data      map[string]any     `json:"data,omitempty"`
}

// AbandonmentCounts counts form_abandoned events per wizard step.
type AbandonmentCounts struct {
	AtMBTI          int `json:"atMBTI"`
	AtBirth         int `json:"atBirth"`
	AtQuestionnaire int `json:"atQuestionnaire"`
}

// AnalyticsSummary aggregates the analytics log.
type AnalyticsSummary struct {
	TotalSessions       int               `json:"totalSessions"`
	CompletedSessions   int               `json:"completedSessions"`
	FormAbandonment     AbandonmentCounts `json:"formAbandonment"`
	PersonaDistribution map[string]int    `json:"personaDistribution"`
	AvgMatchScore       float64           `json:"avgMatchScore"`
}
