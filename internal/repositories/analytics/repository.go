package analytics

import (
	"context"
	"time"

	"github.com/Gobusters/ectolinq"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/willow/pkg/metrics"
	"github.com/Ramsey-B/willow/pkg/models"
	"github.com/Ramsey-B/willow/pkg/storage"
)

const (
	KeyAnalytics = "rebirth_analytics"

	DefaultMaxEvents = 1000
)

// Repository keeps a capped local event log. Failures are logged and never surface to callers.
type Repository struct {
	store     *storage.Store
	logger    ectologger.Logger
	maxEvents int
	enabled   bool
	metrics   bool
	now       func() time.Time
}

// Option customizes a Repository.
type Option func(*Repository)

// WithMaxEvents caps the log length; the oldest events are evicted first.
func WithMaxEvents(n int) Option {
	return func(r *Repository) {
		if n > 0 {
			r.maxEvents = n
		}
	}
}

// WithEnabled turns tracking on or off.
func WithEnabled(enabled bool) Option {
	return func(r *Repository) {
		r.enabled = enabled
	}
}

// WithMetrics toggles the prometheus events counter.
func WithMetrics(enabled bool) Option {
	return func(r *Repository) {
		r.metrics = enabled
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

// NewRepository creates a new analytics repository
func NewRepository(store *storage.Store, logger ectologger.Logger, opts ...Option) *Repository {
	r := &Repository{
		store:     store,
		logger:    logger,
		maxEvents: DefaultMaxEvents,
		enabled:   true,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Track appends an event.
func (r *Repository) Track(ctx context.Context, eventType models.AnalyticsEventType, data map[string]any) {
	if !r.enabled {
		return
	}

	events, res := r.Events(ctx)
	switch res.Status() {
	case storage.StatusOK:
	case storage.StatusSerializationError:
		r.logger.WithContext(ctx).Warn("Replacing unreadable analytics log")
		events = nil
	default:
		r.logger.WithContext(ctx).WithField("type", eventType).WithError(res.Err()).Warn("Failed to track analytics event")
		return
	}

	events = append(events, models.AnalyticsEvent{
		Type:      eventType,
		Timestamp: r.now(),
		Data:      data,
	})
	if len(events) > r.maxEvents {
		events = events[len(events)-r.maxEvents:]
	}

	if res := r.store.Save(ctx, KeyAnalytics, events); !res.IsOK() {
		r.logger.WithContext(ctx).WithField("type", eventType).Warn("Failed to track analytics event")
		return
	}
	if r.metrics {
		metrics.AnalyticsEventsTotal.WithLabelValues(string(eventType)).Inc()
	}
}

// Events returns the log, oldest first. The slice is empty, never nil, when the log is missing or unreadable.
func (r *Repository) Events(ctx context.Context) ([]models.AnalyticsEvent, storage.Result) {
	var events []models.AnalyticsEvent
	if found, res := r.store.Load(ctx, KeyAnalytics, &events); !found {
		return []models.AnalyticsEvent{}, res
	}
	return events, storage.OK
}

// Summary aggregates the log.
func (r *Repository) Summary(ctx context.Context) models.AnalyticsSummary {
	events, _ := r.Events(ctx)
	return Summarize(events)
}

// Summarize aggregates events.
func Summarize(events []models.AnalyticsEvent) models.AnalyticsSummary {
	ofType := func(t models.AnalyticsEventType) []models.AnalyticsEvent {
		return ectolinq.Filter(events, func(e models.AnalyticsEvent) bool { return e.Type == t })
	}
	abandonedAt := func(step string) int {
		return len(ectolinq.Filter(ofType(models.EventFormAbandoned), func(e models.AnalyticsEvent) bool {
			s, _ := e.Data["step"].(string)
			return s == step
		}))
	}

	summary := models.AnalyticsSummary{
		TotalSessions:     len(ofType(models.EventSessionStarted)),
		CompletedSessions: len(ofType(models.EventSessionCompleted)),
		FormAbandonment: models.AbandonmentCounts{
			AtMBTI:          abandonedAt("mbti"),
			AtBirth:         abandonedAt("birth"),
			AtQuestionnaire: abandonedAt("questionnaire"),
		},
		PersonaDistribution: map[string]int{},
	}

	results := ofType(models.EventResultGenerated)
	total := 0.0
	for _, e := range results {
		if id, ok := e.Data["personaId"].(string); ok && id != "" {
			summary.PersonaDistribution[id]++
		}
		total += number(e.Data["matchScore"])
	}
	if len(results) > 0 {
		summary.AvgMatchScore = total / float64(len(results))
	}

	return summary
}

func number(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

// Clear removes the log.
func (r *Repository) Clear(ctx context.Context) storage.Result {
	return r.store.Remove(ctx, KeyAnalytics)
}

// Export is the analytics dump document.
type Export struct {
	Summary    models.AnalyticsSummary `json:"summary"`
	Events     []models.AnalyticsEvent `json:"events"`
	ExportedAt time.Time               `json:"exportedAt"`
}

// Export returns the summary and every event.
func (r *Repository) Export(ctx context.Context) Export {
	events, _ := r.Events(ctx)
	return Export{
		Summary:    Summarize(events),
		Events:     events,
		ExportedAt: r.now(),
	}
}
