// Package rebirth is the functional interface the wizard calls: element
// resolution, profile building, matching and session bookkeeping.
package rebirth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/willow/internal/repositories/analytics"
	"github.com/Ramsey-B/willow/internal/repositories/session"
	"github.com/Ramsey-B/willow/pkg/catalog"
	"github.com/Ramsey-B/willow/pkg/element"
	"github.com/Ramsey-B/willow/pkg/logging"
	"github.com/Ramsey-B/willow/pkg/matching"
	"github.com/Ramsey-B/willow/pkg/models"
	"github.com/Ramsey-B/willow/pkg/profile"
	"github.com/Ramsey-B/willow/pkg/storage"
	"github.com/Ramsey-B/willow/pkg/tracing"
)

// Service ties the catalog, matcher and repositories together.
type Service struct {
	catalog   *catalog.Catalog
	engine    *matching.Engine
	sessions  *session.Repository
	analytics *analytics.Repository
	store     *storage.Store
	logger    ectologger.Logger
}

// NewService creates a new rebirth service
func NewService(
	logger ectologger.Logger,
	cat *catalog.Catalog,
	engine *matching.Engine,
	store *storage.Store,
	sessions *session.Repository,
	analyticsRepo *analytics.Repository,
) *Service {
	return &Service{
		catalog:   cat,
		engine:    engine,
		sessions:  sessions,
		analytics: analyticsRepo,
		store:     store,
		logger:    logger,
	}
}

// Catalog returns the persona and question catalog.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// ResolveElement returns the element of the birth year of date.
func (s *Service) ResolveElement(date time.Time) models.Element {
	return element.Resolve(date)
}

// BuildProfile returns the normalized element scores of form.
func (s *Service) BuildProfile(ctx context.Context, form models.FormData) models.FiveElementScores {
	s.warnBadBirthDate(ctx, form)
	return profile.Build(form)
}

// warnBadBirthDate logs a birth date the profile will ignore.
func (s *Service) warnBadBirthDate(ctx context.Context, form models.FormData) bool {
	if form.BirthInfo == nil || form.BirthInfo.Date == "" {
		return false
	}
	if _, err := form.BirthInfo.ParsedDate(); err != nil {
		logging.WithTrace(ctx, s.logger).WithError(err).Warn("Ignoring unparseable birth date")
		return true
	}
	return false
}

// Rank returns every persona scored against form, best first.
func (s *Service) Rank(ctx context.Context, form models.FormData) []matching.Candidate {
	return s.engine.Rank(ctx, form)
}

// Match selects a persona for form. Incomplete questionnaires are matched as given.
func (s *Service) Match(ctx context.Context, form models.FormData) (*models.MatchResult, error) {
	ctx, span := tracing.StartSpan(ctx, "rebirth.Service.Match")
	defer span.End()

	if missing := s.catalog.Questions().Missing(form.QuestionnaireAnswers); len(missing) > 0 {
		logging.WithTrace(ctx, s.logger).WithField("missing_questions", missing).Debug("Matching an incomplete questionnaire")
	}
	s.warnBadBirthDate(ctx, form)

	result, err := s.engine.Match(ctx, form)
	if err != nil {
		s.analytics.Track(ctx, models.EventErrorOccurred, map[string]any{"error": err.Error()})
		return nil, err
	}

	s.analytics.Track(ctx, models.EventResultGenerated, map[string]any{
		"personaId":  result.Persona.ID,
		"matchScore": result.MatchScore,
	})
	return result, nil
}

// Save upserts the current session. An empty sessionID starts a new session.
func (s *Service) Save(ctx context.Context, form models.FormData, sessionID string) (string, storage.Result) {
	id, res := s.sessions.SaveCurrent(ctx, form, sessionID)
	if sessionID == "" {
		s.analytics.Track(ctx, models.EventSessionStarted, map[string]any{"sessionId": id})
	}
	return id, res
}

// Current returns the in-progress session, or nil.
func (s *Service) Current(ctx context.Context) (*models.Session, storage.Result) {
	return s.sessions.GetCurrent(ctx)
}

// Complete finalizes the current session with result.
func (s *Service) Complete(ctx context.Context, result *models.MatchResult) (*models.Session, storage.Result) {
	completed, res := s.sessions.Complete(ctx, result)
	if completed != nil && res.IsOK() {
		s.analytics.Track(ctx, models.EventSessionCompleted, map[string]any{"sessionId": completed.SessionID})
	}
	return completed, res
}

// Submit saves form as the current session, matches it and completes the session.
func (s *Service) Submit(ctx context.Context, form models.FormData, sessionID string) (*models.Session, storage.Result, error) {
	ctx, span := tracing.StartSpan(ctx, "rebirth.Service.Submit")
	defer span.End()

	id, saveRes := s.Save(ctx, form, sessionID)

	result, err := s.Match(ctx, form)
	if err != nil {
		return nil, saveRes, err
	}

	completed, res := s.Complete(ctx, result)
	if completed == nil {
		// storage is down; hand back an unsaved session so the caller can still show the result
		now := time.Now().UTC()
		completed = &models.Session{
			SessionID:   id,
			FormData:    form.Clone(),
			Result:      result,
			CreatedAt:   now,
			CompletedAt: &now,
		}
	}
	return completed, storage.Merge(saveRes, res), nil
}

// History returns completed sessions, most recent first.
func (s *Service) History(ctx context.Context) ([]*models.Session, storage.Result) {
	return s.sessions.History(ctx)
}

// SessionByID returns a completed session, or nil.
func (s *Service) SessionByID(ctx context.Context, sessionID string) (*models.Session, storage.Result) {
	return s.sessions.GetByID(ctx, sessionID)
}

// Export returns the anonymized JSON document of a completed session.
func (s *Service) Export(ctx context.Context, sessionID string) ([]byte, error) {
	export, err := s.sessions.Export(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}
	return data, nil
}

// Clear removes the current session.
func (s *Service) Clear(ctx context.Context) storage.Result {
	return s.sessions.ClearCurrent(ctx)
}

// ClearAll removes the current session and the history.
func (s *Service) ClearAll(ctx context.Context) storage.Result {
	return s.sessions.ClearAll(ctx)
}

// Track records an analytics event. It never fails.
func (s *Service) Track(ctx context.Context, eventType models.AnalyticsEventType, data map[string]any) {
	s.analytics.Track(ctx, eventType, data)
}

// Analytics returns the aggregated analytics log.
func (s *Service) Analytics(ctx context.Context) models.AnalyticsSummary {
	return s.analytics.Summary(ctx)
}

// ExportAnalytics returns the analytics summary and events as JSON.
func (s *Service) ExportAnalytics(ctx context.Context) ([]byte, error) {
	data, err := json.MarshalIndent(s.analytics.Export(ctx), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode analytics: %w", err)
	}
	return data, nil
}

// ClearAnalytics removes the analytics log.
func (s *Service) ClearAnalytics(ctx context.Context) storage.Result {
	return s.analytics.Clear(ctx)
}

// StorageAvailable probes the backend with a write and a delete.
func (s *Service) StorageAvailable(ctx context.Context) storage.Result {
	return storage.Probe(ctx, s.store.Backend())
}

// StorageInfo estimates usage of the managed keys against the storage budget.
func (s *Service) StorageInfo(ctx context.Context) (storage.UsageInfo, storage.Result) {
	keys := append(s.sessions.Keys(), analytics.KeyAnalytics)
	return storage.Usage(ctx, s.store, keys...)
}
