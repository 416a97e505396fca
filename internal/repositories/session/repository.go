package session

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectolinq"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/Ramsey-B/willow/pkg/metrics"
	"github.com/Ramsey-B/willow/pkg/models"
	"github.com/Ramsey-B/willow/pkg/storage"
	"github.com/Ramsey-B/willow/pkg/tracing"
)

const (
	KeyPrefix         = "rebirth_"
	KeyCurrentSession = KeyPrefix + "current_session"
	KeyHistory        = KeyPrefix + "history"

	DefaultHistoryLimit = 10
)

// Repository handles the current session slot and the bounded history log
type Repository struct {
	store        *storage.Store
	logger       ectologger.Logger
	historyLimit int
	metrics      bool
	now          func() time.Time
	idSuffix     func() string
}

// Option customizes a Repository.
type Option func(*Repository)

// WithHistoryLimit caps the number of completed sessions kept.
func WithHistoryLimit(limit int) Option {
	return func(r *Repository) {
		if limit > 0 {
			r.historyLimit = limit
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

// WithIDSuffix overrides the random part of generated session ids.
func WithIDSuffix(suffix func() string) Option {
	return func(r *Repository) {
		r.idSuffix = suffix
	}
}

// WithMetrics toggles the completed sessions counter.
func WithMetrics(enabled bool) Option {
	return func(r *Repository) {
		r.metrics = enabled
	}
}

// NewRepository creates a new session repository
func NewRepository(store *storage.Store, logger ectologger.Logger, opts ...Option) *Repository {
	r := &Repository{
		store:        store,
		logger:       logger,
		historyLimit: DefaultHistoryLimit,
		now:          func() time.Time { return time.Now().UTC() },
		idSuffix: func() string {
			return strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Keys returns the storage keys managed by the repository.
func (r *Repository) Keys() []string {
	return []string{KeyCurrentSession, KeyHistory}
}

// GenerateSessionID returns rebirth_<unix-ms>_<9 random chars>.
func (r *Repository) GenerateSessionID() string {
	return fmt.Sprintf("%s%d_%s", KeyPrefix, r.now().UnixMilli(), r.idSuffix())
}

// SaveCurrent upserts the current session with form data and returns its id.
// An empty sessionID starts a new session. The id is returned even when the write fails.
func (r *Repository) SaveCurrent(ctx context.Context, form models.FormData, sessionID string) (string, storage.Result) {
	ctx, span := tracing.StartSpan(ctx, "session.Repository.SaveCurrent")
	defer span.End()

	if sessionID == "" {
		sessionID = r.GenerateSessionID()
	}

	session := &models.Session{
		SessionID: sessionID,
		FormData:  form.Clone(),
		CreatedAt: r.now(),
	}
	if existing, res := r.GetCurrent(ctx); res.IsOK() && existing != nil && existing.SessionID == sessionID {
		session.CreatedAt = existing.CreatedAt
	}

	res := r.store.Save(ctx, KeyCurrentSession, session)
	if !res.IsOK() {
		r.logger.WithContext(ctx).WithField("session_id", sessionID).Error("Failed to save current session")
	}
	return sessionID, res
}

// GetCurrent returns the current session, or nil when there is none or it cannot be read.
func (r *Repository) GetCurrent(ctx context.Context) (*models.Session, storage.Result) {
	var session models.Session
	found, res := r.store.Load(ctx, KeyCurrentSession, &session)
	if !found {
		return nil, res
	}
	return &session, res
}

// Complete attaches result to the current session, persists it and prepends a copy to history.
// With no current session it logs a warning and does nothing.
func (r *Repository) Complete(ctx context.Context, result *models.MatchResult) (*models.Session, storage.Result) {
	ctx, span := tracing.StartSpan(ctx, "session.Repository.Complete")
	defer span.End()

	log := r.logger.WithContext(ctx)

	session, res := r.GetCurrent(ctx)
	if session == nil {
		if res.IsOK() {
			log.Warn("No active session to complete")
		}
		return nil, res
	}

	completedAt := r.now()
	session.Result = result.Clone()
	session.CompletedAt = &completedAt

	log = log.WithField("session_id", session.SessionID)

	if res := r.store.Save(ctx, KeyCurrentSession, session); !res.IsOK() {
		log.Error("Failed to complete session")
		return session, res
	}

	if res := r.addToHistory(ctx, session.Clone()); !res.IsOK() {
		log.Error("Failed to add session to history")
		return session, res
	}

	if r.metrics {
		metrics.SessionsCompletedTotal.Inc()
	}
	log.Info("Completed session")

	return session, storage.OK
}

func (r *Repository) addToHistory(ctx context.Context, session *models.Session) storage.Result {
	history, res := r.History(ctx)
	switch res.Status() {
	case storage.StatusOK:
	case storage.StatusSerializationError:
		r.logger.WithContext(ctx).Warn("Replacing unreadable session history")
		history = nil
	default:
		return res
	}

	history = append([]*models.Session{session}, history...)
	if len(history) > r.historyLimit {
		history = history[:r.historyLimit]
	}

	return r.store.Save(ctx, KeyHistory, history)
}

// History returns completed sessions, most recent first.
func (r *Repository) History(ctx context.Context) ([]*models.Session, storage.Result) {
	var history []*models.Session
	found, res := r.store.Load(ctx, KeyHistory, &history)
	if !found {
		return []*models.Session{}, res
	}
	return history, res
}

// GetByID finds a session in history, or nil.
func (r *Repository) GetByID(ctx context.Context, sessionID string) (*models.Session, storage.Result) {
	history, res := r.History(ctx)
	session := ectolinq.Find(history, func(s *models.Session) bool {
		return s != nil && s.SessionID == sessionID
	})
	return session, res
}

// ClearCurrent removes the current session.
func (r *Repository) ClearCurrent(ctx context.Context) storage.Result {
	return r.store.Remove(ctx, KeyCurrentSession)
}

// ClearAll removes the current session and the history.
func (r *Repository) ClearAll(ctx context.Context) storage.Result {
	return storage.Merge(
		r.store.Remove(ctx, KeyCurrentSession),
		r.store.Remove(ctx, KeyHistory),
	)
}

// ExportedResult is the anonymized summary of a match.
type ExportedResult struct {
	PersonaID    string  `json:"personaId"`
	PersonaTitle string  `json:"personaTitle"`
	MatchScore   float64 `json:"matchScore"`
}

// Export is the anonymized view of a history session.
type Export struct {
	SessionID                string           `json:"sessionId"`
	MBTI                     *models.MBTIType `json:"mbti,omitempty"`
	BirthYear                *int             `json:"birthYear"`
	HasTime                  *bool            `json:"hasTime,omitempty"`
	QuestionnaireTagsSummary []string         `json:"questionnaireTagsSummary"`
	Result                   *ExportedResult  `json:"result"`
	CompletedAt              *time.Time       `json:"completedAt,omitempty"`
}

// Export returns the anonymized view of a history session, or a 404 error.
func (r *Repository) Export(ctx context.Context, sessionID string) (*Export, error) {
	session, res := r.GetByID(ctx, sessionID)
	if session == nil {
		if !res.IsOK() {
			return nil, res.Err()
		}
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "session %s not found", sessionID)
	}

	export := &Export{
		SessionID:                session.SessionID,
		MBTI:                     session.FormData.MBTI,
		QuestionnaireTagsSummary: session.FormData.AllTags(),
		CompletedAt:              session.CompletedAt,
	}
	if export.QuestionnaireTagsSummary == nil {
		export.QuestionnaireTagsSummary = []string{}
	}

	if info := session.FormData.BirthInfo; info != nil {
		hasTime := info.HasTime
		export.HasTime = &hasTime
		if date, err := info.ParsedDate(); err == nil {
			year := date.Year()
			export.BirthYear = &year
		}
	}

	if session.Result != nil && session.Result.Persona != nil {
		export.Result = &ExportedResult{
			PersonaID:    session.Result.Persona.ID,
			PersonaTitle: session.Result.Persona.Title,
			MatchScore:   session.Result.MatchScore,
		}
	}

	return export, nil
}
