package rebirth

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"testing"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/willow/internal/repositories/analytics"
	"github.com/Ramsey-B/willow/internal/repositories/session"
	"github.com/Ramsey-B/willow/pkg/catalog"
	"github.com/Ramsey-B/willow/pkg/matching"
	"github.com/Ramsey-B/willow/pkg/models"
	"github.com/Ramsey-B/willow/pkg/storage"
)

var errDown = errors.New("backend down")

type downBackend struct{}

func (downBackend) Get(context.Context, string) (string, bool, error) { return "", false, errDown }
func (downBackend) Set(context.Context, string, string) error          { return errDown }
func (downBackend) Remove(context.Context, string) error               { return errDown }

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func newTestService(t *testing.T, backend storage.Backend, source matching.PersonaSource) *Service {
	t.Helper()
	cat, err := catalog.Load()
	require.NoError(t, err)
	if source == nil {
		source = cat
	}

	logger := testLogger()
	store := storage.NewStore(backend, logger)
	engine := matching.NewEngine(logger, source, matching.DefaultConfig(), matching.WithRandom(rand.New(rand.NewPCG(1, 2))))
	return NewService(
		logger,
		cat,
		engine,
		store,
		session.NewRepository(store, logger),
		analytics.NewRepository(store, logger),
	)
}

func testForm(t *testing.T, cat *catalog.Catalog) models.FormData {
	t.Helper()
	answers, err := cat.Questions().BuildAnswers(map[string]any{
		"q1_social": "a",
		"q8_pace":   2,
	})
	require.NoError(t, err)

	mbti := models.MBTIINTJ
	return models.FormData{
		MBTI:                 &mbti,
		BirthInfo:            &models.BirthInfo{Date: "1996-05-20", HasTime: true, Time: "08:30"},
		QuestionnaireAnswers: answers,
	}
}

func TestService_ResolveElementAndProfile(t *testing.T) {
	svc := newTestService(t, storage.NewMemoryBackend(), nil)

	assert.Equal(t, models.ElementWater, svc.ResolveElement(time.Date(1996, 5, 20, 0, 0, 0, 0, time.UTC)))

	scores := svc.BuildProfile(context.Background(), testForm(t, svc.Catalog()))
	dominant, ok := scores.Dominant()
	require.True(t, ok)
	assert.Equal(t, models.ElementWater, dominant)
	assert.InDelta(t, 1.0, scores.Total(), 1e-9)

	empty := svc.BuildProfile(context.Background(), models.FormData{BirthInfo: &models.BirthInfo{Date: "not a date"}})
	assert.Zero(t, empty.Total())
}

func TestService_WarnBadBirthDate(t *testing.T) {
	tests := []struct {
		name  string
		birth *models.BirthInfo
		want  bool
	}{
		{name: "no birth info"},
		{name: "empty date", birth: &models.BirthInfo{}},
		{name: "valid date", birth: &models.BirthInfo{Date: "1996-05-20"}},
		{name: "unparseable date", birth: &models.BirthInfo{Date: "20/05/1996"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, storage.NewMemoryBackend(), nil)
			var warnings []string
			svc.logger = ectologger.NewEctoLogger(func(msg ectologger.EctoLogMessage) {
				if msg.Level == "warn" {
					warnings = append(warnings, msg.Message)
				}
			})

			assert.Equal(t, tt.want, svc.warnBadBirthDate(context.Background(), models.FormData{BirthInfo: tt.birth}))
			if tt.want {
				assert.Equal(t, []string{"Ignoring unparseable birth date"}, warnings)
			} else {
				assert.Empty(t, warnings)
			}
		})
	}
}

func TestService_MatchWarnsOnceForBadBirthDate(t *testing.T) {
	svc := newTestService(t, storage.NewMemoryBackend(), nil)
	var warnings []string
	svc.logger = ectologger.NewEctoLogger(func(msg ectologger.EctoLogMessage) {
		if msg.Level == "warn" {
			warnings = append(warnings, msg.Message)
		}
	})

	form := testForm(t, svc.Catalog())
	form.BirthInfo = &models.BirthInfo{Date: "not a date"}

	result, err := svc.Match(context.Background(), form)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, []string{"Ignoring unparseable birth date"}, warnings)
}

func TestService_Submit(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, storage.NewMemoryBackend(), nil)
	form := testForm(t, svc.Catalog())

	completed, res, err := svc.Submit(ctx, form, "")
	require.NoError(t, err)
	require.True(t, res.IsOK())
	require.True(t, completed.IsCompleted())
	assert.NotEmpty(t, completed.Result.Reasoning)
	assert.GreaterOrEqual(t, completed.Result.MatchScore, 0.0)
	assert.LessOrEqual(t, completed.Result.MatchScore, 100.0)

	current, res := svc.Current(ctx)
	require.True(t, res.IsOK())
	require.NotNil(t, current)
	assert.True(t, current.IsCompleted())

	history, res := svc.History(ctx)
	require.True(t, res.IsOK())
	require.Len(t, history, 1)
	assert.Equal(t, completed.SessionID, history[0].SessionID)

	found, res := svc.SessionByID(ctx, completed.SessionID)
	require.True(t, res.IsOK())
	require.NotNil(t, found)
	assert.Equal(t, completed.Result.Persona.ID, found.Result.Persona.ID)

	summary := svc.Analytics(ctx)
	assert.Equal(t, 1, summary.TotalSessions)
	assert.Equal(t, 1, summary.CompletedSessions)
	assert.Equal(t, map[string]int{completed.Result.Persona.ID: 1}, summary.PersonaDistribution)
	assert.InDelta(t, completed.Result.MatchScore, summary.AvgMatchScore, 1e-9)
}

func TestService_SubmitResumesSession(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, storage.NewMemoryBackend(), nil)
	form := testForm(t, svc.Catalog())

	id, res := svc.Save(ctx, models.FormData{}, "")
	require.True(t, res.IsOK())

	completed, res, err := svc.Submit(ctx, form, id)
	require.NoError(t, err)
	require.True(t, res.IsOK())
	assert.Equal(t, id, completed.SessionID)

	// resuming does not count as a new session
	assert.Equal(t, 1, svc.Analytics(ctx).TotalSessions)
}

func TestService_Export(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, storage.NewMemoryBackend(), nil)

	completed, _, err := svc.Submit(ctx, testForm(t, svc.Catalog()), "")
	require.NoError(t, err)

	data, err := svc.Export(ctx, completed.SessionID)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, completed.SessionID, doc["sessionId"])
	assert.Equal(t, "INTJ", doc["mbti"])
	assert.Equal(t, 1996.0, doc["birthYear"])
	assert.Equal(t, true, doc["hasTime"])
	assert.NotContains(t, doc, "birthInfo")

	result, ok := doc["result"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, completed.Result.Persona.ID, result["personaId"])

	_, err = svc.Export(ctx, "rebirth_missing")
	require.Error(t, err)
	require.True(t, httperror.IsHTTPError(err))
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
}

func TestService_MatchWithoutPersonas(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, storage.NewMemoryBackend(), matching.Personas{})

	_, _, err := svc.Submit(ctx, testForm(t, svc.Catalog()), "")
	require.ErrorIs(t, err, matching.ErrNoPersonas)

	events, _ := svc.analytics.Events(ctx)
	require.NotEmpty(t, events)
	assert.Equal(t, models.EventErrorOccurred, events[len(events)-1].Type)

	history, _ := svc.History(ctx)
	assert.Empty(t, history)
}

func TestService_StorageUnavailable(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, downBackend{}, nil)

	completed, res, err := svc.Submit(ctx, testForm(t, svc.Catalog()), "")
	require.NoError(t, err)
	assert.Equal(t, storage.StatusUnavailable, res.Status())
	require.NotNil(t, completed)
	assert.NotNil(t, completed.Result)
	assert.NotEmpty(t, completed.SessionID)

	assert.Equal(t, storage.StatusUnavailable, svc.StorageAvailable(ctx).Status())

	_, err = svc.Export(ctx, completed.SessionID)
	assert.True(t, storage.IsStatus(err, storage.StatusUnavailable))
}

func TestService_ClearAndStorageInfo(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, storage.NewMemoryBackend(), nil)

	_, _, err := svc.Submit(ctx, testForm(t, svc.Catalog()), "")
	require.NoError(t, err)
	require.True(t, svc.StorageAvailable(ctx).IsOK())

	info, res := svc.StorageInfo(ctx)
	require.True(t, res.IsOK())
	assert.Greater(t, info.UsedKB, 0.0)
	assert.Equal(t, storage.BudgetKB, info.TotalKB)

	_, res = svc.Save(ctx, models.FormData{}, "")
	require.True(t, res.IsOK())
	require.True(t, svc.Clear(ctx).IsOK())
	current, _ := svc.Current(ctx)
	assert.Nil(t, current)

	require.True(t, svc.ClearAll(ctx).IsOK())
	history, _ := svc.History(ctx)
	assert.Empty(t, history)

	data, err := svc.ExportAnalytics(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"totalSessions": 2`)

	require.True(t, svc.ClearAnalytics(ctx).IsOK())
	assert.Zero(t, svc.Analytics(ctx).TotalSessions)
}
