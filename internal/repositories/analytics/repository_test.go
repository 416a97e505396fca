package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/willow/pkg/models"
	"github.com/Ramsey-B/willow/pkg/storage"
)

type downBackend struct{}

func (downBackend) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("down")
}
func (downBackend) Set(context.Context, string, string) error { return errors.New("down") }
func (downBackend) Remove(context.Context, string) error      { return errors.New("down") }

// flakyBackend fails the next getFailures reads.
type flakyBackend struct {
	*storage.MemoryBackend
	getFailures int
}

func (b *flakyBackend) Get(ctx context.Context, key string) (string, bool, error) {
	if b.getFailures > 0 {
		b.getFailures--
		return "", false, errors.New("timeout")
	}
	return b.MemoryBackend.Get(ctx, key)
}

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func newTestRepository(opts ...Option) *Repository {
	fixed := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	opts = append([]Option{WithClock(func() time.Time { return fixed })}, opts...)
	return NewRepository(storage.NewStore(storage.NewMemoryBackend(), testLogger()), testLogger(), opts...)
}

func TestTrack(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()

	repo.Track(ctx, models.EventSessionStarted, nil)
	repo.Track(ctx, models.EventMBTICompleted, map[string]any{"mbti": "INTJ"})

	events, res := repo.Events(ctx)
	require.True(t, res.IsOK())
	require.Len(t, events, 2)
	assert.Equal(t, models.EventSessionStarted, events[0].Type)
	assert.Nil(t, events[0].Data)
	assert.Equal(t, "INTJ", events[1].Data["mbti"])
}

func TestTrack_EvictsOldest(t *testing.T) {
	repo := newTestRepository(WithMaxEvents(3))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		repo.Track(ctx, models.EventResultGenerated, map[string]any{"n": i})
	}

	events, _ := repo.Events(ctx)
	require.Len(t, events, 3)
	assert.Equal(t, float64(2), events[0].Data["n"])
	assert.Equal(t, float64(4), events[2].Data["n"])
}

func TestTrack_Disabled(t *testing.T) {
	repo := newTestRepository(WithEnabled(false))
	repo.Track(context.Background(), models.EventSessionStarted, nil)
	events, _ := repo.Events(context.Background())
	assert.Empty(t, events)
}

func TestTrack_StorageDownIsSilent(t *testing.T) {
	repo := NewRepository(storage.NewStore(downBackend{}, testLogger()), testLogger(), WithMetrics(true))
	ctx := context.Background()

	assert.NotPanics(t, func() {
		repo.Track(ctx, models.EventErrorOccurred, map[string]any{"error": "x"})
	})
	events, res := repo.Events(ctx)
	assert.Empty(t, events)
	assert.Equal(t, storage.StatusUnavailable, res.Status())
	assert.Equal(t, models.AnalyticsSummary{PersonaDistribution: map[string]int{}}, repo.Summary(ctx))
}

func TestSummary(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()

	repo.Track(ctx, models.EventSessionStarted, nil)
	repo.Track(ctx, models.EventSessionStarted, nil)
	repo.Track(ctx, models.EventSessionStarted, nil)
	repo.Track(ctx, models.EventFormAbandoned, map[string]any{"step": "mbti"})
	repo.Track(ctx, models.EventFormAbandoned, map[string]any{"step": "questionnaire"})
	repo.Track(ctx, models.EventFormAbandoned, map[string]any{"step": "questionnaire"})
	repo.Track(ctx, models.EventFormAbandoned, nil)
	repo.Track(ctx, models.EventResultGenerated, map[string]any{"personaId": "sage", "matchScore": 80.0})
	repo.Track(ctx, models.EventResultGenerated, map[string]any{"personaId": "sage", "matchScore": 60})
	repo.Track(ctx, models.EventResultGenerated, map[string]any{"personaId": "rider"})
	repo.Track(ctx, models.EventSessionCompleted, nil)

	summary := repo.Summary(ctx)
	assert.Equal(t, 3, summary.TotalSessions)
	assert.Equal(t, 1, summary.CompletedSessions)
	assert.Equal(t, models.AbandonmentCounts{AtMBTI: 1, AtQuestionnaire: 2}, summary.FormAbandonment)
	assert.Equal(t, map[string]int{"sage": 2, "rider": 1}, summary.PersonaDistribution)
	assert.InDelta(t, 140.0/3.0, summary.AvgMatchScore, 1e-9)
}

func TestClearAndExport(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()

	repo.Track(ctx, models.EventSessionStarted, nil)
	export := repo.Export(ctx)
	assert.Len(t, export.Events, 1)
	assert.Equal(t, 1, export.Summary.TotalSessions)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), export.ExportedAt)

	require.True(t, repo.Clear(ctx).IsOK())
	events, _ := repo.Events(ctx)
	assert.Empty(t, events)
}

func TestTrack_TransientReadFailureKeepsLog(t *testing.T) {
	backend := &flakyBackend{MemoryBackend: storage.NewMemoryBackend()}
	repo := NewRepository(storage.NewStore(backend, testLogger()), testLogger())
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		repo.Track(ctx, models.EventSessionStarted, nil)
	}

	backend.getFailures = 1
	repo.Track(ctx, models.EventSessionCompleted, nil)

	events, res := repo.Events(ctx)
	require.True(t, res.IsOK())
	assert.Len(t, events, 50)

	repo.Track(ctx, models.EventSessionCompleted, nil)
	events, _ = repo.Events(ctx)
	require.Len(t, events, 51)
	assert.Equal(t, models.EventSessionCompleted, events[50].Type)
}

func TestTrack_ReplacesUnreadableLog(t *testing.T) {
	backend := storage.NewMemoryBackend()
	store := storage.NewStore(backend, testLogger())
	repo := NewRepository(store, testLogger())
	ctx := context.Background()

	require.NoError(t, backend.Set(ctx, store.Key(KeyAnalytics), "{not json"))

	repo.Track(ctx, models.EventSessionStarted, nil)

	events, res := repo.Events(ctx)
	require.True(t, res.IsOK())
	require.Len(t, events, 1)
	assert.Equal(t, models.EventSessionStarted, events[0].Type)
}
