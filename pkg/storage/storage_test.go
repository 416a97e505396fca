package storage

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/willow/pkg/redis"
)

var errDown = errors.New("backend down")

type failingBackend struct {
	getErr, setErr, removeErr error
}

func (f failingBackend) Get(context.Context, string) (string, bool, error) {
	return "", false, f.getErr
}

func (f failingBackend) Set(context.Context, string, string) error {
	return f.setErr
}

func (f failingBackend) Remove(context.Context, string) error {
	return f.removeErr
}

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

type blob struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// backendSuite runs the same contract against every backend.
func backendSuite(t *testing.T, backend Backend) {
	ctx := context.Background()

	_, found, err := backend.Get(ctx, "rebirth_missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, backend.Set(ctx, "rebirth_history", `[1,2]`))
	value, found, err := backend.Get(ctx, "rebirth_history")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[1,2]`, value)

	require.NoError(t, backend.Set(ctx, "rebirth_history", `[3]`))
	value, _, err = backend.Get(ctx, "rebirth_history")
	require.NoError(t, err)
	assert.Equal(t, `[3]`, value)

	require.NoError(t, backend.Remove(ctx, "rebirth_history"))
	require.NoError(t, backend.Remove(ctx, "rebirth_history"))
	_, found, err = backend.Get(ctx, "rebirth_history")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestBackends(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		backendSuite(t, NewMemoryBackend())
	})

	t.Run("file", func(t *testing.T) {
		backend, err := NewFileBackend(t.TempDir())
		require.NoError(t, err)
		backendSuite(t, backend)
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		port, err := strconv.Atoi(mr.Port())
		require.NoError(t, err)
		client, err := redis.NewClient(redis.Config{Host: mr.Host(), Port: port}, testLogger())
		require.NoError(t, err)
		defer client.Close()

		backendSuite(t, NewRedisBackend(client))
	})
}

func TestStore_SizeOnRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	client, err := redis.NewClient(redis.Config{Host: mr.Host(), Port: port}, testLogger())
	require.NoError(t, err)
	defer client.Close()

	backend := NewRedisBackend(client)
	store := NewStore(backend, testLogger(), WithNamespace("willow"))
	ctx := context.Background()

	n, found, err := backend.ValueSize(ctx, "willow:rebirth_history")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, n)

	size, res := store.Size(ctx, "rebirth_history")
	assert.True(t, res.IsOK())
	assert.Zero(t, size)

	require.NoError(t, mr.Set("willow:rebirth_history", ""))
	size, res = store.Size(ctx, "rebirth_history")
	assert.True(t, res.IsOK())
	assert.Equal(t, len("willow:rebirth_history"), size)

	require.True(t, store.Save(ctx, "rebirth_history", []int{1, 2}).IsOK())
	size, res = store.Size(ctx, "rebirth_history")
	assert.True(t, res.IsOK())
	assert.Equal(t, len("willow:rebirth_history")+len("[1,2]"), size)

	mr.Close()
	_, res = store.Size(ctx, "rebirth_history")
	assert.Equal(t, StatusUnavailable, res.Status())
}

func TestFileBackend_RejectsPathKeys(t *testing.T) {
	backend, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "..", "a/b", `a\b`} {
		assert.Error(t, backend.Set(context.Background(), key, "x"), key)
	}

	_, err = NewFileBackend(" ")
	assert.Error(t, err)
}

func TestStore_RoundTrip(t *testing.T) {
	store := NewStore(NewMemoryBackend(), testLogger())
	ctx := context.Background()

	res := store.Save(ctx, "k", blob{Name: "a", Count: 2})
	assert.True(t, res.IsOK())
	assert.Equal(t, StatusOK, res.Status())
	assert.NoError(t, res.Err())

	var got blob
	found, res := store.Load(ctx, "k", &got)
	assert.True(t, found)
	assert.True(t, res.IsOK())
	assert.Equal(t, blob{Name: "a", Count: 2}, got)

	found, res = store.Load(ctx, "other", &got)
	assert.False(t, found)
	assert.True(t, res.IsOK())

	assert.True(t, store.Remove(ctx, "k").IsOK())
	found, _ = store.Load(ctx, "k", &got)
	assert.False(t, found)
}

func TestStore_Namespace(t *testing.T) {
	backend := NewMemoryBackend()
	store := NewStore(backend, testLogger(), WithNamespace("willow"))
	ctx := context.Background()

	require.True(t, store.Save(ctx, "rebirth_history", []int{1}).IsOK())

	raw, found, err := backend.Get(ctx, "willow:rebirth_history")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "[1]", raw)
}

func TestStore_Failures(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		run    func(s *Store) Result
		store  *Store
		status Status
	}{
		{
			name:   "get unavailable",
			store:  NewStore(failingBackend{getErr: errDown}, testLogger()),
			run:    func(s *Store) Result { var b blob; _, r := s.Load(ctx, "k", &b); return r },
			status: StatusUnavailable,
		},
		{
			name:   "set unavailable",
			store:  NewStore(failingBackend{setErr: errDown}, testLogger(), WithMetrics(true)),
			run:    func(s *Store) Result { return s.Save(ctx, "k", blob{}) },
			status: StatusUnavailable,
		},
		{
			name:   "remove unavailable",
			store:  NewStore(failingBackend{removeErr: errDown}, testLogger()),
			run:    func(s *Store) Result { return s.Remove(ctx, "k") },
			status: StatusUnavailable,
		},
		{
			name:   "unencodable value",
			store:  NewStore(NewMemoryBackend(), testLogger()),
			run:    func(s *Store) Result { return s.Save(ctx, "k", func() {}) },
			status: StatusSerializationError,
		},
		{
			name: "corrupted blob",
			store: func() *Store {
				backend := NewMemoryBackend()
				_ = backend.Set(ctx, "k", "{not json")
				return NewStore(backend, testLogger())
			}(),
			run:    func(s *Store) Result { var b blob; _, r := s.Load(ctx, "k", &b); return r },
			status: StatusSerializationError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := tt.run(tt.store)
			assert.False(t, res.IsOK())
			assert.Equal(t, tt.status, res.Status())
			assert.True(t, IsStatus(res.Err(), tt.status))
			if tt.status == StatusUnavailable {
				assert.ErrorIs(t, res.Err(), errDown)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	failed := Failed(StatusUnavailable, "set", "k", errDown)
	assert.Equal(t, OK, Merge(OK, OK))
	assert.Equal(t, failed, Merge(OK, failed, Failed(StatusSerializationError, "get", "k", errDown)))
}

func TestProbe(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()

	assert.True(t, Probe(ctx, backend).IsOK())
	_, found, _ := backend.Get(ctx, probeKey)
	assert.False(t, found)

	assert.Equal(t, StatusUnavailable, Probe(ctx, failingBackend{setErr: errDown}).Status())
	assert.Equal(t, StatusUnavailable, Probe(ctx, failingBackend{removeErr: errDown}).Status())
}

func TestUsage(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	store := NewStore(backend, testLogger())

	value := make([]byte, 1024-len("big"))
	for i := range value {
		value[i] = 'x'
	}
	require.NoError(t, backend.Set(ctx, "big", string(value)))

	info, res := Usage(ctx, store, "big", "missing")
	require.True(t, res.IsOK())
	assert.Equal(t, 1.0, info.UsedKB)
	assert.Equal(t, BudgetKB, info.TotalKB)
	assert.Equal(t, 0.02, info.Percentage)

	info, res = Usage(ctx, NewStore(failingBackend{getErr: errDown}, testLogger()), "big")
	assert.Equal(t, StatusUnavailable, res.Status())
	assert.Zero(t, info.UsedKB)
}
