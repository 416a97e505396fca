package storage

import (
	"context"
	"encoding/json"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/willow/pkg/logging"
	"github.com/Ramsey-B/willow/pkg/metrics"
	"github.com/Ramsey-B/willow/pkg/tracing"
)

// Store reads and writes JSON blobs through a Backend and classifies failures.
// It never panics or returns raw backend errors to callers.
type Store struct {
	backend   Backend
	namespace string
	logger    ectologger.Logger
	metrics   bool
}

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithNamespace prefixes every key, for backends shared between apps.
func WithNamespace(namespace string) StoreOption {
	return func(s *Store) {
		s.namespace = namespace
	}
}

// WithMetrics toggles prometheus recording of operation outcomes.
func WithMetrics(enabled bool) StoreOption {
	return func(s *Store) {
		s.metrics = enabled
	}
}

// NewStore creates a Store over backend.
func NewStore(backend Backend, logger ectologger.Logger, opts ...StoreOption) *Store {
	s := &Store{
		backend: backend,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend returns the underlying backend.
func (s *Store) Backend() Backend {
	return s.backend
}

// Key returns the namespaced form of key.
func (s *Store) Key(key string) string {
	if s.namespace == "" {
		return key
	}
	return s.namespace + ":" + key
}

// Load decodes the blob at key into dest. found is false when the key is
// missing or the blob cannot be decoded.
func (s *Store) Load(ctx context.Context, key string, dest any) (bool, Result) {
	ctx, span := tracing.StartSpan(ctx, "storage.Store.Load")
	defer span.End()

	raw, found, err := s.backend.Get(ctx, s.Key(key))
	if err != nil {
		return false, s.fail(ctx, StatusUnavailable, "get", key, err)
	}
	if !found || raw == "" {
		return false, s.ok("get", key)
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, s.fail(ctx, StatusSerializationError, "get", key, err)
	}
	return true, s.ok("get", key)
}

// Save encodes value as JSON and writes it at key.
func (s *Store) Save(ctx context.Context, key string, value any) Result {
	ctx, span := tracing.StartSpan(ctx, "storage.Store.Save")
	defer span.End()

	data, err := json.Marshal(value)
	if err != nil {
		return s.fail(ctx, StatusSerializationError, "set", key, err)
	}

	if err := s.backend.Set(ctx, s.Key(key), string(data)); err != nil {
		return s.fail(ctx, StatusUnavailable, "set", key, err)
	}
	return s.ok("set", key)
}

// Remove deletes key.
func (s *Store) Remove(ctx context.Context, key string) Result {
	if err := s.backend.Remove(ctx, s.Key(key)); err != nil {
		return s.fail(ctx, StatusUnavailable, "remove", key, err)
	}
	return s.ok("remove", key)
}

// valueSizer is implemented by backends that can measure a value in place.
type valueSizer interface {
	ValueSize(ctx context.Context, key string) (int, bool, error)
}

// Size returns len(key)+len(value) of a stored blob, or 0 when missing.
func (s *Store) Size(ctx context.Context, key string) (int, Result) {
	n, found, err := s.valueSize(ctx, s.Key(key))
	if err != nil {
		return 0, s.fail(ctx, StatusUnavailable, "get", key, err)
	}
	if !found {
		return 0, OK
	}
	return len(s.Key(key)) + n, OK
}

func (s *Store) valueSize(ctx context.Context, key string) (int, bool, error) {
	if sizer, ok := s.backend.(valueSizer); ok {
		return sizer.ValueSize(ctx, key)
	}
	raw, found, err := s.backend.Get(ctx, key)
	return len(raw), found, err
}

func (s *Store) ok(op, key string) Result {
	if s.metrics {
		metrics.RecordStorageOperation(key, op, string(StatusOK))
	}
	return OK
}

func (s *Store) fail(ctx context.Context, status Status, op, key string, err error) Result {
	if s.metrics {
		metrics.RecordStorageOperation(key, op, string(status))
	}
	logging.WithTrace(ctx, s.logger).WithError(err).WithFields(map[string]any{
		"key":       key,
		"operation": op,
		"status":    status,
	}).Warn("Storage operation failed")
	return Failed(status, op, key, err)
}
