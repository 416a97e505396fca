package startup

import (
	"context"
	"errors"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []string
}

type fakeDependency struct {
	name      string
	dependsOn []string
	startErr  error
	stopErr   error
	rec       *recorder
}

func (f *fakeDependency) GetName() string     { return f.name }
func (f *fakeDependency) DependsOn() []string { return f.dependsOn }

func (f *fakeDependency) Start(context.Context) error {
	f.rec.events = append(f.rec.events, "start:"+f.name)
	return f.startErr
}

func (f *fakeDependency) Stop(context.Context) error {
	f.rec.events = append(f.rec.events, "stop:"+f.name)
	return f.stopErr
}

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestStartup_StartsInDependencyOrder(t *testing.T) {
	rec := &recorder{}
	s := NewStartup(testLogger())
	s.AddDependency(&fakeDependency{name: "service", dependsOn: []string{"storage", "tracing"}, rec: rec})
	s.AddDependency(&fakeDependency{name: "storage", dependsOn: []string{"tracing"}, rec: rec})
	s.AddDependency(&fakeDependency{name: "tracing", rec: rec})

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, []string{"start:tracing", "start:storage", "start:service"}, rec.events)
	assert.Equal(t, StatusStarted, s.Status("service"))

	rec.events = nil
	require.NoError(t, s.Stop(context.Background()))
	assert.Equal(t, []string{"stop:service", "stop:storage", "stop:tracing"}, rec.events)
	assert.Equal(t, StatusStopped, s.Status("tracing"))
}

func TestStartup_FailureStopsStarted(t *testing.T) {
	rec := &recorder{}
	boom := errors.New("boom")
	s := NewStartup(testLogger())
	s.AddDependency(&fakeDependency{name: "tracing", rec: rec})
	s.AddDependency(&fakeDependency{name: "storage", dependsOn: []string{"tracing"}, startErr: boom, rec: rec})
	s.AddDependency(&fakeDependency{name: "service", dependsOn: []string{"storage"}, rec: rec})

	err := s.Start(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"start:tracing", "start:storage", "stop:tracing"}, rec.events)
	assert.Equal(t, StatusFailed, s.Status("storage"))
	assert.Equal(t, StatusPending, s.Status("service"))
}

func TestStartup_StopJoinsErrors(t *testing.T) {
	rec := &recorder{}
	boom := errors.New("boom")
	s := NewStartup(testLogger())
	s.AddDependency(&fakeDependency{name: "a", stopErr: boom, rec: rec})
	s.AddDependency(&fakeDependency{name: "b", rec: rec})

	require.NoError(t, s.Start(context.Background()))
	err := s.Stop(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"start:a", "start:b", "stop:b", "stop:a"}, rec.events)
}

func TestStartup_UnknownAndCyclicDependencies(t *testing.T) {
	tests := []struct {
		name string
		deps []*fakeDependency
		want string
	}{
		{
			name: "unknown",
			deps: []*fakeDependency{{name: "a", dependsOn: []string{"missing"}}},
			want: "unknown startup dependency 'missing'",
		},
		{
			name: "cycle",
			deps: []*fakeDependency{
				{name: "a", dependsOn: []string{"b"}},
				{name: "b", dependsOn: []string{"a"}},
			},
			want: "startup dependency cycle at 'a'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			s := NewStartup(testLogger())
			for _, d := range tt.deps {
				d.rec = rec
				s.AddDependency(d)
			}

			err := s.Start(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Empty(t, rec.events)
		})
	}
}
