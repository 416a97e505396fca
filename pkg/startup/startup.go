package startup

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gobusters/ectologger"
)

type Dependency interface {
	GetName() string
	DependsOn() []string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

type Status int

const (
	StatusPending Status = iota
	StatusStarted
	StatusStopped
	StatusFailed
)

// Startup starts dependencies in dependency order and stops them in reverse.
type Startup struct {
	dependencies map[string]Dependency
	order        []string
	started      []string
	statuses     map[string]Status
	logger       ectologger.Logger
}

func NewStartup(logger ectologger.Logger) *Startup {
	return &Startup{
		logger:       logger,
		dependencies: make(map[string]Dependency),
		statuses:     make(map[string]Status),
	}
}

func (s *Startup) AddDependency(dependency Dependency) {
	name := dependency.GetName()
	if _, ok := s.dependencies[name]; !ok {
		s.order = append(s.order, name)
	}
	s.dependencies[name] = dependency
}

func (s *Startup) Status(name string) Status {
	return s.statuses[name]
}

// Start brings up every dependency once. On failure the dependencies already
// started are stopped and the error is returned.
func (s *Startup) Start(ctx context.Context) error {
	for _, name := range s.order {
		if err := s.startDependency(ctx, name, nil); err != nil {
			s.logger.WithError(err).Errorf("Startup dependency '%s' failed", name)
			if stopErr := s.Stop(ctx); stopErr != nil {
				return errors.Join(err, stopErr)
			}
			return err
		}
	}
	return nil
}

func (s *Startup) startDependency(ctx context.Context, name string, path []string) error {
	dependency, ok := s.dependencies[name]
	if !ok {
		return fmt.Errorf("unknown startup dependency '%s'", name)
	}
	if s.statuses[name] == StatusStarted {
		return nil
	}
	for _, p := range path {
		if p == name {
			return fmt.Errorf("startup dependency cycle at '%s'", name)
		}
	}

	for _, dependencyName := range dependency.DependsOn() {
		if err := s.startDependency(ctx, dependencyName, append(path, name)); err != nil {
			return err
		}
	}

	s.logger.WithField("dependency", name).Debugf("Starting dependency '%s'", name)
	s.statuses[name] = StatusPending
	if err := dependency.Start(ctx); err != nil {
		s.statuses[name] = StatusFailed
		return fmt.Errorf("failed to start %s: %w", name, err)
	}
	s.statuses[name] = StatusStarted
	s.started = append(s.started, name)
	return nil
}

// Stop stops started dependencies in reverse start order. Every dependency is
// given a chance to stop; the errors are joined.
func (s *Startup) Stop(ctx context.Context) error {
	var errs []error
	for i := len(s.started) - 1; i >= 0; i-- {
		name := s.started[i]
		s.logger.WithField("dependency", name).Debugf("Stopping dependency '%s'", name)
		if err := s.dependencies[name].Stop(ctx); err != nil {
			s.logger.WithError(err).WithField("dependency", name).Errorf("Failed to stop dependency '%s'", name)
			errs = append(errs, fmt.Errorf("failed to stop %s: %w", name, err))
			continue
		}
		s.statuses[name] = StatusStopped
	}
	s.started = nil
	return errors.Join(errs...)
}
