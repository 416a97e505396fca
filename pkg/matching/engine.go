// Package matching scores catalog personas against a completed questionnaire.
package matching

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/Gobusters/ectolinq"
	"github.com/Gobusters/ectologger"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Ramsey-B/willow/pkg/logging"
	"github.com/Ramsey-B/willow/pkg/metrics"
	"github.com/Ramsey-B/willow/pkg/models"
	"github.com/Ramsey-B/willow/pkg/profile"
	"github.com/Ramsey-B/willow/pkg/tracing"
)

// ErrNoPersonas is returned when the persona source is empty.
var ErrNoPersonas = errors.New("persona catalog is empty")

// PersonaSource provides the personas to match against.
type PersonaSource interface {
	All() []*models.Persona
}

// Personas is a fixed PersonaSource.
type Personas []*models.Persona

// All returns the personas in order.
func (p Personas) All() []*models.Persona {
	return p
}

// RandomSource picks an index in [0, n).
type RandomSource interface {
	IntN(n int) int
}

type globalRandom struct{}

func (globalRandom) IntN(n int) int { return rand.IntN(n) }

// EngineConfig contains configuration for the match engine
type EngineConfig struct {
	MBTIWeight     float64 // Weight of the MBTI sub-score (default: 0.35)
	ElementWeight  float64 // Weight of the element sub-score (default: 0.40)
	BehaviorWeight float64 // Weight of the behavior sub-score (default: 0.25)
	RarityDivisor  float64 // final = raw * (1 - rarity/RarityDivisor) (default: 100)
	TopCandidates  int     // Candidates kept after ranking (default: 5)
	RandomPool     int     // Leading candidates eligible for selection (default: 3)
}

// DefaultConfig returns default engine configuration
func DefaultConfig() EngineConfig {
	return EngineConfig{
		MBTIWeight:     0.35,
		ElementWeight:  0.40,
		BehaviorWeight: 0.25,
		RarityDivisor:  100,
		TopCandidates:  5,
		RandomPool:     3,
	}
}

// Candidate is one scored persona.
type Candidate struct {
	Persona       *models.Persona
	Score         float64 // final score, 0-100, two decimals
	MBTIScore     float64
	ElementScore  float64
	BehaviorScore float64
}

// Percent converts a sub-score to an integer percentage.
func Percent(score float64) int {
	return int(math.Round(score * 100))
}

// Engine implements persona matching logic
type Engine struct {
	logger  ectologger.Logger
	source  PersonaSource
	scorer  *Scorer
	random  RandomSource
	metrics bool
	config  EngineConfig
}

// Option customizes an Engine.
type Option func(*Engine)

// WithRandom sets the random source used by Pick and reasoning hooks.
func WithRandom(r RandomSource) Option {
	return func(e *Engine) {
		e.random = r
	}
}

// WithMetrics toggles prometheus recording of selected personas.
func WithMetrics(enabled bool) Option {
	return func(e *Engine) {
		e.metrics = enabled
	}
}

// NewEngine creates a new match engine
func NewEngine(logger ectologger.Logger, source PersonaSource, config EngineConfig, opts ...Option) *Engine {
	e := &Engine{
		logger: logger,
		source: source,
		scorer: NewScorer(),
		random: globalRandom{},
		config: config,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score scores one persona against the form using precomputed element scores.
func (e *Engine) Score(form models.FormData, scores models.FiveElementScores, persona *models.Persona) Candidate {
	mbtiScore := e.scorer.MBTI(form.MBTI, persona)
	elementScore := e.scorer.Element(scores, persona)
	behaviorScore := e.scorer.Behavior(BehavioralTags(form), persona)

	raw := (mbtiScore*e.config.MBTIWeight +
		elementScore*e.config.ElementWeight +
		behaviorScore*e.config.BehaviorWeight) * 100

	final := raw
	if e.config.RarityDivisor > 0 {
		final = raw * (1 - float64(persona.Rarity)/e.config.RarityDivisor)
	}

	return Candidate{
		Persona:       persona,
		Score:         math.Round(final*100) / 100,
		MBTIScore:     mbtiScore,
		ElementScore:  elementScore,
		BehaviorScore: behaviorScore,
	}
}

// Rank scores every persona and orders them by score, highest first.
// Equal scores keep catalog order, so the result is deterministic.
func (e *Engine) Rank(ctx context.Context, form models.FormData) []Candidate {
	ctx, span := tracing.StartSpan(ctx, "matching.Engine.Rank")
	defer span.End()

	scores := profile.Build(form)
	personas := e.source.All()

	candidates := ectolinq.Map(personas, func(p *models.Persona) Candidate {
		return e.Score(form, scores, p)
	})
	sortCandidatesByScore(candidates)

	logging.WithTrace(ctx, e.logger).WithFields(map[string]any{
		"persona_count": len(candidates),
		"answer_count":  len(form.QuestionnaireAnswers),
	}).Debug("Ranked personas")

	return candidates
}

// sortCandidatesByScore sorts candidates by score descending, preserving ties
func sortCandidatesByScore(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
}

// Pick chooses uniformly among the leading candidates of a ranked list.
func (e *Engine) Pick(ranked []Candidate) (Candidate, bool) {
	if len(ranked) == 0 {
		return Candidate{}, false
	}

	top := ranked
	if e.config.TopCandidates > 0 && len(top) > e.config.TopCandidates {
		top = top[:e.config.TopCandidates]
	}

	pool := len(top)
	if e.config.RandomPool > 0 {
		pool = min(e.config.RandomPool, pool)
	}

	return top[e.random.IntN(pool)], true
}

// Match ranks the catalog, picks a near-best persona and explains the choice.
func (e *Engine) Match(ctx context.Context, form models.FormData) (*models.MatchResult, error) {
	ctx, span := tracing.StartSpan(ctx, "matching.Engine.Match")
	defer span.End()

	log := logging.WithTrace(ctx, e.logger)

	ranked := e.Rank(ctx, form)
	chosen, ok := e.Pick(ranked)
	if !ok {
		log.Error("No personas available to match")
		return nil, ErrNoPersonas
	}

	result := &models.MatchResult{
		Persona:       chosen.Persona.Clone(),
		MatchScore:    chosen.Score,
		MBTIMatch:     Percent(chosen.MBTIScore),
		ElementMatch:  Percent(chosen.ElementScore),
		BehaviorMatch: Percent(chosen.BehaviorScore),
		Reasoning:     e.Reasoning(form, chosen),
	}

	span.SetAttributes(
		attribute.String("persona_id", chosen.Persona.ID),
		attribute.Float64("match_score", chosen.Score),
	)
	if e.metrics {
		metrics.RecordMatch(chosen.Persona.ID, chosen.Score)
	}

	log.WithFields(map[string]any{
		"persona_id":  chosen.Persona.ID,
		"match_score": chosen.Score,
	}).Info("Matched persona")

	return result, nil
}

// Reasoning explains a candidate in two to five sentences.
func (e *Engine) Reasoning(form models.FormData, c Candidate) []string {
	persona := c.Persona
	reasons := make([]string, 0, 5)

	if form.MBTI != nil && c.MBTIScore > 0.8 {
		mbti := *form.MBTI
		if ectolinq.Contains(persona.MBTIAffinity, mbti) {
			reasons = append(reasons, fmt.Sprintf("Your %s personality resonates perfectly with this past life.", mbti))
		} else {
			reasons = append(reasons, fmt.Sprintf("Your %s traits align well with the %s archetype.", mbti, persona.Role))
		}
	}

	if c.ElementScore > 0.7 {
		reasons = append(reasons, fmt.Sprintf("Your %s element energy strongly connects to this identity.", persona.FiveElementProfile.Primary))
	}

	if c.BehaviorScore > 0.6 {
		if shared := sharedTraitTags(BehavioralTags(form), persona, 2); len(shared) > 0 {
			reasons = append(reasons, fmt.Sprintf("Your %s nature reflects this soul's journey.", strings.Join(shared, " and ")))
		}
	}

	reasons = append(reasons, fmt.Sprintf("The %s era shaped a spirit that mirrors your inner world.", persona.Culture))

	if len(persona.Hooks) > 0 {
		reasons = append(reasons, persona.Hooks[e.random.IntN(len(persona.Hooks))])
	}

	return reasons
}
