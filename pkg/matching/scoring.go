package matching

import (
	"strings"

	"github.com/Gobusters/ectolinq"

	"github.com/Ramsey-B/willow/pkg/models"
)

// NeutralScore is returned when there is no signal for a sub-score.
const NeutralScore = 0.5

// partialMBTICeiling caps the letter-overlap fallback.
const partialMBTICeiling = 0.7

// mbtiCompatibility scores a user type against a persona's leading affinity.
var mbtiCompatibility = map[models.MBTIType]map[models.MBTIType]float64{
	// Analysts
	models.MBTIINTJ: {models.MBTIINTJ: 1.0, models.MBTIINTP: 0.9, models.MBTIENTJ: 0.85, models.MBTIENTP: 0.8, models.MBTIINFJ: 0.75, models.MBTIENFJ: 0.7},
	models.MBTIINTP: {models.MBTIINTP: 1.0, models.MBTIINTJ: 0.9, models.MBTIENTP: 0.85, models.MBTIENTJ: 0.8, models.MBTIINFP: 0.75, models.MBTIENFP: 0.7},
	models.MBTIENTJ: {models.MBTIENTJ: 1.0, models.MBTIINTJ: 0.85, models.MBTIENTP: 0.8, models.MBTIINTP: 0.8, models.MBTIENFJ: 0.75, models.MBTIINFJ: 0.7},
	models.MBTIENTP: {models.MBTIENTP: 1.0, models.MBTIINTP: 0.85, models.MBTIENTJ: 0.8, models.MBTIINTJ: 0.8, models.MBTIENFP: 0.75, models.MBTIINFP: 0.7},
	// Diplomats
	models.MBTIINFJ: {models.MBTIINFJ: 1.0, models.MBTIENFJ: 0.9, models.MBTIINFP: 0.85, models.MBTIENFP: 0.8, models.MBTIINTJ: 0.75, models.MBTIENTJ: 0.7},
	models.MBTIINFP: {models.MBTIINFP: 1.0, models.MBTIENFP: 0.9, models.MBTIINFJ: 0.85, models.MBTIENFJ: 0.8, models.MBTIINTP: 0.75, models.MBTIENTP: 0.7},
	models.MBTIENFJ: {models.MBTIENFJ: 1.0, models.MBTIINFJ: 0.9, models.MBTIENFP: 0.85, models.MBTIINFP: 0.8, models.MBTIENTJ: 0.75, models.MBTIINTJ: 0.7},
	models.MBTIENFP: {models.MBTIENFP: 1.0, models.MBTIINFP: 0.9, models.MBTIENFJ: 0.85, models.MBTIINFJ: 0.8, models.MBTIENTP: 0.75, models.MBTIINTP: 0.7},
	// Sentinels
	models.MBTIISTJ: {models.MBTIISTJ: 1.0, models.MBTIESTJ: 0.9, models.MBTIISFJ: 0.85, models.MBTIESFJ: 0.8, models.MBTIINTJ: 0.7, models.MBTIENTJ: 0.65},
	models.MBTIISFJ: {models.MBTIISFJ: 1.0, models.MBTIESFJ: 0.9, models.MBTIISTJ: 0.85, models.MBTIESTJ: 0.8, models.MBTIINFJ: 0.7, models.MBTIENFJ: 0.65},
	models.MBTIESTJ: {models.MBTIESTJ: 1.0, models.MBTIISTJ: 0.9, models.MBTIESFJ: 0.85, models.MBTIISFJ: 0.8, models.MBTIENTJ: 0.75, models.MBTIINTJ: 0.7},
	models.MBTIESFJ: {models.MBTIESFJ: 1.0, models.MBTIISFJ: 0.9, models.MBTIESTJ: 0.85, models.MBTIISTJ: 0.8, models.MBTIENFJ: 0.75, models.MBTIINFJ: 0.7},
	// Explorers
	models.MBTIISTP: {models.MBTIISTP: 1.0, models.MBTIESTP: 0.9, models.MBTIISFP: 0.85, models.MBTIESFP: 0.8, models.MBTIINTP: 0.75, models.MBTIENTP: 0.7},
	models.MBTIISFP: {models.MBTIISFP: 1.0, models.MBTIESFP: 0.9, models.MBTIISTP: 0.85, models.MBTIESTP: 0.8, models.MBTIINFP: 0.75, models.MBTIENFP: 0.7},
	models.MBTIESTP: {models.MBTIESTP: 1.0, models.MBTIISTP: 0.9, models.MBTIESFP: 0.85, models.MBTIISFP: 0.8, models.MBTIENTP: 0.75, models.MBTIINTP: 0.7},
	models.MBTIESFP: {models.MBTIESFP: 1.0, models.MBTIISFP: 0.9, models.MBTIESTP: 0.85, models.MBTIISTP: 0.8, models.MBTIENFP: 0.75, models.MBTIINFP: 0.7},
}

// Scorer computes the three per-persona sub-scores. Every score is in [0, 1].
type Scorer struct{}

// NewScorer creates a new Scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// MBTICompatibility returns the table entry for (user, persona), if any.
func MBTICompatibility(user, persona models.MBTIType) (float64, bool) {
	score, ok := mbtiCompatibility[user][persona]
	return score, ok
}

// MBTI scores a user type against the persona's affinity list.
// A nil type is neutral.
func (s *Scorer) MBTI(user *models.MBTIType, persona *models.Persona) float64 {
	if user == nil {
		return NeutralScore
	}
	if ectolinq.Contains(persona.MBTIAffinity, *user) {
		return 1.0
	}
	if len(persona.MBTIAffinity) == 0 {
		return 0
	}

	lead := persona.MBTIAffinity[0]
	if score, ok := MBTICompatibility(*user, lead); ok {
		return score
	}

	return float64(sharedLetterPositions(*user, lead)) / 4 * partialMBTICeiling
}

// sharedLetterPositions counts the positions at which two type codes agree.
func sharedLetterPositions(a, b models.MBTIType) int {
	shared := 0
	for i := 0; i < len(a) && i < len(b) && i < 4; i++ {
		if a[i] == b[i] {
			shared++
		}
	}
	return shared
}

// Element scores the user's normalized element vector against the persona profile.
// The primary element carries double weight.
func (s *Scorer) Element(scores models.FiveElementScores, persona *models.Persona) float64 {
	profile := persona.FiveElementProfile

	score := scores.Get(profile.Primary) * 2
	for _, e := range profile.Supporting {
		score += scores.Get(e)
	}

	return score / float64(2+len(profile.Supporting))
}

// Behavior scores behavioral tags against the persona traits and role.
// Each tag earns 1 for a trait hit and 0.5 for a role hit; no tags is neutral.
func (s *Scorer) Behavior(tags []string, persona *models.Persona) float64 {
	if len(tags) == 0 {
		return NeutralScore
	}

	role := strings.ToLower(persona.Role)
	points := 0.0
	for _, tag := range tags {
		tagLower := strings.ToLower(tag)
		if matchesAnyTrait(tagLower, persona.Traits) {
			points += 1
		}
		if strings.Contains(role, tagLower) || strings.Contains(tagLower, role) {
			points += 0.5
		}
	}

	return min(points/float64(len(tags)), 1.0)
}

func matchesAnyTrait(tagLower string, traits []string) bool {
	for _, trait := range traits {
		traitLower := strings.ToLower(trait)
		if strings.Contains(traitLower, tagLower) || strings.Contains(tagLower, traitLower) {
			return true
		}
	}
	return false
}

// BehavioralTags returns every answer tag that is not an element name, in order.
func BehavioralTags(form models.FormData) []string {
	return ectolinq.Filter(form.AllTags(), func(tag string) bool {
		return !models.IsElement(tag)
	})
}

// sharedTraitTags returns up to limit tags contained in one of the persona traits.
func sharedTraitTags(tags []string, persona *models.Persona, limit int) []string {
	shared := ectolinq.Filter(tags, func(tag string) bool {
		tagLower := strings.ToLower(tag)
		return ectolinq.Any(persona.Traits, func(trait string) bool {
			return strings.Contains(strings.ToLower(trait), tagLower)
		})
	})
	if len(shared) > limit {
		shared = shared[:limit]
	}
	return shared
}
