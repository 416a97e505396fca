// Package profile turns form data into a normalized Five-Element score vector.
package profile

import (
	"github.com/Ramsey-B/willow/pkg/element"
	"github.com/Ramsey-B/willow/pkg/models"
)

// BirthElementWeight is the counter weight of the resolved birth element.
// A single questionnaire tag hit weighs 1.
const BirthElementWeight = 3.0

// Counts returns the raw element counters before normalization.
// A birth date that fails to parse contributes nothing.
func Counts(form models.FormData) models.FiveElementScores {
	var scores models.FiveElementScores

	for _, answer := range form.QuestionnaireAnswers {
		for _, tag := range answer.Tags {
			if models.IsElement(tag) {
				scores.Add(models.Element(tag), 1)
			}
		}
	}

	if form.BirthInfo != nil && form.BirthInfo.Date != "" {
		if birthElement, err := element.ResolveBirthInfo(form.BirthInfo); err == nil {
			scores.Add(birthElement, BirthElementWeight)
		}
	}

	return scores
}

// Build returns the normalized element scores for form. The result sums to 1,
// or is all zero when no signal was found.
func Build(form models.FormData) models.FiveElementScores {
	return Counts(form).Normalized()
}
