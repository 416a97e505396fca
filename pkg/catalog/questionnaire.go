package catalog

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectolinq"

	"github.com/Ramsey-B/willow/pkg/models"
	"github.com/Ramsey-B/willow/pkg/utils"
)

// Questionnaire is the ordered, read-only list of questions.
type Questionnaire struct {
	questions []models.Question
	byID      map[string]int
}

// NewQuestionnaire validates questions and indexes them by id.
func NewQuestionnaire(questions []models.Question) (*Questionnaire, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("invalid questionnaire: no questions")
	}

	var problems []string
	byID := make(map[string]int, len(questions))
	for i, q := range questions {
		if _, err := utils.Validate(q); err != nil {
			problems = append(problems, fmt.Sprintf("question %q:%s", q.ID, err.Error()))
		}
		if _, dup := byID[q.ID]; dup {
			problems = append(problems, fmt.Sprintf("question %q is duplicated", q.ID))
		}
		byID[q.ID] = i

		values := make(map[string]bool, len(q.Options))
		for _, opt := range q.Options {
			if values[opt.Identity()] {
				problems = append(problems, fmt.Sprintf("question %q repeats option value %q", q.ID, opt.Key()))
			}
			values[opt.Identity()] = true
		}
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("invalid questionnaire:\n%s", strings.Join(problems, "\n"))
	}

	return &Questionnaire{questions: questions, byID: byID}, nil
}

// All returns the questions in order.
func (q *Questionnaire) All() []models.Question {
	return q.questions
}

// Len returns the number of questions.
func (q *Questionnaire) Len() int {
	return len(q.questions)
}

// Question returns a question by id or a 404 error.
func (q *Questionnaire) Question(id string) (*models.Question, error) {
	i, ok := q.byID[id]
	if !ok {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "question %s not found", id)
	}
	return &q.questions[i], nil
}

// Answer records value for a question, copying the selected option's tags.
// A value matching no option yields an answer without tags.
func (q *Questionnaire) Answer(questionID string, value any) (models.QuestionnaireAnswer, error) {
	question, err := q.Question(questionID)
	if err != nil {
		return models.QuestionnaireAnswer{}, err
	}

	answer := models.QuestionnaireAnswer{
		QuestionID: questionID,
		Answer:     value,
		Tags:       []string{},
	}
	if opt, ok := question.Option(value); ok {
		answer.Tags = append(answer.Tags, opt.Tags...)
	}
	return answer, nil
}

// BuildAnswers turns a question id to value map into answers in questionnaire order.
// Unanswered questions are left out.
func (q *Questionnaire) BuildAnswers(values map[string]any) ([]models.QuestionnaireAnswer, error) {
	for id := range values {
		if _, ok := q.byID[id]; !ok {
			return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "question %s not found", id)
		}
	}

	answers := make([]models.QuestionnaireAnswer, 0, len(values))
	for _, question := range q.questions {
		value, ok := values[question.ID]
		if !ok {
			continue
		}
		answer, err := q.Answer(question.ID, value)
		if err != nil {
			return nil, err
		}
		answers = append(answers, answer)
	}
	return answers, nil
}

// Missing returns the ids of questions without an answer that matches one of their options.
func (q *Questionnaire) Missing(answers []models.QuestionnaireAnswer) []string {
	answered := make(map[string]bool, len(answers))
	for _, a := range answers {
		question, err := q.Question(a.QuestionID)
		if err != nil {
			continue
		}
		if _, ok := question.Option(a.Answer); ok {
			answered[a.QuestionID] = true
		}
	}

	missing := ectolinq.Filter(q.questions, func(question models.Question) bool {
		return !answered[question.ID]
	})
	return ectolinq.Map(missing, func(question models.Question) string {
		return question.ID
	})
}

// IsComplete reports whether every question has a valid answer.
func (q *Questionnaire) IsComplete(answers []models.QuestionnaireAnswer) bool {
	return len(q.Missing(answers)) == 0
}
