package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Gobusters/ectolinq"
	"github.com/spf13/cobra"

	"github.com/Ramsey-B/willow/pkg/catalog"
	"github.com/Ramsey-B/willow/pkg/models"
	"github.com/Ramsey-B/willow/pkg/utils"
)

// formFlags collects wizard input from the command line.
type formFlags struct {
	mbti      string
	birthDate string
	birthTime string
	location  string
	answers   []string
}

func (f *formFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.mbti, "mbti", "", "MBTI type, e.g. INTJ")
	cmd.Flags().StringVar(&f.birthDate, "birth", "", "Birth date as YYYY-MM-DD")
	cmd.Flags().StringVar(&f.birthTime, "birth-time", "", "Birth time as HH:mm")
	cmd.Flags().StringVar(&f.location, "birth-place", "", "Birth place, display only")
	cmd.Flags().StringArrayVarP(&f.answers, "answer", "a", nil, "Questionnaire answer as question_id=value; repeatable")
}

// form builds FormData, copying option tags from the questionnaire.
func (f *formFlags) form(questions *catalog.Questionnaire) (models.FormData, error) {
	var form models.FormData

	if f.mbti != "" {
		mbti, ok := models.ParseMBTI(f.mbti)
		if !ok {
			return form, fmt.Errorf("unknown MBTI type %q", f.mbti)
		}
		form.MBTI = &mbti
	}

	if f.birthDate != "" {
		info := &models.BirthInfo{
			Date:     f.birthDate,
			Time:     f.birthTime,
			HasTime:  f.birthTime != "",
			Location: f.location,
		}
		if _, err := info.ParsedDate(); err != nil {
			return form, err
		}
		form.BirthInfo = info
	} else if f.birthTime != "" {
		return form, fmt.Errorf("--birth-time requires --birth")
	}
	if f.birthTime != "" {
		if err := utils.ValidateValue(f.birthTime, "datetime=15:04"); err != nil {
			return form, fmt.Errorf("invalid birth time %q, expected HH:mm: %w", f.birthTime, err)
		}
	}

	values := make(map[string]any, len(f.answers))
	for _, raw := range f.answers {
		id, value, ok := strings.Cut(raw, "=")
		if !ok || id == "" || value == "" {
			return form, fmt.Errorf("invalid answer %q, expected question_id=value", raw)
		}
		question, err := questions.Question(id)
		if err != nil {
			return form, err
		}
		v := answerValue(question, value)
		if _, ok := question.Option(v); !ok {
			return form, fmt.Errorf("invalid answer %q for %s, expected one of %s", value, id, optionKeys(question))
		}
		values[id] = v
	}

	answers, err := questions.BuildAnswers(values)
	if err != nil {
		return form, err
	}
	form.QuestionnaireAnswers = answers
	return form, nil
}

// answerValue keeps slider answers numeric.
func answerValue(question *models.Question, raw string) any {
	if question.Type == models.QuestionTypeSlider {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	return raw
}

func optionKeys(question *models.Question) string {
	return strings.Join(ectolinq.Map(question.Options, func(o models.QuestionOption) string { return o.Key() }), ", ")
}
