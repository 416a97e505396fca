// Package catalog holds the read-only persona and questionnaire catalogs.
package catalog

import (
	_ "embed"
	"fmt"
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"gopkg.in/yaml.v3"

	"github.com/Ramsey-B/willow/pkg/models"
	"github.com/Ramsey-B/willow/pkg/utils"
)

//go:embed data/personas.yaml
var personasYAML []byte

//go:embed data/questions.yaml
var questionsYAML []byte

// RandomSource picks an index in [0, n).
type RandomSource interface {
	IntN(n int) int
}

// Catalog is an immutable set of personas plus the questionnaire.
type Catalog struct {
	personas  []*models.Persona
	byID      map[string]*models.Persona
	questions *Questionnaire
}

// Load parses and validates the bundled catalog files.
func Load() (*Catalog, error) {
	return Parse(personasYAML, questionsYAML)
}

// Parse builds a catalog from YAML documents.
func Parse(personasDoc, questionsDoc []byte) (*Catalog, error) {
	var personas []*models.Persona
	if err := yaml.Unmarshal(personasDoc, &personas); err != nil {
		return nil, fmt.Errorf("failed to parse personas: %w", err)
	}

	var questions []models.Question
	if err := yaml.Unmarshal(questionsDoc, &questions); err != nil {
		return nil, fmt.Errorf("failed to parse questions: %w", err)
	}

	return New(personas, questions)
}

// New validates personas and questions and builds a catalog.
func New(personas []*models.Persona, questions []models.Question) (*Catalog, error) {
	if err := validatePersonas(personas); err != nil {
		return nil, err
	}

	questionnaire, err := NewQuestionnaire(questions)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.Persona, len(personas))
	for _, p := range personas {
		byID[p.ID] = p
	}

	return &Catalog{
		personas:  personas,
		byID:      byID,
		questions: questionnaire,
	}, nil
}

// All returns every persona in catalog order. Callers must not modify them.
func (c *Catalog) All() []*models.Persona {
	return c.personas
}

// Len returns the number of personas.
func (c *Catalog) Len() int {
	return len(c.personas)
}

// PersonaByID returns a persona or a 404 error.
func (c *Catalog) PersonaByID(id string) (*models.Persona, error) {
	p, ok := c.byID[id]
	if !ok {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "persona %s not found", id)
	}
	return p, nil
}

// RandomPersona returns a uniformly chosen persona.
func (c *Catalog) RandomPersona(r RandomSource) *models.Persona {
	return c.personas[r.IntN(len(c.personas))]
}

// Questions returns the questionnaire.
func (c *Catalog) Questions() *Questionnaire {
	return c.questions
}

func validatePersonas(personas []*models.Persona) error {
	if len(personas) == 0 {
		return fmt.Errorf("invalid catalog: no personas")
	}

	var problems []string
	seen := make(map[string]bool, len(personas))
	for i, p := range personas {
		if p == nil {
			problems = append(problems, fmt.Sprintf("persona %d is empty", i))
			continue
		}
		if _, err := utils.Validate(p); err != nil {
			problems = append(problems, fmt.Sprintf("persona %q:%s", p.ID, err.Error()))
		}
		if seen[p.ID] {
			problems = append(problems, fmt.Sprintf("persona %q is duplicated", p.ID))
		}
		seen[p.ID] = true

		for _, t := range p.MBTIAffinity {
			if _, ok := models.ParseMBTI(string(t)); !ok {
				problems = append(problems, fmt.Sprintf("persona %q has unknown MBTI affinity %q", p.ID, t))
			}
		}
		for _, e := range p.FiveElementProfile.Supporting {
			if e == p.FiveElementProfile.Primary {
				problems = append(problems, fmt.Sprintf("persona %q lists primary element %s as supporting", p.ID, e))
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid catalog:\n%s", strings.Join(problems, "\n"))
	}
	return nil
}
