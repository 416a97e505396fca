package catalog

import (
	"net/http"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/willow/pkg/models"
)

type fixedRandom int

func (f fixedRandom) IntN(n int) int {
	return min(int(f), n-1)
}

func TestLoad_BundledCatalog(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.GreaterOrEqual(t, c.Len(), 4)
	assert.Equal(t, 8, c.Questions().Len())

	for _, p := range c.All() {
		assert.NotEmpty(t, p.Hooks, p.ID)
		assert.NotContains(t, p.FiveElementProfile.Supporting, p.FiveElementProfile.Primary, p.ID)
	}
}

func TestCatalog_PersonaByID(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	p, err := c.PersonaByID("tang-court-strategist")
	require.NoError(t, err)
	assert.Equal(t, "Strategist", p.Role)
	assert.Equal(t, "谋士", p.LocalizedRole(models.LocaleZh))

	_, err = c.PersonaByID("nobody")
	assert.True(t, httperror.IsHTTPError(err), "expected HTTP error, got: %v", err)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
}

func TestCatalog_RandomPersona(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, c.All()[0], c.RandomPersona(fixedRandom(0)))
	assert.Equal(t, c.All()[c.Len()-1], c.RandomPersona(fixedRandom(1000)))
}

func validPersona(id string) *models.Persona {
	return &models.Persona{
		ID:           id,
		Title:        "Title",
		Era:          "Era",
		Region:       "Region",
		Culture:      "Culture",
		Role:         "Role",
		MBTIAffinity: []models.MBTIType{models.MBTIINTJ},
		FiveElementProfile: models.FiveElementProfile{
			Primary:    models.ElementFire,
			Supporting: []models.Element{models.ElementWood},
		},
		Traits: []string{"Bold"},
		Rarity: 1,
	}
}

func validQuestions() []models.Question {
	return []models.Question{{
		ID:   "q1",
		Text: "Question",
		Type: models.QuestionTypeSingle,
		Options: []models.QuestionOption{
			{Value: "a", Label: "A", Tags: []string{"Fire"}},
			{Value: "b", Label: "B", Tags: []string{"Water"}},
		},
	}}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name     string
		personas func() []*models.Persona
		wantErr  string
	}{
		{
			name:     "valid",
			personas: func() []*models.Persona { return []*models.Persona{validPersona("a"), validPersona("b")} },
		},
		{
			name:     "empty catalog",
			personas: func() []*models.Persona { return nil },
			wantErr:  "no personas",
		},
		{
			name:     "duplicate id",
			personas: func() []*models.Persona { return []*models.Persona{validPersona("a"), validPersona("a")} },
			wantErr:  "duplicated",
		},
		{
			name: "primary repeated in supporting",
			personas: func() []*models.Persona {
				p := validPersona("a")
				p.FiveElementProfile.Supporting = []models.Element{models.ElementFire}
				return []*models.Persona{p}
			},
			wantErr: "as supporting",
		},
		{
			name: "unknown mbti",
			personas: func() []*models.Persona {
				p := validPersona("a")
				p.MBTIAffinity = []models.MBTIType{"ABCD"}
				return []*models.Persona{p}
			},
			wantErr: "unknown MBTI affinity",
		},
		{
			name: "rarity out of range",
			personas: func() []*models.Persona {
				p := validPersona("a")
				p.Rarity = 6
				return []*models.Persona{p}
			},
			wantErr: "Rarity",
		},
		{
			name: "empty affinity",
			personas: func() []*models.Persona {
				p := validPersona("a")
				p.MBTIAffinity = nil
				return []*models.Persona{p}
			},
			wantErr: "MBTIAffinity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.personas(), validQuestions())
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestParse(t *testing.T) {
	personas := []byte(`
- id: solo
  title: Solo
  era: Now
  region: Here
  culture: Modern
  role: Tester
  mbtiAffinity: [ENFP]
  fiveElementProfile:
    primary: Water
    supporting: [Metal]
  traits: [Curious]
  rarity: 2
  hooks: [hello]
`)
	questions := []byte(`
- id: q1
  text: Pick
  type: slider
  options:
    - value: 1
      label: One
      tags: [Water]
`)

	c, err := Parse(personas, questions)
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())
	assert.Equal(t, models.ElementWater, c.All()[0].FiveElementProfile.Primary)

	_, err = Parse([]byte("- id: [unclosed"), questions)
	assert.Error(t, err)
}
