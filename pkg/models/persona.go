package models

// FiveElementProfile is a persona's elemental signature.
type FiveElementProfile struct {
	Primary    Element   `json:"primary" yaml:"primary" validate:"required,oneof=Wood Fire Earth Metal Water"`
	Supporting []Element `json:"supporting" yaml:"supporting" validate:"max=4,dive,oneof=Wood Fire Earth Metal Water"`
}

// PersonaEvaluation is the narrative evaluation block shown with a result.
type PersonaEvaluation struct {
	Strengths  string `json:"strengths" yaml:"strengths"`
	Weaknesses string `json:"weaknesses" yaml:"weaknesses"`
	Romance    string `json:"romance" yaml:"romance"`
	Wealth     string `json:"wealth" yaml:"wealth"`
	Advice     string `json:"advice" yaml:"advice"`
}

// Persona is an immutable catalog record.
type Persona struct {
	ID         string `json:"id" yaml:"id" validate:"required"`
	Title      string `json:"title" yaml:"title" validate:"required"`
	TitleZh    string `json:"titleZh,omitempty" yaml:"titleZh,omitempty"`
	Era        string `json:"era" yaml:"era" validate:"required"`
	EraZh      string `json:"eraZh,omitempty" yaml:"eraZh,omitempty"`
	Region     string `json:"region" yaml:"region" validate:"required"`
	RegionZh   string `json:"regionZh,omitempty" yaml:"regionZh,omitempty"`
	Culture    string `json:"culture" yaml:"culture" validate:"required"`
	CultureZh  string `json:"cultureZh,omitempty" yaml:"cultureZh,omitempty"`
	Role       string `json:"role" yaml:"role" validate:"required"`
	RoleZh     string `json:"roleZh,omitempty" yaml:"roleZh,omitempty"`

	MBTIAffinity       []MBTIType         `json:"mbtiAffinity" yaml:"mbtiAffinity" validate:"required,min=1,dive,len=4"`
	FiveElementProfile FiveElementProfile `json:"fiveElementProfile" yaml:"fiveElementProfile"`
	Traits             []string           `json:"traits" yaml:"traits" validate:"required,min=1"`
	TraitsZh           []string           `json:"traitsZh,omitempty" yaml:"traitsZh,omitempty"`

	StoryTemplate   string             `json:"storyTemplate" yaml:"storyTemplate"`
	StoryTemplateZh string             `json:"storyTemplateZh,omitempty" yaml:"storyTemplateZh,omitempty"`
	Evaluation      PersonaEvaluation  `json:"evaluation" yaml:"evaluation"`
	EvaluationZh    *PersonaEvaluation `json:"evaluationZh,omitempty" yaml:"evaluationZh,omitempty"`
	VisualCue       string             `json:"visualCue" yaml:"visualCue"`
	VisualCueZh     string             `json:"visualCueZh,omitempty" yaml:"visualCueZh,omitempty"`
	BalanceNote     string             `json:"balanceNote" yaml:"balanceNote"`
	BalanceNoteZh   string             `json:"balanceNoteZh,omitempty" yaml:"balanceNoteZh,omitempty"`

	// Rarity runs from 1 (common) to 5 (rarest).
	Rarity  int      `json:"rarity" yaml:"rarity" validate:"min=1,max=5"`
	Hooks   []string `json:"hooks" yaml:"hooks"`
	HooksZh []string `json:"hooksZh,omitempty" yaml:"hooksZh,omitempty"`
}

// LocaleZh selects the Chinese variants of localized fields.
const LocaleZh = "zh"

func localized(locale, en, zh string) string {
	if locale == LocaleZh && zh != "" {
		return zh
	}
	return en
}

func (p *Persona) LocalizedTitle(locale string) string   { return localized(locale, p.Title, p.TitleZh) }
func (p *Persona) LocalizedEra(locale string) string     { return localized(locale, p.Era, p.EraZh) }
func (p *Persona) LocalizedRegion(locale string) string  { return localized(locale, p.Region, p.RegionZh) }
func (p *Persona) LocalizedCulture(locale string) string { return localized(locale, p.Culture, p.CultureZh) }
func (p *Persona) LocalizedRole(locale string) string    { return localized(locale, p.Role, p.RoleZh) }
func (p *Persona) LocalizedStory(locale string) string {
	return localized(locale, p.StoryTemplate, p.StoryTemplateZh)
}
func (p *Persona) LocalizedVisualCue(locale string) string {
	return localized(locale, p.VisualCue, p.VisualCueZh)
}
func (p *Persona) LocalizedBalanceNote(locale string) string {
	return localized(locale, p.BalanceNote, p.BalanceNoteZh)
}

// LocalizedEvaluation falls back to the default evaluation when no variant exists.
func (p *Persona) LocalizedEvaluation(locale string) PersonaEvaluation {
	if locale == LocaleZh && p.EvaluationZh != nil {
		return *p.EvaluationZh
	}
	return p.Evaluation
}

// LocalizedTraits falls back to the default traits when no variant exists.
func (p *Persona) LocalizedTraits(locale string) []string {
	if locale == LocaleZh && len(p.TraitsZh) > 0 {
		return p.TraitsZh
	}
	return p.Traits
}

// LocalizedHooks falls back to the default hooks when no variant exists.
func (p *Persona) LocalizedHooks(locale string) []string {
	if locale == LocaleZh && len(p.HooksZh) > 0 {
		return p.HooksZh
	}
	return p.Hooks
}

// Clone returns a deep copy so results never alias catalog slices.
func (p *Persona) Clone() *Persona {
	if p == nil {
		return nil
	}
	c := *p
	c.MBTIAffinity = append([]MBTIType(nil), p.MBTIAffinity...)
	c.FiveElementProfile.Supporting = append([]Element(nil), p.FiveElementProfile.Supporting...)
	c.Traits = append([]string(nil), p.Traits...)
	c.TraitsZh = append([]string(nil), p.TraitsZh...)
	c.Hooks = append([]string(nil), p.Hooks...)
	c.HooksZh = append([]string(nil), p.HooksZh...)
	if p.EvaluationZh != nil {
		ev := *p.EvaluationZh
		c.EvaluationZh = &ev
	}
	return &c
}
