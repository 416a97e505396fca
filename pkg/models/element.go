package models

// Element is one of the five elemental categories.
type Element string

const (
	ElementWood  Element = "Wood"
	ElementFire  Element = "Fire"
	ElementEarth Element = "Earth"
	ElementMetal Element = "Metal"
	ElementWater Element = "Water"
)

// Elements lists the five elements in their canonical order.
var Elements = []Element{ElementWood, ElementFire, ElementEarth, ElementMetal, ElementWater}

// IsElement reports whether tag is exactly one of the five element names.
func IsElement(tag string) bool {
	switch Element(tag) {
	case ElementWood, ElementFire, ElementEarth, ElementMetal, ElementWater:
		return true
	}
	return false
}

// FiveElementScores maps each element to a non-negative score.
type FiveElementScores struct {
	Wood  float64 `json:"Wood"`
	Fire  float64 `json:"Fire"`
	Earth float64 `json:"Earth"`
	Metal float64 `json:"Metal"`
	Water float64 `json:"Water"`
}

// Get returns the score for an element. Unknown elements score 0.
func (s FiveElementScores) Get(e Element) float64 {
	switch e {
	case ElementWood:
		return s.Wood
	case ElementFire:
		return s.Fire
	case ElementEarth:
		return s.Earth
	case ElementMetal:
		return s.Metal
	case ElementWater:
		return s.Water
	}
	return 0
}

// Add increments the score of an element by delta.
func (s *FiveElementScores) Add(e Element, delta float64) {
	switch e {
	case ElementWood:
		s.Wood += delta
	case ElementFire:
		s.Fire += delta
	case ElementEarth:
		s.Earth += delta
	case ElementMetal:
		s.Metal += delta
	case ElementWater:
		s.Water += delta
	}
}

// Total returns the sum of all five scores.
func (s FiveElementScores) Total() float64 {
	return s.Wood + s.Fire + s.Earth + s.Metal + s.Water
}

// Normalized returns a copy scaled so the scores sum to 1.
// A zero vector is returned unchanged.
func (s FiveElementScores) Normalized() FiveElementScores {
	total := s.Total()
	if total <= 0 {
		return s
	}
	return FiveElementScores{
		Wood:  s.Wood / total,
		Fire:  s.Fire / total,
		Earth: s.Earth / total,
		Metal: s.Metal / total,
		Water: s.Water / total,
	}
}

// Dominant returns the highest scoring element, or false when all are zero.
// Ties resolve in canonical element order.
func (s FiveElementScores) Dominant() (Element, bool) {
	var best Element
	bestScore := 0.0
	for _, e := range Elements {
		if v := s.Get(e); v > bestScore {
			best, bestScore = e, v
		}
	}
	return best, bestScore > 0
}
