package element

import "github.com/Ramsey-B/willow/pkg/models"

var (
	generates = map[models.Element]models.Element{
		models.ElementWood:  models.ElementFire,
		models.ElementFire:  models.ElementEarth,
		models.ElementEarth: models.ElementMetal,
		models.ElementMetal: models.ElementWater,
		models.ElementWater: models.ElementWood,
	}
	controls = map[models.Element]models.Element{
		models.ElementWood:  models.ElementEarth,
		models.ElementEarth: models.ElementWater,
		models.ElementWater: models.ElementFire,
		models.ElementFire:  models.ElementMetal,
		models.ElementMetal: models.ElementWood,
	}
)

// Generates reports whether a feeds b in the generation cycle.
func Generates(a, b models.Element) bool {
	return generates[a] == b
}

// Controls reports whether a restrains b in the control cycle.
func Controls(a, b models.Element) bool {
	return controls[a] == b
}

// Compatibility returns a 0-100 affinity between two elements.
func Compatibility(a, b models.Element) int {
	switch {
	case a == b:
		return 100
	case Generates(a, b):
		return 85
	case Generates(b, a):
		return 75
	case Controls(a, b):
		return 40
	case Controls(b, a):
		return 35
	default:
		return 50
	}
}
