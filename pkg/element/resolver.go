// Package element resolves birth years to Five-Element categories.
package element

import (
	"time"

	"github.com/Ramsey-B/willow/pkg/models"
)

// stemElements maps the heavenly stem index of a year to its element.
var stemElements = [10]models.Element{
	models.ElementMetal, models.ElementMetal,
	models.ElementWater, models.ElementWater,
	models.ElementWood, models.ElementWood,
	models.ElementFire, models.ElementFire,
	models.ElementEarth, models.ElementEarth,
}

// StemIndex returns the heavenly stem index of a calendar year, always in [0, 9].
func StemIndex(year int) int {
	idx := (year - 4) % 10
	if idx < 0 {
		idx += 10
	}
	return idx
}

// ResolveYear returns the element of a calendar year.
func ResolveYear(year int) models.Element {
	return stemElements[StemIndex(year)]
}

// Resolve returns the element of the calendar year of date.
// Month, day and time of day are ignored.
func Resolve(date time.Time) models.Element {
	return ResolveYear(date.Year())
}

// ResolveBirthInfo parses the birth date and resolves it.
func ResolveBirthInfo(info *models.BirthInfo) (models.Element, error) {
	date, err := info.ParsedDate()
	if err != nil {
		return "", err
	}
	return Resolve(date), nil
}
