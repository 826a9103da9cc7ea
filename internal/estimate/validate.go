package estimate

import (
	"fmt"
	"math"
	"regexp"
)

// Bounds enforced by the web form, in square feet.
const (
	MinFormAreaSqft = 500
	MaxFormAreaSqft = 10000
)

var regionPattern = regexp.MustCompile(`^[a-zA-Z\s-]{2,}$`)

// ValidateForm applies the stricter checks of the estimator form. An empty
// result means the request is acceptable. Compute does not call it.
func ValidateForm(req Request) []string {
	var details []string

	if !regionPattern.MatchString(req.Region) {
		details = append(details, "Region must be at least 2 characters long and contain only letters, spaces, or hyphens.")
	}

	unit, ok := ParseAreaUnit(req.AreaUnit)
	area, err := req.TotalFloorArea.Float()
	switch {
	case !ok:
		details = append(details, "Area unit must be square meters or square feet.")
	case unit == SquareFeet:
		if err != nil || area != math.Trunc(area) || area < MinFormAreaSqft || area > MaxFormAreaSqft {
			details = append(details, fmt.Sprintf("Total Floor Area must be an integer between %d and %s sq ft.", MinFormAreaSqft, "10,000"))
		}
	default:
		lo, hi := MinFormAreaSqft*SqftToSqm, MaxFormAreaSqft*SqftToSqm
		if err != nil || area < lo || area > hi {
			details = append(details, fmt.Sprintf("Total Floor Area must be between %.2f and %.2f sqm.", lo, hi))
		}
	}

	if _, d := parseCount("numberOfBathrooms", req.NumberOfBathrooms, MinBathrooms, MaxBathrooms); d != "" {
		details = append(details, "Number of Bathrooms must be an integer between 1 and 10.")
	}
	if _, d := parseCount("numberOfFloors", req.NumberOfFloors, MinFloors, MaxFloors); d != "" {
		details = append(details, "Number of Floors must be an integer between 1 and 5.")
	}

	return details
}
