package sm2

import (
	"fmt"
	"math"
)

const (
	daysPerMonth = 30.44
	daysPerYear  = 365.25
)

// FormatInterval renders a day count for display: hours under a day, days
// under a month, months under a year and years beyond.
func FormatInterval(days float64) string {
	switch {
	case days < 1:
		return fmt.Sprintf("%dh", int(math.Round(days*24)))
	case days < 30:
		return fmt.Sprintf("%dd", int(math.Round(days)))
	case days < 365:
		return fmt.Sprintf("%dmo", int(math.Round(days/daysPerMonth)))
	default:
		return fmt.Sprintf("%dy", int(math.Round(days/daysPerYear)))
	}
}
