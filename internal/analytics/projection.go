package analytics

import (
	"math"

	"etfpulse/internal/model"
)

// ProjectSavings compounds a recurring monthly contribution over the given
// number of years and emits one point per year. Each month the contribution
// is added first and then the month's growth is applied (end-of-month
// contribution convention).
func ProjectSavings(monthlyAmount float64, years int, annualReturnPercent float64) []model.SavingsProjectionPoint {
	if years <= 0 {
		return []model.SavingsProjectionPoint{}
	}

	monthlyReturn := annualReturnPercent / 100 / 12

	projection := make([]model.SavingsProjectionPoint, 0, years)
	total := 0.0

	for year := 1; year <= years; year++ {
		for month := 0; month < 12; month++ {
			total = (total + monthlyAmount) * (1 + monthlyReturn)
		}

		invested := monthlyAmount * 12 * float64(year)
		projection = append(projection, model.SavingsProjectionPoint{
			Year:     year,
			Invested: int64(math.Round(invested)),
			Value:    int64(math.Round(total)),
			Gains:    int64(math.Round(total - invested)),
		})
	}

	return projection
}
