// Package analytics holds pure functions over historical series: trailing
// performance, annualized volatility and savings projections.
package analytics

import (
	"math"

	"etfpulse/internal/model"
)

// Trading-day approximations of the calendar horizons. Kept as offsets
// rather than calendar math for output compatibility.
const (
	horizon1D = 1
	horizon1W = 5
	horizon1M = 22
	horizon3M = 66
	horizon6M = 132
	horizon1Y = 252
)

// tradingDaysPerYear annualizes daily volatility.
const tradingDaysPerYear = 252

// Performance computes trailing percent changes at fixed horizons plus
// annualized volatility, all relative to the last bar. A series with fewer
// than two bars yields all-zero metrics.
func Performance(series []model.HistoricalBar) model.PerformanceMetrics {
	if len(series) < 2 {
		return model.PerformanceMetrics{}
	}

	current := series[len(series)-1].Close

	change := func(daysAgo int) float64 {
		index := len(series) - daysAgo - 1
		if index < 0 {
			index = 0
		}
		old := series[index].Close
		return (current - old) / old * 100
	}

	return model.PerformanceMetrics{
		Change1D:   change(horizon1D),
		Change1W:   change(horizon1W),
		Change1M:   change(horizon1M),
		Change3M:   change(horizon3M),
		Change6M:   change(horizon6M),
		Change1Y:   change(horizon1Y),
		Volatility: annualizedVolatility(series),
	}
}

// annualizedVolatility is the population standard deviation of simple daily
// returns, scaled by √252 and expressed as a percent rounded to 2 decimals.
func annualizedVolatility(series []model.HistoricalBar) float64 {
	returns := make([]float64, 0, len(series)-1)
	for i := 1; i < len(series); i++ {
		prev := series[i-1].Close
		returns = append(returns, (series[i].Close-prev)/prev)
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns))

	v := math.Sqrt(variance) * math.Sqrt(tradingDaysPerYear) * 100
	return math.Round(v*100) / 100
}
