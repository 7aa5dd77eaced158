package model

// PerformanceMetrics holds trailing percent changes at fixed horizons plus
// annualized volatility, all computed relative to the last bar of a series.
type PerformanceMetrics struct {
	Change1D   float64 `json:"change1d"`
	Change1W   float64 `json:"change1w"`
	Change1M   float64 `json:"change1m"`
	Change3M   float64 `json:"change3m"`
	Change6M   float64 `json:"change6m"`
	Change1Y   float64 `json:"change1y"`
	Volatility float64 `json:"volatility"`
}

// SavingsProjectionPoint is one year of a recurring-contribution projection.
type SavingsProjectionPoint struct {
	Year     int   `json:"year"`
	Invested int64 `json:"invested"`
	Value    int64 `json:"value"`
	Gains    int64 `json:"gains"`
}
