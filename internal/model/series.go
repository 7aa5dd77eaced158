package model

// HistoricalBar is one day's open/high/low/close/volume record.
// Series are always ordered ascending by date.
type HistoricalBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// TimeRange selects how far back a historical series reaches.
type TimeRange string

const (
	Range1D  TimeRange = "1D"
	Range1W  TimeRange = "1W"
	Range1M  TimeRange = "1M"
	Range3M  TimeRange = "3M"
	Range6M  TimeRange = "6M"
	Range1Y  TimeRange = "1Y"
	Range5Y  TimeRange = "5Y"
	RangeMax TimeRange = "MAX"
)

// Days maps a range to its calendar-day count. Unrecognized ranges
// fall back to one year.
func (r TimeRange) Days() int {
	switch r {
	case Range1D:
		return 1
	case Range1W:
		return 7
	case Range1M:
		return 30
	case Range3M:
		return 90
	case Range6M:
		return 180
	case Range1Y:
		return 365
	case Range5Y:
		return 1825
	case RangeMax:
		return 3650
	default:
		return 365
	}
}
