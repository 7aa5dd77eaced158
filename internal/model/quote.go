package model

import "time"

// Quote is a snapshot of a priced instrument.
//
// Price, Change, ChangePercent and PreviousClose are carried exactly as the
// data source reported them: the provider's own percent_change may diverge
// from change/previousClose by its rounding, so none of them is re-derived
// from the others.
type Quote struct {
	Symbol           string    `json:"symbol"`
	Name             string    `json:"name"`
	Price            float64   `json:"price"`
	Change           float64   `json:"change"`
	ChangePercent    float64   `json:"changePercent"`
	PreviousClose    float64   `json:"previousClose"`
	Open             float64   `json:"open"`
	High             float64   `json:"high"`
	Low              float64   `json:"low"`
	Volume           int64     `json:"volume"`
	AvgVolume        int64     `json:"avgVolume"`
	MarketCap        int64     `json:"marketCap"`
	FiftyTwoWeekHigh float64   `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow  float64   `json:"fiftyTwoWeekLow"`
	Currency         string    `json:"currency"`
	Exchange         string    `json:"exchange"`
	Timestamp        time.Time `json:"timestamp"`
}

// SearchResult is a single symbol-search match.
type SearchResult struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Type     string `json:"type"`
	Country  string `json:"country"`
	Currency string `json:"currency"`
}

// Instrument types retained by symbol search.
const (
	TypeETF         = "ETF"
	TypeCommonStock = "Common Stock"
)
