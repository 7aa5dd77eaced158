// Package fixtures holds the fixed instrument catalog used as search and
// quote fallback when the live provider is unavailable, and as the price
// seed for synthesized history.
package fixtures

import (
	"strings"
	"time"

	"etfpulse/internal/model"
)

// TrendingSymbols is the default set shown before the user has any state.
var TrendingSymbols = []string{"SPY", "QQQ", "VTI", "IWM", "EFA", "VWO", "GLD", "BND"}

// Catalog values are hand-authored snapshots: changePercent is not derived
// from change/previousClose and is kept as written.
var catalog = []model.Quote{
	{
		Symbol: "SPY", Name: "SPDR S&P 500 ETF Trust",
		Price: 512.45, Change: 3.21, ChangePercent: 0.63, PreviousClose: 509.24,
		Open: 510.12, High: 514.78, Low: 509.45,
		Volume: 45678900, AvgVolume: 52340000, MarketCap: 520000000000,
		FiftyTwoWeekHigh: 525.00, FiftyTwoWeekLow: 410.34,
		Currency: "USD", Exchange: "NYSE",
	},
	{
		Symbol: "QQQ", Name: "Invesco QQQ Trust",
		Price: 438.92, Change: 5.67, ChangePercent: 1.31, PreviousClose: 433.25,
		Open: 434.50, High: 440.12, Low: 433.00,
		Volume: 32456780, AvgVolume: 38900000, MarketCap: 195000000000,
		FiftyTwoWeekHigh: 445.00, FiftyTwoWeekLow: 340.56,
		Currency: "USD", Exchange: "NASDAQ",
	},
	{
		Symbol: "VTI", Name: "Vanguard Total Stock Market ETF",
		Price: 268.34, Change: 1.45, ChangePercent: 0.54, PreviousClose: 266.89,
		Open: 267.00, High: 269.50, Low: 266.50,
		Volume: 3456000, AvgVolume: 4200000, MarketCap: 380000000000,
		FiftyTwoWeekHigh: 275.00, FiftyTwoWeekLow: 215.78,
		Currency: "USD", Exchange: "NYSE",
	},
	{
		Symbol: "IWM", Name: "iShares Russell 2000 ETF",
		Price: 205.67, Change: -1.23, ChangePercent: -0.59, PreviousClose: 206.90,
		Open: 207.00, High: 208.45, Low: 204.30,
		Volume: 28900000, AvgVolume: 32000000, MarketCap: 65000000000,
		FiftyTwoWeekHigh: 225.00, FiftyTwoWeekLow: 165.34,
		Currency: "USD", Exchange: "NYSE",
	},
	{
		Symbol: "EFA", Name: "iShares MSCI EAFE ETF",
		Price: 78.45, Change: 0.34, ChangePercent: 0.44, PreviousClose: 78.11,
		Open: 78.20, High: 78.90, Low: 78.00,
		Volume: 12340000, AvgVolume: 15600000, MarketCap: 52000000000,
		FiftyTwoWeekHigh: 82.00, FiftyTwoWeekLow: 65.45,
		Currency: "USD", Exchange: "NYSE",
	},
	{
		Symbol: "VWO", Name: "Vanguard FTSE Emerging Markets ETF",
		Price: 43.78, Change: 0.56, ChangePercent: 1.30, PreviousClose: 43.22,
		Open: 43.30, High: 44.10, Low: 43.15,
		Volume: 8900000, AvgVolume: 10500000, MarketCap: 72000000000,
		FiftyTwoWeekHigh: 48.00, FiftyTwoWeekLow: 38.90,
		Currency: "USD", Exchange: "NYSE",
	},
	{
		Symbol: "GLD", Name: "SPDR Gold Shares",
		Price: 215.34, Change: 2.45, ChangePercent: 1.15, PreviousClose: 212.89,
		Open: 213.00, High: 216.50, Low: 212.80,
		Volume: 6780000, AvgVolume: 7800000, MarketCap: 62000000000,
		FiftyTwoWeekHigh: 220.00, FiftyTwoWeekLow: 168.45,
		Currency: "USD", Exchange: "NYSE",
	},
	{
		Symbol: "BND", Name: "Vanguard Total Bond Market ETF",
		Price: 73.12, Change: -0.15, ChangePercent: -0.20, PreviousClose: 73.27,
		Open: 73.20, High: 73.45, Low: 72.90,
		Volume: 5670000, AvgVolume: 6200000, MarketCap: 98000000000,
		FiftyTwoWeekHigh: 76.00, FiftyTwoWeekLow: 70.12,
		Currency: "USD", Exchange: "NYSE",
	},
}

// All returns a copy of the full catalog, stamped with the current time.
func All() []model.Quote {
	now := time.Now()
	out := make([]model.Quote, len(catalog))
	for i, q := range catalog {
		q.Timestamp = now
		out[i] = q
	}
	return out
}

// Find looks up a catalog quote by exact, case-insensitive symbol.
func Find(symbol string) (model.Quote, bool) {
	for _, q := range catalog {
		if strings.EqualFold(q.Symbol, symbol) {
			q.Timestamp = time.Now()
			return q, true
		}
	}
	return model.Quote{}, false
}

// Search matches query as a case-insensitive substring of symbol or name.
// An empty result is a valid outcome, not an error.
func Search(query string) []model.SearchResult {
	q := strings.ToLower(query)
	results := make([]model.SearchResult, 0, len(catalog))
	for _, etf := range catalog {
		if !strings.Contains(strings.ToLower(etf.Symbol), q) &&
			!strings.Contains(strings.ToLower(etf.Name), q) {
			continue
		}
		results = append(results, model.SearchResult{
			Symbol:   etf.Symbol,
			Name:     etf.Name,
			Exchange: etf.Exchange,
			Type:     model.TypeETF,
			Country:  "US",
			Currency: etf.Currency,
		})
	}
	return results
}
