package twelvedata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(ClientOptions{
		APIKey:         "test-key",
		BaseURL:        srv.URL,
		RequestTimeout: 5 * time.Second,
		RequestsPerSec: 100,
	})
}

func TestSearchSymbolsFiltersAndTruncates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/symbol_search", r.URL.Path)
		assert.Equal(t, "vanguard", r.URL.Query().Get("symbol"))
		w.Write([]byte(`{"data":[
			{"symbol":"VTI","instrument_name":"Vanguard Total Stock Market ETF","exchange":"NYSE","instrument_type":"ETF","country":"United States","currency":"USD"},
			{"symbol":"VTIP","instrument_name":"Vanguard Short-Term TIPS ETF","exchange":"NASDAQ","instrument_type":"ETF","country":"United States","currency":"USD"},
			{"symbol":"VG1","instrument_name":"Some Bond","exchange":"NYSE","instrument_type":"Bond","country":"United States","currency":"USD"},
			{"symbol":"V","instrument_name":"Visa Inc","exchange":"NYSE","instrument_type":"Common Stock","country":"United States","currency":"USD"}
		]}`))
	})

	results, err := client.SearchSymbols(context.Background(), "vanguard")
	require.NoError(t, err)
	require.Len(t, results, 3, "bond must be filtered out")
	assert.Equal(t, "VTI", results[0].Symbol)
	assert.Equal(t, "Vanguard Total Stock Market ETF", results[0].Name)
	assert.Equal(t, "Common Stock", results[2].Type)
}

func TestSearchSymbolsCapsAtTen(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":[` + repeatItems(15) + `]}`))
	})

	results, err := client.SearchSymbols(context.Background(), "x")
	require.NoError(t, err)
	assert.Len(t, results, 10)
}

func repeatItems(n int) string {
	item := `{"symbol":"SPY","instrument_name":"SPDR","exchange":"NYSE","instrument_type":"ETF","country":"US","currency":"USD"}`
	out := item
	for i := 1; i < n; i++ {
		out += "," + item
	}
	return out
}

func TestSearchSymbolsMissingDataIsParseError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{}`))
	})

	_, err := client.SearchSymbols(context.Background(), "x")
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "symbol_search", parseErr.Op)
}

func TestQuoteMapsProviderFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote", r.URL.Path)
		assert.Equal(t, "SPY", r.URL.Query().Get("symbol"))
		w.Write([]byte(`{
			"symbol":"SPY","name":"SPDR S&P 500 ETF Trust",
			"close":"512.45","change":"3.21","percent_change":"0.63",
			"previous_close":"509.24","open":"510.12","high":"514.78","low":"509.45",
			"volume":"45678900","average_volume":"52340000",
			"fifty_two_week":{"high":"525.00","low":"410.34"},
			"currency":"USD","exchange":"NYSE"
		}`))
	})

	quote, err := client.Quote(context.Background(), "SPY")
	require.NoError(t, err)
	assert.Equal(t, "SPY", quote.Symbol)
	assert.Equal(t, 512.45, quote.Price)
	assert.Equal(t, 3.21, quote.Change)
	assert.Equal(t, 0.63, quote.ChangePercent)
	assert.Equal(t, 509.24, quote.PreviousClose)
	assert.Equal(t, int64(45678900), quote.Volume)
	assert.Equal(t, int64(52340000), quote.AvgVolume)
	assert.Equal(t, int64(0), quote.MarketCap)
	assert.Equal(t, 525.00, quote.FiftyTwoWeekHigh)
	assert.Equal(t, 410.34, quote.FiftyTwoWeekLow)
	assert.False(t, quote.Timestamp.IsZero())
}

func TestQuoteDefensiveParsingAndDefaults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{
			"symbol":"SPY","name":"SPDR S&P 500 ETF Trust",
			"close":"512.45","change":"not-a-number","percent_change":"",
			"previous_close":"509.24","open":"510.12","high":"514.78","low":"509.45",
			"volume":"45678900"
		}`))
	})

	quote, err := client.Quote(context.Background(), "SPY")
	require.NoError(t, err)
	assert.Equal(t, 0.0, quote.Change)
	assert.Equal(t, 0.0, quote.ChangePercent)
	assert.Equal(t, int64(0), quote.AvgVolume)
	assert.Equal(t, 0.0, quote.FiftyTwoWeekHigh, "absent 52-week bounds become 0")
	assert.Equal(t, 0.0, quote.FiftyTwoWeekLow)
	assert.Equal(t, "USD", quote.Currency)
	assert.Equal(t, "NYSE", quote.Exchange)
}

func TestQuoteProviderErrorBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"code":404,"message":"symbol not found","status":"error"}`))
	})

	_, err := client.Quote(context.Background(), "ZZZNOPE")
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestQuoteNonOKStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Quote(context.Background(), "SPY")
	require.Error(t, err)
	var parseErr *ParseError
	assert.False(t, errors.As(err, &parseErr), "transport failure must not be a ParseError")
}

func TestTimeSeriesNormalizesToAscending(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/time_series", r.URL.Path)
		assert.Equal(t, "1day", r.URL.Query().Get("interval"))
		assert.Equal(t, "30", r.URL.Query().Get("outputsize"))
		// provider sends newest first
		w.Write([]byte(`{"values":[
			{"datetime":"2024-03-06","open":"511.0","high":"514.0","low":"510.0","close":"512.45","volume":"45678900"},
			{"datetime":"2024-03-05","open":"509.0","high":"511.5","low":"508.0","close":"510.80","volume":"40120000"},
			{"datetime":"2024-03-04","open":"507.0","high":"509.8","low":"506.1","close":"509.24","volume":"39000000"}
		]}`))
	})

	bars, err := client.TimeSeries(context.Background(), "SPY", "1day", 30)
	require.NoError(t, err)
	require.Len(t, bars, 3)
	assert.Equal(t, "2024-03-04", bars[0].Date)
	assert.Equal(t, "2024-03-06", bars[2].Date)
	assert.Equal(t, 512.45, bars[2].Close)
	assert.Equal(t, int64(39000000), bars[0].Volume)
}

func TestTimeSeriesEmptyValuesIsParseError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"values":[]}`))
	})

	_, err := client.TimeSeries(context.Background(), "SPY", "1day", 30)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "time_series", parseErr.Op)
}
