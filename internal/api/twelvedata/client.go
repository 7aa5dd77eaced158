package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpClient "etfpulse/internal/platform/http"

	"etfpulse/internal/model"
)

// Client is the Twelve Data API client
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *httpClient.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new Twelve Data client
type ClientOptions struct {
	APIKey         string
	BaseURL        string
	RequestTimeout time.Duration
	RequestsPerSec int
}

// NewClient creates a new Twelve Data API client
func NewClient(options ClientOptions) *Client {
	baseURL := options.BaseURL
	if baseURL == "" {
		baseURL = "https://api.twelvedata.com"
	}

	return &Client{
		apiKey:  options.APIKey,
		baseURL: baseURL,
		httpClient: httpClient.NewClient(httpClient.ClientOptions{
			Timeout:        options.RequestTimeout,
			RequestsPerSec: options.RequestsPerSec,
		}),
		logger: log.With().Str("component", "twelvedata_client").Logger(),
	}
}

// ParseError reports a response that was received but could not be decoded
// into the expected shape. It is distinct from transport errors so callers
// can tell "provider unreachable" from "provider changed shape", even when
// both end up handled the same way.
type ParseError struct {
	Op  string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("twelvedata: parsing %s response: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (c *Client) fetch(ctx context.Context, op, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.DoRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if strings.Contains(string(body), `"status":"error"`) {
		c.logger.Error().Str("op", op).Str("response", string(body)).Msg("Twelve Data API error")
		return nil, &ParseError{Op: op, Err: fmt.Errorf("provider error response: %s", body)}
	}
	return body, nil
}

type searchResponse struct {
	Data []struct {
		Symbol         string `json:"symbol"`
		InstrumentName string `json:"instrument_name"`
		Exchange       string `json:"exchange"`
		InstrumentType string `json:"instrument_type"`
		Country        string `json:"country"`
		Currency       string `json:"currency"`
	} `json:"data"`
}

// SearchSymbols queries the symbol-search endpoint, keeps funds and common
// stocks only and truncates to the first 10 matches.
func (c *Client) SearchSymbols(ctx context.Context, query string) ([]model.SearchResult, error) {
	u := fmt.Sprintf("%s/symbol_search?symbol=%s&apikey=%s", c.baseURL, url.QueryEscape(query), c.apiKey)

	body, err := c.fetch(ctx, "symbol_search", u)
	if err != nil {
		return nil, err
	}

	var data searchResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &ParseError{Op: "symbol_search", Err: err}
	}
	if data.Data == nil {
		return nil, &ParseError{Op: "symbol_search", Err: fmt.Errorf("missing data field")}
	}

	results := make([]model.SearchResult, 0, 10)
	for _, item := range data.Data {
		if item.InstrumentType != model.TypeETF && item.InstrumentType != model.TypeCommonStock {
			continue
		}
		results = append(results, model.SearchResult{
			Symbol:   item.Symbol,
			Name:     item.InstrumentName,
			Exchange: item.Exchange,
			Type:     item.InstrumentType,
			Country:  item.Country,
			Currency: item.Currency,
		})
		if len(results) == 10 {
			break
		}
	}

	c.logger.Debug().Str("query", query).Int("count", len(results)).Msg("Symbol search completed")
	return results, nil
}

type quoteResponse struct {
	Code          int    `json:"code"`
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Close         string `json:"close"`
	Change        string `json:"change"`
	PercentChange string `json:"percent_change"`
	PreviousClose string `json:"previous_close"`
	Open          string `json:"open"`
	High          string `json:"high"`
	Low           string `json:"low"`
	Volume        string `json:"volume"`
	AverageVolume string `json:"average_volume"`
	FiftyTwoWeek  struct {
		High string `json:"high"`
		Low  string `json:"low"`
	} `json:"fifty_two_week"`
	Currency string `json:"currency"`
	Exchange string `json:"exchange"`
}

// Quote fetches a live quote and maps it to the internal schema. Numeric
// fields are parsed defensively: anything unparseable becomes 0.
func (c *Client) Quote(ctx context.Context, symbol string) (*model.Quote, error) {
	u := fmt.Sprintf("%s/quote?symbol=%s&apikey=%s", c.baseURL, url.QueryEscape(symbol), c.apiKey)

	body, err := c.fetch(ctx, "quote", u)
	if err != nil {
		return nil, err
	}

	var data quoteResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &ParseError{Op: "quote", Err: err}
	}
	if data.Code != 0 {
		return nil, &ParseError{Op: "quote", Err: fmt.Errorf("provider code %d", data.Code)}
	}
	if data.Symbol == "" {
		return nil, &ParseError{Op: "quote", Err: fmt.Errorf("missing symbol field")}
	}

	currency := data.Currency
	if currency == "" {
		currency = "USD"
	}
	exchange := data.Exchange
	if exchange == "" {
		exchange = "NYSE"
	}

	quote := &model.Quote{
		Symbol:           data.Symbol,
		Name:             data.Name,
		Price:            parseFloat(data.Close),
		Change:           parseFloat(data.Change),
		ChangePercent:    parseFloat(data.PercentChange),
		PreviousClose:    parseFloat(data.PreviousClose),
		Open:             parseFloat(data.Open),
		High:             parseFloat(data.High),
		Low:              parseFloat(data.Low),
		Volume:           parseInt(data.Volume),
		AvgVolume:        parseInt(data.AverageVolume),
		MarketCap:        0, // not exposed by the quote endpoint
		FiftyTwoWeekHigh: parseFloat(data.FiftyTwoWeek.High),
		FiftyTwoWeekLow:  parseFloat(data.FiftyTwoWeek.Low),
		Currency:         currency,
		Exchange:         exchange,
		Timestamp:        time.Now(),
	}

	c.logger.Debug().Str("symbol", quote.Symbol).Float64("price", quote.Price).Msg("Fetched quote")
	return quote, nil
}

type seriesResponse struct {
	Values []struct {
		Datetime string `json:"datetime"`
		Open     string `json:"open"`
		High     string `json:"high"`
		Low      string `json:"low"`
		Close    string `json:"close"`
		Volume   string `json:"volume"`
	} `json:"values"`
}

// TimeSeries fetches up to outputSize bars at the given interval. The
// provider returns newest-first; bars are normalized to ascending-by-date
// before they leave this client.
func (c *Client) TimeSeries(ctx context.Context, symbol, interval string, outputSize int) ([]model.HistoricalBar, error) {
	u := fmt.Sprintf("%s/time_series?symbol=%s&interval=%s&outputsize=%d&apikey=%s",
		c.baseURL, url.QueryEscape(symbol), interval, outputSize, c.apiKey)

	body, err := c.fetch(ctx, "time_series", u)
	if err != nil {
		return nil, err
	}

	var data seriesResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &ParseError{Op: "time_series", Err: err}
	}
	if len(data.Values) == 0 {
		return nil, &ParseError{Op: "time_series", Err: fmt.Errorf("empty values")}
	}

	bars := make([]model.HistoricalBar, 0, len(data.Values))
	for _, v := range data.Values {
		bars = append(bars, model.HistoricalBar{
			Date:   v.Datetime,
			Open:   parseFloat(v.Open),
			High:   parseFloat(v.High),
			Low:    parseFloat(v.Low),
			Close:  parseFloat(v.Close),
			Volume: parseInt(v.Volume),
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date < bars[j].Date })

	c.logger.Debug().Str("symbol", symbol).Int("count", len(bars)).Msg("Fetched time series")
	return bars, nil
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(s string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		// some responses carry volume as a float string
		if f, ferr := strconv.ParseFloat(strings.TrimSpace(s), 64); ferr == nil {
			return int64(f)
		}
		return 0
	}
	return v
}
