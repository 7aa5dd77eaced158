// Package gateway is the single entry point for quote, search and history
// data. Every operation follows the same protocol: check the cache, fetch
// from the provider, validate and map, cache the result; on any provider
// failure serve the fixture catalog or a synthesized series instead.
// Provider errors never reach the caller.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"etfpulse/internal/cache"
	"etfpulse/internal/fixtures"
	"etfpulse/internal/model"
	"etfpulse/internal/synth"
)

// defaultBasePrice seeds synthesized history for symbols the catalog does
// not know.
const defaultBasePrice = 100

// maxOutputSize is the provider's hard cap on time-series points.
const maxOutputSize = 5000

// Provider is the live data source behind the gateway.
type Provider interface {
	SearchSymbols(ctx context.Context, query string) ([]model.SearchResult, error)
	Quote(ctx context.Context, symbol string) (*model.Quote, error)
	TimeSeries(ctx context.Context, symbol, interval string, outputSize int) ([]model.HistoricalBar, error)
}

// Gateway coordinates the provider, the response cache and the fallbacks.
type Gateway struct {
	provider Provider
	cache    *cache.Cache
	synth    *synth.Generator
	logger   zerolog.Logger
}

// New creates a Gateway. The cache is injected so tests can construct an
// isolated instance instead of sharing hidden global state.
func New(provider Provider, c *cache.Cache, g *synth.Generator) *Gateway {
	return &Gateway{
		provider: provider,
		cache:    c,
		synth:    g,
		logger:   log.With().Str("component", "gateway").Logger(),
	}
}

// SearchSymbols returns live matches for query, or a substring match over
// the fixture catalog when the provider fails. An empty slice is a valid
// "no matches" outcome either way. Fallback results are not cached, so a
// transient outage is retried on the next identical request.
func (g *Gateway) SearchSymbols(ctx context.Context, query string) []model.SearchResult {
	key := cache.Key("search", query)
	if v, ok := g.cache.Get(key); ok {
		return slices.Clone(v.([]model.SearchResult))
	}

	results, err := g.provider.SearchSymbols(ctx, query)
	if err != nil {
		g.logFallback("search", query, err)
		return fixtures.Search(query)
	}

	// cache a private copy so callers cannot mutate the stored entry
	g.cache.Put(key, slices.Clone(results))
	g.logger.Debug().Str("query", query).Int("count", len(results)).Msg("live search served")
	return results
}

// GetQuote returns the live quote for symbol, the fixture quote when the
// provider fails, or nil when the symbol is not recognized anywhere. A nil
// return is the sole "not found" signal.
func (g *Gateway) GetQuote(ctx context.Context, symbol string) *model.Quote {
	key := cache.Key("quote", symbol)
	if v, ok := g.cache.Get(key); ok {
		q := v.(model.Quote)
		return &q
	}

	quote, err := g.provider.Quote(ctx, symbol)
	if err != nil {
		g.logFallback("quote", symbol, err)
		if q, ok := fixtures.Find(symbol); ok {
			return &q
		}
		return nil
	}

	g.cache.Put(key, *quote)
	g.logger.Debug().Str("symbol", symbol).Msg("live quote served")
	return quote
}

// GetMultipleQuotes fans out over GetQuote in parallel lookups, preserving
// input order and dropping symbols that resolve to nothing.
func (g *Gateway) GetMultipleQuotes(ctx context.Context, symbols []string) []model.Quote {
	results := make([]*model.Quote, len(symbols))

	var wg sync.WaitGroup
	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			results[i] = g.GetQuote(ctx, symbol)
		}(i, symbol)
	}
	wg.Wait()

	quotes := make([]model.Quote, 0, len(symbols))
	for _, q := range results {
		if q != nil {
			quotes = append(quotes, *q)
		}
	}
	return quotes
}

// GetTrending returns quotes for the default trending set.
func (g *Gateway) GetTrending(ctx context.Context) []model.Quote {
	return g.GetMultipleQuotes(ctx, fixtures.TrendingSymbols)
}

// GetHistory returns an ascending-by-date series covering the range. On
// provider failure it synthesizes a walk seeded from the fixture price if
// the symbol is known, else from a default base.
func (g *Gateway) GetHistory(ctx context.Context, symbol string, r model.TimeRange) []model.HistoricalBar {
	key := cache.Key("history", symbol, string(r))
	if v, ok := g.cache.Get(key); ok {
		return slices.Clone(v.([]model.HistoricalBar))
	}

	days := r.Days()
	bars, err := g.provider.TimeSeries(ctx, symbol, intervalFor(days), min(days, maxOutputSize))
	if err != nil {
		g.logFallback("history", symbol, err)
		basePrice := float64(defaultBasePrice)
		if q, ok := fixtures.Find(symbol); ok {
			basePrice = q.Price
		}
		return g.synth.Series(basePrice, days, synth.DefaultVolatility)
	}

	g.cache.Put(key, slices.Clone(bars))
	g.logger.Debug().Str("symbol", symbol).Str("range", string(r)).Int("count", len(bars)).Msg("live history served")
	return bars
}

// WarmQuotes refreshes the cache for symbols straight from the provider,
// with no fallback: a background warm has nobody to serve, so a failure is
// reported to the caller instead of masked. It returns the symbols that
// failed, letting the caller retry just those instead of re-spending quota
// on symbols already warmed.
func (g *Gateway) WarmQuotes(ctx context.Context, symbols []string) ([]string, error) {
	var failed []string
	var errs []error
	for _, symbol := range symbols {
		quote, err := g.provider.Quote(ctx, symbol)
		if err != nil {
			failed = append(failed, symbol)
			errs = append(errs, fmt.Errorf("warm %s: %w", symbol, err))
			continue
		}
		g.cache.Put(cache.Key("quote", symbol), *quote)
	}
	return failed, errors.Join(errs...)
}

// intervalFor picks the sampling granularity for a range span.
func intervalFor(days int) string {
	switch {
	case days <= 7:
		return "1h"
	case days <= 90:
		return "1day"
	default:
		return "1week"
	}
}

func (g *Gateway) logFallback(op, subject string, err error) {
	g.logger.Warn().Str("op", op).Str("subject", subject).Err(err).Msg("provider failed, serving fallback")
}
