package refresher

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"etfpulse/internal/cache"
	"etfpulse/internal/gateway"
	"etfpulse/internal/model"
	"etfpulse/internal/synth"
)

type countingProvider struct {
	quoteCalls atomic.Int64
}

func (p *countingProvider) SearchSymbols(context.Context, string) ([]model.SearchResult, error) {
	return nil, nil
}

func (p *countingProvider) Quote(_ context.Context, symbol string) (*model.Quote, error) {
	p.quoteCalls.Add(1)
	return &model.Quote{Symbol: symbol, Price: 100, Timestamp: time.Now()}, nil
}

func (p *countingProvider) TimeSeries(context.Context, string, string, int) ([]model.HistoricalBar, error) {
	return nil, nil
}

func TestStartWarmsAndSchedules(t *testing.T) {
	provider := &countingProvider{}
	gw := gateway.New(provider, cache.New(time.Minute), synth.NewWithSeed(1))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := New(gw, []string{"SPY", "QQQ"})
	require.NoError(t, r.Start(ctx, "@every 1h"))
	defer r.Stop()

	// the initial warm runs in the background
	assert.Eventually(t, func() bool {
		return provider.quoteCalls.Load() == 2
	}, 2*time.Second, 10*time.Millisecond)

	// warmed quotes must serve from cache without another provider call
	quote := gw.GetQuote(ctx, "SPY")
	require.NotNil(t, quote)
	assert.Equal(t, int64(2), provider.quoteCalls.Load())
}

// flakyProvider fails the first quote fetch for selected symbols and counts
// per-symbol attempts.
type flakyProvider struct {
	mu        sync.Mutex
	failOnce  map[string]bool
	callCount map[string]int
}

func newFlakyProvider(failOnce ...string) *flakyProvider {
	p := &flakyProvider{failOnce: map[string]bool{}, callCount: map[string]int{}}
	for _, sym := range failOnce {
		p.failOnce[sym] = true
	}
	return p
}

func (p *flakyProvider) SearchSymbols(context.Context, string) ([]model.SearchResult, error) {
	return nil, nil
}

func (p *flakyProvider) Quote(_ context.Context, symbol string) (*model.Quote, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.callCount[symbol]++
	if p.failOnce[symbol] && p.callCount[symbol] == 1 {
		return nil, errors.New("connection refused")
	}
	return &model.Quote{Symbol: symbol, Price: 100, Timestamp: time.Now()}, nil
}

func (p *flakyProvider) TimeSeries(context.Context, string, string, int) ([]model.HistoricalBar, error) {
	return nil, nil
}

func (p *flakyProvider) calls(symbol string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.callCount[symbol]
}

func TestStartRetriesOnlyFailedSymbols(t *testing.T) {
	provider := newFlakyProvider("QQQ")
	gw := gateway.New(provider, cache.New(time.Minute), synth.NewWithSeed(1))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := New(gw, []string{"SPY", "QQQ"})
	require.NoError(t, r.Start(ctx, "@every 1h"))
	defer r.Stop()

	// the retry after QQQ's failure must not re-fetch the warmed SPY
	assert.Eventually(t, func() bool {
		return provider.calls("QQQ") == 2
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, provider.calls("SPY"))
}

func TestStartRejectsBadCronSpec(t *testing.T) {
	provider := &countingProvider{}
	gw := gateway.New(provider, cache.New(time.Minute), synth.NewWithSeed(1))

	r := New(gw, nil)
	assert.Error(t, r.Start(context.Background(), "not a cron spec"))
}
