// Package refresher keeps the trending quote set warm in the background so
// interactive requests hit the cache instead of spending provider quota.
package refresher

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"etfpulse/internal/gateway"
)

// Refresher periodically re-warms a symbol set through the gateway.
type Refresher struct {
	gateway *gateway.Gateway
	symbols []string
	cron    *cron.Cron
	logger  zerolog.Logger
}

// New creates a Refresher for the given symbol set.
func New(gw *gateway.Gateway, symbols []string) *Refresher {
	return &Refresher{
		gateway: gw,
		symbols: symbols,
		cron:    cron.New(),
		logger:  log.With().Str("component", "refresher").Logger(),
	}
}

// Start performs an initial warm with capped exponential backoff, then
// schedules re-warms on the given cron spec. Scheduled runs are a single
// attempt each: the next tick is the retry.
func (r *Refresher) Start(ctx context.Context, spec string) error {
	go func() {
		// Each retry warms only the symbols the previous attempt failed,
		// so already-warmed symbols do not spend quota again.
		remaining := r.symbols
		warm := func() error {
			failed, err := r.gateway.WarmQuotes(ctx, remaining)
			remaining = failed
			return err
		}

		policy := backoff.NewExponentialBackOff()
		policy.MaxElapsedTime = 2 * time.Minute
		if err := backoff.Retry(warm, backoff.WithContext(policy, ctx)); err != nil {
			// A cold cache only costs the first interactive requests a
			// live fetch, so the warm is not worth blocking startup over.
			r.logger.Warn().Err(err).Msg("initial quote warm failed")
			return
		}
		r.logger.Info().Int("symbols", len(r.symbols)).Msg("initial quote warm complete")
	}()

	if _, err := r.cron.AddFunc(spec, func() {
		if _, err := r.gateway.WarmQuotes(ctx, r.symbols); err != nil {
			r.logger.Warn().Err(err).Msg("scheduled quote warm failed")
			return
		}
		r.logger.Debug().Msg("scheduled quote warm complete")
	}); err != nil {
		return err
	}

	r.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running warm to finish.
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
}
