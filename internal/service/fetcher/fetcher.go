// Package fetcher is the single gateway to external data. Each call is one
// provider round trip, throttled per provider, timed and counted.
package fetcher

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"

	"MacroPull/internal/domain/errs"
	"MacroPull/internal/domain/models"
	"MacroPull/internal/domain/repository"
	"MacroPull/internal/domain/service"
	"MacroPull/pkg/logger"
)

const (
	ProviderStatistical = "fred"
	ProviderQuote       = "yahoo"
)

type Option func(*Fetcher)

// WithLimit throttles provider to rps requests per second with burst.
// rps <= 0 disables throttling.
func WithLimit(provider string, rps float64, burst int) Option {
	return func(f *Fetcher) {
		if rps <= 0 {
			delete(f.limiters, provider)
			return
		}
		if burst < 1 {
			burst = 1
		}
		f.limiters[provider] = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithMetrics(m repository.Metrics) Option {
	return func(f *Fetcher) { f.metrics = m }
}

func WithLogger(l *logger.Logger) Option {
	return func(f *Fetcher) { f.log = l }
}

// Fetcher implements service.Fetcher.
type Fetcher struct {
	stat     service.StatisticalProvider
	quote    service.QuoteProvider
	limiters map[string]*rate.Limiter
	metrics  repository.Metrics
	log      *logger.Logger
}

var _ service.Fetcher = (*Fetcher)(nil)

func New(stat service.StatisticalProvider, quote service.QuoteProvider, opts ...Option) *Fetcher {
	f := &Fetcher{
		stat:  stat,
		quote: quote,
		limiters: map[string]*rate.Limiter{
			// FRED allows 120 requests per minute per key.
			ProviderStatistical: rate.NewLimiter(rate.Limit(2), 4),
			ProviderQuote:       rate.NewLimiter(rate.Limit(5), 5),
		},
		log: logger.Nop(),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

func (f *Fetcher) FetchStatisticalSeries(ctx context.Context, seriesID string, start *time.Time) (models.TimeSeries, error) {
	var out models.TimeSeries
	err := f.call(ctx, ProviderStatistical, "series "+seriesID, func(ctx context.Context) error {
		s, err := f.stat.Observations(ctx, seriesID, start)
		if err != nil {
			return err
		}
		out = s
		if p, ok := s.Last(); ok && f.metrics != nil {
			f.metrics.RecordLastValue(seriesID, p.Value)
		}
		return nil
	})
	return out, err
}

func (f *Fetcher) FetchQuoteHistory(ctx context.Context, ticker string, period models.Period) (models.QuoteHistory, error) {
	var out models.QuoteHistory
	err := f.call(ctx, ProviderQuote, "history "+ticker, func(ctx context.Context) error {
		h, err := f.quote.History(ctx, ticker, period)
		if err != nil {
			return err
		}
		out = h
		return nil
	})
	return out, err
}

func (f *Fetcher) FetchFundamentals(ctx context.Context, ticker string) (models.Fundamentals, error) {
	var out models.Fundamentals
	err := f.call(ctx, ProviderQuote, "fundamentals "+ticker, func(ctx context.Context) error {
		v, err := f.quote.Fundamentals(ctx, ticker)
		out = v
		return err
	})
	return out, err
}

func (f *Fetcher) FetchStatement(ctx context.Context, ticker string, kind models.StatementKind) (models.Statement, error) {
	var out models.Statement
	err := f.call(ctx, ProviderQuote, "statement "+ticker, func(ctx context.Context) error {
		v, err := f.quote.Statement(ctx, ticker, kind)
		out = v
		return err
	})
	return out, err
}

func (f *Fetcher) call(ctx context.Context, provider, op string, fn func(context.Context) error) error {
	if lim, ok := f.limiters[provider]; ok {
		if err := lim.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return errs.Unavailable(provider, op, err)
		}
	}

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)

	result := resultLabel(err)
	if f.metrics != nil {
		f.metrics.RecordProviderCall(provider, result)
		f.metrics.RecordLatency("fetch."+provider, elapsed.Seconds())
	}
	switch {
	case err == nil:
		f.log.Debug("provider call",
			logger.String("provider", provider),
			logger.String("op", op),
			logger.Duration("duration_ms", elapsed),
		)
	case errors.Is(err, errs.ErrProviderUnavailable):
		if f.metrics != nil {
			f.metrics.RecordError("provider_unavailable")
		}
		f.log.Error("provider call failed",
			logger.String("provider", provider),
			logger.String("op", op),
			logger.Duration("duration_ms", elapsed),
			logger.Error(err),
		)
	default:
		f.log.Warn("provider call rejected",
			logger.String("provider", provider),
			logger.String("op", op),
			logger.Error(err),
		)
	}
	return err
}

func resultLabel(err error) string {
	switch errs.Kind(err) {
	case nil:
		if err != nil {
			return "error"
		}
		return "ok"
	case errs.ErrInvalidTicker:
		return "invalid_ticker"
	case errs.ErrNotFound:
		return "not_found"
	default:
		return "unavailable"
	}
}
