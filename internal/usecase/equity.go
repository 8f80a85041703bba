package usecase

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"MacroPull/internal/domain/errs"
	"MacroPull/internal/domain/models"
	"MacroPull/internal/services/analytics"
	"MacroPull/pkg/cache"
)

const recentBars = 5

// NormalizeTicker upper-cases and trims a user supplied ticker.
func NormalizeTicker(t string) string {
	return strings.ToUpper(strings.TrimSpace(t))
}

// EquityQuote returns price, performance over period, the most recent bars
// and the fundamentals card of ticker.
func (d *Dashboard) EquityQuote(ctx context.Context, ticker string, period models.Period) (*models.EquityQuote, error) {
	ticker = NormalizeTicker(ticker)
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	var (
		h models.QuoteHistory
		f models.Fundamentals
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		h, err = d.history(gctx, ticker, period)
		return err
	})
	g.Go(func() (err error) {
		f, err = cache.GetOrCompute(gctx, d.cache, cache.Key(opFundamentals, ticker), d.ttl, func(ctx context.Context) (models.Fundamentals, error) {
			return d.fetcher.FetchFundamentals(ctx, ticker)
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	q := &models.EquityQuote{
		Ticker:       ticker,
		Period:       period,
		Close:        h.Close,
		Performance:  analytics.Performance(h.Close),
		Fundamentals: &f,
	}
	if last, ok := h.Close.Last(); ok {
		q.LastPrice = analytics.RoundMeasure(last.Value, analytics.Decimals)
	}
	if n := len(h.Bars); n > recentBars {
		q.RecentBars = append([]models.Bar(nil), h.Bars[n-recentBars:]...)
	} else {
		q.RecentBars = append([]models.Bar(nil), h.Bars...)
	}
	return q, nil
}

// Correlation returns the close price correlation of tickers over period.
// Tickers without data are left out; at least two must remain.
func (d *Dashboard) Correlation(ctx context.Context, tickers []string, period models.Period) (models.CorrelationMatrix, error) {
	seen := make(map[string]bool, len(tickers))
	uniq := make([]string, 0, len(tickers))
	for _, t := range tickers {
		t = NormalizeTicker(t)
		if t != "" && !seen[t] {
			seen[t] = true
			uniq = append(uniq, t)
		}
	}
	if len(uniq) < 2 {
		return models.CorrelationMatrix{}, fmt.Errorf("correlation needs at least two tickers, got %d: %w", len(uniq), errs.ErrEmptySeries)
	}

	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	closes := make([]models.TimeSeries, len(uniq))
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range uniq {
		g.Go(func() error {
			h, err := d.history(gctx, t, period)
			if err != nil {
				return err
			}
			closes[i] = h.Close
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.CorrelationMatrix{}, err
	}

	in := make(map[string]models.TimeSeries, len(uniq))
	for i, t := range uniq {
		if !closes[i].IsEmpty() {
			in[t] = closes[i]
		}
	}
	if len(in) < 2 {
		return models.CorrelationMatrix{}, fmt.Errorf("correlation: %d tickers with data: %w", len(in), errs.ErrEmptySeries)
	}
	return analytics.Correlation(in), nil
}

// Statement returns a financial statement of ticker.
func (d *Dashboard) Statement(ctx context.Context, ticker string, kind models.StatementKind) (models.Statement, error) {
	ticker = NormalizeTicker(ticker)
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	return cache.GetOrCompute(ctx, d.cache, cache.Key(opStatement, ticker, kind), d.ttl, func(ctx context.Context) (models.Statement, error) {
		return d.fetcher.FetchStatement(ctx, ticker, kind)
	})
}
