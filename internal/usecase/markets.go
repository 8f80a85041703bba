package usecase

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"MacroPull/internal/domain/models"
	"MacroPull/internal/forex"
	"MacroPull/internal/services/analytics"
)

const forexDecimals = 4

var (
	forexLags       = map[string]int{models.VarOneWeek: 5, models.VarOneMon: 21}
	commodityLags   = singlePeriodLags
	defaultForexSet = []models.Entity{models.France, models.UK, models.Japan, models.China, models.Switzerland}
)

// Forex returns the currency pairs needed to show entities against USD,
// keyed by pair symbol, with 1 week and 1 month variations.
func (d *Dashboard) Forex(ctx context.Context, entities []models.Entity, period models.Period) (*models.Analytic, error) {
	if len(entities) == 0 {
		entities = defaultForexSet
	}
	pairs, err := forex.RequiredPairs(entities)
	if err != nil {
		return nil, err
	}
	instruments := make([]instrument, len(pairs))
	for i, p := range pairs {
		instruments[i] = instrument{name: p.Symbol, ticker: p.Ticker}
	}
	return d.quoteFamily(ctx, instruments, period, forexDecimals, forexLags)
}

// Commodities returns gold and oil futures with a one period variation.
func (d *Dashboard) Commodities(ctx context.Context, period models.Period) (*models.Analytic, error) {
	cms := d.catalog.Commodities()
	instruments := make([]instrument, len(cms))
	for i, c := range cms {
		instruments[i] = instrument{name: c.Name, ticker: c.Ticker}
	}
	return d.quoteFamily(ctx, instruments, period, analytics.Decimals, commodityLags)
}

type instrument struct {
	name   string
	ticker string
}

func (d *Dashboard) quoteFamily(ctx context.Context, ins []instrument, period models.Period, decimals int32, lags map[string]int) (*models.Analytic, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	closes := make([]models.TimeSeries, len(ins))
	g, gctx := errgroup.WithContext(ctx)
	for i, in := range ins {
		g.Go(func() error {
			h, err := d.history(gctx, in.ticker, period)
			if err != nil {
				return err
			}
			closes[i] = h.Close
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := models.NewAnalytic(len(ins))
	for i, in := range ins {
		sum, err := analytics.Summarize(closes[i], decimals, lags)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", in.name, err)
		}
		res.Series[in.name] = closes[i]
		res.Summary[in.name] = sum
	}
	return res, nil
}
