package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"

	"MacroPull/internal/domain/models"
	"MacroPull/internal/services/analytics"
	"MacroPull/pkg/cache"
)

// BondSpread returns the 10 year yield spread b - a as a series on shared
// dates, plus the difference between the two latest values.
func (d *Dashboard) BondSpread(ctx context.Context, a, b models.Entity) (*models.SpreadResult, error) {
	ea, err := d.catalog.Resolve(a, models.MetricBond10Y)
	if err != nil {
		return nil, err
	}
	eb, err := d.catalog.Resolve(b, models.MetricBond10Y)
	if err != nil {
		return nil, err
	}

	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	var sa, sb models.TimeSeries
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		sa, err = d.series(gctx, ea)
		return err
	})
	g.Go(func() (err error) {
		sb, err = d.series(gctx, eb)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &models.SpreadResult{A: string(a), B: string(b), Series: analytics.Spread(sa, sb)}
	la, okA := sa.Last()
	lb, okB := sb.Last()
	if okA && okB {
		res.Latest = analytics.RoundMeasure(lb.Value-la.Value, analytics.Decimals)
	}
	return res, nil
}

// YieldCurve returns the cached curve for entity.
func (d *Dashboard) YieldCurve(ctx context.Context, entity models.Entity) (models.YieldCurve, error) {
	if _, err := d.catalog.CurveSeries(entity); err != nil {
		return models.YieldCurve{}, err
	}
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	return cache.GetOrCompute(ctx, d.cache, cache.Key(opCurve, entity), d.ttl, func(ctx context.Context) (models.YieldCurve, error) {
		return d.engine.YieldCurve(ctx, entity)
	})
}
