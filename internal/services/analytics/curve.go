package analytics

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"MacroPull/internal/catalog"
	"MacroPull/internal/domain/models"
	"MacroPull/internal/domain/service"
	"MacroPull/pkg/logger"
)

// Engine assembles figures that need provider data.
type Engine struct {
	fetcher service.Fetcher
	catalog *catalog.Catalog
	log     *logger.Logger
}

func NewEngine(f service.Fetcher, c *catalog.Catalog, l *logger.Logger) *Engine {
	if l == nil {
		l = logger.Nop()
	}
	return &Engine{fetcher: f, catalog: c, log: l}
}

// YieldCurve fetches every maturity of entity concurrently and keeps the
// latest value of each. A maturity that fails or has no data is skipped and
// logged; the curve fails only when every maturity failed.
func (e *Engine) YieldCurve(ctx context.Context, entity models.Entity) (models.YieldCurve, error) {
	ids, err := e.catalog.CurveSeries(entity)
	if err != nil {
		return models.YieldCurve{}, err
	}

	type result struct {
		value float64
		ok    bool
		err   error
	}
	results := make([]result, len(models.Maturities))

	g, gctx := errgroup.WithContext(ctx)
	for i, m := range models.Maturities {
		id, ok := ids[m]
		if !ok {
			continue
		}
		g.Go(func() error {
			s, err := e.fetcher.FetchStatisticalSeries(gctx, id, nil)
			if err != nil {
				results[i].err = err
				return nil
			}
			if p, ok := s.Last(); ok {
				results[i] = result{value: p.Value, ok: true}
			}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return models.YieldCurve{}, err
	}

	curve := models.YieldCurve{Entity: entity, Points: make([]models.CurvePoint, 0, len(ids))}
	var failures []error
	for i, m := range models.Maturities {
		r := results[i]
		switch {
		case r.err != nil:
			failures = append(failures, r.err)
			e.log.Warn("yield curve maturity skipped",
				logger.String("entity", string(entity)),
				logger.String("maturity", string(m)),
				logger.Error(r.err),
			)
		case r.ok:
			curve.Points = append(curve.Points, models.CurvePoint{Maturity: m, Value: r.value})
		}
	}
	if len(failures) > 0 && len(failures) == len(ids) {
		return models.YieldCurve{}, errors.Join(failures...)
	}
	return curve, nil
}
