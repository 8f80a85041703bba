package usecase

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"MacroPull/internal/catalog"
	"MacroPull/internal/domain/models"
	"MacroPull/internal/services/analytics"
)

var (
	gdpLags          = map[string]int{models.VarQoQ: 1, models.VarYoY: 4}
	cpiLags          = map[string]int{models.VarMoM: 1, models.VarYoY: 12}
	singlePeriodLags = map[string]int{models.VarPeriod: 1}
)

// GDP returns GDP series with quarter and year over year variations.
func (d *Dashboard) GDP(ctx context.Context, entities []models.Entity) (*models.Analytic, error) {
	return d.family(ctx, models.MetricGDP, entities, gdpLags)
}

// CPI returns CPI series with month and year over year variations.
func (d *Dashboard) CPI(ctx context.Context, entities []models.Entity) (*models.Analytic, error) {
	return d.family(ctx, models.MetricCPI, entities, cpiLags)
}

// Unemployment covers every entity the catalog has an unemployment rate for.
func (d *Dashboard) Unemployment(ctx context.Context) (*models.Analytic, error) {
	return d.family(ctx, models.MetricUnemployment, nil, singlePeriodLags)
}

// PolicyRates covers every entity the catalog has a policy rate for.
func (d *Dashboard) PolicyRates(ctx context.Context) (*models.Analytic, error) {
	return d.family(ctx, models.MetricPolicyRate, nil, singlePeriodLags)
}

// Bonds returns 10 year government yields.
func (d *Dashboard) Bonds(ctx context.Context, entities []models.Entity) (*models.Analytic, error) {
	return d.family(ctx, models.MetricBond10Y, entities, singlePeriodLags)
}

// NormalizedGDP rebases each entity's GDP to 100 at its first observation.
func (d *Dashboard) NormalizedGDP(ctx context.Context, entities []models.Entity) (map[string]models.TimeSeries, error) {
	raw, err := d.rawFamily(ctx, models.MetricGDP, entities)
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.TimeSeries, len(raw))
	for entity, s := range raw {
		n, err := analytics.NormalizeTo100(s)
		if err != nil {
			return nil, fmt.Errorf("normalized gdp %s: %w", entity, err)
		}
		out[entity] = n
	}
	return out, nil
}

// family fetches metric for entities (all catalog entities when empty) and
// summarizes each series with lags.
func (d *Dashboard) family(ctx context.Context, metric models.Metric, entities []models.Entity, lags map[string]int) (*models.Analytic, error) {
	raw, err := d.rawFamily(ctx, metric, entities)
	if err != nil {
		return nil, err
	}
	res := models.NewAnalytic(len(raw))
	for entity, s := range raw {
		sum, err := analytics.Summarize(s, analytics.Decimals, lags)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", metric, entity, err)
		}
		res.Series[entity] = s
		res.Summary[entity] = sum
	}
	return res, nil
}

// rawFamily resolves every entity before fetching anything, then fetches
// all series concurrently. The first failure cancels the rest.
func (d *Dashboard) rawFamily(ctx context.Context, metric models.Metric, entities []models.Entity) (map[string]models.TimeSeries, error) {
	if len(entities) == 0 {
		entities = d.catalog.Entities(metric)
	}
	entities = dedupEntities(entities)

	type job struct {
		entity models.Entity
		entry  catalog.Entry
		series models.TimeSeries
	}
	jobs := make([]job, len(entities))
	for i, e := range entities {
		entry, err := d.catalog.Resolve(e, metric)
		if err != nil {
			return nil, err
		}
		jobs[i] = job{entity: e, entry: entry}
	}

	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	for i := range jobs {
		g.Go(func() error {
			s, err := d.series(gctx, jobs[i].entry)
			if err != nil {
				return err
			}
			jobs[i].series = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]models.TimeSeries, len(jobs))
	for _, j := range jobs {
		out[string(j.entity)] = j.series
	}
	return out, nil
}
