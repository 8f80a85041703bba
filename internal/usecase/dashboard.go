package usecase

import (
	"context"
	"fmt"
	"time"

	"MacroPull/internal/catalog"
	"MacroPull/internal/domain/models"
	"MacroPull/internal/domain/service"
	"MacroPull/internal/services/analytics"
	"MacroPull/pkg/cache"
	"MacroPull/pkg/logger"
	"MacroPull/pkg/util"
)

// DefaultTTL is how long fetched data stays fresh.
const DefaultTTL = time.Hour

// Cache operations. They double as metric labels.
const (
	opSeries       = "fred.series"
	opHistory      = "yahoo.history"
	opFundamentals = "yahoo.fundamentals"
	opStatement    = "yahoo.statement"
	opCurve        = "rates.curve"
)

// Dashboard serves every analytic family. Raw provider data goes through
// the cache layer; derived figures are recomputed from it on each call.
type Dashboard struct {
	fetcher  service.Fetcher
	catalog  *catalog.Catalog
	engine   *analytics.Engine
	cache    *cache.Layer
	archiver *SeriesArchiver
	log      *logger.Logger
	ttl      time.Duration
	timeout  time.Duration
}

type DashboardOption func(*Dashboard)

func WithTTL(ttl time.Duration) DashboardOption {
	return func(d *Dashboard) { d.ttl = ttl }
}

// WithTimeout bounds a whole dashboard call.
func WithTimeout(t time.Duration) DashboardOption {
	return func(d *Dashboard) { d.timeout = t }
}

func WithArchiver(a *SeriesArchiver) DashboardOption {
	return func(d *Dashboard) { d.archiver = a }
}

func WithLogger(l *logger.Logger) DashboardOption {
	return func(d *Dashboard) { d.log = l }
}

func NewDashboard(f service.Fetcher, c *catalog.Catalog, e *analytics.Engine, layer *cache.Layer, opts ...DashboardOption) *Dashboard {
	d := &Dashboard{
		fetcher: f,
		catalog: c,
		engine:  e,
		cache:   layer,
		log:     logger.Nop(),
		ttl:     DefaultTTL,
		timeout: 30 * time.Second,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func (d *Dashboard) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.timeout)
}

// series returns the cached raw observations of id.
func (d *Dashboard) series(ctx context.Context, e catalog.Entry) (models.TimeSeries, error) {
	key := cache.Key(opSeries, e.SeriesID, util.FormatDate(e.Start))
	return cache.GetOrCompute(ctx, d.cache, key, d.ttl, func(ctx context.Context) (models.TimeSeries, error) {
		s, err := d.fetcher.FetchStatisticalSeries(ctx, e.SeriesID, e.Start)
		if err != nil {
			return models.TimeSeries{}, fmt.Errorf("fetch series %s: %w", e.SeriesID, err)
		}
		d.archiver.Enqueue("fred", s)
		return s, nil
	})
}

// history returns the cached quote history of ticker over period.
func (d *Dashboard) history(ctx context.Context, ticker string, period models.Period) (models.QuoteHistory, error) {
	key := cache.Key(opHistory, ticker, period)
	return cache.GetOrCompute(ctx, d.cache, key, d.ttl, func(ctx context.Context) (models.QuoteHistory, error) {
		h, err := d.fetcher.FetchQuoteHistory(ctx, ticker, period)
		if err != nil {
			return models.QuoteHistory{}, fmt.Errorf("fetch history %s: %w", ticker, err)
		}
		d.archiver.Enqueue("yahoo", h.Close)
		return h, nil
	})
}

// dedupEntities drops repeated entities, keeping first occurrences.
func dedupEntities(in []models.Entity) []models.Entity {
	seen := make(map[models.Entity]bool, len(in))
	out := make([]models.Entity, 0, len(in))
	for _, e := range in {
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	return out
}
