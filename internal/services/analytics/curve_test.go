package analytics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MacroPull/internal/catalog"
	"MacroPull/internal/domain/errs"
	"MacroPull/internal/domain/models"
)

type curveFetcher struct {
	mu     sync.Mutex
	values map[string]float64
	fail   map[string]bool
	calls  int
}

func (f *curveFetcher) FetchStatisticalSeries(_ context.Context, id string, _ *time.Time) (models.TimeSeries, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.fail[id] {
		return models.TimeSeries{}, errs.Unavailable("fred", id, errors.New("boom"))
	}
	v, ok := f.values[id]
	if !ok {
		return models.TimeSeries{ID: id}, nil
	}
	return models.NewTimeSeries(id, []models.Point{
		{Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Value: v - 0.1},
		{Time: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Value: v},
	}), nil
}

func (f *curveFetcher) FetchQuoteHistory(context.Context, string, models.Period) (models.QuoteHistory, error) {
	return models.QuoteHistory{}, nil
}
func (f *curveFetcher) FetchFundamentals(context.Context, string) (models.Fundamentals, error) {
	return models.Fundamentals{}, nil
}
func (f *curveFetcher) FetchStatement(context.Context, string, models.StatementKind) (models.Statement, error) {
	return models.Statement{}, nil
}

func allMaturities() map[string]float64 {
	return map[string]float64{
		"DGS1MO": 5.5, "DGS3MO": 5.4, "DGS6MO": 5.3, "DGS1": 5.0, "DGS2": 4.6,
		"DGS5": 4.2, "DGS7": 4.2, "DGS10": 4.1, "DGS20": 4.4, "DGS30": 4.3,
	}
}

func TestYieldCurveSkipsFailedMaturity(t *testing.T) {
	f := &curveFetcher{values: allMaturities(), fail: map[string]bool{"DGS7": true}}
	e := NewEngine(f, catalog.Default(), nil)

	c, err := e.YieldCurve(context.Background(), models.USA)
	require.NoError(t, err)
	assert.Equal(t, 10, f.calls)
	require.Len(t, c.Points, 9)

	want := []models.Maturity{models.M1M, models.M3M, models.M6M, models.M1Y, models.M2Y, models.M5Y, models.M10Y, models.M20Y, models.M30Y}
	for i, p := range c.Points {
		assert.Equal(t, want[i], p.Maturity)
	}
	_, ok := c.Get(models.M7Y)
	assert.False(t, ok)
	v, _ := c.Get(models.M10Y)
	assert.Equal(t, 4.1, v)
}

func TestYieldCurveSkipsEmptyMaturity(t *testing.T) {
	values := allMaturities()
	delete(values, "DGS20")
	e := NewEngine(&curveFetcher{values: values}, catalog.Default(), nil)

	c, err := e.YieldCurve(context.Background(), models.USA)
	require.NoError(t, err)
	assert.Len(t, c.Points, 9)
}

func TestYieldCurveUnknownEntity(t *testing.T) {
	f := &curveFetcher{values: allMaturities()}
	_, err := NewEngine(f, catalog.Default(), nil).YieldCurve(context.Background(), models.China)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.Zero(t, f.calls)
}

func TestYieldCurveAllFailed(t *testing.T) {
	fail := map[string]bool{}
	for id := range allMaturities() {
		fail[id] = true
	}
	_, err := NewEngine(&curveFetcher{fail: fail}, catalog.Default(), nil).YieldCurve(context.Background(), models.USA)
	assert.ErrorIs(t, err, errs.ErrProviderUnavailable)
}
