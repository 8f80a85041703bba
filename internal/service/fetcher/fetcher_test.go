package fetcher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MacroPull/internal/domain/errs"
	"MacroPull/internal/domain/models"
)

type fakeStat struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeStat) Observations(_ context.Context, id string, _ *time.Time) (models.TimeSeries, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return models.TimeSeries{}, f.err
	}
	return models.NewTimeSeries(id, []models.Point{{Time: time.Unix(0, 0), Value: 1}}), nil
}

type fakeQuote struct{ err error }

func (f fakeQuote) History(_ context.Context, t string, p models.Period) (models.QuoteHistory, error) {
	return models.QuoteHistory{Ticker: t, Period: p}, f.err
}
func (f fakeQuote) Fundamentals(_ context.Context, t string) (models.Fundamentals, error) {
	return models.Fundamentals{Ticker: t}, f.err
}
func (f fakeQuote) Statement(_ context.Context, t string, k models.StatementKind) (models.Statement, error) {
	return models.Statement{Ticker: t, Kind: k}, f.err
}

type fakeMetrics struct {
	mu      sync.Mutex
	results map[string]int
}

func (m *fakeMetrics) RecordProviderCall(provider, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.results == nil {
		m.results = map[string]int{}
	}
	m.results[provider+"/"+result]++
}
func (m *fakeMetrics) RecordCache(string, bool) {}
func (m *fakeMetrics) RecordArchived(string, int) {}
func (m *fakeMetrics) RecordError(string) {}
func (m *fakeMetrics) RecordLastValue(string, float64) {}
func (m *fakeMetrics) RecordLatency(string, float64) {}

func TestFetchStatisticalSeriesOneRoundTrip(t *testing.T) {
	stat := &fakeStat{}
	m := &fakeMetrics{}
	f := New(stat, fakeQuote{}, WithMetrics(m), WithLimit(ProviderStatistical, 0, 0))

	s, err := f.FetchStatisticalSeries(context.Background(), "GDP", nil)
	require.NoError(t, err)
	assert.Equal(t, "GDP", s.ID)
	assert.Equal(t, 1, stat.calls)
	assert.Equal(t, 1, m.results["fred/ok"])
}

func TestFetchPropagatesTypedErrors(t *testing.T) {
	m := &fakeMetrics{}
	f := New(&fakeStat{err: errs.Unavailable("fred", "x", errors.New("down"))},
		fakeQuote{err: errs.InvalidTicker("yahoo", "ZZZ", nil)},
		WithMetrics(m))

	_, err := f.FetchStatisticalSeries(context.Background(), "GDP", nil)
	assert.ErrorIs(t, err, errs.ErrProviderUnavailable)

	_, err = f.FetchQuoteHistory(context.Background(), "ZZZ", models.Period1Y)
	assert.ErrorIs(t, err, errs.ErrInvalidTicker)
	assert.Equal(t, 1, m.results["fred/unavailable"])
	assert.Equal(t, 1, m.results["yahoo/invalid_ticker"])
}

func TestFetchRespectsCancelledContextWhileThrottled(t *testing.T) {
	stat := &fakeStat{}
	f := New(stat, fakeQuote{}, WithLimit(ProviderStatistical, 0.001, 1))

	_, err := f.FetchStatisticalSeries(context.Background(), "A", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = f.FetchStatisticalSeries(ctx, "B", nil)
	require.Error(t, err)
	assert.Equal(t, 1, stat.calls)
}

func TestFetchStatementAndFundamentals(t *testing.T) {
	f := New(&fakeStat{}, fakeQuote{})
	st, err := f.FetchStatement(context.Background(), "AAPL", models.StatementBalance)
	require.NoError(t, err)
	assert.Equal(t, models.StatementBalance, st.Kind)

	fu, err := f.FetchFundamentals(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", fu.Ticker)
}
