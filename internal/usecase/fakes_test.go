package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"MacroPull/internal/catalog"
	"MacroPull/internal/domain/errs"
	"MacroPull/internal/domain/models"
	drepo "MacroPull/internal/domain/repository"
	"MacroPull/internal/services/analytics"
	"MacroPull/pkg/cache"
)

type fakeFetcher struct {
	mu     sync.Mutex
	series map[string][]float64
	quotes map[string][]float64
	fail   map[string]error
	calls  map[string]int
	delay  time.Duration
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		series: map[string][]float64{},
		quotes: map[string][]float64{},
		fail:   map[string]error{},
		calls:  map[string]int{},
	}
}

func (f *fakeFetcher) count(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id]
}

func (f *fakeFetcher) hit(id string) error {
	f.mu.Lock()
	f.calls[id]++
	err := f.fail[id]
	f.mu.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return err
}

func build(id string, values []float64, step func(int) time.Time) models.TimeSeries {
	pts := make([]models.Point, len(values))
	for i, v := range values {
		pts[i] = models.Point{Time: step(i), Value: v}
	}
	return models.NewTimeSeries(id, pts)
}

func quarter(i int) time.Time { return time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 3*i, 0) }
func day(i int) time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i) }

func (f *fakeFetcher) FetchStatisticalSeries(_ context.Context, id string, _ *time.Time) (models.TimeSeries, error) {
	if err := f.hit(id); err != nil {
		return models.TimeSeries{}, err
	}
	f.mu.Lock()
	v := f.series[id]
	f.mu.Unlock()
	return build(id, v, quarter), nil
}

func (f *fakeFetcher) FetchQuoteHistory(_ context.Context, ticker string, p models.Period) (models.QuoteHistory, error) {
	if err := f.hit(ticker); err != nil {
		return models.QuoteHistory{}, err
	}
	f.mu.Lock()
	v, ok := f.quotes[ticker]
	f.mu.Unlock()
	if !ok {
		return models.QuoteHistory{}, errs.InvalidTicker("yahoo", ticker, errors.New("not found"))
	}
	h := models.QuoteHistory{Ticker: ticker, Period: p, Close: build(ticker, v, day)}
	for i, c := range v {
		h.Bars = append(h.Bars, models.Bar{Time: day(i), Open: c, High: c, Low: c, Close: c, Volume: 1})
	}
	return h, nil
}

func (f *fakeFetcher) FetchFundamentals(_ context.Context, ticker string) (models.Fundamentals, error) {
	if err := f.hit("fundamentals:" + ticker); err != nil {
		return models.Fundamentals{}, err
	}
	return models.Fundamentals{Ticker: ticker, Sector: "Technology", Beta: models.Available(1.1)}, nil
}

func (f *fakeFetcher) FetchStatement(_ context.Context, ticker string, kind models.StatementKind) (models.Statement, error) {
	if err := f.hit("statement:" + ticker); err != nil {
		return models.Statement{}, err
	}
	return models.Statement{Ticker: ticker, Kind: kind, Periods: []models.StatementPeriod{{EndDate: day(0), Items: map[string]float64{"totalRevenue": 1}}}}, nil
}

func newDashboard(f *fakeFetcher, opts ...DashboardOption) *Dashboard {
	c := catalog.Default()
	return NewDashboard(f, c, analytics.NewEngine(f, c, nil), cache.NewLayer(), opts...)
}

type fakePublisher struct {
	mu  sync.Mutex
	obs []drepo.Observation
	err error
}

func (p *fakePublisher) PublishBatch(_ context.Context, obs []drepo.Observation) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.obs = append(p.obs, obs...)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

// fakeStorage satisfies drepo.Storage; pingErr is returned by Health.
type fakeStorage struct {
	mu      sync.Mutex
	obs     []drepo.Observation
	pingErr error
}

func (s *fakeStorage) Init(context.Context) error { return nil }

func (s *fakeStorage) StoreBatch(_ context.Context, obs []drepo.Observation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.obs = append(s.obs, obs...)
	return nil
}

func (s *fakeStorage) Health(context.Context) error { return s.pingErr }

func (s *fakeStorage) Close() error { return nil }

type nopMetrics struct{}

func (nopMetrics) RecordProviderCall(string, string) {}
func (nopMetrics) RecordCache(string, bool) {}
func (nopMetrics) RecordArchived(string, int) {}
func (nopMetrics) RecordError(string) {}
func (nopMetrics) RecordLastValue(string, float64) {}
func (nopMetrics) RecordLatency(string, float64) {}

// blockingPublisher holds every batch until its context ends or release is
// closed.
type blockingPublisher struct {
	release chan struct{}
	started chan struct{}
	calls   atomic.Int32
}

func newBlockingPublisher() *blockingPublisher {
	return &blockingPublisher{release: make(chan struct{}), started: make(chan struct{}, 64)}
}

func (p *blockingPublisher) PublishBatch(ctx context.Context, _ []drepo.Observation) error {
	p.calls.Add(1)
	p.started <- struct{}{}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.release:
		return nil
	}
}

func (p *blockingPublisher) Close() error { return nil }

type errorCounter struct {
	nopMetrics
	mu     sync.Mutex
	errors map[string]int
}

func (m *errorCounter) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.errors == nil {
		m.errors = make(map[string]int)
	}
	m.errors[kind]++
}

func (m *errorCounter) count(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errors[kind]
}
