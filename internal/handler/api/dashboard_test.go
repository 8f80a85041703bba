package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MacroPull/internal/domain/errs"
	"MacroPull/internal/domain/models"
)

type fakeDashboard struct {
	err      error
	entities []models.Entity
	period   models.Period
	a, b     models.Entity
	tickers  []string
	kind     models.StatementKind
}

func (f *fakeDashboard) analytic(entities []models.Entity) (*models.Analytic, error) {
	f.entities = entities
	if f.err != nil {
		return nil, f.err
	}
	a := models.NewAnalytic(1)
	a.Summary["USA"] = models.Summary{Value: models.Available(1.5), Variations: models.Variations{models.VarQoQ: models.NotAvailable}}
	return a, nil
}

func (f *fakeDashboard) GDP(_ context.Context, e []models.Entity) (*models.Analytic, error) {
	return f.analytic(e)
}
func (f *fakeDashboard) CPI(_ context.Context, e []models.Entity) (*models.Analytic, error) {
	return f.analytic(e)
}
func (f *fakeDashboard) Unemployment(context.Context) (*models.Analytic, error) { return f.analytic(nil) }
func (f *fakeDashboard) NormalizedGDP(_ context.Context, e []models.Entity) (map[string]models.TimeSeries, error) {
	f.entities = e
	return map[string]models.TimeSeries{}, f.err
}
func (f *fakeDashboard) Forex(_ context.Context, e []models.Entity, p models.Period) (*models.Analytic, error) {
	f.period = p
	return f.analytic(e)
}
func (f *fakeDashboard) Commodities(_ context.Context, p models.Period) (*models.Analytic, error) {
	f.period = p
	return f.analytic(nil)
}
func (f *fakeDashboard) PolicyRates(context.Context) (*models.Analytic, error) { return f.analytic(nil) }
func (f *fakeDashboard) Bonds(_ context.Context, e []models.Entity) (*models.Analytic, error) {
	return f.analytic(e)
}
func (f *fakeDashboard) BondSpread(_ context.Context, a, b models.Entity) (*models.SpreadResult, error) {
	f.a, f.b = a, b
	return &models.SpreadResult{A: string(a), B: string(b), Latest: models.Available(2.1)}, f.err
}
func (f *fakeDashboard) YieldCurve(_ context.Context, e models.Entity) (models.YieldCurve, error) {
	return models.YieldCurve{Entity: e}, f.err
}
func (f *fakeDashboard) EquityQuote(_ context.Context, ticker string, p models.Period) (*models.EquityQuote, error) {
	f.period = p
	return &models.EquityQuote{Ticker: ticker, Period: p}, f.err
}
func (f *fakeDashboard) Correlation(_ context.Context, tickers []string, _ models.Period) (models.CorrelationMatrix, error) {
	f.tickers = tickers
	return models.CorrelationMatrix{Tickers: tickers}, f.err
}
func (f *fakeDashboard) Statement(_ context.Context, ticker string, kind models.StatementKind) (models.Statement, error) {
	f.kind = kind
	return models.Statement{Ticker: ticker, Kind: kind}, f.err
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func serve(t *testing.T, dash Dashboard, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	e := echo.New()
	NewDashboardHandler(nil, dash).RegisterRoutes(e)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func TestGDPParsesEntities(t *testing.T) {
	f := &fakeDashboard{}
	rec, env := serve(t, f, "/api/macro/gdp?entities=USA,%20France")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []models.Entity{"USA", "France"}, f.entities)
	assert.JSONEq(t, `{"series":{},"summary":{"USA":{"value":1.5,"variations":{"QoQ":null}}}}`, string(env.Data))
}

func TestDefaultsApplied(t *testing.T) {
	f := &fakeDashboard{}
	_, _ = serve(t, f, "/api/markets/forex")
	assert.Equal(t, []models.Entity{"France", "UK", "Japan", "China", "Switzerland"}, f.entities)
	assert.Equal(t, models.Period("1y"), f.period)

	_, _ = serve(t, f, "/api/rates/spread")
	assert.Equal(t, models.Entity("USA"), f.a)
	assert.Equal(t, models.Entity("Germany"), f.b)

	_, _ = serve(t, f, "/api/equity/statements?ticker=AAPL")
	assert.Equal(t, models.StatementKind("income"), f.kind)
}

func TestValidationErrors(t *testing.T) {
	cases := []string{
		"/api/equity/quote",
		"/api/equity/quote?ticker=AAPL&period=7y",
		"/api/equity/statements?ticker=AAPL&kind=ledger",
		"/api/rates/spread?a=USA&b=USA",
		"/api/equity/correlation?tickers=AAPL",
	}
	for _, target := range cases {
		t.Run(target, func(t *testing.T) {
			rec, env := serve(t, &fakeDashboard{}, target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, http.StatusBadRequest, env.Status)
		})
	}
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
		name string
	}{
		{errs.NotFoundf("gdp for Atlantis"), http.StatusNotFound, "ERR_NOT_FOUND"},
		{errs.InvalidTicker("yahoo", "ZZZZ", nil), http.StatusBadRequest, "ERR_INVALID_TICKER"},
		{errs.ErrEmptySeries, http.StatusUnprocessableEntity, "ERR_EMPTY_SERIES"},
		{errs.Unavailable("fred", "observations", assert.AnError), http.StatusServiceUnavailable, "ERR_PROVIDER_UNAVAILABLE"},
		{context.DeadlineExceeded, http.StatusServiceUnavailable, "ERR_PROVIDER_UNAVAILABLE"},
		{assert.AnError, http.StatusInternalServerError, "ERR_INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := serve(t, &fakeDashboard{err: tc.err}, "/api/macro/cpi")
			assert.Equal(t, tc.code, rec.Code)
			var details []map[string]interface{}
			require.NoError(t, json.Unmarshal(env.Data, &details))
			require.Len(t, details, 1)
			assert.Equal(t, tc.name, details[0]["code"])
		})
	}
}

func TestCorrelationSplitsTickers(t *testing.T) {
	f := &fakeDashboard{}
	rec, _ := serve(t, f, "/api/equity/correlation?tickers=aapl,msft,,spy&period=6mo")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"aapl", "msft", "spy"}, f.tickers)
}

func TestHealthz(t *testing.T) {
	rec, env := serve(t, &fakeDashboard{}, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))
}

func TestUnknownPeriodListsOptions(t *testing.T) {
	rec, env := serve(t, &fakeDashboard{}, "/api/markets/forex?period=7y")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var errs []struct {
		Code    string                 `json:"code"`
		Field   string                 `json:"field"`
		Message string                 `json:"message"`
		Params  map[string]interface{} `json:"params"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &errs))
	require.Len(t, errs, 1)
	assert.Equal(t, "ERR_PERIOD", errs[0].Code)
	assert.Equal(t, "period", errs[0].Field)
	assert.Contains(t, errs[0].Message, "1d, 5d, 1mo")
	assert.Len(t, errs[0].Params["options"], len(models.Periods))
}

func TestHealthzReportsFailingCheck(t *testing.T) {
	e := echo.New()
	NewDashboardHandler(nil, &fakeDashboard{}).
		AddHealthCheck("clickhouse", func(context.Context) error { return errors.New("connection refused") }).
		AddHealthCheck("redis", func(context.Context) error { return nil }).
		RegisterRoutes(e)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.JSONEq(t, `{"status":"degraded","clickhouse":"connection refused","redis":"ok"}`, string(env.Data))
}

func TestCurveDefaultsToUSA(t *testing.T) {
	rec, env := serve(t, &fakeDashboard{}, "/api/rates/curve")
	assert.Equal(t, http.StatusOK, rec.Code)
	var curve models.YieldCurve
	require.NoError(t, json.Unmarshal(env.Data, &curve))
	assert.Equal(t, models.USA, curve.Entity)
}
