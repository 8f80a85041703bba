package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MacroPull/internal/domain/errs"
	"MacroPull/internal/domain/models"
)

func newClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(WithBaseURL(srv.URL))
}

const chartBody = `{"chart":{"result":[{"meta":{"symbol":"AAPL"},
"timestamp":[1704153600,1704240000,1704326400,1704326400,1704412800],
"indicators":{"quote":[{
 "open":[1,2,3,3.5,4],
 "high":[1.5,2.5,3.5,4,4.5],
 "low":[0.5,1.5,2.5,3,3.5],
 "close":[1.2,null,3.2,3.4,4.2],
 "volume":[10,20,30,35,40]}]}}],"error":null}}`

func TestHistoryParsesBars(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v8/finance/chart/AAPL", r.URL.Path)
		assert.Equal(t, "1y", r.URL.Query().Get("range"))
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		_, _ = w.Write([]byte(chartBody))
	})

	h, err := c.History(context.Background(), "AAPL", models.Period1Y)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", h.Ticker)
	// null close dropped, duplicate timestamp keeps the last bar
	assert.Equal(t, []float64{1.2, 3.4, 4.2}, h.Close.Values())
	require.Len(t, h.Bars, 3)
	assert.Equal(t, 35.0, h.Bars[1].Volume)
	assert.Equal(t, time.Unix(1704412800, 0).UTC(), h.Bars[2].Time)
}

func TestHistoryEmptyWindow(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"chart":{"result":[{"meta":{},"indicators":{"quote":[{}]}}],"error":null}}`))
	})
	h, err := c.History(context.Background(), "GC=F", models.Period1D)
	require.NoError(t, err)
	assert.True(t, h.Close.IsEmpty())
	assert.Empty(t, h.Bars)
}

func TestHistoryUnknownTicker(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	})
	_, err := c.History(context.Background(), "ZZZZ", models.Period1Y)
	assert.ErrorIs(t, err, errs.ErrInvalidTicker)
}

func TestHistoryErrorInBody(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"delisted"}}}`))
	})
	_, err := c.History(context.Background(), "ZZZZ", models.Period1Y)
	assert.ErrorIs(t, err, errs.ErrInvalidTicker)
}

func TestHistoryServerError(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := c.History(context.Background(), "AAPL", models.Period1Y)
	assert.ErrorIs(t, err, errs.ErrProviderUnavailable)
}

func TestFundamentals(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v10/finance/quoteSummary/AAPL", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("modules"), "assetProfile")
		_, _ = w.Write([]byte(`{"quoteSummary":{"result":[{
			"assetProfile":{"sector":"Technology","industry":"Consumer Electronics"},
			"summaryDetail":{"beta":{"raw":1.2},"trailingPE":{"raw":30.5},"dividendYield":{}},
			"defaultKeyStatistics":{"trailingEps":{"raw":6.1}},
			"price":{"marketCap":{"raw":3000000000000}}}],"error":null}}`))
	})
	f, err := c.Fundamentals(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Technology", f.Sector)
	assert.Equal(t, models.Available(1.2), f.Beta)
	assert.Equal(t, models.Available(3e12), f.MarketCap)
	assert.False(t, f.DividendYield.Available)
	assert.Equal(t, models.Available(6.1), f.TrailingEPS)
}

func TestStatement(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "incomeStatementHistory", r.URL.Query().Get("modules"))
		_, _ = w.Write([]byte(`{"quoteSummary":{"result":[{"incomeStatementHistory":{"incomeStatementHistory":[
			{"maxAge":1,"endDate":{"raw":1696032000},"totalRevenue":{"raw":383285000000},"netIncome":{"raw":96995000000},"minorityInterest":{}},
			{"maxAge":1,"endDate":{"raw":1664496000},"totalRevenue":{"raw":394328000000}}]}}],"error":null}}`))
	})
	st, err := c.Statement(context.Background(), "AAPL", models.StatementIncome)
	require.NoError(t, err)
	require.Len(t, st.Periods, 2)
	assert.Equal(t, 383285000000.0, st.Periods[0].Items["totalRevenue"])
	assert.NotContains(t, st.Periods[0].Items, "maxAge")
	assert.NotContains(t, st.Periods[0].Items, "minorityInterest")
	assert.Equal(t, time.Unix(1696032000, 0).UTC(), st.Periods[0].EndDate)
}

func TestStatementUnknownKind(t *testing.T) {
	_, err := New().Statement(context.Background(), "AAPL", "dividends")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
