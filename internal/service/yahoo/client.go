// Package yahoo is a client for the Yahoo Finance chart and quoteSummary
// endpoints. Responses are read with gjson since both payloads are deeply
// nested and sparsely populated.
package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"MacroPull/internal/domain/errs"
	"MacroPull/internal/domain/models"
	xhttp "MacroPull/pkg/http"
)

const (
	DefaultBaseURL = "https://query1.finance.yahoo.com"
	providerName   = "yahoo"
	dailyInterval  = "1d"
)

type Option func(*Client)

// WithBaseURL points the client at another host (tests, proxies).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient injects the transport.
func WithHTTPClient(h *xhttp.Client) Option {
	return func(c *Client) { c.http = h }
}

// Client fetches quote history, fundamentals and statements.
type Client struct {
	baseURL string
	http    *xhttp.Client
}

func New(opts ...Option) *Client {
	c := &Client{baseURL: DefaultBaseURL}
	for _, o := range opts {
		o(c)
	}
	if c.http == nil {
		c.http = xhttp.NewClient(
			xhttp.WithTimeout(15*time.Second),
			xhttp.WithUserAgent("Mozilla/5.0 (compatible; MacroPull/1.0)"),
		)
	}
	return c
}

func (c *Client) get(ctx context.Context, op, path string, q map[string][]string) (gjson.Result, error) {
	var body []byte
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      http.MethodGet,
		URL:         c.baseURL + path,
		QueryParams: q,
	}, &body)
	if err != nil {
		if se, ok := xhttp.AsStatusError(err); ok && se.Code == http.StatusNotFound {
			return gjson.Result{}, errNotFound
		}
		return gjson.Result{}, errs.Unavailable(providerName, op, err)
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, errs.Unavailable(providerName, op, errors.New("malformed response"))
	}
	return gjson.ParseBytes(body), nil
}

var errNotFound = errors.New("symbol not found")

// History returns daily closes and OHLCV bars for ticker over period.
// Bars with a null close are skipped; duplicate timestamps keep the last bar.
func (c *Client) History(ctx context.Context, ticker string, period models.Period) (models.QuoteHistory, error) {
	root, err := c.get(ctx, "chart", "/v8/finance/chart/"+url.PathEscape(ticker), map[string][]string{
		"range":    {string(period)},
		"interval": {dailyInterval},
	})
	if err != nil {
		return models.QuoteHistory{}, c.tickerErr(ticker, err)
	}
	if e := root.Get("chart.error"); e.Exists() && e.Type != gjson.Null {
		return models.QuoteHistory{}, chartError(ticker, e)
	}

	res := root.Get("chart.result.0")
	if !res.Exists() {
		return models.QuoteHistory{}, errs.InvalidTicker(providerName, ticker, errors.New("no result"))
	}

	h := models.QuoteHistory{Ticker: ticker, Period: period}
	stamps := res.Get("timestamp").Array()
	quote := res.Get("indicators.quote.0")
	opens := quote.Get("open").Array()
	highs := quote.Get("high").Array()
	lows := quote.Get("low").Array()
	closes := quote.Get("close").Array()
	vols := quote.Get("volume").Array()

	bars := make([]models.Bar, 0, len(stamps))
	points := make([]models.Point, 0, len(stamps))
	for i, ts := range stamps {
		cl := at(closes, i)
		if cl.Type != gjson.Number {
			continue
		}
		t := time.Unix(ts.Int(), 0).UTC()
		b := models.Bar{
			Time:   t,
			Open:   at(opens, i).Float(),
			High:   at(highs, i).Float(),
			Low:    at(lows, i).Float(),
			Close:  cl.Float(),
			Volume: at(vols, i).Float(),
		}
		if n := len(bars); n > 0 && bars[n-1].Time.Equal(t) {
			bars[n-1] = b
		} else {
			bars = append(bars, b)
		}
		points = append(points, models.Point{Time: t, Value: b.Close})
	}
	h.Bars = bars
	h.Close = models.NewTimeSeries(ticker, points)
	return h, nil
}

func at(a []gjson.Result, i int) gjson.Result {
	if i < len(a) {
		return a[i]
	}
	return gjson.Result{}
}

const fundamentalsModules = "assetProfile,summaryDetail,defaultKeyStatistics,price"

// Fundamentals returns the ticker info card.
func (c *Client) Fundamentals(ctx context.Context, ticker string) (models.Fundamentals, error) {
	res, err := c.quoteSummary(ctx, ticker, fundamentalsModules)
	if err != nil {
		return models.Fundamentals{}, err
	}
	f := models.Fundamentals{
		Ticker:        ticker,
		Sector:        res.Get("assetProfile.sector").String(),
		Industry:      res.Get("assetProfile.industry").String(),
		MarketCap:     raw(res, "price.marketCap", "summaryDetail.marketCap"),
		Beta:          raw(res, "summaryDetail.beta", "defaultKeyStatistics.beta"),
		TrailingPE:    raw(res, "summaryDetail.trailingPE"),
		DividendYield: raw(res, "summaryDetail.dividendYield"),
		TrailingEPS:   raw(res, "defaultKeyStatistics.trailingEps"),
	}
	return f, nil
}

var statementPaths = map[models.StatementKind]struct{ module, list string }{
	models.StatementIncome:   {"incomeStatementHistory", "incomeStatementHistory.incomeStatementHistory"},
	models.StatementBalance:  {"balanceSheetHistory", "balanceSheetHistory.balanceSheetStatements"},
	models.StatementCashflow: {"cashflowStatementHistory", "cashflowStatementHistory.cashflowStatements"},
}

// Statement returns the annual statement of kind, most recent period first.
func (c *Client) Statement(ctx context.Context, ticker string, kind models.StatementKind) (models.Statement, error) {
	p, ok := statementPaths[kind]
	if !ok {
		return models.Statement{}, errs.NotFoundf("unknown statement kind %q", kind)
	}
	res, err := c.quoteSummary(ctx, ticker, p.module)
	if err != nil {
		return models.Statement{}, err
	}

	st := models.Statement{Ticker: ticker, Kind: kind}
	for _, row := range res.Get(p.list).Array() {
		period := models.StatementPeriod{
			EndDate: time.Unix(row.Get("endDate.raw").Int(), 0).UTC(),
			Items:   make(map[string]float64),
		}
		row.ForEach(func(k, v gjson.Result) bool {
			name := k.String()
			if name == "endDate" || name == "maxAge" {
				return true
			}
			if r := v.Get("raw"); r.Type == gjson.Number {
				period.Items[name] = r.Float()
			}
			return true
		})
		st.Periods = append(st.Periods, period)
	}
	return st, nil
}

func (c *Client) quoteSummary(ctx context.Context, ticker, modules string) (gjson.Result, error) {
	root, err := c.get(ctx, "quoteSummary", "/v10/finance/quoteSummary/"+url.PathEscape(ticker), map[string][]string{
		"modules": {modules},
	})
	if err != nil {
		return gjson.Result{}, c.tickerErr(ticker, err)
	}
	if e := root.Get("quoteSummary.error"); e.Exists() && e.Type != gjson.Null {
		return gjson.Result{}, chartError(ticker, e)
	}
	res := root.Get("quoteSummary.result.0")
	if !res.Exists() {
		return gjson.Result{}, errs.InvalidTicker(providerName, ticker, errors.New("no result"))
	}
	return res, nil
}

func (c *Client) tickerErr(ticker string, err error) error {
	if errors.Is(err, errNotFound) {
		return errs.InvalidTicker(providerName, ticker, err)
	}
	return err
}

func chartError(ticker string, e gjson.Result) error {
	code := e.Get("code").String()
	desc := e.Get("description").String()
	if strings.EqualFold(code, "Not Found") {
		return errs.InvalidTicker(providerName, ticker, errors.New(desc))
	}
	return errs.Unavailable(providerName, "ticker "+ticker, fmt.Errorf("%s: %s", code, desc))
}

// raw returns the first available {raw: number} value among paths.
func raw(res gjson.Result, paths ...string) models.Measure {
	for _, p := range paths {
		if r := res.Get(p + ".raw"); r.Type == gjson.Number {
			return models.Available(r.Float())
		}
	}
	return models.NotAvailable
}
