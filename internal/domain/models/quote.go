package models

import (
	"slices"
	"time"
)

// Period is an opaque lookback token understood by the quote provider.
type Period string

const (
	Period1D  Period = "1d"
	Period5D  Period = "5d"
	Period1Mo Period = "1mo"
	Period3Mo Period = "3mo"
	Period6Mo Period = "6mo"
	PeriodYTD Period = "ytd"
	Period1Y  Period = "1y"
	Period2Y  Period = "2y"
	Period5Y  Period = "5y"
	Period10Y Period = "10y"
	PeriodMax Period = "max"
)

// Periods lists every lookback token, shortest first.
var Periods = []Period{
	Period1D, Period5D, Period1Mo, Period3Mo, Period6Mo, PeriodYTD,
	Period1Y, Period2Y, Period5Y, Period10Y, PeriodMax,
}

// IsValidPeriod reports whether p is a known lookback token.
func IsValidPeriod(p Period) bool {
	return slices.Contains(Periods, p)
}

// Bar is one OHLCV row.
type Bar struct {
	Time   time.Time `json:"t"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// QuoteHistory is the close series for a ticker plus the auxiliary bars.
type QuoteHistory struct {
	Ticker string     `json:"ticker"`
	Period Period     `json:"period"`
	Close  TimeSeries `json:"close"`
	Bars   []Bar      `json:"bars"`
}

// Fundamentals is the subset of ticker info shown next to a quote.
type Fundamentals struct {
	Ticker        string  `json:"ticker"`
	Sector        string  `json:"sector,omitempty"`
	Industry      string  `json:"industry,omitempty"`
	MarketCap     Measure `json:"market_cap"`
	Beta          Measure `json:"beta"`
	TrailingPE    Measure `json:"trailing_pe"`
	DividendYield Measure `json:"dividend_yield"`
	TrailingEPS   Measure `json:"trailing_eps"`
}

// StatementKind selects a financial statement.
type StatementKind string

const (
	StatementIncome   StatementKind = "income"
	StatementBalance  StatementKind = "balance"
	StatementCashflow StatementKind = "cashflow"
)

// StatementPeriod is one reporting period with its line items.
type StatementPeriod struct {
	EndDate time.Time          `json:"end_date"`
	Items   map[string]float64 `json:"items"`
}

// Statement is a financial statement, most recent period first.
type Statement struct {
	Ticker  string            `json:"ticker"`
	Kind    StatementKind     `json:"kind"`
	Periods []StatementPeriod `json:"periods"`
}

// EquityQuote is the price page for one ticker.
type EquityQuote struct {
	Ticker       string        `json:"ticker"`
	Period       Period        `json:"period"`
	LastPrice    Measure       `json:"last_price"`
	Performance  Measure       `json:"performance"`
	RecentBars   []Bar         `json:"recent_bars"`
	Close        TimeSeries    `json:"close"`
	Fundamentals *Fundamentals `json:"fundamentals,omitempty"`
}

// CorrelationMatrix holds pairwise Pearson correlations; Values[i][j] is the
// correlation between Tickers[i] and Tickers[j].
type CorrelationMatrix struct {
	Tickers []string    `json:"tickers"`
	Values  [][]Measure `json:"values"`
}
