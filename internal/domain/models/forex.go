package models

// Currency is an ISO 4217 code.
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	JPY Currency = "JPY"
	CNY Currency = "CNY"
	CHF Currency = "CHF"
)

// CurrencyPair prices Base in units of Quote.
type CurrencyPair struct {
	Base   Currency `json:"base"`
	Quote  Currency `json:"quote"`
	Symbol string   `json:"symbol"` // e.g. EURUSD
	Ticker string   `json:"ticker"` // quote provider symbol, e.g. EURUSD=X
}
