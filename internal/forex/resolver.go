// Package forex resolves the currency pairs needed to show a set of entities
// against the base currency.
package forex

import (
	"MacroPull/internal/domain/errs"
	"MacroPull/internal/domain/models"
)

// Base is the currency every pair is quoted against.
const Base = models.USD

var entityCurrency = map[models.Entity]models.Currency{
	models.USA:         models.USD,
	models.France:      models.EUR,
	models.Germany:     models.EUR,
	models.Europe:      models.EUR,
	models.UK:          models.GBP,
	models.China:       models.CNY,
	models.Japan:       models.JPY,
	models.Switzerland: models.CHF,
}

// priority is the fixed output order. EUR and GBP are quoted in USD, the
// others as USD per unit.
var priority = []models.CurrencyPair{
	{Base: models.EUR, Quote: models.USD, Symbol: "EURUSD", Ticker: "EURUSD=X"},
	{Base: models.GBP, Quote: models.USD, Symbol: "GBPUSD", Ticker: "GBPUSD=X"},
	{Base: models.USD, Quote: models.JPY, Symbol: "USDJPY", Ticker: "JPY=X"},
	{Base: models.USD, Quote: models.CNY, Symbol: "USDCNY", Ticker: "CNY=X"},
	{Base: models.USD, Quote: models.CHF, Symbol: "USDCHF", Ticker: "CHF=X"},
}

// CurrencyOf returns the currency of entity.
func CurrencyOf(e models.Entity) (models.Currency, error) {
	c, ok := entityCurrency[e]
	if !ok {
		return "", errs.NotFoundf("no currency for entity %s", e)
	}
	return c, nil
}

// RequiredPairs returns the deduplicated pairs needed to display entities,
// in priority order regardless of input order.
func RequiredPairs(entities []models.Entity) ([]models.CurrencyPair, error) {
	need := make(map[models.Currency]bool, len(entities))
	for _, e := range entities {
		c, err := CurrencyOf(e)
		if err != nil {
			return nil, err
		}
		if c != Base {
			need[c] = true
		}
	}
	out := make([]models.CurrencyPair, 0, len(need))
	for _, p := range priority {
		if need[foreign(p)] {
			out = append(out, p)
		}
	}
	return out, nil
}

func foreign(p models.CurrencyPair) models.Currency {
	if p.Base == Base {
		return p.Quote
	}
	return p.Base
}
