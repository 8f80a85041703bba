// Package analytics derives dashboard figures from raw series. Everything
// here except YieldCurve is a pure function of its inputs.
package analytics

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"MacroPull/internal/domain/errs"
	"MacroPull/internal/domain/models"
	"MacroPull/internal/services/features"
)

// Decimals used for every rounded figure unless stated otherwise.
const Decimals = 2

// Round rounds v half away from zero to places decimals. NaN and the
// infinities come back unchanged.
func Round(v float64, places int32) float64 {
	if !features.Finite(v) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// RoundMeasure rounds v into an available measure, or NotAvailable when v
// is not finite.
func RoundMeasure(v float64, places int32) models.Measure {
	if !features.Finite(v) {
		return models.NotAvailable
	}
	return models.Available(Round(v, places))
}

func measure(v float64, ok bool) models.Measure {
	if !ok {
		return models.NotAvailable
	}
	return RoundMeasure(v, Decimals)
}

// Variation returns the percent change between the last point and the point
// lag positions before it, rounded to two decimals.
func Variation(s models.TimeSeries, lag int) models.Measure {
	return measure(features.PctChange(s.Values(), lag))
}

// NormalizeTo100 rebases s so that its first point is 100.
func NormalizeTo100(s models.TimeSeries) (models.TimeSeries, error) {
	if s.IsEmpty() {
		return models.TimeSeries{}, fmt.Errorf("normalize %s: %w", s.ID, errs.ErrEmptySeries)
	}
	base := s.Points[0].Value
	if base == 0 {
		return models.TimeSeries{}, fmt.Errorf("normalize %s: zero base: %w", s.ID, errs.ErrEmptySeries)
	}
	out := make([]models.Point, 0, len(s.Points))
	for _, p := range s.Points {
		// a tiny base can overflow; such points are left out
		if v := p.Value / base * 100; features.Finite(v) {
			out = append(out, models.Point{Time: p.Time, Value: v})
		}
	}
	return models.TimeSeries{ID: s.ID, Points: out}, nil
}

// Spread returns b - a on the timestamps both series share.
func Spread(a, b models.TimeSeries) models.TimeSeries {
	times, av, bv := features.Align(a, b)
	out := make([]models.Point, len(times))
	for i, t := range times {
		out[i] = models.Point{Time: t, Value: bv[i] - av[i]}
	}
	return models.TimeSeries{ID: b.ID + "-" + a.ID, Points: filterFinite(out)}
}

// LatestValueAndVariation returns the last value and the one period
// variation.
func LatestValueAndVariation(s models.TimeSeries) (models.Summary, error) {
	return Summarize(s, Decimals, map[string]int{models.VarPeriod: 1})
}

// Summarize returns the last value rounded to decimals plus one variation
// per label, each computed with its lag.
func Summarize(s models.TimeSeries, decimals int32, lags map[string]int) (models.Summary, error) {
	last, ok := s.Last()
	if !ok {
		return models.Summary{}, fmt.Errorf("summarize %s: %w", s.ID, errs.ErrEmptySeries)
	}
	values := s.Values()
	vars := make(models.Variations, len(lags))
	for label, lag := range lags {
		vars[label] = measure(features.PctChange(values, lag))
	}
	return models.Summary{
		Value:      RoundMeasure(last.Value, decimals),
		Variations: vars,
	}, nil
}

func filterFinite(points []models.Point) []models.Point {
	out := points[:0]
	for _, p := range points {
		if features.Finite(p.Value) {
			out = append(out, p)
		}
	}
	return out
}

// Performance returns the percent change from the first to the last point.
func Performance(s models.TimeSeries) models.Measure {
	return Variation(s, s.Len()-1)
}

// Correlation returns the Pearson matrix of the given series, computed
// pairwise on shared timestamps. Tickers are sorted.
func Correlation(series map[string]models.TimeSeries) models.CorrelationMatrix {
	tickers := make([]string, 0, len(series))
	for t := range series {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	n := len(tickers)
	m := models.CorrelationMatrix{Tickers: tickers, Values: make([][]models.Measure, n)}
	for i := range m.Values {
		m.Values[i] = make([]models.Measure, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			_, x, y := features.Align(series[tickers[i]], series[tickers[j]])
			v := measure(features.Pearson(x, y))
			m.Values[i][j] = v
			m.Values[j][i] = v
		}
	}
	return m
}
