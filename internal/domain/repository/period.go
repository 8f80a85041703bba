package repository

import "MacroPull/internal/domain/models"

// DefaultPeriod returns the default lookback window.
func DefaultPeriod() models.Period { return models.Period1Y }

// NormalizePeriod converts a raw string to a valid period (or default).
func NormalizePeriod(s string) models.Period {
	if s == "" {
		return DefaultPeriod()
	}
	p := models.Period(s)
	if models.IsValidPeriod(p) {
		return p
	}
	return DefaultPeriod()
}
