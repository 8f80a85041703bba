package api

import (
	"MacroPull/internal/domain/models"
	xhttp "MacroPull/pkg/http"
)

func init() {
	names := make([]string, len(models.Periods))
	for i, p := range models.Periods {
		names[i] = string(p)
	}
	xhttp.RegisterStringValidation("period", func(s string) bool {
		return models.IsValidPeriod(models.Period(s))
	}, names...)
}
