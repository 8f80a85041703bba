package api

import (
	"context"
	"errors"
	"net/http"

	"MacroPull/internal/domain/errs"
	xhttp "MacroPull/pkg/http"
)

// toAppError maps the domain taxonomy onto HTTP errors.
func toAppError(err error) *xhttp.AppError {
	var appErr *xhttp.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return xhttp.NotFoundError(err.Error()).WithError(err)
	case errors.Is(err, errs.ErrInvalidTicker):
		return xhttp.NewAppError("ERR_INVALID_TICKER", "ticker", err.Error(), http.StatusBadRequest).WithError(err)
	case errors.Is(err, errs.ErrEmptySeries):
		return xhttp.UnprocessableError("ERR_EMPTY_SERIES", err.Error()).WithError(err)
	case errors.Is(err, errs.ErrProviderUnavailable), errors.Is(err, context.DeadlineExceeded):
		return xhttp.UnavailableError("ERR_PROVIDER_UNAVAILABLE", err.Error()).WithError(err)
	default:
		return xhttp.InternalError("Something went wrong").WithError(err)
	}
}

func errorKind(err error) string {
	switch errs.Kind(err) {
	case errs.ErrNotFound:
		return "not_found"
	case errs.ErrInvalidTicker:
		return "invalid_ticker"
	case errs.ErrEmptySeries:
		return "empty_series"
	case errs.ErrProviderUnavailable:
		return "unavailable"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "internal"
}
