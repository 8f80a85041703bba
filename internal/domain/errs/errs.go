package errs

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every component. Callers match with errors.Is.
var (
	// ErrNotFound marks an unknown entity/metric combination. Caller error, never retried.
	ErrNotFound = errors.New("not found")
	// ErrProviderUnavailable marks a transport or auth failure talking to a provider.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrInvalidTicker marks a symbol rejected by the quote provider.
	ErrInvalidTicker = errors.New("invalid ticker")
	// ErrEmptySeries marks a valid response without any usable point.
	ErrEmptySeries = errors.New("empty series")
)

// ProviderError carries the provider and operation that failed along with
// the taxonomy kind and the underlying cause.
type ProviderError struct {
	Provider string
	Op       string
	Kind     error
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v: %v", e.Provider, e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Kind)
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *ProviderError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Unavailable wraps cause as ErrProviderUnavailable.
func Unavailable(provider, op string, cause error) error {
	return &ProviderError{Provider: provider, Op: op, Kind: ErrProviderUnavailable, Err: cause}
}

// InvalidTicker wraps cause as ErrInvalidTicker.
func InvalidTicker(provider, ticker string, cause error) error {
	return &ProviderError{Provider: provider, Op: "ticker " + ticker, Kind: ErrInvalidTicker, Err: cause}
}

// NotFoundf formats an ErrNotFound with context.
func NotFoundf(format string, a ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, a...), ErrNotFound)
}

// Kind returns the taxonomy sentinel matched by err, or nil.
func Kind(err error) error {
	for _, k := range []error{ErrNotFound, ErrInvalidTicker, ErrEmptySeries, ErrProviderUnavailable} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
