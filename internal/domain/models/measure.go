package models

import (
	"bytes"
	"encoding/json"
)

// Measure is a numeric result that may be not available, either because the
// history is too short or because the base value is zero. The two causes are
// deliberately not distinguished.
type Measure struct {
	Value     float64
	Available bool
}

// NotAvailable is the zero Measure.
var NotAvailable = Measure{}

// Available wraps v as an available Measure.
func Available(v float64) Measure { return Measure{Value: v, Available: true} }

// Float returns the value and whether it is available.
func (m Measure) Float() (float64, bool) { return m.Value, m.Available }

// MarshalJSON renders the value or null.
func (m Measure) MarshalJSON() ([]byte, error) {
	if !m.Available {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// UnmarshalJSON accepts a number or null.
func (m *Measure) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*m = NotAvailable
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*m = Available(v)
	return nil
}
