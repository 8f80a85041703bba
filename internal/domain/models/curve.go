package models

// Maturity is a bond tenor label.
type Maturity string

const (
	M1M  Maturity = "1M"
	M3M  Maturity = "3M"
	M6M  Maturity = "6M"
	M1Y  Maturity = "1Y"
	M2Y  Maturity = "2Y"
	M5Y  Maturity = "5Y"
	M7Y  Maturity = "7Y"
	M10Y Maturity = "10Y"
	M20Y Maturity = "20Y"
	M30Y Maturity = "30Y"
)

// Maturities is the canonical ascending order.
var Maturities = []Maturity{M1M, M3M, M6M, M1Y, M2Y, M5Y, M7Y, M10Y, M20Y, M30Y}

// CurvePoint is the latest observed yield for one maturity.
type CurvePoint struct {
	Maturity Maturity `json:"maturity"`
	Value    float64  `json:"value"`
}

// YieldCurve holds points in canonical maturity order. Maturities that could
// not be fetched are absent.
type YieldCurve struct {
	Entity Entity       `json:"entity"`
	Points []CurvePoint `json:"points"`
}

// Get returns the value for maturity m.
func (c YieldCurve) Get(m Maturity) (float64, bool) {
	for _, p := range c.Points {
		if p.Maturity == m {
			return p.Value, true
		}
	}
	return 0, false
}
