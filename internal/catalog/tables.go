package catalog

import (
	"time"

	"MacroPull/internal/domain/models"
)

var unemploymentStart = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// DefaultTable is the production catalog.
func DefaultTable() Table {
	id := func(s string) Entry { return Entry{SeriesID: s} }
	return Table{
		Series: map[models.Metric]map[models.Entity]Entry{
			models.MetricGDP: {
				models.USA:     id("GDP"),
				models.France:  id("CPMNACSCAB1GQFR"),
				models.UK:      id("UKNGDP"),
				models.Germany: id("CPMNACSCAB1GQDE"),
				models.Japan:   id("JPNNGDP"),
				models.China:   id("MKTGDPCNA646NWDB"),
			},
			models.MetricCPI: {
				models.USA:     id("CPIAUCSL"),
				models.France:  id("CP0000FRM086NEST"),
				models.UK:      id("CP0000GBM086NEST"),
				models.Germany: id("CP0000DEM086NEST"),
				models.Japan:   id("CPALTT01JPM657N"),
				models.China:   id("CPALTT01CNM657N"),
			},
			models.MetricUnemployment: {
				models.USA:    {SeriesID: "UNRATE", Start: &unemploymentStart},
				models.Europe: {SeriesID: "LRHUTTTTEUM156S", Start: &unemploymentStart},
			},
			models.MetricPolicyRate: {
				models.USA:    id("EFFR"),
				models.Europe: id("ECBESTRVOLWGTTRMDMNRT"),
			},
			models.MetricBond10Y: {
				models.USA:     id("DGS10"),
				models.Germany: id("IRLTLT01DEM156N"),
				models.France:  id("IRLTLT01FRM156N"),
				models.UK:      id("IRLTLT01GBM156N"),
				models.Japan:   id("IRLTLT01JPM156N"),
			},
		},
		Curves: map[models.Entity]map[models.Maturity]string{
			models.USA: {
				models.M1M:  "DGS1MO",
				models.M3M:  "DGS3MO",
				models.M6M:  "DGS6MO",
				models.M1Y:  "DGS1",
				models.M2Y:  "DGS2",
				models.M5Y:  "DGS5",
				models.M7Y:  "DGS7",
				models.M10Y: "DGS10",
				models.M20Y: "DGS20",
				models.M30Y: "DGS30",
			},
		},
		Commodities: []Commodity{
			{Name: "Gold", Ticker: "GC=F"},
			{Name: "Oil", Ticker: "CL=F"},
		},
	}
}

// Default returns the production catalog. The table is static so a
// validation failure is a programming error.
func Default() *Catalog {
	c, err := New(DefaultTable())
	if err != nil {
		panic(err)
	}
	return c
}
