package models

// Variation labels used in summaries.
const (
	VarQoQ     = "QoQ"
	VarYoY     = "YoY"
	VarMoM     = "MoM"
	VarPeriod  = "variation"
	VarOneWeek = "1W"
	VarOneMon  = "1M"
)

// Variations maps a label (QoQ, YoY, ...) to a percent change.
type Variations map[string]Measure

// Summary is the headline card for one entity: latest value and variations.
type Summary struct {
	Value      Measure    `json:"value"`
	Variations Variations `json:"variations"`
}

// Analytic is the (raw series, summary) pair returned for an analytic family,
// both keyed by the requested entity identifiers.
type Analytic struct {
	Series  map[string]TimeSeries `json:"series"`
	Summary map[string]Summary    `json:"summary"`
}

// NewAnalytic allocates an empty Analytic sized for n entities.
func NewAnalytic(n int) *Analytic {
	return &Analytic{
		Series:  make(map[string]TimeSeries, n),
		Summary: make(map[string]Summary, n),
	}
}

// SpreadResult is the spread between two entities' series (B - A).
type SpreadResult struct {
	A      string     `json:"a"`
	B      string     `json:"b"`
	Latest Measure    `json:"latest"`
	Series TimeSeries `json:"series"`
}
