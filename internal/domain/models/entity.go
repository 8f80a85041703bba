package models

// Entity identifies a country or region.
type Entity string

const (
	USA         Entity = "USA"
	France      Entity = "France"
	Germany     Entity = "Germany"
	UK          Entity = "UK"
	China       Entity = "China"
	Japan       Entity = "Japan"
	Switzerland Entity = "Switzerland"
	Europe      Entity = "Europe"
)

// AllEntities lists every known entity in a stable order.
var AllEntities = []Entity{USA, France, Germany, UK, China, Japan, Switzerland, Europe}

// IsKnownEntity reports whether e belongs to the closed entity set.
func IsKnownEntity(e Entity) bool {
	for _, k := range AllEntities {
		if k == e {
			return true
		}
	}
	return false
}

// Metric identifies a kind of statistical series.
type Metric string

const (
	MetricGDP          Metric = "gdp"
	MetricCPI          Metric = "cpi"
	MetricUnemployment Metric = "unemployment"
	MetricPolicyRate   Metric = "policy_rate"
	MetricBond10Y      Metric = "bond_10y"
)

// AllMetrics lists every known metric.
var AllMetrics = []Metric{MetricGDP, MetricCPI, MetricUnemployment, MetricPolicyRate, MetricBond10Y}

// IsKnownMetric reports whether m belongs to the closed metric set.
func IsKnownMetric(m Metric) bool {
	for _, k := range AllMetrics {
		if k == m {
			return true
		}
	}
	return false
}
