// Package catalog maps (entity, metric) pairs to statistical series ids and
// holds the fixed ticker tables used by the market dashboards.
package catalog

import (
	"fmt"
	"time"

	"MacroPull/internal/domain/errs"
	"MacroPull/internal/domain/models"
)

// Entry is one catalog row.
type Entry struct {
	SeriesID string
	// Start restricts the observation window when set.
	Start *time.Time
}

// Commodity is a named market instrument.
type Commodity struct {
	Name   string
	Ticker string
}

// Catalog is an immutable lookup table. Build with New or Default.
type Catalog struct {
	series      map[models.Metric]map[models.Entity]Entry
	order       map[models.Metric][]models.Entity
	curves      map[models.Entity]map[models.Maturity]string
	commodities []Commodity
}

// Table is the raw input to New.
type Table struct {
	Series      map[models.Metric]map[models.Entity]Entry
	Curves      map[models.Entity]map[models.Maturity]string
	Commodities []Commodity
}

// New validates t and returns a Catalog. Every entity and metric must belong
// to the closed sets and no id may be empty.
func New(t Table) (*Catalog, error) {
	c := &Catalog{
		series: make(map[models.Metric]map[models.Entity]Entry, len(t.Series)),
		order:  make(map[models.Metric][]models.Entity, len(t.Series)),
		curves: make(map[models.Entity]map[models.Maturity]string, len(t.Curves)),
	}
	for metric, rows := range t.Series {
		if !models.IsKnownMetric(metric) {
			return nil, fmt.Errorf("catalog: unknown metric %q", metric)
		}
		m := make(map[models.Entity]Entry, len(rows))
		for entity, e := range rows {
			if !models.IsKnownEntity(entity) {
				return nil, fmt.Errorf("catalog: unknown entity %q for %s", entity, metric)
			}
			if e.SeriesID == "" {
				return nil, fmt.Errorf("catalog: empty series id for %s/%s", entity, metric)
			}
			m[entity] = e
		}
		c.series[metric] = m
		for _, entity := range models.AllEntities {
			if _, ok := m[entity]; ok {
				c.order[metric] = append(c.order[metric], entity)
			}
		}
	}
	for entity, rows := range t.Curves {
		if !models.IsKnownEntity(entity) {
			return nil, fmt.Errorf("catalog: unknown curve entity %q", entity)
		}
		m := make(map[models.Maturity]string, len(rows))
		for mat, id := range rows {
			if !isMaturity(mat) {
				return nil, fmt.Errorf("catalog: unknown maturity %q for %s", mat, entity)
			}
			if id == "" {
				return nil, fmt.Errorf("catalog: empty series id for %s %s", entity, mat)
			}
			m[mat] = id
		}
		c.curves[entity] = m
	}
	for _, cm := range t.Commodities {
		if cm.Name == "" || cm.Ticker == "" {
			return nil, fmt.Errorf("catalog: incomplete commodity %+v", cm)
		}
	}
	c.commodities = append([]Commodity(nil), t.Commodities...)
	return c, nil
}

// Resolve returns the catalog entry for (entity, metric).
func (c *Catalog) Resolve(entity models.Entity, metric models.Metric) (Entry, error) {
	if e, ok := c.series[metric][entity]; ok {
		return e, nil
	}
	return Entry{}, errs.NotFoundf("no %s series for %s", metric, entity)
}

// Entities lists the entities supported for metric in stable order.
func (c *Catalog) Entities(metric models.Metric) []models.Entity {
	return append([]models.Entity(nil), c.order[metric]...)
}

// CurveSeries returns maturity -> series id for entity's yield curve.
func (c *Catalog) CurveSeries(entity models.Entity) (map[models.Maturity]string, error) {
	rows, ok := c.curves[entity]
	if !ok {
		return nil, errs.NotFoundf("no yield curve for %s", entity)
	}
	out := make(map[models.Maturity]string, len(rows))
	for k, v := range rows {
		out[k] = v
	}
	return out, nil
}

// Commodities returns the commodity tickers in table order.
func (c *Catalog) Commodities() []Commodity {
	return append([]Commodity(nil), c.commodities...)
}

func isMaturity(m models.Maturity) bool {
	for _, k := range models.Maturities {
		if k == m {
			return true
		}
	}
	return false
}
