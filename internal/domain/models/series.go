package models

import (
	"sort"
	"time"
)

// Point is a single observation.
type Point struct {
	Time  time.Time `json:"t"`
	Value float64   `json:"v"`
}

// TimeSeries is an ordered sequence of observations with strictly increasing
// timestamps. It may be empty. Values are never mutated once constructed.
type TimeSeries struct {
	ID     string  `json:"id"`
	Points []Point `json:"points"`
}

// NewTimeSeries builds a series from unordered points. Points are sorted by
// time; for duplicate timestamps the last one given wins.
func NewTimeSeries(id string, points []Point) TimeSeries {
	ps := make([]Point, len(points))
	copy(ps, points)
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].Time.Before(ps[j].Time) })

	out := ps[:0]
	for _, p := range ps {
		if n := len(out); n > 0 && out[n-1].Time.Equal(p.Time) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return TimeSeries{ID: id, Points: out}
}

// Len returns the number of points.
func (s TimeSeries) Len() int { return len(s.Points) }

// IsEmpty reports whether the series has no point.
func (s TimeSeries) IsEmpty() bool { return len(s.Points) == 0 }

// At returns the i-th point.
func (s TimeSeries) At(i int) Point { return s.Points[i] }

// Last returns the most recent point and false when the series is empty.
func (s TimeSeries) Last() (Point, bool) {
	if len(s.Points) == 0 {
		return Point{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// Values returns a copy of the observation values in time order.
func (s TimeSeries) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}
