package repository

import (
	"context"
	"time"

	"MacroPull/internal/domain/models"
)

// Observation is one archived raw point, tagged with its origin.
type Observation struct {
	SeriesID  string    `json:"series_id"`
	Source    string    `json:"source"`
	Time      time.Time `json:"ts"`
	Value     float64   `json:"value"`
	FetchedAt time.Time `json:"fetched_at"`
}

// ObservationsFromSeries flattens a raw series into archive rows.
func ObservationsFromSeries(source string, s models.TimeSeries, fetchedAt time.Time) []Observation {
	out := make([]Observation, 0, s.Len())
	for _, p := range s.Points {
		out = append(out, Observation{SeriesID: s.ID, Source: source, Time: p.Time, Value: p.Value, FetchedAt: fetchedAt})
	}
	return out
}

type Publisher interface {
	PublishBatch(ctx context.Context, obs []Observation) error
	Close() error
}

type Storage interface {
	Init(ctx context.Context) error // ensure tables
	StoreBatch(ctx context.Context, obs []Observation) error
	Health(ctx context.Context) error // ping, served on /healthz
	Close() error
}

type Metrics interface {
	RecordProviderCall(provider, result string)
	RecordCache(op string, hit bool)
	RecordArchived(backend string, n int)
	RecordError(kind string)
	RecordLastValue(series string, v float64)
	RecordLatency(op string, seconds float64)
}
