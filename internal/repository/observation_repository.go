package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	drepo "MacroPull/internal/domain/repository"
	pkgclickhouse "MacroPull/pkg/clickhouse"
	pkgkafka "MacroPull/pkg/kafka"
)

const insertChunk = 2000

// ClickHouseStorage implements Storage for ClickHouse.
type ClickHouseStorage struct {
	db       *sql.DB
	database string
	table    string
}

// NewClickHouseStorage creates ClickHouse storage over an open pool.
func NewClickHouseStorage(db *sql.DB, database, table string) *ClickHouseStorage {
	return &ClickHouseStorage{db: db, database: database, table: table}
}

func (s *ClickHouseStorage) qualified() string {
	if s.database == "" {
		return s.table
	}
	return s.database + "." + s.table
}

// Init creates the archive table when missing.
func (s *ClickHouseStorage) Init(ctx context.Context) error {
	for _, stmt := range pkgclickhouse.ObservationsSchema(s.database, s.table) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init %s: %w", s.qualified(), err)
		}
	}
	return nil
}

// StoreBatch inserts observations as multi-row VALUES statements.
func (s *ClickHouseStorage) StoreBatch(ctx context.Context, obs []drepo.Observation) error {
	for start := 0; start < len(obs); start += insertChunk {
		end := start + insertChunk
		if end > len(obs) {
			end = len(obs)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*5)
		for _, o := range obs[start:end] {
			if o.SeriesID == "" || o.Time.IsZero() {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?)")
			args = append(args, o.SeriesID, o.Source, o.Time.UTC(), o.Value, o.FetchedAt.UTC())
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (series_id, source, ts, value, fetched_at) VALUES %s",
			s.qualified(), strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert observations: %w", err)
		}
	}
	return nil
}

// Health pings the pool behind the archive.
func (s *ClickHouseStorage) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close is a no-op; the pool belongs to pkg/clickhouse.Client.
func (s *ClickHouseStorage) Close() error {
	return nil
}

// KafkaPublisher implements Publisher for Kafka, keyed by series id so a
// series stays ordered within its partition.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates Kafka publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) PublishBatch(ctx context.Context, obs []drepo.Observation) error {
	if len(obs) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(obs))
	for i, o := range obs {
		msgs[i] = pkgkafka.Message{
			Key:     []byte(o.SeriesID),
			Value:   o,
			Headers: map[string]string{"source": o.Source},
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

// Close is a no-op; the producer is shared with the log collector and
// closed by its owner.
func (p *KafkaPublisher) Close() error {
	return nil
}
