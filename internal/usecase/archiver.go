package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"MacroPull/internal/domain/models"
	drepo "MacroPull/internal/domain/repository"
	"MacroPull/pkg/logger"
)

const (
	BackendNone       = "none"
	BackendKafka      = "kafka"
	BackendClickHouse = "clickhouse"
)

// DefaultArchiveQueue is how many series may wait for the archive worker.
const DefaultArchiveQueue = 256

// SeriesArchiver routes freshly fetched raw series to the configured backend.
// Dashboards hand series over with Enqueue and never wait on the backend; a
// single worker drains the queue. A nil archiver or the "none" backend
// archives nothing.
type SeriesArchiver struct {
	pub     drepo.Publisher
	store   drepo.Storage
	metrics drepo.Metrics
	log     *logger.Logger
	backend string
	timeout time.Duration
	now     func() time.Time

	queueSize int
	queue     chan archiveJob
	done      chan struct{}
	mu        sync.Mutex
	closed    bool
}

type archiveJob struct {
	source string
	series models.TimeSeries
}

type ArchiverOption func(*SeriesArchiver)

// WithQueueSize bounds the number of series waiting to be archived.
func WithQueueSize(n int) ArchiverOption {
	return func(a *SeriesArchiver) {
		if n > 0 {
			a.queueSize = n
		}
	}
}

// NewSeriesArchiver creates a new SeriesArchiver instance and starts its
// worker when a backend is configured.
func NewSeriesArchiver(
	pub drepo.Publisher,
	store drepo.Storage,
	metrics drepo.Metrics,
	log *logger.Logger,
	backend string,
	timeout time.Duration,
	opts ...ArchiverOption,
) *SeriesArchiver {
	if log == nil {
		log = logger.Nop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if backend == "" {
		backend = BackendNone
	}
	a := &SeriesArchiver{
		pub:       pub,
		store:     store,
		metrics:   metrics,
		log:       log,
		backend:   backend,
		timeout:   timeout,
		now:       time.Now,
		queueSize: DefaultArchiveQueue,
	}
	for _, o := range opts {
		o(a)
	}
	if a.Enabled() {
		a.queue = make(chan archiveJob, a.queueSize)
		a.done = make(chan struct{})
		go a.run()
	}
	return a
}

func (a *SeriesArchiver) run() {
	defer close(a.done)
	for j := range a.queue {
		_ = a.Archive(context.Background(), j.source, j.series)
	}
}

// Enqueue schedules s for archiving without blocking. It reports false when
// nothing was queued: archiving disabled, empty series, archiver closed or
// queue full. A full queue drops the series.
func (a *SeriesArchiver) Enqueue(source string, s models.TimeSeries) bool {
	if !a.Enabled() || s.IsEmpty() {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return false
	}
	select {
	case a.queue <- archiveJob{source: source, series: s}:
		return true
	default:
		if a.metrics != nil {
			a.metrics.RecordError("archive_dropped")
		}
		a.log.Warn("archive queue full, series dropped",
			logger.String("backend", a.backend),
			logger.String("series", s.ID),
			logger.Int("queue", a.queueSize),
		)
		return false
	}
}

// Enabled reports whether a backend is configured.
func (a *SeriesArchiver) Enabled() bool {
	return a != nil && a.backend != BackendNone
}

// Health pings the ClickHouse archive. Other backends report healthy: the
// Kafka writer only learns of broker trouble on a write.
func (a *SeriesArchiver) Health(ctx context.Context) error {
	if !a.Enabled() || a.backend != BackendClickHouse {
		return nil
	}
	if a.store == nil {
		return fmt.Errorf("clickhouse storage not configured")
	}
	return a.store.Health(ctx)
}

// Archive writes every point of s synchronously. Failures are logged and
// counted, and the error is returned.
func (a *SeriesArchiver) Archive(ctx context.Context, source string, s models.TimeSeries) error {
	if !a.Enabled() || s.IsEmpty() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
	defer cancel()

	start := time.Now()
	obs := drepo.ObservationsFromSeries(source, s, a.now().UTC())

	var err error
	switch a.backend {
	case BackendKafka:
		if a.pub == nil {
			err = fmt.Errorf("kafka publisher not configured")
			break
		}
		err = a.pub.PublishBatch(ctx, obs)
	case BackendClickHouse:
		if a.store == nil {
			err = fmt.Errorf("clickhouse storage not configured")
			break
		}
		err = a.store.StoreBatch(ctx, obs)
	default:
		err = fmt.Errorf("unknown backend: %s", a.backend)
	}

	if err != nil {
		if a.metrics != nil {
			a.metrics.RecordError("archive")
		}
		a.log.Error("archive series failed",
			logger.String("backend", a.backend),
			logger.String("series", s.ID),
			logger.Int("points", len(obs)),
			logger.Error(err),
		)
		return fmt.Errorf("archive %s: %w", s.ID, err)
	}

	if a.metrics != nil {
		a.metrics.RecordArchived(a.backend, len(obs))
		a.metrics.RecordLatency("archive", time.Since(start).Seconds())
	}
	return nil
}

// Close stops accepting series, waits until the queued ones are archived
// and then closes the backends. Safe to call more than once.
func (a *SeriesArchiver) Close() {
	if a == nil {
		return
	}
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	if a.queue != nil {
		close(a.queue)
	}
	a.mu.Unlock()

	if a.done != nil {
		<-a.done
	}
	if a.pub != nil {
		_ = a.pub.Close()
	}
	if a.store != nil {
		_ = a.store.Close()
	}
}
