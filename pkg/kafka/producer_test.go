package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *captureWriter) Close() error { return nil }

func TestPublishBatchEncodesValues(t *testing.T) {
	w := &captureWriter{}
	p := NewProducerWithWriter(w, "gzip")
	p.now = func() time.Time { return time.Unix(10, 0) }

	err := p.PublishBatch(context.Background(), "observations", []Message{
		{Key: []byte("GDP"), Value: map[string]float64{"v": 1.5}},
		{Key: []byte("GDP"), Value: "raw"},
		{Key: []byte("GDP"), Value: []byte("bytes")},
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 3)
	assert.JSONEq(t, `{"v":1.5}`, string(w.msgs[0].Value))
	assert.Equal(t, "raw", string(w.msgs[1].Value))
	assert.Equal(t, "bytes", string(w.msgs[2].Value))
	assert.Equal(t, "observations", w.msgs[0].Topic)
	assert.Equal(t, time.Unix(10, 0), w.msgs[0].Time)

	contentTypes := make([]string, len(w.msgs))
	for i, m := range w.msgs {
		require.NotEmpty(t, m.Headers)
		contentTypes[i] = string(m.Headers[0].Value)
	}
	assert.Equal(t, []string{"application/json", "text/plain", "application/octet-stream"}, contentTypes)
}

func TestPublishBatchSortsExtraHeaders(t *testing.T) {
	w := &captureWriter{}
	p := NewProducerWithWriter(w, "gzip")
	require.NoError(t, p.PublishBatch(context.Background(), "t", []Message{
		{Value: "x", Headers: map[string]string{"source": "yahoo", "entity": "USA"}},
	}))
	require.Len(t, w.msgs, 1)
	keys := make([]string, 0, len(w.msgs[0].Headers))
	for _, h := range w.msgs[0].Headers {
		keys = append(keys, h.Key)
	}
	assert.Equal(t, []string{HeaderContentType, "entity", "source"}, keys)
}

func TestPublishMessageForCollector(t *testing.T) {
	w := &captureWriter{}
	p := NewProducerWithWriter(w, "gzip")
	require.NoError(t, p.PublishMessage(context.Background(), "logs", []string{"a"}))
	require.Len(t, w.msgs, 1)
	assert.Nil(t, w.msgs[0].Key)
}

func TestPublishWrapsWriterError(t *testing.T) {
	boom := errors.New("no leader")
	p := NewProducerWithWriter(&captureWriter{err: boom}, "gzip")
	err := p.Publish(context.Background(), "t", nil, "x")
	assert.ErrorIs(t, err, boom)
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer()
	assert.Error(t, err)
}

func TestProducerConfigRejectsBadSettings(t *testing.T) {
	tests := []struct {
		name string
		opts []ProducerOption
		want string
	}{
		{"acks", []ProducerOption{WithBrokers([]string{"b:9092"}), WithRequiredAcks(2)}, "required acks"},
		{"compression", []ProducerOption{WithBrokers([]string{"b:9092"}), WithCompression("brotli")}, "unknown compression"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProducer(tt.opts...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestZeroOptionsKeepDefaults(t *testing.T) {
	cfg := defaultProducerConfig()
	for _, opt := range []ProducerOption{
		WithBatch(0, 0, 0),
		WithTimeouts(0, 0),
		WithMaxAttempts(0),
		WithCompression(""),
		WithClientID(""),
	} {
		opt(cfg)
	}
	assert.Equal(t, defaultProducerConfig(), cfg)

	WithBatch(10, 2048, time.Second)(cfg)
	WithCompression("zstd")(cfg)
	assert.Equal(t, 10, cfg.BatchSize)
	assert.Equal(t, 2048, cfg.BatchBytes)
	assert.Equal(t, time.Second, cfg.BatchTimeout)
	assert.Equal(t, kafka.Zstd, cfg.codec())
}
