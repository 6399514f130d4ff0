// pkg/recorder/kafka_test.go

package recorder

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublishesKeyedEvent(t *testing.T) {
	w := &fakeWriter{}
	k := &Kafka{writer: w}

	require.NoError(t, k.Record(context.Background(), sampleEntry()))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "IN-1", string(w.msgs[0].Key))

	var row map[string]any
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &row))
	assert.Equal(t, "Asha", row["customer_name"])
	assert.False(t, w.msgs[0].Time.IsZero())

	require.NoError(t, k.Close())
	assert.True(t, w.closed)
}

func TestKafkaWrapsWriteError(t *testing.T) {
	boom := errors.New("leader not available")
	k := &Kafka{writer: &fakeWriter{err: boom}}

	err := k.Record(context.Background(), sampleEntry())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "IN-1")
}
