// pkg/recorder/kafka.go

package recorder

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes each entry as a JSON event keyed by invoice number.
type Kafka struct {
	writer messageWriter
}

// NewKafka returns a Kafka recorder writing to topic.
func NewKafka(brokers []string, topic string) *Kafka {
	return &Kafka{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}}
}

// ParseBrokers splits a comma separated broker list, dropping blanks.
func ParseBrokers(csv string) []string {
	var brokers []string
	for _, b := range strings.Split(csv, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// Record implements Recorder.
func (k *Kafka) Record(ctx context.Context, e Entry) error {
	data, err := json.Marshal(e.Row())
	if err != nil {
		return fmt.Errorf("kafka: encode: %w", err)
	}
	msg := kafka.Message{Key: []byte(e.InvoiceNo), Value: data, Time: time.Now().UTC()}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: publish %s: %w", e.InvoiceNo, err)
	}
	return nil
}

// Close flushes and closes the writer.
func (k *Kafka) Close() error {
	return k.writer.Close()
}
