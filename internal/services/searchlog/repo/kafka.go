package repo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"bookable/internal/platform/store"
	"bookable/internal/services/searchlog/domain"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the sink uses
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes one JSON message per event keyed by event id
type KafkaSink struct {
	w MessageWriter
}

// NewKafkaWriter builds a synchronous writer hashing on the message key
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
	}
}

// NewKafka wraps w as a sink
func NewKafka(w MessageWriter) *KafkaSink { return &KafkaSink{w: w} }

// Name implements domain.Sink
func (s *KafkaSink) Name() string { return "kafka" }

// Write implements domain.Sink
func (s *KafkaSink) Write(ctx context.Context, batch []domain.Event) error {
	msgs := make([]kafka.Message, 0, len(batch))
	for _, ev := range batch {
		b, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		id := ev.ID.String()
		headers := []kafka.Header{
			{Key: "event_id", Value: []byte(id)},
			{Key: "event_type", Value: []byte(domain.EventType)},
		}
		msgs = append(msgs, kafka.Message{
			Key:     []byte(id),
			Value:   b,
			Time:    ev.At,
			Headers: traceHeaders(headers, ev.Carrier),
		})
	}
	return s.w.WriteMessages(ctx, msgs...)
}

// Close closes the underlying writer
func (s *KafkaSink) Close() error { return s.w.Close() }

// traceHeaders appends the captured trace context, overwriting keys already present
func traceHeaders(headers []kafka.Header, carrier map[string]string) []kafka.Header {
	for k, v := range carrier {
		replaced := false
		for i := range headers {
			if headers[i].Key == k {
				headers[i].Value = []byte(v)
				replaced = true
				break
			}
		}
		if !replaced {
			headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
		}
	}
	return headers
}

// KafkaReady dials the first broker; used by the readiness probe
func KafkaReady(brokers []string) store.PingFunc {
	return func(ctx context.Context) error {
		if len(brokers) == 0 {
			return errors.New("kafka: no brokers configured")
		}
		d := kafka.Dialer{Timeout: 2 * time.Second}
		conn, err := d.DialContext(ctx, "tcp", brokers[0])
		if err != nil {
			return err
		}
		return conn.Close()
	}
}
