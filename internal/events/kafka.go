package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaConfig represents Apache Kafka producer configuration
type KafkaConfig struct {
	Brokers      []string      // Kafka broker addresses
	BatchTimeout time.Duration // Batch timeout for producer (default: 10ms)
	RequiredAcks int           // Required acks: 0=none, 1=leader, -1=all (default: 1)
	MaxAttempts  int           // Max attempts per write (default: 3)
}

// KafkaTransport implements Transport using Apache Kafka
type KafkaTransport struct {
	config  KafkaConfig
	writers map[string]*kafka.Writer
	mu      sync.Mutex
}

// newKafkaTransport creates a Kafka transport; writers are created lazily per topic
func newKafkaTransport(cfg KafkaConfig) (*KafkaTransport, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers not configured")
	}

	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = 10 * time.Millisecond
	}
	if cfg.RequiredAcks == 0 {
		cfg.RequiredAcks = int(kafka.RequireOne)
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}

	return &KafkaTransport{
		config:  cfg,
		writers: make(map[string]*kafka.Writer),
	}, nil
}

// writer returns the topic's writer, creating it on first use
func (t *KafkaTransport) writer(topic string) *kafka.Writer {
	t.mu.Lock()
	defer t.mu.Unlock()

	if w, exists := t.writers[topic]; exists {
		return w
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(t.config.Brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           t.config.BatchTimeout,
		RequiredAcks:           kafka.RequiredAcks(t.config.RequiredAcks),
		MaxAttempts:            t.config.MaxAttempts,
		AllowAutoTopicCreation: true,
	}
	t.writers[topic] = w
	return w
}

// Publish writes a message to the topic named by subject
func (t *KafkaTransport) Publish(ctx context.Context, subject string, data []byte) error {
	msg := kafka.Message{
		Value: data,
		Time:  time.Now(),
	}

	if err := t.writer(subject).WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish to kafka topic %s: %w", subject, err)
	}
	return nil
}

// Close flushes and closes all writers
func (t *KafkaTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var firstErr error
	for topic, w := range t.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close kafka writer for %s: %w", topic, err)
		}
		delete(t.writers, topic)
	}
	return firstErr
}
