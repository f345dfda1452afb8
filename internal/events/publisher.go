package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/soulscroll/luma/internal/config"
	"github.com/soulscroll/luma/internal/utils"
)

// Publisher encodes analysis events and hands them to a Transport
type Publisher struct {
	transport Transport
	codec     Codec
	prefix    string
	timeout   time.Duration
}

// NewTransport creates the Transport selected by cfg.Type
func NewTransport(cfg config.EventsConfig) (Transport, error) {
	transportType := utils.TransportType(strings.ToLower(cfg.Type))

	switch transportType {
	case utils.TransportTypeNATS:
		return newNATSTransport(cfg.URL, cfg.Username, cfg.Password, cfg.SubjectPrefix)

	case utils.TransportTypeRedis:
		return newRedisTransport(RedisConfig{
			URL:      cfg.URL,
			Password: cfg.Password,
			DB:       cfg.RedisDB,
			Stream:   cfg.RedisStream,
		})

	case utils.TransportTypeKafka:
		brokers := cfg.KafkaBrokers
		if len(brokers) == 0 && cfg.URL != "" {
			brokers = strings.Split(cfg.URL, ",")
		}
		return newKafkaTransport(KafkaConfig{Brokers: brokers})

	case utils.TransportTypeMemory, "":
		return newMemoryTransport(), nil

	default:
		return nil, fmt.Errorf("unsupported events type: %s (supported: nats, redis, kafka, memory)", transportType)
	}
}

// NewPublisher creates a Publisher from configuration. When events are
// disabled it returns a Publisher that drops everything.
func NewPublisher(cfg config.EventsConfig) (*Publisher, error) {
	if !cfg.Enabled {
		return NewPublisherWithTransport(nil, cfg), nil
	}

	transport, err := NewTransport(cfg)
	if err != nil {
		return nil, err
	}
	return NewPublisherWithTransport(transport, cfg), nil
}

// NewPublisherWithTransport wraps an existing transport; a nil transport disables publishing
func NewPublisherWithTransport(transport Transport, cfg config.EventsConfig) *Publisher {
	timeout := cfg.PublishTimeout
	if timeout <= 0 {
		timeout = utils.DefaultPublishTimeout
	}
	prefix := cfg.SubjectPrefix
	if prefix == "" {
		prefix = config.DefaultConfig().Events.SubjectPrefix
	}

	return &Publisher{
		transport: transport,
		codec:     Codec{Compress: cfg.Compress},
		prefix:    prefix,
		timeout:   timeout,
	}
}

// Enabled reports whether events reach a broker
func (p *Publisher) Enabled() bool {
	return p != nil && p.transport != nil
}

// Subject returns the subject events of kind are published on
func (p *Publisher) Subject(kind Kind) string {
	return p.prefix + "." + string(kind)
}

// Codec returns the codec consumers must use to decode published events
func (p *Publisher) Codec() Codec {
	return p.codec
}

// PublishAnalysis stamps ev with an id and time when missing and publishes it
// within the configured timeout.
func (p *Publisher) PublishAnalysis(ctx context.Context, ev AnalysisCompleted) error {
	if !p.Enabled() {
		return nil
	}

	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	data, err := p.codec.Encode(ev)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.transport.Publish(ctx, p.Subject(ev.Kind), data)
}

// Close closes the underlying transport
func (p *Publisher) Close() error {
	if !p.Enabled() {
		return nil
	}
	return p.transport.Close()
}
