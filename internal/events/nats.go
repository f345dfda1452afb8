package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
)

// NATSTransport implements Transport using NATS JetStream
type NATSTransport struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// newNATSTransport connects to url and ensures a stream captures prefix.>
func newNATSTransport(url, username, password, prefix string) (*NATSTransport, error) {
	opts := []nats.Option{nats.Name("luma-analytics")}
	if username != "" {
		opts = append(opts, nats.UserInfo(username, password))
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	t, err := newNATSTransportWithConn(conn, prefix)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return t, nil
}

// newNATSTransportWithConn wraps an existing connection (used in tests)
func newNATSTransportWithConn(conn *nats.Conn, prefix string) (*NATSTransport, error) {
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	if err := ensureStream(js, prefix); err != nil {
		return nil, err
	}

	return &NATSTransport{conn: conn, js: js}, nil
}

// StreamName returns the JetStream stream holding events under prefix
func StreamName(prefix string) string {
	return sanitizeStreamName(prefix) + "-events"
}

func ensureStream(js nats.JetStreamContext, prefix string) error {
	name := StreamName(prefix)

	_, err := js.StreamInfo(name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return fmt.Errorf("failed to look up stream %s: %w", name, err)
	}

	_, err = js.AddStream(&nats.StreamConfig{
		Name:     name,
		Subjects: []string{prefix + ".>"},
		Storage:  nats.FileStorage,
	})
	if err != nil {
		return fmt.Errorf("failed to create stream %s: %w", name, err)
	}
	return nil
}

// Publish publishes a message and waits for the JetStream ack
func (t *NATSTransport) Publish(ctx context.Context, subject string, data []byte) error {
	if _, err := t.js.Publish(subject, data, nats.Context(ctx)); err != nil {
		return fmt.Errorf("failed to publish to subject %s: %w", subject, err)
	}
	return nil
}

// Close drains and closes the NATS connection
func (t *NATSTransport) Close() error {
	t.conn.Close()
	return nil
}

// sanitizeStreamName replaces characters JetStream does not allow in names.
// Names can only contain: A-Z, a-z, 0-9, dash (-) and underscore (_)
func sanitizeStreamName(subject string) string {
	result := make([]byte, 0, len(subject))
	for i := 0; i < len(subject); i++ {
		c := subject[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' || c == '_' {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}
	return string(result)
}
