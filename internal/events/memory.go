package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/soulscroll/luma/internal/utils"
)

// MemoryTransport implements Transport using in-memory channels.
// This is useful for testing and development without external dependencies.
// Each subject buffers utils.DefaultBufferSize messages; once full the oldest
// message is dropped, so a service running without subscribers stays quiet.
type MemoryTransport struct {
	channels      map[string]chan []byte
	subscriptions map[string]context.CancelFunc
	wg            sync.WaitGroup
	mu            sync.Mutex
	closed        bool
}

// newMemoryTransport creates a new in-memory transport instance
func newMemoryTransport() *MemoryTransport {
	return &MemoryTransport{
		channels:      make(map[string]chan []byte),
		subscriptions: make(map[string]context.CancelFunc),
	}
}

// channel returns the subject's channel, creating it on first use. Caller holds mu.
func (t *MemoryTransport) channel(subject string) chan []byte {
	if ch, exists := t.channels[subject]; exists {
		return ch
	}

	ch := make(chan []byte, utils.DefaultBufferSize)
	t.channels[subject] = ch
	return ch
}

// Publish publishes a message to an in-memory channel
func (t *MemoryTransport) Publish(ctx context.Context, subject string, data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return fmt.Errorf("memory transport is closed")
	}
	ch := t.channel(subject)

	// Copy so callers may reuse their buffer
	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	for {
		select {
		case ch <- dataCopy:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		select {
		case <-ch:
		default:
		}
	}
}

// Subscribe consumes a subject in the background until Unsubscribe or Close
func (t *MemoryTransport) Subscribe(subject string, handler MessageHandler) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return fmt.Errorf("memory transport is closed")
	}
	if _, exists := t.subscriptions[subject]; exists {
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}

	ch := t.channel(subject)
	ctx, cancel := context.WithCancel(context.Background())
	t.subscriptions[subject] = cancel

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case data, ok := <-ch:
				if !ok {
					return
				}
				// Handler errors drop the message; there is no redelivery in memory
				_ = handler(data)
			}
		}
	}()

	return nil
}

// Unsubscribe stops consuming a subject
func (t *MemoryTransport) Unsubscribe(subject string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	cancel, exists := t.subscriptions[subject]
	if !exists {
		return fmt.Errorf("not subscribed to subject: %s", subject)
	}

	cancel()
	delete(t.subscriptions, subject)
	return nil
}

// Pending returns the number of undelivered messages for a subject
func (t *MemoryTransport) Pending(subject string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if ch, exists := t.channels[subject]; exists {
		return len(ch)
	}
	return 0
}

// Close cancels all subscriptions and closes all channels
func (t *MemoryTransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true

	for subject, cancel := range t.subscriptions {
		cancel()
		delete(t.subscriptions, subject)
	}
	t.mu.Unlock()

	t.wg.Wait()

	t.mu.Lock()
	defer t.mu.Unlock()
	for subject, ch := range t.channels {
		close(ch)
		delete(t.channels, subject)
	}

	return nil
}
