package events

import (
	"context"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestNATS starts an embedded JetStream-enabled NATS server
func setupTestNATS(t *testing.T) string {
	t.Helper()

	opts := &server.Options{
		Host:      "127.0.0.1",
		Port:      -1, // Random port
		JetStream: true,
		StoreDir:  t.TempDir(),
	}

	ns, err := server.NewServer(opts)
	require.NoError(t, err)

	go ns.Start()
	if !ns.ReadyForConnections(5 * time.Second) {
		t.Fatal("NATS server not ready")
	}

	t.Cleanup(func() {
		ns.Shutdown()
		ns.WaitForShutdown()
	})

	return ns.ClientURL()
}

func TestNATSTransport_PublishPersistsToStream(t *testing.T) {
	url := setupTestNATS(t)

	tr, err := newNATSTransport(url, "", "", "luma.mood")
	require.NoError(t, err)
	defer func() { _ = tr.Close() }()

	require.NoError(t, tr.Publish(context.Background(), "luma.mood.trend", []byte(`{"kind":"trend"}`)))
	require.NoError(t, tr.Publish(context.Background(), "luma.mood.patterns", []byte(`{"kind":"patterns"}`)))

	info, err := tr.js.StreamInfo(StreamName("luma.mood"))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), info.State.Msgs)

	msg, err := tr.js.GetLastMsg(StreamName("luma.mood"), "luma.mood.trend")
	require.NoError(t, err)
	assert.Equal(t, `{"kind":"trend"}`, string(msg.Data))
}

func TestNATSTransport_ReusesExistingStream(t *testing.T) {
	url := setupTestNATS(t)

	first, err := newNATSTransport(url, "", "", "luma.mood")
	require.NoError(t, err)
	require.NoError(t, first.Publish(context.Background(), "luma.mood.outliers", []byte("1")))
	_ = first.Close()

	second, err := newNATSTransport(url, "", "", "luma.mood")
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	info, err := second.js.StreamInfo(StreamName("luma.mood"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), info.State.Msgs, "existing stream is kept")
}

func TestNATSTransport_ConsumerReceivesEvent(t *testing.T) {
	url := setupTestNATS(t)

	conn, err := nats.Connect(url)
	require.NoError(t, err)
	defer conn.Close()

	tr, err := newNATSTransportWithConn(conn, "luma.mood")
	require.NoError(t, err)

	sub, err := conn.SubscribeSync("luma.mood.>")
	require.NoError(t, err)

	p := NewPublisherWithTransport(tr, eventsConfig(true))
	require.NoError(t, p.PublishAnalysis(context.Background(), AnalysisCompleted{
		Kind:           KindTrend,
		UserID:         "user-3",
		TrendDirection: "declining",
	}))

	msg, err := sub.NextMsg(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "luma.mood.trend", msg.Subject)

	ev, err := p.Codec().Decode(msg.Data)
	require.NoError(t, err)
	assert.Equal(t, "declining", ev.TrendDirection)
}

func TestNATSTransport_InvalidURL(t *testing.T) {
	_, err := newNATSTransport("nats://127.0.0.1:1", "", "", "luma.mood")
	assert.Error(t, err)
}

func TestSanitizeStreamName(t *testing.T) {
	assert.Equal(t, "luma_mood", sanitizeStreamName("luma.mood"))
	assert.Equal(t, "luma_mood-events", StreamName("luma.mood"))
	assert.Equal(t, "a_b_c", sanitizeStreamName("a*b>c"))
}
