package bus_test

import (
    "bytes"
    "context"
    "errors"
    "log/slog"
    "testing"
    "time"

    "github.com/walletera/tweet-app/internal/bus"
    "github.com/walletera/tweet-app/internal/bus/membus"
    "github.com/walletera/tweet-app/internal/metrics"
    "github.com/walletera/tweet-app/pkg/tweetevents"

    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/testutil"
    "github.com/stretchr/testify/require"
)

const waitTimeout = 2 * time.Second

func newTopology(t *testing.T, tweetPartitions, replyPartitions int) bus.Topology {
    topology, err := bus.NewTopology(bus.DefaultExchangeName, map[string]int{
        tweetevents.TweetEventTopic: tweetPartitions,
        tweetevents.ReplyEventTopic: replyPartitions,
    })
    require.NoError(t, err)
    return topology
}

func newLogger(buf *bytes.Buffer) *slog.Logger {
    return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func waitCtx(t *testing.T) context.Context {
    ctx, cancel := context.WithTimeout(context.Background(), waitTimeout)
    t.Cleanup(cancel)
    return ctx
}

func TestPublisher_PublishTweetEvent(t *testing.T) {
    broker := membus.New(newTopology(t, 4, 1))
    var logs bytes.Buffer
    publisher := bus.NewPublisher(broker, newLogger(&logs))

    event := tweetevents.NewCreateTweetEvent("tweet-key", "alice", "hello", "2024-01-01")
    result, err := publisher.PublishTweetEvent(context.Background(), event).Wait(waitCtx(t))
    require.NoError(t, err)

    require.Equal(t, tweetevents.TweetEventTopic, result.Topic)
    require.Equal(t, "tweet-key", result.Key)
    require.Equal(t, bus.ForKey("tweet-key", 4), result.Partition)

    records := broker.Records()
    require.Len(t, records, 1)
    require.Equal(t, "tweet-app", records[0].Headers["event-source"])
    require.Equal(t, result.Partition, records[0].Partition)

    expected, err := event.Serialize()
    require.NoError(t, err)
    require.JSONEq(t, string(expected), string(records[0].Value))
    require.Contains(t, logs.String(), "event sent successfully")
}

func TestPublisher_EmptyKeySpreadsRoundRobin(t *testing.T) {
    broker := membus.New(newTopology(t, 4, 2))
    publisher := bus.NewPublisher(broker, newLogger(&bytes.Buffer{}))

    var partitions []int
    for range 5 {
        result, err := publisher.PublishReplyEvent(
            context.Background(),
            tweetevents.NewReplyEvent("", "bob", "tweet-1", "hi"),
        ).Wait(waitCtx(t))
        require.NoError(t, err)
        require.Equal(t, tweetevents.ReplyEventTopic, result.Topic)
        partitions = append(partitions, result.Partition)
    }
    require.Equal(t, []int{0, 1, 0, 1, 0}, partitions)
}

func TestPublisher_SameKeySamePartition(t *testing.T) {
    broker := membus.New(newTopology(t, 4, 1))
    publisher := bus.NewPublisher(broker, newLogger(&bytes.Buffer{}))

    first, err := publisher.Publish(context.Background(), tweetevents.TweetEventTopic, "k", tweetevents.NewUpdateTweetEvent("k", "t1", "a")).Wait(waitCtx(t))
    require.NoError(t, err)
    second, err := publisher.Publish(context.Background(), tweetevents.TweetEventTopic, "k", tweetevents.NewUpdateTweetEvent("k", "t1", "b")).Wait(waitCtx(t))
    require.NoError(t, err)
    require.Equal(t, first.Partition, second.Partition)
}

func TestPublisher_TransportFailureIsReportedNotReturned(t *testing.T) {
    broker := membus.New(newTopology(t, 1, 1))
    broker.FailSends(errors.New("broker unreachable"))
    var logs bytes.Buffer
    reg := prometheus.NewRegistry()
    m := metrics.New(reg)
    publisher := bus.NewPublisher(broker, newLogger(&logs), bus.WithPublisherMetrics(m))

    pending := publisher.PublishTweetEvent(context.Background(), tweetevents.NewCreateTweetEvent("", "alice", "hello", ""))
    _, err := pending.Wait(waitCtx(t))

    var transportErr *bus.TransportError
    require.ErrorAs(t, err, &transportErr)
    require.Equal(t, tweetevents.TweetEventTopic, transportErr.Topic)
    require.EqualError(t, transportErr.Unwrap(), "broker unreachable")
    require.Contains(t, logs.String(), "failed sending event")
    require.Equal(t, 1.0, testutil.ToFloat64(m.EventsPublished().WithLabelValues(tweetevents.TweetEventTopic, metrics.OutcomeFailure)))
    require.Empty(t, broker.Records())
}

func TestPublisher_RejectedConfirmation(t *testing.T) {
    broker := membus.New(newTopology(t, 1, 1))
    broker.RejectConfirms(errors.New("nacked by broker"))
    publisher := bus.NewPublisher(broker, newLogger(&bytes.Buffer{}))

    _, err := publisher.PublishReplyEvent(context.Background(), tweetevents.NewReplyEvent("", "bob", "t1", "hi")).Wait(waitCtx(t))

    var transportErr *bus.TransportError
    require.ErrorAs(t, err, &transportErr)
    require.Equal(t, tweetevents.ReplyEventTopic, transportErr.Topic)
}

func TestPublisher_UnknownTopic(t *testing.T) {
    broker := membus.New(newTopology(t, 1, 1))
    publisher := bus.NewPublisher(broker, newLogger(&bytes.Buffer{}))

    _, err := publisher.Publish(context.Background(), "dm-event", "", tweetevents.NewReplyEvent("", "bob", "t1", "hi")).Wait(waitCtx(t))

    var transportErr *bus.TransportError
    require.ErrorAs(t, err, &transportErr)
}

type unserializable struct {
    tweetevents.ReplyEvent
}

func (unserializable) Serialize() ([]byte, error) {
    return nil, errors.New("boom")
}

func TestPublisher_SerializationFailure(t *testing.T) {
    broker := membus.New(newTopology(t, 1, 1))
    publisher := bus.NewPublisher(broker, newLogger(&bytes.Buffer{}))

    _, err := publisher.Publish(context.Background(), tweetevents.ReplyEventTopic, "", unserializable{}).Wait(waitCtx(t))

    var serializationErr *bus.SerializationError
    require.ErrorAs(t, err, &serializationErr)
    require.Empty(t, broker.Records())
}

type blockingTransport struct {
    topology bus.Topology
    release  chan struct{}
}

func (b *blockingTransport) Send(context.Context, bus.Record) (bus.Confirmation, error) {
    return b, nil
}

func (b *blockingTransport) Wait(ctx context.Context) error {
    select {
    case <-b.release:
        return nil
    case <-ctx.Done():
        return ctx.Err()
    }
}

func (b *blockingTransport) Topology() bus.Topology { return b.topology }

func (b *blockingTransport) Close() error { return nil }

func TestPublisher_DoesNotWaitForConfirmation(t *testing.T) {
    transport := &blockingTransport{topology: newTopology(t, 1, 1), release: make(chan struct{})}
    publisher := bus.NewPublisher(transport, newLogger(&bytes.Buffer{}))

    pending := publisher.PublishTweetEvent(context.Background(), tweetevents.NewCreateTweetEvent("", "alice", "hello", ""))

    select {
    case <-pending.Done():
        t.Fatal("publish completed before the broker confirmed")
    default:
    }

    close(transport.release)
    _, err := pending.Wait(waitCtx(t))
    require.NoError(t, err)
}

func TestPublisher_ConfirmationTimeout(t *testing.T) {
    transport := &blockingTransport{topology: newTopology(t, 1, 1), release: make(chan struct{})}
    publisher := bus.NewPublisher(transport, newLogger(&bytes.Buffer{}), bus.WithConfirmTimeout(10*time.Millisecond))

    _, err := publisher.PublishTweetEvent(context.Background(), tweetevents.NewCreateTweetEvent("", "alice", "hello", "")).Wait(waitCtx(t))
    require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPublisher_CallerCancellationDoesNotCancelConfirmation(t *testing.T) {
    transport := &blockingTransport{topology: newTopology(t, 1, 1), release: make(chan struct{})}
    publisher := bus.NewPublisher(transport, newLogger(&bytes.Buffer{}))

    requestCtx, cancelRequest := context.WithCancel(context.Background())
    pending := publisher.PublishTweetEvent(requestCtx, tweetevents.NewCreateTweetEvent("", "alice", "hello", ""))
    cancelRequest()
    close(transport.release)

    _, err := pending.Wait(waitCtx(t))
    require.NoError(t, err)
}
