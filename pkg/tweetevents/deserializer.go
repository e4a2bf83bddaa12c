package tweetevents

import (
    "encoding/json"
    "fmt"
    "log/slog"

    "github.com/walletera/tweet-app/pkg/logattr"

    "github.com/walletera/eventskit/events"
)

var (
    _ events.Deserializer[Handler] = (*TweetEventDeserializer)(nil)
    _ events.Deserializer[Handler] = (*ReplyEventDeserializer)(nil)
)

type TweetEventDeserializer struct {
    logger *slog.Logger
}

func NewTweetEventDeserializer(logger *slog.Logger) *TweetEventDeserializer {
    return &TweetEventDeserializer{logger: logger}
}

// Deserialize returns a nil event, and no error, for kinds it does not know.
func (d *TweetEventDeserializer) Deserialize(rawEvent []byte) (events.Event[Handler], error) {
    var tweetEvent TweetEvent
    err := json.Unmarshal(rawEvent, &tweetEvent)
    if err != nil {
        return nil, fmt.Errorf("error deserializing tweet event: %w", err)
    }
    if !tweetEvent.Kind.IsKnown() {
        d.logger.Warn(
            "unknown tweet event kind, discarding event",
            logattr.EventType(tweetEvent.Kind.String()),
            logattr.CorrelationId(tweetEvent.Id),
        )
        return nil, nil
    }
    err = tweetEvent.Validate()
    if err != nil {
        return nil, err
    }
    switch tweetEvent.Kind {
    case KindCreate:
        return TweetCreated{TweetEvent: tweetEvent}, nil
    case KindUpdate:
        return TweetUpdated{TweetEvent: tweetEvent}, nil
    default:
        return nil, fmt.Errorf("unhandled tweet event kind %s", tweetEvent.Kind)
    }
}

type ReplyEventDeserializer struct {
    logger *slog.Logger
}

func NewReplyEventDeserializer(logger *slog.Logger) *ReplyEventDeserializer {
    return &ReplyEventDeserializer{logger: logger}
}

func (d *ReplyEventDeserializer) Deserialize(rawEvent []byte) (events.Event[Handler], error) {
    var replyEvent ReplyEvent
    err := json.Unmarshal(rawEvent, &replyEvent)
    if err != nil {
        return nil, fmt.Errorf("error deserializing reply event: %w", err)
    }
    err = replyEvent.Validate()
    if err != nil {
        return nil, err
    }
    return ReplyAppended{ReplyEvent: replyEvent}, nil
}
