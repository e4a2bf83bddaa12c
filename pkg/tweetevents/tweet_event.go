package tweetevents

import (
    "context"
    "encoding/json"
    "time"

    "github.com/google/uuid"
    "github.com/walletera/eventskit/events"
    "github.com/walletera/werrors"
)

var (
    _ events.EventData      = TweetEvent{}
    _ events.Event[Handler] = TweetCreated{}
    _ events.Event[Handler] = TweetUpdated{}
)

type TweetPayload struct {
    TweetID  string `json:"tweetId,omitempty"`
    Username string `json:"username"`
    Content  string `json:"content" validate:"required,max=144"`
    Created  string `json:"created"`
}

// TweetEvent is the envelope carried on the tweet-event topic.
// Id is the correlation key used as the record key and may be empty.
type TweetEvent struct {
    Id        string       `json:"id"`
    EventId   uuid.UUID    `json:"eventId"`
    Kind      Kind         `json:"kind"`
    Payload   TweetPayload `json:"payload"`
    Timestamp time.Time    `json:"createdAt"`
}

func NewCreateTweetEvent(correlationId string, username string, content string, created string) TweetEvent {
    return TweetEvent{
        Id:      correlationId,
        EventId: uuid.New(),
        Kind:    KindCreate,
        Payload: TweetPayload{
            Username: username,
            Content:  content,
            Created:  created,
        },
        Timestamp: time.Now().UTC(),
    }
}

func NewUpdateTweetEvent(correlationId string, tweetId string, content string) TweetEvent {
    return TweetEvent{
        Id:      correlationId,
        EventId: uuid.New(),
        Kind:    KindUpdate,
        Payload: TweetPayload{
            TweetID: tweetId,
            Content: content,
        },
        Timestamp: time.Now().UTC(),
    }
}

func (e TweetEvent) ID() string {
    return e.EventId.String()
}

func (e TweetEvent) Type() string {
    switch e.Kind {
    case KindCreate:
        return "TweetCreated"
    case KindUpdate:
        return "TweetUpdated"
    default:
        return "TweetEvent"
    }
}

func (e TweetEvent) AggregateVersion() uint64 {
    return 0
}

func (e TweetEvent) CorrelationID() string {
    return e.Id
}

func (e TweetEvent) DataContentType() string {
    return jsonContentType
}

func (e TweetEvent) CreatedAt() time.Time {
    return e.Timestamp
}

func (e TweetEvent) Serialize() ([]byte, error) {
    return json.Marshal(e)
}

type TweetCreated struct {
    TweetEvent
}

func (e TweetCreated) Accept(ctx context.Context, handler Handler) werrors.WError {
    return handler.HandleTweetCreated(ctx, e)
}

type TweetUpdated struct {
    TweetEvent
}

func (e TweetUpdated) Accept(ctx context.Context, handler Handler) werrors.WError {
    return handler.HandleTweetUpdated(ctx, e)
}
