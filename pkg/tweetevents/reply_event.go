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
    _ events.EventData      = ReplyEvent{}
    _ events.Event[Handler] = ReplyAppended{}
)

type ReplyPayload struct {
    Username string `json:"username" validate:"required"`
    TweetID  string `json:"tweetId" validate:"required"`
    Content  string `json:"content" validate:"required,max=50"`
}

// ReplyEvent is the envelope carried on the reply-event topic.
type ReplyEvent struct {
    Id        string       `json:"id"`
    EventId   uuid.UUID    `json:"eventId"`
    Reply     ReplyPayload `json:"reply"`
    Timestamp time.Time    `json:"createdAt"`
}

func NewReplyEvent(correlationId string, username string, tweetId string, content string) ReplyEvent {
    return ReplyEvent{
        Id:      correlationId,
        EventId: uuid.New(),
        Reply: ReplyPayload{
            Username: username,
            TweetID:  tweetId,
            Content:  content,
        },
        Timestamp: time.Now().UTC(),
    }
}

func (e ReplyEvent) ID() string {
    return e.EventId.String()
}

func (e ReplyEvent) Type() string {
    return "ReplyAppended"
}

func (e ReplyEvent) AggregateVersion() uint64 {
    return 0
}

func (e ReplyEvent) CorrelationID() string {
    return e.Id
}

func (e ReplyEvent) DataContentType() string {
    return jsonContentType
}

func (e ReplyEvent) CreatedAt() time.Time {
    return e.Timestamp
}

func (e ReplyEvent) Serialize() ([]byte, error) {
    return json.Marshal(e)
}

type ReplyAppended struct {
    ReplyEvent
}

func (e ReplyAppended) Accept(ctx context.Context, handler Handler) werrors.WError {
    return handler.HandleReplyAppended(ctx, e)
}
