package tests

import (
    "time"

    "github.com/walletera/tweet-app/pkg/tweetevents"

    "github.com/walletera/eventskit/events"
)

var _ events.EventData = publishable{}

// publishable pushes a raw feature file payload through the eventskit client,
// including payloads that are not valid events.
type publishable struct {
    rawEvent []byte
}

func (p publishable) ID() string { return "" }

func (p publishable) Type() string { return "raw" }

func (p publishable) AggregateVersion() uint64 { return 0 }

func (p publishable) CorrelationID() string { return "" }

func (p publishable) DataContentType() string { return "application/json" }

func (p publishable) CreatedAt() time.Time { return time.Time{} }

func (p publishable) Serialize() ([]byte, error) {
    return p.rawEvent, nil
}

func topicOf(name string) (string, bool) {
    switch name {
    case tweetevents.TweetEventTopic, tweetevents.ReplyEventTopic:
        return name, true
    default:
        return "", false
    }
}
