package tweetevents

const (
    TweetEventTopic = "tweet-event"
    ReplyEventTopic = "reply-event"

    EventSourceHeader = "event-source"
    EventSource       = "tweet-app"

    jsonContentType = "application/json"
)

// Kind is the mutation requested by a TweetEvent.
type Kind string

const (
    KindCreate Kind = "CREATE"
    KindUpdate Kind = "UPDATE"
)

func (k Kind) IsKnown() bool {
    switch k {
    case KindCreate, KindUpdate:
        return true
    default:
        return false
    }
}

func (k Kind) String() string {
    return string(k)
}
