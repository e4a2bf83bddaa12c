package tweetevents

import (
    "context"

    "github.com/walletera/werrors"
)

// Handler is implemented by whatever applies tweet-app events.
// Every event type accepted by the deserializers has exactly one method here.
type Handler interface {
    HandleTweetCreated(ctx context.Context, event TweetCreated) werrors.WError
    HandleTweetUpdated(ctx context.Context, event TweetUpdated) werrors.WError
    HandleReplyAppended(ctx context.Context, event ReplyAppended) werrors.WError
}
