package tweets

import (
    "context"
    "errors"
    "log/slog"

    "github.com/walletera/tweet-app/pkg/logattr"
    "github.com/walletera/tweet-app/pkg/tweetevents"

    "github.com/walletera/werrors"
)

var _ tweetevents.Handler = (*EventsHandler)(nil)

// EventsHandler turns bus events into mutations.
type EventsHandler struct {
    mutator *Mutator
    logger  *slog.Logger
}

func NewEventsHandler(mutator *Mutator, logger *slog.Logger) *EventsHandler {
    return &EventsHandler{
        mutator: mutator,
        logger:  logger,
    }
}

func (e *EventsHandler) HandleTweetCreated(ctx context.Context, tweetCreated tweetevents.TweetCreated) werrors.WError {
    mutation := CreateTweet{
        ID:       tweetCreated.Payload.TweetID,
        Username: tweetCreated.Payload.Username,
        Content:  tweetCreated.Payload.Content,
        Created:  tweetCreated.Payload.Created,
    }
    tweet, werr := e.mutator.Apply(ctx, mutation)
    if errors.Is(werr, ErrTweetExists) {
        e.logger.Warn(
            "tweet already exists, create dropped",
            logattr.TweetId(mutation.ID),
            logattr.Username(tweetCreated.Payload.Username),
            logattr.CorrelationId(tweetCreated.CorrelationID()),
        )
        return werr
    }
    if werr != nil {
        e.logger.Error(
            "failed saving tweet",
            logattr.Error(werr.Message()),
            logattr.Username(tweetCreated.Payload.Username),
            logattr.CorrelationId(tweetCreated.CorrelationID()),
        )
        return werr
    }
    e.logger.Info(
        "tweet created",
        logattr.TweetId(tweet.ID),
        logattr.Username(tweet.Username),
        logattr.CorrelationId(tweetCreated.CorrelationID()),
    )
    return nil
}

func (e *EventsHandler) HandleTweetUpdated(ctx context.Context, tweetUpdated tweetevents.TweetUpdated) werrors.WError {
    mutation := UpdateContent{
        ID:      tweetUpdated.Payload.TweetID,
        Content: tweetUpdated.Payload.Content,
    }
    _, werr := e.mutator.Apply(ctx, mutation)
    if werr != nil {
        e.logger.Error(
            "failed updating tweet",
            logattr.Error(werr.Message()),
            logattr.TweetId(mutation.ID),
            logattr.CorrelationId(tweetUpdated.CorrelationID()),
        )
        return werr
    }
    e.logger.Info(
        "tweet updated",
        logattr.TweetId(mutation.ID),
        logattr.CorrelationId(tweetUpdated.CorrelationID()),
    )
    return nil
}

func (e *EventsHandler) HandleReplyAppended(ctx context.Context, replyAppended tweetevents.ReplyAppended) werrors.WError {
    mutation := AppendReply{
        Reply: Reply{
            Username: replyAppended.Reply.Username,
            TweetID:  replyAppended.Reply.TweetID,
            Content:  replyAppended.Reply.Content,
        },
    }
    tweet, werr := e.mutator.Apply(ctx, mutation)
    if werr != nil {
        e.logger.Error(
            "failed appending reply",
            logattr.Error(werr.Message()),
            logattr.TweetId(mutation.TweetID()),
            logattr.Username(mutation.Reply.Username),
            logattr.CorrelationId(replyAppended.CorrelationID()),
        )
        return werr
    }
    e.logger.Info(
        "reply appended",
        logattr.TweetId(tweet.ID),
        logattr.Username(mutation.Reply.Username),
        logattr.CorrelationId(replyAppended.CorrelationID()),
    )
    return nil
}
