package tweets

import (
    "context"
    "errors"
    "log/slog"
    "time"

    "github.com/walletera/tweet-app/internal/bus"
    "github.com/walletera/tweet-app/internal/domain/users"
    "github.com/walletera/tweet-app/pkg/logattr"
    "github.com/walletera/tweet-app/pkg/tweetevents"

    "github.com/walletera/werrors"
)

// EventsPublisher is the part of bus.Publisher the service needs.
type EventsPublisher interface {
    PublishTweetEvent(ctx context.Context, event tweetevents.TweetEvent) *bus.PendingResult
    PublishReplyEvent(ctx context.Context, event tweetevents.ReplyEvent) *bus.PendingResult
}

// Service is the request-facing side of the tweets domain. Posts, updates and
// replies are published and applied later by the bus consumers; likes and
// dislikes are applied in the caller's goroutine. Both paths end in Mutator.Apply.
type Service struct {
    publisher  EventsPublisher
    mutator    *Mutator
    repository Repository
    users      users.Repository
    logger     *slog.Logger
}

func NewService(
    publisher EventsPublisher,
    mutator *Mutator,
    repository Repository,
    usersRepository users.Repository,
    logger *slog.Logger,
) *Service {
    return &Service{
        publisher:  publisher,
        mutator:    mutator,
        repository: repository,
        users:      usersRepository,
        logger:     logger,
    }
}

// PostTweet publishes a CREATE event. An empty created defaults to the current UTC time.
func (s *Service) PostTweet(ctx context.Context, correlationId string, username string, content string, created string) (*bus.PendingResult, werrors.WError) {
    if username == "" {
        return nil, NewInvalidParametersError("username is required")
    }
    err := tweetevents.ValidateTweetContent(content)
    if err != nil {
        return nil, NewInvalidParametersError("invalid tweet content: %s", err.Error())
    }
    if created == "" {
        created = time.Now().UTC().Format(time.RFC3339)
    }
    event := tweetevents.NewCreateTweetEvent(correlationId, username, content, created)
    return s.publisher.PublishTweetEvent(ctx, event), nil
}

// UpdateTweet publishes an UPDATE event. Whether the tweet exists is checked by the consumer.
func (s *Service) UpdateTweet(ctx context.Context, correlationId string, tweetId string, content string) (*bus.PendingResult, werrors.WError) {
    if tweetId == "" {
        return nil, NewInvalidParametersError("tweet id is required")
    }
    err := tweetevents.ValidateTweetContent(content)
    if err != nil {
        return nil, NewInvalidParametersError("invalid tweet content: %s", err.Error())
    }
    event := tweetevents.NewUpdateTweetEvent(correlationId, tweetId, content)
    return s.publisher.PublishTweetEvent(ctx, event), nil
}

func (s *Service) ReplyTweet(ctx context.Context, correlationId string, username string, tweetId string, content string) (*bus.PendingResult, werrors.WError) {
    if username == "" || tweetId == "" {
        return nil, NewInvalidParametersError("username and tweet id are required")
    }
    err := tweetevents.ValidateReplyContent(content)
    if err != nil {
        return nil, NewInvalidParametersError("invalid reply content: %s", err.Error())
    }
    event := tweetevents.NewReplyEvent(correlationId, username, tweetId, content)
    return s.publisher.PublishReplyEvent(ctx, event), nil
}

// LikeTweet adds username to the like-set of the tweet. Liking twice is not an error.
func (s *Service) LikeTweet(ctx context.Context, username string, tweetId string) (Tweet, werrors.WError) {
    werr := s.checkLikeParameters(ctx, username, tweetId)
    if werr != nil {
        return Tweet{}, werr
    }
    tweet, werr := s.mutator.Apply(ctx, Like{ID: tweetId, Username: username})
    if werr != nil {
        return Tweet{}, s.likeError("failed liking tweet", werr, username, tweetId)
    }
    s.logger.Info("tweet liked", logattr.TweetId(tweetId), logattr.Username(username))
    return tweet, nil
}

// DislikeTweet removes username from the like-set of the tweet. Removing a user
// that never liked the tweet is not an error.
func (s *Service) DislikeTweet(ctx context.Context, username string, tweetId string) (Tweet, werrors.WError) {
    werr := s.checkLikeParameters(ctx, username, tweetId)
    if werr != nil {
        return Tweet{}, werr
    }
    tweet, werr := s.mutator.Apply(ctx, Dislike{ID: tweetId, Username: username})
    if werr != nil {
        return Tweet{}, s.likeError("failed disliking tweet", werr, username, tweetId)
    }
    s.logger.Info("tweet disliked", logattr.TweetId(tweetId), logattr.Username(username))
    return tweet, nil
}

func (s *Service) checkLikeParameters(ctx context.Context, username string, tweetId string) werrors.WError {
    _, werr := s.repository.FindByID(ctx, tweetId)
    if werr != nil {
        return s.likeError("invalid like parameters", werr, username, tweetId)
    }
    _, werr = s.users.FindByUserName(ctx, username)
    if werr != nil {
        return s.likeError("invalid like parameters", werr, username, tweetId)
    }
    return nil
}

// likeError maps a missing tweet or user to an invalid parameters error.
func (s *Service) likeError(msg string, werr werrors.WError, username string, tweetId string) werrors.WError {
    s.logger.Warn(
        msg,
        logattr.Error(werr.Message()),
        logattr.TweetId(tweetId),
        logattr.Username(username),
    )
    if errors.Is(werr, ErrTweetNotFound) || errors.Is(werr, users.ErrUserNotFound) {
        return NewInvalidParametersError("invalid parameters: %s", werr.Message())
    }
    return werr
}

func (s *Service) GetAllTweets(ctx context.Context) ([]Tweet, werrors.WError) {
    found, werr := s.repository.FindAll(ctx)
    if werr != nil {
        return nil, werr
    }
    if len(found) == 0 {
        return nil, NewNoTweetsFoundError("no tweets found")
    }
    return found, nil
}

func (s *Service) GetTweetsOfUser(ctx context.Context, username string) ([]Tweet, werrors.WError) {
    found, werr := s.repository.FindByUsername(ctx, username)
    if werr != nil {
        return nil, werr
    }
    if len(found) == 0 {
        return nil, NewNoTweetsFoundError("no tweets by user %s", username)
    }
    return found, nil
}

func (s *Service) GetTweet(ctx context.Context, tweetId string) (Tweet, werrors.WError) {
    return s.repository.FindByID(ctx, tweetId)
}

func (s *Service) DeleteTweet(ctx context.Context, tweetId string) werrors.WError {
    werr := s.repository.DeleteByID(ctx, tweetId)
    if werr != nil {
        return werr
    }
    s.logger.Info("tweet deleted", logattr.TweetId(tweetId))
    return nil
}
