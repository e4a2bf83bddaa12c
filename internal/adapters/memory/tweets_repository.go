// Package memory holds map backed repositories. They return copies, so callers
// observe the same read-modify-write semantics they get from a document store.
package memory

import (
    "context"
    "slices"
    "sync"

    "github.com/walletera/tweet-app/internal/domain/tweets"

    "github.com/google/uuid"
    "github.com/walletera/werrors"
)

var _ tweets.Repository = (*TweetsRepository)(nil)

type TweetsRepository struct {
    mu     sync.RWMutex
    tweets map[string]tweets.Tweet
    // insertion order, so listings are stable
    order []string
}

func NewTweetsRepository() *TweetsRepository {
    return &TweetsRepository{tweets: make(map[string]tweets.Tweet)}
}

func (r *TweetsRepository) FindByID(_ context.Context, id string) (tweets.Tweet, werrors.WError) {
    r.mu.RLock()
    defer r.mu.RUnlock()
    tweet, ok := r.tweets[id]
    if !ok {
        return tweets.Tweet{}, tweets.NewTweetNotFoundError(id)
    }
    return tweet.Clone(), nil
}

func (r *TweetsRepository) FindByUsername(_ context.Context, username string) ([]tweets.Tweet, werrors.WError) {
    return r.filter(func(tweet tweets.Tweet) bool { return tweet.Username == username }), nil
}

func (r *TweetsRepository) FindAll(_ context.Context) ([]tweets.Tweet, werrors.WError) {
    return r.filter(func(tweets.Tweet) bool { return true }), nil
}

func (r *TweetsRepository) filter(keep func(tweets.Tweet) bool) []tweets.Tweet {
    r.mu.RLock()
    defer r.mu.RUnlock()
    found := make([]tweets.Tweet, 0)
    for _, id := range r.order {
        tweet := r.tweets[id]
        if keep(tweet) {
            found = append(found, tweet.Clone())
        }
    }
    return found
}

func (r *TweetsRepository) Save(_ context.Context, tweet tweets.Tweet) (tweets.Tweet, werrors.WError) {
    r.mu.Lock()
    defer r.mu.Unlock()
    if tweet.ID == "" {
        tweet.ID = uuid.NewString()
    }
    if stored, ok := r.tweets[tweet.ID]; ok {
        tweet.Version = stored.Version + 1
    } else {
        tweet.Version = 1
    }
    r.put(tweet)
    return tweet.Clone(), nil
}

func (r *TweetsRepository) SaveVersioned(_ context.Context, tweet tweets.Tweet) (tweets.Tweet, werrors.WError) {
    r.mu.Lock()
    defer r.mu.Unlock()
    if tweet.ID == "" {
        tweet.ID = uuid.NewString()
    }
    stored, ok := r.tweets[tweet.ID]
    switch {
    case !ok && tweet.Version != 0:
        return tweets.Tweet{}, tweets.NewTweetNotFoundError(tweet.ID)
    case ok && stored.Version != tweet.Version:
        return tweets.Tweet{}, tweets.NewVersionConflictError(tweet.ID, tweet.Version)
    }
    tweet.Version++
    r.put(tweet)
    return tweet.Clone(), nil
}

func (r *TweetsRepository) put(tweet tweets.Tweet) {
    if _, ok := r.tweets[tweet.ID]; !ok {
        r.order = append(r.order, tweet.ID)
    }
    r.tweets[tweet.ID] = tweet.Clone()
}

func (r *TweetsRepository) DeleteByID(_ context.Context, id string) werrors.WError {
    r.mu.Lock()
    defer r.mu.Unlock()
    if _, ok := r.tweets[id]; !ok {
        return tweets.NewTweetNotFoundError(id)
    }
    delete(r.tweets, id)
    r.order = slices.DeleteFunc(r.order, func(storedId string) bool { return storedId == id })
    return nil
}
