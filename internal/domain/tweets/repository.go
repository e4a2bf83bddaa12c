//go:generate go run go.uber.org/mock/mockgen -source=repository.go -destination=../../mocks/mock_tweets_repository.go -package=mocks -mock_names=Repository=MockTweetsRepository
package tweets

import (
    "context"

    "github.com/walletera/werrors"
)

type Repository interface {
    // FindByID returns an error matching ErrTweetNotFound when no tweet has the given id.
    FindByID(ctx context.Context, id string) (Tweet, werrors.WError)
    FindByUsername(ctx context.Context, username string) ([]Tweet, werrors.WError)
    FindAll(ctx context.Context) ([]Tweet, werrors.WError)
    // Save writes the whole document, replacing whatever is stored under its id.
    // A tweet without id gets one assigned by the store.
    Save(ctx context.Context, tweet Tweet) (Tweet, werrors.WError)
    // SaveVersioned writes the whole document only if the stored version still equals
    // tweet.Version, otherwise it fails with ErrVersionConflict. Version 0 means insert.
    SaveVersioned(ctx context.Context, tweet Tweet) (Tweet, werrors.WError)
    DeleteByID(ctx context.Context, id string) werrors.WError
}
