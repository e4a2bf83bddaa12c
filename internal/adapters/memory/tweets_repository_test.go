package memory

import (
    "context"
    "testing"

    "github.com/walletera/tweet-app/internal/domain/tweets"
    "github.com/walletera/tweet-app/internal/domain/users"

    "github.com/stretchr/testify/require"
)

func TestTweetsRepository_ReturnsCopies(t *testing.T) {
    ctx := context.Background()
    repository := NewTweetsRepository()

    saved, werr := repository.Save(ctx, tweets.Tweet{Username: "alice", Content: "hello", Likes: tweets.Likes{}, Replies: tweets.Replies{}})
    require.Nil(t, werr)
    require.NotEmpty(t, saved.ID)
    require.Equal(t, uint64(1), saved.Version)

    found, werr := repository.FindByID(ctx, saved.ID)
    require.Nil(t, werr)
    found.Likes["bob"] = saved.ID
    found.Replies = append(found.Replies, tweets.Reply{Username: "bob", TweetID: saved.ID, Content: "hi"})

    again, _ := repository.FindByID(ctx, saved.ID)
    require.Empty(t, again.Likes)
    require.Empty(t, again.Replies)
}

func TestTweetsRepository_SaveVersioned(t *testing.T) {
    ctx := context.Background()
    repository := NewTweetsRepository()

    inserted, werr := repository.SaveVersioned(ctx, tweets.Tweet{ID: "tweet-1", Content: "hello"})
    require.Nil(t, werr)
    require.Equal(t, uint64(1), inserted.Version)

    _, werr = repository.SaveVersioned(ctx, tweets.Tweet{ID: "tweet-1", Content: "again"})
    require.ErrorIs(t, werr, tweets.ErrVersionConflict)

    inserted.Content = "edited"
    updated, werr := repository.SaveVersioned(ctx, inserted)
    require.Nil(t, werr)
    require.Equal(t, uint64(2), updated.Version)

    _, werr = repository.SaveVersioned(ctx, inserted)
    require.ErrorIs(t, werr, tweets.ErrVersionConflict)

    // a last-writer-wins save also moves the version
    _, werr = repository.Save(ctx, updated)
    require.Nil(t, werr)
    _, werr = repository.SaveVersioned(ctx, updated)
    require.ErrorIs(t, werr, tweets.ErrVersionConflict)
}

func TestTweetsRepository_ListAndDelete(t *testing.T) {
    ctx := context.Background()
    repository := NewTweetsRepository()
    first, _ := repository.Save(ctx, tweets.Tweet{Username: "alice", Content: "one"})
    _, _ = repository.Save(ctx, tweets.Tweet{Username: "bob", Content: "two"})
    _, _ = repository.Save(ctx, tweets.Tweet{Username: "alice", Content: "three"})

    all, _ := repository.FindAll(ctx)
    require.Len(t, all, 3)
    require.Equal(t, "one", all[0].Content)

    ofAlice, _ := repository.FindByUsername(ctx, "alice")
    require.Len(t, ofAlice, 2)

    require.Nil(t, repository.DeleteByID(ctx, first.ID))
    require.ErrorIs(t, repository.DeleteByID(ctx, first.ID), tweets.ErrTweetNotFound)
    all, _ = repository.FindAll(ctx)
    require.Len(t, all, 2)
}

func TestUsersRepository(t *testing.T) {
    ctx := context.Background()
    repository := NewUsersRepository(users.User{UserName: "bob", Email: "bob@example.com"})

    _, werr := repository.FindByUserName(ctx, "bob")
    require.Nil(t, werr)

    _, werr = repository.FindByUserName(ctx, "alice")
    require.ErrorIs(t, werr, users.ErrUserNotFound)

    found, werr := repository.FindByUserNameOrEmail(ctx, "", "bob@example.com")
    require.Nil(t, werr)
    require.Equal(t, "bob", found.UserName)

    _, werr = repository.FindByUserNameOrEmail(ctx, "", "")
    require.ErrorIs(t, werr, users.ErrUserNotFound)

    _, werr = repository.Save(ctx, users.User{UserName: "alice"})
    require.Nil(t, werr)
    _, werr = repository.FindByUserName(ctx, "alice")
    require.Nil(t, werr)
}
