package mongodb

import (
    "context"

    "github.com/walletera/tweet-app/internal/domain/tweets"

    "go.mongodb.org/mongo-driver/v2/mongo"
)

type Iterator struct {
    cursor *mongo.Cursor
}

func NewIterator(cursor *mongo.Cursor) *Iterator {
    return &Iterator{cursor: cursor}
}

func (m *Iterator) Next(ctx context.Context) (bool, tweets.Tweet, error) {
    if !m.cursor.Next(ctx) {
        if err := m.cursor.Err(); err != nil {
            return false, tweets.Tweet{}, err
        }
        return false, tweets.Tweet{}, nil
    }

    var tweetBSON TweetBSON
    if err := m.cursor.Decode(&tweetBSON); err != nil {
        return false, tweets.Tweet{}, err
    }

    return true, tweetBSON.toTweet(), nil
}

// All drains the cursor and closes it.
func (m *Iterator) All(ctx context.Context) ([]tweets.Tweet, error) {
    defer m.cursor.Close(ctx)
    found := make([]tweets.Tweet, 0)
    for {
        ok, tweet, err := m.Next(ctx)
        if err != nil {
            return nil, err
        }
        if !ok {
            return found, nil
        }
        found = append(found, tweet)
    }
}
