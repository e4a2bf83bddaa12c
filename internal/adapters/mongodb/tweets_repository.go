package mongodb

import (
    "context"
    "errors"

    "github.com/walletera/tweet-app/internal/domain/tweets"

    "github.com/samber/lo"
    "github.com/walletera/werrors"
    "go.mongodb.org/mongo-driver/v2/bson"
    "go.mongodb.org/mongo-driver/v2/mongo"
    "go.mongodb.org/mongo-driver/v2/mongo/options"
)

type ReplyBSON struct {
    Username string `bson:"username"`
    TweetID  string `bson:"tweetId"`
    Content  string `bson:"content"`
}

type TweetBSON struct {
    ID       string            `bson:"_id"`
    Version  uint64            `bson:"version"`
    Username string            `bson:"username"`
    Content  string            `bson:"content"`
    Created  string            `bson:"created"`
    Likes    map[string]string `bson:"likes"`
    Replies  []ReplyBSON       `bson:"replies"`
}

func toBSON(tweet tweets.Tweet) TweetBSON {
    replies := lo.Map(tweet.Replies, func(reply tweets.Reply, _ int) ReplyBSON {
        return ReplyBSON(reply)
    })
    likes := map[string]string(tweet.Likes)
    if likes == nil {
        likes = map[string]string{}
    }
    return TweetBSON{
        ID:       tweet.ID,
        Version:  tweet.Version,
        Username: tweet.Username,
        Content:  tweet.Content,
        Created:  tweet.Created,
        Likes:    likes,
        Replies:  replies,
    }
}

func (t TweetBSON) toTweet() tweets.Tweet {
    replies := lo.Map(t.Replies, func(reply ReplyBSON, _ int) tweets.Reply {
        return tweets.Reply(reply)
    })
    likes := tweets.Likes(t.Likes)
    if likes == nil {
        likes = tweets.Likes{}
    }
    return tweets.Tweet{
        ID:       t.ID,
        Version:  t.Version,
        Username: t.Username,
        Content:  t.Content,
        Created:  t.Created,
        Likes:    likes,
        Replies:  replies,
    }
}

var _ tweets.Repository = (*TweetsRepository)(nil)

type TweetsRepository struct {
    client         *mongo.Client
    dbName         string
    collectionName string
}

func NewTweetsRepository(client *mongo.Client, dbName string, collectionName string) *TweetsRepository {
    return &TweetsRepository{client: client, dbName: dbName, collectionName: collectionName}
}

func (r *TweetsRepository) collection() *mongo.Collection {
    return r.client.Database(r.dbName).Collection(r.collectionName)
}

func (r *TweetsRepository) FindByID(ctx context.Context, id string) (tweets.Tweet, werrors.WError) {
    var tweetBSON TweetBSON
    err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&tweetBSON)
    if err != nil {
        if errors.Is(err, mongo.ErrNoDocuments) {
            return tweets.Tweet{}, tweets.NewTweetNotFoundError(id)
        }
        return tweets.Tweet{}, werrors.NewRetryableInternalError("failed finding tweet %s: %s", id, err.Error())
    }
    return tweetBSON.toTweet(), nil
}

func (r *TweetsRepository) FindByUsername(ctx context.Context, username string) ([]tweets.Tweet, werrors.WError) {
    return r.find(ctx, bson.M{"username": username})
}

func (r *TweetsRepository) FindAll(ctx context.Context) ([]tweets.Tweet, werrors.WError) {
    return r.find(ctx, bson.M{})
}

func (r *TweetsRepository) find(ctx context.Context, filter bson.M) ([]tweets.Tweet, werrors.WError) {
    findOpts := options.Find().SetSort(bson.D{{Key: "created", Value: 1}, {Key: "_id", Value: 1}})
    cursor, err := r.collection().Find(ctx, filter, findOpts)
    if err != nil {
        return nil, werrors.NewRetryableInternalError("failed to find tweets: %s", err.Error())
    }
    found, err := NewIterator(cursor).All(ctx)
    if err != nil {
        return nil, werrors.NewRetryableInternalError("failed reading tweets: %s", err.Error())
    }
    return found, nil
}

// Save overwrites the stored document with the given state and bumps its version.
func (r *TweetsRepository) Save(ctx context.Context, tweet tweets.Tweet) (tweets.Tweet, werrors.WError) {
    if tweet.ID == "" {
        tweet.ID = bson.NewObjectID().Hex()
    }
    tweetBSON := toBSON(tweet)
    update := bson.M{
        "$set": bson.M{
            "username": tweetBSON.Username,
            "content":  tweetBSON.Content,
            "created":  tweetBSON.Created,
            "likes":    tweetBSON.Likes,
            "replies":  tweetBSON.Replies,
        },
        "$inc": bson.M{"version": 1},
    }
    updateOpts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

    var saved TweetBSON
    err := r.collection().FindOneAndUpdate(ctx, bson.M{"_id": tweet.ID}, update, updateOpts).Decode(&saved)
    if err != nil {
        return tweets.Tweet{}, werrors.NewRetryableInternalError("failed to save tweet %s: %s", tweet.ID, err.Error())
    }
    return saved.toTweet(), nil
}

// SaveVersioned inserts when tweet.Version is 0, otherwise replaces the document
// only if its stored version is still tweet.Version.
func (r *TweetsRepository) SaveVersioned(ctx context.Context, tweet tweets.Tweet) (tweets.Tweet, werrors.WError) {
    if tweet.ID == "" {
        tweet.ID = bson.NewObjectID().Hex()
    }
    expectedVersion := tweet.Version
    tweet.Version++
    tweetBSON := toBSON(tweet)
    coll := r.collection()

    if expectedVersion == 0 {
        _, err := coll.InsertOne(ctx, tweetBSON)
        if err != nil {
            if mongo.IsDuplicateKeyError(err) {
                return tweets.Tweet{}, tweets.NewVersionConflictError(tweet.ID, expectedVersion)
            }
            return tweets.Tweet{}, werrors.NewRetryableInternalError("failed to insert tweet %s: %s", tweet.ID, err.Error())
        }
        return tweetBSON.toTweet(), nil
    }

    result, err := coll.ReplaceOne(ctx, bson.M{"_id": tweet.ID, "version": expectedVersion}, tweetBSON)
    if err != nil {
        return tweets.Tweet{}, werrors.NewRetryableInternalError("failed to replace tweet %s: %s", tweet.ID, err.Error())
    }
    if result.MatchedCount == 0 {
        return tweets.Tweet{}, r.checkVersion(ctx, tweet.ID, expectedVersion)
    }
    return tweetBSON.toTweet(), nil
}

// checkVersion tells a deleted tweet apart from one that moved past expectedVersion.
func (r *TweetsRepository) checkVersion(ctx context.Context, id string, expectedVersion uint64) werrors.WError {
    _, werr := r.FindByID(ctx, id)
    if werr != nil {
        return werr
    }
    return tweets.NewVersionConflictError(id, expectedVersion)
}

func (r *TweetsRepository) DeleteByID(ctx context.Context, id string) werrors.WError {
    result, err := r.collection().DeleteOne(ctx, bson.M{"_id": id})
    if err != nil {
        return werrors.NewRetryableInternalError("failed to delete tweet %s: %s", id, err.Error())
    }
    if result.DeletedCount == 0 {
        return tweets.NewTweetNotFoundError(id)
    }
    return nil
}
