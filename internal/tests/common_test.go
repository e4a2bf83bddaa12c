package tests

import (
    "context"
    "fmt"
    "log/slog"
    "time"

    "github.com/walletera/tweet-app/internal/adapters/mongodb"
    "github.com/walletera/tweet-app/internal/app"
    "github.com/walletera/tweet-app/internal/bus"
    "github.com/walletera/tweet-app/internal/domain/tweets"
    "github.com/walletera/tweet-app/internal/domain/users"
    "github.com/walletera/tweet-app/pkg/tweetevents"

    "github.com/cucumber/godog"
    "github.com/walletera/eventskit/events"
    "github.com/walletera/eventskit/rabbitmq"
    slogwatcher "github.com/walletera/logs-watcher/slog"
    "go.mongodb.org/mongo-driver/v2/mongo"
    "go.mongodb.org/mongo-driver/v2/mongo/options"
    "go.uber.org/zap"
    "go.uber.org/zap/exp/zapslog"
    "go.uber.org/zap/zapcore"
)

const (
    appKey                    = "app"
    appCtxCancelFuncKey       = "appCtxCancelFuncKey"
    logsWatcherKey            = "logsWatcher"
    rawEventKey               = "rawEvent"
    lastErrorKey              = "lastError"
    logsWatcherWaitForTimeout = 5 * time.Second
    eventuallyTimeout         = 5 * time.Second
    mongodbURL                = "mongodb://localhost:27017/?retryWrites=true&w=majority"
)

var mongodbClient *mongo.Client

func beforeScenarioHook(ctx context.Context, scenario *godog.Scenario) (context.Context, error) {
    markScenarioInContainerLogs(scenario.Name)

    handler, err := newZapHandler()
    if err != nil {
        return ctx, err
    }
    logsWatcher := slogwatcher.NewWatcher(handler)
    ctx = context.WithValue(ctx, logsWatcherKey, logsWatcher)

    client, err := getMongodbClient()
    if err != nil {
        return ctx, err
    }

    // cleanup database before each scenario
    for _, collection := range []string{app.TweetsCollectionName, app.UsersCollectionName} {
        err = client.Database(app.DefaultMongoDBDatabase).Collection(collection).Drop(ctx)
        if err != nil {
            return nil, err
        }
    }

    return ctx, nil
}

func afterScenarioHook(ctx context.Context, _ *godog.Scenario, scenarioErr error) (context.Context, error) {
    logsWatcher := logsWatcherFromCtx(ctx)

    cancel, ok := ctx.Value(appCtxCancelFuncKey).(context.CancelFunc)
    if ok {
        cancel()
    }
    appFromCtx(ctx).Stop(ctx)
    foundLogEntry := logsWatcher.WaitFor("tweet-app stopped", logsWatcherWaitForTimeout)
    if !foundLogEntry {
        return ctx, fmt.Errorf("app termination failed (didn't find expected log entry)")
    }

    err := logsWatcher.Stop()
    if err != nil {
        return ctx, fmt.Errorf("failed stopping the logsWatcher: %w", err)
    }

    if scenarioErr != nil {
        return ctx, fmt.Errorf("%w\n%s", scenarioErr, containerLogsReport())
    }
    return ctx, nil
}

func aRunningTweetApp(ctx context.Context) (context.Context, error) {
    logHandler := logsWatcherFromCtx(ctx).DecoratedHandler()

    appCtx, appCtxCancelFunc := context.WithCancel(ctx)

    tweetApp, err := app.NewApp(
        app.WithRabbitmqHost(rabbitmq.DefaultHost),
        app.WithRabbitmqPort(rabbitmq.DefaultPort),
        app.WithRabbitmqUser(rabbitmq.DefaultUser),
        app.WithRabbitmqPassword(rabbitmq.DefaultPassword),
        app.WithMongoDBURL(mongodbURL),
        app.WithProcessingTimeout(2*time.Second),
        app.WithUsers(
            users.User{UserName: "alice", Email: "alice@example.com"},
            users.User{UserName: "bob", Email: "bob@example.com"},
        ),
        app.WithLogHandler(logHandler),
    )
    if err != nil {
        appCtxCancelFunc()
        return ctx, fmt.Errorf("failed initializing tweet-app: %w", err)
    }

    err = tweetApp.Run(appCtx)
    if err != nil {
        appCtxCancelFunc()
        return ctx, fmt.Errorf("failed running tweet-app: %w", err)
    }

    ctx = context.WithValue(ctx, appKey, tweetApp)
    ctx = context.WithValue(ctx, appCtxCancelFuncKey, appCtxCancelFunc)

    foundLogEntry := logsWatcherFromCtx(ctx).WaitFor("tweet-app started", logsWatcherWaitForTimeout)
    if !foundLogEntry {
        return ctx, fmt.Errorf("tweet-app startup failed (didn't find expected log entry)")
    }

    return ctx, nil
}

func anEvent(ctx context.Context, event *godog.DocString) (context.Context, error) {
    if event == nil || len(event.Content) == 0 {
        return ctx, fmt.Errorf("the event is empty or was not defined")
    }
    return context.WithValue(ctx, rawEventKey, []byte(event.Content)), nil
}

// theEventIsPublishedTo publishes the raw event straight to the first partition
// of topic, bypassing the app publisher.
func theEventIsPublishedTo(ctx context.Context, topicName string) (context.Context, error) {
    topic, ok := topicOf(topicName)
    if !ok {
        return ctx, fmt.Errorf("unknown topic %s", topicName)
    }
    topology, err := bus.NewTopology(bus.DefaultExchangeName, map[string]int{
        tweetevents.TweetEventTopic: app.DefaultTweetEventPartitions,
        tweetevents.ReplyEventTopic: app.DefaultReplyEventPartitions,
    })
    if err != nil {
        return ctx, err
    }

    publisher, err := rabbitmq.NewClient(
        rabbitmq.WithExchangeName(topology.ExchangeName),
        rabbitmq.WithExchangeType(rabbitmq.ExchangeTypeTopic),
    )
    if err != nil {
        return ctx, fmt.Errorf("error creating rabbitmq client: %s", err.Error())
    }
    defer publisher.Close()

    rawEvent := ctx.Value(rawEventKey).([]byte)
    err = publisher.Publish(ctx, publishable{rawEvent: rawEvent}, events.RoutingInfo{
        Topic:      topology.ExchangeName,
        RoutingKey: topology.RoutingKey(topic, 0),
    })
    if err != nil {
        return ctx, fmt.Errorf("error publishing event to rabbitmq: %s", err.Error())
    }

    return ctx, nil
}

func aStoredTweet(ctx context.Context, tweetId string, username string, content string) (context.Context, error) {
    _, werr := tweetsRepository().Save(ctx, tweets.Tweet{
        ID:       tweetId,
        Username: username,
        Content:  content,
        Created:  time.Now().UTC().Format(time.RFC3339),
        Likes:    tweets.Likes{},
        Replies:  tweets.Replies{},
    })
    if werr != nil {
        return ctx, fmt.Errorf("failed storing tweet: %s", werr.Message())
    }
    return ctx, nil
}

func theTweetAppProducesTheFollowingLog(ctx context.Context, logMsg string) (context.Context, error) {
    logsWatcher := logsWatcherFromCtx(ctx)
    foundLogEntry := logsWatcher.WaitFor(logMsg, logsWatcherWaitForTimeout)
    if !foundLogEntry {
        return ctx, fmt.Errorf("didn't find expected log entry: %s", logMsg)
    }
    return ctx, nil
}

func theTweetHasContent(ctx context.Context, tweetId string, content string) (context.Context, error) {
    return ctx, eventually(func() error {
        tweet, werr := tweetsRepository().FindByID(ctx, tweetId)
        if werr != nil {
            return fmt.Errorf("failed finding tweet %s: %s", tweetId, werr.Message())
        }
        if tweet.Content != content {
            return fmt.Errorf("expected tweet content to be %q, but got %q", content, tweet.Content)
        }
        return nil
    })
}

func theTweetHasLikesAndReplies(ctx context.Context, tweetId string, likes int, replies int) (context.Context, error) {
    return ctx, eventually(func() error {
        tweet, werr := tweetsRepository().FindByID(ctx, tweetId)
        if werr != nil {
            return fmt.Errorf("failed finding tweet %s: %s", tweetId, werr.Message())
        }
        if tweet.Likes.Len() != likes {
            return fmt.Errorf("expected %d likes, but got %d", likes, tweet.Likes.Len())
        }
        if len(tweet.Replies) != replies {
            return fmt.Errorf("expected %d replies, but got %d", replies, len(tweet.Replies))
        }
        return nil
    })
}

func theTweetDoesNotExist(ctx context.Context, tweetId string) (context.Context, error) {
    _, werr := tweetsRepository().FindByID(ctx, tweetId)
    if werr == nil {
        return ctx, fmt.Errorf("expected tweet %s not to exist", tweetId)
    }
    return ctx, nil
}

func eventually(check func() error) error {
    deadline := time.Now().Add(eventuallyTimeout)
    for {
        err := check()
        if err == nil || time.Now().After(deadline) {
            return err
        }
        time.Sleep(100 * time.Millisecond)
    }
}

func tweetsRepository() *mongodb.TweetsRepository {
    client, err := getMongodbClient()
    if err != nil {
        panic(err)
    }
    return mongodb.NewTweetsRepository(client, app.DefaultMongoDBDatabase, app.TweetsCollectionName)
}

func logsWatcherFromCtx(ctx context.Context) *slogwatcher.Watcher {
    value := ctx.Value(logsWatcherKey)
    if value == nil {
        panic("logs watcher not found in context")
    }
    watcher, ok := value.(*slogwatcher.Watcher)
    if !ok {
        panic("logs watcher has invalid type")
    }
    return watcher
}

func appFromCtx(ctx context.Context) *app.App {
    value := ctx.Value(appKey)
    if value == nil {
        panic("tweet-app not found in context")
    }
    tweetApp, ok := value.(*app.App)
    if !ok {
        panic("tweet-app has invalid type")
    }
    return tweetApp
}

func newZapHandler() (slog.Handler, error) {
    encoderConfig := zap.NewProductionEncoderConfig()
    encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
    zapConfig := zap.Config{
        Level:             zap.NewAtomicLevelAt(zap.DebugLevel),
        Development:       false,
        DisableStacktrace: true,
        Sampling: &zap.SamplingConfig{
            Initial:    100,
            Thereafter: 100,
        },
        Encoding:         "json",
        EncoderConfig:    encoderConfig,
        OutputPaths:      []string{"stderr"},
        ErrorOutputPaths: []string{"stderr"},
    }
    zapLogger, err := zapConfig.Build()
    if err != nil {
        return nil, err
    }
    if zapLogger.Core() == nil {
        return nil, fmt.Errorf("zapLogger.Core() is nil")
    }
    return zapslog.NewHandler(zapLogger.Core()), nil
}

func getMongodbClient() (*mongo.Client, error) {
    if mongodbClient != nil {
        return mongodbClient, nil
    }

    // Use the SetServerAPIOptions() method to set the Stable API version to 1
    serverAPI := options.ServerAPI(options.ServerAPIVersion1)
    opts := options.Client().ApplyURI(mongodbURL).SetServerAPIOptions(serverAPI)

    client, err := mongo.Connect(opts)
    if err != nil {
        return nil, err
    }
    mongodbClient = client

    return mongodbClient, nil
}
