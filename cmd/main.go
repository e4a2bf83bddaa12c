package main

import (
    "context"
    "os/signal"
    "syscall"
    "time"

    "github.com/walletera/tweet-app/internal/app"

    "github.com/joho/godotenv"
)

const shutdownTimeout = 10 * time.Second

func main() {
    ctx, ctxCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer ctxCancel()

    _ = godotenv.Load()

    config, err := LoadConfig()
    if err != nil {
        panic(err)
    }
    saveMode, err := config.saveMode()
    if err != nil {
        panic(err)
    }

    opts := []app.Option{
        app.WithRabbitmqHost(config.RabbitmqHost),
        app.WithRabbitmqPort(config.RabbitmqPort),
        app.WithRabbitmqUser(config.RabbitmqUser),
        app.WithRabbitmqPassword(config.RabbitmqPassword),
        app.WithMongoDBURL(config.MongoDBURL),
        app.WithMongoDBDatabase(config.MongoDBDatabase),
        app.WithTweetEventPartitions(config.TweetEventPartitions),
        app.WithReplyEventPartitions(config.ReplyEventPartitions),
        app.WithSaveMode(saveMode),
        app.WithSaveMaxAttempts(config.SaveMaxAttempts),
        app.WithProcessingTimeout(config.ProcessingTimeout),
        app.WithPublishConfirmTimeout(config.PublishConfirmTimeout),
    }
    if config.MetricsHttpServerPort > 0 {
        opts = append(opts, app.WithMetricsConfig(app.MetricsConfig{
            MetricsHttpServerPort: config.MetricsHttpServerPort,
        }))
    }

    app, err := app.NewApp(opts...)
    if err != nil {
        panic(err)
    }

    err = app.Run(ctx)
    if err != nil {
        panic(err)
    }

    <-ctx.Done()

    shutdownCtx, shutdownCtxCancel := context.WithTimeout(context.Background(), shutdownTimeout)
    defer shutdownCtxCancel()

    app.Stop(shutdownCtx)
}
