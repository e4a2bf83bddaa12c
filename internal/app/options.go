package app

import (
    "log/slog"
    "time"

    "github.com/walletera/tweet-app/internal/domain/tweets"
    "github.com/walletera/tweet-app/internal/domain/users"
)

type Option func(app *App)

func WithMetricsConfig(config MetricsConfig) func(a *App) {
    return func(a *App) {
        a.metricsConfig = NewOptional[MetricsConfig](config)
    }
}

func WithRabbitmqHost(host string) func(a *App) { return func(a *App) { a.rabbitmqHost = host } }

func WithRabbitmqPort(port int) func(a *App) { return func(a *App) { a.rabbitmqPort = port } }

func WithRabbitmqUser(user string) func(a *App) { return func(a *App) { a.rabbitmqUser = user } }

func WithRabbitmqPassword(password string) func(a *App) {
    return func(a *App) { a.rabbitmqPassword = password }
}

func WithMongoDBURL(url string) func(a *App) { return func(a *App) { a.mongodbURL = url } }

func WithMongoDBDatabase(database string) func(a *App) {
    return func(a *App) { a.mongodbDatabase = database }
}

func WithTweetEventPartitions(partitions int) func(a *App) {
    return func(a *App) { a.tweetEventPartitions = partitions }
}

func WithReplyEventPartitions(partitions int) func(a *App) {
    return func(a *App) { a.replyEventPartitions = partitions }
}

func WithSaveMode(saveMode tweets.SaveMode) func(a *App) {
    return func(a *App) { a.saveMode = saveMode }
}

func WithSaveMaxAttempts(maxAttempts int) func(a *App) {
    return func(a *App) { a.saveMaxAttempts = maxAttempts }
}

func WithProcessingTimeout(timeout time.Duration) func(a *App) {
    return func(a *App) { a.processingTimeout = timeout }
}

func WithPublishConfirmTimeout(timeout time.Duration) func(a *App) {
    return func(a *App) { a.publishConfirmTimeout = timeout }
}

// WithInMemoryAdapters replaces RabbitMQ and MongoDB with in-process implementations.
func WithInMemoryAdapters() func(a *App) {
    return func(a *App) { a.inMemory = true }
}

// WithUsers stores the given users when the app starts.
func WithUsers(seed ...users.User) func(a *App) {
    return func(a *App) { a.seedUsers = append(a.seedUsers, seed...) }
}

func WithLogHandler(handler slog.Handler) func(app *App) {
    return func(app *App) { app.logHandler = handler }
}
