package app

import (
    "context"
    "errors"
    "fmt"
    "log/slog"
    "net/http"
    "time"

    "github.com/walletera/tweet-app/internal/adapters/memory"
    "github.com/walletera/tweet-app/internal/adapters/mongodb"
    "github.com/walletera/tweet-app/internal/adapters/rabbitmq"
    "github.com/walletera/tweet-app/internal/bus"
    "github.com/walletera/tweet-app/internal/bus/membus"
    "github.com/walletera/tweet-app/internal/dispatcher"
    "github.com/walletera/tweet-app/internal/domain/tweets"
    "github.com/walletera/tweet-app/internal/domain/users"
    "github.com/walletera/tweet-app/internal/metrics"
    "github.com/walletera/tweet-app/pkg/logattr"
    "github.com/walletera/tweet-app/pkg/tweetevents"

    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promhttp"
    "github.com/walletera/eventskit/messages"
    eventskitrabbitmq "github.com/walletera/eventskit/rabbitmq"
    "github.com/walletera/werrors"
    "go.mongodb.org/mongo-driver/v2/mongo"
    "go.mongodb.org/mongo-driver/v2/mongo/options"
    "go.uber.org/zap"
    "go.uber.org/zap/exp/zapslog"
    "go.uber.org/zap/zapcore"
)

const (
    ServiceName = "tweet-app"

    DefaultMongoDBDatabase      = "tweet-app"
    TweetsCollectionName        = "tweets"
    UsersCollectionName         = "users"
    DefaultTweetEventPartitions = 4
    DefaultReplyEventPartitions = 1
)

type waiter interface {
    Wait()
}

type App struct {
    rabbitmqHost          string
    rabbitmqPort          int
    rabbitmqUser          string
    rabbitmqPassword      string
    mongodbURL            string
    mongodbDatabase       string
    tweetEventPartitions  int
    replyEventPartitions  int
    saveMode              tweets.SaveMode
    saveMaxAttempts       int
    processingTimeout     time.Duration
    publishConfirmTimeout time.Duration
    metricsConfig         Optional[MetricsConfig]
    inMemory              bool
    seedUsers             []users.User
    logHandler            slog.Handler
    logger                *slog.Logger

    mongoClient       *mongo.Client
    transport         bus.Transport
    service           *tweets.Service
    dispatchers       []waiter
    stopDispatchers   context.CancelFunc
    httpServersToStop []*http.Server
}

type repositories struct {
    tweets tweets.Repository
    users  users.Repository
}

func NewApp(opts ...Option) (*App, error) {
    app := &App{}
    err := setDefaultOpts(app)
    if err != nil {
        return nil, fmt.Errorf("failed setting default options: %w", err)
    }
    for _, opt := range opts {
        opt(app)
    }
    return app, nil
}

func (app *App) Run(ctx context.Context) (err error) {
    app.logger = slog.
        New(app.logHandler).
        With(logattr.ServiceName(ServiceName))

    // consumers created but not yet owned by a started dispatcher
    var idleConsumers []messages.Consumer
    defer func() {
        if err != nil {
            closeConsumers(idleConsumers)
            app.release(ctx)
        }
    }()

    registry := prometheus.NewRegistry()
    appMetrics := metrics.New(registry)

    topology, err := bus.NewTopology(bus.DefaultExchangeName, map[string]int{
        tweetevents.TweetEventTopic: app.tweetEventPartitions,
        tweetevents.ReplyEventTopic: app.replyEventPartitions,
    })
    if err != nil {
        return fmt.Errorf("invalid bus topology: %w", err)
    }

    repos, err := app.createRepositories(ctx)
    if err != nil {
        return err
    }

    consumersFor, err := app.createTransport(topology)
    if err != nil {
        return err
    }

    mutator := tweets.NewMutator(
        repos.tweets,
        app.logger.With(logattr.Component("tweets.Mutator")),
        tweets.WithSaveMode(app.saveMode),
        tweets.WithMaxAttempts(app.saveMaxAttempts),
        tweets.WithMutatorMetrics(appMetrics),
    )
    publisher := bus.NewPublisher(
        app.transport,
        app.logger.With(logattr.Component("bus.Publisher")),
        bus.WithConfirmTimeout(app.publishConfirmTimeout),
        bus.WithPublisherMetrics(appMetrics),
    )
    app.service = tweets.NewService(
        publisher,
        mutator,
        repos.tweets,
        repos.users,
        app.logger.With(logattr.Component("tweets.Service")),
    )

    eventsHandler := tweets.NewEventsHandler(mutator, app.logger.With(logattr.Component("tweets.EventsHandler")))

    dispatchersCtx, stopDispatchers := context.WithCancel(ctx)
    app.stopDispatchers = stopDispatchers

    tweetConsumers, err := consumersFor(tweetevents.TweetEventTopic)
    if err != nil {
        return fmt.Errorf("error creating %s consumers: %w", tweetevents.TweetEventTopic, err)
    }
    idleConsumers = append(idleConsumers, tweetConsumers...)
    tweetDispatcher := dispatcher.New[tweetevents.Handler](
        tweetevents.TweetEventTopic,
        tweetConsumers,
        tweetevents.NewTweetEventDeserializer(app.logger.With(logattr.Component("tweetevents.TweetEventDeserializer"))),
        eventsHandler,
        app.dispatcherOpts(tweetevents.TweetEventTopic, appMetrics)...,
    )

    replyConsumers, err := consumersFor(tweetevents.ReplyEventTopic)
    if err != nil {
        return fmt.Errorf("error creating %s consumers: %w", tweetevents.ReplyEventTopic, err)
    }
    idleConsumers = append(idleConsumers, replyConsumers...)
    replyDispatcher := dispatcher.New[tweetevents.Handler](
        tweetevents.ReplyEventTopic,
        replyConsumers,
        tweetevents.NewReplyEventDeserializer(app.logger.With(logattr.Component("tweetevents.ReplyEventDeserializer"))),
        eventsHandler,
        app.dispatcherOpts(tweetevents.ReplyEventTopic, appMetrics)...,
    )

    for _, d := range []*dispatcher.Dispatcher[tweetevents.Handler]{tweetDispatcher, replyDispatcher} {
        // a dispatcher closes its consumers once started, even when Start fails
        idleConsumers = idleConsumers[len(d.Consumers()):]
        err = d.Start(dispatchersCtx)
        if err != nil {
            return fmt.Errorf("error starting %s dispatcher: %w", d.Topic(), err)
        }
        app.dispatchers = append(app.dispatchers, d)
    }

    for _, user := range app.seedUsers {
        _, werr := repos.users.Save(ctx, user)
        if werr != nil {
            return fmt.Errorf("failed storing user %s: %s", user.UserName, werr.Message())
        }
    }

    if app.metricsConfig.Set {
        metricsHttpServer := app.startMetricsHTTPServer(registry)
        app.httpServersToStop = append(app.httpServersToStop, metricsHttpServer)
    }

    app.logger.Info("tweet-app started")

    return nil
}

// Service is available once Run returned without error.
func (app *App) Service() *tweets.Service {
    return app.service
}

func (app *App) Stop(ctx context.Context) {
    app.release(ctx)
    app.logger.Info("tweet-app stopped")
}

// release stops whatever Run managed to start, in reverse dependency order.
func (app *App) release(ctx context.Context) {
    if app.stopDispatchers != nil {
        app.stopDispatchers()
    }
    app.waitDispatchers(ctx)
    app.stopDispatchers = nil
    app.dispatchers = nil
    if app.transport != nil {
        err := app.transport.Close()
        if err != nil {
            app.logger.Error("error closing bus transport", logattr.Error(err.Error()))
        }
        app.transport = nil
    }
    if app.mongoClient != nil {
        err := app.mongoClient.Disconnect(ctx)
        if err != nil {
            app.logger.Error("error disconnecting from mongo", logattr.Error(err.Error()))
        }
        app.mongoClient = nil
    }
    for _, httpServer := range app.httpServersToStop {
        err := httpServer.Shutdown(ctx)
        if err != nil {
            app.logger.Error("error stopping http server", logattr.Error(err.Error()))
        }
    }
    app.httpServersToStop = nil
}

func closeConsumers(consumers []messages.Consumer) {
    for _, consumer := range consumers {
        _ = consumer.Close()
    }
}

func (app *App) waitDispatchers(ctx context.Context) {
    done := make(chan struct{})
    go func() {
        for _, d := range app.dispatchers {
            d.Wait()
        }
        close(done)
    }()
    select {
    case <-done:
    case <-ctx.Done():
        app.logger.Warn("dispatchers did not finish before shutdown timeout")
    }
}

func (app *App) createRepositories(ctx context.Context) (repositories, error) {
    if app.inMemory {
        return repositories{
            tweets: memory.NewTweetsRepository(),
            users:  memory.NewUsersRepository(),
        }, nil
    }

    // Use the SetServerAPIOptions() method to set the Stable API version to 1
    serverAPI := options.ServerAPI(options.ServerAPIVersion1)
    opts := options.Client().ApplyURI(app.mongodbURL).SetServerAPIOptions(serverAPI)

    client, err := mongo.Connect(opts)
    if err != nil {
        return repositories{}, fmt.Errorf("error connecting to mongodb: %w", err)
    }
    err = client.Ping(ctx, nil)
    if err != nil {
        _ = client.Disconnect(ctx)
        return repositories{}, fmt.Errorf("error pinging mongodb: %w", err)
    }
    app.mongoClient = client

    return repositories{
        tweets: mongodb.NewTweetsRepository(client, app.mongodbDatabase, TweetsCollectionName),
        users:  mongodb.NewUsersRepository(client, app.mongodbDatabase, UsersCollectionName),
    }, nil
}

// createTransport sets app.transport and returns how to build the consumers of a topic.
func (app *App) createTransport(topology bus.Topology) (func(topic string) ([]messages.Consumer, error), error) {
    if app.inMemory {
        broker := membus.New(topology)
        app.transport = broker
        return broker.Consumers, nil
    }

    config := rabbitmq.Config{
        Host:     app.rabbitmqHost,
        Port:     uint(app.rabbitmqPort),
        User:     app.rabbitmqUser,
        Password: app.rabbitmqPassword,
    }
    transport, err := rabbitmq.NewTransport(config, topology)
    if err != nil {
        return nil, fmt.Errorf("error creating rabbitmq transport: %w", err)
    }
    app.transport = transport
    return func(topic string) ([]messages.Consumer, error) {
        return rabbitmq.NewPartitionConsumers(config, topology, topic)
    }, nil
}

func (app *App) dispatcherOpts(topic string, appMetrics *metrics.Metrics) []dispatcher.Opt {
    return []dispatcher.Opt{
        withErrorCallback(app.logger.With(logattr.Component("dispatcher.Dispatcher"), logattr.Topic(topic))),
        dispatcher.WithProcessingTimeout(app.processingTimeout),
        dispatcher.WithMetrics(appMetrics),
    }
}

func withErrorCallback(logger *slog.Logger) dispatcher.Opt {
    return dispatcher.WithErrorCallback(func(wError werrors.WError) {
        logger.Error(
            "failed processing message",
            logattr.Error(wError.Message()))
    })
}

func (app *App) startMetricsHTTPServer(registry *prometheus.Registry) *http.Server {
    mux := http.NewServeMux()
    mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
    httpServer := &http.Server{
        Addr:    fmt.Sprintf("0.0.0.0:%d", app.metricsConfig.Value.MetricsHttpServerPort),
        Handler: mux,
    }

    logger := app.logger.With(logattr.Component("metrics.HTTPServer"))
    go func() {
        defer logger.Info("http server stopped")
        if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
            logger.Error("http server error", logattr.Error(err.Error()))
        }
    }()

    logger.Info("http server started")

    return httpServer
}

func setDefaultOpts(app *App) error {
    zapLogger, err := newZapLogger()
    if err != nil {
        return err
    }
    app.logHandler = zapslog.NewHandler(zapLogger.Core())
    app.rabbitmqHost = eventskitrabbitmq.DefaultHost
    app.rabbitmqPort = eventskitrabbitmq.DefaultPort
    app.rabbitmqUser = eventskitrabbitmq.DefaultUser
    app.rabbitmqPassword = eventskitrabbitmq.DefaultPassword
    app.mongodbDatabase = DefaultMongoDBDatabase
    app.tweetEventPartitions = DefaultTweetEventPartitions
    app.replyEventPartitions = DefaultReplyEventPartitions
    app.saveMode = tweets.SaveModeLastWriterWins
    app.processingTimeout = 30 * time.Second
    app.publishConfirmTimeout = 30 * time.Second
    return nil
}

func newZapLogger() (*zap.Logger, error) {
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
    return zapConfig.Build()
}
