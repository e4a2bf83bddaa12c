package main

import (
    "fmt"
    "time"

    "github.com/walletera/tweet-app/internal/domain/tweets"

    "github.com/kelseyhightower/envconfig"
)

type Config struct {
    RabbitmqHost          string        `envconfig:"RABBITMQ_HOST" required:"true"`
    RabbitmqPort          int           `envconfig:"RABBITMQ_PORT" required:"true"`
    RabbitmqUser          string        `envconfig:"RABBITMQ_USER" required:"true"`
    RabbitmqPassword      string        `envconfig:"RABBITMQ_PASSWORD" required:"true"`
    MongoDBURL            string        `envconfig:"MONGODB_URL" required:"true"`
    MongoDBDatabase       string        `envconfig:"MONGODB_DATABASE" default:"tweet-app"`
    TweetEventPartitions  int           `envconfig:"TWEET_EVENT_PARTITIONS" default:"4"`
    ReplyEventPartitions  int           `envconfig:"REPLY_EVENT_PARTITIONS" default:"1"`
    SaveMode              string        `envconfig:"SAVE_MODE" default:"last-writer-wins"`
    SaveMaxAttempts       int           `envconfig:"SAVE_MAX_ATTEMPTS" default:"5"`
    ProcessingTimeout     time.Duration `envconfig:"PROCESSING_TIMEOUT" default:"30s"`
    PublishConfirmTimeout time.Duration `envconfig:"PUBLISH_CONFIRM_TIMEOUT" default:"30s"`
    // zero disables the metrics http server
    MetricsHttpServerPort int `envconfig:"METRICS_HTTP_SERVER_PORT" default:"0"`
}

func LoadConfig() (Config, error) {
    var cfg Config
    err := envconfig.Process("", &cfg)
    if err != nil {
        return Config{}, err
    }
    return cfg, nil
}

func (c Config) saveMode() (tweets.SaveMode, error) {
    saveMode, ok := tweets.ParseSaveMode(c.SaveMode)
    if !ok {
        return 0, fmt.Errorf("invalid SAVE_MODE %q", c.SaveMode)
    }
    return saveMode, nil
}
