package logattr

import "log/slog"

func ServiceName(serviceName string) slog.Attr {
    return slog.String("service_name", serviceName)
}

func Component(component string) slog.Attr {
    return slog.String("component", component)
}

func TweetId(tweetId string) slog.Attr {
    return slog.String("tweet_id", tweetId)
}

func Username(username string) slog.Attr {
    return slog.String("username", username)
}

func EventType(eventType string) slog.Attr {
    return slog.String("event_type", eventType)
}

func MutationKind(kind string) slog.Attr {
    return slog.String("mutation_kind", kind)
}

func Topic(topic string) slog.Attr {
    return slog.String("topic", topic)
}

func Partition(partition int) slog.Attr {
    return slog.Int("partition", partition)
}

func RoutingKey(routingKey string) slog.Attr {
    return slog.String("routing_key", routingKey)
}

func Key(key string) slog.Attr {
    return slog.String("key", key)
}

func Attempt(attempt int) slog.Attr {
    return slog.Int("attempt", attempt)
}

func Error(err string) slog.Attr {
    return slog.String("error", err)
}

func CorrelationId(correlationId string) slog.Attr {
    return slog.String("correlation_id", correlationId)
}
