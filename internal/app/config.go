package app

type MetricsConfig struct {
    MetricsHttpServerPort int
}
