package dispatcher

import (
    "time"

    "github.com/walletera/tweet-app/internal/metrics"

    "github.com/walletera/werrors"
)

type ErrorCallback func(processingError werrors.WError)

type Opts struct {
    errorCallback     ErrorCallback
    processingTimeout time.Duration
    metrics           *metrics.Metrics
}

var defaultOpts = Opts{
    errorCallback:     func(werrors.WError) {},
    processingTimeout: 30 * time.Second,
}

type Opt func(opts *Opts)

func WithErrorCallback(errorCallback ErrorCallback) Opt {
    return func(opts *Opts) {
        opts.errorCallback = errorCallback
    }
}

// WithProcessingTimeout bounds the time a handler may spend on one record.
// Zero disables the timeout.
func WithProcessingTimeout(processingTimeout time.Duration) Opt {
    return func(opts *Opts) {
        opts.processingTimeout = processingTimeout
    }
}

func WithMetrics(metrics *metrics.Metrics) Opt {
    return func(opts *Opts) {
        opts.metrics = metrics
    }
}

func applyCustomOpts(opts *Opts, customOpts []Opt) {
    for _, customOpt := range customOpts {
        customOpt(opts)
    }
    if opts.metrics == nil {
        opts.metrics = metrics.NewNop()
    }
}
