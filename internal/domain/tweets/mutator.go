package tweets

import (
    "context"
    "errors"
    "log/slog"

    "github.com/walletera/tweet-app/internal/metrics"
    "github.com/walletera/tweet-app/pkg/logattr"

    "github.com/walletera/werrors"
)

// SaveMode selects how Mutator writes a mutated tweet back.
type SaveMode int

const (
    // SaveModeLastWriterWins overwrites the stored document. Concurrent
    // read-modify-write cycles on the same tweet can lose updates.
    SaveModeLastWriterWins SaveMode = iota
    // SaveModeCompareAndSwap writes only if the stored version is the one that was
    // read and retries the whole cycle on conflict.
    SaveModeCompareAndSwap
)

const defaultMaxAttempts = 5

func (m SaveMode) String() string {
    switch m {
    case SaveModeLastWriterWins:
        return "last-writer-wins"
    case SaveModeCompareAndSwap:
        return "compare-and-swap"
    default:
        return "unknown"
    }
}

func ParseSaveMode(s string) (SaveMode, bool) {
    switch s {
    case "", "last-writer-wins":
        return SaveModeLastWriterWins, true
    case "compare-and-swap":
        return SaveModeCompareAndSwap, true
    default:
        return 0, false
    }
}

type Mutator struct {
    repository  Repository
    logger      *slog.Logger
    metrics     *metrics.Metrics
    saveMode    SaveMode
    maxAttempts int
}

type MutatorOpt func(m *Mutator)

func WithSaveMode(saveMode SaveMode) MutatorOpt {
    return func(m *Mutator) { m.saveMode = saveMode }
}

// WithMaxAttempts bounds the read-modify-write cycles in SaveModeCompareAndSwap.
func WithMaxAttempts(maxAttempts int) MutatorOpt {
    return func(m *Mutator) {
        if maxAttempts > 0 {
            m.maxAttempts = maxAttempts
        }
    }
}

func WithMutatorMetrics(metrics *metrics.Metrics) MutatorOpt {
    return func(m *Mutator) { m.metrics = metrics }
}

func NewMutator(repository Repository, logger *slog.Logger, opts ...MutatorOpt) *Mutator {
    m := &Mutator{
        repository:  repository,
        logger:      logger,
        metrics:     metrics.NewNop(),
        saveMode:    SaveModeLastWriterWins,
        maxAttempts: defaultMaxAttempts,
    }
    for _, opt := range opts {
        opt(m)
    }
    return m
}

// Apply loads the tweet the mutation targets, builds the next state and writes the
// full document back. Creation skips the load and never overwrites a stored tweet.
func (m *Mutator) Apply(ctx context.Context, mutation Mutation) (Tweet, werrors.WError) {
    var (
        tweet Tweet
        werr  werrors.WError
    )
    switch mutation.Kind() {
    case MutationCreate:
        tweet, werr = m.create(ctx, mutation)
    case MutationUpdateContent, MutationAppendReply, MutationLike, MutationDislike:
        tweet, werr = m.readModifyWrite(ctx, mutation)
    default:
        werr = werrors.NewNonRetryableInternalError("unsupported mutation kind %s", mutation.Kind())
    }
    m.metrics.MutationApplied(string(mutation.Kind()), outcomeOf(werr))
    return tweet, werr
}

// create inserts in every save mode. A redelivered CREATE finds its id taken and
// fails with ErrTweetExists instead of replacing likes and replies.
func (m *Mutator) create(ctx context.Context, mutation Mutation) (Tweet, werrors.WError) {
    created, werr := m.repository.SaveVersioned(ctx, mutation.mutate(Tweet{}))
    if werr != nil {
        if errors.Is(werr, ErrVersionConflict) {
            return Tweet{}, NewTweetExistsError(mutation.TweetID())
        }
        return Tweet{}, werr
    }
    return created, nil
}

func (m *Mutator) readModifyWrite(ctx context.Context, mutation Mutation) (Tweet, werrors.WError) {
    for attempt := 1; ; attempt++ {
        current, werr := m.repository.FindByID(ctx, mutation.TweetID())
        if werr != nil {
            return Tweet{}, werr
        }
        saved, werr := m.save(ctx, mutation.mutate(current))
        if werr == nil {
            return saved, nil
        }
        if !errors.Is(werr, ErrVersionConflict) || attempt >= m.maxAttempts {
            return Tweet{}, werr
        }
        m.logger.Debug(
            "tweet modified concurrently, retrying mutation",
            logattr.TweetId(mutation.TweetID()),
            logattr.MutationKind(string(mutation.Kind())),
            logattr.Attempt(attempt),
        )
    }
}

func (m *Mutator) save(ctx context.Context, tweet Tweet) (Tweet, werrors.WError) {
    if m.saveMode == SaveModeCompareAndSwap {
        return m.repository.SaveVersioned(ctx, tweet)
    }
    return m.repository.Save(ctx, tweet)
}

func outcomeOf(werr werrors.WError) string {
    switch {
    case werr == nil:
        return metrics.OutcomeSuccess
    case errors.Is(werr, ErrVersionConflict):
        return metrics.OutcomeConflict
    default:
        return metrics.OutcomeFailure
    }
}
