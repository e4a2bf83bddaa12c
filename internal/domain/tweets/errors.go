package tweets

import (
    "errors"
    "fmt"

    "github.com/walletera/werrors"
)

var (
    ErrTweetNotFound     = errors.New("tweet not found")
    ErrInvalidParameters = errors.New("invalid parameters")
    ErrVersionConflict   = errors.New("tweet version conflict")
    ErrTweetExists       = errors.New("tweet already exists")
)

// kindError attaches a domain sentinel, and optionally a different code, to a WError.
type kindError struct {
    werrors.WError
    kind error
    code *werrors.ErrorCode
}

func (e kindError) Code() werrors.ErrorCode {
    if e.code != nil {
        return *e.code
    }
    return e.WError.Code()
}

func (e kindError) Is(target error) bool {
    return target == e.kind
}

func (e kindError) Unwrap() error {
    return e.WError
}

func NewTweetNotFoundError(tweetId string) werrors.WError {
    code := werrors.ResourceNotFoundErrorCode
    return kindError{
        WError: werrors.NewNonRetryableInternalError("tweet with id %s not found", tweetId),
        kind:   ErrTweetNotFound,
        code:   &code,
    }
}

func NewInvalidParametersError(format string, args ...any) werrors.WError {
    return kindError{
        WError: werrors.NewNonRetryableInternalError("%s", fmt.Sprintf(format, args...)),
        kind:   ErrInvalidParameters,
    }
}

func NewVersionConflictError(tweetId string, version uint64) werrors.WError {
    return kindError{
        WError: werrors.NewRetryableInternalError("tweet %s was modified concurrently (expected version %d)", tweetId, version),
        kind:   ErrVersionConflict,
    }
}

func NewTweetExistsError(tweetId string) werrors.WError {
    return kindError{
        WError: werrors.NewResourceAlreadyExistError(fmt.Sprintf("tweet with id %s already exists", tweetId)),
        kind:   ErrTweetExists,
    }
}

// NewNoTweetsFoundError reports an empty listing.
func NewNoTweetsFoundError(format string, args ...any) werrors.WError {
    code := werrors.ResourceNotFoundErrorCode
    return kindError{
        WError: werrors.NewNonRetryableInternalError("%s", fmt.Sprintf(format, args...)),
        kind:   ErrTweetNotFound,
        code:   &code,
    }
}
