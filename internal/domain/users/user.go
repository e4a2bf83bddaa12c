package users

import (
    "errors"

    "github.com/walletera/werrors"
)

var ErrUserNotFound = errors.New("user not found")

// User is the profile the tweet pipeline needs; credentials are kept elsewhere.
type User struct {
    UserName  string
    FirstName string
    LastName  string
    Gender    string
    Dob       string
    Email     string
}

type notFoundError struct {
    werrors.WError
}

func (e notFoundError) Code() werrors.ErrorCode {
    return werrors.ResourceNotFoundErrorCode
}

func (e notFoundError) Is(target error) bool {
    return target == ErrUserNotFound
}

func NewUserNotFoundError(format string, args ...any) werrors.WError {
    return notFoundError{WError: werrors.NewNonRetryableInternalError(format, args...)}
}
