//go:generate go run go.uber.org/mock/mockgen -source=repository.go -destination=../../mocks/mock_users_repository.go -package=mocks -mock_names=Repository=MockUsersRepository
package users

import (
    "context"

    "github.com/walletera/werrors"
)

type Repository interface {
    // FindByUserName returns an error matching ErrUserNotFound when the user does not exist.
    FindByUserName(ctx context.Context, userName string) (User, werrors.WError)
    // FindByUserNameOrEmail matches either field; empty arguments are ignored.
    FindByUserNameOrEmail(ctx context.Context, userName string, email string) (User, werrors.WError)
    Save(ctx context.Context, user User) (User, werrors.WError)
}
