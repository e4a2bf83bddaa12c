package memory

import (
    "context"
    "sync"

    "github.com/walletera/tweet-app/internal/domain/users"

    "github.com/walletera/werrors"
)

var _ users.Repository = (*UsersRepository)(nil)

type UsersRepository struct {
    mu    sync.RWMutex
    users map[string]users.User
}

func NewUsersRepository(seed ...users.User) *UsersRepository {
    r := &UsersRepository{users: make(map[string]users.User)}
    for _, user := range seed {
        r.users[user.UserName] = user
    }
    return r
}

func (r *UsersRepository) FindByUserName(_ context.Context, userName string) (users.User, werrors.WError) {
    r.mu.RLock()
    defer r.mu.RUnlock()
    user, ok := r.users[userName]
    if !ok {
        return users.User{}, users.NewUserNotFoundError("user %s not found", userName)
    }
    return user, nil
}

func (r *UsersRepository) FindByUserNameOrEmail(_ context.Context, userName string, email string) (users.User, werrors.WError) {
    r.mu.RLock()
    defer r.mu.RUnlock()
    for _, user := range r.users {
        if (userName != "" && user.UserName == userName) || (email != "" && user.Email == email) {
            return user, nil
        }
    }
    return users.User{}, users.NewUserNotFoundError("no user with username %s or email %s", userName, email)
}

func (r *UsersRepository) Save(_ context.Context, user users.User) (users.User, werrors.WError) {
    if user.UserName == "" {
        return users.User{}, werrors.NewNonRetryableInternalError("username is required")
    }
    r.mu.Lock()
    defer r.mu.Unlock()
    r.users[user.UserName] = user
    return user, nil
}
