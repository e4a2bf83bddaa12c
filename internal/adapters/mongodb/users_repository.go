package mongodb

import (
    "context"
    "errors"

    "github.com/walletera/tweet-app/internal/domain/users"

    "github.com/walletera/werrors"
    "go.mongodb.org/mongo-driver/v2/bson"
    "go.mongodb.org/mongo-driver/v2/mongo"
    "go.mongodb.org/mongo-driver/v2/mongo/options"
)

type UserBSON struct {
    UserName  string `bson:"_id"`
    FirstName string `bson:"firstName"`
    LastName  string `bson:"lastName"`
    Gender    string `bson:"gender"`
    Dob       string `bson:"dob"`
    Email     string `bson:"email"`
}

var _ users.Repository = (*UsersRepository)(nil)

type UsersRepository struct {
    client         *mongo.Client
    dbName         string
    collectionName string
}

func NewUsersRepository(client *mongo.Client, dbName string, collectionName string) *UsersRepository {
    return &UsersRepository{client: client, dbName: dbName, collectionName: collectionName}
}

func (r *UsersRepository) collection() *mongo.Collection {
    return r.client.Database(r.dbName).Collection(r.collectionName)
}

func (r *UsersRepository) FindByUserName(ctx context.Context, userName string) (users.User, werrors.WError) {
    return r.findOne(ctx, bson.M{"_id": userName}, "user %s not found", userName)
}

func (r *UsersRepository) FindByUserNameOrEmail(ctx context.Context, userName string, email string) (users.User, werrors.WError) {
    or := bson.A{}
    if userName != "" {
        or = append(or, bson.M{"_id": userName})
    }
    if email != "" {
        or = append(or, bson.M{"email": email})
    }
    if len(or) == 0 {
        return users.User{}, users.NewUserNotFoundError("no username or email given")
    }
    return r.findOne(ctx, bson.M{"$or": or}, "no user with username %s or email %s", userName, email)
}

func (r *UsersRepository) findOne(ctx context.Context, filter bson.M, notFoundFormat string, args ...any) (users.User, werrors.WError) {
    var userBSON UserBSON
    err := r.collection().FindOne(ctx, filter).Decode(&userBSON)
    if err != nil {
        if errors.Is(err, mongo.ErrNoDocuments) {
            return users.User{}, users.NewUserNotFoundError(notFoundFormat, args...)
        }
        return users.User{}, werrors.NewRetryableInternalError("failed finding user: %s", err.Error())
    }
    return users.User(userBSON), nil
}

func (r *UsersRepository) Save(ctx context.Context, user users.User) (users.User, werrors.WError) {
    if user.UserName == "" {
        return users.User{}, werrors.NewNonRetryableInternalError("username is required")
    }
    _, err := r.collection().ReplaceOne(ctx, bson.M{"_id": user.UserName}, UserBSON(user), options.Replace().SetUpsert(true))
    if err != nil {
        return users.User{}, werrors.NewRetryableInternalError("failed to save user %s: %s", user.UserName, err.Error())
    }
    return user, nil
}
