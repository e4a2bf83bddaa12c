package tweets

import (
    "slices"

    "github.com/samber/lo"
)

type Tweet struct {
    ID       string
    Version  uint64
    Username string
    Content  string
    Created  string
    Likes    Likes
    Replies  Replies
}

type Reply struct {
    Username string
    TweetID  string
    Content  string
}

// Likes maps the username that liked a tweet to the liked tweet id.
// It is a set keyed by username.
type Likes map[string]string

// With returns a new Likes containing username. The receiver is not modified.
func (l Likes) With(username string, tweetId string) Likes {
    return lo.Assign(l, Likes{username: tweetId})
}

// Without returns a new Likes without username. The receiver is not modified.
func (l Likes) Without(username string) Likes {
    return lo.OmitByKeys(l, []string{username})
}

func (l Likes) Contains(username string) bool {
    _, ok := l[username]
    return ok
}

func (l Likes) Len() int {
    return len(l)
}

type Replies []Reply

// Append returns a new list with reply at the end. The receiver is not modified.
func (r Replies) Append(reply Reply) Replies {
    return append(slices.Clone(r), reply)
}

// Clone returns a copy of t that shares no maps or slices with it.
func (t Tweet) Clone() Tweet {
    clone := t
    clone.Likes = lo.Assign(t.Likes)
    clone.Replies = slices.Clone(t.Replies)
    if clone.Replies == nil {
        clone.Replies = Replies{}
    }
    return clone
}
