package tweets

// MutationKind names one of the closed set of tweet mutations.
type MutationKind string

const (
    MutationCreate        MutationKind = "create"
    MutationUpdateContent MutationKind = "update_content"
    MutationAppendReply   MutationKind = "append_reply"
    MutationLike          MutationKind = "like"
    MutationDislike       MutationKind = "dislike"
)

// Mutation is a change to a single tweet aggregate. Implementations live in this
// package only; Mutator.Apply is the one place they are applied, whether the
// request came from the bus or from a synchronous call.
type Mutation interface {
    Kind() MutationKind
    // TweetID is empty for mutations that create a new tweet without a caller assigned id.
    TweetID() string
    // mutate builds the next state from current without modifying current.
    mutate(current Tweet) Tweet
}

var (
    _ Mutation = CreateTweet{}
    _ Mutation = UpdateContent{}
    _ Mutation = AppendReply{}
    _ Mutation = Like{}
    _ Mutation = Dislike{}
)

type CreateTweet struct {
    ID       string
    Username string
    Content  string
    Created  string
}

func (m CreateTweet) Kind() MutationKind { return MutationCreate }

func (m CreateTweet) TweetID() string { return m.ID }

func (m CreateTweet) mutate(_ Tweet) Tweet {
    return Tweet{
        ID:       m.ID,
        Username: m.Username,
        Content:  m.Content,
        Created:  m.Created,
        Likes:    Likes{},
        Replies:  Replies{},
    }
}

type UpdateContent struct {
    ID      string
    Content string
}

func (m UpdateContent) Kind() MutationKind { return MutationUpdateContent }

func (m UpdateContent) TweetID() string { return m.ID }

func (m UpdateContent) mutate(current Tweet) Tweet {
    next := current.Clone()
    next.Content = m.Content
    return next
}

type AppendReply struct {
    Reply Reply
}

func (m AppendReply) Kind() MutationKind { return MutationAppendReply }

func (m AppendReply) TweetID() string { return m.Reply.TweetID }

func (m AppendReply) mutate(current Tweet) Tweet {
    next := current.Clone()
    next.Replies = current.Replies.Append(m.Reply)
    return next
}

type Like struct {
    ID       string
    Username string
}

func (m Like) Kind() MutationKind { return MutationLike }

func (m Like) TweetID() string { return m.ID }

func (m Like) mutate(current Tweet) Tweet {
    next := current.Clone()
    next.Likes = current.Likes.With(m.Username, m.ID)
    return next
}

type Dislike struct {
    ID       string
    Username string
}

func (m Dislike) Kind() MutationKind { return MutationDislike }

func (m Dislike) TweetID() string { return m.ID }

func (m Dislike) mutate(current Tweet) Tweet {
    next := current.Clone()
    next.Likes = current.Likes.Without(m.Username)
    return next
}
