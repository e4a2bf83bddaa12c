package tweetevents

import (
    "errors"
    "fmt"

    "github.com/go-playground/validator/v10"
)

const (
    MaxTweetContentLength = 144
    MaxReplyContentLength = 50
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the envelope against the tweet and reply limits.
func (e TweetEvent) Validate() error {
    if err := validate.Struct(e); err != nil {
        return fmt.Errorf("invalid tweet event: %w", err)
    }
    switch e.Kind {
    case KindCreate:
        if e.Payload.Username == "" {
            return errors.New("invalid tweet event: username is required for CREATE")
        }
    case KindUpdate:
        if e.Payload.TweetID == "" {
            return errors.New("invalid tweet event: tweetId is required for UPDATE")
        }
    }
    return nil
}

func (e ReplyEvent) Validate() error {
    if err := validate.Struct(e); err != nil {
        return fmt.Errorf("invalid reply event: %w", err)
    }
    return nil
}

// ValidateTweetContent applies the content rule used for posts and updates.
func ValidateTweetContent(content string) error {
    return validate.Var(content, fmt.Sprintf("required,max=%d", MaxTweetContentLength))
}

func ValidateReplyContent(content string) error {
    return validate.Var(content, fmt.Sprintf("required,max=%d", MaxReplyContentLength))
}
