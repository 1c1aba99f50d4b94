package models

import (
	"errors"
	"time"
)

// ActivityKind tags an Activity as a comment or a submission.
type ActivityKind string

const (
	KindComment ActivityKind = "comment"
	KindPost    ActivityKind = "post"
)

// SourceLabel is the capitalized form used in report citations.
func (k ActivityKind) SourceLabel() string {
	if k == KindPost {
		return "Post"
	}
	return "Comment"
}

var (
	ErrUnknownKind      = errors.New("unknown activity kind")
	ErrMissingID        = errors.New("missing id")
	ErrMissingSubreddit = errors.New("missing subreddit")
	ErrMissingTimestamp = errors.New("missing created timestamp")
)

// Activity is a single public action by the analyzed user: one comment or
// one submission. Immutable once fetched.
type Activity struct {
	Kind      ActivityKind `json:"kind"`
	ID        string       `json:"id"`
	Subreddit string       `json:"subreddit"`
	Title     string       `json:"title,omitempty"`
	Body      string       `json:"body,omitempty"`
	Score     int          `json:"score"`
	CreatedAt time.Time    `json:"created_at"`
	Permalink string       `json:"permalink"`
}

// Text returns the content used for snippets: the title for posts, the
// body for comments.
func (a *Activity) Text() string {
	if a.Kind == KindPost {
		return a.Title
	}
	return a.Body
}

// Validate checks the fields every aggregation dimension relies on.
// Records failing validation are quarantined at ingestion; the aggregator
// itself tolerates partially filled records and skips them per dimension.
func (a *Activity) Validate() error {
	if a.Kind != KindComment && a.Kind != KindPost {
		return ErrUnknownKind
	}
	if a.ID == "" {
		return ErrMissingID
	}
	if a.Subreddit == "" {
		return ErrMissingSubreddit
	}
	if a.CreatedAt.IsZero() {
		return ErrMissingTimestamp
	}
	return nil
}
