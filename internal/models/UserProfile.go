package models

import "time"

// UserProfile is the read-only account metadata of the analyzed user.
type UserProfile struct {
	Username     string    `json:"username"`
	CreatedAt    time.Time `json:"created_at"`
	CommentKarma int       `json:"comment_karma"`
	PostKarma    int       `json:"post_karma"`
	Premium      bool      `json:"premium"`
	Moderator    bool      `json:"moderator"`
}
