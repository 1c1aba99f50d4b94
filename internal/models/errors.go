package models

import "fmt"

// InsufficientDataError reports that a user's activity stream was empty and
// no statistics could be computed. The caller decides whether to surface it
// or render a degenerate report; it is never retried.
type InsufficientDataError struct {
	Username string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: no activity records for user %q", e.Username)
}
