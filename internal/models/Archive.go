package models

import "time"

// ArchiveVersion is the current on-disk snapshot format version.
const ArchiveVersion = 1

// UserActivity bundles everything fetched for one user plus the fetch time
// used for freshness decisions.
type UserActivity struct {
	Profile    UserProfile `json:"profile"`
	Activities []Activity  `json:"activities"`
	FetchedAt  time.Time   `json:"fetched_at"`
}

// Archive is the persistence envelope for the activity store snapshot.
type Archive struct {
	Version int                      `json:"version"`
	Users   map[string]*UserActivity `json:"users"`
}
