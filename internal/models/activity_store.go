package models

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// ActivityStore holds fetched user activity keyed by username.
// Thread-safe; Get and Snapshot hand out copies so callers can never
// mutate stored data. The dirty flag tracks unsaved changes so the
// scheduler persists only when something actually changed.
type ActivityStore struct {
	mu    sync.RWMutex
	users map[string]*UserActivity
	dirty atomic.Bool
}

func NewActivityStore() *ActivityStore {
	return &ActivityStore{
		users: make(map[string]*UserActivity),
	}
}

func copyUserActivity(ua *UserActivity) *UserActivity {
	cp := &UserActivity{
		Profile:   ua.Profile,
		FetchedAt: ua.FetchedAt,
	}
	if ua.Activities != nil {
		cp.Activities = make([]Activity, len(ua.Activities))
		copy(cp.Activities, ua.Activities)
	}
	return cp
}

func (s *ActivityStore) Get(username string) (*UserActivity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ua, ok := s.users[username]
	if !ok {
		return nil, false
	}
	return copyUserActivity(ua), true
}

func (s *ActivityStore) Put(username string, ua *UserActivity) {
	if username == "" || ua == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = copyUserActivity(ua)
	s.dirty.Store(true)
}

func (s *ActivityStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// Users returns the stored usernames in sorted order.
func (s *ActivityStore) Users() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.users))
	for name := range s.users {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Prune removes entries whose FetchedAt is older than ttl and returns the
// number of removed users.
func (s *ActivityStore) Prune(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for name, ua := range s.users {
		if ua.FetchedAt.Before(cutoff) {
			delete(s.users, name)
			removed++
		}
	}
	if removed > 0 {
		s.dirty.Store(true)
	}
	return removed
}

// Snapshot deep-copies the store into an Archive for persistence.
func (s *ActivityStore) Snapshot() *Archive {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make(map[string]*UserActivity, len(s.users))
	for name, ua := range s.users {
		users[name] = copyUserActivity(ua)
	}
	return &Archive{
		Version: ArchiveVersion,
		Users:   users,
	}
}

// Restore replaces the store contents with the archive's. A nil archive or
// nil user map leaves the store empty. Restoring does not mark the store
// dirty: the data just came from disk.
func (s *ActivityStore) Restore(a *Archive) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make(map[string]*UserActivity)
	if a == nil || a.Users == nil {
		return
	}
	for name, ua := range a.Users {
		if name == "" || ua == nil {
			continue
		}
		s.users[name] = copyUserActivity(ua)
	}
}

func (s *ActivityStore) IsDirty() bool {
	return s.dirty.Load()
}

func (s *ActivityStore) MarkClean() {
	s.dirty.Store(false)
}
