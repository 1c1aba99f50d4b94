package services

import (
	"context"
	"strings"
	"time"

	"rpd/internal/models"
	"rpd/internal/providers"
	"rpd/internal/reddit"
	"rpd/internal/structures"
)

type ActivityServiceInterface interface {
	GetOrFetch(ctx context.Context, username string, force bool) (*models.UserActivity, bool, error)
	Users() []string
	ArchivedUsers() int
	Prune() int
	Snapshot() *models.Archive
	Restore(a *models.Archive)
	IsDirty() bool
	MarkClean()
}

// ActivityService owns the in-memory activity store and decides when to go
// back to Reddit. Store keys are lowercased so lookups are case-insensitive
// the way Reddit usernames are.
type ActivityService struct {
	conf    *structures.Config
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	client  reddit.ClientInterface
	store   *models.ActivityStore
}

// GetOrFetch returns the user's activity, fetching from Reddit when the
// store has no fresh entry or force is set. The second return value reports
// whether a fetch actually happened, so callers know to drop derived caches.
func (as *ActivityService) GetOrFetch(ctx context.Context, username string, force bool) (*models.UserActivity, bool, error) {
	key := strings.ToLower(username)

	if !force {
		if ua, ok := as.store.Get(key); ok && time.Since(ua.FetchedAt) < as.conf.Archive.TTL {
			as.logger.Debugf(providers.TypeApp, "serving %s from the activity store", key)
			return ua, false, nil
		}
	}

	profile, err := as.client.FetchProfile(ctx, username)
	if err != nil {
		return nil, false, err
	}

	acts, err := as.client.FetchActivity(ctx, username)
	if err != nil {
		return nil, false, err
	}

	ua := &models.UserActivity{
		Profile:    *profile,
		Activities: acts,
		FetchedAt:  time.Now().UTC(),
	}
	as.store.Put(key, ua)
	as.metrics.SetArchivedUsers(as.store.Len())

	as.logger.Infof(providers.TypeApp, "fetched %d activity records for %s", len(acts), key)

	return ua, true, nil
}

func (as *ActivityService) Users() []string {
	return as.store.Users()
}

func (as *ActivityService) ArchivedUsers() int {
	return as.store.Len()
}

// Prune drops users whose data is older than the archive ttl.
func (as *ActivityService) Prune() int {
	removed := as.store.Prune(as.conf.Archive.TTL)
	if removed > 0 {
		as.logger.Infof(providers.TypeApp, "pruned %d stale users from the activity store", removed)
		as.metrics.SetArchivedUsers(as.store.Len())
	}
	return removed
}

func (as *ActivityService) Snapshot() *models.Archive {
	return as.store.Snapshot()
}

func (as *ActivityService) Restore(a *models.Archive) {
	as.store.Restore(a)
	as.metrics.SetArchivedUsers(as.store.Len())
}

func (as *ActivityService) IsDirty() bool {
	return as.store.IsDirty()
}

func (as *ActivityService) MarkClean() {
	as.store.MarkClean()
}

func NewActivityService(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, client reddit.ClientInterface) ActivityServiceInterface {
	return &ActivityService{
		conf:    conf,
		logger:  logger,
		metrics: metrics,
		client:  client,
		store:   models.NewActivityStore(),
	}
}
