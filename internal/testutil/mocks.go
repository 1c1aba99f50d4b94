package testutil

import (
	"context"
	"sync"
	"time"

	"rpd/internal/models"
	"rpd/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// CountByLevel returns how many entries were logged at the given level.
func (m *MockLogger) CountByLevel(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockRedditClient implements reddit.ClientInterface.
type MockRedditClient struct {
	mu            sync.Mutex
	Profile       *models.UserProfile
	Activities    []models.Activity
	ProfileErr    error
	ActivityErr   error
	ProfileCalls  []string
	ActivityCalls []string
}

func (m *MockRedditClient) FetchProfile(_ context.Context, username string) (*models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProfileCalls = append(m.ProfileCalls, username)
	if m.ProfileErr != nil {
		return nil, m.ProfileErr
	}
	if m.Profile != nil {
		p := *m.Profile
		return &p, nil
	}
	return &models.UserProfile{Username: username}, nil
}

func (m *MockRedditClient) FetchActivity(_ context.Context, username string) ([]models.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ActivityCalls = append(m.ActivityCalls, username)
	if m.ActivityErr != nil {
		return nil, m.ActivityErr
	}
	out := make([]models.Activity, len(m.Activities))
	copy(out, m.Activities)
	return out, nil
}

// MockActivityService implements services.ActivityServiceInterface.
type MockActivityService struct {
	mu              sync.Mutex
	GetOrFetchFn    func(ctx context.Context, username string, force bool) (*models.UserActivity, bool, error)
	GetOrFetchCalls []GetOrFetchCall
	UsersList       []string
	ArchivedCount   int
	PruneResult     int
	SnapshotData    *models.Archive
	RestoreCalls    []*models.Archive
	Dirty           bool
	MarkCleanCalls  int
}

type GetOrFetchCall struct {
	Username string
	Force    bool
}

func (m *MockActivityService) GetOrFetch(ctx context.Context, username string, force bool) (*models.UserActivity, bool, error) {
	m.mu.Lock()
	m.GetOrFetchCalls = append(m.GetOrFetchCalls, GetOrFetchCall{Username: username, Force: force})
	fn := m.GetOrFetchFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, username, force)
	}
	return &models.UserActivity{
		Profile:   models.UserProfile{Username: username},
		FetchedAt: time.Now(),
	}, false, nil
}

func (m *MockActivityService) Users() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.UsersList
}

func (m *MockActivityService) ArchivedUsers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ArchivedCount
}

func (m *MockActivityService) Prune() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.PruneResult
}

func (m *MockActivityService) Snapshot() *models.Archive {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SnapshotData != nil {
		return m.SnapshotData
	}
	return &models.Archive{
		Version: models.ArchiveVersion,
		Users:   make(map[string]*models.UserActivity),
	}
}

func (m *MockActivityService) Restore(a *models.Archive) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RestoreCalls = append(m.RestoreCalls, a)
}

func (m *MockActivityService) IsDirty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Dirty
}

func (m *MockActivityService) MarkClean() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MarkCleanCalls++
	m.Dirty = false
}

// MockPersonaService implements services.PersonaServiceInterface.
type MockPersonaService struct {
	mu     sync.Mutex
	Report *models.PersonaReport
	Err    error
	Calls  int
}

func (m *MockPersonaService) Aggregate(profile *models.UserProfile, acts []models.Activity) (*models.PersonaReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Report != nil {
		return m.Report, nil
	}
	return &models.PersonaReport{Username: profile.Username, Profile: *profile}, nil
}

// MockScheduler implements interfaces.SchedulerInterface.
type MockScheduler struct {
	mu           sync.Mutex
	InitCalls    int
	StopCalls    int
	RestoreCalls int
	PersistCalls int
	RestoreErr   error
	PersistErr   error
}

func (m *MockScheduler) Init() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InitCalls++
}

func (m *MockScheduler) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StopCalls++
}

func (m *MockScheduler) Restore() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RestoreCalls++
	return m.RestoreErr
}

func (m *MockScheduler) Persist() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistCalls++
	return m.PersistErr
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu       sync.Mutex
	Data     map[string][]byte
	DelCalls []string
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
	m.DelCalls = append(m.DelCalls, key)
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu             sync.Mutex
	Requests       map[string]int
	RedditRequests map[string]int
	CacheHits      int
	CacheMisses    int
	Quarantined    int
	PersonasBuilt  int
	PersistObs     int
	ArchivedUsers  int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Requests:       make(map[string]int),
		RedditRequests: make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(endpoint string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests[endpoint]++
}

func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}

func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *MockMetrics) IncRedditRequests(endpoint string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RedditRequests[endpoint]++
}

func (m *MockMetrics) ObserveRedditRequestDuration(_ string, _ time.Duration) {}

func (m *MockMetrics) IncRecordsQuarantined() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Quarantined++
}

func (m *MockMetrics) IncPersonasBuilt() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersonasBuilt++
}

func (m *MockMetrics) ObservePersistDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistObs++
}

func (m *MockMetrics) SetArchivedUsers(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArchivedUsers = count
}
