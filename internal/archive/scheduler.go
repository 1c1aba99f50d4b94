package archive

import (
	"sync"
	"time"

	"github.com/roylee0704/gron"
	"rpd/internal/archive/interfaces"
	"rpd/internal/providers"
	"rpd/internal/services"
	"rpd/internal/structures"
)

type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	service     services.ActivityServiceInterface
	fileManager *FileManager
	cron        *gron.Cron
	opsMu       sync.Mutex
}

// Init starts the periodic jobs: persisting the archive when the store has
// unsaved changes and pruning users older than the archive ttl. Intervals
// are whole seconds from config.
func (s *Scheduler) Init() {
	s.cron = gron.New()
	saveInterval := s.config.Archive.SaveInterval
	pruneInterval := s.config.Archive.PruneInterval

	s.cron.AddFunc(gron.Every(saveInterval*time.Second), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		if !s.service.IsDirty() {
			return
		}
		err := s.fileManager.SaveToFile(s.config.Archive.FilePath)
		if err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting archive: %s", err)
			return
		}
		s.service.MarkClean()
		s.logger.Infof(providers.TypeApp, "Persisted archive to file %s", s.config.Archive.FilePath)
	})

	s.cron.AddFunc(gron.Every(pruneInterval*time.Second), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		s.service.Prune()
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	err := s.fileManager.LoadFromFile(s.config.Archive.FilePath)
	if err != nil {
		return err
	}
	return nil
}

// Persist writes the archive unconditionally. Used at shutdown so nothing
// fetched since the last periodic save is lost.
func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting archive to file...")
	err := s.fileManager.SaveToFile(s.config.Archive.FilePath)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting archive: %s", err)
		return err
	}
	s.service.MarkClean()
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, service services.ActivityServiceInterface, fileManager *FileManager) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		service:     service,
		fileManager: fileManager,
	}
}
