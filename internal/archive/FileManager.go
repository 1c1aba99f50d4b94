package archive

import (
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"rpd/internal/archive/interfaces"
	"rpd/internal/models"
	"rpd/internal/providers"
	"rpd/internal/services"
)

type FileManager struct {
	service    services.ActivityServiceInterface
	compressor interfaces.CompressorInterface
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
}

func NewFileManager(compressor interfaces.CompressorInterface, service services.ActivityServiceInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *FileManager {
	return &FileManager{
		compressor: compressor,
		service:    service,
		logger:     logger,
		metrics:    metrics,
	}
}

// SaveToFile snapshots the activity store and writes it compressed to
// fileName. The write goes through a tmp file with fsync and rename, so a
// crash mid-save leaves the previous archive intact.
func (f *FileManager) SaveToFile(fileName string) error {
	start := time.Now()

	snapshot := f.service.Snapshot()

	jsonData, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	if err = os.Rename(tmpFile, fileName); err != nil {
		return err
	}

	f.metrics.ObservePersistDuration(time.Since(start))

	return nil
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

// LoadFromFile restores the activity store from fileName. A missing file is
// not an error, the daemon just starts empty. Archives written before
// compression was introduced are plain JSON and still load.
func (f *FileManager) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressed, err := f.compressor.Decompress(data)
	if err != nil {
		f.logger.Warnf(providers.TypeApp, "Archive %s is not zstd compressed, trying plain JSON", fileName)
		decompressed = data
	}

	var arch models.Archive
	if err := json.Unmarshal(decompressed, &arch); err != nil {
		return fmt.Errorf("failed to parse archive %s: %w", fileName, err)
	}

	if arch.Version > models.ArchiveVersion {
		f.logger.Warnf(providers.TypeApp, "Archive version %d is newer than supported %d, loading anyway", arch.Version, models.ArchiveVersion)
	}

	f.service.Restore(&arch)
	f.logger.Infof(providers.TypeApp, "Restored %d users from archive %s", len(arch.Users), fileName)

	return nil
}
