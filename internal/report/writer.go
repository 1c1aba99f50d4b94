package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"rpd/internal/providers"
)

// Writer saves rendered reports as persona_<user>_<timestamp>.txt files.
type Writer struct {
	logger providers.Logger
}

func NewWriter(logger providers.Logger) *Writer {
	return &Writer{logger: logger}
}

// WriteReport writes content into dir and returns the full path. Writes go
// through a tmp file and rename so readers never see a partial report.
func (w *Writer) WriteReport(dir string, username string, content string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	fileName := fmt.Sprintf("persona_%s_%s.txt", username, time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, fileName)

	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		return "", err
	}
	if err := os.Rename(tmpFile, path); err != nil {
		os.Remove(tmpFile)
		return "", err
	}

	w.logger.Infof(providers.TypeApp, "Saved persona report to %s", path)

	return path, nil
}
