// Package settings persists the user-configurable record: recipients,
// notification toggles and the sheet webhook URL.
package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/migueltaller/Commagra-Planing/internal/model"
)

// FileRepo holds a single settings record, replaced wholesale on every
// save. Changes take effect immediately for subsequent sync and notify
// operations; there is no schema versioning, newer fields just default
// when absent from older persisted data.
type FileRepo struct {
	mu     sync.Mutex
	path   string
	s      model.Settings
	logger logrus.FieldLogger
}

func NewFileRepo(dataDir string, logger logrus.FieldLogger) (*FileRepo, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	r := &FileRepo{
		path:   filepath.Join(dataDir, "settings.json"),
		s:      model.DefaultSettings(),
		logger: logger,
	}
	r.load()
	return r, nil
}

func (r *FileRepo) load() {
	b, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.WithError(err).WithField("path", r.path).Warn("settings unreadable, using defaults")
		}
		return
	}
	loaded := model.DefaultSettings()
	if err := json.Unmarshal(b, &loaded); err != nil {
		r.logger.WithError(err).WithField("path", r.path).Warn("settings corrupt, using defaults")
		return
	}
	r.s = loaded
}

func (r *FileRepo) Get() model.Settings {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.s
}

func (r *FileRepo) Put(s model.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s = s

	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, b, 0o644)
}
