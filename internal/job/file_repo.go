package job

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/migueltaller/Commagra-Planing/internal/model"
)

// FileRepo persists the job list as a single JSON array rewritten after
// every mutation. The list order is the canonical order (newest first).
type FileRepo struct {
	mu     sync.Mutex
	path   string
	jobs   []model.Job
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
		path:   filepath.Join(dataDir, "jobs.json"),
		jobs:   []model.Job{},
		logger: logger,
	}
	r.load()
	return r, nil
}

// load reads the persisted list. Malformed data is not fatal: the store
// falls back to an empty list and the app keeps operating locally.
func (r *FileRepo) load() {
	b, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.WithError(err).WithField("path", r.path).Warn("job store unreadable, starting empty")
		}
		return
	}
	var loaded []model.Job
	if err := json.Unmarshal(b, &loaded); err != nil {
		r.logger.WithError(err).WithField("path", r.path).Warn("job store corrupt, starting empty")
		return
	}
	for i := range loaded {
		normalizeJob(&loaded[i])
	}
	r.jobs = loaded
}

func (r *FileRepo) saveLocked() {
	b, err := json.MarshalIndent(r.jobs, "", "  ")
	if err != nil {
		r.logger.WithError(err).Error("encode job store")
		return
	}
	if err := os.WriteFile(r.path, b, 0o644); err != nil {
		r.logger.WithError(err).WithField("path", r.path).Error("write job store")
	}
}

func (r *FileRepo) List() []model.Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	return snapshot(r.jobs)
}

func (r *FileRepo) Get(id string) (model.Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, j := range r.jobs {
		if j.ID == id {
			normalizeJob(&j)
			return j, true
		}
	}
	return model.Job{}, false
}

func (r *FileRepo) Add(in Input) (model.Job, error) {
	if err := in.validate(); err != nil {
		return model.Job{}, err
	}
	j := buildJob(in, time.Now())

	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append([]model.Job{j}, r.jobs...)
	r.saveLocked()
	return j, nil
}

func (r *FileRepo) UpdateStatus(id string, s model.Status) (model.Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.jobs {
		if r.jobs[i].ID == id {
			r.jobs[i].Status = s
			r.jobs[i].SyncedToSheet = false
			r.saveLocked()
			return r.jobs[i], true
		}
	}
	return model.Job{}, false
}

func (r *FileRepo) Archive(id string) (model.Job, bool) {
	return r.UpdateStatus(id, model.StatusArchived)
}

func (r *FileRepo) Filter(status string) []model.Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		if matchFilter(j, status) {
			normalizeJob(&j)
			out = append(out, j)
		}
	}
	return out
}

func (r *FileRepo) ReplaceAll(jobs []model.Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = snapshot(jobs)
	r.saveLocked()
}

func (r *FileRepo) MarkSynced(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.jobs {
		if r.jobs[i].ID == id {
			r.jobs[i].SyncedToSheet = true
			r.saveLocked()
			return true
		}
	}
	return false
}

func (r *FileRepo) Counts() map[model.Status]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return countByStatus(r.jobs)
}
