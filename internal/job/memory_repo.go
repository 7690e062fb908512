package job

import (
	"sync"
	"time"

	"github.com/migueltaller/Commagra-Planing/internal/model"
)

// MemoryRepo keeps the job list in memory only. Used by tests and as the
// reference implementation of the list semantics.
type MemoryRepo struct {
	mu   sync.Mutex
	jobs []model.Job
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{jobs: []model.Job{}}
}

func (r *MemoryRepo) List() []model.Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	return snapshot(r.jobs)
}

func (r *MemoryRepo) Get(id string) (model.Job, bool) {
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

func (r *MemoryRepo) Add(in Input) (model.Job, error) {
	if err := in.validate(); err != nil {
		return model.Job{}, err
	}
	j := buildJob(in, time.Now())

	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append([]model.Job{j}, r.jobs...)
	return j, nil
}

func (r *MemoryRepo) UpdateStatus(id string, s model.Status) (model.Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.jobs {
		if r.jobs[i].ID == id {
			r.jobs[i].Status = s
			r.jobs[i].SyncedToSheet = false
			return r.jobs[i], true
		}
	}
	return model.Job{}, false
}

func (r *MemoryRepo) Archive(id string) (model.Job, bool) {
	return r.UpdateStatus(id, model.StatusArchived)
}

func (r *MemoryRepo) Filter(status string) []model.Job {
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

func (r *MemoryRepo) ReplaceAll(jobs []model.Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = snapshot(jobs)
}

func (r *MemoryRepo) MarkSynced(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.jobs {
		if r.jobs[i].ID == id {
			r.jobs[i].SyncedToSheet = true
			return true
		}
	}
	return false
}

func (r *MemoryRepo) Counts() map[model.Status]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return countByStatus(r.jobs)
}

func snapshot(jobs []model.Job) []model.Job {
	out := make([]model.Job, len(jobs))
	copy(out, jobs)
	for i := range out {
		normalizeJob(&out[i])
	}
	return out
}

func countByStatus(jobs []model.Job) map[model.Status]int {
	counts := make(map[model.Status]int, len(model.Statuses()))
	for _, s := range model.Statuses() {
		counts[s] = 0
	}
	for _, j := range jobs {
		if j.Archived() {
			continue
		}
		counts[j.Status]++
	}
	return counts
}
