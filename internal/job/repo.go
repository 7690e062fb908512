package job

import (
	"errors"
	"strings"
	"time"

	"github.com/migueltaller/Commagra-Planing/internal/model"
)

// FilterAll selects every job except archived ones.
const FilterAll = "ALL"

// MaxWorkers is enforced at input time only, not as a storage invariant.
const MaxWorkers = 2

var ErrNotFound = errors.New("job not found")

// ValidationError reports a rejected submission. The job list is left
// untouched whenever one is returned.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Msg
}

// Input is the user-submitted portion of a job. The repository owns the
// id, the creation timestamp and the sync flag.
type Input struct {
	Workers      []string         `json:"workers"`
	CreationDate string           `json:"creationDate"`
	DeliveryDate string           `json:"deliveryDate"`
	TimeOfDay    string           `json:"time"`
	OrderNumber  string           `json:"orderNumber"`
	ClientName   string           `json:"clientName"`
	Material     string           `json:"material"`
	Color        string           `json:"color"`
	Description  string           `json:"description"`
	Status       model.Status     `json:"status"`
	Drawing      model.Attachment `json:"drawing"`
	Exchange     model.Attachment `json:"exchange"`
}

type Repo interface {
	// List returns every job newest-first, archived included.
	List() []model.Job
	Get(id string) (model.Job, bool)
	// Add validates, assigns id/createdAt, marks the job unsynced and
	// prepends it. A *ValidationError leaves the list unchanged.
	Add(in Input) (model.Job, error)
	// UpdateStatus replaces the status and resets the sync flag. An
	// unknown id is a silent no-op (ok=false, no error, list unchanged).
	UpdateStatus(id string, s model.Status) (model.Job, bool)
	// Archive soft-deletes: the job stays in storage with StatusArchived.
	Archive(id string) (model.Job, bool)
	// Filter returns the subset matching status, in list order. FilterAll
	// excludes archived jobs; asking for StatusArchived returns them.
	Filter(status string) []model.Job
	// ReplaceAll overwrites the whole list. Pull-from-remote path only;
	// last pull wins, unpushed local changes are not merged.
	ReplaceAll(jobs []model.Job)
	// MarkSynced records a successful push acknowledgment.
	MarkSynced(id string) bool
	// Counts returns per-status totals, archived excluded.
	Counts() map[model.Status]int
}

func (in Input) validate() error {
	if strings.TrimSpace(in.ClientName) == "" {
		return &ValidationError{Field: "clientName", Msg: "client name is required"}
	}
	workers := cleanWorkers(in.Workers)
	if len(workers) == 0 {
		return &ValidationError{Field: "workers", Msg: "assign at least one worker"}
	}
	if len(workers) > MaxWorkers {
		return &ValidationError{Field: "workers", Msg: "at most 2 workers per job"}
	}
	if strings.TrimSpace(in.DeliveryDate) == "" {
		return &ValidationError{Field: "deliveryDate", Msg: "delivery date is required"}
	}
	return nil
}

func cleanWorkers(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		out = append(out, n)
	}
	return out
}

// buildJob turns validated input into a full record.
func buildJob(in Input, now time.Time) model.Job {
	creation := strings.TrimSpace(in.CreationDate)
	if creation == "" {
		creation = now.Format("2006-01-02")
	}
	status := in.Status
	if status == "" {
		status = model.StatusPending
	}
	return model.Job{
		ID:            model.NewJobID(),
		Workers:       cleanWorkers(in.Workers),
		CreationDate:  creation,
		DeliveryDate:  strings.TrimSpace(in.DeliveryDate),
		TimeOfDay:     strings.TrimSpace(in.TimeOfDay),
		OrderNumber:   strings.TrimSpace(in.OrderNumber),
		ClientName:    strings.TrimSpace(in.ClientName),
		Material:      strings.TrimSpace(in.Material),
		Color:         strings.TrimSpace(in.Color),
		Description:   strings.TrimSpace(in.Description),
		Status:        status,
		Drawing:       in.Drawing,
		Exchange:      in.Exchange,
		CreatedAt:     now.UnixMilli(),
		SyncedToSheet: false,
	}
}

func normalizeJob(j *model.Job) {
	if j.Workers == nil {
		j.Workers = []string{}
	}
	if j.Status == "" {
		j.Status = model.StatusPending
	}
}

// matchFilter applies the status filter semantics shared by both repos.
func matchFilter(j model.Job, status string) bool {
	if status == "" || strings.EqualFold(status, FilterAll) {
		return !j.Archived()
	}
	want := model.ParseStatus(status)
	return j.Status == want
}
