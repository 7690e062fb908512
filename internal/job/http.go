package job

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/migueltaller/Commagra-Planing/internal/model"
	"github.com/migueltaller/Commagra-Planing/internal/notify"
	"github.com/migueltaller/Commagra-Planing/internal/sheet"
)

// Pusher is the slice of the sync client the handler needs.
type Pusher interface {
	Push(ctx context.Context, j model.Job, action sheet.Action) bool
}

// SettingsSource yields the current settings for notification planning.
type SettingsSource interface {
	Get() model.Settings
}

type Handler struct {
	repo        Repo
	pusher      Pusher
	settings    SettingsSource
	logger      logrus.FieldLogger
	pushTimeout time.Duration
}

func NewHandler(repo Repo) *Handler {
	return &Handler{
		repo:        repo,
		logger:      logrus.StandardLogger(),
		pushTimeout: 30 * time.Second,
	}
}

func (h *Handler) SetPusher(p Pusher) {
	h.pusher = p
}

func (h *Handler) SetSettingsSource(s SettingsSource) {
	h.settings = s
}

func (h *Handler) SetLogger(l logrus.FieldLogger) {
	if l != nil {
		h.logger = l
	}
}

func (h *Handler) SetPushTimeout(d time.Duration) {
	if d > 0 {
		h.pushTimeout = d
	}
}

// schedulePush dispatches a best-effort push in a detached goroutine. The
// mutation has already returned to the caller; a failed push leaves the
// job's sync flag false and nothing retries it.
func (h *Handler) schedulePush(j model.Job, action sheet.Action) {
	if h.pusher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.pushTimeout)
		defer cancel()
		if h.pusher.Push(ctx, j, action) {
			h.repo.MarkSynced(j.ID)
		}
	}()
}

// List handles GET /api/jobs?status=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = FilterAll
	}
	writeJSON(w, http.StatusOK, h.repo.Filter(status))
}

// Create handles POST /api/jobs.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}
	j, err := h.repo.Add(in)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			writeErr(w, http.StatusBadRequest, verr.Error())
			return
		}
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.schedulePush(j, sheet.ActionAdd)
	writeJSON(w, http.StatusCreated, j)
}

// UpdateStatus handles PUT /api/jobs/{id}/status. An unknown id is the
// documented silent no-op: still 200, found=false, nothing mutated.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}
	j, found := h.repo.UpdateStatus(id, model.ParseStatus(in.Status))
	if !found {
		writeJSON(w, http.StatusOK, map[string]any{"found": false})
		return
	}
	h.schedulePush(j, sheet.ActionUpdate)
	writeJSON(w, http.StatusOK, map[string]any{"found": true, "job": j})
}

// Archive handles DELETE /api/jobs/{id}: soft delete, the record stays in
// storage with the archived status.
func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	j, found := h.repo.Archive(id)
	if !found {
		writeJSON(w, http.StatusOK, map[string]any{"found": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"found": true, "job": j})
}

// Stats handles GET /api/jobs/stats: per-status counts for the dashboard,
// archived excluded.
func (h *Handler) Stats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.repo.Counts())
}

// Notify handles POST /api/jobs/{id}/notify. It only plans: the client
// shows the confirmation and opens the chosen link.
func (h *Handler) Notify(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	j, ok := h.repo.Get(id)
	if !ok {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	s := model.DefaultSettings()
	if h.settings != nil {
		s = h.settings.Get()
	}
	writeJSON(w, http.StatusOK, notify.BuildPlan(j, s))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}
