package sheet

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/migueltaller/Commagra-Planing/internal/model"
)

// ListReplacer is the one repository operation the pull path needs.
type ListReplacer interface {
	ReplaceAll(jobs []model.Job)
}

// Handler exposes the one-shot pull and the endpoint connectivity test.
type Handler struct {
	client *Client
	repo   ListReplacer
	logger logrus.FieldLogger

	// busy mirrors the original UI's isSyncing flag: one pull at a time,
	// concurrent triggers are rejected instead of queued.
	busy atomic.Bool
}

func NewHandler(client *Client, repo ListReplacer, logger logrus.FieldLogger) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{client: client, repo: repo, logger: logger}
}

// Pull handles POST /api/sync/pull: replaces the whole local list with the
// sheet's contents. No merge — last pull wins.
func (h *Handler) Pull(w http.ResponseWriter, r *http.Request) {
	if !h.busy.CompareAndSwap(false, true) {
		writeErr(w, http.StatusConflict, "sync already in progress")
		return
	}
	defer h.busy.Store(false)

	jobs, err := h.client.Pull(r.Context())
	if err != nil {
		h.logger.WithError(err).Warn("sheet pull failed")
		code := http.StatusBadGateway
		if errors.Is(err, ErrNoEndpoint) {
			code = http.StatusBadRequest
		}
		writeErr(w, code, err.Error())
		return
	}
	h.repo.ReplaceAll(jobs)
	h.logger.WithField("count", len(jobs)).Info("job list replaced from sheet")
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "count": len(jobs)})
}

// Test handles POST /api/sync/test: validates a webhook URL before the
// settings form saves it.
func (h *Handler) Test(w http.ResponseWriter, r *http.Request) {
	var in struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}
	ok := h.client.TestEndpoint(r.Context(), in.URL)
	writeJSON(w, http.StatusOK, map[string]any{"ok": ok})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}
