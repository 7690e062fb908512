package settings

import (
	"encoding/json"
	"net/http"

	"github.com/migueltaller/Commagra-Planing/internal/model"
)

type Handler struct {
	repo *FileRepo
}

func NewHandler(repo *FileRepo) *Handler {
	return &Handler{repo: repo}
}

// Get handles GET /api/settings.
func (h *Handler) Get(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.repo.Get())
}

// Put handles PUT /api/settings: the form submits the whole record.
func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	var in model.Settings
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}
	if err := h.repo.Put(in); err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, in)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}
