// internal/api/handlers.go
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"filmorate/internal/service"
	"filmorate/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

// Handler contains the dependencies for the HTTP handlers.
type Handler struct {
	films     *service.FilmService
	users     *service.UserService
	genres    store.GenreStorage
	mpa       store.MpaStorage
	logger    *slog.Logger
	validator *validator.Validate
}

func NewHandler(films *service.FilmService, users *service.UserService, genres store.GenreStorage, mpa store.MpaStorage, l *slog.Logger, v *validator.Validate) *Handler {
	return &Handler{
		films:     films,
		users:     users,
		genres:    genres,
		mpa:       mpa,
		logger:    l,
		validator: v,
	}
}

// --- Helpers ---

func (h *Handler) respondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			h.logger.ErrorContext(r.Context(), "Failed to encode JSON response", slog.String("error", err.Error()), slog.String("path", r.URL.Path))
		}
	}
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, status int, message, description string) {
	h.respondJSON(w, r, status, map[string]string{"error": message, "description": description})
}

// respondStoreError maps a storage error onto the matching HTTP status.
func (h *Handler) respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case store.IsNotFound(err):
		h.respondError(w, r, http.StatusNotFound, "not found", err.Error())
	case store.IsConflict(err):
		h.respondError(w, r, http.StatusBadRequest, "validation failed", err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "Unexpected storage error", slog.String("error", err.Error()), slog.String("path", r.URL.Path))
		h.respondError(w, r, http.StatusInternalServerError, "internal error", "unexpected server error")
	}
}

// pathID parses the named path variable as a positive integer id.
func pathID(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
