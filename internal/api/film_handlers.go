// internal/api/film_handlers.go
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"filmorate/internal/domain"
)

const defaultMostLikedCount = 10

// validateFilm runs the struct tags plus the rules they cannot express.
func (h *Handler) validateFilm(r *http.Request, film *domain.Film) string {
	if err := h.validator.StructCtx(r.Context(), film); err != nil {
		return err.Error()
	}
	if film.ReleaseDate.Before(domain.EarliestReleaseDate) {
		return "releaseDate must not be earlier than 1895-12-28"
	}
	return ""
}

func (h *Handler) GetFilms(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	films, err := h.films.GetAllFilms(ctx)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, films)
}

func (h *Handler) GetFilmByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.respondError(w, r, http.StatusBadRequest, "validation failed", "film id must be a positive integer")
		return
	}

	film, err := h.films.GetFilmByID(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, film)
}

func (h *Handler) CreateFilm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var film domain.Film
	if err := json.NewDecoder(r.Body).Decode(&film); err != nil {
		h.logger.WarnContext(ctx, "Failed to decode film creation request body", slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusBadRequest, "invalid payload", "request body is not a valid film")
		return
	}
	defer r.Body.Close()

	if msg := h.validateFilm(r, &film); msg != "" {
		h.logger.WarnContext(ctx, "Film creation request validation failed", slog.String("reason", msg))
		h.respondError(w, r, http.StatusBadRequest, "validation failed", msg)
		return
	}

	created, err := h.films.AddFilm(ctx, &film)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "Film created", slog.Int("film_id", created.ID), slog.String("name", created.Name))
	h.respondJSON(w, r, http.StatusCreated, created)
}

func (h *Handler) UpdateFilm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var film domain.Film
	if err := json.NewDecoder(r.Body).Decode(&film); err != nil {
		h.logger.WarnContext(ctx, "Failed to decode film update request body", slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusBadRequest, "invalid payload", "request body is not a valid film")
		return
	}
	defer r.Body.Close()

	if film.ID <= 0 {
		h.respondError(w, r, http.StatusBadRequest, "validation failed", "film id must be a positive integer")
		return
	}
	if msg := h.validateFilm(r, &film); msg != "" {
		h.logger.WarnContext(ctx, "Film update request validation failed", slog.Int("film_id", film.ID), slog.String("reason", msg))
		h.respondError(w, r, http.StatusBadRequest, "validation failed", msg)
		return
	}

	updated, err := h.films.UpdateFilm(ctx, &film)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "Film updated", slog.Int("film_id", updated.ID))
	h.respondJSON(w, r, http.StatusOK, updated)
}

func (h *Handler) AddLike(w http.ResponseWriter, r *http.Request) {
	filmID, ok := pathID(r, "id")
	if !ok {
		h.respondError(w, r, http.StatusBadRequest, "validation failed", "film id must be a positive integer")
		return
	}
	userID, ok := pathID(r, "userId")
	if !ok {
		h.respondError(w, r, http.StatusBadRequest, "validation failed", "user id must be a positive integer")
		return
	}

	film, err := h.films.AddLike(r.Context(), filmID, userID)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Like added", slog.Int("film_id", filmID), slog.Int("user_id", userID))
	h.respondJSON(w, r, http.StatusOK, film)
}

func (h *Handler) DeleteLike(w http.ResponseWriter, r *http.Request) {
	filmID, ok := pathID(r, "id")
	if !ok {
		h.respondError(w, r, http.StatusBadRequest, "validation failed", "film id must be a positive integer")
		return
	}
	userID, ok := pathID(r, "userId")
	if !ok {
		h.respondError(w, r, http.StatusBadRequest, "validation failed", "user id must be a positive integer")
		return
	}

	film, err := h.films.DeleteLike(r.Context(), filmID, userID)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Like removed", slog.Int("film_id", filmID), slog.Int("user_id", userID))
	h.respondJSON(w, r, http.StatusOK, film)
}

// GetMostLikedFilms returns the top films ordered by like count. The count
// query parameter defaults to 10 and must be positive when supplied.
func (h *Handler) GetMostLikedFilms(w http.ResponseWriter, r *http.Request) {
	count := defaultMostLikedCount
	if raw := strings.TrimSpace(r.URL.Query().Get("count")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.respondError(w, r, http.StatusBadRequest, "validation failed", "count must be a positive integer")
			return
		}
		count = parsed
	}

	films, err := h.films.GetMostLikedFilms(r.Context(), count)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, films)
}
