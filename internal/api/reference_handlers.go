// internal/api/reference_handlers.go
package api

import "net/http"

// The genre and mpa endpoints serve the reference tables directly; there is
// no business logic on top of the lookups.

func (h *Handler) GetGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.genres.GetAllGenres(r.Context())
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, genres)
}

func (h *Handler) GetGenreByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.respondError(w, r, http.StatusBadRequest, "validation failed", "genre id must be a positive integer")
		return
	}

	genre, err := h.genres.GetGenreByID(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, genre)
}

func (h *Handler) GetMpaRatings(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.mpa.GetAllMpa(r.Context())
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, ratings)
}

func (h *Handler) GetMpaByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.respondError(w, r, http.StatusBadRequest, "validation failed", "mpa id must be a positive integer")
		return
	}

	mpa, err := h.mpa.GetMpaByID(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, mpa)
}
