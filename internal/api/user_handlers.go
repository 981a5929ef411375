// internal/api/user_handlers.go
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"filmorate/internal/domain"
)

// validateUser runs the struct tags plus the rules they cannot express.
func (h *Handler) validateUser(r *http.Request, user *domain.User) string {
	if err := h.validator.StructCtx(r.Context(), user); err != nil {
		return err.Error()
	}
	if strings.ContainsAny(user.Login, " \t") {
		return "login must not contain whitespace"
	}
	if !user.Birthday.IsZero() && user.Birthday.Time.After(time.Now()) {
		return "birthday must not be in the future"
	}
	return ""
}

func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.GetAllUsers(r.Context())
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, users)
}

func (h *Handler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.respondError(w, r, http.StatusBadRequest, "validation failed", "user id must be a positive integer")
		return
	}

	user, err := h.users.GetUserByID(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, user)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var user domain.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		h.logger.WarnContext(ctx, "Failed to decode user creation request body", slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusBadRequest, "invalid payload", "request body is not a valid user")
		return
	}
	defer r.Body.Close()

	if msg := h.validateUser(r, &user); msg != "" {
		h.logger.WarnContext(ctx, "User creation request validation failed", slog.String("reason", msg))
		h.respondError(w, r, http.StatusBadRequest, "validation failed", msg)
		return
	}

	created, err := h.users.AddUser(ctx, &user)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "User created", slog.Int("user_id", created.ID), slog.String("login", created.Login))
	h.respondJSON(w, r, http.StatusCreated, created)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var user domain.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		h.logger.WarnContext(ctx, "Failed to decode user update request body", slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusBadRequest, "invalid payload", "request body is not a valid user")
		return
	}
	defer r.Body.Close()

	if user.ID <= 0 {
		h.respondError(w, r, http.StatusBadRequest, "validation failed", "user id must be a positive integer")
		return
	}
	if msg := h.validateUser(r, &user); msg != "" {
		h.logger.WarnContext(ctx, "User update request validation failed", slog.Int("user_id", user.ID), slog.String("reason", msg))
		h.respondError(w, r, http.StatusBadRequest, "validation failed", msg)
		return
	}

	updated, err := h.users.UpdateUser(ctx, &user)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "User updated", slog.Int("user_id", updated.ID))
	h.respondJSON(w, r, http.StatusOK, updated)
}

func (h *Handler) friendPairIDs(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	userID, ok := pathID(r, "id")
	if !ok {
		h.respondError(w, r, http.StatusBadRequest, "validation failed", "user id must be a positive integer")
		return 0, 0, false
	}
	friendID, ok := pathID(r, "friendId")
	if !ok {
		h.respondError(w, r, http.StatusBadRequest, "validation failed", "friend id must be a positive integer")
		return 0, 0, false
	}
	return userID, friendID, true
}

func (h *Handler) AddFriend(w http.ResponseWriter, r *http.Request) {
	userID, friendID, ok := h.friendPairIDs(w, r)
	if !ok {
		return
	}
	if userID == friendID {
		h.respondError(w, r, http.StatusBadRequest, "validation failed", "a user cannot befriend themselves")
		return
	}

	user, err := h.users.AddFriend(r.Context(), userID, friendID)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Friend added", slog.Int("user_id", userID), slog.Int("friend_id", friendID))
	h.respondJSON(w, r, http.StatusOK, user)
}

func (h *Handler) DeleteFriend(w http.ResponseWriter, r *http.Request) {
	userID, friendID, ok := h.friendPairIDs(w, r)
	if !ok {
		return
	}

	user, err := h.users.DeleteFriend(r.Context(), userID, friendID)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Friend removed", slog.Int("user_id", userID), slog.Int("friend_id", friendID))
	h.respondJSON(w, r, http.StatusOK, user)
}

func (h *Handler) GetFriends(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "id")
	if !ok {
		h.respondError(w, r, http.StatusBadRequest, "validation failed", "user id must be a positive integer")
		return
	}

	friends, err := h.users.GetFriends(r.Context(), userID)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, friends)
}

func (h *Handler) GetConfirmedFriends(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "id")
	if !ok {
		h.respondError(w, r, http.StatusBadRequest, "validation failed", "user id must be a positive integer")
		return
	}

	friends, err := h.users.GetConfirmedFriends(r.Context(), userID)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, friends)
}

func (h *Handler) GetCommonFriends(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "id")
	if !ok {
		h.respondError(w, r, http.StatusBadRequest, "validation failed", "user id must be a positive integer")
		return
	}
	otherID, ok := pathID(r, "otherId")
	if !ok {
		h.respondError(w, r, http.StatusBadRequest, "validation failed", "other user id must be a positive integer")
		return
	}

	friends, err := h.users.GetCommonFriends(r.Context(), userID, otherID)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, friends)
}
