package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rizquez/usersvc/internal/crypto"
	"github.com/rizquez/usersvc/internal/models"
	"github.com/rizquez/usersvc/internal/server/storage"
	"github.com/rizquez/usersvc/internal/validation"
	"github.com/rizquez/usersvc/pkg/api"
)

// UserHandler serves the protected /users CRUD routes. Requests only reach
// it through the auth middleware.
type UserHandler struct {
	logger     *slog.Logger
	users      storage.UserStore
	bcryptCost int
}

// NewUserHandler creates the handler for /users routes.
func NewUserHandler(logger *slog.Logger, users storage.UserStore, bcryptCost int) *UserHandler {
	return &UserHandler{
		logger:     logger,
		users:      users,
		bcryptCost: bcryptCost,
	}
}

// List handles GET /users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.users.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list users", slog.Any("error", err))
		sendFail(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	data := make([]api.UserData, 0, len(users))
	for _, user := range users {
		data = append(data, api.UserData{
			ID:       user.ID,
			FullName: user.FullName,
			Email:    user.Email,
		})
	}

	sendSuccess(h.logger, w, data, http.StatusOK)
}

// Get handles GET /users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		sendFail(h.logger, w, "invalid user id", http.StatusBadRequest)
		return
	}

	user, err := h.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendFail(h.logger, w, "user not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendFail(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendSuccess(h.logger, w, api.UserData{
		ID:       user.ID,
		FullName: user.FullName,
		Email:    user.Email,
	}, http.StatusOK)
}

// Create handles POST /users. Admin-style creation; the password is hashed
// exactly like on registration.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode create user request", slog.Any("error", err))
		sendFail(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := validateUserInput(req.FullName, req.Email, req.Password); err != nil {
		sendFail(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	hash, err := crypto.HashPassword(req.Password, h.bcryptCost)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		sendFail(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	user := &models.User{
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: hash,
	}

	if err := h.users.Create(ctx, user); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			sendFail(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
		sendFail(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user created", slog.Int64("user_id", user.ID))

	sendSuccess(h.logger, w, api.UserData{
		ID:       user.ID,
		FullName: user.FullName,
		Email:    user.Email,
	}, http.StatusCreated)
}

// Update handles PUT /users/{id}. Blank fields keep their stored values;
// a supplied password is re-hashed.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		sendFail(h.logger, w, "invalid user id", http.StatusBadRequest)
		return
	}

	var req api.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode update user request", slog.Any("error", err))
		sendFail(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendFail(h.logger, w, "user not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendFail(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if req.FullName != "" {
		if err := validation.ValidateFullName(req.FullName); err != nil {
			sendFail(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}
		user.FullName = req.FullName
	}
	if req.Email != "" {
		if err := validation.ValidateEmail(req.Email); err != nil {
			sendFail(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}
		user.Email = req.Email
	}
	if req.Password != "" {
		if err := validation.ValidatePassword(req.Password); err != nil {
			sendFail(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}
		hash, err := crypto.HashPassword(req.Password, h.bcryptCost)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
			sendFail(h.logger, w, "internal server error", http.StatusInternalServerError)
			return
		}
		user.PasswordHash = hash
	}

	if err := h.users.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, storage.ErrUserNotFound):
			sendFail(h.logger, w, "user not found", http.StatusNotFound)
		case errors.Is(err, storage.ErrEmailTaken):
			sendFail(h.logger, w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.ErrorContext(ctx, "failed to update user", slog.Any("error", err))
			sendFail(h.logger, w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.logger.InfoContext(ctx, "user updated", slog.Int64("user_id", user.ID))

	sendSuccess(h.logger, w, api.UserData{
		ID:       user.ID,
		FullName: user.FullName,
		Email:    user.Email,
	}, http.StatusOK)
}

// Delete handles DELETE /users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		sendFail(h.logger, w, "invalid user id", http.StatusBadRequest)
		return
	}

	if err := h.users.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendFail(h.logger, w, "user not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete user", slog.Any("error", err))
		sendFail(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user deleted", slog.Int64("user_id", id))

	w.WriteHeader(http.StatusNoContent)
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
