package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rizquez/usersvc/internal/crypto"
	"github.com/rizquez/usersvc/internal/models"
	"github.com/rizquez/usersvc/internal/server/storage"
	"github.com/rizquez/usersvc/internal/server/token"
	"github.com/rizquez/usersvc/internal/validation"
	"github.com/rizquez/usersvc/pkg/api"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	logger     *slog.Logger
	users      storage.UserStore
	tokens     *token.Service
	bcryptCost int
}

// NewAuthHandler creates the handler for /auth routes.
func NewAuthHandler(logger *slog.Logger, users storage.UserStore, tokens *token.Service, bcryptCost int) *AuthHandler {
	return &AuthHandler{
		logger:     logger,
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode register request", slog.Any("error", err))
		sendFail(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := validateUserInput(req.FullName, req.Email, req.Password); err != nil {
		h.logger.WarnContext(ctx, "invalid register input", slog.Any("error", err))
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
			h.logger.WarnContext(ctx, "email already registered", slog.String("email", req.Email))
			sendFail(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
		sendFail(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user registered",
		slog.Int64("user_id", user.ID),
		slog.String("email", user.Email))

	sendSuccess(h.logger, w, api.UserData{
		ID:       user.ID,
		FullName: user.FullName,
		Email:    user.Email,
	}, http.StatusCreated)
}

// Login handles POST /auth/login
//
// "user not found" (404) and "invalid password" (401) are deliberately
// distinct responses, matching the service's published API.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode login request", slog.Any("error", err))
		sendFail(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			h.logger.WarnContext(ctx, "login failed: user not found", slog.String("email", req.Email))
			sendFail(h.logger, w, "user not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendFail(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if !crypto.VerifyPassword(req.Password, user.PasswordHash) {
		h.logger.WarnContext(ctx, "login failed: invalid password", slog.Int64("user_id", user.ID))
		sendFail(h.logger, w, "invalid password", http.StatusUnauthorized)
		return
	}

	tokenString, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue token", slog.Any("error", err))
		sendFail(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user logged in", slog.Int64("user_id", user.ID))

	sendSuccess(h.logger, w, api.TokenData{Token: tokenString}, http.StatusOK)
}

func validateUserInput(fullName, email, password string) error {
	if err := validation.ValidateFullName(fullName); err != nil {
		return err
	}
	if err := validation.ValidateEmail(email); err != nil {
		return err
	}
	return validation.ValidatePassword(password)
}
