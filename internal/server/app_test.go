package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rizquez/usersvc/internal/config"
	"github.com/rizquez/usersvc/pkg/api"
)

func newTestApp(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	app, err := New(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		app.Close()
	})

	return app.Handler()
}

func sqliteTestConfig() *config.Config {
	return &config.Config{
		Addr:       ":0",
		Storage:    config.StorageSQLite,
		DBPath:     ":memory:",
		JWTSecret:  "test-secret-key",
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) api.Response {
	t.Helper()

	var resp api.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestApp_EndToEnd(t *testing.T) {
	handler := newTestApp(t, sqliteTestConfig())

	// Register.
	w := doJSON(t, handler, http.MethodPost, "/auth/register", "", api.RegisterRequest{
		FullName: "Test User",
		Email:    "test@example.com",
		Password: "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	resp := decodeEnvelope(t, w)
	require.Equal(t, api.StatusSuccess, resp.Status)
	created, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), created["id"])
	assert.NotContains(t, created, "password")

	// Login with the same credentials.
	w = doJSON(t, handler, http.MethodPost, "/auth/login", "", api.LoginRequest{
		Email:    "test@example.com",
		Password: "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	resp = decodeEnvelope(t, w)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	tokenString, ok := data["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, tokenString)

	// Authenticated list contains the created user, without hash material.
	w = doJSON(t, handler, http.MethodGet, "/users", tokenString, nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp = decodeEnvelope(t, w)
	users, ok := resp.Data.([]any)
	require.True(t, ok)
	require.Len(t, users, 1)
	first, ok := users[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "test@example.com", first["email"])
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "$2a$")

	// Wrong password.
	w = doJSON(t, handler, http.MethodPost, "/auth/login", "", api.LoginRequest{
		Email:    "test@example.com",
		Password: "wrongpassword",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"status":"fail","data":"invalid password"}`, w.Body.String())

	// No token on a protected route.
	w = doJSON(t, handler, http.MethodGet, "/users", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"status":"fail","data":"token not provided"}`, w.Body.String())
}

func TestApp_DuplicateRegistration(t *testing.T) {
	handler := newTestApp(t, sqliteTestConfig())

	req := api.RegisterRequest{
		FullName: "Test User",
		Email:    "test@example.com",
		Password: "password123",
	}

	w := doJSON(t, handler, http.MethodPost, "/auth/register", "", req)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, handler, http.MethodPost, "/auth/register", "", req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, api.StatusFail, decodeEnvelope(t, w).Status)
}

func TestApp_LoginUnknownEmail(t *testing.T) {
	handler := newTestApp(t, sqliteTestConfig())

	w := doJSON(t, handler, http.MethodPost, "/auth/login", "", api.LoginRequest{
		Email:    "nonexistent@example.com",
		Password: "password123",
	})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"status":"fail","data":"user not found"}`, w.Body.String())
}

func TestApp_InvalidTokenIsForbidden(t *testing.T) {
	handler := newTestApp(t, sqliteTestConfig())

	w := doJSON(t, handler, http.MethodGet, "/users", "invalidtoken", nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"status":"fail","data":"invalid token"}`, w.Body.String())
}

func TestApp_ProtectedCRUD(t *testing.T) {
	handler := newTestApp(t, sqliteTestConfig())

	// Register and login to get a token.
	w := doJSON(t, handler, http.MethodPost, "/auth/register", "", api.RegisterRequest{
		FullName: "Admin User",
		Email:    "admin@example.com",
		Password: "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, handler, http.MethodPost, "/auth/login", "", api.LoginRequest{
		Email:    "admin@example.com",
		Password: "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	tokenString := decodeEnvelope(t, w).Data.(map[string]any)["token"].(string)

	// Create a second user through the protected endpoint.
	w = doJSON(t, handler, http.MethodPost, "/users", tokenString, api.CreateUserRequest{
		FullName: "Second User",
		Email:    "second@example.com",
		Password: "password456",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// The created user can log in: the password was hashed, not stored raw.
	w = doJSON(t, handler, http.MethodPost, "/auth/login", "", api.LoginRequest{
		Email:    "second@example.com",
		Password: "password456",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Get by id.
	w = doJSON(t, handler, http.MethodGet, "/users/2", tokenString, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeEnvelope(t, w).Data.(map[string]any)
	assert.Equal(t, "Second User", got["fullName"])

	// Update.
	w = doJSON(t, handler, http.MethodPut, "/users/2", tokenString, api.UpdateUserRequest{
		FullName: "Renamed User",
	})
	require.Equal(t, http.StatusOK, w.Code)
	got = decodeEnvelope(t, w).Data.(map[string]any)
	assert.Equal(t, "Renamed User", got["fullName"])
	assert.Equal(t, "second@example.com", got["email"])

	// Delete.
	w = doJSON(t, handler, http.MethodDelete, "/users/2", tokenString, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, handler, http.MethodGet, "/users/2", tokenString, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestApp_BoltBackend(t *testing.T) {
	cfg := sqliteTestConfig()
	cfg.Storage = config.StorageBolt
	cfg.DBPath = filepath.Join(t.TempDir(), "users.db")

	handler := newTestApp(t, cfg)

	w := doJSON(t, handler, http.MethodPost, "/auth/register", "", api.RegisterRequest{
		FullName: "Bolt User",
		Email:    "bolt@example.com",
		Password: "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, handler, http.MethodPost, "/auth/login", "", api.LoginRequest{
		Email:    "bolt@example.com",
		Password: "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	tokenString := decodeEnvelope(t, w).Data.(map[string]any)["token"].(string)

	w = doJSON(t, handler, http.MethodGet, "/users", tokenString, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestApp_Ping(t *testing.T) {
	handler := newTestApp(t, sqliteTestConfig())

	w := doJSON(t, handler, http.MethodGet, "/ping", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
