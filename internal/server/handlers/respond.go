package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rizquez/usersvc/pkg/api"
)

// sendJSON writes a JSON response
func sendJSON(logger *slog.Logger, w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendSuccess writes a {"status":"success","data":...} response
func sendSuccess(logger *slog.Logger, w http.ResponseWriter, data any, statusCode int) {
	sendJSON(logger, w, api.Response{Status: api.StatusSuccess, Data: data}, statusCode)
}

// sendFail writes a {"status":"fail","data":<message>} response
func sendFail(logger *slog.Logger, w http.ResponseWriter, message string, statusCode int) {
	sendJSON(logger, w, api.Response{Status: api.StatusFail, Data: message}, statusCode)
}
