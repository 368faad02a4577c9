package handlers

import (
	"encoding/json"
	"net/http"

	pkgerrors "cosmic-backend/pkg/errors"

	"go.uber.org/zap"
)

// Fixed client-facing messages
const (
	msgServerError     = "Server Error"
	msgInvalidBody     = "Invalid request body"
	msgPayloadTooLarge = "Payload Too Large"
)

func respondJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

func respondText(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(message))
}

// errorKind labels a failure for logs; the client never sees it
func errorKind(err error) string {
	if appErr := pkgerrors.GetAppError(err); appErr != nil {
		return string(appErr.Type)
	}
	return "UNKNOWN"
}
