package utils

import (
	"encoding/json"
	"net/http"

	"multitoko-be/internal/logger"

	"go.uber.org/zap"
)

func PtrString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// WriteJSON writes v with the given status. Encoding failures can only be
// logged since the header is already sent.
func WriteJSON(w http.ResponseWriter, v any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.L().Warn("failed to encode response", zap.Int("status", code), zap.Error(err))
	}
}

func WriteJSONError(w http.ResponseWriter, message string, code int) {
	WriteJSON(w, map[string]string{"error": message}, code)
}
