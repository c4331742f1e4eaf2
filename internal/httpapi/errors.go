package httpapi

import (
	"encoding/json"
	"net/http"

	"queryd/pkg/types"
)

// writeJSONError writes a consistent JSON error payload for transport-level
// failures.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}
