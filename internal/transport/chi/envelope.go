package chi

import (
	"encoding/json"
	"net/http"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Envelope wraps every handler result. Success is false iff Error is set,
// and Data is never set together with Error. Embed is null unless /embed
// was asked for the query vector.
type Envelope struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data"`
	Embed     []float32 `json:"embed"`
	Error     *string   `json:"error"`
	RequestID string    `json:"request_id"`
}

// requestID returns the id assigned by the request-id middleware, or a fresh
// one when the handler runs without it.
func requestID(r *http.Request) string {
	if id := chiMiddleware.GetReqID(r.Context()); id != "" {
		return id
	}
	return uuid.NewString()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, r *http.Request, data any, embed []float32) {
	writeJSON(w, http.StatusOK, Envelope{
		Success:   true,
		Data:      data,
		Embed:     embed,
		RequestID: requestID(r),
	})
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, status, Envelope{
		Error:     &message,
		RequestID: requestID(r),
	})
}
