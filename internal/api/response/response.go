package response

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/wonny/kisfolio/internal/api/middleware"
)

// SuccessResponse represents a successful API response
type SuccessResponse struct {
	Data interface{} `json:"data"`
	Meta Meta        `json:"meta"`
}

// Meta represents metadata in response
type Meta struct {
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
	Count     int       `json:"count,omitempty"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().
			Err(err).
			Str("request_id", middleware.GetRequestID(r.Context())).
			Msg("Failed to encode response")
	}
}

// Success sends a 200 response with the data wrapped in the envelope.
func Success(w http.ResponseWriter, r *http.Request, data interface{}) {
	JSON(w, r, http.StatusOK, SuccessResponse{
		Data: data,
		Meta: Meta{
			RequestID: middleware.GetRequestID(r.Context()),
			Timestamp: time.Now(),
		},
	})
}

// SuccessList sends a 200 response with list data and count.
func SuccessList(w http.ResponseWriter, r *http.Request, data interface{}, count int) {
	JSON(w, r, http.StatusOK, SuccessResponse{
		Data: data,
		Meta: Meta{
			RequestID: middleware.GetRequestID(r.Context()),
			Timestamp: time.Now(),
			Count:     count,
		},
	})
}
