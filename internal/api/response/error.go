package response

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wonny/kisfolio/internal/api/middleware"
	"github.com/wonny/kisfolio/internal/domain/broker"
	"github.com/wonny/kisfolio/internal/domain/order"
	"github.com/wonny/kisfolio/internal/domain/portfolio"
)

// ErrorResponse represents an error API response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error details
type ErrorDetail struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Error codes
const (
	ErrCodeInternalServer   = "INTERNAL_SERVER_ERROR"
	ErrCodeInvalidParameter = "INVALID_PARAMETER"
	ErrCodeConfig           = "CONFIG_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeAuth             = "AUTH_ERROR"
	ErrCodeUpstream         = "UPSTREAM_ERROR"
	ErrCodeInfeasible       = "INFEASIBLE_WEIGHTS"
	ErrCodePlanning         = "PLANNING_ERROR"
)

// Error sends an error response with an explicit status and code.
func Error(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	requestID := middleware.GetRequestID(r.Context())

	log.Error().
		Str("request_id", requestID).
		Str("error_code", code).
		Str("message", message).
		Int("status", status).
		Msg("API error response")

	JSON(w, r, status, ErrorResponse{
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			RequestID: requestID,
			Timestamp: time.Now(),
		},
	})
}

// BadRequest sends a 400 Bad Request error
func BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	Error(w, r, http.StatusBadRequest, ErrCodeInvalidParameter, message)
}

// FromError maps a typed domain error to its HTTP status. The boundary
// does the mapping so no component needs to know HTTP.
func FromError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		configErr     *broker.ConfigError
		authErr       *broker.AuthError
		upstreamErr   *broker.UpstreamError
		infeasibleErr *portfolio.InfeasibleWeightsError
		validationErr *portfolio.ValidationError
		planningErr   *order.PlanningError
	)

	switch {
	case errors.As(err, &configErr):
		Error(w, r, http.StatusBadRequest, ErrCodeConfig, configErr.Error())
	case errors.As(err, &authErr):
		Error(w, r, http.StatusUnauthorized, ErrCodeAuth, authErr.Error())
	case errors.As(err, &upstreamErr):
		Error(w, r, http.StatusBadGateway, ErrCodeUpstream, upstreamErr.Error())
	case errors.As(err, &infeasibleErr):
		Error(w, r, http.StatusUnprocessableEntity, ErrCodeInfeasible, infeasibleErr.Error())
	case errors.As(err, &validationErr):
		Error(w, r, http.StatusBadRequest, ErrCodeInvalidParameter, validationErr.Error())
	case errors.As(err, &planningErr):
		Error(w, r, http.StatusUnprocessableEntity, ErrCodePlanning, planningErr.Error())
	default:
		Error(w, r, http.StatusInternalServerError, ErrCodeInternalServer, err.Error())
	}
}
