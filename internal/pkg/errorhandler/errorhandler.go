package errorhandler

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/barberqueue/barberqueue-api/internal/pkg/response"
)

// HandleError logs an unexpected error and sends a formatted error response.
// Feature handlers call this for anything outside their known failure cases so
// internal details never leak to the client body.
func HandleError(ctx context.Context, w http.ResponseWriter, status int, code, message string, err error) {
	event := log.Error().
		Str("request_id", getRequestID(ctx)).
		Str("error_code", code).
		Int("status_code", status)

	if err != nil {
		event.Err(err)
	}

	event.Msg("Request error")

	response.Error(w, status, code, message)
}

// HandleErrorWithDetails is HandleError with per-field details attached
func HandleErrorWithDetails(ctx context.Context, w http.ResponseWriter, status int, code, message string, details map[string]string, err error) {
	event := log.Error().
		Str("request_id", getRequestID(ctx)).
		Str("error_code", code).
		Int("status_code", status)

	if err != nil {
		event.Err(err)
	}
	if details != nil {
		event.Interface("error_details", details)
	}

	event.Msg("Request error")

	response.ErrorWithDetails(w, status, code, message, details)
}

func getRequestID(ctx context.Context) string {
	if reqID := ctx.Value("request_id"); reqID != nil {
		if id, ok := reqID.(string); ok {
			return id
		}
	}
	return "unknown"
}
