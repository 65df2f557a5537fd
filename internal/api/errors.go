package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/dmitrymomot/wagate/internal/gateway"
	"github.com/dmitrymomot/wagate/internal/store"
	"github.com/dmitrymomot/wagate/pkg/logger"
	"github.com/dmitrymomot/wagate/pkg/requestid"
	"github.com/dmitrymomot/wagate/pkg/validator"
)

// HTTPError is an error with a status code and a stable machine-readable code.
type HTTPError struct {
	Status  int
	Code    string
	Message string
}

func (e HTTPError) Error() string {
	return e.Message
}

var (
	ErrUnauthorized         = HTTPError{Status: http.StatusUnauthorized, Code: "unauthorized", Message: "missing or invalid credentials"}
	ErrInvalidSignature     = HTTPError{Status: http.StatusUnauthorized, Code: "invalid_signature", Message: "webhook signature is missing or invalid"}
	ErrInvalidJSON          = HTTPError{Status: http.StatusBadRequest, Code: "invalid_json", Message: "request body is not valid JSON"}
	ErrUnsupportedMediaType = HTTPError{Status: http.StatusUnsupportedMediaType, Code: "unsupported_media_type", Message: "expected application/json"}
	ErrBodyTooLarge         = HTTPError{Status: http.StatusRequestEntityTooLarge, Code: "request_too_large", Message: "request body is too large"}
	ErrTooManyRequests      = HTTPError{Status: http.StatusTooManyRequests, Code: "too_many_requests", Message: "rate limit exceeded"}
	ErrRateLimiterDown      = HTTPError{Status: http.StatusServiceUnavailable, Code: "rate_limiter_unavailable", Message: "rate limiter is unavailable"}
	ErrRouteNotFound        = HTTPError{Status: http.StatusNotFound, Code: "not_found", Message: "route not found"}
	ErrMethodNotAllowed     = HTTPError{Status: http.StatusMethodNotAllowed, Code: "method_not_allowed", Message: "method not allowed"}
)

type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details,omitempty"`
}

// classifyError maps domain errors to a status and response body.
func classifyError(err error) (int, errorDetail) {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status, errorDetail{Code: httpErr.Code, Message: httpErr.Message}
	}
	if ve := validator.ExtractValidationErrors(err); ve != nil {
		return http.StatusUnprocessableEntity, errorDetail{
			Code:    "validation_error",
			Message: "request validation failed",
			Details: ve.Fields(),
		}
	}

	switch {
	case errors.Is(err, gateway.ErrInvalidSessionID):
		return http.StatusBadRequest, errorDetail{Code: "invalid_session_id", Message: err.Error()}
	case errors.Is(err, gateway.ErrNotReady):
		return http.StatusConflict, errorDetail{Code: "session_not_ready", Message: err.Error()}
	case errors.Is(err, gateway.ErrUnsupportedType):
		return http.StatusBadRequest, errorDetail{Code: "unsupported_message_type", Message: err.Error()}
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, errorDetail{Code: "session_not_found", Message: "session not found"}
	case errors.Is(err, gateway.ErrTransport):
		return http.StatusBadGateway, errorDetail{Code: "transport_error", Message: "messaging transport failed"}
	case errors.Is(err, gateway.ErrShuttingDown):
		return http.StatusServiceUnavailable, errorDetail{Code: "service_unavailable", Message: "gateway is shutting down"}
	case errors.Is(err, gateway.ErrClosed):
		return http.StatusConflict, errorDetail{Code: "session_closed", Message: "session was closed before it finished initializing"}
	}
	return http.StatusInternalServerError, errorDetail{Code: "internal_error", Message: "an error occurred processing your request"}
}

// renderError logs err and writes the JSON error body.
// Server errors are logged with a stack trace.
func renderError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	status, detail := classifyError(err)
	ctx := r.Context()

	attrs := []slog.Attr{
		logger.RequestID(requestid.FromContext(ctx)),
		logger.Error(err),
		slog.Int("status_code", status),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	}
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
		attrs = append(attrs, slog.String("stack", string(debug.Stack())))
	}
	log.LogAttrs(ctx, level, "request error", attrs...)

	if err := writeJSON(w, status, errorResponse{Error: detail}); err != nil {
		log.ErrorContext(ctx, "failed to write error response", logger.Error(err))
	}
}

func invalidJSON(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
}
