package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/wagate/internal/gateway"
	"github.com/dmitrymomot/wagate/internal/store"
)

func TestClassifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"http error", ErrUnauthorized, http.StatusUnauthorized, "unauthorized", ErrUnauthorized.Message},
		{"wrapped http error", invalidJSON(errors.New("eof")), http.StatusBadRequest, "invalid_json", ErrInvalidJSON.Message},
		{"not ready", gateway.ErrNotReady, http.StatusConflict, "session_not_ready", gateway.ErrNotReady.Error()},
		{"not found", fmt.Errorf("get: %w", store.ErrNotFound), http.StatusNotFound, "session_not_found", "session not found"},
		{"transport", errors.Join(gateway.ErrTransport, errors.New("socket")), http.StatusBadGateway, "transport_error", "messaging transport failed"},
		{"shutting down", gateway.ErrShuttingDown, http.StatusServiceUnavailable, "service_unavailable", "gateway is shutting down"},
		{"closed during init", gateway.ErrClosed, http.StatusConflict, "session_closed", "session was closed before it finished initializing"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error", "an error occurred processing your request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			status, detail := classifyError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, detail.Code)
			assert.Equal(t, tt.wantMsg, detail.Message)
		})
	}
}
