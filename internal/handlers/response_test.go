package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/nano-social/backend/internal/apperr"
)

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		kind    string
		message string
	}{
		{"app error", apperr.Forbidden("nope"), http.StatusForbidden, "forbidden", "nope"},
		{"wrapped app error", apperr.Wrap(apperr.KindConflict, "taken", errors.New("dup")), http.StatusConflict, "conflict", "taken"},
		{"echo error", echo.NewHTTPError(http.StatusNotFound, "Not Found"), http.StatusNotFound, "not_found", "Not Found"},
		{"echo bad request", echo.ErrBadRequest, http.StatusBadRequest, "invalid_input", "Bad Request"},
		{"unknown error", errors.New("pq: connection refused"), http.StatusInternalServerError, "dependency_failure", "Internal server error"},
	}
	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			ErrorHandler(tt.err, c)

			assert.Equal(t, tt.status, rec.Code)
			var body struct {
				Success bool `json:"success"`
				Error   struct {
					Kind    string `json:"kind"`
					Message string `json:"message"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.kind, body.Error.Kind)
			assert.Equal(t, tt.message, body.Error.Message)
		})
	}
}
