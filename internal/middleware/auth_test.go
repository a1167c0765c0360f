package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/nano-social/backend/internal/apperr"
)

type stubVerifier map[string]string

func (s stubVerifier) Verify(_ context.Context, credential string) (string, error) {
	if uid, ok := s[credential]; ok {
		return uid, nil
	}
	return "", errors.New("bad credential")
}

func TestAuth(t *testing.T) {
	e := echo.New()
	handler := Auth(stubVerifier{"good": "user-1"})(func(c echo.Context) error {
		uid, err := UserID(c)
		if err != nil {
			return err
		}
		return c.String(http.StatusOK, uid)
	})

	tests := []struct {
		name   string
		header string
		uid    string
	}{
		{"valid", "Bearer good", "user-1"},
		{"lowercase scheme", "bearer good", "user-1"},
		{"missing", "", ""},
		{"wrong scheme", "Basic good", ""},
		{"no token", "Bearer", ""},
		{"rejected", "Bearer bad", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			err := handler(e.NewContext(req, rec))
			if tt.uid == "" {
				require.Error(t, err)
				assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.uid, rec.Body.String())
		})
	}
}

func TestUserIDWithoutAuth(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	_, err := UserID(c)
	assert.Error(t, err)
}
