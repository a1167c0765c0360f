package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"github.com/anonto42/nano-social/backend/internal/apperr"
	"github.com/anonto42/nano-social/backend/internal/pagination"
)

func ok(c echo.Context, status int, data any) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}

func page[T any](c echo.Context, p pagination.Page[T]) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    p.Items,
		"meta": echo.Map{
			"hasMore":    p.HasMore,
			"nextCursor": p.NextCursor,
			"pageSize":   p.PageSize,
		},
	})
}

// queryLimit reads ?limit; anything unparsable falls back to the default.
func queryLimit(c echo.Context) int {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return limit
}

// bind decodes and validates the request body into req.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return apperr.Wrap(apperr.KindInvalidInput, "Invalid request body", err)
	}
	return c.Validate(req)
}

// ErrorHandler renders every error in the failure envelope. Errors that are
// neither apperr nor echo errors become a DependencyFailure with the cause
// kept out of the response.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	kind := apperr.KindDependencyFailure
	status := http.StatusInternalServerError
	message := "Internal server error"

	var appErr *apperr.Error
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &appErr):
		kind = appErr.Kind
		status = kind.HTTPStatus()
		message = appErr.Message
	case errors.As(err, &httpErr):
		status = httpErr.Code
		kind = kindForStatus(status)
		if m, ok := httpErr.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(status)
		}
	}
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "method", c.Request().Method, "path", c.Path(), "err", err)
	}

	body := echo.Map{
		"success": false,
		"error":   echo.Map{"kind": kind, "message": message},
	}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		log.Error("failed to write error response", "err", err)
	}
}

func kindForStatus(status int) apperr.Kind {
	switch status {
	case http.StatusUnauthorized:
		return apperr.KindUnauthorized
	case http.StatusForbidden:
		return apperr.KindForbidden
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return apperr.KindNotFound
	case http.StatusConflict:
		return apperr.KindConflict
	}
	if status < http.StatusInternalServerError {
		return apperr.KindInvalidInput
	}
	return apperr.KindDependencyFailure
}

func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "nano-social",
	})
}
