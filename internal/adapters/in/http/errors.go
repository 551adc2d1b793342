package http

import (
	"errors"
	"net/http"

	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

var statusByCode = map[string]int{
	errs.CodeValidation:        http.StatusBadRequest,
	errs.CodeMissingToken:      http.StatusUnauthorized,
	errs.CodeInvalidToken:      http.StatusUnauthorized,
	errs.CodeUnauthorized:      http.StatusForbidden,
	errs.CodeNotFound:          http.StatusNotFound,
	errs.CodeIllegalTransition: http.StatusConflict,
	errs.CodePersistence:       http.StatusServiceUnavailable,
}

// errorResponse maps err to a status code and body. Persistence and unknown
// failures do not expose their cause.
func errorResponse(err error) (int, ErrorResponse) {
	code := errs.Code(err)
	status, ok := statusByCode[code]
	if !ok {
		return http.StatusInternalServerError, ErrorResponse{Code: code, Message: "internal error"}
	}

	message := err.Error()
	if code == errs.CodePersistence {
		message = "the datastore is temporarily unavailable, retry later"
	}
	return status, ErrorResponse{Code: code, Message: message, Retryable: errs.IsRetryable(err)}
}

func (s *Server) respondError(c echo.Context, err error) error {
	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method, "path", c.Path(), "error", err)
	}
	return c.JSON(status, body)
}

// HTTPErrorHandler renders errors that escape handlers, including echo's own
// routing errors, with the same body shape.
func (s *Server) HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		message := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			message = m
		}
		_ = c.JSON(he.Code, ErrorResponse{Code: http.StatusText(he.Code), Message: message})
		return
	}

	_ = s.respondError(c, err)
}
