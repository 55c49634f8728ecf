package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/votehub/voting-api/internal/core/domain"
)

// errorResponse is the body of every 4xx/5xx response.
type errorResponse struct {
	Error string `json:"error"`
}

// statusRule maps a domain sentinel to a status. An empty message means the
// wrapped error text is shown to the client.
type statusRule struct {
	target error
	code   int
	msg    string
}

var statusRules = []statusRule{
	{domain.ErrValidation, http.StatusBadRequest, ""},
	{domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
	{domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
	{domain.ErrCandidateNotFound, http.StatusNotFound, "candidate not found"},
	{domain.ErrCandidateTypeNotFound, http.StatusNotFound, "candidate type not found"},
	{domain.ErrVoteNotFound, http.StatusNotFound, "vote not found"},
	{domain.ErrDuplicateVote, http.StatusConflict, ""},
	{domain.ErrTypeConflict, http.StatusConflict, ""},
	{domain.ErrDuplicateType, http.StatusConflict, ""},
}

// NewHTTPErrorHandler renders handler errors as {"error": "..."}. Unknown
// errors are logged and answered with a generic 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg, known := statusFor(err)
		if !known {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Msg("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func statusFor(err error) (code int, msg string, known bool) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message), true
	}

	for _, r := range statusRules {
		if !errors.Is(err, r.target) {
			continue
		}
		if r.msg == "" {
			return r.code, err.Error(), true
		}
		return r.code, r.msg, true
	}
	return http.StatusInternalServerError, "internal server error", false
}
