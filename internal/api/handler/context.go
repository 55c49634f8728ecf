package handler

import (
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/votehub/voting-api/internal/api/middleware"
	"github.com/votehub/voting-api/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware. An empty
// subject means the route was reached without it.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	sub, _ := c.Get(middleware.ContextSubject).(string)
	if sub == "" {
		return domain.Identity{}, fmt.Errorf("%w: missing authentication claims", domain.ErrUnauthorized)
	}
	name, _ := c.Get(middleware.ContextName).(string)
	email, _ := c.Get(middleware.ContextEmail).(string)
	return domain.Identity{Subject: sub, Name: name, Email: email}, nil
}

func ctxSubject(c echo.Context) (string, error) {
	id, err := ctxIdentity(c)
	return id.Subject, err
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id must be a positive integer", domain.ErrValidation)
	}
	return id, nil
}

// bind decodes the body into req and runs its validate tags.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return fmt.Errorf("%w: invalid payload", domain.ErrValidation)
	}
	if err := c.Validate(req); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}
	return nil
}
