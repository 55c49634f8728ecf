package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/votehub/voting-api/internal/core/ports"
)

// UserHandler serves the caller's own profile.
type UserHandler struct {
	users   ports.UserService
	profile ports.ProfileService
}

func NewUserHandler(users ports.UserService, profile ports.ProfileService) *UserHandler {
	return &UserHandler{users: users, profile: profile}
}

// Verify handles POST /verify-user: the caller's user is created from the
// token claims on first sight.
//
// @Summary      Register or fetch the caller
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  errorResponse
// @Router       /verify-user [post]
func (h *UserHandler) Verify(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	user, err := h.users.Verify(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Me handles GET /me.
//
// @Summary      Get the caller
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /me [get]
func (h *UserHandler) Me(c echo.Context) error {
	sub, err := ctxSubject(c)
	if err != nil {
		return err
	}
	user, err := h.users.Me(c.Request().Context(), sub)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Update handles PUT /update-user.
//
// @Summary      Change the caller's display name
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateUserRequest  true  "New name"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /update-user [put]
func (h *UserHandler) Update(c echo.Context) error {
	sub, err := ctxSubject(c)
	if err != nil {
		return err
	}
	var req updateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.users.UpdateName(c.Request().Context(), sub, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Profile handles GET /profile.
//
// @Summary      Caller profile with vote total and top candidates
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Profile
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /profile [get]
func (h *UserHandler) Profile(c echo.Context) error {
	sub, err := ctxSubject(c)
	if err != nil {
		return err
	}
	p, err := h.profile.Profile(c.Request().Context(), sub)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}
