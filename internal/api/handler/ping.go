package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Ping handles GET /ping.
//
// @Summary      Connectivity check
// @Tags         system
// @Produce      plain
// @Success      200  {string}  string  "pong"
// @Router       /ping [get]
func Ping(c echo.Context) error {
	return c.String(http.StatusOK, "pong")
}
