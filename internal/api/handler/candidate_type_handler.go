package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/votehub/voting-api/internal/core/ports"
)

type CandidateTypeHandler struct {
	service ports.CandidateTypeService
}

func NewCandidateTypeHandler(service ports.CandidateTypeService) *CandidateTypeHandler {
	return &CandidateTypeHandler{service: service}
}

// List handles GET /candidate-types.
//
// @Summary      List candidate types
// @Tags         candidate-types
// @Produce      json
// @Success      200  {array}   domain.CandidateType
// @Failure      500  {object}  errorResponse
// @Router       /candidate-types [get]
func (h *CandidateTypeHandler) List(c echo.Context) error {
	types, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, types)
}

// Create handles POST /candidate-types.
//
// @Summary      Create a candidate type
// @Tags         candidate-types
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCandidateTypeRequest  true  "Type label"
// @Success      201   {object}  domain.CandidateType
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /candidate-types [post]
func (h *CandidateTypeHandler) Create(c echo.Context) error {
	var req createCandidateTypeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	t, err := h.service.Create(c.Request().Context(), req.Type)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, t)
}
