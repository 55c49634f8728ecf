package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/votehub/voting-api/internal/core/ports"
)

// CandidateHandler serves the candidate resource.
type CandidateHandler struct {
	service ports.CandidateService
}

func NewCandidateHandler(service ports.CandidateService) *CandidateHandler {
	return &CandidateHandler{service: service}
}

// List handles GET /candidates.
//
// @Summary      List candidates with their type and vote count
// @Tags         candidates
// @Produce      json
// @Success      200  {array}   domain.CandidateSummary
// @Failure      500  {object}  errorResponse
// @Router       /candidates [get]
func (h *CandidateHandler) List(c echo.Context) error {
	list, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// Get handles GET /candidates/:id.
//
// @Summary      Get a candidate
// @Tags         candidates
// @Produce      json
// @Param        id   path      int  true  "Candidate ID"
// @Success      200  {object}  domain.Candidate
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /candidates/{id} [get]
func (h *CandidateHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	cand, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cand)
}

// Create handles POST /candidates. Either typeId or newType must be given.
//
// @Summary      Create a candidate
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCandidateRequest  true  "Candidate"
// @Success      201   {object}  domain.Candidate
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /candidates [post]
func (h *CandidateHandler) Create(c echo.Context) error {
	var req createCandidateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cand, err := h.service.Create(c.Request().Context(), ports.CreateCandidateInput{
		Name:    req.Name,
		TypeID:  req.TypeID,
		NewType: req.NewType,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cand)
}

// Update handles PUT /candidates/:id.
//
// @Summary      Rename a candidate
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                     true  "Candidate ID"
// @Param        body  body      renameCandidateRequest  true  "New name"
// @Success      200   {object}  domain.Candidate
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /candidates/{id} [put]
func (h *CandidateHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req renameCandidateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cand, err := h.service.Rename(c.Request().Context(), id, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cand)
}

// Delete handles DELETE /candidates/:id. Votes for the candidate go with it.
//
// @Summary      Delete a candidate
// @Tags         candidates
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Candidate ID"
// @Success      200  {object}  domain.Candidate
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /candidates/{id} [delete]
func (h *CandidateHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	cand, err := h.service.Delete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cand)
}
