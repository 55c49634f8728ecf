package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/votehub/voting-api/internal/core/ports"
)

// VoteHandler serves votes and the caller's vote views.
type VoteHandler struct {
	service ports.VoteService
}

func NewVoteHandler(service ports.VoteService) *VoteHandler {
	return &VoteHandler{service: service}
}

// List handles GET /votes.
//
// @Summary      List all votes anonymously
// @Tags         votes
// @Produce      json
// @Success      200  {array}   domain.PublicVote
// @Failure      500  {object}  errorResponse
// @Router       /votes [get]
func (h *VoteHandler) List(c echo.Context) error {
	votes, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, votes)
}

// Cast handles POST /votes.
//
// @Summary      Vote for a candidate
// @Description  One vote per candidate and one vote per candidate type.
// @Tags         votes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      castVoteRequest  true  "Candidate to vote for"
// @Success      201   {object}  domain.Vote
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /votes [post]
func (h *VoteHandler) Cast(c echo.Context) error {
	sub, err := ctxSubject(c)
	if err != nil {
		return err
	}
	var req castVoteRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	vote, err := h.service.Cast(c.Request().Context(), sub, req.CandidateID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, vote)
}

// Get handles GET /votes/:id. Only the owner may read it.
//
// @Summary      Get one of the caller's votes
// @Tags         votes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Vote ID"
// @Success      200  {object}  domain.VoteDetail
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /votes/{id} [get]
func (h *VoteHandler) Get(c echo.Context) error {
	sub, err := ctxSubject(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	detail, err := h.service.Get(c.Request().Context(), sub, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

// Delete handles DELETE /votes/:id.
//
// @Summary      Retract a vote
// @Tags         votes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Vote ID"
// @Success      200  {object}  domain.Vote
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /votes/{id} [delete]
func (h *VoteHandler) Delete(c echo.Context) error {
	sub, err := ctxSubject(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	vote, err := h.service.Retract(c.Request().Context(), sub, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, vote)
}

// Mine handles GET /my-votes.
//
// @Summary      List the caller's votes
// @Tags         votes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.MyVote
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /my-votes [get]
func (h *VoteHandler) Mine(c echo.Context) error {
	sub, err := ctxSubject(c)
	if err != nil {
		return err
	}
	votes, err := h.service.ListMine(c.Request().Context(), sub)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, votes)
}

// CountMine handles GET /my-votes/count.
//
// @Summary      Count the caller's votes
// @Tags         votes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  totalVotesResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /my-votes/count [get]
func (h *VoteHandler) CountMine(c echo.Context) error {
	sub, err := ctxSubject(c)
	if err != nil {
		return err
	}
	n, err := h.service.CountMine(c.Request().Context(), sub)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, totalVotesResponse{TotalVotes: n})
}

// Top handles GET /top-voted-candidates.
//
// @Summary      Top candidates among those the caller voted for
// @Description  At most three, by global vote count then id.
// @Tags         votes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.TopCandidate
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /top-voted-candidates [get]
func (h *VoteHandler) Top(c echo.Context) error {
	sub, err := ctxSubject(c)
	if err != nil {
		return err
	}
	top, err := h.service.TopCandidates(c.Request().Context(), sub)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, top)
}
