package handlers

import (
	"net/http"

	"studlance_backend/internal/middleware"
	"studlance_backend/internal/models"
	"studlance_backend/internal/services"
	"studlance_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProposalHandler struct {
	*BaseHandler
	proposalService *services.ProposalService
}

func NewProposalHandler(base *BaseHandler, proposalService *services.ProposalService) *ProposalHandler {
	return &ProposalHandler{
		BaseHandler:     base,
		proposalService: proposalService,
	}
}

func (h *ProposalHandler) RegisterRoutes(rg *gin.RouterGroup) {
	proposals := rg.Group("/proposals")
	{
		proposals.POST("", middleware.RoleMiddleware(models.UserRoleFreelancer), h.Submit)
		proposals.GET("/mine", middleware.RoleMiddleware(models.UserRoleFreelancer), h.ListMine)
		proposals.POST("/:id/withdraw", middleware.RoleMiddleware(models.UserRoleFreelancer), h.Withdraw)

		proposals.POST("/:id/accept", middleware.RoleMiddleware(models.UserRoleClient), h.Accept)
		proposals.POST("/:id/reject", middleware.RoleMiddleware(models.UserRoleClient), h.Reject)
	}

	rg.GET("/projects/:id/proposals", middleware.RoleMiddleware(models.UserRoleClient), h.ListByProject)
}

// Submit godoc
// @Summary Submit a proposal for an open project
// @Tags proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitProposalRequest true "Proposal data"
// @Success 201 {object} models.Proposal
// @Router /proposals [post]
func (h *ProposalHandler) Submit(c *gin.Context) {
	userID, ok := h.AuthUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitProposalRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	proposal, err := h.proposalService.Submit(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, proposal)
}

func (h *ProposalHandler) ListMine(c *gin.Context) {
	userID, ok := h.AuthUserID(c)
	if !ok {
		return
	}

	var query dto.PageQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	resp, err := h.proposalService.ListMine(h.GetDB(c), userID, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ProposalHandler) ListByProject(c *gin.Context) {
	userID, ok := h.AuthUserID(c)
	if !ok {
		return
	}

	proposals, err := h.proposalService.ListByProject(h.GetDB(c), c.Param("id"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"proposals": proposals})
}

// Accept godoc
// @Summary Accept a proposal and hire the freelancer
// @Tags proposals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Proposal ID"
// @Success 200 {object} models.Proposal
// @Router /proposals/{id}/accept [post]
func (h *ProposalHandler) Accept(c *gin.Context) {
	userID, ok := h.AuthUserID(c)
	if !ok {
		return
	}

	proposal, err := h.proposalService.Accept(h.GetDB(c), c.Param("id"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, proposal)
}

func (h *ProposalHandler) Reject(c *gin.Context) {
	userID, ok := h.AuthUserID(c)
	if !ok {
		return
	}

	proposal, err := h.proposalService.Reject(h.GetDB(c), c.Param("id"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, proposal)
}

func (h *ProposalHandler) Withdraw(c *gin.Context) {
	userID, ok := h.AuthUserID(c)
	if !ok {
		return
	}

	proposal, err := h.proposalService.Withdraw(h.GetDB(c), c.Param("id"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, proposal)
}
