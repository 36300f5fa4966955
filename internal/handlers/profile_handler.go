package handlers

import (
	"net/http"

	"studlance_backend/internal/services"
	"studlance_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	*BaseHandler
	profileService *services.ProfileService
}

func NewProfileHandler(base *BaseHandler, profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    base,
		profileService: profileService,
	}
}

func (h *ProfileHandler) RegisterRoutes(rg *gin.RouterGroup) {
	profiles := rg.Group("/profiles")
	{
		profiles.POST("/client", h.CreateClientProfile)
		profiles.PUT("/client", h.UpdateClientProfile)
		profiles.GET("/client/:userId", h.GetClientProfile)

		profiles.POST("/freelancer", h.CreateFreelancerProfile)
		profiles.PUT("/freelancer", h.UpdateFreelancerProfile)
		profiles.GET("/freelancer/:userId", h.GetFreelancerProfile)
	}

	rg.GET("/freelancers", h.ListFreelancers)
}

// CreateClientProfile godoc
// @Summary Complete client registration
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ClientProfileRequest true "Profile data"
// @Success 201 {object} models.ClientProfile
// @Router /profiles/client [post]
func (h *ProfileHandler) CreateClientProfile(c *gin.Context) {
	userID, ok := h.AuthUserID(c)
	if !ok {
		return
	}

	var req dto.ClientProfileRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	profile, err := h.profileService.CreateClientProfile(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, profile)
}

func (h *ProfileHandler) UpdateClientProfile(c *gin.Context) {
	userID, ok := h.AuthUserID(c)
	if !ok {
		return
	}

	var req dto.ClientProfileRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	profile, err := h.profileService.UpdateClientProfile(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) GetClientProfile(c *gin.Context) {
	profile, err := h.profileService.GetClientProfile(h.GetDB(c), c.Param("userId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// CreateFreelancerProfile godoc
// @Summary Complete freelancer registration
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.FreelancerProfileRequest true "Profile data"
// @Success 201 {object} models.FreelancerProfile
// @Router /profiles/freelancer [post]
func (h *ProfileHandler) CreateFreelancerProfile(c *gin.Context) {
	userID, ok := h.AuthUserID(c)
	if !ok {
		return
	}

	var req dto.FreelancerProfileRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	profile, err := h.profileService.CreateFreelancerProfile(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, profile)
}

func (h *ProfileHandler) UpdateFreelancerProfile(c *gin.Context) {
	userID, ok := h.AuthUserID(c)
	if !ok {
		return
	}

	var req dto.FreelancerProfileRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	profile, err := h.profileService.UpdateFreelancerProfile(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) GetFreelancerProfile(c *gin.Context) {
	profile, err := h.profileService.GetFreelancerProfile(h.GetDB(c), c.Param("userId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// ListFreelancers godoc
// @Summary Freelancer directory
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.FreelancerListResponse
// @Router /freelancers [get]
func (h *ProfileHandler) ListFreelancers(c *gin.Context) {
	var query dto.PageQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	resp, err := h.profileService.ListFreelancers(h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
