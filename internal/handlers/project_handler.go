package handlers

import (
	"net/http"

	"studlance_backend/internal/middleware"
	"studlance_backend/internal/models"
	"studlance_backend/internal/services"
	"studlance_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	*BaseHandler
	projectService *services.ProjectService
	reviewService  *services.ReviewService
}

func NewProjectHandler(base *BaseHandler, projectService *services.ProjectService, reviewService *services.ReviewService) *ProjectHandler {
	return &ProjectHandler{
		BaseHandler:    base,
		projectService: projectService,
		reviewService:  reviewService,
	}
}

func (h *ProjectHandler) RegisterRoutes(rg *gin.RouterGroup) {
	projects := rg.Group("/projects")
	{
		projects.GET("", h.List)
		projects.GET("/mine", h.ListMine)
		projects.GET("/:id", h.Get)

		projects.POST("", middleware.RoleMiddleware(models.UserRoleClient), h.Create)
		projects.PUT("/:id", middleware.RoleMiddleware(models.UserRoleClient), h.Update)
		projects.DELETE("/:id", middleware.RoleMiddleware(models.UserRoleClient), h.Delete)
		projects.POST("/:id/cancel", middleware.RoleMiddleware(models.UserRoleClient), h.Cancel)
		projects.POST("/:id/complete", middleware.RoleMiddleware(models.UserRoleClient), h.Complete)

		projects.POST("/:id/deliver", middleware.RoleMiddleware(models.UserRoleFreelancer), h.Deliver)
		projects.POST("/:id/timeline", middleware.RoleMiddleware(models.UserRoleFreelancer), h.TimelineUpdate)
	}

	rg.GET("/reviews/freelancer/:freelancerId", h.ListReviews)
}

// Create godoc
// @Summary Post a new project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateProjectRequest true "Project data"
// @Success 201 {object} models.Project
// @Router /projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	userID, ok := h.AuthUserID(c)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	project, err := h.projectService.Create(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

// List godoc
// @Summary Browse projects
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param category query string false "Category filter"
// @Param search query string false "Title/description search"
// @Success 200 {object} dto.ProjectListResponse
// @Router /projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	var query dto.ProjectListQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	resp, err := h.projectService.List(h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListMine returns the caller's projects: posted ones for clients, hired
// ones for freelancers.
func (h *ProjectHandler) ListMine(c *gin.Context) {
	userID, ok := h.AuthUserID(c)
	if !ok {
		return
	}

	var query dto.PageQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	var (
		resp *dto.ProjectListResponse
		err  error
	)
	if middleware.GetUserRole(c) == models.UserRoleFreelancer {
		resp, err = h.projectService.ListByFreelancer(h.GetDB(c), userID, &query)
	} else {
		resp, err = h.projectService.ListByClient(h.GetDB(c), userID, &query)
	}
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	userID, ok := h.AuthUserID(c)
	if !ok {
		return
	}

	project, err := h.projectService.Get(h.GetDB(c), c.Param("id"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Update(c *gin.Context) {
	userID, ok := h.AuthUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	project, err := h.projectService.Update(h.GetDB(c), c.Param("id"), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	userID, ok := h.AuthUserID(c)
	if !ok {
		return
	}

	if err := h.projectService.Delete(h.GetDB(c), c.Param("id"), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ProjectHandler) Cancel(c *gin.Context) {
	userID, ok := h.AuthUserID(c)
	if !ok {
		return
	}

	project, err := h.projectService.Cancel(h.GetDB(c), c.Param("id"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// Deliver godoc
// @Summary Mark project as delivered
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 200 {object} models.Project
// @Router /projects/{id}/deliver [post]
func (h *ProjectHandler) Deliver(c *gin.Context) {
	userID, ok := h.AuthUserID(c)
	if !ok {
		return
	}

	project, err := h.projectService.Deliver(h.GetDB(c), c.Param("id"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// Complete godoc
// @Summary Complete a delivered project and leave a review
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Param request body dto.CompleteProjectRequest true "Rating and comment"
// @Success 200 {object} models.Project
// @Router /projects/{id}/complete [post]
func (h *ProjectHandler) Complete(c *gin.Context) {
	userID, ok := h.AuthUserID(c)
	if !ok {
		return
	}

	var req dto.CompleteProjectRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	project, err := h.projectService.Complete(h.GetDB(c), c.Param("id"), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) TimelineUpdate(c *gin.Context) {
	userID, ok := h.AuthUserID(c)
	if !ok {
		return
	}

	var req dto.TimelineUpdateRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.projectService.TimelineUpdate(h.GetDB(c), c.Param("id"), userID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ProjectHandler) ListReviews(c *gin.Context) {
	var query dto.PageQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	resp, err := h.reviewService.ListByFreelancer(h.GetDB(c), c.Param("freelancerId"), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
