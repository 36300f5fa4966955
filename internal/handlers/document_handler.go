package handlers

import (
	"net/http"

	"studlance_backend/internal/models"
	"studlance_backend/internal/services"
	"studlance_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	*BaseHandler
	documentService *services.DocumentService
}

func NewDocumentHandler(base *BaseHandler, documentService *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		BaseHandler:     base,
		documentService: documentService,
	}
}

func (h *DocumentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/projects/:id/documents", h.Upload)
	rg.GET("/projects/:id/documents", h.List)
	rg.DELETE("/documents/:id", h.Delete)
}

// Upload godoc
// @Summary Upload a project or handover document
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Param file formData file true "Document file"
// @Param kind formData string false "project (default) or handover"
// @Success 201 {object} models.Document
// @Router /projects/{id}/documents [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	userID, ok := h.AuthUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Missing file"))
		return
	}

	kind := models.DocumentKind(c.DefaultPostForm("kind", string(models.DocumentKindProject)))
	if kind != models.DocumentKindProject && kind != models.DocumentKindHandover {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Unknown document kind"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apperrors.HandleError(c, apperrors.InternalError(err))
		return
	}
	defer file.Close()

	doc, err := h.documentService.UploadProjectDocument(c.Request.Context(), h.GetDB(c), c.Param("id"), userID, kind, &services.UploadInput{
		FileName:    fileHeader.Filename,
		Size:        fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Reader:      file,
	})
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, doc)
}

func (h *DocumentHandler) List(c *gin.Context) {
	userID, ok := h.AuthUserID(c)
	if !ok {
		return
	}

	kind := models.DocumentKind(c.Query("kind"))
	docs, err := h.documentService.List(h.GetDB(c), c.Param("id"), userID, kind)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	userID, ok := h.AuthUserID(c)
	if !ok {
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), h.GetDB(c), c.Param("id"), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
