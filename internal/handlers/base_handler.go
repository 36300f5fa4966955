package handlers

import (
	"studlance_backend/internal/middleware"
	"studlance_backend/internal/validator"
	"studlance_backend/pkg/apperrors"
	"studlance_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BaseHandler carries the shared plumbing every handler embeds.
type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler(v *validator.Validator) *BaseHandler {
	return &BaseHandler{validator: v}
}

// GetDB pulls the gorm handle DBMiddleware stored on the context.
func (h *BaseHandler) GetDB(c *gin.Context) *gorm.DB {
	db, _ := c.MustGet(string(contextkeys.DBContextKey)).(*gorm.DB)
	return db
}

// BindAndValidateJSON decodes the body and runs the validation rules. On
// failure it writes the error response and returns false.
func (h *BaseHandler) BindAndValidateJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body"))
		return false
	}
	return h.validate(c, dst)
}

// BindAndValidateQuery decodes query params into dst.
func (h *BaseHandler) BindAndValidateQuery(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid query parameters"))
		return false
	}
	return h.validate(c, dst)
}

func (h *BaseHandler) validate(c *gin.Context, dst interface{}) bool {
	if err := h.validator.Validate(dst); err != nil {
		if vErr, ok := err.(*validator.ValidationError); ok {
			apperrors.HandleError(c, apperrors.ValidationError(vErr.Errors))
		} else {
			apperrors.HandleError(c, apperrors.InternalError(err))
		}
		return false
	}
	return true
}

// HandleServiceError maps a service error onto the response.
func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	apperrors.HandleError(c, err)
}

// AuthUserID returns the authenticated user id; aborts with 401 when the
// route was wired without AuthMiddleware.
func (h *BaseHandler) AuthUserID(c *gin.Context) (string, bool) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authentication required"))
		return "", false
	}
	return userID, true
}
