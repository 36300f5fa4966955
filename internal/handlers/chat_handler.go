package handlers

import (
	"net/http"

	chatmodels "studlance_backend/internal/models/chat"
	"studlance_backend/internal/services"
	"studlance_backend/internal/services/dto"
	"studlance_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	*BaseHandler
	chatService     *services.ChatService
	documentService *services.DocumentService
}

func NewChatHandler(base *BaseHandler, chatService *services.ChatService, documentService *services.DocumentService) *ChatHandler {
	return &ChatHandler{
		BaseHandler:     base,
		chatService:     chatService,
		documentService: documentService,
	}
}

func (h *ChatHandler) RegisterRoutes(rg *gin.RouterGroup) {
	conversations := rg.Group("/conversations")
	{
		conversations.POST("", h.GetOrCreate)
		conversations.GET("", h.List)
		conversations.GET("/unread-count", h.TotalUnread)
		conversations.GET("/:id", h.Get)
		conversations.GET("/:id/messages", h.ListMessages)
		conversations.POST("/:id/messages", h.SendMessage)
		conversations.POST("/:id/read", h.MarkRead)
		conversations.POST("/:id/attachments", h.UploadAttachment)
		conversations.POST("/:id/voice", h.UploadVoice)
	}
}

// GetOrCreate godoc
// @Summary Open the conversation with another user, creating it on first contact
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.GetOrCreateConversationRequest true "Counterparty and optional project"
// @Success 200 {object} dto.ConversationView
// @Router /conversations [post]
func (h *ChatHandler) GetOrCreate(c *gin.Context) {
	userID, ok := h.AuthUserID(c)
	if !ok {
		return
	}

	var req dto.GetOrCreateConversationRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	view, err := h.chatService.GetOrCreateConversation(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *ChatHandler) List(c *gin.Context) {
	userID, ok := h.AuthUserID(c)
	if !ok {
		return
	}

	views, err := h.chatService.ListConversations(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": views})
}

func (h *ChatHandler) Get(c *gin.Context) {
	userID, ok := h.AuthUserID(c)
	if !ok {
		return
	}

	view, err := h.chatService.GetConversation(h.GetDB(c), c.Param("id"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID, ok := h.AuthUserID(c)
	if !ok {
		return
	}

	var query dto.MessageListQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	resp, err := h.chatService.ListMessages(h.GetDB(c), c.Param("id"), userID, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SendMessage godoc
// @Summary Send a message in an existing conversation
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Param request body dto.SendMessageRequest true "Message"
// @Success 201 {object} chat.Message
// @Router /conversations/{id}/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := h.AuthUserID(c)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	msg, err := h.chatService.SendMessage(h.GetDB(c), c.Param("id"), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// MarkRead godoc
// @Summary Mark all incoming messages in a conversation as read
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Success 200 {object} dto.MarkReadResponse
// @Router /conversations/{id}/read [post]
func (h *ChatHandler) MarkRead(c *gin.Context) {
	userID, ok := h.AuthUserID(c)
	if !ok {
		return
	}

	resp, err := h.chatService.MarkMessagesAsRead(h.GetDB(c), c.Param("id"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ChatHandler) TotalUnread(c *gin.Context) {
	userID, ok := h.AuthUserID(c)
	if !ok {
		return
	}

	total, err := h.chatService.TotalUnread(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": total})
}

// UploadAttachment stores a file and sends it as a file message in one
// request.
func (h *ChatHandler) UploadAttachment(c *gin.Context) {
	userID, ok := h.AuthUserID(c)
	if !ok {
		return
	}
	conversationID := c.Param("id")

	// membership is checked before the object write so a non-member
	// cannot plant files under the conversation's prefix
	if err := h.chatService.EnsureMember(h.GetDB(c), conversationID, userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Missing file"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apperrors.HandleError(c, apperrors.InternalError(err))
		return
	}
	defer file.Close()

	url, storagePath, err := h.documentService.UploadMessageAttachment(c.Request.Context(), conversationID, &services.UploadInput{
		FileName:    fileHeader.Filename,
		Size:        fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Reader:      file,
	})
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	req := dto.SendMessageRequest{
		Content:        c.PostForm("content"),
		Type:           chatmodels.MessageTypeFile,
		AttachmentURL:  &url,
		AttachmentName: &fileHeader.Filename,
		AttachmentType: &contentType,
		AttachmentSize: &fileHeader.Size,
	}

	msg, err := h.chatService.SendMessage(h.GetDB(c), conversationID, userID, &req)
	if err != nil {
		h.documentService.DiscardStoredObject(c.Request.Context(), storagePath)
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// UploadVoice stores a voice note and sends it as a voice message.
func (h *ChatHandler) UploadVoice(c *gin.Context) {
	userID, ok := h.AuthUserID(c)
	if !ok {
		return
	}
	conversationID := c.Param("id")

	if err := h.chatService.EnsureMember(h.GetDB(c), conversationID, userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Missing file"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apperrors.HandleError(c, apperrors.InternalError(err))
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	url, storagePath, err := h.documentService.UploadVoiceMessage(c.Request.Context(), conversationID, fileHeader.Size, contentType, file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	req := dto.SendMessageRequest{
		Content:        "Voice message",
		Type:           chatmodels.MessageTypeVoice,
		AttachmentURL:  &url,
		AttachmentType: &contentType,
		AttachmentSize: &fileHeader.Size,
	}

	msg, err := h.chatService.SendMessage(h.GetDB(c), conversationID, userID, &req)
	if err != nil {
		h.documentService.DiscardStoredObject(c.Request.Context(), storagePath)
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}
