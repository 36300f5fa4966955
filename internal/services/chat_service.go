package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"studlance_backend/internal/logger"
	"studlance_backend/internal/models"
	chatmodels "studlance_backend/internal/models/chat"
	"studlance_backend/internal/repositories"
	chatrepo "studlance_backend/internal/repositories/chat"
	"studlance_backend/internal/services/dto"
	"studlance_backend/pkg/apperrors"
	"studlance_backend/ws"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// placeholderName is shown when the display metadata lookup fails; the
// conversation still works.
const placeholderName = "Unknown user"

type ChatService struct {
	conversationRepo *chatrepo.ConversationRepository
	messageRepo      *chatrepo.MessageRepository
	userRepo         *repositories.UserRepository
	projectRepo      *repositories.ProjectRepository
	notifications    *NotificationService
	wsManager        *ws.Manager
}

func NewChatService(
	conversationRepo *chatrepo.ConversationRepository,
	messageRepo *chatrepo.MessageRepository,
	userRepo *repositories.UserRepository,
	projectRepo *repositories.ProjectRepository,
	notifications *NotificationService,
	wsManager *ws.Manager,
) *ChatService {
	return &ChatService{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		userRepo:         userRepo,
		projectRepo:      projectRepo,
		notifications:    notifications,
		wsManager:        wsManager,
	}
}

// GetOrCreateConversation returns the single conversation for the user
// pair, creating it on first contact. The unique pair index decides races:
// if a concurrent create wins, we re-read and use the winner's row.
func (s *ChatService) GetOrCreateConversation(db *gorm.DB, userID string, req *dto.GetOrCreateConversationRequest) (*dto.ConversationView, error) {
	if req.OtherUserID == userID {
		return nil, apperrors.ErrInvalidOperation("chat", "Cannot start a conversation with yourself")
	}

	if _, err := s.userRepo.GetByID(db, req.OtherUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	conv, err := s.conversationRepo.GetByPair(db, userID, req.OtherUserID)
	switch {
	case err == nil:
		// existing thread; refresh project context if a new project is given
		if req.ProjectID != "" {
			s.applyProjectContext(db, conv, req.ProjectID)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		conv, err = s.createConversation(db, userID, req.OtherUserID, req.ProjectID)
		if err != nil {
			return nil, err
		}
	default:
		return nil, apperrors.InternalError(err)
	}

	return s.viewFor(conv, userID), nil
}

func (s *ChatService) createConversation(db *gorm.DB, userID, otherUserID, projectID string) (*chatmodels.Conversation, error) {
	low, high := chatmodels.PairKey(userID, otherUserID)

	conv := &chatmodels.Conversation{
		ParticipantLowID:  low,
		ParticipantHighID: high,
	}

	if projectID != "" {
		if project, err := s.projectRepo.GetByID(db, projectID); err == nil {
			conv.CurrentProjectID = &project.ID
			conv.CurrentProjectTitle = &project.Title
			if raw, err := json.Marshal([]string{project.ID}); err == nil {
				conv.AssociatedProjects = datatypes.JSON(raw)
			}
		}
		// a missing project does not block the conversation
	}

	participants := []chatmodels.ConversationParticipant{
		s.buildParticipant(db, userID),
		s.buildParticipant(db, otherUserID),
	}

	if err := s.conversationRepo.CreatePair(db, conv, participants); err != nil {
		if chatrepo.IsDuplicatePair(err) {
			winner, rerr := s.conversationRepo.GetByPair(db, userID, otherUserID)
			if rerr != nil {
				return nil, apperrors.InternalError(rerr)
			}
			return winner, nil
		}
		return nil, apperrors.InternalError(err)
	}

	created, err := s.conversationRepo.GetByID(db, conv.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return created, nil
}

// buildParticipant fills the denormalized display fields. Lookup failures
// degrade to a placeholder instead of failing the create.
func (s *ChatService) buildParticipant(db *gorm.DB, userID string) chatmodels.ConversationParticipant {
	p := chatmodels.ConversationParticipant{
		UserID:      userID,
		DisplayName: placeholderName,
	}

	user, err := s.userRepo.GetByIDWithProfiles(db, userID)
	if err != nil {
		logger.GetLogger().Warn("participant metadata lookup failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		return p
	}

	name, avatar := DisplayNameFor(user)
	p.DisplayName = name
	p.Role = string(user.Role)
	p.AvatarURL = avatar
	return p
}

// applyProjectContext switches the conversation's current project and
// appends it to the associated list. Best-effort.
func (s *ChatService) applyProjectContext(db *gorm.DB, conv *chatmodels.Conversation, projectID string) {
	project, err := s.projectRepo.GetByID(db, projectID)
	if err != nil {
		return
	}

	associated := decodeProjectList(conv.AssociatedProjects)
	found := false
	for _, id := range associated {
		if id == project.ID {
			found = true
			break
		}
	}
	if !found {
		associated = append(associated, project.ID)
	}

	raw, err := json.Marshal(associated)
	if err != nil {
		return
	}

	if err := s.conversationRepo.UpdateProjectContext(db, conv.ID, &project.ID, &project.Title, raw); err != nil {
		logger.GetLogger().Warn("project context update failed",
			slog.String("conversation_id", conv.ID),
			slog.String("error", err.Error()))
		return
	}
	conv.CurrentProjectID = &project.ID
	conv.CurrentProjectTitle = &project.Title
	conv.AssociatedProjects = datatypes.JSON(raw)
}

func (s *ChatService) ListConversations(db *gorm.DB, userID string) ([]dto.ConversationView, error) {
	conversations, err := s.conversationRepo.ListByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	views := make([]dto.ConversationView, 0, len(conversations))
	for i := range conversations {
		if view := s.viewFor(&conversations[i], userID); view != nil {
			views = append(views, *view)
		}
	}
	return views, nil
}

func (s *ChatService) GetConversation(db *gorm.DB, conversationID, userID string) (*dto.ConversationView, error) {
	conv, err := s.memberConversation(db, conversationID, userID)
	if err != nil {
		return nil, err
	}
	return s.viewFor(conv, userID), nil
}

func (s *ChatService) ListMessages(db *gorm.DB, conversationID, userID string, query *dto.MessageListQuery) (*dto.MessageListResponse, error) {
	if _, err := s.memberConversation(db, conversationID, userID); err != nil {
		return nil, err
	}

	query.Normalize()
	messages, total, err := s.messageRepo.ListByConversation(db, conversationID, query.Limit(), query.Offset())
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.MessageListResponse{
		Messages: messages,
		Pagination: dto.Pagination{
			Page:    query.Page,
			PerPage: query.PerPage,
			Total:   total,
		},
	}, nil
}

// SendMessage appends a message to an existing conversation. The
// conversation must already exist; sending never creates one.
func (s *ChatService) SendMessage(db *gorm.DB, conversationID, senderID string, req *dto.SendMessageRequest) (*chatmodels.Message, error) {
	conv, err := s.memberConversation(db, conversationID, senderID)
	if err != nil {
		return nil, err
	}

	receiverID := conv.ParticipantLowID
	if receiverID == senderID {
		receiverID = conv.ParticipantHighID
	}

	msgType := req.Type
	if msgType == "" {
		msgType = chatmodels.MessageTypeText
	}

	msg := &chatmodels.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Type:           msgType,
		Content:        req.Content,
		AttachmentURL:  req.AttachmentURL,
		AttachmentName: req.AttachmentName,
		AttachmentType: req.AttachmentType,
		AttachmentSize: req.AttachmentSize,
		ProposalID:     req.ProposalID,
	}

	// The insert, the preview refresh and the unread increment move
	// together; a crash between them cannot leave the counter ahead of the
	// messages.
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.messageRepo.Create(tx, msg); err != nil {
			return err
		}
		if err := s.conversationRepo.UpdateLastMessage(tx, conversationID, previewText(msg), senderID, msg.CreatedAt); err != nil {
			return err
		}
		return s.conversationRepo.IncrementUnread(tx, conversationID, receiverID)
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	channel := ws.ConversationChannel(conversationID)
	s.wsManager.SendToUser(receiverID, ws.Event{Type: ws.EventNewMessage, Channel: channel, Payload: msg})
	s.wsManager.SendToUser(senderID, ws.Event{Type: ws.EventNewMessage, Channel: channel, Payload: msg})

	// log-and-continue: a failed notification never fails the send
	senderName := s.participantName(conv, senderID)
	receiverType := s.recipientTypeFor(conv, receiverID)
	if err := s.notifications.NotifyMessage(db, receiverID, receiverType, senderName, conversationID); err != nil {
		logger.GetLogger().Warn("message notification failed",
			slog.String("conversation_id", conversationID),
			slog.String("error", err.Error()))
	}

	return msg, nil
}

// MarkMessagesAsRead flags the reader's incoming messages and zeroes the
// unread counter in one transaction, then tells the other side.
func (s *ChatService) MarkMessagesAsRead(db *gorm.DB, conversationID, readerID string) (*dto.MarkReadResponse, error) {
	conv, err := s.memberConversation(db, conversationID, readerID)
	if err != nil {
		return nil, err
	}

	var marked int64
	err = db.Transaction(func(tx *gorm.DB) error {
		var err error
		marked, err = s.messageRepo.MarkRead(tx, conversationID, readerID)
		if err != nil {
			return err
		}
		return s.conversationRepo.ResetUnread(tx, conversationID, readerID)
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	otherID := conv.ParticipantLowID
	if otherID == readerID {
		otherID = conv.ParticipantHighID
	}
	s.wsManager.SendToUser(otherID, ws.Event{
		Type:    ws.EventMessagesRead,
		Channel: ws.ConversationChannel(conversationID),
		Payload: map[string]interface{}{
			"conversation_id": conversationID,
			"reader_id":       readerID,
			"marked_count":    marked,
		},
	})

	return &dto.MarkReadResponse{MarkedCount: marked}, nil
}

// EnsureMember verifies the conversation exists and the user belongs to
// it. Upload endpoints call this before anything touches storage.
func (s *ChatService) EnsureMember(db *gorm.DB, conversationID, userID string) error {
	_, err := s.memberConversation(db, conversationID, userID)
	return err
}

// TotalUnread sums unread counters across the user's conversations.
func (s *ChatService) TotalUnread(db *gorm.DB, userID string) (int64, error) {
	total, err := s.conversationRepo.TotalUnread(db, userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return total, nil
}

// snapshotMessageLimit caps how much history a full_snapshot subscribe
// carries; older messages come through the paged list endpoint.
const snapshotMessageLimit = 50

// Snapshot serves full_snapshot websocket subscribes: the current state of
// a conversation channel or the notification stream. A conversation
// snapshot is the newest tail of the thread, ascending.
func (s *ChatService) Snapshot(ctx context.Context, db *gorm.DB, userID, channel string) (interface{}, error) {
	if channel == ws.ChannelNotifications {
		recipientType := models.RecipientTypeClient
		if user, err := s.userRepo.GetByID(db, userID); err == nil {
			recipientType = RecipientTypeForRole(user.Role)
		}
		query := &dto.NotificationListQuery{}
		query.Normalize()
		return s.notifications.List(db, userID, recipientType, query)
	}

	conversationID := ws.ParseConversationChannel(channel)
	if conversationID == "" {
		return nil, apperrors.NewBadRequestError("Unknown channel")
	}

	view, err := s.GetConversation(db, conversationID, userID)
	if err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.ListLatest(db, conversationID, snapshotMessageLimit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return map[string]interface{}{
		"conversation": view,
		"messages":     messages,
	}, nil
}

// --- helpers ---

func (s *ChatService) memberConversation(db *gorm.DB, conversationID, userID string) (*chatmodels.Conversation, error) {
	conv, err := s.conversationRepo.GetByID(db, conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrConversationNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if conv.ParticipantLowID != userID && conv.ParticipantHighID != userID {
		return nil, apperrors.ErrNotConversationMember
	}
	return conv, nil
}

// viewFor projects the conversation onto one participant's perspective.
func (s *ChatService) viewFor(conv *chatmodels.Conversation, userID string) *dto.ConversationView {
	view := &dto.ConversationView{
		ID:                  conv.ID,
		CurrentProjectID:    conv.CurrentProjectID,
		CurrentProjectTitle: conv.CurrentProjectTitle,
		AssociatedProjects:  decodeProjectList(conv.AssociatedProjects),
		LastMessageText:     conv.LastMessageText,
		LastMessageSenderID: conv.LastMessageSenderID,
		LastMessageAt:       conv.LastMessageAt,
		CreatedAt:           conv.CreatedAt,
	}

	view.OtherUserID = conv.ParticipantLowID
	if view.OtherUserID == userID {
		view.OtherUserID = conv.ParticipantHighID
	}
	view.OtherUserName = placeholderName

	for i := range conv.Participants {
		p := &conv.Participants[i]
		if p.UserID == userID {
			view.UnreadCount = p.UnreadCount
		} else {
			view.OtherUserName = p.DisplayName
			view.OtherUserRole = p.Role
			view.OtherUserAvatarURL = p.AvatarURL
		}
	}

	return view
}

func (s *ChatService) participantName(conv *chatmodels.Conversation, userID string) string {
	for i := range conv.Participants {
		if conv.Participants[i].UserID == userID {
			return conv.Participants[i].DisplayName
		}
	}
	return placeholderName
}

func (s *ChatService) recipientTypeFor(conv *chatmodels.Conversation, userID string) models.RecipientType {
	for i := range conv.Participants {
		if conv.Participants[i].UserID == userID {
			return RecipientTypeForRole(models.UserRole(conv.Participants[i].Role))
		}
	}
	return models.RecipientTypeClient
}

func previewText(msg *chatmodels.Message) string {
	switch msg.Type {
	case chatmodels.MessageTypeFile:
		if msg.AttachmentName != nil {
			return "\U0001F4CE " + *msg.AttachmentName
		}
		return "Attachment"
	case chatmodels.MessageTypeVoice:
		return "Voice message"
	default:
		// truncate on a rune boundary so the preview stays valid UTF-8
		if runes := []rune(msg.Content); len(runes) > 120 {
			return string(runes[:120])
		}
		return msg.Content
	}
}

func decodeProjectList(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return []string{}
	}
	return ids
}
