package services

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"studlance_backend/internal/logger"
	"studlance_backend/internal/models"
	"studlance_backend/internal/repositories"
	"studlance_backend/internal/services/dto"
	"studlance_backend/pkg/apperrors"
	"studlance_backend/ws"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notification types.
const (
	NotificationTypeProposal           = "proposal"
	NotificationTypeProjectHired       = "project_hired"
	NotificationTypeMessage            = "message"
	NotificationTypeTimelineUpdate     = "timeline_update"
	NotificationTypeDocumentUpload     = "document_upload"
	NotificationTypeProjectDelivered   = "project_delivered"
	NotificationTypeProjectCompleted   = "project_completed"
	NotificationTypeProjectHandover    = "project_handover"
	NotificationTypeMilestoneCompleted = "milestone_completed"
)

type NotificationService struct {
	notificationRepo *repositories.NotificationRepository
	wsManager        *ws.Manager
}

func NewNotificationService(notificationRepo *repositories.NotificationRepository, wsManager *ws.Manager) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		wsManager:        wsManager,
	}
}

// create persists a notification, flips Delivered once the insert succeeds
// and pushes it to the recipient's sockets. Returns an error so callers
// decide whether the triggering operation fails with it; fan-out call sites
// log and continue.
func (s *NotificationService) create(db *gorm.DB, recipientID string, recipientType models.RecipientType, notifType, title, message string, data map[string]interface{}) (*models.Notification, error) {
	var payload datatypes.JSON
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		payload = datatypes.JSON(raw)
	}

	n := &models.Notification{
		RecipientID:   recipientID,
		RecipientType: recipientType,
		Type:          notifType,
		Title:         title,
		Message:       message,
		Data:          payload,
	}
	if err := s.notificationRepo.Create(db, n); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Delivered means the write succeeded, nothing about sockets.
	if err := s.notificationRepo.MarkDelivered(db, n.ID); err != nil {
		logger.GetLogger().Warn("failed to mark notification delivered",
			slog.String("notification_id", n.ID),
			slog.String("error", err.Error()))
	} else {
		n.Delivered = true
	}

	s.wsManager.SendToUser(recipientID, ws.Event{
		Type:    ws.EventNotification,
		Channel: ws.ChannelNotifications,
		Payload: n,
	})

	return n, nil
}

// --- factories, one per event ---

func (s *NotificationService) NotifyProposal(db *gorm.DB, clientID string, project *models.Project, freelancerName string, proposalID string) error {
	_, err := s.create(db, clientID, models.RecipientTypeClient,
		NotificationTypeProposal,
		"New proposal received",
		fmt.Sprintf("%s sent a proposal for \"%s\"", freelancerName, project.Title),
		map[string]interface{}{
			"project_id":  project.ID,
			"proposal_id": proposalID,
		})
	return err
}

func (s *NotificationService) NotifyProjectHired(db *gorm.DB, freelancerID string, project *models.Project) error {
	_, err := s.create(db, freelancerID, models.RecipientTypeFreelancer,
		NotificationTypeProjectHired,
		"You were hired",
		fmt.Sprintf("Your proposal for \"%s\" was accepted", project.Title),
		map[string]interface{}{
			"project_id": project.ID,
		})
	return err
}

func (s *NotificationService) NotifyMessage(db *gorm.DB, recipientID string, recipientType models.RecipientType, senderName, conversationID string) error {
	_, err := s.create(db, recipientID, recipientType,
		NotificationTypeMessage,
		"New message",
		fmt.Sprintf("%s sent you a message", senderName),
		map[string]interface{}{
			"conversation_id": conversationID,
		})
	return err
}

func (s *NotificationService) NotifyTimelineUpdate(db *gorm.DB, clientID string, project *models.Project, message string) error {
	_, err := s.create(db, clientID, models.RecipientTypeClient,
		NotificationTypeTimelineUpdate,
		"Project update",
		fmt.Sprintf("\"%s\": %s", project.Title, message),
		map[string]interface{}{
			"project_id": project.ID,
		})
	return err
}

func (s *NotificationService) NotifyDocumentUpload(db *gorm.DB, recipientID string, recipientType models.RecipientType, project *models.Project, doc *models.Document) error {
	_, err := s.create(db, recipientID, recipientType,
		NotificationTypeDocumentUpload,
		"New document uploaded",
		fmt.Sprintf("%s uploaded \"%s\" to \"%s\"", doc.UploaderName, doc.FileName, project.Title),
		map[string]interface{}{
			"project_id":  project.ID,
			"document_id": doc.ID,
		})
	return err
}

func (s *NotificationService) NotifyProjectDelivered(db *gorm.DB, clientID string, project *models.Project) error {
	_, err := s.create(db, clientID, models.RecipientTypeClient,
		NotificationTypeProjectDelivered,
		"Project delivered",
		fmt.Sprintf("\"%s\" was marked as delivered. Review the handover and complete the project.", project.Title),
		map[string]interface{}{
			"project_id": project.ID,
		})
	return err
}

func (s *NotificationService) NotifyProjectHandover(db *gorm.DB, clientID string, project *models.Project, doc *models.Document) error {
	_, err := s.create(db, clientID, models.RecipientTypeClient,
		NotificationTypeProjectHandover,
		"Handover document uploaded",
		fmt.Sprintf("A handover document was added to \"%s\"", project.Title),
		map[string]interface{}{
			"project_id":  project.ID,
			"document_id": doc.ID,
		})
	return err
}

func (s *NotificationService) NotifyProjectCompleted(db *gorm.DB, freelancerID string, project *models.Project, rating int) error {
	_, err := s.create(db, freelancerID, models.RecipientTypeFreelancer,
		NotificationTypeProjectCompleted,
		"Project completed",
		fmt.Sprintf("\"%s\" was completed. You received a %d-star review.", project.Title, rating),
		map[string]interface{}{
			"project_id": project.ID,
			"rating":     rating,
		})
	return err
}

func (s *NotificationService) NotifyMilestoneCompleted(db *gorm.DB, clientID string, project *models.Project, milestone string) error {
	_, err := s.create(db, clientID, models.RecipientTypeClient,
		NotificationTypeMilestoneCompleted,
		"Milestone completed",
		fmt.Sprintf("\"%s\": milestone \"%s\" completed", project.Title, milestone),
		map[string]interface{}{
			"project_id": project.ID,
			"milestone":  milestone,
		})
	return err
}

// --- queries & state ---

func (s *NotificationService) List(db *gorm.DB, recipientID string, recipientType models.RecipientType, query *dto.NotificationListQuery) (*dto.NotificationListResponse, error) {
	query.Normalize()

	notifications, total, err := s.notificationRepo.ListByRecipient(db, recipientID, recipientType, query.Limit(), query.Offset())
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	unread, err := s.notificationRepo.CountUnread(db, recipientID, recipientType)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.NotificationListResponse{
		Notifications: notifications,
		UnreadCount:   unread,
		Pagination: dto.Pagination{
			Page:    query.Page,
			PerPage: query.PerPage,
			Total:   total,
		},
	}, nil
}

func (s *NotificationService) UnreadCount(db *gorm.DB, recipientID string, recipientType models.RecipientType) (int64, error) {
	count, err := s.notificationRepo.CountUnread(db, recipientID, recipientType)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

func (s *NotificationService) MarkAsRead(db *gorm.DB, id, recipientID string) error {
	if err := s.notificationRepo.MarkAsRead(db, id, recipientID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(db *gorm.DB, recipientID string, recipientType models.RecipientType) (int64, error) {
	count, err := s.notificationRepo.MarkAllAsRead(db, recipientID, recipientType)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

func (s *NotificationService) Clear(db *gorm.DB, recipientID string, recipientType models.RecipientType) (int64, error) {
	count, err := s.notificationRepo.Clear(db, recipientID, recipientType)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

// RecipientTypeForRole maps a user role to its notification stream.
func RecipientTypeForRole(role models.UserRole) models.RecipientType {
	if role == models.UserRoleFreelancer {
		return models.RecipientTypeFreelancer
	}
	return models.RecipientTypeClient
}
