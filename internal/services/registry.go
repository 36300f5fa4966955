package services

import (
	"studlance_backend/internal/email"
	"studlance_backend/internal/repositories"
	chatrepo "studlance_backend/internal/repositories/chat"
	"studlance_backend/internal/storage"
	"studlance_backend/ws"
)

// ServiceContainer wires every service with its repositories.
type ServiceContainer struct {
	Auth         *AuthService
	User         *UserService
	Profile      *ProfileService
	Project      *ProjectService
	Proposal     *ProposalService
	Chat         *ChatService
	Notification *NotificationService
	Document     *DocumentService
	Review       *ReviewService
}

func NewServiceContainer(store storage.Storage, emailProvider email.Provider, wsManager *ws.Manager) *ServiceContainer {
	userRepo := repositories.NewUserRepository()
	profileRepo := repositories.NewProfileRepository()
	projectRepo := repositories.NewProjectRepository()
	proposalRepo := repositories.NewProposalRepository()
	reviewRepo := repositories.NewReviewRepository()
	notificationRepo := repositories.NewNotificationRepository()
	documentRepo := repositories.NewDocumentRepository()
	conversationRepo := chatrepo.NewConversationRepository()
	messageRepo := chatrepo.NewMessageRepository()

	notificationService := NewNotificationService(notificationRepo, wsManager)

	return &ServiceContainer{
		Auth:         NewAuthService(userRepo, emailProvider),
		User:         NewUserService(userRepo),
		Profile:      NewProfileService(profileRepo, userRepo),
		Project:      NewProjectService(projectRepo, reviewRepo, userRepo, notificationService),
		Proposal:     NewProposalService(proposalRepo, projectRepo, userRepo, notificationService),
		Chat:         NewChatService(conversationRepo, messageRepo, userRepo, projectRepo, notificationService, wsManager),
		Notification: notificationService,
		Document:     NewDocumentService(documentRepo, projectRepo, userRepo, store, notificationService),
		Review:       NewReviewService(reviewRepo),
	}
}
