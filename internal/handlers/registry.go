package handlers

import (
	"studlance_backend/internal/services"
	"studlance_backend/internal/storage"
	"studlance_backend/internal/validator"
	"studlance_backend/ws"
)

// AppHandlers groups every HTTP handler for route registration.
type AppHandlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Profile      *ProfileHandler
	Project      *ProjectHandler
	Proposal     *ProposalHandler
	Chat         *ChatHandler
	Notification *NotificationHandler
	Document     *DocumentHandler
	File         *FileHandler
	WS           *WSHandler
}

func NewAppHandlers(sc *services.ServiceContainer, v *validator.Validator, store storage.Storage, wsManager *ws.Manager) *AppHandlers {
	base := NewBaseHandler(v)

	return &AppHandlers{
		Auth:         NewAuthHandler(base, sc.Auth),
		User:         NewUserHandler(base, sc.User),
		Profile:      NewProfileHandler(base, sc.Profile),
		Project:      NewProjectHandler(base, sc.Project, sc.Review),
		Proposal:     NewProposalHandler(base, sc.Proposal),
		Chat:         NewChatHandler(base, sc.Chat, sc.Document),
		Notification: NewNotificationHandler(base, sc.Notification),
		Document:     NewDocumentHandler(base, sc.Document),
		File:         NewFileHandler(base, store),
		WS:           NewWSHandler(base, wsManager),
	}
}
