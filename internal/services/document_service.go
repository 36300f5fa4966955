package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"studlance_backend/internal/config"
	"studlance_backend/internal/logger"
	"studlance_backend/internal/models"
	"studlance_backend/internal/repositories"
	"studlance_backend/internal/storage"
	"studlance_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type DocumentService struct {
	documentRepo  *repositories.DocumentRepository
	projectRepo   *repositories.ProjectRepository
	userRepo      *repositories.UserRepository
	storage       storage.Storage
	notifications *NotificationService
}

func NewDocumentService(
	documentRepo *repositories.DocumentRepository,
	projectRepo *repositories.ProjectRepository,
	userRepo *repositories.UserRepository,
	store storage.Storage,
	notifications *NotificationService,
) *DocumentService {
	return &DocumentService{
		documentRepo:  documentRepo,
		projectRepo:   projectRepo,
		userRepo:      userRepo,
		storage:       store,
		notifications: notifications,
	}
}

// UploadInput is a validated incoming file.
type UploadInput struct {
	FileName    string
	Size        int64
	ContentType string
	Reader      io.Reader
}

// ValidateUpload enforces the size cap and the extension allow-list. It
// runs before anything touches storage.
func ValidateUpload(fileName string, size int64) error {
	cfg := config.GetConfig()

	if size <= 0 {
		return apperrors.NewBadRequestError("File is empty")
	}
	if size > cfg.Upload.MaxSize {
		return apperrors.ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	for _, allowed := range cfg.Upload.AllowedExtensions {
		if ext == allowed {
			return nil
		}
	}
	return apperrors.ErrInvalidFileType
}

// UploadProjectDocument stores a file for a project and records its
// metadata. Kind decides the storage prefix and who gets notified.
func (s *DocumentService) UploadProjectDocument(ctx context.Context, db *gorm.DB, projectID, uploaderID string, kind models.DocumentKind, in *UploadInput) (*models.Document, error) {
	if err := ValidateUpload(in.FileName, in.Size); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.GetByID(db, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	uploader, err := s.userRepo.GetByIDWithProfiles(db, uploaderID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	isClient := project.ClientID == uploaderID
	isFreelancer := project.FreelancerID != nil && *project.FreelancerID == uploaderID
	if !isClient && !isFreelancer {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if kind == models.DocumentKindHandover && !isFreelancer {
		return nil, apperrors.ErrInvalidOperation("document", "Only the hired freelancer can upload handover documents")
	}

	prefix := "project_documents"
	if kind == models.DocumentKindHandover {
		prefix = "handover_documents"
	}
	storagePath := fmt.Sprintf("%s/%s/%d_%s", prefix, projectID, time.Now().Unix(), sanitizeFileName(in.FileName))

	if err := s.storage.Save(ctx, storagePath, in.Reader, in.Size, in.ContentType); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeExternalServiceError, "storage", "Failed to store file", 502)
	}

	url, err := s.storage.GetURL(ctx, storagePath)
	if err != nil {
		url = storagePath
	}

	uploaderName, _ := DisplayNameFor(uploader)
	doc := &models.Document{
		ProjectID:    projectID,
		Kind:         kind,
		FileName:     in.FileName,
		FileSize:     in.Size,
		ContentType:  in.ContentType,
		URL:          url,
		StoragePath:  storagePath,
		UploaderID:   uploaderID,
		UploaderName: uploaderName,
		UploaderRole: uploader.Role,
	}
	if err := s.documentRepo.Create(db, doc); err != nil {
		// the object is orphaned; remove it so storage does not leak
		if derr := s.storage.Delete(ctx, storagePath); derr != nil {
			logger.GetLogger().Warn("orphaned object cleanup failed",
				slog.String("path", storagePath),
				slog.String("error", derr.Error()))
		}
		return nil, apperrors.InternalError(err)
	}

	s.notifyUpload(db, project, doc, isClient)

	return doc, nil
}

// notifyUpload fans out to the counterparty. Best-effort.
func (s *DocumentService) notifyUpload(db *gorm.DB, project *models.Project, doc *models.Document, uploadedByClient bool) {
	log := logger.GetLogger()

	if doc.Kind == models.DocumentKindHandover {
		if err := s.notifications.NotifyProjectHandover(db, project.ClientID, project, doc); err != nil {
			log.Warn("handover notification failed",
				slog.String("document_id", doc.ID),
				slog.String("error", err.Error()))
		}
		return
	}

	if uploadedByClient {
		if project.FreelancerID == nil {
			return
		}
		err := s.notifications.NotifyDocumentUpload(db, *project.FreelancerID, models.RecipientTypeFreelancer, project, doc)
		if err != nil {
			log.Warn("document notification failed",
				slog.String("document_id", doc.ID),
				slog.String("error", err.Error()))
		}
		return
	}

	if err := s.notifications.NotifyDocumentUpload(db, project.ClientID, models.RecipientTypeClient, project, doc); err != nil {
		log.Warn("document notification failed",
			slog.String("document_id", doc.ID),
			slog.String("error", err.Error()))
	}
}

func (s *DocumentService) List(db *gorm.DB, projectID, viewerID string, kind models.DocumentKind) ([]models.Document, error) {
	project, err := s.projectRepo.GetByID(db, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	isMember := project.ClientID == viewerID ||
		(project.FreelancerID != nil && *project.FreelancerID == viewerID)
	if !isMember {
		return nil, apperrors.ErrInsufficientPermissions
	}

	docs, err := s.documentRepo.ListByProject(db, projectID, kind)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return docs, nil
}

// Delete removes the metadata row, then the stored object. The object
// delete is best-effort: a dangling object is preferable to a metadata row
// pointing at nothing.
func (s *DocumentService) Delete(ctx context.Context, db *gorm.DB, documentID, userID string) error {
	doc, err := s.documentRepo.GetByID(db, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	if doc.UploaderID != userID {
		return apperrors.ErrInsufficientPermissions
	}

	if err := s.documentRepo.Delete(db, documentID); err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.storage.Delete(ctx, doc.StoragePath); err != nil {
		logger.GetLogger().Warn("stored object delete failed",
			slog.String("document_id", documentID),
			slog.String("path", doc.StoragePath),
			slog.String("error", err.Error()))
	}

	return nil
}

// UploadMessageAttachment stores a chat attachment and returns its public
// URL and storage path. Callers must check conversation membership first
// and discard the object if the follow-up message is rejected.
func (s *DocumentService) UploadMessageAttachment(ctx context.Context, conversationID string, in *UploadInput) (url, storagePath string, err error) {
	if err := ValidateUpload(in.FileName, in.Size); err != nil {
		return "", "", err
	}

	storagePath = fmt.Sprintf("message_attachments/%s/%d_%s", conversationID, time.Now().Unix(), sanitizeFileName(in.FileName))
	if err := s.storage.Save(ctx, storagePath, in.Reader, in.Size, in.ContentType); err != nil {
		return "", "", apperrors.Wrap(err, apperrors.CodeExternalServiceError, "storage", "Failed to store file", 502)
	}

	url, err = s.storage.GetURL(ctx, storagePath)
	if err != nil {
		url = storagePath
	}
	return url, storagePath, nil
}

// UploadVoiceMessage stores a voice note; callers then send a voice-type
// message referencing the URL. Same contract as UploadMessageAttachment.
func (s *DocumentService) UploadVoiceMessage(ctx context.Context, conversationID string, size int64, contentType string, reader io.Reader) (url, storagePath string, err error) {
	cfg := config.GetConfig()
	if size <= 0 {
		return "", "", apperrors.NewBadRequestError("File is empty")
	}
	if size > cfg.Upload.MaxSize {
		return "", "", apperrors.ErrFileTooLarge
	}

	storagePath = fmt.Sprintf("voice_messages/%s/voice_%d.webm", conversationID, time.Now().Unix())
	if err := s.storage.Save(ctx, storagePath, reader, size, contentType); err != nil {
		return "", "", apperrors.Wrap(err, apperrors.CodeExternalServiceError, "storage", "Failed to store file", 502)
	}

	url, err = s.storage.GetURL(ctx, storagePath)
	if err != nil {
		url = storagePath
	}
	return url, storagePath, nil
}

// DiscardStoredObject removes an object whose follow-up write was
// rejected. Best-effort.
func (s *DocumentService) DiscardStoredObject(ctx context.Context, storagePath string) {
	if err := s.storage.Delete(ctx, storagePath); err != nil {
		logger.GetLogger().Warn("orphaned object cleanup failed",
			slog.String("path", storagePath),
			slog.String("error", err.Error()))
	}
}

// sanitizeFileName strips path separators so a crafted name cannot escape
// the object prefix.
func sanitizeFileName(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, " ", "_")
	return name
}
