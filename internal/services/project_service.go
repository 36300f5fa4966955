package services

import (
	"errors"
	"log/slog"

	"studlance_backend/internal/logger"
	"studlance_backend/internal/models"
	"studlance_backend/internal/repositories"
	"studlance_backend/internal/services/dto"
	"studlance_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ProjectService struct {
	projectRepo   *repositories.ProjectRepository
	reviewRepo    *repositories.ReviewRepository
	userRepo      *repositories.UserRepository
	notifications *NotificationService
}

func NewProjectService(
	projectRepo *repositories.ProjectRepository,
	reviewRepo *repositories.ReviewRepository,
	userRepo *repositories.UserRepository,
	notifications *NotificationService,
) *ProjectService {
	return &ProjectService{
		projectRepo:   projectRepo,
		reviewRepo:    reviewRepo,
		userRepo:      userRepo,
		notifications: notifications,
	}
}

func (s *ProjectService) Create(db *gorm.DB, clientID string, req *dto.CreateProjectRequest) (*models.Project, error) {
	project := &models.Project{
		ClientID:    clientID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Budget:      req.Budget,
		Deadline:    req.Deadline,
		Status:      models.ProjectStatusOpen,
	}
	if err := s.projectRepo.Create(db, project); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return project, nil
}

// Get returns the project. Proposals are only included for the owner.
func (s *ProjectService) Get(db *gorm.DB, projectID, viewerID string) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(db, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if project.ClientID == viewerID {
		return s.getWithProposals(db, projectID)
	}
	return project, nil
}

func (s *ProjectService) getWithProposals(db *gorm.DB, projectID string) (*models.Project, error) {
	project, err := s.projectRepo.GetByIDWithProposals(db, projectID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return project, nil
}

func (s *ProjectService) List(db *gorm.DB, query *dto.ProjectListQuery) (*dto.ProjectListResponse, error) {
	query.Normalize()

	filter := repositories.ProjectFilter{
		Status:    models.ProjectStatus(query.Status),
		Category:  query.Category,
		Search:    query.Search,
		MinBudget: query.MinBudget,
		MaxBudget: query.MaxBudget,
	}
	return s.list(db, filter, &query.PageQuery)
}

// ListByClient returns the client's own projects, any status.
func (s *ProjectService) ListByClient(db *gorm.DB, clientID string, query *dto.PageQuery) (*dto.ProjectListResponse, error) {
	query.Normalize()
	return s.list(db, repositories.ProjectFilter{ClientID: clientID}, query)
}

// ListByFreelancer returns projects the freelancer is hired on.
func (s *ProjectService) ListByFreelancer(db *gorm.DB, freelancerID string, query *dto.PageQuery) (*dto.ProjectListResponse, error) {
	query.Normalize()
	return s.list(db, repositories.ProjectFilter{FreelancerID: freelancerID}, query)
}

func (s *ProjectService) list(db *gorm.DB, filter repositories.ProjectFilter, query *dto.PageQuery) (*dto.ProjectListResponse, error) {
	projects, total, err := s.projectRepo.List(db, filter, query.Limit(), query.Offset())
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.ProjectListResponse{
		Projects: projects,
		Pagination: dto.Pagination{
			Page:    query.Page,
			PerPage: query.PerPage,
			Total:   total,
		},
	}, nil
}

// Update edits an open project. Once a freelancer is hired the terms are
// frozen.
func (s *ProjectService) Update(db *gorm.DB, projectID, clientID string, req *dto.UpdateProjectRequest) (*models.Project, error) {
	project, err := s.ownedProject(db, projectID, clientID)
	if err != nil {
		return nil, err
	}
	if project.Status != models.ProjectStatusOpen {
		return nil, apperrors.ErrInvalidStatus("project", "Only open projects can be edited")
	}

	if req.Title != nil {
		project.Title = *req.Title
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Category != nil {
		project.Category = *req.Category
	}
	if req.Budget != nil {
		project.Budget = *req.Budget
	}
	if req.Deadline != nil {
		project.Deadline = req.Deadline
	}

	if err := s.projectRepo.Update(db, project); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return project, nil
}

func (s *ProjectService) Delete(db *gorm.DB, projectID, clientID string) error {
	project, err := s.ownedProject(db, projectID, clientID)
	if err != nil {
		return err
	}
	if project.Status != models.ProjectStatusOpen {
		return apperrors.ErrInvalidStatus("project", "Only open projects can be deleted")
	}
	if err := s.projectRepo.Delete(db, projectID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// Deliver is called by the hired freelancer when the work is handed over.
func (s *ProjectService) Deliver(db *gorm.DB, projectID, freelancerID string) (*models.Project, error) {
	project, err := s.getProject(db, projectID)
	if err != nil {
		return nil, err
	}
	if project.FreelancerID == nil || *project.FreelancerID != freelancerID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if project.Status != models.ProjectStatusInProgress {
		return nil, apperrors.ErrInvalidStatus("project", "Only in-progress projects can be delivered")
	}

	if err := s.projectRepo.SetStatus(db, projectID, models.ProjectStatusDelivered, "delivered_at"); err != nil {
		return nil, apperrors.InternalError(err)
	}
	project.Status = models.ProjectStatusDelivered

	if err := s.notifications.NotifyProjectDelivered(db, project.ClientID, project); err != nil {
		logger.GetLogger().Warn("delivered notification failed",
			slog.String("project_id", project.ID),
			slog.String("error", err.Error()))
	}

	return project, nil
}

// Complete closes a delivered project and records the client's review in
// one transaction.
func (s *ProjectService) Complete(db *gorm.DB, projectID, clientID string, req *dto.CompleteProjectRequest) (*models.Project, error) {
	project, err := s.ownedProject(db, projectID, clientID)
	if err != nil {
		return nil, err
	}
	if project.Status != models.ProjectStatusDelivered {
		return nil, apperrors.ErrInvalidStatus("project", "Only delivered projects can be completed")
	}
	if project.FreelancerID == nil {
		return nil, apperrors.ErrInvalidOperation("project", "Project has no hired freelancer")
	}

	exists, err := s.reviewRepo.ExistsForProject(db, projectID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if exists {
		return nil, apperrors.ErrConflict(nil, "review", "Project already has a review")
	}

	review := &models.Review{
		ProjectID:    projectID,
		ClientID:     clientID,
		FreelancerID: *project.FreelancerID,
		Rating:       req.Rating,
		Comment:      req.Comment,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.projectRepo.SetStatus(tx, projectID, models.ProjectStatusCompleted, "completed_at"); err != nil {
			return err
		}
		return s.reviewRepo.Create(tx, review)
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	project.Status = models.ProjectStatusCompleted

	if err := s.notifications.NotifyProjectCompleted(db, *project.FreelancerID, project, req.Rating); err != nil {
		logger.GetLogger().Warn("completed notification failed",
			slog.String("project_id", project.ID),
			slog.String("error", err.Error()))
	}

	return project, nil
}

// Cancel lets the client close an open project without hiring.
func (s *ProjectService) Cancel(db *gorm.DB, projectID, clientID string) (*models.Project, error) {
	project, err := s.ownedProject(db, projectID, clientID)
	if err != nil {
		return nil, err
	}
	if project.Status != models.ProjectStatusOpen {
		return nil, apperrors.ErrInvalidStatus("project", "Only open projects can be cancelled")
	}
	if err := s.projectRepo.SetStatus(db, projectID, models.ProjectStatusCancelled, ""); err != nil {
		return nil, apperrors.InternalError(err)
	}
	project.Status = models.ProjectStatusCancelled
	return project, nil
}

// TimelineUpdate is a freelancer progress note that fans out to the client.
func (s *ProjectService) TimelineUpdate(db *gorm.DB, projectID, freelancerID string, req *dto.TimelineUpdateRequest) error {
	project, err := s.getProject(db, projectID)
	if err != nil {
		return err
	}
	if project.FreelancerID == nil || *project.FreelancerID != freelancerID {
		return apperrors.ErrInsufficientPermissions
	}
	if project.Status != models.ProjectStatusInProgress && project.Status != models.ProjectStatusDelivered {
		return apperrors.ErrInvalidStatus("project", "Timeline updates require an active project")
	}

	if req.Milestone != "" {
		return s.notifications.NotifyMilestoneCompleted(db, project.ClientID, project, req.Milestone)
	}
	return s.notifications.NotifyTimelineUpdate(db, project.ClientID, project, req.Message)
}

func (s *ProjectService) getProject(db *gorm.DB, projectID string) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(db, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return project, nil
}

func (s *ProjectService) ownedProject(db *gorm.DB, projectID, clientID string) (*models.Project, error) {
	project, err := s.getProject(db, projectID)
	if err != nil {
		return nil, err
	}
	if project.ClientID != clientID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return project, nil
}
