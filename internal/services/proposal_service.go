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

type ProposalService struct {
	proposalRepo  *repositories.ProposalRepository
	projectRepo   *repositories.ProjectRepository
	userRepo      *repositories.UserRepository
	notifications *NotificationService
}

func NewProposalService(
	proposalRepo *repositories.ProposalRepository,
	projectRepo *repositories.ProjectRepository,
	userRepo *repositories.UserRepository,
	notifications *NotificationService,
) *ProposalService {
	return &ProposalService{
		proposalRepo:  proposalRepo,
		projectRepo:   projectRepo,
		userRepo:      userRepo,
		notifications: notifications,
	}
}

// Submit places a freelancer's bid on an open project. One bid per
// freelancer per project; the unique index backs this up under races.
func (s *ProposalService) Submit(db *gorm.DB, freelancerID string, req *dto.SubmitProposalRequest) (*models.Proposal, error) {
	project, err := s.projectRepo.GetByID(db, req.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if project.Status != models.ProjectStatusOpen {
		return nil, apperrors.ErrInvalidStatus("proposal", "Project is not accepting proposals")
	}
	if project.ClientID == freelancerID {
		return nil, apperrors.ErrInvalidOperation("proposal", "Cannot bid on your own project")
	}

	exists, err := s.proposalRepo.ExistsForProjectAndFreelancer(db, req.ProjectID, freelancerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if exists {
		return nil, apperrors.ErrConflict(nil, "proposal", "You already submitted a proposal for this project")
	}

	proposal := &models.Proposal{
		ProjectID:    req.ProjectID,
		FreelancerID: freelancerID,
		CoverLetter:  req.CoverLetter,
		BidAmount:    req.BidAmount,
		DeliveryDays: req.DeliveryDays,
		Status:       models.ProposalStatusPending,
	}
	if err := s.proposalRepo.Create(db, proposal); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrConflict(err, "proposal", "You already submitted a proposal for this project")
		}
		return nil, apperrors.InternalError(err)
	}

	freelancerName := s.freelancerName(db, freelancerID)
	if err := s.notifications.NotifyProposal(db, project.ClientID, project, freelancerName, proposal.ID); err != nil {
		logger.GetLogger().Warn("proposal notification failed",
			slog.String("proposal_id", proposal.ID),
			slog.String("error", err.Error()))
	}

	return proposal, nil
}

// ListByProject returns the project's proposals; owner only.
func (s *ProposalService) ListByProject(db *gorm.DB, projectID, clientID string) ([]models.Proposal, error) {
	project, err := s.projectRepo.GetByID(db, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if project.ClientID != clientID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	proposals, err := s.proposalRepo.ListByProject(db, projectID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return proposals, nil
}

func (s *ProposalService) ListMine(db *gorm.DB, freelancerID string, query *dto.PageQuery) (*dto.ProposalListResponse, error) {
	query.Normalize()

	proposals, total, err := s.proposalRepo.ListByFreelancer(db, freelancerID, query.Limit(), query.Offset())
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.ProposalListResponse{
		Proposals: proposals,
		Pagination: dto.Pagination{
			Page:    query.Page,
			PerPage: query.PerPage,
			Total:   total,
		},
	}, nil
}

// Accept hires the freelancer: the proposal is accepted, every sibling is
// rejected and the project moves to in_progress, all in one transaction.
func (s *ProposalService) Accept(db *gorm.DB, proposalID, clientID string) (*models.Proposal, error) {
	proposal, project, err := s.proposalForClient(db, proposalID, clientID)
	if err != nil {
		return nil, err
	}

	if proposal.Status != models.ProposalStatusPending {
		return nil, apperrors.ErrInvalidStatus("proposal", "Proposal is no longer pending")
	}
	if project.Status != models.ProjectStatusOpen {
		return nil, apperrors.ErrInvalidStatus("proposal", "Project is no longer open")
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.proposalRepo.UpdateStatus(tx, proposal.ID, models.ProposalStatusAccepted); err != nil {
			return err
		}
		if err := s.proposalRepo.RejectSiblings(tx, project.ID, proposal.ID); err != nil {
			return err
		}
		return s.projectRepo.Hire(tx, project.ID, proposal.FreelancerID)
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	proposal.Status = models.ProposalStatusAccepted

	if err := s.notifications.NotifyProjectHired(db, proposal.FreelancerID, project); err != nil {
		logger.GetLogger().Warn("hired notification failed",
			slog.String("proposal_id", proposal.ID),
			slog.String("error", err.Error()))
	}

	return proposal, nil
}

func (s *ProposalService) Reject(db *gorm.DB, proposalID, clientID string) (*models.Proposal, error) {
	proposal, _, err := s.proposalForClient(db, proposalID, clientID)
	if err != nil {
		return nil, err
	}
	if proposal.Status != models.ProposalStatusPending {
		return nil, apperrors.ErrInvalidStatus("proposal", "Proposal is no longer pending")
	}

	if err := s.proposalRepo.UpdateStatus(db, proposal.ID, models.ProposalStatusRejected); err != nil {
		return nil, apperrors.InternalError(err)
	}
	proposal.Status = models.ProposalStatusRejected
	return proposal, nil
}

// Withdraw lets the freelancer pull a still-pending proposal.
func (s *ProposalService) Withdraw(db *gorm.DB, proposalID, freelancerID string) (*models.Proposal, error) {
	proposal, err := s.proposalRepo.GetByID(db, proposalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if proposal.FreelancerID != freelancerID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if proposal.Status != models.ProposalStatusPending {
		return nil, apperrors.ErrInvalidStatus("proposal", "Only pending proposals can be withdrawn")
	}

	if err := s.proposalRepo.UpdateStatus(db, proposal.ID, models.ProposalStatusWithdrawn); err != nil {
		return nil, apperrors.InternalError(err)
	}
	proposal.Status = models.ProposalStatusWithdrawn
	return proposal, nil
}

func (s *ProposalService) proposalForClient(db *gorm.DB, proposalID, clientID string) (*models.Proposal, *models.Project, error) {
	proposal, err := s.proposalRepo.GetByID(db, proposalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrNotFound(err)
		}
		return nil, nil, apperrors.InternalError(err)
	}

	project, err := s.projectRepo.GetByID(db, proposal.ProjectID)
	if err != nil {
		return nil, nil, apperrors.InternalError(err)
	}
	if project.ClientID != clientID {
		return nil, nil, apperrors.ErrInsufficientPermissions
	}

	return proposal, project, nil
}

func (s *ProposalService) freelancerName(db *gorm.DB, freelancerID string) string {
	user, err := s.userRepo.GetByIDWithProfiles(db, freelancerID)
	if err != nil {
		return "A freelancer"
	}
	name, _ := DisplayNameFor(user)
	return name
}
