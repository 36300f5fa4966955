package models

type ProposalStatus string

const (
	ProposalStatusPending   ProposalStatus = "pending"
	ProposalStatusAccepted  ProposalStatus = "accepted"
	ProposalStatusRejected  ProposalStatus = "rejected"
	ProposalStatusWithdrawn ProposalStatus = "withdrawn"
)

// Proposal is a freelancer's bid on an open project. One proposal per
// freelancer per project.
type Proposal struct {
	BaseModel
	ProjectID    string         `gorm:"not null;index:idx_proposal_project_freelancer,unique" json:"project_id"`
	FreelancerID string         `gorm:"not null;index:idx_proposal_project_freelancer,unique" json:"freelancer_id"`
	CoverLetter  string         `gorm:"type:text" json:"cover_letter"`
	BidAmount    float64        `json:"bid_amount"`
	DeliveryDays int            `json:"delivery_days"`
	Status       ProposalStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
}
