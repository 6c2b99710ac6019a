// internal/models/dao.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type DAOProposal struct {
	BaseModel
	Title        string         `json:"title" gorm:"size:200;not null"`
	Description  string         `json:"description" gorm:"type:text;not null"`
	ProposalType ProposalType   `json:"proposal_type" gorm:"type:varchar(20);not null;index"`
	CreatedBy    string         `json:"created_by" gorm:"size:44;not null;index"`
	EndsAt       time.Time      `json:"ends_at" gorm:"not null;index"`
	Status       ProposalStatus `json:"status" gorm:"type:varchar(20);default:'active';index"`
	VotesFor     float64        `json:"votes_for" gorm:"type:decimal(20,4);not null;default:0"`
	VotesAgainst float64        `json:"votes_against" gorm:"type:decimal(20,4);not null;default:0"`
	FinalizedAt  *time.Time     `json:"finalized_at,omitempty"`

	// Relationships
	Votes []DAOVote `json:"votes,omitempty" gorm:"foreignKey:ProposalID"`
}

// IsOpen reports whether the proposal still accepts votes at now.
func (p *DAOProposal) IsOpen(now time.Time) bool {
	return p.Status == ProposalStatusActive && now.Before(p.EndsAt)
}

// Outcome is the status an expired active proposal settles into.
// Ties reject.
func (p *DAOProposal) Outcome() ProposalStatus {
	if p.VotesFor > p.VotesAgainst {
		return ProposalStatusPassed
	}
	return ProposalStatusRejected
}

type DAOVote struct {
	BaseModel
	ProposalID  uuid.UUID  `json:"proposal_id" gorm:"type:uuid;not null;uniqueIndex:idx_dao_votes_proposal_voter"`
	VoterWallet string     `json:"voter_wallet" gorm:"size:44;not null;uniqueIndex:idx_dao_votes_proposal_voter"`
	Vote        VoteChoice `json:"vote" gorm:"type:varchar(10);not null"`
	Weight      float64    `json:"weight" gorm:"type:decimal(20,4);not null;default:1"`
}
