// internal/repository/gorm_proposal.go
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/budayachain/budaya-backend/internal/models"
	"github.com/budayachain/budaya-backend/internal/utils"
)

var proposalSortFields = []string{"created_at", "ends_at", "votes_for", "votes_against"}

type gormProposalRepository struct {
	db *gorm.DB
}

func (r *gormProposalRepository) Create(ctx context.Context, proposal *models.DAOProposal) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(proposal).Error)
}

func (r *gormProposalRepository) GetByID(ctx context.Context, id uuid.UUID, withVotes bool) (*models.DAOProposal, error) {
	query := r.db.WithContext(ctx)
	if withVotes {
		query = query.Preload("Votes", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		})
	}

	var proposal models.DAOProposal
	if err := query.First(&proposal, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &proposal, nil
}

func (r *gormProposalRepository) List(ctx context.Context, filter ProposalFilter) ([]models.DAOProposal, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.DAOProposal{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ProposalType != "" {
		query = query.Where("proposal_type = ?", filter.ProposalType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = utils.ApplySort(query, filter.Pagination, proposalSortFields)
	query = utils.ApplyPagination(query, filter.Pagination)

	var proposals []models.DAOProposal
	if err := query.Find(&proposals).Error; err != nil {
		return nil, 0, err
	}
	return proposals, total, nil
}

func (r *gormProposalRepository) CastVote(ctx context.Context, vote *models.DAOVote, now time.Time) (*models.DAOProposal, error) {
	var proposal models.DAOProposal

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockProposal(tx, vote.ProposalID, &proposal); err != nil {
			return err
		}
		if !proposal.IsOpen(now) {
			return ErrInvalidState
		}

		if err := tx.Create(vote).Error; err != nil {
			return err
		}

		column := "votes_for"
		if vote.Vote == models.VoteAgainst {
			column = "votes_against"
		}
		if err := tx.Model(&models.DAOProposal{}).
			Where("id = ?", proposal.ID).
			Update(column, gorm.Expr(column+" + ?", vote.Weight)).Error; err != nil {
			return err
		}

		return tx.First(&proposal, "id = ?", proposal.ID).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &proposal, nil
}

func (r *gormProposalRepository) HasVoted(ctx context.Context, proposalID uuid.UUID, wallet string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DAOVote{}).
		Where("proposal_id = ? AND voter_wallet = ?", proposalID, wallet).
		Count(&count).Error
	return count > 0, err
}

func (r *gormProposalRepository) Finalize(ctx context.Context, id uuid.UUID, now time.Time) (*models.DAOProposal, error) {
	var proposal models.DAOProposal

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockProposal(tx, id, &proposal); err != nil {
			return err
		}
		if proposal.Status != models.ProposalStatusActive || now.Before(proposal.EndsAt) {
			return ErrInvalidState
		}

		proposal.Status = proposal.Outcome()
		proposal.FinalizedAt = &now
		return tx.Model(&proposal).Updates(map[string]interface{}{
			"status":       proposal.Status,
			"finalized_at": now,
		}).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &proposal, nil
}

func (r *gormProposalRepository) SetStatus(ctx context.Context, id uuid.UUID, from, to models.ProposalStatus) (*models.DAOProposal, error) {
	var proposal models.DAOProposal

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockProposal(tx, id, &proposal); err != nil {
			return err
		}
		if proposal.Status != from {
			return ErrInvalidState
		}

		proposal.Status = to
		return tx.Model(&proposal).Update("status", to).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &proposal, nil
}

func (r *gormProposalRepository) ListExpired(ctx context.Context, now time.Time) ([]models.DAOProposal, error) {
	var proposals []models.DAOProposal
	err := r.db.WithContext(ctx).
		Where("status = ? AND ends_at <= ?", models.ProposalStatusActive, now).
		Order("ends_at ASC").
		Find(&proposals).Error
	return proposals, err
}

func lockProposal(tx *gorm.DB, id uuid.UUID, proposal *models.DAOProposal) error {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(proposal, "id = ?", id).Error
}
