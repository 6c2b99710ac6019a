// internal/services/dao_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/budayachain/budaya-backend/internal/metrics"
	"github.com/budayachain/budaya-backend/internal/models"
	"github.com/budayachain/budaya-backend/internal/repository"
)

type DAOService struct {
	store   *repository.Store
	metrics *metrics.Metrics
	now     func() time.Time
}

type CreateProposalRequest struct {
	Title        string              `json:"title" validate:"required,min=5,max=200"`
	Description  string              `json:"description" validate:"required,min=20,max=5000"`
	ProposalType models.ProposalType `json:"proposal_type" validate:"required,oneof=funding partnership policy"`
	EndsAt       time.Time           `json:"ends_at" validate:"required,future"`
}

type CastVoteRequest struct {
	ProposalID  uuid.UUID         `json:"proposal_id" validate:"required"`
	VoterWallet string            `json:"voter_wallet,omitempty" validate:"omitempty,solana_address"`
	Vote        models.VoteChoice `json:"vote" validate:"required,oneof=for against"`
	Weight      float64           `json:"weight,omitempty" validate:"omitempty,gt=0,lte=1000000"`
}

func NewDAOService(store *repository.Store, m *metrics.Metrics) *DAOService {
	return &DAOService{
		store:   store,
		metrics: m,
		now:     time.Now,
	}
}

func (s *DAOService) CreateProposal(ctx context.Context, session Session, req *CreateProposalRequest) (*models.DAOProposal, error) {
	proposal := &models.DAOProposal{
		Title:        req.Title,
		Description:  req.Description,
		ProposalType: req.ProposalType,
		CreatedBy:    session.Wallet,
		EndsAt:       req.EndsAt.UTC(),
		Status:       models.ProposalStatusActive,
	}

	if err := s.store.Proposals.Create(ctx, proposal); err != nil {
		return nil, fmt.Errorf("failed to create proposal: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"proposal_id": proposal.ID,
		"type":        proposal.ProposalType,
		"ends_at":     proposal.EndsAt,
	}).Info("Proposal created")

	return proposal, nil
}

func (s *DAOService) GetProposal(ctx context.Context, id uuid.UUID) (*models.DAOProposal, error) {
	proposal, err := s.store.Proposals.GetByID(ctx, id, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get proposal: %w", err)
	}
	return proposal, nil
}

func (s *DAOService) HasVoted(ctx context.Context, id uuid.UUID, wallet string) (bool, error) {
	voted, err := s.store.Proposals.HasVoted(ctx, id, wallet)
	if err != nil {
		return false, fmt.Errorf("failed to check vote: %w", err)
	}
	return voted, nil
}

func (s *DAOService) ListProposals(ctx context.Context, filter repository.ProposalFilter) ([]models.DAOProposal, int64, error) {
	proposals, total, err := s.store.Proposals.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list proposals: %w", err)
	}
	return proposals, total, nil
}

// CastVote records one vote per wallet per proposal. The check and the
// tally update happen atomically in the repository, so concurrent
// duplicates lose with ErrAlreadyVoted.
func (s *DAOService) CastVote(ctx context.Context, session Session, req *CastVoteRequest) (*models.DAOProposal, error) {
	voter := session.Wallet
	if req.VoterWallet != "" && req.VoterWallet != voter {
		return nil, ErrForbidden
	}

	weight := req.Weight
	if weight == 0 {
		weight = 1
	}

	vote := &models.DAOVote{
		ProposalID:  req.ProposalID,
		VoterWallet: voter,
		Vote:        req.Vote,
		Weight:      weight,
	}

	proposal, err := s.store.Proposals.CastVote(ctx, vote, s.now())
	switch {
	case errors.Is(err, repository.ErrAlreadyExists):
		return nil, ErrAlreadyVoted
	case errors.Is(err, repository.ErrInvalidState):
		return nil, ErrProposalClosed
	case err != nil:
		return nil, fmt.Errorf("failed to cast vote: %w", err)
	}

	s.metrics.RecordVote(string(req.Vote))
	logrus.WithFields(logrus.Fields{
		"proposal_id": proposal.ID,
		"voter":       voter,
		"vote":        req.Vote,
	}).Info("Vote cast")

	return proposal, nil
}

// FinalizeProposal settles an expired active proposal.
func (s *DAOService) FinalizeProposal(ctx context.Context, id uuid.UUID) (*models.DAOProposal, error) {
	proposal, err := s.store.Proposals.Finalize(ctx, id, s.now())
	if errors.Is(err, repository.ErrInvalidState) {
		return nil, ErrProposalClosed
	}
	if err != nil {
		return nil, fmt.Errorf("failed to finalize proposal: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"proposal_id":   proposal.ID,
		"status":        proposal.Status,
		"votes_for":     proposal.VotesFor,
		"votes_against": proposal.VotesAgainst,
	}).Info("Proposal finalized")

	return proposal, nil
}

// ExecuteProposal marks a passed proposal as carried out.
func (s *DAOService) ExecuteProposal(ctx context.Context, id uuid.UUID) (*models.DAOProposal, error) {
	proposal, err := s.store.Proposals.SetStatus(ctx, id, models.ProposalStatusPassed, models.ProposalStatusExecuted)
	if errors.Is(err, repository.ErrInvalidState) {
		return nil, ErrProposalClosed
	}
	if err != nil {
		return nil, fmt.Errorf("failed to execute proposal: %w", err)
	}
	return proposal, nil
}

// FinalizeExpired settles every active proposal past its end time and
// returns how many it finalized.
func (s *DAOService) FinalizeExpired(ctx context.Context) (int, error) {
	expired, err := s.store.Proposals.ListExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to list expired proposals: %w", err)
	}

	finalized := 0
	for _, p := range expired {
		if _, err := s.FinalizeProposal(ctx, p.ID); err != nil {
			// Another replica may have settled it first
			if errors.Is(err, ErrProposalClosed) {
				continue
			}
			return finalized, err
		}
		finalized++
	}
	return finalized, nil
}

// Run finalizes expired proposals every interval until ctx is cancelled.
func (s *DAOService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logrus.WithField("interval", interval).Info("Proposal finalizer started")
	for {
		select {
		case <-ctx.Done():
			logrus.Info("Proposal finalizer stopped")
			return
		case <-ticker.C:
			n, err := s.FinalizeExpired(ctx)
			if err != nil && ctx.Err() == nil {
				logrus.WithError(err).Error("Failed to finalize proposals")
				continue
			}
			if n > 0 {
				logrus.WithField("count", n).Info("Finalized expired proposals")
			}
		}
	}
}
