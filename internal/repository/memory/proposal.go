package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/budayachain/budaya-backend/internal/models"
	"github.com/budayachain/budaya-backend/internal/repository"
)

type proposalRepository struct{ s *state }

func proposalCreated(p models.DAOProposal) (time.Time, uuid.UUID) { return p.CreatedAt, p.ID }

func (r *proposalRepository) Create(_ context.Context, proposal *models.DAOProposal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.stamp(&proposal.BaseModel)
	stored := *proposal
	stored.Votes = nil
	r.s.proposals[proposal.ID] = &stored
	return nil
}

func (r *proposalRepository) GetByID(_ context.Context, id uuid.UUID, withVotes bool) (*models.DAOProposal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.proposals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *p
	if withVotes {
		out.Votes = make([]models.DAOVote, 0, len(r.s.votes[id]))
		for _, v := range r.s.votes[id] {
			out.Votes = append(out.Votes, *v)
		}
	}
	return &out, nil
}

func (r *proposalRepository) List(_ context.Context, filter repository.ProposalFilter) ([]models.DAOProposal, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := []models.DAOProposal{}
	for _, p := range r.s.proposals {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.ProposalType != "" && p.ProposalType != filter.ProposalType {
			continue
		}
		matched = append(matched, *p)
	}

	newestFirst(r.s, matched, proposalCreated, filter.Pagination.Order)
	return paginate(matched, filter.Pagination), int64(len(matched)), nil
}

// CastVote holds the write lock across the duplicate check, the insert and
// the tally update, which gives the same guarantee as the row lock and
// unique index in Postgres.
func (r *proposalRepository) CastVote(_ context.Context, vote *models.DAOVote, now time.Time) (*models.DAOProposal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.proposals[vote.ProposalID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if !p.IsOpen(now) {
		return nil, repository.ErrInvalidState
	}
	for _, existing := range r.s.votes[vote.ProposalID] {
		if existing.VoterWallet == vote.VoterWallet {
			return nil, repository.ErrAlreadyExists
		}
	}

	r.s.stamp(&vote.BaseModel)
	stored := *vote
	r.s.votes[vote.ProposalID] = append(r.s.votes[vote.ProposalID], &stored)

	if vote.Vote == models.VoteAgainst {
		p.VotesAgainst += vote.Weight
	} else {
		p.VotesFor += vote.Weight
	}
	p.UpdatedAt = r.s.now().UTC()

	out := *p
	return &out, nil
}

func (r *proposalRepository) HasVoted(_ context.Context, proposalID uuid.UUID, wallet string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, v := range r.s.votes[proposalID] {
		if v.VoterWallet == wallet {
			return true, nil
		}
	}
	return false, nil
}

func (r *proposalRepository) Finalize(_ context.Context, id uuid.UUID, now time.Time) (*models.DAOProposal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.proposals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if p.Status != models.ProposalStatusActive || now.Before(p.EndsAt) {
		return nil, repository.ErrInvalidState
	}

	p.Status = p.Outcome()
	p.FinalizedAt = &now
	p.UpdatedAt = r.s.now().UTC()

	out := *p
	return &out, nil
}

func (r *proposalRepository) SetStatus(_ context.Context, id uuid.UUID, from, to models.ProposalStatus) (*models.DAOProposal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.proposals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if p.Status != from {
		return nil, repository.ErrInvalidState
	}
	p.Status = to
	p.UpdatedAt = r.s.now().UTC()

	out := *p
	return &out, nil
}

func (r *proposalRepository) ListExpired(_ context.Context, now time.Time) ([]models.DAOProposal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var expired []models.DAOProposal
	for _, p := range r.s.proposals {
		if p.Status == models.ProposalStatusActive && !now.Before(p.EndsAt) {
			expired = append(expired, *p)
		}
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i].EndsAt.Before(expired[j].EndsAt) })
	return expired, nil
}
