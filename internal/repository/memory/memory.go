// Package memory is an in-process implementation of the repository
// contracts. It backs DB_DRIVER=memory and the handler and service tests.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/budayachain/budaya-backend/internal/models"
	"github.com/budayachain/budaya-backend/internal/repository"
	"github.com/budayachain/budaya-backend/internal/utils"
)

type state struct {
	mu  sync.RWMutex
	seq int64
	now func() time.Time

	artisans     map[uuid.UUID]*models.Artisan
	products     map[uuid.UUID]*models.Product
	transactions []*models.Transaction
	proposals    map[uuid.UUID]*models.DAOProposal
	votes        map[uuid.UUID][]*models.DAOVote
	audit        []*models.AuditLog

	order map[uuid.UUID]int64
}

// NewStore returns an empty store.
func NewStore() *repository.Store {
	return NewStoreWithClock(time.Now)
}

// NewStoreWithClock lets tests control created_at stamps.
func NewStoreWithClock(now func() time.Time) *repository.Store {
	s := &state{
		now:       now,
		artisans:  make(map[uuid.UUID]*models.Artisan),
		products:  make(map[uuid.UUID]*models.Product),
		proposals: make(map[uuid.UUID]*models.DAOProposal),
		votes:     make(map[uuid.UUID][]*models.DAOVote),
		order:     make(map[uuid.UUID]int64),
	}
	return &repository.Store{
		Artisans:     &artisanRepository{s},
		Products:     &productRepository{s},
		Transactions: &transactionRepository{s},
		Proposals:    &proposalRepository{s},
		Analytics:    &analyticsRepository{s},
		Audit:        &auditRepository{s},
	}
}

// stamp assigns identity and timestamps the way the database would. The
// caller holds the write lock.
func (s *state) stamp(base *models.BaseModel) {
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	now := s.now().UTC()
	if base.CreatedAt.IsZero() {
		base.CreatedAt = now
	}
	base.UpdatedAt = now
	s.seq++
	s.order[base.ID] = s.seq
}

// newestFirst sorts by created_at honouring the requested order, breaking
// ties by insertion sequence.
func newestFirst[T any](s *state, items []T, created func(T) (time.Time, uuid.UUID), order string) {
	asc := order == "asc"
	sort.SliceStable(items, func(i, j int) bool {
		ti, idi := created(items[i])
		tj, idj := created(items[j])
		if !ti.Equal(tj) {
			if asc {
				return ti.Before(tj)
			}
			return ti.After(tj)
		}
		if asc {
			return s.order[idi] < s.order[idj]
		}
		return s.order[idi] > s.order[idj]
	})
}

func paginate[T any](items []T, params utils.PaginationParams) []T {
	if params.Limit <= 0 {
		return items
	}
	start := params.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + params.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
