package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/budayachain/budaya-backend/internal/models"
	"github.com/budayachain/budaya-backend/internal/repository"
)

type artisanRepository struct{ s *state }

func artisanCreated(a models.Artisan) (time.Time, uuid.UUID) { return a.CreatedAt, a.ID }

func (r *artisanRepository) Create(_ context.Context, artisan *models.Artisan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.artisans {
		if existing.WalletAddress == artisan.WalletAddress {
			return repository.ErrAlreadyExists
		}
	}

	r.s.stamp(&artisan.BaseModel)
	stored := *artisan
	stored.Products = nil
	r.s.artisans[artisan.ID] = &stored
	return nil
}

func (r *artisanRepository) GetByID(_ context.Context, id uuid.UUID, withProducts bool) (*models.Artisan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.artisans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *a
	if withProducts {
		out.Products = []models.Product{}
		for _, p := range r.s.products {
			if p.ArtisanID == id {
				out.Products = append(out.Products, *p)
			}
		}
		newestFirst(r.s, out.Products, productCreated, "desc")
	}
	return &out, nil
}

func (r *artisanRepository) GetByWallet(_ context.Context, wallet string) (*models.Artisan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, a := range r.s.artisans {
		if a.WalletAddress == wallet {
			out := *a
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *artisanRepository) List(_ context.Context, filter repository.ArtisanFilter) ([]models.Artisan, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := []models.Artisan{}
	for _, a := range r.s.artisans {
		if filter.Verified != nil && a.Verified != *filter.Verified {
			continue
		}
		if filter.Region != "" && a.Region != filter.Region {
			continue
		}
		if filter.Category != "" && a.Category != filter.Category {
			continue
		}
		matched = append(matched, *a)
	}

	newestFirst(r.s, matched, artisanCreated, filter.Pagination.Order)
	return paginate(matched, filter.Pagination), int64(len(matched)), nil
}

func (r *artisanRepository) Update(_ context.Context, id uuid.UUID, update repository.ArtisanUpdate) (*models.Artisan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.artisans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if update.Name != nil {
		a.Name = *update.Name
	}
	if update.Bio != nil {
		a.Bio = *update.Bio
	}
	if update.PortfolioImages != nil {
		a.PortfolioImages = pq.StringArray(update.PortfolioImages)
	}
	if update.Category != nil {
		a.Category = *update.Category
	}
	if update.Region != nil {
		a.Region = *update.Region
	}
	a.UpdatedAt = r.s.now().UTC()

	out := *a
	return &out, nil
}

func (r *artisanRepository) SetVerified(_ context.Context, id uuid.UUID, verified bool, by string) (*models.Artisan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.artisans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	now := r.s.now().UTC()
	a.Verified = verified
	a.VerifiedBy = by
	a.VerifiedAt = nil
	if verified {
		a.VerifiedAt = &now
	}
	a.UpdatedAt = now

	out := *a
	return &out, nil
}
