package memory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/budayachain/budaya-backend/internal/models"
	"github.com/budayachain/budaya-backend/internal/repository"
)

type productRepository struct{ s *state }

func productCreated(p models.Product) (time.Time, uuid.UUID) { return p.CreatedAt, p.ID }

// nftTaken reports whether another product already holds address. The
// caller holds the lock.
func (s *state) nftTaken(address *string, except uuid.UUID) bool {
	if address == nil || *address == "" {
		return false
	}
	for _, p := range s.products {
		if p.ID != except && p.NFTAddress != nil && *p.NFTAddress == *address {
			return true
		}
	}
	return false
}

// withArtisan attaches the owning artisan the way a preload would.
func (s *state) withArtisan(p *models.Product) models.Product {
	out := *p
	if a, ok := s.artisans[p.ArtisanID]; ok {
		artisan := *a
		out.Artisan = &artisan
	}
	return out
}

func (r *productRepository) Create(_ context.Context, product *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.artisans[product.ArtisanID]; !ok {
		return repository.ErrNotFound
	}
	if r.s.nftTaken(product.NFTAddress, uuid.Nil) {
		return repository.ErrAlreadyExists
	}

	r.s.stamp(&product.BaseModel)
	stored := *product
	stored.Artisan = nil
	stored.Transactions = nil
	r.s.products[product.ID] = &stored
	return nil
}

func (r *productRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := r.s.withArtisan(p)
	return &out, nil
}

func (r *productRepository) GetByNFTAddress(_ context.Context, address string) (*models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.products {
		if p.NFTAddress != nil && *p.NFTAddress == address {
			out := r.s.withArtisan(p)
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *productRepository) List(_ context.Context, filter repository.ProductFilter) ([]models.Product, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	matched := []models.Product{}
	for _, p := range r.s.products {
		if filter.ArtisanID != nil && p.ArtisanID != *filter.ArtisanID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Region != "" && p.Region != filter.Region {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Title), search) {
			continue
		}
		matched = append(matched, r.s.withArtisan(p))
	}

	newestFirst(r.s, matched, productCreated, filter.Pagination.Order)
	return paginate(matched, filter.Pagination), int64(len(matched)), nil
}

func (r *productRepository) Save(_ context.Context, product *models.Product, from models.ProductStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.products[product.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if stored.Status != from {
		return repository.ErrInvalidState
	}
	if r.s.nftTaken(product.NFTAddress, product.ID) {
		return repository.ErrAlreadyExists
	}

	product.UpdatedAt = r.s.now().UTC()
	updated := *product
	updated.Artisan = nil
	updated.Transactions = nil
	r.s.products[product.ID] = &updated
	return nil
}
