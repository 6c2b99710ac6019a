package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/budayachain/budaya-backend/internal/models"
	"github.com/budayachain/budaya-backend/internal/repository"
)

type transactionRepository struct{ s *state }

func (r *transactionRepository) Record(_ context.Context, sale *models.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	product, ok := r.s.products[sale.ProductID]
	if !ok {
		return repository.ErrNotFound
	}
	if product.Status != models.ProductStatusListed {
		return repository.ErrInvalidState
	}
	for _, existing := range r.s.transactions {
		if existing.TxSignature == sale.TxSignature {
			return repository.ErrAlreadyExists
		}
	}

	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	now := r.s.now().UTC()
	if sale.Timestamp.IsZero() {
		sale.Timestamp = now
	}
	sale.CreatedAt = now

	stored := *sale
	stored.Product = nil
	r.s.transactions = append(r.s.transactions, &stored)

	product.Status = models.ProductStatusSold
	product.UpdatedAt = now
	return nil
}

func (r *transactionRepository) List(_ context.Context, filter repository.TransactionFilter) ([]models.Transaction, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := []models.Transaction{}
	for _, t := range r.s.transactions {
		if filter.ProductID != nil && t.ProductID != *filter.ProductID {
			continue
		}
		if filter.ArtisanID != nil {
			p, ok := r.s.products[t.ProductID]
			if !ok || p.ArtisanID != *filter.ArtisanID {
				continue
			}
		}
		if filter.BuyerWallet != "" && t.BuyerWallet != filter.BuyerWallet {
			continue
		}
		if filter.SellerWallet != "" && t.SellerWallet != filter.SellerWallet {
			continue
		}
		if filter.Since != nil && t.Timestamp.Before(*filter.Since) {
			continue
		}

		out := *t
		if p, ok := r.s.products[t.ProductID]; ok {
			product := *p
			out.Product = &product
		}
		matched = append(matched, out)
	}

	asc := filter.Pagination.Order == "asc"
	sort.SliceStable(matched, func(i, j int) bool {
		if asc {
			return matched[i].Timestamp.Before(matched[j].Timestamp)
		}
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})

	return paginate(matched, filter.Pagination), int64(len(matched)), nil
}
