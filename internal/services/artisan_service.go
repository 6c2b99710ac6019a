// internal/services/artisan_service.go
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/budayachain/budaya-backend/internal/models"
	"github.com/budayachain/budaya-backend/internal/repository"
)

const topRoyaltyProducts = 5

type ArtisanService struct {
	store *repository.Store
}

type RegisterArtisanRequest struct {
	WalletAddress   string   `json:"wallet_address" validate:"required,solana_address"`
	Name            string   `json:"name" validate:"required,min=2,max=100"`
	Category        string   `json:"category" validate:"required,min=2,max=50"`
	Region          string   `json:"region" validate:"required,min=2,max=100"`
	Bio             string   `json:"bio,omitempty" validate:"omitempty,max=2000"`
	PortfolioImages []string `json:"portfolio_images,omitempty" validate:"omitempty,max=20,dive,url"`
}

type UpdateArtisanRequest struct {
	Name            *string  `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Bio             *string  `json:"bio,omitempty" validate:"omitempty,max=2000"`
	PortfolioImages []string `json:"portfolio_images,omitempty" validate:"omitempty,max=20,dive,url"`
	Category        *string  `json:"category,omitempty" validate:"omitempty,min=2,max=50"`
	Region          *string  `json:"region,omitempty" validate:"omitempty,min=2,max=100"`
}

func NewArtisanService(store *repository.Store) *ArtisanService {
	return &ArtisanService{store: store}
}

// RegisterArtisan creates an unverified artisan for the signed-in wallet.
// Admins may register on behalf of another wallet.
func (s *ArtisanService) RegisterArtisan(ctx context.Context, session Session, req *RegisterArtisanRequest) (*models.Artisan, error) {
	if !session.Owns(req.WalletAddress) {
		return nil, ErrForbidden
	}

	artisan := &models.Artisan{
		WalletAddress:   req.WalletAddress,
		Name:            req.Name,
		Category:        req.Category,
		Region:          req.Region,
		Bio:             req.Bio,
		PortfolioImages: req.PortfolioImages,
		Verified:        false,
	}

	if err := s.store.Artisans.Create(ctx, artisan); err != nil {
		return nil, fmt.Errorf("failed to create artisan: %w", err)
	}
	return artisan, nil
}

func (s *ArtisanService) GetArtisan(ctx context.Context, id uuid.UUID) (*models.Artisan, error) {
	artisan, err := s.store.Artisans.GetByID(ctx, id, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get artisan: %w", err)
	}
	return artisan, nil
}

func (s *ArtisanService) GetArtisanByWallet(ctx context.Context, wallet string) (*models.Artisan, error) {
	artisan, err := s.store.Artisans.GetByWallet(ctx, wallet)
	if err != nil {
		return nil, fmt.Errorf("failed to get artisan: %w", err)
	}
	return artisan, nil
}

func (s *ArtisanService) ListArtisans(ctx context.Context, filter repository.ArtisanFilter) ([]models.Artisan, int64, error) {
	artisans, total, err := s.store.Artisans.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list artisans: %w", err)
	}
	return artisans, total, nil
}

// UpdateArtisan lets the artisan, or an admin, edit the profile. The
// verified flag is not editable here.
func (s *ArtisanService) UpdateArtisan(ctx context.Context, id uuid.UUID, session Session, req *UpdateArtisanRequest) (*models.Artisan, error) {
	existing, err := s.store.Artisans.GetByID(ctx, id, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get artisan: %w", err)
	}
	if !session.Owns(existing.WalletAddress) {
		return nil, ErrForbidden
	}

	artisan, err := s.store.Artisans.Update(ctx, id, repository.ArtisanUpdate{
		Name:            req.Name,
		Bio:             req.Bio,
		PortfolioImages: req.PortfolioImages,
		Category:        req.Category,
		Region:          req.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update artisan: %w", err)
	}
	return artisan, nil
}

func (s *ArtisanService) RoyaltySummary(ctx context.Context, id uuid.UUID) (*models.RoyaltySummary, error) {
	if _, err := s.store.Artisans.GetByID(ctx, id, false); err != nil {
		return nil, fmt.Errorf("failed to get artisan: %w", err)
	}

	summary, err := s.store.Analytics.RoyaltySummary(ctx, id, topRoyaltyProducts)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize royalties: %w", err)
	}
	return &summary, nil
}
