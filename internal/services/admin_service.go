// internal/services/admin_service.go
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/budayachain/budaya-backend/internal/models"
	"github.com/budayachain/budaya-backend/internal/repository"
	"github.com/budayachain/budaya-backend/internal/utils"
)

type AdminService struct {
	store *repository.Store
}

type AdminDashboardStats struct {
	models.PlatformStats
	PendingArtisans  int64   `json:"pending_artisans"`
	ActiveProposals  int64   `json:"active_proposals"`
	AverageSale      float64 `json:"average_sale"`
	AverageRoyalty   float64 `json:"average_royalty"`
	VerificationRate float64 `json:"verification_rate"`
}

type VerifyArtisanRequest struct {
	Verified *bool `json:"verified" validate:"required"`
}

func NewAdminService(store *repository.Store) *AdminService {
	return &AdminService{store: store}
}

// Dashboard Statistics
func (s *AdminService) GetDashboardStats(ctx context.Context) (*AdminDashboardStats, error) {
	platform, err := s.store.Analytics.PlatformStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get platform stats: %w", err)
	}
	summary, err := s.store.Analytics.TransactionSummary(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction summary: %w", err)
	}

	stats := &AdminDashboardStats{
		PlatformStats:   platform,
		PendingArtisans: platform.TotalArtisans - platform.VerifiedArtisans,
		AverageSale:     summary.AverageSale,
		AverageRoyalty:  summary.AverageRoyalty,
	}
	if platform.TotalArtisans > 0 {
		stats.VerificationRate = float64(platform.VerifiedArtisans) / float64(platform.TotalArtisans) * 100
	}

	_, active, err := s.store.Proposals.List(ctx, repository.ProposalFilter{
		Status:     models.ProposalStatusActive,
		Pagination: utils.PaginationParams{Page: 1, Limit: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count proposals: %w", err)
	}
	stats.ActiveProposals = active

	return stats, nil
}

// PendingArtisans lists artisans still waiting for verification.
func (s *AdminService) PendingArtisans(ctx context.Context, params utils.PaginationParams) ([]models.Artisan, int64, error) {
	verified := false
	artisans, total, err := s.store.Artisans.List(ctx, repository.ArtisanFilter{
		Verified:   &verified,
		Pagination: params,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list pending artisans: %w", err)
	}
	return artisans, total, nil
}

// VerifyArtisan grants or revokes an artisan's verified badge.
func (s *AdminService) VerifyArtisan(ctx context.Context, id uuid.UUID, adminWallet string, verified bool) (*models.Artisan, error) {
	artisan, err := s.store.Artisans.SetVerified(ctx, id, verified, adminWallet)
	if err != nil {
		return nil, fmt.Errorf("failed to update artisan verification: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"artisan_id": id,
		"verified":   verified,
		"admin":      adminWallet,
	}).Info("Artisan verification updated")

	return artisan, nil
}
