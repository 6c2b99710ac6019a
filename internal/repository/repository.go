// Package repository defines persistence contracts for marketplace records.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/budayachain/budaya-backend/internal/models"
	"github.com/budayachain/budaya-backend/internal/utils"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness constraint was violated.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrInvalidState indicates the record is not in a state that allows the write.
	ErrInvalidState = errors.New("record is in an invalid state for this operation")
)

type ArtisanFilter struct {
	Verified   *bool
	Region     string
	Category   string
	Pagination utils.PaginationParams
}

// ArtisanUpdate carries the profile fields an artisan may change. Nil
// fields are left untouched.
type ArtisanUpdate struct {
	Name            *string
	Bio             *string
	PortfolioImages []string
	Category        *string
	Region          *string
}

type ProductFilter struct {
	ArtisanID  *uuid.UUID
	Status     models.ProductStatus
	Category   string
	Region     string
	Search     string
	Pagination utils.PaginationParams
}

type TransactionFilter struct {
	ProductID    *uuid.UUID
	ArtisanID    *uuid.UUID
	BuyerWallet  string
	SellerWallet string
	Since        *time.Time
	Pagination   utils.PaginationParams
}

type ProposalFilter struct {
	Status       models.ProposalStatus
	ProposalType models.ProposalType
	Pagination   utils.PaginationParams
}

type ArtisanRepository interface {
	Create(ctx context.Context, artisan *models.Artisan) error
	GetByID(ctx context.Context, id uuid.UUID, withProducts bool) (*models.Artisan, error)
	GetByWallet(ctx context.Context, wallet string) (*models.Artisan, error)
	List(ctx context.Context, filter ArtisanFilter) ([]models.Artisan, int64, error)
	Update(ctx context.Context, id uuid.UUID, update ArtisanUpdate) (*models.Artisan, error)
	SetVerified(ctx context.Context, id uuid.UUID, verified bool, by string) (*models.Artisan, error)
}

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetByNFTAddress(ctx context.Context, address string) (*models.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)
	// Save writes every mutable column of product, provided the stored
	// status is still from. A product changed underneath the caller gives
	// ErrInvalidState.
	Save(ctx context.Context, product *models.Product, from models.ProductStatus) error
}

type TransactionRepository interface {
	// Record inserts the sale and marks the product sold in one unit of
	// work. The product must be listed.
	Record(ctx context.Context, tx *models.Transaction) error
	List(ctx context.Context, filter TransactionFilter) ([]models.Transaction, int64, error)
}

type ProposalRepository interface {
	Create(ctx context.Context, proposal *models.DAOProposal) error
	GetByID(ctx context.Context, id uuid.UUID, withVotes bool) (*models.DAOProposal, error)
	List(ctx context.Context, filter ProposalFilter) ([]models.DAOProposal, int64, error)
	// CastVote inserts the vote and adds its weight to the tally atomically.
	// A second vote from the same wallet yields ErrAlreadyExists; a
	// proposal that is no longer open yields ErrInvalidState.
	CastVote(ctx context.Context, vote *models.DAOVote, now time.Time) (*models.DAOProposal, error)
	HasVoted(ctx context.Context, proposalID uuid.UUID, wallet string) (bool, error)
	// Finalize moves an expired active proposal to its outcome.
	Finalize(ctx context.Context, id uuid.UUID, now time.Time) (*models.DAOProposal, error)
	SetStatus(ctx context.Context, id uuid.UUID, from, to models.ProposalStatus) (*models.DAOProposal, error)
	ListExpired(ctx context.Context, now time.Time) ([]models.DAOProposal, error)
}

type AnalyticsRepository interface {
	PlatformStats(ctx context.Context) (models.PlatformStats, error)
	TransactionSummary(ctx context.Context, artisanID *uuid.UUID) (models.TransactionSummary, error)
	RegionBreakdown(ctx context.Context) ([]models.Breakdown, error)
	CategoryBreakdown(ctx context.Context) ([]models.Breakdown, error)
	DailySeries(ctx context.Context, since time.Time) ([]models.DailyPoint, error)
	// PeriodSales covers sales with start <= timestamp < end.
	PeriodSales(ctx context.Context, start, end time.Time) (models.PeriodSales, error)
	TopArtisans(ctx context.Context, limit int) ([]models.ArtisanEarnings, error)
	RoyaltySummary(ctx context.Context, artisanID uuid.UUID, topN int) (models.RoyaltySummary, error)
}

type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
}

// Store groups the repositories a running service needs.
type Store struct {
	Artisans     ArtisanRepository
	Products     ProductRepository
	Transactions TransactionRepository
	Proposals    ProposalRepository
	Analytics    AnalyticsRepository
	Audit        AuditRepository
}

// Percentages fills Breakdown.Percentage from the product counts.
func Percentages(buckets []models.Breakdown) []models.Breakdown {
	var total int64
	for _, b := range buckets {
		total += b.ProductCount
	}
	if total == 0 {
		return buckets
	}
	for i := range buckets {
		buckets[i].Percentage = float64(buckets[i].ProductCount) / float64(total) * 100
	}
	return buckets
}
