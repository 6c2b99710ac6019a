// internal/services/product_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/budayachain/budaya-backend/internal/config"
	"github.com/budayachain/budaya-backend/internal/metrics"
	"github.com/budayachain/budaya-backend/internal/models"
	"github.com/budayachain/budaya-backend/internal/repository"
	"github.com/budayachain/budaya-backend/internal/utils"
)

type ProductService struct {
	store   *repository.Store
	royalty config.RoyaltyConfig
	metrics *metrics.Metrics
}

type CreateProductRequest struct {
	ArtisanID   uuid.UUID            `json:"artisan_id" validate:"required"`
	Title       string               `json:"title" validate:"required,min=3,max=200"`
	Description string               `json:"description" validate:"required,min=10,max=5000"`
	Images      []string             `json:"images" validate:"required,min=1,max=10,dive,url"`
	Price       float64              `json:"price" validate:"required,gt=0"`
	RoyaltyBps  *int                 `json:"royalty_bps,omitempty" validate:"omitempty,gte=0,lte=5000"`
	Category    string               `json:"category" validate:"required,min=2,max=50"`
	Region      string               `json:"region" validate:"required,min=2,max=100"`
	Status      models.ProductStatus `json:"status,omitempty" validate:"omitempty,oneof=draft minting listed"`
	NFTAddress  *string              `json:"nft_address,omitempty" validate:"omitempty,solana_address"`
	MetadataURI string               `json:"metadata_uri,omitempty" validate:"omitempty,url"`
}

type UpdateProductRequest struct {
	Title       *string               `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Description *string               `json:"description,omitempty" validate:"omitempty,min=10,max=5000"`
	Images      []string              `json:"images,omitempty" validate:"omitempty,min=1,max=10,dive,url"`
	Price       *float64              `json:"price,omitempty" validate:"omitempty,gt=0"`
	RoyaltyBps  *int                  `json:"royalty_bps,omitempty" validate:"omitempty,gte=0,lte=5000"`
	Category    *string               `json:"category,omitempty" validate:"omitempty,min=2,max=50"`
	Region      *string               `json:"region,omitempty" validate:"omitempty,min=2,max=100"`
	Status      *models.ProductStatus `json:"status,omitempty" validate:"omitempty,oneof=draft minting listed sold"`
	NFTAddress  *string               `json:"nft_address,omitempty" validate:"omitempty,solana_address"`
	MetadataURI *string               `json:"metadata_uri,omitempty" validate:"omitempty,url"`
}

// changesFields reports whether anything besides status is being set.
func (r *UpdateProductRequest) changesFields() bool {
	return r.Title != nil || r.Description != nil || r.Images != nil || r.Price != nil ||
		r.RoyaltyBps != nil || r.Category != nil || r.Region != nil ||
		r.NFTAddress != nil || r.MetadataURI != nil
}

func NewProductService(store *repository.Store, royalty config.RoyaltyConfig, m *metrics.Metrics) *ProductService {
	return &ProductService{
		store:   store,
		royalty: royalty,
		metrics: m,
	}
}

func (s *ProductService) checkRoyalty(bps int) error {
	if bps < 0 || bps > s.royalty.MaxProductBps {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrRoyaltyOutOfRange, bps, s.royalty.MaxProductBps)
	}
	return nil
}

// CreateProduct adds a product for an artisan the caller controls. Without
// an explicit status it starts listed when an nft address is supplied and
// as a draft otherwise.
func (s *ProductService) CreateProduct(ctx context.Context, session Session, req *CreateProductRequest) (*models.Product, error) {
	artisan, err := s.store.Artisans.GetByID(ctx, req.ArtisanID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get artisan: %w", err)
	}
	if !session.Owns(artisan.WalletAddress) {
		return nil, ErrForbidden
	}

	royaltyBps := s.royalty.DefaultArtisanBps
	if req.RoyaltyBps != nil {
		royaltyBps = *req.RoyaltyBps
	}
	if err := s.checkRoyalty(royaltyBps); err != nil {
		return nil, err
	}

	product := &models.Product{
		ArtisanID:   artisan.ID,
		Title:       req.Title,
		Description: req.Description,
		Images:      req.Images,
		Price:       req.Price,
		RoyaltyBps:  royaltyBps,
		Category:    req.Category,
		Region:      req.Region,
		NFTAddress:  req.NFTAddress,
		MetadataURI: req.MetadataURI,
	}

	switch {
	case req.Status != "":
		product.Status = req.Status
	case product.HasNFT():
		product.Status = models.ProductStatusListed
	default:
		product.Status = models.ProductStatusDraft
	}
	if product.Status == models.ProductStatusListed && !product.HasNFT() {
		return nil, ErrNFTRequired
	}

	if err := s.store.Products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	product.Artisan = artisan
	s.metrics.RecordProductCreated()

	logrus.WithFields(logrus.Fields{
		"product_id": product.ID,
		"artisan_id": artisan.ID,
		"status":     product.Status,
	}).Info("Product created")

	return product, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.store.Products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

func (s *ProductService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]models.Product, int64, error) {
	products, total, err := s.store.Products.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

// SearchProducts matches listed products by title.
func (s *ProductService) SearchProducts(ctx context.Context, query string, params utils.PaginationParams) ([]models.Product, int64, error) {
	return s.ListProducts(ctx, repository.ProductFilter{
		Status:     models.ProductStatusListed,
		Search:     query,
		Pagination: params,
	})
}

// UpdateProduct applies a partial update. Status changes follow the
// product state machine; sold is only reachable by recording a sale and
// a sold product is frozen.
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, session Session, req *UpdateProductRequest) (*models.Product, error) {
	product, err := s.store.Products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product.Artisan == nil || !session.Owns(product.Artisan.WalletAddress) {
		return nil, ErrForbidden
	}

	current := product.Status
	if current == models.ProductStatusSold && req.changesFields() {
		return nil, ErrProductSold
	}

	if req.Title != nil {
		product.Title = *req.Title
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Images != nil {
		product.Images = req.Images
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.RoyaltyBps != nil {
		if err := s.checkRoyalty(*req.RoyaltyBps); err != nil {
			return nil, err
		}
		product.RoyaltyBps = *req.RoyaltyBps
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Region != nil {
		product.Region = *req.Region
	}
	if req.NFTAddress != nil {
		product.NFTAddress = req.NFTAddress
	}
	if req.MetadataURI != nil {
		product.MetadataURI = *req.MetadataURI
	}

	if req.Status != nil {
		next := *req.Status
		if !current.CanTransitionTo(next) {
			return nil, &TransitionError{From: current, To: next}
		}
		product.Status = next
	}
	if product.Status == models.ProductStatusListed && !product.HasNFT() {
		return nil, ErrNFTRequired
	}

	if err := s.store.Products.Save(ctx, product, current); err != nil {
		if errors.Is(err, repository.ErrInvalidState) {
			return nil, ErrProductChanged
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	if product.Status != current {
		logrus.WithFields(logrus.Fields{
			"product_id": product.ID,
			"from":       current,
			"to":         product.Status,
		}).Info("Product status changed")
	}

	return product, nil
}

// ProductTransactions lists the recorded sales of a product.
func (s *ProductService) ProductTransactions(ctx context.Context, id uuid.UUID, params utils.PaginationParams) ([]models.Transaction, int64, error) {
	if _, err := s.store.Products.GetByID(ctx, id); err != nil {
		return nil, 0, fmt.Errorf("failed to get product: %w", err)
	}

	sales, total, err := s.store.Transactions.List(ctx, repository.TransactionFilter{
		ProductID:  &id,
		Pagination: params,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return sales, total, nil
}
