// internal/repository/gorm_product.go
package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/budayachain/budaya-backend/internal/models"
	"github.com/budayachain/budaya-backend/internal/utils"
)

var productSortFields = []string{"created_at", "price", "title", "royalty_bps"}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern matches term literally inside a LIKE pattern.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

type gormProductRepository struct {
	db *gorm.DB
}

func (r *gormProductRepository) Create(ctx context.Context, product *models.Product) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error)
}

func (r *gormProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Artisan").First(&product, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *gormProductRepository) GetByNFTAddress(ctx context.Context, address string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Artisan").First(&product, "nft_address = ?", address).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *gormProductRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})

	if filter.ArtisanID != nil {
		query = query.Where("artisan_id = ?", *filter.ArtisanID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Region != "" {
		query = query.Where("region = ?", filter.Region)
	}
	if filter.Search != "" {
		query = query.Where("title ILIKE ?", containsPattern(filter.Search))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = utils.ApplySort(query, filter.Pagination, productSortFields)
	query = utils.ApplyPagination(query, filter.Pagination)

	var products []models.Product
	if err := query.Preload("Artisan").Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *gormProductRepository) Save(ctx context.Context, product *models.Product, from models.ProductStatus) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stored models.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "status").
			First(&stored, "id = ?", product.ID).Error; err != nil {
			return err
		}
		if stored.Status != from {
			return ErrInvalidState
		}

		return tx.Omit(clause.Associations).Save(product).Error
	})
	return translate(err)
}
