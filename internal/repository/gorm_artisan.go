// internal/repository/gorm_artisan.go
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/budayachain/budaya-backend/internal/models"
	"github.com/budayachain/budaya-backend/internal/utils"
)

var artisanSortFields = []string{"created_at", "name", "region", "category"}

type gormArtisanRepository struct {
	db *gorm.DB
}

func (r *gormArtisanRepository) Create(ctx context.Context, artisan *models.Artisan) error {
	return translate(r.db.WithContext(ctx).Create(artisan).Error)
}

func (r *gormArtisanRepository) GetByID(ctx context.Context, id uuid.UUID, withProducts bool) (*models.Artisan, error) {
	query := r.db.WithContext(ctx)
	if withProducts {
		query = query.Preload("Products", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		})
	}

	var artisan models.Artisan
	if err := query.First(&artisan, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &artisan, nil
}

func (r *gormArtisanRepository) GetByWallet(ctx context.Context, wallet string) (*models.Artisan, error) {
	var artisan models.Artisan
	if err := r.db.WithContext(ctx).First(&artisan, "wallet_address = ?", wallet).Error; err != nil {
		return nil, translate(err)
	}
	return &artisan, nil
}

func (r *gormArtisanRepository) List(ctx context.Context, filter ArtisanFilter) ([]models.Artisan, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Artisan{})

	if filter.Verified != nil {
		query = query.Where("verified = ?", *filter.Verified)
	}
	if filter.Region != "" {
		query = query.Where("region = ?", filter.Region)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = utils.ApplySort(query, filter.Pagination, artisanSortFields)
	query = utils.ApplyPagination(query, filter.Pagination)

	var artisans []models.Artisan
	if err := query.Find(&artisans).Error; err != nil {
		return nil, 0, err
	}
	return artisans, total, nil
}

func (r *gormArtisanRepository) Update(ctx context.Context, id uuid.UUID, update ArtisanUpdate) (*models.Artisan, error) {
	updates := map[string]interface{}{}
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	if update.Bio != nil {
		updates["bio"] = *update.Bio
	}
	if update.PortfolioImages != nil {
		updates["portfolio_images"] = pq.StringArray(update.PortfolioImages)
	}
	if update.Category != nil {
		updates["category"] = *update.Category
	}
	if update.Region != nil {
		updates["region"] = *update.Region
	}

	if len(updates) > 0 {
		result := r.db.WithContext(ctx).Model(&models.Artisan{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, translate(result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}

	return r.GetByID(ctx, id, false)
}

func (r *gormArtisanRepository) SetVerified(ctx context.Context, id uuid.UUID, verified bool, by string) (*models.Artisan, error) {
	updates := map[string]interface{}{
		"verified":    verified,
		"verified_by": by,
		"verified_at": nil,
	}
	if verified {
		updates["verified_at"] = time.Now().UTC()
	}

	result := r.db.WithContext(ctx).Model(&models.Artisan{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return r.GetByID(ctx, id, false)
}
