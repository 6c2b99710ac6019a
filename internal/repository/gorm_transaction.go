// internal/repository/gorm_transaction.go
package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/budayachain/budaya-backend/internal/models"
	"github.com/budayachain/budaya-backend/internal/utils"
)

type gormTransactionRepository struct {
	db *gorm.DB
}

func (r *gormTransactionRepository) Record(ctx context.Context, sale *models.Transaction) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, "id = ?", sale.ProductID).Error; err != nil {
			return err
		}
		if product.Status != models.ProductStatusListed {
			return ErrInvalidState
		}

		if err := tx.Omit(clause.Associations).Create(sale).Error; err != nil {
			return err
		}

		return tx.Model(&models.Product{}).
			Where("id = ?", product.ID).
			Update("status", models.ProductStatusSold).Error
	})
	return translate(err)
}

func (r *gormTransactionRepository) List(ctx context.Context, filter TransactionFilter) ([]models.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Transaction{})

	if filter.ProductID != nil {
		query = query.Where("transactions.product_id = ?", *filter.ProductID)
	}
	if filter.ArtisanID != nil {
		query = query.Joins("JOIN products ON products.id = transactions.product_id").
			Where("products.artisan_id = ?", *filter.ArtisanID)
	}
	if filter.BuyerWallet != "" {
		query = query.Where("transactions.buyer_wallet = ?", filter.BuyerWallet)
	}
	if filter.SellerWallet != "" {
		query = query.Where("transactions.seller_wallet = ?", filter.SellerWallet)
	}
	if filter.Since != nil {
		query = query.Where(`transactions."timestamp" >= ?`, *filter.Since)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "DESC"
	if filter.Pagination.Order == "asc" {
		order = "ASC"
	}
	query = query.Order(`transactions."timestamp" ` + order)
	query = utils.ApplyPagination(query, filter.Pagination)

	var sales []models.Transaction
	if err := query.Preload("Product").Find(&sales).Error; err != nil {
		return nil, 0, err
	}
	return sales, total, nil
}
