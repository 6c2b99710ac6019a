// internal/repository/gorm_analytics.go
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/budayachain/budaya-backend/internal/models"
)

type gormAnalyticsRepository struct {
	db *gorm.DB
}

func (r *gormAnalyticsRepository) PlatformStats(ctx context.Context) (models.PlatformStats, error) {
	var stats models.PlatformStats
	db := r.db.WithContext(ctx)

	counts := []struct {
		query *gorm.DB
		dest  *int64
	}{
		{db.Model(&models.Artisan{}), &stats.TotalArtisans},
		{db.Model(&models.Artisan{}).Where("verified = ?", true), &stats.VerifiedArtisans},
		{db.Model(&models.Product{}), &stats.TotalProducts},
		{db.Model(&models.Product{}).Where("status = ?", models.ProductStatusListed), &stats.ListedProducts},
		{db.Model(&models.Transaction{}), &stats.TotalTransactions},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return stats, err
		}
	}

	var totals struct {
		Volume    float64
		Royalties float64
	}
	if err := db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0) AS volume, COALESCE(SUM(royalty_paid), 0) AS royalties").
		Scan(&totals).Error; err != nil {
		return stats, err
	}
	stats.TotalVolume = totals.Volume
	stats.TotalRoyalties = totals.Royalties

	return stats, nil
}

func (r *gormAnalyticsRepository) TransactionSummary(ctx context.Context, artisanID *uuid.UUID) (models.TransactionSummary, error) {
	var row struct {
		Count     int64
		Sales     float64
		Royalties float64
	}

	query := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("COUNT(transactions.id) AS count, COALESCE(SUM(transactions.amount), 0) AS sales, COALESCE(SUM(transactions.royalty_paid), 0) AS royalties")
	if artisanID != nil {
		query = query.Joins("JOIN products ON products.id = transactions.product_id").
			Where("products.artisan_id = ?", *artisanID)
	}
	if err := query.Scan(&row).Error; err != nil {
		return models.TransactionSummary{}, err
	}

	return summarize(row.Count, row.Sales, row.Royalties), nil
}

func summarize(count int64, sales, royalties float64) models.TransactionSummary {
	summary := models.TransactionSummary{
		TotalSales:     sales,
		TotalRoyalties: royalties,
		Count:          count,
	}
	if count > 0 {
		summary.AverageSale = sales / float64(count)
		summary.AverageRoyalty = royalties / float64(count)
	}
	return summary
}

func (r *gormAnalyticsRepository) RegionBreakdown(ctx context.Context) ([]models.Breakdown, error) {
	return r.breakdown(ctx, "region")
}

func (r *gormAnalyticsRepository) CategoryBreakdown(ctx context.Context) ([]models.Breakdown, error) {
	return r.breakdown(ctx, "category")
}

// breakdown groups products by column, which is always a fixed literal.
func (r *gormAnalyticsRepository) breakdown(ctx context.Context, column string) ([]models.Breakdown, error) {
	var buckets []models.Breakdown
	err := r.db.WithContext(ctx).Raw(`
		SELECT p.` + column + ` AS name,
		       COUNT(DISTINCT p.id) AS product_count,
		       COUNT(DISTINCT p.artisan_id) AS artisan_count,
		       COALESCE(SUM(t.amount), 0) AS sales_volume
		FROM products p
		LEFT JOIN transactions t ON t.product_id = p.id
		WHERE p.deleted_at IS NULL
		GROUP BY p.` + column + `
		ORDER BY sales_volume DESC, product_count DESC`).
		Scan(&buckets).Error
	if err != nil {
		return nil, err
	}
	return Percentages(buckets), nil
}

func (r *gormAnalyticsRepository) DailySeries(ctx context.Context, since time.Time) ([]models.DailyPoint, error) {
	var points []models.DailyPoint
	err := r.db.WithContext(ctx).Raw(`
		SELECT to_char(date_trunc('day', t."timestamp" AT TIME ZONE 'UTC'), 'YYYY-MM-DD') AS date,
		       COUNT(*) AS sales,
		       COALESCE(SUM(t.amount), 0) AS volume,
		       COALESCE(SUM(t.royalty_paid), 0) AS royalties
		FROM transactions t
		WHERE t."timestamp" >= ?
		GROUP BY 1
		ORDER BY 1`, since).
		Scan(&points).Error
	return points, err
}

func (r *gormAnalyticsRepository) PeriodSales(ctx context.Context, start, end time.Time) (models.PeriodSales, error) {
	var sales models.PeriodSales
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(t.id) AS transactions,
		       COALESCE(SUM(t.amount), 0) AS volume,
		       COALESCE(SUM(t.royalty_paid), 0) AS royalties,
		       COALESCE(SUM(t.artisan_amount), 0) AS artisan_income,
		       COALESCE(SUM(t.platform_amount), 0) AS platform_revenue,
		       COALESCE(SUM(t.dao_amount), 0) AS dao_treasury,
		       COUNT(DISTINCT p.artisan_id) AS selling_artisans
		FROM transactions t
		JOIN products p ON p.id = t.product_id
		WHERE t."timestamp" >= ? AND t."timestamp" < ?`, start, end).
		Scan(&sales).Error
	return sales, err
}

func (r *gormAnalyticsRepository) TopArtisans(ctx context.Context, limit int) ([]models.ArtisanEarnings, error) {
	var rows []models.ArtisanEarnings
	err := r.db.WithContext(ctx).Raw(`
		SELECT a.id AS artisan_id,
		       a.name,
		       a.region,
		       COUNT(t.id) AS sales,
		       COALESCE(SUM(t.amount), 0) AS volume,
		       COALESCE(SUM(t.artisan_amount), 0) AS total_earnings
		FROM artisans a
		JOIN products p ON p.artisan_id = a.id
		JOIN transactions t ON t.product_id = p.id
		WHERE a.deleted_at IS NULL
		GROUP BY a.id, a.name, a.region
		ORDER BY total_earnings DESC, a.name
		LIMIT ?`, limit).
		Scan(&rows).Error
	return rows, err
}

func (r *gormAnalyticsRepository) RoyaltySummary(ctx context.Context, artisanID uuid.UUID, topN int) (models.RoyaltySummary, error) {
	summary := models.RoyaltySummary{ArtisanID: artisanID, TopProducts: []models.ProductEarnings{}}

	var totals struct {
		SaleCount     int64
		TotalEarnings float64
		LastPaymentAt *time.Time
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(t.id) AS sale_count,
		       COALESCE(SUM(t.artisan_amount), 0) AS total_earnings,
		       MAX(t."timestamp") AS last_payment_at
		FROM transactions t
		JOIN products p ON p.id = t.product_id
		WHERE p.artisan_id = ?`, artisanID).
		Scan(&totals).Error
	if err != nil {
		return summary, err
	}

	summary.SaleCount = totals.SaleCount
	summary.TotalEarnings = totals.TotalEarnings
	summary.LastPaymentAt = totals.LastPaymentAt
	if totals.SaleCount > 0 {
		summary.AverageRoyalty = totals.TotalEarnings / float64(totals.SaleCount)
	}

	err = r.db.WithContext(ctx).Raw(`
		SELECT p.id AS product_id,
		       p.title,
		       COUNT(t.id) AS sales,
		       COALESCE(SUM(t.artisan_amount), 0) AS earnings
		FROM products p
		JOIN transactions t ON t.product_id = p.id
		WHERE p.artisan_id = ?
		GROUP BY p.id, p.title
		ORDER BY earnings DESC, p.title
		LIMIT ?`, artisanID, topN).
		Scan(&summary.TopProducts).Error

	return summary, err
}

type gormAuditRepository struct {
	db *gorm.DB
}

func (r *gormAuditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
