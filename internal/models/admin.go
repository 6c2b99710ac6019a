// internal/models/admin.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	BaseModel
	Wallet       string     `json:"wallet" gorm:"size:44;index"`
	Action       string     `json:"action" gorm:"size:100;not null;index"`
	ResourceType string     `json:"resource_type" gorm:"size:50;not null;index"`
	ResourceID   *uuid.UUID `json:"resource_id" gorm:"type:uuid;index"`
	Details      JSONB      `json:"details" gorm:"type:jsonb"`
	StatusCode   int        `json:"status_code"`
	IPAddress    string     `json:"ip_address" gorm:"size:45"`
	UserAgent    string     `json:"user_agent" gorm:"type:text"`
}

// PlatformStats is the admin overview of marketplace totals.
type PlatformStats struct {
	TotalArtisans     int64   `json:"total_artisans"`
	VerifiedArtisans  int64   `json:"verified_artisans"`
	TotalProducts     int64   `json:"total_products"`
	ListedProducts    int64   `json:"listed_products"`
	TotalTransactions int64   `json:"total_transactions"`
	TotalVolume       float64 `json:"total_volume"`
	TotalRoyalties    float64 `json:"total_royalties"`
}

type TransactionSummary struct {
	TotalSales     float64 `json:"total_sales"`
	TotalRoyalties float64 `json:"total_royalties"`
	Count          int64   `json:"transaction_count"`
	AverageSale    float64 `json:"average_sale"`
	AverageRoyalty float64 `json:"average_royalty"`
}

// PeriodSales aggregates the sales recorded in a reporting window. The
// income fields sum the shares stored on each sale.
type PeriodSales struct {
	Transactions    int64   `json:"transactions"`
	Volume          float64 `json:"volume"`
	Royalties       float64 `json:"royalties"`
	ArtisanIncome   float64 `json:"artisan_income"`
	PlatformRevenue float64 `json:"platform_revenue"`
	DAOTreasury     float64 `json:"dao_treasury"`
	SellingArtisans int64   `json:"selling_artisans"`
}

// Breakdown is one bucket of a regional or category distribution.
type Breakdown struct {
	Name         string  `json:"name"`
	ProductCount int64   `json:"product_count"`
	ArtisanCount int64   `json:"artisan_count"`
	SalesVolume  float64 `json:"sales_volume"`
	Percentage   float64 `json:"percentage"`
}

type DailyPoint struct {
	Date      string  `json:"date"`
	Sales     int64   `json:"sales"`
	Volume    float64 `json:"volume"`
	Royalties float64 `json:"royalties"`
}

type ArtisanEarnings struct {
	ArtisanID     uuid.UUID `json:"artisan_id"`
	Name          string    `json:"name"`
	Region        string    `json:"region"`
	Sales         int64     `json:"sales"`
	Volume        float64   `json:"volume"`
	TotalEarnings float64   `json:"total_earnings"`
}

type ProductEarnings struct {
	ProductID uuid.UUID `json:"product_id"`
	Title     string    `json:"title"`
	Sales     int64     `json:"sales"`
	Earnings  float64   `json:"earnings"`
}

// RoyaltySummary aggregates what an artisan has earned from sales.
type RoyaltySummary struct {
	ArtisanID      uuid.UUID         `json:"artisan_id"`
	TotalEarnings  float64           `json:"total_earnings"`
	SaleCount      int64             `json:"sale_count"`
	AverageRoyalty float64           `json:"average_royalty"`
	LastPaymentAt  *time.Time        `json:"last_payment_at"`
	TopProducts    []ProductEarnings `json:"top_products"`
}
