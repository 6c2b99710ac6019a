// internal/models/artisan.go
package models

import (
	"time"

	"github.com/lib/pq"
)

type Artisan struct {
	BaseModel
	WalletAddress   string         `json:"wallet_address" gorm:"uniqueIndex;size:44;not null"`
	Name            string         `json:"name" gorm:"size:100;not null"`
	Category        string         `json:"category" gorm:"size:50;not null;index"`
	Region          string         `json:"region" gorm:"size:100;not null;index"`
	Verified        bool           `json:"verified" gorm:"default:false;index"`
	Bio             string         `json:"bio,omitempty" gorm:"type:text"`
	PortfolioImages pq.StringArray `json:"portfolio_images" gorm:"type:text[]"`
	VerifiedAt      *time.Time     `json:"verified_at,omitempty"`
	VerifiedBy      string         `json:"verified_by,omitempty" gorm:"size:44"`

	// Relationships
	Products []Product `json:"products,omitempty" gorm:"foreignKey:ArtisanID"`
}
