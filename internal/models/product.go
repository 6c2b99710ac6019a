// internal/models/product.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type ProductStatus string

const (
	ProductStatusDraft   ProductStatus = "draft"
	ProductStatusMinting ProductStatus = "minting"
	ProductStatusListed  ProductStatus = "listed"
	ProductStatusSold    ProductStatus = "sold"
)

// productTransitions lists the moves a client may request directly.
// listed -> sold is absent: only recording a sale performs it.
var productTransitions = map[ProductStatus][]ProductStatus{
	ProductStatusDraft:   {ProductStatusMinting, ProductStatusListed},
	ProductStatusMinting: {ProductStatusListed, ProductStatusDraft},
	ProductStatusListed:  {ProductStatusDraft},
}

func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusDraft, ProductStatusMinting, ProductStatusListed, ProductStatusSold:
		return true
	}
	return false
}

// CanTransitionTo reports whether a client update may move s to next.
func (s ProductStatus) CanTransitionTo(next ProductStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range productTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Product struct {
	BaseModel
	ArtisanID   uuid.UUID      `json:"artisan_id" gorm:"type:uuid;not null;index"`
	Title       string         `json:"title" gorm:"size:200;not null"`
	Description string         `json:"description" gorm:"type:text;not null"`
	Images      pq.StringArray `json:"images" gorm:"type:text[]"`
	Price       float64        `json:"price" gorm:"type:decimal(20,9);not null"`
	RoyaltyBps  int            `json:"royalty_bps" gorm:"not null;default:0"`
	Category    string         `json:"category" gorm:"size:50;not null;index"`
	Region      string         `json:"region" gorm:"size:100;not null;index"`
	Status      ProductStatus  `json:"status" gorm:"type:varchar(20);default:'draft';index"`
	NFTAddress  *string        `json:"nft_address" gorm:"size:44;uniqueIndex"`
	MetadataURI string         `json:"metadata_uri,omitempty" gorm:"type:text"`

	// Relationships
	Artisan      *Artisan      `json:"artisan,omitempty" gorm:"foreignKey:ArtisanID"`
	Transactions []Transaction `json:"transactions,omitempty" gorm:"foreignKey:ProductID"`
}

func (p *Product) HasNFT() bool {
	return p.NFTAddress != nil && *p.NFTAddress != ""
}
