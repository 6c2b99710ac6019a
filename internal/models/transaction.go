// internal/models/transaction.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction is an append-only record of a settled sale. It has no
// UpdatedAt or DeletedAt on purpose: rows are never changed.
type Transaction struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProductID      uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	BuyerWallet    string    `json:"buyer_wallet" gorm:"size:44;not null;index"`
	SellerWallet   string    `json:"seller_wallet" gorm:"size:44;not null;index"`
	Amount         float64   `json:"amount" gorm:"type:decimal(20,9);not null"`
	RoyaltyPaid    float64   `json:"royalty_paid" gorm:"type:decimal(20,9);not null;default:0"`
	ArtisanAmount  float64   `json:"artisan_amount" gorm:"type:decimal(20,9);not null;default:0"`
	PlatformAmount float64   `json:"platform_amount" gorm:"type:decimal(20,9);not null;default:0"`
	DAOAmount      float64   `json:"dao_amount" gorm:"type:decimal(20,9);not null;default:0"`
	TxSignature    string    `json:"tx_signature" gorm:"size:128;not null;uniqueIndex"`
	Timestamp      time.Time `json:"timestamp" gorm:"not null;index"`
	CreatedAt      time.Time `json:"created_at"`

	// Relationships
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now().UTC()
	}
	return nil
}
