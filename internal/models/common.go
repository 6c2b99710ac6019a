// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate assigns the ID client side so callers can reference the
// record before the insert round-trips.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type Role string

const (
	RoleUser       Role = "user"
	RoleGovernment Role = "government"
	RoleAdmin      Role = "admin"
)

type ProposalType string

const (
	ProposalTypeFunding     ProposalType = "funding"
	ProposalTypePartnership ProposalType = "partnership"
	ProposalTypePolicy      ProposalType = "policy"
)

type ProposalStatus string

const (
	ProposalStatusActive   ProposalStatus = "active"
	ProposalStatusPassed   ProposalStatus = "passed"
	ProposalStatusRejected ProposalStatus = "rejected"
	ProposalStatusExecuted ProposalStatus = "executed"
)

type VoteChoice string

const (
	VoteFor     VoteChoice = "for"
	VoteAgainst VoteChoice = "against"
)

// Categories and Regions are the reference lists offered to clients.
var Categories = []string{
	"Batik",
	"Tenun",
	"Keramik",
	"Ukiran Kayu",
	"Anyaman",
	"Wayang",
	"Perhiasan",
	"Tekstil",
}

var Regions = []string{
	"Jawa Barat",
	"Jawa Tengah",
	"Jawa Timur",
	"Yogyakarta",
	"Bali",
	"Sumatera Barat",
	"Sulawesi Selatan",
	"Kalimantan Timur",
}
