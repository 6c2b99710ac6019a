// internal/repository/gorm.go
package repository

import (
	"errors"

	"gorm.io/gorm"
)

// NewGormStore wires every repository to one Postgres connection. The
// connection must be opened with TranslateError so that unique violations
// surface as gorm.ErrDuplicatedKey.
func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Artisans:     &gormArtisanRepository{db: db},
		Products:     &gormProductRepository{db: db},
		Transactions: &gormTransactionRepository{db: db},
		Proposals:    &gormProposalRepository{db: db},
		Analytics:    &gormAnalyticsRepository{db: db},
		Audit:        &gormAuditRepository{db: db},
	}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrAlreadyExists
	}
	return err
}
