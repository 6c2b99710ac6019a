// internal/database/connection.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/budayachain/budaya-backend/internal/config"
	"github.com/budayachain/budaya-backend/internal/models"
	"github.com/budayachain/budaya-backend/internal/repository"
	"github.com/budayachain/budaya-backend/internal/repository/memory"
)

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger:         newLogger(cfg.LogLevel),
		TranslateError: true,
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"host":     cfg.Host,
		"database": cfg.Database,
	}).Info("Database connection established")
	return db, nil
}

// newLogger routes gorm's output through logrus.
func newLogger(level string) logger.Interface {
	logLevel := logger.Warn
	switch level {
	case "silent":
		logLevel = logger.Silent
	case "error":
		logLevel = logger.Error
	case "info":
		logLevel = logger.Info
	}

	return logger.New(logrus.StandardLogger(), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logLevel,
		IgnoreRecordNotFoundError: true,
	})
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	} else {
		logrus.Info("Database connection closed")
	}
}

// Open returns the repositories for the configured driver. The returned
// close function releases the connection and is never nil.
func Open(cfg config.DatabaseConfig) (*repository.Store, func(), error) {
	if cfg.IsMemory() {
		logrus.Warn("Using in-memory store, data will not survive a restart")
		return memory.NewStore(), func() {}, nil
	}

	db, err := Initialize(cfg)
	if err != nil {
		return nil, nil, err
	}
	return repository.NewGormStore(db), func() { Close(db) }, nil
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	// gen_random_uuid() lives in pgcrypto before Postgres 13
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		return fmt.Errorf("failed to create pgcrypto extension: %w", err)
	}

	err := db.AutoMigrate(
		&models.Artisan{},
		&models.Product{},
		&models.Transaction{},
		&models.DAOProposal{},
		&models.DAOVote{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logrus.Info("Database migrations completed")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// Artisan indexes
		"CREATE INDEX IF NOT EXISTS idx_artisans_region_category ON artisans(region, category)",
		"CREATE INDEX IF NOT EXISTS idx_artisans_created_at ON artisans(created_at DESC)",

		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_artisan_status ON products(artisan_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_products_category_status ON products(category, status)",
		"CREATE INDEX IF NOT EXISTS idx_products_price ON products(price)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",

		// Transaction indexes
		`CREATE INDEX IF NOT EXISTS idx_transactions_product_time ON transactions(product_id, "timestamp" DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_time ON transactions("timestamp" DESC)`,

		// DAO indexes
		"CREATE INDEX IF NOT EXISTS idx_dao_proposals_status_ends ON dao_proposals(status, ends_at)",

		// Audit indexes
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_wallet_action ON audit_logs(wallet, action)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_resource ON audit_logs(resource_type, resource_id)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",

		// Full-text search indexes
		"CREATE INDEX IF NOT EXISTS idx_products_search ON products USING GIN(to_tsvector('simple', title || ' ' || description))",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			// Continue with other indexes instead of failing completely
			logrus.WithError(err).WithField("index", index).Warn("Failed to create index")
		}
	}

	return nil
}

// demoArtisanWallet is a well-formed devnet address with no known owner.
const demoArtisanWallet = "BudayaDemoArtisan11111111111111111111111111"

// SeedInitialData adds a verified demo artisan and one listed product when
// the store has no artisans yet.
func SeedInitialData(ctx context.Context, store *repository.Store) error {
	logrus.Info("Seeding initial data...")

	_, total, err := store.Artisans.List(ctx, repository.ArtisanFilter{})
	if err != nil {
		return fmt.Errorf("failed to count artisans: %w", err)
	}
	if total > 0 {
		logrus.Info("Store already has artisans, skipping seed")
		return nil
	}

	artisan := &models.Artisan{
		WalletAddress: demoArtisanWallet,
		Name:          "Ibu Sri Batik Pekalongan",
		Category:      "Batik",
		Region:        "Jawa Tengah",
		Bio:           "Pembatik tulis generasi ketiga dari Pekalongan.",
	}
	if err := store.Artisans.Create(ctx, artisan); err != nil {
		return fmt.Errorf("failed to create demo artisan: %w", err)
	}
	if _, err := store.Artisans.SetVerified(ctx, artisan.ID, true, "seed"); err != nil {
		return fmt.Errorf("failed to verify demo artisan: %w", err)
	}

	nft := "BudayaDemoNFT111111111111111111111111111111"
	product := &models.Product{
		ArtisanID:   artisan.ID,
		Title:       "Batik Tulis Jlamprang",
		Description: "Kain batik tulis motif Jlamprang, pewarna alami, 2 x 1.15 m.",
		Images:      []string{"https://images.budayachain.id/demo/jlamprang.jpg"},
		Price:       2.5,
		RoyaltyBps:  700,
		Category:    "Batik",
		Region:      "Jawa Tengah",
		Status:      models.ProductStatusListed,
		NFTAddress:  &nft,
	}
	if err := store.Products.Create(ctx, product); err != nil {
		return fmt.Errorf("failed to create demo product: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"artisan_id": artisan.ID,
		"product_id": product.ID,
	}).Info("Initial data seeding completed")
	return nil
}
