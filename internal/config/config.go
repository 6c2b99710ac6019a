// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/budayachain/budaya-backend/internal/royalty"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	AWS         AWSConfig
	Solana      SolanaConfig
	Royalty     RoyaltyConfig
	DAO         DAOConfig
	Auth        AuthConfig
	CORS        CORSConfig
	RateLimit   RateLimitConfig
	I18n        I18nConfig
	Frontend    FrontendConfig
	Metrics     MetricsConfig
	Log         LogConfig
}

type FrontendConfig struct {
	BaseURL string
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type DatabaseConfig struct {
	// Driver is "postgres" or "memory". The memory driver keeps everything
	// in process and is meant for local demos.
	Driver       string
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

type JWTConfig struct {
	SecretKey      string
	AccessTokenTTL int // in hours
	ChallengeTTL   int // in minutes
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	Endpoint        string
	PublicURL       string
}

type SolanaConfig struct {
	Network          string
	RPCURL           string
	PlatformWallet   string
	DAOTreasury      string
	VerifySignatures bool
	RequestTimeout   int // in seconds
}

type RoyaltyConfig struct {
	DefaultArtisanBps int
	PlatformBps       int
	DAOBps            int
	MaxProductBps     int
}

// DefaultSplit is the split applied to a product that keeps the default
// artisan royalty.
func (r RoyaltyConfig) DefaultSplit() royalty.Split {
	return royalty.Split{
		ArtisanBps:  r.DefaultArtisanBps,
		PlatformBps: r.PlatformBps,
		DAOBps:      r.DAOBps,
	}
}

type DAOConfig struct {
	FinalizeInterval int // in seconds, 0 disables the finalizer
}

type AuthConfig struct {
	AdminWallets      []string
	GovernmentWallets []string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

type I18nConfig struct {
	DefaultLocale string
}

type MetricsConfig struct {
	Enabled   bool
	Namespace string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Driver:       getEnv("DB_DRIVER", "postgres"),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "budaya_chain"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "warn"),
		},
		JWT: JWTConfig{
			SecretKey:      getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenTTL: getEnvAsInt("JWT_ACCESS_TTL", 24),
			ChallengeTTL:   getEnvAsInt("JWT_CHALLENGE_TTL", 5),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "ap-southeast-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", ""),
			Endpoint:        getEnv("AWS_S3_ENDPOINT", ""),
			PublicURL:       getEnv("AWS_PUBLIC_URL", ""),
		},
		Solana: SolanaConfig{
			Network:          getEnv("SOLANA_NETWORK", "devnet"),
			RPCURL:           getEnv("SOLANA_RPC_URL", ""),
			PlatformWallet:   getEnv("PLATFORM_WALLET", ""),
			DAOTreasury:      getEnv("DAO_TREASURY_WALLET", ""),
			VerifySignatures: getEnvAsBool("SOLANA_VERIFY_SIGNATURES", false),
			RequestTimeout:   getEnvAsInt("SOLANA_REQUEST_TIMEOUT", 10),
		},
		Royalty: RoyaltyConfig{
			DefaultArtisanBps: getEnvAsInt("ROYALTY_ARTISAN_BPS", 700),
			PlatformBps:       getEnvAsInt("ROYALTY_PLATFORM_BPS", 200),
			DAOBps:            getEnvAsInt("ROYALTY_DAO_BPS", 100),
			MaxProductBps:     getEnvAsInt("ROYALTY_MAX_PRODUCT_BPS", 5000),
		},
		DAO: DAOConfig{
			FinalizeInterval: getEnvAsInt("DAO_FINALIZE_INTERVAL", 60),
		},
		Auth: AuthConfig{
			AdminWallets:      getEnvAsSlice("ADMIN_WALLETS", nil),
			GovernmentWallets: getEnvAsSlice("GOVERNMENT_WALLETS", nil),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 100),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 100),
		},
		I18n: I18nConfig{
			DefaultLocale: getEnv("DEFAULT_LOCALE", "id"),
		},
		Frontend: FrontendConfig{
			BaseURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		},
		Metrics: MetricsConfig{
			Enabled:   getEnvAsBool("METRICS_ENABLED", true),
			Namespace: getEnv("METRICS_NAMESPACE", "budaya"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.JWT.SecretKey == defaultJWTSecret && c.Environment == "production" {
		return fmt.Errorf("JWT secret key must be changed in production")
	}

	if c.Database.Password == "" && c.Database.Driver == "postgres" && c.Environment == "production" {
		return fmt.Errorf("database password is required in production")
	}

	switch c.Database.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	switch c.Solana.Network {
	case "devnet", "testnet", "mainnet-beta", "localnet":
	default:
		return fmt.Errorf("unsupported solana network %q", c.Solana.Network)
	}

	if err := c.Royalty.DefaultSplit().ValidateRecommended(); err != nil {
		return fmt.Errorf("invalid royalty split: %w", err)
	}
	if c.Royalty.MaxProductBps < 0 {
		return fmt.Errorf("maximum product royalty cannot be negative")
	}
	if c.Royalty.MaxProductBps+c.Royalty.PlatformBps+c.Royalty.DAOBps > royalty.BasisPointsDenominator {
		return fmt.Errorf("maximum product royalty leaves no room for platform and DAO shares")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
