// internal/services/auth_service.go
package services

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/budayachain/budaya-backend/internal/config"
	"github.com/budayachain/budaya-backend/internal/metrics"
	"github.com/budayachain/budaya-backend/internal/models"
	"github.com/budayachain/budaya-backend/internal/royalty"
	"github.com/budayachain/budaya-backend/internal/solana"
	"github.com/budayachain/budaya-backend/internal/utils"
)

// AuthService signs wallets in. A client asks for a challenge, signs the
// returned message with its wallet and trades the signature for an access
// token.
type AuthService struct {
	cfg     *config.Config
	metrics *metrics.Metrics
	now     func() time.Time
}

type ChallengeRequest struct {
	WalletAddress string `json:"wallet_address" validate:"required,solana_address"`
}

type ChallengeResponse struct {
	Message        string    `json:"message"`
	Nonce          string    `json:"nonce"`
	ChallengeToken string    `json:"challenge_token"`
	ExpiresAt      time.Time `json:"expires_at"`
}

type VerifyRequest struct {
	WalletAddress  string `json:"wallet_address" validate:"required,solana_address"`
	Signature      string `json:"signature" validate:"required,max=128"`
	ChallengeToken string `json:"challenge_token" validate:"required"`
}

type AuthResponse struct {
	WalletAddress string      `json:"wallet_address"`
	Role          models.Role `json:"role"`
	AccessToken   string      `json:"access_token"`
	TokenType     string      `json:"token_type"`
	ExpiresIn     int         `json:"expires_in"` // in seconds
}

func NewAuthService(cfg *config.Config, m *metrics.Metrics) *AuthService {
	return &AuthService{
		cfg:     cfg,
		metrics: m,
		now:     time.Now,
	}
}

func challengeMessage(wallet, nonce string, issuedAt time.Time) string {
	return fmt.Sprintf("Budaya Chain wants you to sign in with your Solana account:\n%s\n\nNonce: %s\nIssued At: %s",
		wallet, nonce, issuedAt.UTC().Format(time.RFC3339))
}

func (s *AuthService) Challenge(req *ChallengeRequest) (*ChallengeResponse, error) {
	nonce, err := utils.GenerateNonce()
	if err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ttl := time.Duration(s.cfg.JWT.ChallengeTTL) * time.Minute
	now := s.now()
	message := challengeMessage(req.WalletAddress, nonce, now)

	token, err := utils.GenerateChallengeToken(req.WalletAddress, nonce, message, ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to generate challenge token: %w", err)
	}

	return &ChallengeResponse{
		Message:        message,
		Nonce:          nonce,
		ChallengeToken: token,
		ExpiresAt:      now.Add(ttl).UTC(),
	}, nil
}

func (s *AuthService) Verify(req *VerifyRequest) (*AuthResponse, error) {
	claims, err := utils.ValidateChallengeToken(req.ChallengeToken)
	if err != nil {
		s.metrics.RecordAuthAttempt("invalid_challenge")
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if claims.Wallet != req.WalletAddress {
		s.metrics.RecordAuthAttempt("wallet_mismatch")
		return nil, ErrWalletMismatch
	}
	if !solana.VerifyMessage(req.WalletAddress, req.Signature, []byte(claims.Message)) {
		s.metrics.RecordAuthAttempt("bad_signature")
		return nil, ErrInvalidSignature
	}

	role := s.RoleFor(req.WalletAddress)
	accessToken, err := utils.GenerateJWT(req.WalletAddress, string(role), s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	s.metrics.RecordAuthAttempt("success")
	logrus.WithFields(logrus.Fields{
		"wallet": royalty.TruncateAddress(req.WalletAddress),
		"role":   role,
	}).Info("Wallet signed in")

	return &AuthResponse{
		WalletAddress: req.WalletAddress,
		Role:          role,
		AccessToken:   accessToken,
		TokenType:     "Bearer",
		ExpiresIn:     s.cfg.JWT.AccessTokenTTL * 3600, // Convert hours to seconds
	}, nil
}

// RoleFor resolves a wallet's role from the configured wallet lists. Admin
// wins over government.
func (s *AuthService) RoleFor(wallet string) models.Role {
	if contains(s.cfg.Auth.AdminWallets, wallet) {
		return models.RoleAdmin
	}
	if contains(s.cfg.Auth.GovernmentWallets, wallet) {
		return models.RoleGovernment
	}
	return models.RoleUser
}
