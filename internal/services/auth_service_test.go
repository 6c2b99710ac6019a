package services

import (
	"testing"

	sol "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budayachain/budaya-backend/internal/models"
	"github.com/budayachain/budaya-backend/internal/utils"
)

func signIn(t *testing.T, svc *AuthService, wallet *sol.Wallet) (*AuthResponse, error) {
	t.Helper()
	address := wallet.PublicKey().String()

	challenge, err := svc.Challenge(&ChallengeRequest{WalletAddress: address})
	require.NoError(t, err)

	sig, err := wallet.PrivateKey.Sign([]byte(challenge.Message))
	require.NoError(t, err)

	return svc.Verify(&VerifyRequest{
		WalletAddress:  address,
		Signature:      sig.String(),
		ChallengeToken: challenge.ChallengeToken,
	})
}

func TestAuthSignIn(t *testing.T) {
	cfg := testConfig()
	utils.SetJWTSecret(cfg.JWT.SecretKey)
	svc := NewAuthService(cfg, nil)
	wallet := sol.NewWallet()

	resp, err := signIn(t, svc, wallet)
	require.NoError(t, err)
	assert.Equal(t, wallet.PublicKey().String(), resp.WalletAddress)
	assert.Equal(t, models.RoleUser, resp.Role)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, 24*3600, resp.ExpiresIn)

	claims, err := utils.ValidateJWT(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.WalletAddress, claims.Wallet)
	assert.Equal(t, string(models.RoleUser), claims.Role)
}

func TestAuthChallengeMessage(t *testing.T) {
	cfg := testConfig()
	utils.SetJWTSecret(cfg.JWT.SecretKey)
	wallet := sol.NewWallet().PublicKey().String()

	challenge, err := NewAuthService(cfg, nil).Challenge(&ChallengeRequest{WalletAddress: wallet})
	require.NoError(t, err)
	assert.Contains(t, challenge.Message, wallet)
	assert.Contains(t, challenge.Message, challenge.Nonce)
	assert.Len(t, challenge.Nonce, 24)

	// a challenge token is not an access token
	_, err = utils.ValidateJWT(challenge.ChallengeToken)
	assert.Error(t, err)
}

func TestAuthRejectsWrongSigner(t *testing.T) {
	cfg := testConfig()
	utils.SetJWTSecret(cfg.JWT.SecretKey)
	svc := NewAuthService(cfg, nil)

	wallet := sol.NewWallet()
	impostor := sol.NewWallet()
	address := wallet.PublicKey().String()

	challenge, err := svc.Challenge(&ChallengeRequest{WalletAddress: address})
	require.NoError(t, err)
	sig, err := impostor.PrivateKey.Sign([]byte(challenge.Message))
	require.NoError(t, err)

	_, err = svc.Verify(&VerifyRequest{
		WalletAddress:  address,
		Signature:      sig.String(),
		ChallengeToken: challenge.ChallengeToken,
	})
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestAuthRejectsChallengeForAnotherWallet(t *testing.T) {
	cfg := testConfig()
	utils.SetJWTSecret(cfg.JWT.SecretKey)
	svc := NewAuthService(cfg, nil)

	wallet := sol.NewWallet()
	other := sol.NewWallet()

	challenge, err := svc.Challenge(&ChallengeRequest{WalletAddress: other.PublicKey().String()})
	require.NoError(t, err)
	sig, err := wallet.PrivateKey.Sign([]byte(challenge.Message))
	require.NoError(t, err)

	_, err = svc.Verify(&VerifyRequest{
		WalletAddress:  wallet.PublicKey().String(),
		Signature:      sig.String(),
		ChallengeToken: challenge.ChallengeToken,
	})
	assert.ErrorIs(t, err, ErrWalletMismatch)
}

func TestAuthRejectsForgedChallengeToken(t *testing.T) {
	cfg := testConfig()
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	_, err := NewAuthService(cfg, nil).Verify(&VerifyRequest{
		WalletAddress:  sol.NewWallet().PublicKey().String(),
		Signature:      "1111",
		ChallengeToken: "not.a.token",
	})
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestAuthRoles(t *testing.T) {
	cfg := testConfig()
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	admin := sol.NewWallet()
	official := sol.NewWallet()
	cfg.Auth.AdminWallets = []string{admin.PublicKey().String()}
	cfg.Auth.GovernmentWallets = []string{official.PublicKey().String(), admin.PublicKey().String()}
	svc := NewAuthService(cfg, nil)

	resp, err := signIn(t, svc, admin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, resp.Role)

	resp, err = signIn(t, svc, official)
	require.NoError(t, err)
	assert.Equal(t, models.RoleGovernment, resp.Role)
}
