package utils

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sol "github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const testWallet = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"

func TestNewPaginationParams(t *testing.T) {
	tests := []struct {
		name                string
		page, limit         int
		order               string
		wantPage, wantLimit int
		wantOrder           string
	}{
		{"defaults", 0, 0, "", 1, DefaultPageLimit, "desc"},
		{"in range", 3, 50, "asc", 3, 50, "asc"},
		{"limit too large", 1, 500, "desc", 1, DefaultPageLimit, "desc"},
		{"negative page", -4, 10, "sideways", 1, 10, "desc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPaginationParams(tt.page, tt.limit, "created_at", tt.order, "")
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantOrder, p.Order)
		})
	}
}

func TestPaginationOffset(t *testing.T) {
	assert.Equal(t, 0, NewPaginationParams(1, 20, "", "", "").Offset())
	assert.Equal(t, 40, NewPaginationParams(3, 20, "", "", "").Offset())
	assert.Equal(t, 0, PaginationParams{}.Offset())
}

func TestGetPaginationParams(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/products?page=2&limit=5&sort=price&order=asc&search=batik", nil)

	p := GetPaginationParams(c)
	assert.Equal(t, PaginationParams{Page: 2, Limit: 5, Sort: "price", Order: "asc", Search: "batik"}, p)
}

func TestCreatePaginationResult(t *testing.T) {
	result := CreatePaginationResult([]int{1, 2}, 45, NewPaginationParams(1, 20, "", "", ""))
	assert.Equal(t, 3, result.TotalPages)
	assert.EqualValues(t, 45, result.Total)

	assert.Zero(t, CreatePaginationResult(nil, 45, PaginationParams{}).TotalPages)
}

func TestSetPaginationHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	SetPaginationHeaders(c, PaginationResult{Page: 2, Limit: 10, Total: 31, TotalPages: 4})

	assert.Equal(t, "31", w.Header().Get("X-Total-Count"))
	assert.Equal(t, "2", w.Header().Get("X-Page"))
	assert.Equal(t, "10", w.Header().Get("X-Per-Page"))
	assert.Equal(t, "4", w.Header().Get("X-Total-Pages"))
}

func TestApplySortWhitelist(t *testing.T) {
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost dbname=budaya"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	type row struct {
		ID    int
		Title string
	}
	allowed := []string{"created_at", "title"}

	stmt := ApplySort(db.Model(&row{}), NewPaginationParams(1, 10, "title", "asc", ""), allowed).Find(&[]row{}).Statement
	assert.Contains(t, stmt.SQL.String(), "ORDER BY title ASC")

	stmt = ApplySort(db.Model(&row{}), NewPaginationParams(1, 10, "password; DROP TABLE", "asc", ""), allowed).Find(&[]row{}).Statement
	assert.Contains(t, stmt.SQL.String(), "ORDER BY created_at ASC")
}

func TestSolanaAddressValidation(t *testing.T) {
	assert.NoError(t, validate.Var(testWallet, "solana_address"))
	assert.Error(t, validate.Var("not-a-wallet", "solana_address"))
	// base58 but too short for a public key
	assert.Error(t, validate.Var("7xKXtg2CW87d97TX", "solana_address"))
	assert.Error(t, validate.Var(strings.Repeat("1", 45), "solana_address"))
}

func TestTxSignatureValidation(t *testing.T) {
	var sig sol.Signature
	for i := range sig {
		sig[i] = byte(i + 1)
	}
	valid := sig.String()
	assert.NoError(t, validate.Var(valid, "tx_signature"))
	assert.Error(t, validate.Var(valid[:40], "tx_signature"))
	// a decodable public key is too short for a signature
	assert.Error(t, validate.Var(testWallet, "tx_signature"))
	// 0, O, I and l are outside the base58 alphabet
	assert.Error(t, validate.Var(strings.Repeat("0OIl", 20), "tx_signature"))
}

func TestFutureValidation(t *testing.T) {
	assert.NoError(t, validate.Var(time.Now().Add(time.Hour), "future"))
	assert.Error(t, validate.Var(time.Now().Add(-time.Hour), "future"))
}

func TestGetValidationErrors(t *testing.T) {
	type request struct {
		Wallet string `json:"wallet_address" validate:"required,solana_address"`
		Title  string `json:"title" validate:"required,min=3"`
	}

	errs := GetValidationErrors(ValidateStruct(&request{Wallet: "abc", Title: "ab"}))
	require.Len(t, errs, 2)
	assert.Equal(t, ValidationError{
		Field:   "wallet_address",
		Tag:     "solana_address",
		Message: "wallet_address must be a valid Solana address",
	}, errs[0])
	assert.Equal(t, "title must be at least 3 characters", errs[1].Message)

	assert.Empty(t, GetValidationErrors(nil))
}

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("utils-secret")

	token, err := GenerateJWT(testWallet, "government", 1)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, testWallet, claims.Wallet)
	assert.Equal(t, "government", claims.Role)
	assert.Equal(t, testWallet, claims.Subject)

	SetJWTSecret("rotated")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	SetJWTSecret("utils-secret")

	token, err := GenerateJWT(testWallet, "user", -1)
	require.NoError(t, err)
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestChallengeTokenPurpose(t *testing.T) {
	SetJWTSecret("utils-secret")

	challenge, err := GenerateChallengeToken(testWallet, "nonce", "Sign in", 5*time.Minute)
	require.NoError(t, err)

	claims, err := ValidateChallengeToken(challenge)
	require.NoError(t, err)
	assert.Equal(t, "nonce", claims.Nonce)
	assert.Equal(t, "Sign in", claims.Message)

	_, err = ValidateJWT(challenge)
	assert.ErrorIs(t, err, ErrInvalidToken)

	access, err := GenerateJWT(testWallet, "user", 1)
	require.NoError(t, err)
	_, err = ValidateChallengeToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHashing(t *testing.T) {
	assert.Equal(t, HashString("budaya"), HashBytes([]byte("budaya")))
	assert.Len(t, HashString(""), 64)

	nonce, err := GenerateNonce()
	require.NoError(t, err)
	assert.Len(t, nonce, 24)

	other, err := GenerateNonce()
	require.NoError(t, err)
	assert.NotEqual(t, nonce, other)
}
