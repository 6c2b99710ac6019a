package services

import (
	"context"
	"crypto/rand"
	"testing"
	"time"

	sol "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/budayachain/budaya-backend/internal/config"
	"github.com/budayachain/budaya-backend/internal/models"
	"github.com/budayachain/budaya-backend/internal/repository"
	"github.com/budayachain/budaya-backend/internal/repository/memory"
	"github.com/budayachain/budaya-backend/internal/solana"
	"github.com/budayachain/budaya-backend/internal/solana/solanatest"
	"github.com/budayachain/budaya-backend/internal/utils"
)

type fixture struct {
	ctx   context.Context
	store *repository.Store
	cfg   *config.Config
	rpc   *solanatest.FakeRPC
	chain *solana.Client
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:      "test-secret",
			AccessTokenTTL: 24,
			ChallengeTTL:   5,
		},
		Solana: config.SolanaConfig{
			Network:        "devnet",
			PlatformWallet: solanatest.NewAddress().String(),
			DAOTreasury:    solanatest.NewAddress().String(),
		},
		Royalty: config.RoyaltyConfig{
			DefaultArtisanBps: 700,
			PlatformBps:       200,
			DAOBps:            100,
			MaxProductBps:     5000,
		},
		Frontend: config.FrontendConfig{BaseURL: "https://budayachain.id"},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	rpc := solanatest.NewFakeRPC()
	return &fixture{
		ctx:   context.Background(),
		store: memory.NewStore(),
		cfg:   testConfig(),
		rpc:   rpc,
		chain: solana.NewClient(rpc, solana.Options{Network: "devnet", Timeout: time.Second}),
	}
}

func (f *fixture) products() *ProductService {
	return NewProductService(f.store, f.cfg.Royalty, nil)
}

// artisan registers an artisan owned by a fresh wallet and returns the
// session of that wallet.
func (f *fixture) artisan(t *testing.T, verified bool) (*models.Artisan, Session) {
	t.Helper()
	wallet := solanatest.NewAddress().String()
	artisan := &models.Artisan{
		WalletAddress: wallet,
		Name:          "Pak Wayan",
		Category:      "Ukiran Kayu",
		Region:        "Bali",
	}
	require.NoError(t, f.store.Artisans.Create(f.ctx, artisan))
	if verified {
		updated, err := f.store.Artisans.SetVerified(f.ctx, artisan.ID, true, "admin")
		require.NoError(t, err)
		artisan = updated
	}
	return artisan, Session{Wallet: wallet, Role: models.RoleUser}
}

func (f *fixture) draftProduct(t *testing.T, artisan *models.Artisan, session Session) *models.Product {
	t.Helper()
	product, err := f.products().CreateProduct(f.ctx, session, &CreateProductRequest{
		ArtisanID:   artisan.ID,
		Title:       "Topeng Barong",
		Description: "Hand carved Barong mask from pule wood.",
		Images:      []string{"https://images.budayachain.id/barong.jpg"},
		Price:       2.5,
		Category:    "Ukiran Kayu",
		Region:      "Bali",
	})
	require.NoError(t, err)
	return product
}

func (f *fixture) listedProduct(t *testing.T, artisan *models.Artisan, session Session) *models.Product {
	t.Helper()
	nft := solanatest.NewAddress().String()
	product, err := f.products().CreateProduct(f.ctx, session, &CreateProductRequest{
		ArtisanID:   artisan.ID,
		Title:       "Kain Tenun Ikat Sumba",
		Description: "Handwoven ikat with natural dyes from East Sumba.",
		Images:      []string{"https://images.budayachain.id/ikat.jpg"},
		Price:       2.5,
		Category:    "Tenun",
		Region:      "Nusa Tenggara Timur",
		NFTAddress:  &nft,
	})
	require.NoError(t, err)
	require.Equal(t, models.ProductStatusListed, product.Status)
	return product
}

func newSignature(t *testing.T) string {
	t.Helper()
	var sig sol.Signature
	_, err := rand.Read(sig[:])
	require.NoError(t, err)
	return sig.String()
}

func buyerSession() Session {
	return Session{Wallet: solanatest.NewAddress().String(), Role: models.RoleUser}
}

func paramsFor(page, limit int) utils.PaginationParams {
	return utils.NewPaginationParams(page, limit, "created_at", "desc", "")
}
