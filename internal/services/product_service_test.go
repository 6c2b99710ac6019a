package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budayachain/budaya-backend/internal/models"
	"github.com/budayachain/budaya-backend/internal/repository"
	"github.com/budayachain/budaya-backend/internal/solana/solanatest"
)

func TestCreateProductDefaults(t *testing.T) {
	f := newFixture(t)
	artisan, session := f.artisan(t, true)

	draft := f.draftProduct(t, artisan, session)
	assert.Equal(t, models.ProductStatusDraft, draft.Status)
	assert.Equal(t, 700, draft.RoyaltyBps)

	listed := f.listedProduct(t, artisan, session)
	assert.Equal(t, models.ProductStatusListed, listed.Status)
	assert.True(t, listed.HasNFT())
}

func TestCreateProductRequiresOwnership(t *testing.T) {
	f := newFixture(t)
	artisan, _ := f.artisan(t, true)

	_, err := f.products().CreateProduct(f.ctx, buyerSession(), &CreateProductRequest{
		ArtisanID: artisan.ID,
		Title:     "Keris",
		Price:     1,
	})
	assert.ErrorIs(t, err, ErrForbidden)

	admin := Session{Wallet: solanatest.NewAddress().String(), Role: models.RoleAdmin}
	product, err := f.products().CreateProduct(f.ctx, admin, &CreateProductRequest{
		ArtisanID:   artisan.ID,
		Title:       "Keris Luk Tujuh",
		Description: "Forged pamor blade with a teak sheath.",
		Images:      []string{"https://images.budayachain.id/keris.jpg"},
		Price:       4,
		Category:    "Perhiasan",
		Region:      "Jawa Tengah",
	})
	require.NoError(t, err)
	assert.Equal(t, artisan.ID, product.ArtisanID)
}

func TestCreateProductRoyaltyOutOfRange(t *testing.T) {
	f := newFixture(t)
	artisan, session := f.artisan(t, true)

	bps := 6000
	_, err := f.products().CreateProduct(f.ctx, session, &CreateProductRequest{
		ArtisanID:  artisan.ID,
		Title:      "Wayang Kulit",
		Price:      1,
		RoyaltyBps: &bps,
	})
	assert.ErrorIs(t, err, ErrRoyaltyOutOfRange)
}

func TestCreateListedProductWithoutNFT(t *testing.T) {
	f := newFixture(t)
	artisan, session := f.artisan(t, true)

	_, err := f.products().CreateProduct(f.ctx, session, &CreateProductRequest{
		ArtisanID: artisan.ID,
		Title:     "Anyaman Pandan",
		Price:     0.3,
		Status:    models.ProductStatusListed,
	})
	assert.ErrorIs(t, err, ErrNFTRequired)
}

func TestCreateProductDuplicateNFT(t *testing.T) {
	f := newFixture(t)
	artisan, session := f.artisan(t, true)
	listed := f.listedProduct(t, artisan, session)

	_, err := f.products().CreateProduct(f.ctx, session, &CreateProductRequest{
		ArtisanID:  artisan.ID,
		Title:      "Copy",
		Price:      1,
		NFTAddress: listed.NFTAddress,
	})
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)
}

func TestUpdateProductTransitions(t *testing.T) {
	f := newFixture(t)
	artisan, session := f.artisan(t, true)
	svc := f.products()

	status := func(s models.ProductStatus) *UpdateProductRequest {
		return &UpdateProductRequest{Status: &s}
	}

	product := f.draftProduct(t, artisan, session)

	updated, err := svc.UpdateProduct(f.ctx, product.ID, session, status(models.ProductStatusMinting))
	require.NoError(t, err)
	assert.Equal(t, models.ProductStatusMinting, updated.Status)

	// listing still needs an nft address
	_, err = svc.UpdateProduct(f.ctx, product.ID, session, status(models.ProductStatusListed))
	assert.ErrorIs(t, err, ErrNFTRequired)

	nft := solanatest.NewAddress().String()
	listed := models.ProductStatusListed
	updated, err = svc.UpdateProduct(f.ctx, product.ID, session, &UpdateProductRequest{Status: &listed, NFTAddress: &nft})
	require.NoError(t, err)
	assert.Equal(t, models.ProductStatusListed, updated.Status)

	_, err = svc.UpdateProduct(f.ctx, product.ID, session, status(models.ProductStatusSold))
	var transition *TransitionError
	require.True(t, errors.As(err, &transition))
	assert.Equal(t, models.ProductStatusListed, transition.From)
	assert.Equal(t, models.ProductStatusSold, transition.To)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	updated, err = svc.UpdateProduct(f.ctx, product.ID, session, status(models.ProductStatusDraft))
	require.NoError(t, err)
	assert.Equal(t, models.ProductStatusDraft, updated.Status)
}

func TestUpdateSoldProductIsFrozen(t *testing.T) {
	f := newFixture(t)
	artisan, session := f.artisan(t, true)
	product := f.listedProduct(t, artisan, session)

	buyer := buyerSession()
	txs := NewTransactionService(f.store, f.chain, f.cfg, nil)
	_, err := txs.RecordTransaction(f.ctx, buyer, &RecordTransactionRequest{
		ProductID:    product.ID,
		BuyerWallet:  buyer.Wallet,
		SellerWallet: artisan.WalletAddress,
		Amount:       2.5,
		TxSignature:  newSignature(t),
	})
	require.NoError(t, err)

	title := "Renamed"
	_, err = f.products().UpdateProduct(f.ctx, product.ID, session, &UpdateProductRequest{Title: &title})
	assert.ErrorIs(t, err, ErrProductSold)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	draft := models.ProductStatusDraft
	_, err = f.products().UpdateProduct(f.ctx, product.ID, session, &UpdateProductRequest{Status: &draft})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

// sellOnRead records a sale right after the first product read, the way a
// purchase racing an edit would.
type sellOnRead struct {
	repository.ProductRepository
	sell func()
}

func (r *sellOnRead) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := r.ProductRepository.GetByID(ctx, id)
	if r.sell != nil {
		r.sell()
		r.sell = nil
	}
	return product, err
}

func TestUpdateProductLosesToConcurrentSale(t *testing.T) {
	f := newFixture(t)
	artisan, session := f.artisan(t, true)
	product := f.listedProduct(t, artisan, session)

	f.store.Products = &sellOnRead{
		ProductRepository: f.store.Products,
		sell: func() {
			require.NoError(t, f.store.Transactions.Record(f.ctx, &models.Transaction{
				ProductID:    product.ID,
				BuyerWallet:  buyerSession().Wallet,
				SellerWallet: artisan.WalletAddress,
				Amount:       product.Price,
				TxSignature:  newSignature(t),
			}))
		},
	}

	title := "Kain Tenun Ikat Sumba Baru"
	_, err := f.products().UpdateProduct(f.ctx, product.ID, session, &UpdateProductRequest{Title: &title})
	assert.ErrorIs(t, err, ErrProductChanged)

	stored, err := f.store.Products.GetByID(f.ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProductStatusSold, stored.Status)
	assert.NotEqual(t, title, stored.Title)
}

func TestUpdateProductForbidden(t *testing.T) {
	f := newFixture(t)
	artisan, session := f.artisan(t, true)
	product := f.draftProduct(t, artisan, session)

	title := "Hijacked"
	_, err := f.products().UpdateProduct(f.ctx, product.ID, buyerSession(), &UpdateProductRequest{Title: &title})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSearchProductsOnlyListed(t *testing.T) {
	f := newFixture(t)
	artisan, session := f.artisan(t, true)
	f.draftProduct(t, artisan, session)
	listed := f.listedProduct(t, artisan, session)

	found, total, err := f.products().SearchProducts(f.ctx, "tenun", paramsFor(1, 20))
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, found, 1)
	assert.Equal(t, listed.ID, found[0].ID)

	found, total, err = f.products().SearchProducts(f.ctx, "barong", paramsFor(1, 20))
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, found)
}
