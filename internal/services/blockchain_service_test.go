package services

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budayachain/budaya-backend/internal/models"
	"github.com/budayachain/budaya-backend/internal/royalty"
	"github.com/budayachain/budaya-backend/internal/solana"
	"github.com/budayachain/budaya-backend/internal/solana/solanatest"
)

func (f *fixture) blockchain(storage *StorageService) *BlockchainService {
	return NewBlockchainService(f.store, f.chain, storage, f.products(), f.cfg)
}

func disabledStorage(t *testing.T) *StorageService {
	t.Helper()
	svc, err := NewStorageService(testAWSConfig)
	require.NoError(t, err)
	return svc
}

func TestPrepareMintUploadsMetadata(t *testing.T) {
	f := newFixture(t)
	artisan, session := f.artisan(t, true)
	product := f.draftProduct(t, artisan, session)
	client := newFakeS3()
	svc := f.blockchain(NewStorageServiceWithClient(client, testAWSConfig))

	pct := 10.0
	prep, err := svc.PrepareMint(f.ctx, session, &PrepareMintRequest{ProductID: product.ID, RoyaltyPercentage: &pct})
	require.NoError(t, err)

	assert.True(t, prep.Uploaded)
	assert.Equal(t, models.ProductStatusMinting, prep.Product.Status)
	assert.Equal(t, 1000, prep.Product.RoyaltyBps)
	assert.Equal(t, "https://cdn.budayachain.id/metadata/"+product.ID.String()+".json", prep.MetadataURI)

	stored := client.objects["metadata/"+product.ID.String()+".json"]
	require.NotEmpty(t, stored)
	var metadata NFTMetadata
	require.NoError(t, json.Unmarshal(stored, &metadata))
	assert.Equal(t, "BDYA", metadata.Symbol)
	assert.Equal(t, 1000, metadata.SellerFeeBasisPoints)
	require.Len(t, metadata.Properties.Creators, 1)
	assert.Equal(t, artisan.WalletAddress, metadata.Properties.Creators[0].Address)
	assert.Equal(t, "https://budayachain.id/products/"+product.ID.String(), metadata.ExternalURL)
}

func TestPrepareMintWithoutStorage(t *testing.T) {
	f := newFixture(t)
	artisan, session := f.artisan(t, true)
	product := f.draftProduct(t, artisan, session)

	prep, err := f.blockchain(disabledStorage(t)).PrepareMint(f.ctx, session, &PrepareMintRequest{ProductID: product.ID})
	require.NoError(t, err)
	assert.False(t, prep.Uploaded)
	assert.Empty(t, prep.MetadataURI)
	assert.Equal(t, "Topeng Barong", prep.Metadata.Name)
}

func TestPrepareMintChecks(t *testing.T) {
	f := newFixture(t)
	svc := f.blockchain(disabledStorage(t))

	unverified, session := f.artisan(t, false)
	product := f.draftProduct(t, unverified, session)
	_, err := svc.PrepareMint(f.ctx, session, &PrepareMintRequest{ProductID: product.ID})
	assert.ErrorIs(t, err, ErrArtisanNotVerified)

	verified, owner := f.artisan(t, true)
	listed := f.listedProduct(t, verified, owner)
	_, err = svc.PrepareMint(f.ctx, owner, &PrepareMintRequest{ProductID: listed.ID})
	var transition *TransitionError
	require.True(t, errors.As(err, &transition))
	assert.Equal(t, models.ProductStatusMinting, transition.To)

	draft := f.draftProduct(t, verified, owner)
	_, err = svc.PrepareMint(f.ctx, buyerSession(), &PrepareMintRequest{ProductID: draft.ID})
	assert.ErrorIs(t, err, ErrForbidden)

	pct := 60.0
	_, err = svc.PrepareMint(f.ctx, owner, &PrepareMintRequest{ProductID: draft.ID, RoyaltyPercentage: &pct})
	assert.ErrorIs(t, err, ErrRoyaltyOutOfRange)
}

func TestPreparePurchase(t *testing.T) {
	f := newFixture(t)
	artisan, session := f.artisan(t, true)
	product := f.listedProduct(t, artisan, session)
	buyer := buyerSession()

	quote, err := f.blockchain(disabledStorage(t)).PreparePurchase(f.ctx, buyer, &PreparePurchaseRequest{ProductID: product.ID})
	require.NoError(t, err)

	assert.Equal(t, "devnet", quote.Network)
	assert.NotEmpty(t, quote.Transaction)
	assert.Equal(t, f.rpc.Blockhash.String(), quote.Blockhash)

	dist := quote.Distribution
	assert.Equal(t, uint64(2_250_000_000), dist.Seller)
	assert.Equal(t, uint64(175_000_000), dist.Artisan)
	assert.Equal(t, uint64(50_000_000), dist.Platform)
	assert.Equal(t, uint64(25_000_000), dist.DAO)
	assert.Equal(t, royalty.SolToLamports(product.Price), dist.Seller+dist.Total)

	// the artisan is also the seller, so their transfers merge
	require.Len(t, quote.Transfers, 3)
	assert.Equal(t, artisan.WalletAddress, quote.Transfers[0].Recipient)
	assert.Equal(t, dist.Seller+dist.Artisan, quote.Transfers[0].Lamports)
	assert.Equal(t, []solana.TransferRole{solana.RoleSeller, solana.RoleArtisan}, quote.Transfers[0].Roles)
	assert.Equal(t, f.cfg.Solana.PlatformWallet, quote.Transfers[1].Recipient)
	assert.Equal(t, f.cfg.Solana.DAOTreasury, quote.Transfers[2].Recipient)

	assert.InDelta(t, 0.25, quote.DistributionSol["royalty"], 1e-9)
}

func TestPreparePurchaseChecks(t *testing.T) {
	f := newFixture(t)
	artisan, session := f.artisan(t, true)
	svc := f.blockchain(disabledStorage(t))

	draft := f.draftProduct(t, artisan, session)
	_, err := svc.PreparePurchase(f.ctx, buyerSession(), &PreparePurchaseRequest{ProductID: draft.ID})
	assert.ErrorIs(t, err, ErrProductNotListed)

	listed := f.listedProduct(t, artisan, session)
	_, err = svc.PreparePurchase(f.ctx, session, &PreparePurchaseRequest{ProductID: listed.ID})
	assert.ErrorIs(t, err, solana.ErrSelfPurchase)

	_, err = svc.PreparePurchase(f.ctx, buyerSession(), &PreparePurchaseRequest{
		ProductID:   listed.ID,
		BuyerWallet: solanatest.NewAddress().String(),
	})
	assert.ErrorIs(t, err, ErrForbidden)

	f.rpc.Fail = true
	_, err = svc.PreparePurchase(f.ctx, buyerSession(), &PreparePurchaseRequest{ProductID: listed.ID})
	assert.ErrorIs(t, err, solanatest.ErrUnavailable)
}

func TestVerifyNFT(t *testing.T) {
	f := newFixture(t)
	artisan, session := f.artisan(t, true)
	product := f.listedProduct(t, artisan, session)
	svc := f.blockchain(disabledStorage(t))

	result, err := svc.VerifyNFT(f.ctx, *product.NFTAddress)
	require.NoError(t, err)
	assert.True(t, result.Registered)
	require.NotNil(t, result.OnChain)
	assert.False(t, *result.OnChain)
	assert.False(t, result.Authentic)
	assert.True(t, result.ArtisanVerified)

	pk, err := solana.ParseAddress(*product.NFTAddress)
	require.NoError(t, err)
	f.rpc.SetAccount(pk, 1_461_600)

	result, err = svc.VerifyNFT(f.ctx, *product.NFTAddress)
	require.NoError(t, err)
	assert.True(t, *result.OnChain)
	assert.True(t, result.Authentic)

	f.rpc.Fail = true
	result, err = svc.VerifyNFT(f.ctx, *product.NFTAddress)
	require.NoError(t, err)
	assert.Nil(t, result.OnChain)
	assert.NotEmpty(t, result.Warning)
}

func TestTreasuryBalance(t *testing.T) {
	f := newFixture(t)
	pk, err := solana.ParseAddress(f.cfg.Solana.DAOTreasury)
	require.NoError(t, err)
	f.rpc.SetAccount(pk, 3*royalty.LamportsPerSol/2)

	treasury, err := f.blockchain(disabledStorage(t)).Treasury(f.ctx)
	require.NoError(t, err)
	assert.True(t, treasury.Configured)
	assert.Equal(t, uint64(1_500_000_000), treasury.Lamports)
	assert.InDelta(t, 1.5, treasury.Sol, 1e-9)

	f.cfg.Solana.DAOTreasury = ""
	treasury, err = f.blockchain(disabledStorage(t)).Treasury(f.ctx)
	require.NoError(t, err)
	assert.False(t, treasury.Configured)
}

func TestEstimateRoyalty(t *testing.T) {
	f := newFixture(t)
	svc := f.blockchain(disabledStorage(t))

	estimate, err := svc.EstimateRoyalty(&RoyaltyEstimateRequest{Price: 2})
	require.NoError(t, err)
	assert.InDelta(t, 0.14, estimate.PerSale, 1e-12)
	assert.InDelta(t, 1.68, estimate.Yearly, 1e-12)
	assert.InDelta(t, 0.14, estimate.Monthly, 1e-12)

	bps := 1000
	estimate, err = svc.EstimateRoyalty(&RoyaltyEstimateRequest{Price: 2, RoyaltyBps: &bps, ExpectedSales: 5})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, estimate.Total, 1e-12)

	bps = 5001
	_, err = svc.EstimateRoyalty(&RoyaltyEstimateRequest{Price: 2, RoyaltyBps: &bps})
	assert.ErrorIs(t, err, ErrRoyaltyOutOfRange)
}
