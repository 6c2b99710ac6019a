package solana_test

import (
	"context"
	"encoding/base64"
	"testing"

	sol "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budayachain/budaya-backend/internal/royalty"
	"github.com/budayachain/budaya-backend/internal/solana"
	"github.com/budayachain/budaya-backend/internal/solana/solanatest"
)

func newClient(t *testing.T) (*solana.Client, *solanatest.FakeRPC) {
	t.Helper()
	fake := solanatest.NewFakeRPC()
	return solana.NewClient(fake, solana.Options{Network: "devnet"}), fake
}

func TestBuildPurchaseAllParties(t *testing.T) {
	client, fake := newClient(t)

	req := solana.PurchaseRequest{
		Buyer:          solanatest.NewAddress(),
		Seller:         solanatest.NewAddress(),
		Artisan:        solanatest.NewAddress(),
		PlatformWallet: solanatest.NewAddress(),
		DAOTreasury:    solanatest.NewAddress(),
		PriceLamports:  2 * royalty.LamportsPerSol,
		Split:          royalty.DefaultSplit,
	}

	purchase, err := client.BuildPurchase(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, fake.Calls["getLatestBlockhash"])
	assert.Equal(t, fake.Blockhash.String(), purchase.Blockhash)
	require.Len(t, purchase.Transfers, 4)

	assert.Equal(t, req.Seller.String(), purchase.Transfers[0].Recipient)
	assert.Equal(t, uint64(1_800_000_000), purchase.Transfers[0].Lamports)
	assert.Equal(t, uint64(140_000_000), purchase.Transfers[1].Lamports)
	assert.Equal(t, uint64(40_000_000), purchase.Transfers[2].Lamports)
	assert.Equal(t, uint64(20_000_000), purchase.Transfers[3].Lamports)

	var sum uint64
	for _, tr := range purchase.Transfers {
		sum += tr.Lamports
	}
	assert.Equal(t, req.PriceLamports, sum)

	tx := purchase.Tx
	require.NotNil(t, tx)
	assert.Len(t, tx.Message.Instructions, 4)
	assert.True(t, tx.Message.AccountKeys[0].Equals(req.Buyer), "buyer pays fees")
	assert.Equal(t, uint8(1), tx.Message.Header.NumRequiredSignatures)
	require.Len(t, tx.Signatures, 1)
	assert.Equal(t, sol.Signature{}, tx.Signatures[0])
	for _, ix := range tx.Message.Instructions {
		assert.True(t, tx.Message.AccountKeys[ix.ProgramIDIndex].Equals(sol.SystemProgramID))
	}

	raw, err := base64.StdEncoding.DecodeString(purchase.Transaction)
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
}

func TestBuildPurchaseMergesArtisanWhoSells(t *testing.T) {
	client, _ := newClient(t)
	artisan := solanatest.NewAddress()

	purchase, err := client.BuildPurchase(context.Background(), solana.PurchaseRequest{
		Buyer:         solanatest.NewAddress(),
		Seller:        artisan,
		Artisan:       artisan,
		PriceLamports: royalty.LamportsPerSol,
		Split:         royalty.DefaultSplit,
	})
	require.NoError(t, err)

	require.Len(t, purchase.Transfers, 1)
	assert.Equal(t, royalty.LamportsPerSol, int(purchase.Transfers[0].Lamports))
	assert.ElementsMatch(t, []solana.TransferRole{solana.RoleSeller, solana.RoleArtisan}, purchase.Transfers[0].Roles)
	assert.Len(t, purchase.Tx.Message.Instructions, 1)
}

func TestBuildPurchaseUnconfiguredWalletsFoldIntoSeller(t *testing.T) {
	client, _ := newClient(t)

	purchase, err := client.BuildPurchase(context.Background(), solana.PurchaseRequest{
		Buyer:         solanatest.NewAddress(),
		Seller:        solanatest.NewAddress(),
		Artisan:       solanatest.NewAddress(),
		PriceLamports: royalty.LamportsPerSol,
		Split:         royalty.DefaultSplit,
	})
	require.NoError(t, err)

	require.Len(t, purchase.Transfers, 2)
	assert.Equal(t, uint64(930_000_000), purchase.Transfers[0].Lamports)
	assert.Equal(t, uint64(70_000_000), purchase.Transfers[1].Lamports)
}

func TestBuildPurchaseRejectsBadInput(t *testing.T) {
	client, fake := newClient(t)
	buyer := solanatest.NewAddress()

	_, err := client.BuildPurchase(context.Background(), solana.PurchaseRequest{
		Buyer: buyer, Seller: buyer, Artisan: solanatest.NewAddress(),
		PriceLamports: 10, Split: royalty.DefaultSplit,
	})
	assert.ErrorIs(t, err, solana.ErrSelfPurchase)

	_, err = client.BuildPurchase(context.Background(), solana.PurchaseRequest{
		Buyer: buyer, Seller: solanatest.NewAddress(), Artisan: solanatest.NewAddress(),
		Split: royalty.DefaultSplit,
	})
	assert.ErrorIs(t, err, solana.ErrZeroPrice)

	_, err = client.BuildPurchase(context.Background(), solana.PurchaseRequest{
		Buyer: buyer, Seller: solanatest.NewAddress(), Artisan: solanatest.NewAddress(),
		PriceLamports: 10, Split: royalty.Split{ArtisanBps: 10001},
	})
	assert.ErrorIs(t, err, royalty.ErrSplitTooLarge)
	assert.Zero(t, fake.Calls["getLatestBlockhash"])
}

func TestBuildPurchaseRPCFailure(t *testing.T) {
	client, fake := newClient(t)
	fake.Fail = true

	_, err := client.BuildPurchase(context.Background(), solana.PurchaseRequest{
		Buyer: solanatest.NewAddress(), Seller: solanatest.NewAddress(), Artisan: solanatest.NewAddress(),
		PriceLamports: 10_000, Split: royalty.DefaultSplit,
	})
	assert.ErrorIs(t, err, solanatest.ErrUnavailable)
}

func TestAccountExistsAndBalance(t *testing.T) {
	client, fake := newClient(t)
	known := solanatest.NewAddress()
	fake.SetAccount(known, 5*royalty.LamportsPerSol)

	ok, err := client.AccountExists(context.Background(), known)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.AccountExists(context.Background(), solanatest.NewAddress())
	require.NoError(t, err)
	assert.False(t, ok)

	bal, err := client.Balance(context.Background(), known)
	require.NoError(t, err)
	assert.Equal(t, uint64(5*royalty.LamportsPerSol), bal)
}

func TestSignatureConfirmed(t *testing.T) {
	client, fake := newClient(t)

	key, err := sol.NewRandomPrivateKey()
	require.NoError(t, err)
	sig, err := key.Sign([]byte("sale"))
	require.NoError(t, err)

	ok, err := client.SignatureConfirmed(context.Background(), sig.String())
	require.NoError(t, err)
	assert.False(t, ok)

	fake.SetSignature(sig, rpc.ConfirmationStatusProcessed)
	ok, err = client.SignatureConfirmed(context.Background(), sig.String())
	require.NoError(t, err)
	assert.False(t, ok)

	fake.SetSignature(sig, rpc.ConfirmationStatusFinalized)
	ok, err = client.SignatureConfirmed(context.Background(), sig.String())
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = client.SignatureConfirmed(context.Background(), "not-a-signature")
	assert.ErrorIs(t, err, solana.ErrInvalidSignature)
}

func TestAddressParsingAndMessageVerification(t *testing.T) {
	key, err := sol.NewRandomPrivateKey()
	require.NoError(t, err)
	wallet := key.PublicKey().String()

	assert.True(t, solana.IsValidAddress(wallet))
	assert.False(t, solana.IsValidAddress("abc"))
	assert.False(t, solana.IsValidAddress("0000000000000000000000000000000000000000"))

	msg := []byte("sign in to budaya")
	sig, err := key.Sign(msg)
	require.NoError(t, err)

	assert.True(t, solana.VerifyMessage(wallet, sig.String(), msg))
	assert.False(t, solana.VerifyMessage(wallet, sig.String(), []byte("other")))
	assert.False(t, solana.VerifyMessage(solanatest.NewAddress().String(), sig.String(), msg))
}

func TestExplorerURL(t *testing.T) {
	client, _ := newClient(t)
	assert.Equal(t, "https://explorer.solana.com/tx/abc?cluster=devnet", client.ExplorerURL("abc"))
	assert.Equal(t, rpc.DevNet_RPC, solana.Endpoint("devnet", ""))
	assert.Equal(t, "http://custom", solana.Endpoint("mainnet-beta", "http://custom"))
}
