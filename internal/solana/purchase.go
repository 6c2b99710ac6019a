// internal/solana/purchase.go
package solana

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	sol "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"

	"github.com/budayachain/budaya-backend/internal/royalty"
)

var (
	ErrSelfPurchase = errors.New("buyer and seller must differ")
	ErrZeroPrice    = errors.New("purchase price must be positive")
)

type TransferRole string

const (
	RoleSeller   TransferRole = "seller"
	RoleArtisan  TransferRole = "artisan"
	RolePlatform TransferRole = "platform"
	RoleDAO      TransferRole = "dao"
)

type PurchaseRequest struct {
	Buyer         sol.PublicKey
	Seller        sol.PublicKey
	Artisan       sol.PublicKey
	PriceLamports uint64
	Split         royalty.Split

	// Zero keys mean the wallet is not configured; its share then goes to
	// the seller.
	PlatformWallet sol.PublicKey
	DAOTreasury    sol.PublicKey
}

type Transfer struct {
	Recipient string         `json:"recipient"`
	Lamports  uint64         `json:"lamports"`
	Roles     []TransferRole `json:"roles"`
}

type Purchase struct {
	Transaction          string               `json:"transaction"`
	Distribution         royalty.Distribution `json:"distribution"`
	Transfers            []Transfer           `json:"transfers"`
	Blockhash            string               `json:"blockhash"`
	LastValidBlockHeight uint64               `json:"last_valid_block_height"`

	Tx *sol.Transaction `json:"-"`
}

// planTransfers turns a distribution into buyer-funded transfers. Shares
// bound for the same wallet are merged and zero amounts are dropped.
func planTransfers(req PurchaseRequest, dist royalty.Distribution) (map[sol.PublicKey]*Transfer, []sol.PublicKey) {
	byRecipient := make(map[sol.PublicKey]*Transfer)
	var order []sol.PublicKey

	add := func(to sol.PublicKey, lamports uint64, role TransferRole) {
		if lamports == 0 {
			return
		}
		t, ok := byRecipient[to]
		if !ok {
			t = &Transfer{Recipient: to.String()}
			byRecipient[to] = t
			order = append(order, to)
		}
		t.Lamports += lamports
		t.Roles = append(t.Roles, role)
	}

	sellerAmount := dist.Seller
	if req.PlatformWallet.IsZero() {
		sellerAmount += dist.Platform
	}
	if req.DAOTreasury.IsZero() {
		sellerAmount += dist.DAO
	}

	add(req.Seller, sellerAmount, RoleSeller)
	add(req.Artisan, dist.Artisan, RoleArtisan)
	if !req.PlatformWallet.IsZero() {
		add(req.PlatformWallet, dist.Platform, RolePlatform)
	}
	if !req.DAOTreasury.IsZero() {
		add(req.DAOTreasury, dist.DAO, RoleDAO)
	}

	return byRecipient, order
}

// BuildPurchase assembles the unsigned purchase transaction. The buyer
// pays fees and funds every transfer; the caller's wallet signs it.
func (c *Client) BuildPurchase(ctx context.Context, req PurchaseRequest) (*Purchase, error) {
	if req.PriceLamports == 0 {
		return nil, ErrZeroPrice
	}
	if req.Buyer.Equals(req.Seller) {
		return nil, ErrSelfPurchase
	}

	dist, err := royalty.Distribute(req.PriceLamports, req.Split)
	if err != nil {
		return nil, fmt.Errorf("failed to compute distribution: %w", err)
	}

	byRecipient, order := planTransfers(req, dist)

	instructions := make([]sol.Instruction, 0, len(order))
	transfers := make([]Transfer, 0, len(order))
	for _, to := range order {
		t := byRecipient[to]
		instructions = append(instructions, system.NewTransferInstruction(t.Lamports, req.Buyer, to).Build())
		transfers = append(transfers, *t)
	}

	blockhash, lastValid, err := c.LatestBlockhash(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := sol.NewTransaction(instructions, blockhash, sol.TransactionPayer(req.Buyer))
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction: %w", err)
	}
	// Wallets expect one empty slot per required signer.
	tx.Signatures = make([]sol.Signature, tx.Message.Header.NumRequiredSignatures)

	raw, err := tx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize transaction: %w", err)
	}

	return &Purchase{
		Transaction:          base64.StdEncoding.EncodeToString(raw),
		Distribution:         dist,
		Transfers:            transfers,
		Blockhash:            blockhash.String(),
		LastValidBlockHeight: lastValid,
		Tx:                   tx,
	}, nil
}
