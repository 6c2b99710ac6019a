// internal/services/transaction_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/budayachain/budaya-backend/internal/config"
	"github.com/budayachain/budaya-backend/internal/metrics"
	"github.com/budayachain/budaya-backend/internal/models"
	"github.com/budayachain/budaya-backend/internal/repository"
	"github.com/budayachain/budaya-backend/internal/royalty"
	"github.com/budayachain/budaya-backend/internal/solana"
)

// lamportTolerance absorbs client-side float rounding of amount and
// royalty_paid.
const lamportTolerance = 1

type TransactionService struct {
	store   *repository.Store
	chain   *solana.Client
	config  *config.Config
	metrics *metrics.Metrics
}

type RecordTransactionRequest struct {
	ProductID    uuid.UUID `json:"product_id" validate:"required"`
	BuyerWallet  string    `json:"buyer_wallet" validate:"required,solana_address"`
	SellerWallet string    `json:"seller_wallet" validate:"required,solana_address,nefield=BuyerWallet"`
	Amount       float64   `json:"amount" validate:"required,gt=0"`
	RoyaltyPaid  *float64  `json:"royalty_paid,omitempty" validate:"omitempty,gte=0"`
	TxSignature  string    `json:"tx_signature" validate:"required,tx_signature"`
}

type RecordedTransaction struct {
	Transaction *models.Transaction `json:"transaction"`
	ExplorerURL string              `json:"explorer_url"`
}

func NewTransactionService(store *repository.Store, chain *solana.Client, cfg *config.Config, m *metrics.Metrics) *TransactionService {
	return &TransactionService{
		store:   store,
		chain:   chain,
		config:  cfg,
		metrics: m,
	}
}

func (s *TransactionService) split(productBps int) royalty.Split {
	return royalty.Split{
		ArtisanBps:  productBps,
		PlatformBps: s.config.Royalty.PlatformBps,
		DAOBps:      s.config.Royalty.DAOBps,
	}
}

// RecordTransaction stores a settled sale and marks the product sold. The
// amount must match the listing price and the seller must be the owning
// artisan. The distribution is recomputed server side; a client supplied
// royalty_paid must agree with it.
func (s *TransactionService) RecordTransaction(ctx context.Context, session Session, req *RecordTransactionRequest) (*RecordedTransaction, error) {
	if !session.Owns(req.BuyerWallet) {
		return nil, ErrForbidden
	}

	product, err := s.store.Products.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product.Status != models.ProductStatusListed {
		return nil, ErrProductNotListed
	}
	if product.Artisan == nil || req.SellerWallet != product.Artisan.WalletAddress {
		return nil, ErrSellerMismatch
	}

	lamports := royalty.SolToLamports(req.Amount)
	if price := royalty.SolToLamports(product.Price); diff(lamports, price) > lamportTolerance {
		return nil, fmt.Errorf("%w: paid %d lamports, listed at %d", ErrPriceMismatch, lamports, price)
	}
	dist, err := royalty.Distribute(lamports, s.split(product.RoyaltyBps))
	if err != nil {
		return nil, fmt.Errorf("failed to compute distribution: %w", err)
	}

	if req.RoyaltyPaid != nil {
		paid := royalty.SolToLamports(*req.RoyaltyPaid)
		if diff(paid, dist.Total) > lamportTolerance {
			return nil, fmt.Errorf("%w: paid %d lamports, expected %d", ErrRoyaltyMismatch, paid, dist.Total)
		}
	}

	if s.config.Solana.VerifySignatures {
		confirmed, err := s.chain.SignatureConfirmed(ctx, req.TxSignature)
		if err != nil {
			return nil, fmt.Errorf("failed to confirm transaction: %w", err)
		}
		if !confirmed {
			return nil, ErrUnconfirmed
		}
	}

	sale := &models.Transaction{
		ProductID:      product.ID,
		BuyerWallet:    req.BuyerWallet,
		SellerWallet:   req.SellerWallet,
		Amount:         req.Amount,
		RoyaltyPaid:    royalty.LamportsToSol(dist.Total),
		ArtisanAmount:  royalty.LamportsToSol(dist.Artisan),
		PlatformAmount: royalty.LamportsToSol(dist.Platform),
		DAOAmount:      royalty.LamportsToSol(dist.DAO),
		TxSignature:    req.TxSignature,
	}

	if err := s.store.Transactions.Record(ctx, sale); err != nil {
		if errors.Is(err, repository.ErrInvalidState) {
			return nil, ErrProductNotListed
		}
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	s.metrics.RecordSale(sale.Amount)
	logrus.WithFields(logrus.Fields{
		"transaction_id": sale.ID,
		"product_id":     product.ID,
		"amount":         sale.Amount,
		"royalty":        sale.RoyaltyPaid,
		"signature":      sale.TxSignature,
	}).Info("Sale recorded")

	return &RecordedTransaction{
		Transaction: sale,
		ExplorerURL: s.chain.ExplorerURL(sale.TxSignature),
	}, nil
}

func (s *TransactionService) ListTransactions(ctx context.Context, filter repository.TransactionFilter) ([]models.Transaction, int64, error) {
	sales, total, err := s.store.Transactions.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return sales, total, nil
}

func diff(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}
