// internal/services/errors.go
package services

import (
	"errors"
	"fmt"

	"github.com/budayachain/budaya-backend/internal/models"
)

var (
	ErrForbidden          = errors.New("wallet is not allowed to modify this resource")
	ErrInvalidTransition  = errors.New("invalid product status transition")
	ErrProductSold        = fmt.Errorf("%w: sold products are frozen", ErrInvalidTransition)
	ErrProductChanged     = errors.New("product was changed by another request")
	ErrNFTRequired        = errors.New("product has no nft address")
	ErrProductNotListed   = errors.New("product is not listed for sale")
	ErrArtisanNotVerified = errors.New("artisan is not verified")
	ErrRoyaltyMismatch    = errors.New("royalty paid does not match the distribution")
	ErrPriceMismatch      = errors.New("amount does not match the listing price")
	ErrSellerMismatch     = errors.New("seller is not the artisan of this product")
	ErrUnconfirmed        = errors.New("transaction is not confirmed on chain")
	ErrAlreadyVoted       = errors.New("wallet has already voted on this proposal")
	ErrProposalClosed     = errors.New("proposal is not open for this action")
	ErrInvalidSignature   = errors.New("wallet signature could not be verified")
	ErrWalletMismatch     = errors.New("wallet does not match the challenge")
	ErrInvalidQR          = errors.New("invalid qr payload")
	ErrStorageDisabled    = errors.New("object storage is not configured")
	ErrRoyaltyOutOfRange  = errors.New("royalty basis points out of range")
	ErrInvalidUpload      = errors.New("invalid upload")
	ErrInvalidPeriod      = errors.New("invalid report period")
)

// TransitionError reports a rejected product status change.
type TransitionError struct {
	From models.ProductStatus
	To   models.ProductStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s to %s", ErrInvalidTransition, e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
