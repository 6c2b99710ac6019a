// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired         = "auth.required"
	KeyAuthInvalidToken     = "auth.invalid_token"
	KeyAuthInvalidSignature = "auth.invalid_signature"
	KeyAuthChallengeIssued  = "auth.challenge_issued"
	KeyAuthLoginSuccess     = "auth.login_success"
	KeyAuthWalletMismatch   = "auth.wallet_mismatch"

	// Artisans
	KeyArtisanRegistered  = "artisan.registered"
	KeyArtisanUpdated     = "artisan.updated"
	KeyArtisanNotFound    = "artisan.not_found"
	KeyArtisanExists      = "artisan.exists"
	KeyArtisanVerified    = "artisan.verified"
	KeyArtisanNotVerified = "artisan.not_verified"
	KeyArtisanUnverified  = "artisan.unverified"

	// Products
	KeyProductCreated           = "product.created"
	KeyProductUpdated           = "product.updated"
	KeyProductNotFound          = "product.not_found"
	KeyProductInvalidTransition = "product.invalid_transition"
	KeyProductNotListed         = "product.not_listed"
	KeyProductNoNFT             = "product.no_nft"
	KeyProductNFTTaken          = "product.nft_taken"
	KeyProductSold              = "product.sold"
	KeyProductChanged           = "product.changed"

	// Transactions
	KeyTransactionRecorded    = "transaction.recorded"
	KeyTransactionNotFound    = "transaction.not_found"
	KeyTransactionDuplicate   = "transaction.duplicate"
	KeyTransactionUnconfirmed = "transaction.unconfirmed"
	KeyTransactionRoyalty     = "transaction.royalty_mismatch"
	KeyTransactionPrice       = "transaction.price_mismatch"
	KeyTransactionSeller      = "transaction.seller_mismatch"

	// DAO
	KeyProposalCreated   = "proposal.created"
	KeyProposalNotFound  = "proposal.not_found"
	KeyProposalClosed    = "proposal.closed"
	KeyProposalFinalized = "proposal.finalized"
	KeyProposalExecuted  = "proposal.executed"
	KeyVoteCast          = "vote.cast"
	KeyVoteDuplicate     = "vote.duplicate"

	// Blockchain
	KeyBlockchainUnavailable = "blockchain.unavailable"
	KeyNFTNotFound           = "nft.not_found"
	KeyNFTVerified           = "nft.verified"
	KeyNFTOffChain           = "nft.off_chain"
	KeyPurchasePrepared      = "purchase.prepared"
	KeyMintPrepared          = "mint.prepared"
	KeyPurchaseSelf          = "purchase.self"
	KeyPurchaseZeroPrice     = "purchase.zero_price"
	KeyWalletInvalid         = "wallet.invalid"

	// QR verification
	KeyQRInvalid     = "qr.invalid"
	KeyQRExpired     = "qr.expired"
	KeyQRCounterfeit = "qr.counterfeit"
	KeyQRTampered    = "qr.tampered"
	KeyQRAuthentic   = "qr.authentic"

	// Uploads
	KeyStorageDisabled = "storage.disabled"
	KeyUploadSuccess   = "upload.success"
	KeyUploadInvalid   = "upload.invalid"

	// Admin
	KeyAdminAccessDenied = "admin.access_denied"

	// Reports
	KeyReportInvalidPeriod = "report.invalid_period"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"

	// Rate limiting
	KeyRateLimitExceeded = "rate_limit.exceeded"

	// Generic
	KeyInternalError = "internal.error"
)
