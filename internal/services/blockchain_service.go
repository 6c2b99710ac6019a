// internal/services/blockchain_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	sol "github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/budayachain/budaya-backend/internal/config"
	"github.com/budayachain/budaya-backend/internal/models"
	"github.com/budayachain/budaya-backend/internal/repository"
	"github.com/budayachain/budaya-backend/internal/royalty"
	"github.com/budayachain/budaya-backend/internal/solana"
)

const (
	nftSymbol            = "BDYA"
	maxNFTNameLength     = 32
	maxRoyaltyPercent    = 50
	balanceDisplayDigits = 4
	defaultExpectedSales = 12
)

type BlockchainService struct {
	store    *repository.Store
	chain    *solana.Client
	storage  *StorageService
	products *ProductService
	config   *config.Config
}

type PreparePurchaseRequest struct {
	ProductID   uuid.UUID `json:"product_id" validate:"required"`
	BuyerWallet string    `json:"buyer_wallet,omitempty" validate:"omitempty,solana_address"`
}

type PurchaseQuote struct {
	ProductID       uuid.UUID          `json:"product_id"`
	PriceSol        float64            `json:"price_sol"`
	Network         string             `json:"network"`
	DistributionSol map[string]float64 `json:"distribution_sol"`
	*solana.Purchase
}

type PrepareMintRequest struct {
	ProductID         uuid.UUID `json:"product_id" validate:"required"`
	RoyaltyPercentage *float64  `json:"royalty_percentage,omitempty" validate:"omitempty,gte=0,lte=50"`
}

// NFTMetadata follows the Metaplex token metadata JSON standard.
type NFTMetadata struct {
	Name                 string         `json:"name"`
	Symbol               string         `json:"symbol"`
	Description          string         `json:"description"`
	Image                string         `json:"image"`
	ExternalURL          string         `json:"external_url"`
	SellerFeeBasisPoints int            `json:"seller_fee_basis_points"`
	Attributes           []NFTAttribute `json:"attributes"`
	Properties           NFTProperties  `json:"properties"`
}

type NFTAttribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

type NFTProperties struct {
	Files    []NFTFile    `json:"files"`
	Category string       `json:"category"`
	Creators []NFTCreator `json:"creators"`
}

type NFTFile struct {
	URI  string `json:"uri"`
	Type string `json:"type"`
}

type NFTCreator struct {
	Address string `json:"address"`
	Share   int    `json:"share"`
}

type MintPreparation struct {
	Product     *models.Product `json:"product"`
	Metadata    NFTMetadata     `json:"metadata"`
	MetadataURI string          `json:"metadata_uri,omitempty"`
	Uploaded    bool            `json:"uploaded"`
	Network     string          `json:"network"`
}

type MintRequirements struct {
	Network               string   `json:"network"`
	Symbol                string   `json:"symbol"`
	MaxRoyaltyPercentage  int      `json:"max_royalty_percentage"`
	RequiredFields        []string `json:"required_fields"`
	ArtisanMustBeVerified bool     `json:"artisan_must_be_verified"`
	StorageEnabled        bool     `json:"storage_enabled"`
	Categories            []string `json:"categories"`
	Regions               []string `json:"regions"`
}

// RoyaltyEstimateRequest projects royalty income for a price before
// minting. RoyaltyBps defaults to the configured artisan share.
type RoyaltyEstimateRequest struct {
	Price         float64 `form:"price" json:"price" validate:"gt=0"`
	RoyaltyBps    *int    `form:"royalty_bps" json:"royalty_bps,omitempty"`
	ExpectedSales int     `form:"expected_sales" json:"expected_sales" validate:"gte=0"`
}

type NFTVerification struct {
	NFTAddress      string          `json:"nft_address"`
	Registered      bool            `json:"registered"`
	OnChain         *bool           `json:"on_chain"`
	Authentic       bool            `json:"authentic"`
	ArtisanVerified bool            `json:"artisan_verified"`
	Product         *models.Product `json:"product,omitempty"`
	ExplorerURL     string          `json:"explorer_url"`
	Warning         string          `json:"warning,omitempty"`
}

type WalletBalance struct {
	Wallet      string  `json:"wallet"`
	Lamports    uint64  `json:"lamports"`
	Sol         float64 `json:"sol"`
	Formatted   string  `json:"formatted"`
	Network     string  `json:"network"`
	ExplorerURL string  `json:"explorer_url"`
}

type TreasuryBalance struct {
	Configured bool `json:"configured"`
	*WalletBalance
}

func NewBlockchainService(store *repository.Store, chain *solana.Client, storage *StorageService, products *ProductService, cfg *config.Config) *BlockchainService {
	return &BlockchainService{
		store:    store,
		chain:    chain,
		storage:  storage,
		products: products,
		config:   cfg,
	}
}

// optionalWallet parses a configured wallet; empty means unconfigured.
func optionalWallet(name, address string) (sol.PublicKey, error) {
	if address == "" {
		return sol.PublicKey{}, nil
	}
	pk, err := solana.ParseAddress(address)
	if err != nil {
		return sol.PublicKey{}, fmt.Errorf("invalid %s: %w", name, err)
	}
	return pk, nil
}

// PreparePurchase builds the unsigned primary-sale transaction for a
// listed product. The artisan is the seller.
func (s *BlockchainService) PreparePurchase(ctx context.Context, session Session, req *PreparePurchaseRequest) (*PurchaseQuote, error) {
	buyerWallet := session.Wallet
	if req.BuyerWallet != "" {
		if !session.Owns(req.BuyerWallet) {
			return nil, ErrForbidden
		}
		buyerWallet = req.BuyerWallet
	}

	product, err := s.store.Products.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product.Status != models.ProductStatusListed {
		return nil, ErrProductNotListed
	}
	if product.Artisan == nil {
		return nil, fmt.Errorf("product %s has no artisan: %w", product.ID, repository.ErrNotFound)
	}

	buyer, err := solana.ParseAddress(buyerWallet)
	if err != nil {
		return nil, err
	}
	artisan, err := solana.ParseAddress(product.Artisan.WalletAddress)
	if err != nil {
		return nil, fmt.Errorf("artisan wallet: %w", err)
	}
	platform, err := optionalWallet("platform wallet", s.config.Solana.PlatformWallet)
	if err != nil {
		return nil, err
	}
	treasury, err := optionalWallet("DAO treasury", s.config.Solana.DAOTreasury)
	if err != nil {
		return nil, err
	}

	purchase, err := s.chain.BuildPurchase(ctx, solana.PurchaseRequest{
		Buyer:         buyer,
		Seller:        artisan,
		Artisan:       artisan,
		PriceLamports: royalty.SolToLamports(product.Price),
		Split: royalty.Split{
			ArtisanBps:  product.RoyaltyBps,
			PlatformBps: s.config.Royalty.PlatformBps,
			DAOBps:      s.config.Royalty.DAOBps,
		},
		PlatformWallet: platform,
		DAOTreasury:    treasury,
	})
	if err != nil {
		return nil, err
	}

	dist := purchase.Distribution
	logrus.WithFields(logrus.Fields{
		"product_id": product.ID,
		"buyer":      buyerWallet,
		"lamports":   dist.Total + dist.Seller,
	}).Info("Purchase transaction prepared")

	return &PurchaseQuote{
		ProductID: product.ID,
		PriceSol:  product.Price,
		Network:   s.chain.Network(),
		DistributionSol: map[string]float64{
			"seller":   royalty.LamportsToSol(dist.Seller),
			"artisan":  royalty.LamportsToSol(dist.Artisan),
			"platform": royalty.LamportsToSol(dist.Platform),
			"dao":      royalty.LamportsToSol(dist.DAO),
			"royalty":  royalty.LamportsToSol(dist.Total),
		},
		Purchase: purchase,
	}, nil
}

// VerifyNFT checks an nft address against the registry and the chain. An
// unreachable RPC leaves OnChain nil rather than failing the lookup.
func (s *BlockchainService) VerifyNFT(ctx context.Context, address string) (*NFTVerification, error) {
	pk, err := solana.ParseAddress(address)
	if err != nil {
		return nil, err
	}

	product, err := s.store.Products.GetByNFTAddress(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to look up nft: %w", err)
	}

	result := &NFTVerification{
		NFTAddress:  address,
		Registered:  true,
		Product:     product,
		ExplorerURL: s.chain.ExplorerAddressURL(address),
	}
	if product.Artisan != nil {
		result.ArtisanVerified = product.Artisan.Verified
	}

	exists, err := s.chain.AccountExists(ctx, pk)
	if err != nil {
		logrus.WithError(err).WithField("nft", address).Warn("On-chain lookup failed")
		result.Warning = "on-chain lookup unavailable"
		return result, nil
	}
	result.OnChain = &exists
	result.Authentic = exists
	return result, nil
}

// PrepareMint validates a product for minting, builds its metadata and
// moves it to minting. The metadata is uploaded when storage is enabled.
func (s *BlockchainService) PrepareMint(ctx context.Context, session Session, req *PrepareMintRequest) (*MintPreparation, error) {
	product, err := s.store.Products.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product.Artisan == nil || !session.Owns(product.Artisan.WalletAddress) {
		return nil, ErrForbidden
	}
	if !product.Artisan.Verified {
		return nil, ErrArtisanNotVerified
	}
	if !product.Status.CanTransitionTo(models.ProductStatusMinting) {
		return nil, &TransitionError{From: product.Status, To: models.ProductStatusMinting}
	}

	if req.RoyaltyPercentage != nil {
		bps := int(math.Round(*req.RoyaltyPercentage * 100))
		if err := s.products.checkRoyalty(bps); err != nil {
			return nil, err
		}
		product.RoyaltyBps = bps
	}

	metadata := s.buildMetadata(product)
	prep := &MintPreparation{
		Metadata: metadata,
		Network:  s.chain.Network(),
	}

	var metadataKey string
	if s.storage.Enabled() {
		metadataKey = "metadata/" + product.ID.String() + ".json"
		upload, err := s.storage.UploadJSON(ctx, metadataKey, metadata)
		if err != nil {
			return nil, err
		}
		product.MetadataURI = upload.URL
		prep.MetadataURI = upload.URL
		prep.Uploaded = true
	}

	from := product.Status
	product.Status = models.ProductStatusMinting
	if err := s.store.Products.Save(ctx, product, from); err != nil {
		if errors.Is(err, repository.ErrInvalidState) {
			err = ErrProductChanged
		}
		if metadataKey != "" {
			if delErr := s.storage.DeleteFile(ctx, metadataKey); delErr != nil {
				logrus.WithError(delErr).WithField("key", metadataKey).Warn("Failed to remove orphaned metadata")
			}
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	prep.Product = product

	logrus.WithFields(logrus.Fields{
		"product_id":   product.ID,
		"metadata_uri": product.MetadataURI,
	}).Info("Mint prepared")

	return prep, nil
}

func (s *BlockchainService) buildMetadata(product *models.Product) NFTMetadata {
	name := product.Title
	if len([]rune(name)) > maxNFTNameLength {
		name = string([]rune(name)[:maxNFTNameLength])
	}

	var image string
	files := make([]NFTFile, 0, len(product.Images))
	for _, img := range product.Images {
		if image == "" {
			image = img
		}
		files = append(files, NFTFile{URI: img, Type: imageMimeType(img)})
	}

	return NFTMetadata{
		Name:                 name,
		Symbol:               nftSymbol,
		Description:          product.Description,
		Image:                image,
		ExternalURL:          strings.TrimRight(s.config.Frontend.BaseURL, "/") + "/products/" + product.ID.String(),
		SellerFeeBasisPoints: product.RoyaltyBps,
		Attributes: []NFTAttribute{
			{TraitType: "Category", Value: product.Category},
			{TraitType: "Region", Value: product.Region},
			{TraitType: "Artisan", Value: product.Artisan.Name},
		},
		Properties: NFTProperties{
			Files:    files,
			Category: "image",
			Creators: []NFTCreator{{Address: product.Artisan.WalletAddress, Share: 100}},
		},
	}
}

func imageMimeType(url string) string {
	lower := strings.ToLower(url)
	switch {
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".gif"):
		return "image/gif"
	case strings.HasSuffix(lower, ".webp"):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

func (s *BlockchainService) MintRequirements() MintRequirements {
	return MintRequirements{
		Network:               s.chain.Network(),
		Symbol:                nftSymbol,
		MaxRoyaltyPercentage:  maxRoyaltyPercent,
		RequiredFields:        []string{"product_id"},
		ArtisanMustBeVerified: true,
		StorageEnabled:        s.storage.Enabled(),
		Categories:            models.Categories,
		Regions:               models.Regions,
	}
}

// EstimateRoyalty projects what an artisan earns from resales over a year.
func (s *BlockchainService) EstimateRoyalty(req *RoyaltyEstimateRequest) (*royalty.Estimate, error) {
	bps := s.config.Royalty.DefaultArtisanBps
	if req.RoyaltyBps != nil {
		if err := s.products.checkRoyalty(*req.RoyaltyBps); err != nil {
			return nil, err
		}
		bps = *req.RoyaltyBps
	}
	sales := req.ExpectedSales
	if sales == 0 {
		sales = defaultExpectedSales
	}

	estimate, err := royalty.EstimateEarnings(req.Price, bps, sales)
	if err != nil {
		return nil, err
	}
	return &estimate, nil
}

func (s *BlockchainService) Balance(ctx context.Context, wallet string) (*WalletBalance, error) {
	pk, err := solana.ParseAddress(wallet)
	if err != nil {
		return nil, err
	}

	lamports, err := s.chain.Balance(ctx, pk)
	if err != nil {
		return nil, err
	}

	return &WalletBalance{
		Wallet:      wallet,
		Lamports:    lamports,
		Sol:         royalty.LamportsToSol(lamports),
		Formatted:   royalty.FormatSol(lamports, balanceDisplayDigits),
		Network:     s.chain.Network(),
		ExplorerURL: s.chain.ExplorerAddressURL(wallet),
	}, nil
}

// Treasury reports the DAO treasury balance, or Configured=false when no
// treasury wallet is set.
func (s *BlockchainService) Treasury(ctx context.Context) (*TreasuryBalance, error) {
	if s.config.Solana.DAOTreasury == "" {
		return &TreasuryBalance{Configured: false}, nil
	}

	balance, err := s.Balance(ctx, s.config.Solana.DAOTreasury)
	if err != nil {
		return nil, err
	}
	return &TreasuryBalance{Configured: true, WalletBalance: balance}, nil
}
