// internal/services/qr_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/budayachain/budaya-backend/internal/models"
	"github.com/budayachain/budaya-backend/internal/repository"
	"github.com/budayachain/budaya-backend/internal/utils"
)

const (
	qrPayloadVersion = 1
	qrMaxAge         = 5 * 365 * 24 * time.Hour
	qrDefaultSize    = 256
	qrMinSize        = 128
	qrMaxSize        = 1024
)

// QR verification outcomes.
const (
	QRStatusAuthentic   = "authentic"
	QRStatusExpired     = "expired"
	QRStatusNotFound    = "not_found"
	QRStatusCounterfeit = "counterfeit"
	QRStatusTampered    = "tampered"
)

// QRPayload is the compact provenance record encoded in a product's QR code.
type QRPayload struct {
	V    int    `json:"v"`
	NFT  string `json:"nft"`
	PID  string `json:"pid"`
	Art  string `json:"art"`
	Hash string `json:"hash"`
	TS   int64  `json:"ts"`
}

type VerifyQRRequest struct {
	Payload string `json:"payload" validate:"required,max=2048"`
}

type QRVerification struct {
	Valid     bool            `json:"valid"`
	Status    string          `json:"status"`
	Message   string          `json:"message"`
	Payload   *QRPayload      `json:"payload"`
	Product   *models.Product `json:"product,omitempty"`
	ScannedAt time.Time       `json:"scanned_at"`
}

type QRService struct {
	store *repository.Store
	now   func() time.Time
}

func NewQRService(store *repository.Store) *QRService {
	return &QRService{
		store: store,
		now:   time.Now,
	}
}

// ProductHash fingerprints the fields a counterfeit would have to copy.
func ProductHash(product *models.Product) string {
	nft := ""
	if product.NFTAddress != nil {
		nft = *product.NFTAddress
	}
	return utils.HashString(strings.Join([]string{
		product.ID.String(),
		nft,
		product.ArtisanID.String(),
		product.Title,
		product.Category,
		product.Region,
	}, "|"))
}

func (s *QRService) BuildPayload(product *models.Product) (*QRPayload, error) {
	if !product.HasNFT() {
		return nil, ErrNFTRequired
	}
	return &QRPayload{
		V:    qrPayloadVersion,
		NFT:  *product.NFTAddress,
		PID:  product.ID.String(),
		Art:  product.ArtisanID.String(),
		Hash: ProductHash(product),
		TS:   s.now().Unix(),
	}, nil
}

// GenerateQR renders the product's provenance payload as a PNG.
func (s *QRService) GenerateQR(ctx context.Context, productID uuid.UUID, size int) ([]byte, error) {
	product, err := s.store.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	payload, err := s.BuildPayload(product)
	if err != nil {
		return nil, err
	}
	content, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr payload: %w", err)
	}

	png, err := qrcode.Encode(string(content), qrcode.Medium, clampSize(size))
	if err != nil {
		return nil, fmt.Errorf("failed to render qr code: %w", err)
	}
	return png, nil
}

func clampSize(size int) int {
	switch {
	case size == 0:
		return qrDefaultSize
	case size < qrMinSize:
		return qrMinSize
	case size > qrMaxSize:
		return qrMaxSize
	}
	return size
}

// ParsePayload decodes scanned QR text.
func ParsePayload(raw string) (*QRPayload, error) {
	var payload QRPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQR, err)
	}
	if payload.V != qrPayloadVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidQR, payload.V)
	}
	if payload.NFT == "" || payload.PID == "" || payload.Hash == "" || payload.TS <= 0 {
		return nil, fmt.Errorf("%w: missing fields", ErrInvalidQR)
	}
	if _, err := uuid.Parse(payload.PID); err != nil {
		return nil, fmt.Errorf("%w: bad product id", ErrInvalidQR)
	}
	return &payload, nil
}

// Verify checks a scanned payload against the registry. Malformed input is
// an error; a well-formed payload that fails a check is reported through
// the returned status.
func (s *QRService) Verify(ctx context.Context, raw string) (*QRVerification, error) {
	payload, err := ParsePayload(raw)
	if err != nil {
		return nil, err
	}

	now := s.now()
	result := &QRVerification{Payload: payload, ScannedAt: now.UTC()}

	issued := time.Unix(payload.TS, 0)
	if now.Sub(issued) > qrMaxAge {
		result.Status = QRStatusExpired
		return result, nil
	}

	product, err := s.store.Products.GetByID(ctx, uuid.MustParse(payload.PID))
	if errors.Is(err, repository.ErrNotFound) {
		result.Status = QRStatusNotFound
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	switch {
	case !product.HasNFT() || *product.NFTAddress != payload.NFT:
		result.Status = QRStatusCounterfeit
	case ProductHash(product) != payload.Hash || product.ArtisanID.String() != payload.Art:
		result.Status = QRStatusTampered
	default:
		result.Status = QRStatusAuthentic
		result.Valid = true
		result.Product = product
	}
	return result, nil
}
