// internal/royalty/royalty.go
package royalty

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strconv"
)

const (
	// BasisPointsDenominator is 100% expressed in basis points.
	BasisPointsDenominator = 10000
	// RecommendedMaxBps is the ceiling suggested for a combined royalty.
	RecommendedMaxBps = 5000
	// LamportsPerSol is the number of lamports in one SOL.
	LamportsPerSol = 1_000_000_000
)

var (
	ErrNegativeShare    = errors.New("royalty share cannot be negative")
	ErrSplitTooLarge    = errors.New("royalty shares exceed 100%")
	ErrAboveRecommended = errors.New("royalty exceeds recommended maximum of 50%")
	ErrInvalidRate      = errors.New("royalty rate must be between 0 and 10000 bps")
)

// Split is how a sale price is carved up, in basis points of the price.
type Split struct {
	ArtisanBps  int `json:"artisan_bps"`
	PlatformBps int `json:"platform_bps"`
	DAOBps      int `json:"dao_bps"`
}

// DefaultSplit is 7% artisan, 2% platform, 1% DAO.
var DefaultSplit = Split{ArtisanBps: 700, PlatformBps: 200, DAOBps: 100}

func (s Split) TotalBps() int {
	return s.ArtisanBps + s.PlatformBps + s.DAOBps
}

// Validate rejects splits that cannot be paid out of a single sale.
func (s Split) Validate() error {
	if s.ArtisanBps < 0 || s.PlatformBps < 0 || s.DAOBps < 0 {
		return ErrNegativeShare
	}
	if s.TotalBps() > BasisPointsDenominator {
		return fmt.Errorf("%w: total %d bps", ErrSplitTooLarge, s.TotalBps())
	}
	return nil
}

// ValidateRecommended is Validate plus the 50% ceiling.
func (s Split) ValidateRecommended() error {
	if err := s.Validate(); err != nil {
		return err
	}
	if s.TotalBps() > RecommendedMaxBps {
		return ErrAboveRecommended
	}
	return nil
}

// Distribution is the lamport amount each party receives from a sale.
// Artisan + Platform + DAO == Total and Total + Seller == the price.
type Distribution struct {
	Artisan  uint64 `json:"artisan"`
	Platform uint64 `json:"platform"`
	DAO      uint64 `json:"dao"`
	Seller   uint64 `json:"seller"`
	Total    uint64 `json:"total_royalty"`
}

// CalculateRoyalty returns floor(price*bps/10000).
func CalculateRoyalty(priceLamports uint64, bps int) (uint64, error) {
	if bps < 0 || bps > BasisPointsDenominator {
		return 0, ErrInvalidRate
	}
	return mulDiv(priceLamports, uint64(bps), BasisPointsDenominator), nil
}

// Distribute splits priceLamports according to split. Platform and DAO
// shares are floored individually; the artisan share absorbs the
// rounding dust so that the shares always add up to the total royalty.
func Distribute(priceLamports uint64, split Split) (Distribution, error) {
	if err := split.Validate(); err != nil {
		return Distribution{}, err
	}

	total := mulDiv(priceLamports, uint64(split.TotalBps()), BasisPointsDenominator)
	platform := mulDiv(priceLamports, uint64(split.PlatformBps), BasisPointsDenominator)
	dao := mulDiv(priceLamports, uint64(split.DAOBps), BasisPointsDenominator)

	return Distribution{
		Artisan:  total - platform - dao,
		Platform: platform,
		DAO:      dao,
		Seller:   priceLamports - total,
		Total:    total,
	}, nil
}

// mulDiv computes floor(a*b/d) without overflowing on the product.
func mulDiv(a, b, d uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	q, _ := bits.Div64(hi, lo, d)
	return q
}

func LamportsToSol(lamports uint64) float64 {
	return float64(lamports) / LamportsPerSol
}

// SolToLamports rounds to the nearest lamport, so a decimal price such as
// 1.005 keeps its last lamport. Negative and NaN inputs give 0.
func SolToLamports(sol float64) uint64 {
	if sol <= 0 || math.IsNaN(sol) {
		return 0
	}
	lamports := math.Round(sol * LamportsPerSol)
	if lamports >= math.MaxUint64 {
		return math.MaxUint64
	}
	return uint64(lamports)
}

// FormatSol renders lamports as "X.XXXX SOL".
func FormatSol(lamports uint64, decimals int) string {
	return strconv.FormatFloat(LamportsToSol(lamports), 'f', decimals, 64) + " SOL"
}

// Estimate projects royalty income from a number of expected sales.
type Estimate struct {
	PerSale float64 `json:"per_sale"`
	Total   float64 `json:"total"`
	Monthly float64 `json:"monthly"`
	Yearly  float64 `json:"yearly"`
}

// EstimateEarnings assumes the expected sales happen over one year.
func EstimateEarnings(priceSol float64, bps int, expectedSales int) (Estimate, error) {
	if bps < 0 || bps > BasisPointsDenominator {
		return Estimate{}, ErrInvalidRate
	}
	if expectedSales < 0 {
		expectedSales = 0
	}

	perSale, err := CalculateRoyalty(SolToLamports(priceSol), bps)
	if err != nil {
		return Estimate{}, err
	}
	total := perSale * uint64(expectedSales)

	return Estimate{
		PerSale: LamportsToSol(perSale),
		Total:   LamportsToSol(total),
		Monthly: LamportsToSol(total) / 12,
		Yearly:  LamportsToSol(total),
	}, nil
}

// TruncateAddress shortens an address for display.
func TruncateAddress(address string) string {
	if len(address) <= 8 {
		return address
	}
	return address[:4] + "..." + address[len(address)-4:]
}
