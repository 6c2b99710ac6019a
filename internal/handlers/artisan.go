// internal/handlers/artisan.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/budayachain/budaya-backend/internal/i18n"
	"github.com/budayachain/budaya-backend/internal/repository"
	"github.com/budayachain/budaya-backend/internal/services"
	"github.com/budayachain/budaya-backend/internal/solana"
	"github.com/budayachain/budaya-backend/internal/utils"
)

type ArtisanHandler struct {
	artisanService *services.ArtisanService
}

func NewArtisanHandler(artisanService *services.ArtisanService) *ArtisanHandler {
	return &ArtisanHandler{
		artisanService: artisanService,
	}
}

// GET /artisans
func (h *ArtisanHandler) GetArtisans(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	params := utils.GetPaginationParams(c)

	filter := repository.ArtisanFilter{
		Region:     c.Query("region"),
		Category:   c.Query("category"),
		Pagination: params,
	}
	if verifiedStr := c.Query("verified"); verifiedStr != "" {
		verified, err := strconv.ParseBool(verifiedStr)
		if err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "verified"), nil)
			return
		}
		filter.Verified = &verified
	}

	artisans, total, err := h.artisanService.ListArtisans(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "artisan")
		return
	}

	result := utils.CreatePaginationResult(artisans, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /artisans
func (h *ArtisanHandler) RegisterArtisan(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.RegisterArtisanRequest
	if !bindJSON(c, &req) {
		return
	}

	artisan, err := h.artisanService.RegisterArtisan(c.Request.Context(), sessionFromContext(c), &req)
	if err != nil {
		respondError(c, err, "artisan")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyArtisanRegistered),
		"artisan": artisan,
	})
}

// GET /artisans/:id
func (h *ArtisanHandler) GetArtisan(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "artisan")
	if !ok {
		return
	}

	artisan, err := h.artisanService.GetArtisan(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "artisan")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"artisan": artisan,
	})
}

// PATCH /artisans/:id
func (h *ArtisanHandler) UpdateArtisan(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseIDParam(c, "id", "artisan")
	if !ok {
		return
	}

	var req services.UpdateArtisanRequest
	if !bindJSON(c, &req) {
		return
	}

	artisan, err := h.artisanService.UpdateArtisan(c.Request.Context(), id, sessionFromContext(c), &req)
	if err != nil {
		respondError(c, err, "artisan")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyArtisanUpdated),
		"artisan": artisan,
	})
}

// GET /artisans/wallet/:wallet
func (h *ArtisanHandler) GetArtisanByWallet(c *gin.Context) {
	wallet := c.Param("wallet")
	if !solana.IsValidAddress(wallet) {
		utils.BadRequestResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyWalletInvalid), nil)
		return
	}

	artisan, err := h.artisanService.GetArtisanByWallet(c.Request.Context(), wallet)
	if err != nil {
		respondError(c, err, "artisan")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"artisan": artisan,
	})
}

// GET /artisans/:id/royalties
func (h *ArtisanHandler) GetRoyalties(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "artisan")
	if !ok {
		return
	}

	summary, err := h.artisanService.RoyaltySummary(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "artisan")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"royalties": summary,
	})
}
