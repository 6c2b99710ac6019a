// internal/handlers/admin.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/budayachain/budaya-backend/internal/i18n"
	"github.com/budayachain/budaya-backend/internal/services"
	"github.com/budayachain/budaya-backend/internal/utils"
)

type AdminHandler struct {
	adminService *services.AdminService
	daoService   *services.DAOService
}

func NewAdminHandler(adminService *services.AdminService, daoService *services.DAOService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		daoService:   daoService,
	}
}

// GET /admin/stats
func (h *AdminHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.adminService.GetDashboardStats(c.Request.Context())
	if err != nil {
		respondError(c, err, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"stats": stats,
	})
}

// GET /admin/artisans/pending
func (h *AdminHandler) GetPendingArtisans(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	artisans, total, err := h.adminService.PendingArtisans(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "artisan")
		return
	}

	result := utils.CreatePaginationResult(artisans, total, params)
	utils.PaginatedResponse(c, result)
}

// PUT /admin/artisans/:id/verify
func (h *AdminHandler) VerifyArtisan(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseIDParam(c, "id", "artisan")
	if !ok {
		return
	}

	var req services.VerifyArtisanRequest
	if !bindJSON(c, &req) {
		return
	}

	adminWallet, _ := utils.GetWalletFromContext(c)
	artisan, err := h.adminService.VerifyArtisan(c.Request.Context(), id, adminWallet, *req.Verified)
	if err != nil {
		respondError(c, err, "artisan")
		return
	}

	key := i18n.KeyArtisanVerified
	if !artisan.Verified {
		key = i18n.KeyArtisanUnverified
	}
	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, key),
		"artisan": artisan,
	})
}

// POST /admin/dao/proposals/:id/finalize
func (h *AdminHandler) FinalizeProposal(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseIDParam(c, "id", "proposal")
	if !ok {
		return
	}

	proposal, err := h.daoService.FinalizeProposal(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "proposal")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyProposalFinalized),
		"proposal": proposal,
	})
}

// POST /admin/dao/proposals/:id/execute
func (h *AdminHandler) ExecuteProposal(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseIDParam(c, "id", "proposal")
	if !ok {
		return
	}

	proposal, err := h.daoService.ExecuteProposal(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "proposal")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyProposalExecuted),
		"proposal": proposal,
	})
}
