// internal/handlers/dao.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/budayachain/budaya-backend/internal/i18n"
	"github.com/budayachain/budaya-backend/internal/models"
	"github.com/budayachain/budaya-backend/internal/repository"
	"github.com/budayachain/budaya-backend/internal/services"
	"github.com/budayachain/budaya-backend/internal/utils"
)

type DAOHandler struct {
	daoService        *services.DAOService
	blockchainService *services.BlockchainService
}

func NewDAOHandler(daoService *services.DAOService, blockchainService *services.BlockchainService) *DAOHandler {
	return &DAOHandler{
		daoService:        daoService,
		blockchainService: blockchainService,
	}
}

// GET /dao/proposals
func (h *DAOHandler) GetProposals(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	params := utils.GetPaginationParams(c)

	filter := repository.ProposalFilter{Pagination: params}
	if status := c.Query("status"); status != "" {
		switch s := models.ProposalStatus(status); s {
		case models.ProposalStatusActive, models.ProposalStatusPassed,
			models.ProposalStatusRejected, models.ProposalStatusExecuted:
			filter.Status = s
		default:
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "status"), nil)
			return
		}
	}
	if proposalType := c.Query("type"); proposalType != "" {
		filter.ProposalType = models.ProposalType(proposalType)
	}

	proposals, total, err := h.daoService.ListProposals(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "proposal")
		return
	}

	result := utils.CreatePaginationResult(proposals, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /dao/proposals
func (h *DAOHandler) CreateProposal(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateProposalRequest
	if !bindJSON(c, &req) {
		return
	}

	proposal, err := h.daoService.CreateProposal(c.Request.Context(), sessionFromContext(c), &req)
	if err != nil {
		respondError(c, err, "proposal")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyProposalCreated),
		"proposal": proposal,
	})
}

// GET /dao/proposals/:id
func (h *DAOHandler) GetProposal(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "proposal")
	if !ok {
		return
	}

	proposal, err := h.daoService.GetProposal(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "proposal")
		return
	}

	response := gin.H{
		"proposal": proposal,
	}
	if wallet, ok := utils.GetWalletFromContext(c); ok {
		voted, err := h.daoService.HasVoted(c.Request.Context(), id, wallet)
		if err != nil {
			respondError(c, err, "proposal")
			return
		}
		response["has_voted"] = voted
	}

	utils.SuccessResponse(c, response)
}

// POST /dao/vote
func (h *DAOHandler) CastVote(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CastVoteRequest
	if !bindJSON(c, &req) {
		return
	}

	proposal, err := h.daoService.CastVote(c.Request.Context(), sessionFromContext(c), &req)
	if err != nil {
		respondError(c, err, "proposal")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyVoteCast),
		"proposal": proposal,
	})
}

// GET /dao/treasury
func (h *DAOHandler) GetTreasury(c *gin.Context) {
	treasury, err := h.blockchainService.Treasury(c.Request.Context())
	if err != nil {
		respondChainError(c, err, "wallet")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"treasury": treasury,
	})
}
