// internal/handlers/blockchain.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/budayachain/budaya-backend/internal/i18n"
	"github.com/budayachain/budaya-backend/internal/services"
	"github.com/budayachain/budaya-backend/internal/utils"
)

type BlockchainHandler struct {
	blockchainService *services.BlockchainService
}

func NewBlockchainHandler(blockchainService *services.BlockchainService) *BlockchainHandler {
	return &BlockchainHandler{
		blockchainService: blockchainService,
	}
}

// POST /blockchain/mint
func (h *BlockchainHandler) PrepareMint(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.PrepareMintRequest
	if !bindJSON(c, &req) {
		return
	}

	prep, err := h.blockchainService.PrepareMint(c.Request.Context(), sessionFromContext(c), &req)
	if err != nil {
		respondError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyMintPrepared),
		"mint":    prep,
	})
}

// GET /blockchain/mint
func (h *BlockchainHandler) GetMintInfo(c *gin.Context) {
	response := gin.H{
		"requirements": h.blockchainService.MintRequirements(),
	}

	if c.Query("price") != "" {
		var req services.RoyaltyEstimateRequest
		if !bindQuery(c, &req) {
			return
		}
		estimate, err := h.blockchainService.EstimateRoyalty(&req)
		if err != nil {
			respondError(c, err, "product")
			return
		}
		response["royalty_estimate"] = estimate
	}

	utils.SuccessResponse(c, response)
}

// POST /blockchain/purchase
func (h *BlockchainHandler) PreparePurchase(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.PreparePurchaseRequest
	if !bindJSON(c, &req) {
		return
	}

	quote, err := h.blockchainService.PreparePurchase(c.Request.Context(), sessionFromContext(c), &req)
	if err != nil {
		respondChainError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyPurchasePrepared),
		"purchase": quote,
	})
}

// GET /blockchain/verify?nft=
func (h *BlockchainHandler) VerifyNFT(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	address := c.Query("nft")
	if address == "" {
		utils.ValidationErrorResponse(c, utils.NewValidationError("nft", "required", i18n.T(lang, i18n.KeyValidationRequired, "nft")))
		return
	}

	verification, err := h.blockchainService.VerifyNFT(c.Request.Context(), address)
	if err != nil {
		respondError(c, err, "nft")
		return
	}

	message := i18n.T(lang, i18n.KeyNFTVerified)
	if verification.OnChain == nil {
		message = i18n.T(lang, i18n.KeyBlockchainUnavailable)
	} else if !*verification.OnChain {
		message = i18n.T(lang, i18n.KeyNFTOffChain)
	}

	utils.SuccessResponse(c, gin.H{
		"message":      message,
		"verification": verification,
	})
}

// GET /blockchain/balance/:wallet
func (h *BlockchainHandler) GetBalance(c *gin.Context) {
	balance, err := h.blockchainService.Balance(c.Request.Context(), c.Param("wallet"))
	if err != nil {
		respondChainError(c, err, "wallet")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"balance": balance,
	})
}
