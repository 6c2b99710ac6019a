// internal/handlers/transaction.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/budayachain/budaya-backend/internal/i18n"
	"github.com/budayachain/budaya-backend/internal/repository"
	"github.com/budayachain/budaya-backend/internal/services"
	"github.com/budayachain/budaya-backend/internal/utils"
)

type TransactionHandler struct {
	transactionService *services.TransactionService
}

func NewTransactionHandler(transactionService *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// POST /transactions/create
func (h *TransactionHandler) RecordTransaction(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.RecordTransactionRequest
	if !bindJSON(c, &req) {
		return
	}

	recorded, err := h.transactionService.RecordTransaction(c.Request.Context(), sessionFromContext(c), &req)
	if err != nil {
		resource := "product"
		if errors.Is(err, repository.ErrAlreadyExists) {
			resource = "transaction"
		}
		respondChainError(c, err, resource)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":      i18n.T(lang, i18n.KeyTransactionRecorded),
		"transaction":  recorded.Transaction,
		"explorer_url": recorded.ExplorerURL,
	})
}

// GET /transactions
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := repository.TransactionFilter{
		BuyerWallet:  c.Query("buyer"),
		SellerWallet: c.Query("seller"),
		Pagination:   params,
	}

	productID, ok := parseOptionalUUID(c, "product_id")
	if !ok {
		return
	}
	filter.ProductID = productID

	artisanID, ok := parseOptionalUUID(c, "artisan_id")
	if !ok {
		return
	}
	filter.ArtisanID = artisanID

	sales, total, err := h.transactionService.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "transaction")
		return
	}

	result := utils.CreatePaginationResult(sales, total, params)
	utils.PaginatedResponse(c, result)
}
