// internal/handlers/product.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/budayachain/budaya-backend/internal/i18n"
	"github.com/budayachain/budaya-backend/internal/models"
	"github.com/budayachain/budaya-backend/internal/repository"
	"github.com/budayachain/budaya-backend/internal/services"
	"github.com/budayachain/budaya-backend/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
	qrService      *services.QRService
}

func NewProductHandler(productService *services.ProductService, qrService *services.QRService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		qrService:      qrService,
	}
}

// GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	h.listProducts(c, "")
}

// GET /products/list
func (h *ProductHandler) GetListedProducts(c *gin.Context) {
	h.listProducts(c, models.ProductStatusListed)
}

func (h *ProductHandler) listProducts(c *gin.Context, defaultStatus models.ProductStatus) {
	lang := utils.GetLangFromContext(c)
	params := utils.GetPaginationParams(c)

	filter := repository.ProductFilter{
		Status:     defaultStatus,
		Category:   c.Query("category"),
		Region:     c.Query("region"),
		Search:     strings.TrimSpace(c.Query("search")),
		Pagination: params,
	}

	if status := c.Query("status"); status != "" {
		productStatus := models.ProductStatus(status)
		if !productStatus.Valid() {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "status"), nil)
			return
		}
		filter.Status = productStatus
	}

	artisanID, ok := parseOptionalUUID(c, "artisan_id")
	if !ok {
		return
	}
	filter.ArtisanID = artisanID

	products, total, err := h.productService.ListProducts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "product")
		return
	}

	result := utils.CreatePaginationResult(products, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /search/products
func (h *ProductHandler) SearchProducts(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	query := strings.TrimSpace(c.DefaultQuery("q", params.Search))

	products, total, err := h.productService.SearchProducts(c.Request.Context(), query, params)
	if err != nil {
		respondError(c, err, "product")
		return
	}

	result := utils.CreatePaginationResult(products, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), sessionFromContext(c), &req)
	if err != nil {
		resource := "product"
		if errors.Is(err, repository.ErrNotFound) {
			resource = "artisan"
		}
		respondError(c, err, resource)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductCreated),
		"product": product,
	})
}

// GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "product")
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product": product,
	})
}

// PATCH /products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseIDParam(c, "id", "product")
	if !ok {
		return
	}

	var req services.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), id, sessionFromContext(c), &req)
	if err != nil {
		respondError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductUpdated),
		"product": product,
	})
}

// GET /products/:id/transactions
func (h *ProductHandler) GetProductTransactions(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "product")
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	sales, total, err := h.productService.ProductTransactions(c.Request.Context(), id, params)
	if err != nil {
		respondError(c, err, "product")
		return
	}

	result := utils.CreatePaginationResult(sales, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /products/:id/qr
func (h *ProductHandler) GetProductQR(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "product")
	if !ok {
		return
	}
	size, _ := strconv.Atoi(c.Query("size"))

	png, err := h.qrService.GenerateQR(c.Request.Context(), id, size)
	if err != nil {
		respondError(c, err, "product")
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "image/png", png)
}

// GET /categories
func (h *ProductHandler) GetCategories(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"categories": models.Categories,
	})
}

// GET /regions
func (h *ProductHandler) GetRegions(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"regions": models.Regions,
	})
}
