// internal/handlers/upload.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/budayachain/budaya-backend/internal/i18n"
	"github.com/budayachain/budaya-backend/internal/services"
	"github.com/budayachain/budaya-backend/internal/utils"
)

type UploadHandler struct {
	storageService *services.StorageService
}

func NewUploadHandler(storageService *services.StorageService) *UploadHandler {
	return &UploadHandler{
		storageService: storageService,
	}
}

// POST /uploads/images
func (h *UploadHandler) UploadImages(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	if !h.storageService.Enabled() {
		utils.ServiceUnavailableResponse(c, i18n.T(lang, i18n.KeyStorageDisabled))
		return
	}

	// Parse multipart form
	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyUploadInvalid), err.Error())
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		utils.ValidationErrorResponse(c, utils.NewValidationError("images", "required", i18n.T(lang, i18n.KeyValidationRequired, "images")))
		return
	}

	var uploaded []*services.UploadResult
	var rejected []gin.H
	options := h.storageService.ProductImageOptions()

	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			rejected = append(rejected, gin.H{"file": fileHeader.Filename, "error": err.Error()})
			continue
		}

		result, err := h.storageService.UploadFile(c.Request.Context(), file, fileHeader, options)
		file.Close()

		if err != nil {
			logrus.WithError(err).WithField("file", fileHeader.Filename).Warn("Image upload rejected")
			rejected = append(rejected, gin.H{"file": fileHeader.Filename, "error": err.Error()})
			continue
		}
		uploaded = append(uploaded, result)
	}

	if len(uploaded) == 0 {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyUploadInvalid), rejected)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyUploadSuccess),
		"images":   uploaded,
		"rejected": rejected,
	})
}
