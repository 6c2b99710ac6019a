// internal/handlers/verification.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/budayachain/budaya-backend/internal/i18n"
	"github.com/budayachain/budaya-backend/internal/services"
	"github.com/budayachain/budaya-backend/internal/utils"
)

type VerificationHandler struct {
	qrService *services.QRService
}

func NewVerificationHandler(qrService *services.QRService) *VerificationHandler {
	return &VerificationHandler{
		qrService: qrService,
	}
}

var qrStatusKeys = map[string]string{
	services.QRStatusAuthentic:   i18n.KeyQRAuthentic,
	services.QRStatusExpired:     i18n.KeyQRExpired,
	services.QRStatusNotFound:    i18n.KeyProductNotFound,
	services.QRStatusCounterfeit: i18n.KeyQRCounterfeit,
	services.QRStatusTampered:    i18n.KeyQRTampered,
}

// POST /verify/qr
func (h *VerificationHandler) VerifyQR(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.VerifyQRRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.qrService.Verify(c.Request.Context(), req.Payload)
	if err != nil {
		respondError(c, err, "product")
		return
	}
	result.Message = i18n.T(lang, qrStatusKeys[result.Status])

	utils.SuccessResponse(c, gin.H{
		"verification": result,
	})
}
