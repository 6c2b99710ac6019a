// internal/handlers/auth.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/budayachain/budaya-backend/internal/i18n"
	"github.com/budayachain/budaya-backend/internal/services"
	"github.com/budayachain/budaya-backend/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// POST /auth/challenge
func (h *AuthHandler) Challenge(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.ChallengeRequest
	if !bindJSON(c, &req) {
		return
	}

	challenge, err := h.authService.Challenge(&req)
	if err != nil {
		respondError(c, err, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":   i18n.T(lang, i18n.KeyAuthChallengeIssued),
		"challenge": challenge,
	})
}

// POST /auth/verify
func (h *AuthHandler) Verify(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.VerifyRequest
	if !bindJSON(c, &req) {
		return
	}

	authResponse, err := h.authService.Verify(&req)
	if err != nil {
		respondError(c, err, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":        i18n.T(lang, i18n.KeyAuthLoginSuccess),
		"wallet_address": authResponse.WalletAddress,
		"role":           authResponse.Role,
		"token":          authResponse.AccessToken,
		"token_type":     authResponse.TokenType,
		"expires_in":     authResponse.ExpiresIn,
	})
}

// GET /auth/me
func (h *AuthHandler) GetSession(c *gin.Context) {
	session := sessionFromContext(c)

	utils.SuccessResponse(c, gin.H{
		"wallet_address": session.Wallet,
		"role":           session.Role,
	})
}
