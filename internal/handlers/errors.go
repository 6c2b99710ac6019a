// internal/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/budayachain/budaya-backend/internal/i18n"
	"github.com/budayachain/budaya-backend/internal/models"
	"github.com/budayachain/budaya-backend/internal/repository"
	"github.com/budayachain/budaya-backend/internal/services"
	"github.com/budayachain/budaya-backend/internal/solana"
	"github.com/budayachain/budaya-backend/internal/utils"
)

// existsKeys names the conflict message per resource for ErrAlreadyExists.
var existsKeys = map[string]string{
	"artisan":     i18n.KeyArtisanExists,
	"product":     i18n.KeyProductNFTTaken,
	"transaction": i18n.KeyTransactionDuplicate,
	"proposal":    i18n.KeyVoteDuplicate,
}

// badRequestKeys are client mistakes the services detect after validation.
var badRequestKeys = []struct {
	err error
	key string
}{
	{services.ErrNFTRequired, i18n.KeyProductNoNFT},
	{services.ErrRoyaltyMismatch, i18n.KeyTransactionRoyalty},
	{services.ErrPriceMismatch, i18n.KeyTransactionPrice},
	{services.ErrSellerMismatch, i18n.KeyTransactionSeller},
	{services.ErrUnconfirmed, i18n.KeyTransactionUnconfirmed},
	{services.ErrInvalidQR, i18n.KeyQRInvalid},
	{services.ErrInvalidUpload, i18n.KeyUploadInvalid},
	{services.ErrInvalidPeriod, i18n.KeyReportInvalidPeriod},
	{solana.ErrSelfPurchase, i18n.KeyPurchaseSelf},
	{solana.ErrZeroPrice, i18n.KeyPurchaseZeroPrice},
	{solana.ErrInvalidAddress, i18n.KeyWalletInvalid},
}

var conflictKeys = []struct {
	err error
	key string
}{
	{services.ErrAlreadyVoted, i18n.KeyVoteDuplicate},
	{services.ErrProposalClosed, i18n.KeyProposalClosed},
	{services.ErrProductNotListed, i18n.KeyProductNotListed},
	{services.ErrProductSold, i18n.KeyProductSold},
	{services.ErrProductChanged, i18n.KeyProductChanged},
}

// respondError writes the response for a service error. resource selects
// the not-found and duplicate messages.
func respondError(c *gin.Context, err error, resource string) {
	lang := utils.GetLangFromContext(c)

	var transition *services.TransitionError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		utils.NotFoundResponse(c, resource)
		return
	case errors.Is(err, repository.ErrAlreadyExists):
		key, ok := existsKeys[resource]
		if !ok {
			key = i18n.KeyError
		}
		utils.ConflictResponse(c, i18n.T(lang, key))
		return
	case errors.As(err, &transition):
		utils.ErrorResponse(c, http.StatusConflict, "INVALID_TRANSITION",
			i18n.T(lang, i18n.KeyProductInvalidTransition, transition.From, transition.To), nil)
		return
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c, "")
		return
	case errors.Is(err, services.ErrArtisanNotVerified):
		utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyArtisanNotVerified))
		return
	case errors.Is(err, services.ErrRoyaltyOutOfRange):
		utils.ValidationErrorResponse(c, utils.NewValidationError("royalty_bps", "range", err.Error()))
		return
	case errors.Is(err, services.ErrInvalidSignature):
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidSignature))
		return
	case errors.Is(err, services.ErrWalletMismatch):
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthWalletMismatch))
		return
	case errors.Is(err, services.ErrStorageDisabled):
		utils.ServiceUnavailableResponse(c, i18n.T(lang, i18n.KeyStorageDisabled))
		return
	}

	for _, m := range conflictKeys {
		if errors.Is(err, m.err) {
			utils.ConflictResponse(c, i18n.T(lang, m.key))
			return
		}
	}
	for _, m := range badRequestKeys {
		if errors.Is(err, m.err) {
			utils.BadRequestResponse(c, i18n.T(lang, m.key), nil)
			return
		}
	}

	logrus.WithError(err).WithFields(logrus.Fields{
		"path":       c.FullPath(),
		"request_id": utils.GetRequestIDFromContext(c),
	}).Error("Request failed")
	utils.InternalErrorResponse(c, "")
}

// respondChainError is respondError for handlers that talk to the RPC node,
// where an unexpected failure means the chain is unreachable.
func respondChainError(c *gin.Context, err error, resource string) {
	if isClientError(err) {
		respondError(c, err, resource)
		return
	}

	logrus.WithError(err).WithField("path", c.FullPath()).Error("Blockchain request failed")
	utils.InternalErrorResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyBlockchainUnavailable))
}

func isClientError(err error) bool {
	if errors.Is(err, repository.ErrNotFound) ||
		errors.Is(err, services.ErrInvalidTransition) ||
		errors.Is(err, services.ErrForbidden) ||
		errors.Is(err, services.ErrArtisanNotVerified) ||
		errors.Is(err, services.ErrRoyaltyOutOfRange) ||
		errors.Is(err, services.ErrStorageDisabled) {
		return true
	}
	for _, m := range conflictKeys {
		if errors.Is(err, m.err) {
			return true
		}
	}
	for _, m := range badRequestKeys {
		if errors.Is(err, m.err) {
			return true
		}
	}
	return false
}

// bindJSON decodes and validates the request body, writing the 400 itself.
func bindJSON(c *gin.Context, req interface{}) bool {
	lang := utils.GetLangFromContext(c)
	if err := c.ShouldBindJSON(req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return false
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req interface{}) bool {
	lang := utils.GetLangFromContext(c)
	if err := c.ShouldBindQuery(req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "query"), err.Error())
		return false
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return false
	}
	return true
}

func parseIDParam(c *gin.Context, name, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, resource+" ID"), nil)
		return uuid.Nil, false
	}
	return id, true
}

func parseOptionalUUID(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, name), nil)
		return nil, false
	}
	return &id, true
}

// sessionFromContext rebuilds the caller established by the auth middleware.
func sessionFromContext(c *gin.Context) services.Session {
	wallet, _ := utils.GetWalletFromContext(c)
	role, _ := utils.GetRoleFromContext(c)
	return services.Session{Wallet: wallet, Role: models.Role(role)}
}
