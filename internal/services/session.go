// internal/services/session.go
package services

import "github.com/budayachain/budaya-backend/internal/models"

// Session is the authenticated caller as established by the auth
// middleware.
type Session struct {
	Wallet string
	Role   models.Role
}

func (s Session) IsAdmin() bool {
	return s.Role == models.RoleAdmin
}

// Owns reports whether the caller may act on a resource belonging to wallet.
func (s Session) Owns(wallet string) bool {
	if s.IsAdmin() {
		return true
	}
	return s.Wallet != "" && s.Wallet == wallet
}
