// internal/utils/jwt.go
package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	tokenIssuer      = "budaya-chain"
	purposeAccess    = "access"
	purposeChallenge = "challenge"
)

var ErrInvalidToken = errors.New("invalid token")

type JWTClaims struct {
	Wallet  string `json:"wallet"`
	Role    string `json:"role"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// ChallengeClaims bind a sign-in nonce to a wallet so the server does not
// have to remember outstanding challenges.
type ChallengeClaims struct {
	Wallet  string `json:"wallet"`
	Nonce   string `json:"nonce"`
	Message string `json:"message"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

var jwtSecret = []byte("your-secret-key-change-in-production")

func SetJWTSecret(secret string) {
	jwtSecret = []byte(secret)
}

func GenerateJWT(wallet, role string, ttlHours int) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		Wallet:  wallet,
		Role:    role,
		Purpose: purposeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ttlHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   wallet,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func ValidateJWT(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, keyFunc)
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid && claims.Purpose == purposeAccess {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

func GenerateChallengeToken(wallet, nonce, message string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := ChallengeClaims{
		Wallet:  wallet,
		Nonce:   nonce,
		Message: message,
		Purpose: purposeChallenge,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   wallet,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func ValidateChallengeToken(tokenString string) (*ChallengeClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ChallengeClaims{}, keyFunc)
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*ChallengeClaims); ok && token.Valid && claims.Purpose == purposeChallenge {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

func keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.New("unexpected signing method")
	}
	return jwtSecret, nil
}
