package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for every token validation failure: bad
// signature, malformed structure, missing claims, or elapsed expiry.
// Callers treat all of these uniformly as "no identity".
var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is the claim set carried by a session token
type Identity struct {
	ID    string
	Email string
	Role  string
}

// TokenGenerator handles JWT token generation and validation
type TokenGenerator struct {
	secret      string
	tokenExpiry time.Duration
}

// NewTokenGenerator creates a new token generator
func NewTokenGenerator(secret string, tokenExpiry time.Duration) *TokenGenerator {
	return &TokenGenerator{
		secret:      secret,
		tokenExpiry: tokenExpiry,
	}
}

// Generate creates a signed session token carrying the identity claims
func (tg *TokenGenerator) Generate(identity Identity) (string, error) {
	claims := jwt.MapClaims{
		"sub":   identity.ID,
		"email": identity.Email,
		"role":  identity.Role,
		"exp":   time.Now().Add(tg.tokenExpiry).Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(tg.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Validate checks signature and expiry and returns the decoded identity.
// The embedded role is informational only; privilege decisions must use the
// role re-fetched from the store.
func (tg *TokenGenerator) Validate(tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tg.secret), nil
	})

	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return Identity{}, ErrInvalidToken
	}

	email, ok := claims["email"].(string)
	if !ok {
		return Identity{}, ErrInvalidToken
	}

	role, ok := claims["role"].(string)
	if !ok {
		return Identity{}, ErrInvalidToken
	}

	return Identity{ID: sub, Email: email, Role: role}, nil
}
