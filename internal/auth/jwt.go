// Package auth provides JWT issuance/validation, the bearer-token middleware,
// and bcrypt password hashing.
//
// AUTHENTICATION FLOW:
// 1. POST /users (register) or POST /users/login verifies identity and
//    returns a signed JWT whose Subject is the user's internal ID.
// 2. The client sends it back on protected routes:
//    Authorization: Bearer <jwt>
// 3. RequireAuth validates the signature and expiry, then puts the userID in
//    the request context. Handlers never parse tokens themselves.
//
// The token is stateless — no session store. The signature (HMAC-SHA256 over
// header+payload) is all the server needs to trust the embedded userID.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenLifetime is how long an issued credential stays valid.
// Clients are expected to re-login after expiry; there is no refresh flow.
const tokenLifetime = 100 * time.Hour

const issuer = "devconnect"

// TokenService signs and verifies JWT credentials with an HMAC secret.
// The same secret is used for both operations; rotate it by restarting with
// a new JWT_SECRET (which invalidates all outstanding tokens).
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production:
// JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. The "sub" (Subject) registered claim carries
// the internal user ID — the only piece of identity the token embeds.
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a credential for the given userID, valid for
// tokenLifetime from now.
func (s *TokenService) Generate(userID string) (string, error) {
	return s.GenerateWithDuration(userID, tokenLifetime)
}

// GenerateWithDuration creates a token with a custom expiry. Used by tests to
// produce already-expired tokens.
func (s *TokenService) GenerateWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string and returns the userID it
// encodes. The library checks the signature, expiry, and issuer; pinning the
// accepted algorithms to HS256 prevents algorithm-confusion attacks.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
