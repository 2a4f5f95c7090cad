package utils

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrRevokedToken = errors.New("token has been revoked")
)

type CustomClaims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates HS256 tokens and keeps an in-memory
// revocation list for logged out tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	issuer string

	mu      sync.RWMutex
	revoked map[string]time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{
		secret:  []byte(secret),
		ttl:     ttl,
		issuer:  "CanteenPOS",
		revoked: make(map[string]time.Time),
	}
}

func (tm *TokenManager) GenerateToken(userID uint, role string) (string, error) {
	now := time.Now()
	claims := &CustomClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tm.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

func (tm *TokenManager) ParseToken(tokenString string) (*CustomClaims, error) {
	if tm.IsRevoked(tokenString) {
		return nil, ErrRevokedToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return tm.secret, nil
	}, jwt.WithIssuer(tm.issuer))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Revoke blacklists a token until its own expiry.
func (tm *TokenManager) Revoke(tokenString string, claims *CustomClaims) {
	expiry := time.Now().Add(tm.ttl)
	if claims != nil && claims.ExpiresAt != nil {
		expiry = claims.ExpiresAt.Time
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.revoked[tokenString] = expiry
	tm.sweepLocked(time.Now())
}

func (tm *TokenManager) IsRevoked(tokenString string) bool {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	expiry, exists := tm.revoked[tokenString]
	return exists && time.Now().Before(expiry)
}

// sweepLocked drops entries whose tokens have expired anyway.
func (tm *TokenManager) sweepLocked(now time.Time) {
	for token, expiry := range tm.revoked {
		if now.After(expiry) {
			delete(tm.revoked, token)
		}
	}
}
