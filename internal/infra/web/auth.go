package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ===== Ops token primitives =====

type AuthManager struct {
	secret []byte
	ttl    time.Duration
}

func NewAuthManager(secret string, ttl time.Duration) *AuthManager {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &AuthManager{secret: []byte(secret), ttl: ttl}
}

type OpsClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Mint issues a short-lived ops token signed with the shared secret.
func (a *AuthManager) Mint(subject string) (string, error) {
	if len(a.secret) == 0 {
		return "", errors.New("ops jwt secret not configured")
	}
	now := time.Now()
	claims := OpsClaims{
		Role: "ops",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			Subject:   subject,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *AuthManager) parse(raw string) (*OpsClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &OpsClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*OpsClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// RequireAuth guards ops endpoints with "Authorization: Bearer <jwt>".
func (a *AuthManager) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(a.secret) == 0 {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		hdr := r.Header.Get("Authorization")
		if hdr == "" || !strings.HasPrefix(strings.ToLower(hdr), "bearer ") {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if _, err := a.parse(strings.TrimSpace(hdr[7:])); err != nil {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
