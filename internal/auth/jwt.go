package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rcampos/diapredict-be/internal/models"
)

const tokenTTL = 24 * time.Hour

// Claims defines the JWT claims structure.
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// UserClaimsKey is the context key for user claims.
type contextKey string

const UserClaimsKey = contextKey("userClaims")

// GenerateJWT creates a new session token for a given user. Sessions exist
// only as tokens; nothing survives a restart beyond the token's validity.
func GenerateJWT(user models.User, secret []byte) (string, error) {
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateJWT parses and validates a JWT string.
func ValidateJWT(tokenStr string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// JWTMiddleware creates a middleware for protecting routes.
func JWTMiddleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenStr string

			// 1. Try to get the token from the Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				parts := strings.Split(authHeader, "Bearer ")
				if len(parts) == 2 {
					tokenStr = parts[1]
				}
			}

			// 2. If not in header, fall back to the cookie
			if tokenStr == "" {
				cookie, err := r.Cookie("token")
				if err != nil {
					http.Error(w, "Missing auth token", http.StatusUnauthorized)
					return
				}
				tokenStr = cookie.Value
			}

			// 3. Validate the token
			claims, err := ValidateJWT(tokenStr, secret)
			if err != nil {
				http.Error(w, "Invalid auth token", http.StatusUnauthorized)
				return
			}

			// 4. Pass claims down via context
			ctx := context.WithValue(r.Context(), UserClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
