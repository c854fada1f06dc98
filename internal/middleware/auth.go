package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ContextUserEmail is the gin context key holding the authenticated email.
const ContextUserEmail = "userEmail"

// IdentityClaims are the bearer token claims the service reads.
type IdentityClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Identity parses an optional HS256 bearer token and stores its email claim
// on the context. Requests without a token pass through anonymously; an
// invalid token is rejected. With an empty secret tokens are ignored.
func Identity(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(auth, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			return
		}

		claims, err := parseIdentityToken(parts[1], secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		if claims.Email != "" {
			c.Set(ContextUserEmail, claims.Email)
		}
		c.Next()
	}
}

// UserEmail returns the authenticated email, or empty for anonymous requests.
func UserEmail(c *gin.Context) string {
	return c.GetString(ContextUserEmail)
}

func parseIdentityToken(tokenStr, secret string) (*IdentityClaims, error) {
	claims := &IdentityClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}
	return claims, nil
}
