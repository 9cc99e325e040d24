package middleware

import (
	"net/http"
	"strings"

	"qr_ordering/internal/apperror"
	"qr_ordering/internal/services"

	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

// TokenParser validates a bearer token.
type TokenParser interface {
	ParseToken(token string) (*services.Claims, error)
}

// RequireStaff rejects requests without a valid staff bearer token.
func RequireStaff(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			abort(c, apperror.Unauthorized("missing bearer token"))
			return
		}

		claims, err := parser.ParseToken(strings.TrimSpace(token))
		if err != nil {
			abort(c, err)
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

func abort(c *gin.Context, err error) {
	c.Error(err)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   apperror.PublicMessage(err),
	})
}

// ClaimsFrom returns the claims stored by RequireStaff, or nil.
func ClaimsFrom(c *gin.Context) *services.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*services.Claims)
	return claims
}
