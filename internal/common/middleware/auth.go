package middleware

import (
	"net/http"
	"strings"

	"moneynerds-backend/internal/common/token"

	"github.com/gin-gonic/gin"
)

// Context keys set by RequireAuth for downstream handlers.
const (
	CtxIdentityID = "identity_id"
	CtxWallet     = "wallet_address"
)

// RequireAuth validates the bearer access token and puts the identity id
// and wallet address into the gin context.
func RequireAuth(issuer *token.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token not provided"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header"})
			return
		}

		claims, err := issuer.ParseAccess(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(CtxIdentityID, claims.Subject)
		c.Set(CtxWallet, claims.Wallet)
		c.Next()
	}
}

// Wallet returns the authenticated wallet address from the context.
func Wallet(c *gin.Context) string {
	return c.GetString(CtxWallet)
}
