package middleware

import (
	"strings"

	"go-storefront/pkg/errs"
	"go-storefront/pkg/jwt"
	"go-storefront/pkg/response"

	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

// AuthMiddleware requires a valid access token in the Authorization header
// and stores its claims on the context.
func AuthMiddleware(tokens *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Fail(c, errs.ErrMissingToken)
			c.Abort()
			return
		}

		// "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			response.Fail(c, errs.ErrInvalidToken.WithMessage("Authorization header format must be Bearer {token}"))
			c.Abort()
			return
		}

		claims, err := tokens.Validate(parts[1], jwt.TypeAccess)
		if err != nil {
			response.Fail(c, err)
			c.Abort()
			return
		}

		c.Set(claimsKey, claims)
		c.Set("userId", claims.UserId)
		c.Next()
	}
}

// Claims returns the claims stored by AuthMiddleware, or nil.
func Claims(c *gin.Context) *jwt.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*jwt.Claims)
	return claims
}

// Optional runs next only when enabled, otherwise it lets the request
// through untouched.
func Optional(enabled bool, next gin.HandlerFunc) gin.HandlerFunc {
	if enabled {
		return next
	}
	return func(c *gin.Context) {
		c.Next()
	}
}
