package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/safar/petshop/internal/auth"
	"github.com/safar/petshop/internal/http/response"
	"github.com/safar/petshop/internal/logger"
	"github.com/safar/petshop/internal/models"
)

const claimsKey = "auth.claims"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	log           *logger.Logger
	authenticator Authenticator
}

func NewAuthMiddleware(log *logger.Logger, authenticator Authenticator) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), authenticator: authenticator}
}

// RequireAuth rejects requests without a valid, unrevoked bearer token and
// stores the token claims on the context.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c)
		if token == "" {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing or invalid token"))
			return
		}

		claims, err := am.authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			am.log.Debug("token rejected", "error", err)
			response.RespondServiceError(c, err)
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Identity(c).HasRole(roles...) {
			response.RespondError(c, http.StatusForbidden, "forbidden", errors.New("insufficient role"))
			return
		}
		c.Next()
	}
}

func Claims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

// Identity returns the zero Identity for anonymous requests.
func Identity(c *gin.Context) auth.Identity {
	claims, ok := Claims(c)
	if !ok {
		return auth.Identity{}
	}
	return claims.Identity()
}

func extractBearer(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
