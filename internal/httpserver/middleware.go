package httpserver

import (
	"net/http"
	"strings"

	"serviceease/internal/auth"
	"serviceease/internal/service/account"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// authRequired validates the bearer token and installs the principal plus
// a fresh per-request role cache on the request context.
func authRequired(accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "authentication credentials were not provided"})
			return
		}

		p, err := accounts.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "invalid or expired token"})
			return
		}

		ctx := auth.WithPrincipal(c.Request.Context(), p)
		ctx = auth.WithRoleCache(ctx)
		c.Request = c.Request.WithContext(ctx)
		c.Set(principalKey, p)
		c.Next()
	}
}

func principalFrom(c *gin.Context) auth.Principal {
	v, _ := c.Get(principalKey)
	p, _ := v.(auth.Principal)
	return p
}
