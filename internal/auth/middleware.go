package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/repository"
)

// SessionCookieName is the cookie that carries the session token.
const SessionCookieName = "token"

const contextKeyIdentity = "auth_identity"

// IdentityFromContext returns the identity set by RequireSession, or nil
// when the request is unauthenticated.
func IdentityFromContext(c *gin.Context) *Identity {
	v, ok := c.Get(contextKeyIdentity)
	if !ok {
		return nil
	}
	id, ok := v.(*Identity)
	if !ok {
		return nil
	}
	return id
}

// RequireSession checks the session cookie against the issuer and the
// revocation list, then stores the identity in the request context.
// Missing, invalid, expired and revoked tokens all get a bare 401 with no
// side effects.
func RequireSession(issuer *TokenIssuer, revoked repository.RevokedTokenRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(SessionCookieName)
		if err != nil || tokenString == "" {
			abortUnauthorized(c)
			return
		}

		identity, err := issuer.Verify(tokenString)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		if revoked != nil && identity.TokenID != "" {
			isRevoked, err := revoked.IsRevoked(c.Request.Context(), identity.TokenID)
			if err != nil || isRevoked {
				abortUnauthorized(c)
				return
			}
		}

		c.Set(contextKeyIdentity, identity)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": "authorization required",
	})
}
