package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"standardtime/internal/domain"
)

const (
	guestTokenHeader = "X-Guest-Token"
	adminTokenHeader = "X-Admin-Token"

	ctxProfileKey  = "profile"
	ctxOwnerKeyKey = "ownerKey"
)

// identify resolves the caller to a cart owner key: a signed-in profile
// when a valid bearer token is present, otherwise the client-chosen guest
// token. Guests without a token get 401 only on routes needing an owner.
func identify(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p := bearerProfile(c, deps); p != nil {
			c.Set(ctxProfileKey, p)
			c.Set(ctxOwnerKeyKey, "profile:"+p.ID)
			c.Next()
			return
		}
		if guest := strings.TrimSpace(c.GetHeader(guestTokenHeader)); guest != "" {
			c.Set(ctxOwnerKeyKey, "guest:"+guest)
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "sign in or supply " + guestTokenHeader})
	}
}

// requireProfile only admits signed-in shoppers.
func requireProfile(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := bearerProfile(c, deps)
		if p == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Set(ctxProfileKey, p)
		c.Set(ctxOwnerKeyKey, "profile:"+p.ID)
		c.Next()
	}
}

func bearerProfile(c *gin.Context, deps Deps) *domain.Profile {
	if deps.CustomerSvc == nil {
		return nil
	}
	auth := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return nil
	}
	p, err := deps.CustomerSvc.LookupByToken(c.Request.Context(), strings.TrimSpace(token))
	if err != nil {
		return nil
	}
	return p
}

func currentProfile(c *gin.Context) *domain.Profile {
	if v, ok := c.Get(ctxProfileKey); ok {
		if p, ok := v.(*domain.Profile); ok {
			return p
		}
	}
	return nil
}

func ownerKey(c *gin.Context) string {
	return c.GetString(ctxOwnerKeyKey)
}
