package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	clientIDKey = "clientId"

	// ClientCookie names the cookie that carries the anonymous client identity.
	ClientCookie = "pc_client"

	clientCookieMaxAge = 365 * 24 * 60 * 60
)

// ClientID resolves the anonymous browser identity from its cookie, issuing a
// fresh one on first visit. Every workspace and preference is keyed by it.
func ClientID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := ""
		if raw, err := c.Cookie(ClientCookie); err == nil {
			if parsed, err := uuid.Parse(strings.TrimSpace(raw)); err == nil {
				id = parsed.String()
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     ClientCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   clientCookieMaxAge,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		c.Set(clientIDKey, id)
		c.Next()
	}
}

// ClientIDFromContext fetches the client ID set by the ClientID middleware.
func ClientIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(clientIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
