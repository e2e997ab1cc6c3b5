package api

import (
	"net/http"
	"time"

	"backend_customerpro/auth"
	"backend_customerpro/middleware"

	"github.com/gin-gonic/gin"
)

// User-facing messages, identical across all entity handlers so clients can
// rely on the status code alone.
const (
	msgNotLoggedIn  = "Nicht angemeldet"
	msgNoPermission = "Keine Berechtigung"
)

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// requireIdentity resolves the caller and answers 401 for anonymous requests.
// For list endpoints use middleware.GetIdentity directly and return an empty
// collection instead.
func requireIdentity(c *gin.Context) (*auth.Identity, bool) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		respondMessage(c, http.StatusUnauthorized, msgNotLoggedIn)
		return nil, false
	}
	return identity, true
}

// authorizeWrite checks write access to a record whose existence is already
// confirmed. Ownership failures answer 403, never 404: "exists, not yours"
// and "does not exist" must stay distinguishable.
func authorizeWrite(c *gin.Context, identity *auth.Identity, ownerID uint) bool {
	if auth.CanWrite(identity, ownerID) != auth.Allow {
		respondMessage(c, http.StatusForbidden, msgNoPermission)
		return false
	}
	return true
}

// authorizeRead is the read-side counterpart of authorizeWrite.
func authorizeRead(c *gin.Context, identity *auth.Identity, ownerID uint) bool {
	if auth.CanRead(identity, ownerID) != auth.Allow {
		respondMessage(c, http.StatusForbidden, msgNoPermission)
		return false
	}
	return true
}

// parseDate parses the wire date format YYYY-MM-DD.
func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}
