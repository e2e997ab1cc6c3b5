package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"backend_customerpro/auth"
	"backend_customerpro/models"
	"backend_customerpro/testutils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupIdentityRouter wires the resolver in front of a probe handler that
// echoes the resolved identity.
func setupIdentityRouter(t *testing.T) (*gin.Engine, *gorm.DB, auth.SessionStore) {
	t.Helper()

	db := testutils.SetupTestDB(t)
	sessions := auth.NewMemorySessionStore()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(NewIdentityMiddleware(db, sessions).ResolveIdentity())
	router.GET("/whoami", func(c *gin.Context) {
		identity := GetIdentity(c)
		if identity == nil {
			c.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		c.JSON(http.StatusOK, identity)
	})
	return router, db, sessions
}

func TestHeaderFallbackAccepted(t *testing.T) {
	router, db, _ := setupIdentityRouter(t)
	require.NoError(t, db.Create(&models.User{ID: 7, Username: "paul", Password: "x", Role: models.RoleField}).Error)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set(UserIDHeader, "7")
	req.Header.Set(UsernameHeader, "paul")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
	assert.Contains(t, w.Body.String(), `"username":"paul"`)
}

func TestHeaderFallbackUsernameMismatch(t *testing.T) {
	router, db, _ := setupIdentityRouter(t)
	require.NoError(t, db.Create(&models.User{ID: 7, Username: "paul", Password: "x", Role: models.RoleField}).Error)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set(UserIDHeader, "7")
	req.Header.Set(UsernameHeader, "wrong")
	router.ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(), "anonymous")
}

func TestHeaderFallbackNonNumericID(t *testing.T) {
	router, _, _ := setupIdentityRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set(UserIDHeader, "seven")
	req.Header.Set(UsernameHeader, "paul")
	router.ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(), "anonymous")
}

func TestHeaderFallbackUnknownID(t *testing.T) {
	router, _, _ := setupIdentityRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set(UserIDHeader, "999")
	req.Header.Set(UsernameHeader, "ghost")
	router.ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(), "anonymous")
}

func TestSessionTakesPrecedenceOverHeaders(t *testing.T) {
	router, db, sessions := setupIdentityRouter(t)
	require.NoError(t, db.Create(&models.User{ID: 7, Username: "paul", Password: "x", Role: models.RoleField}).Error)
	require.NoError(t, db.Create(&models.User{ID: 8, Username: "thomas", Password: "x", Role: models.RoleField}).Error)

	token, err := sessions.Create(context.Background(), auth.Session{
		UserID:    8,
		Username:  "thomas",
		Role:      models.RoleField,
		ExpiresAt: time.Now().Add(auth.SessionLifetime),
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	// Conflicting fallback headers must be ignored while a session is live.
	req.Header.Set(UserIDHeader, "7")
	req.Header.Set(UsernameHeader, "paul")
	router.ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(), `"user_id":8`)
	assert.Contains(t, w.Body.String(), `"username":"thomas"`)
}

func TestExpiredSessionFallsThroughToHeaders(t *testing.T) {
	router, db, sessions := setupIdentityRouter(t)
	require.NoError(t, db.Create(&models.User{ID: 7, Username: "paul", Password: "x", Role: models.RoleField}).Error)

	token, err := sessions.Create(context.Background(), auth.Session{
		UserID:    7,
		Username:  "paul",
		Role:      models.RoleField,
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	req.Header.Set(UserIDHeader, "7")
	req.Header.Set(UsernameHeader, "paul")
	router.ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(), `"user_id":7`)
}
