package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"backend_customerpro/auth"
	"backend_customerpro/config"
	"backend_customerpro/middleware"
	"backend_customerpro/models"
	"backend_customerpro/services"
	"backend_customerpro/testutils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// setupTestAPI wires the full route table against an in-memory database,
// exactly like main() does, minus cron and CORS.
func setupTestAPI(t *testing.T) (*gin.Engine, *gorm.DB, auth.SessionStore) {
	t.Helper()

	db := testutils.SetupTestDB(t)
	sessions := auth.NewMemorySessionStore()
	lifecycle := services.NewLifecycleService(db)
	exports := services.NewExportService()
	notifications := services.NewNotificationService(&config.Config{})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.NewIdentityMiddleware(db, sessions).ResolveIdentity())

	apiGroup := router.Group("/api")
	NewAuthAPI(db, sessions).RegisterRoutes(apiGroup)
	NewCustomersAPI(db, lifecycle, exports).RegisterRoutes(apiGroup)
	NewProtocolsAPI(db).RegisterRoutes(apiGroup)
	NewDocumentsAPI(db).RegisterRoutes(apiGroup)
	NewConstructionSitesAPI(db, lifecycle).RegisterRoutes(apiGroup)
	NewToursAPI(db, lifecycle, exports, notifications).RegisterRoutes(apiGroup)
	NewUsersAPI(db, lifecycle, notifications).RegisterRoutes(apiGroup)

	return router, db, sessions
}

// doRequest performs a request, authenticating via the header fallback when
// a user is given.
func doRequest(router *gin.Engine, method, path string, body interface{}, user *models.User) *httptest.ResponseRecorder {
	var payload *bytes.Buffer
	if body != nil {
		raw, _ := json.Marshal(body)
		payload = bytes.NewBuffer(raw)
	} else {
		payload = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, payload)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		req.Header.Set(middleware.UserIDHeader, fmt.Sprintf("%d", user.ID))
		req.Header.Set(middleware.UsernameHeader, user.Username)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var list []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to decode list response: %v (%s)", err, w.Body.String())
	}
	return list
}

func decodeObject(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var object map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &object); err != nil {
		t.Fatalf("failed to decode object response: %v (%s)", err, w.Body.String())
	}
	return object
}
