package api

import (
	"log"
	"net/http"
	"strings"
	"time"

	"backend_customerpro/auth"
	"backend_customerpro/middleware"
	"backend_customerpro/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthAPI handles login, logout and the session check.
type AuthAPI struct {
	DB       *gorm.DB
	Sessions auth.SessionStore
}

// NewAuthAPI creates a new AuthAPI instance.
func NewAuthAPI(db *gorm.DB, sessions auth.SessionStore) *AuthAPI {
	return &AuthAPI{DB: db, Sessions: sessions}
}

// RegisterRoutes registers the auth routes.
func (api *AuthAPI) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/auth")
	{
		group.POST("/login", api.Login)
		group.POST("/logout", api.Logout)
		group.GET("/check", api.CheckAuth)
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login verifies the credentials and opens a server-held session. The token
// travels as a cookie and additionally in the body for clients that cannot
// store cookies.
func (api *AuthAPI) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Keine Daten"})
		return
	}

	username := strings.TrimSpace(req.Username)

	// Look up by username only, the password is verified separately.
	var user models.User
	if err := api.DB.Where("username = ?", username).First(&user).Error; err != nil {
		log.Printf("[LOGIN] FAILED for: %s", username)
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Ungültige Anmeldedaten"})
		return
	}

	if !auth.VerifyPassword(user.Password, req.Password) {
		log.Printf("[LOGIN] FAILED for: %s", username)
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Ungültige Anmeldedaten"})
		return
	}

	token, err := api.Sessions.Create(c.Request.Context(), auth.Session{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		IsAdmin:   user.IsAdmin,
		ExpiresAt: time.Now().Add(auth.SessionLifetime),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	c.SetCookie(middleware.SessionCookie, token, int(auth.SessionLifetime.Seconds()), "/", "", false, true)

	log.Printf("[LOGIN] OK: %s (ID:%d, Rolle:%s)", user.Username, user.ID, user.Role)
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user, "token": token})
}

// Logout destroys the session. Always succeeds, even without one.
func (api *AuthAPI) Logout(c *gin.Context) {
	token, err := c.Cookie(middleware.SessionCookie)
	if err != nil || token == "" {
		token = c.GetHeader(middleware.SessionTokenHeader)
	}
	if token != "" {
		api.Sessions.Delete(c.Request.Context(), token)
	}
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CheckAuth reports whether a live session exists. The header fallback does
// not count here, only a real session does.
func (api *AuthAPI) CheckAuth(c *gin.Context) {
	token, err := c.Cookie(middleware.SessionCookie)
	if err != nil || token == "" {
		token = c.GetHeader(middleware.SessionTokenHeader)
	}
	if token != "" {
		if session, ok := api.Sessions.Get(c.Request.Context(), token); ok {
			var user models.User
			if err := api.DB.First(&user, session.UserID).Error; err == nil {
				c.JSON(http.StatusOK, gin.H{"authenticated": true, "user": user})
				return
			}
		}
	}
	c.JSON(http.StatusUnauthorized, gin.H{"authenticated": false})
}
