package api

import (
	"errors"
	"log"
	"net/http"

	"backend_customerpro/auth"
	"backend_customerpro/middleware"
	"backend_customerpro/models"
	"backend_customerpro/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UsersAPI handles account management and the back-office view-as snapshot.
type UsersAPI struct {
	DB            *gorm.DB
	Lifecycle     *services.LifecycleService
	Notifications *services.NotificationService
}

// NewUsersAPI creates a new UsersAPI instance.
func NewUsersAPI(db *gorm.DB, lifecycle *services.LifecycleService, notifications *services.NotificationService) *UsersAPI {
	return &UsersAPI{DB: db, Lifecycle: lifecycle, Notifications: notifications}
}

// RegisterRoutes registers the user routes.
func (api *UsersAPI) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/users")
	{
		group.GET("", api.ListUsers)
		group.POST("", api.CreateUser)
		group.DELETE("/:id", api.DeleteUser)
		group.GET("/aussendienst/:id/data", api.GetFieldUserData)
	}
}

// ListUsers returns all accounts (passwords are never serialized). Anonymous
// callers get an empty list: the id/username pairs are exactly what the
// header fallback trusts, so the directory must not be open for enumeration.
func (api *UsersAPI) ListUsers(c *gin.Context) {
	if middleware.GetIdentity(c) == nil {
		c.JSON(http.StatusOK, []models.User{})
		return
	}

	var users []models.User
	if err := api.DB.Find(&users).Error; err != nil {
		c.JSON(http.StatusOK, []models.User{})
		return
	}
	c.JSON(http.StatusOK, users)
}

type userCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	IsAdmin  bool   `json:"is_admin"`
}

// CreateUser creates an account. Administrative action only; the password is
// stored hashed, never as submitted.
func (api *UsersAPI) CreateUser(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	if !identity.IsAdmin {
		respondMessage(c, http.StatusForbidden, msgNoPermission)
		return
	}

	var req userCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		respondMessage(c, http.StatusBadRequest, "Nutzername und Passwort erforderlich")
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		respondMessage(c, http.StatusInternalServerError, err.Error())
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleField
	}

	user := models.User{Username: req.Username, Password: hashed, Role: role, IsAdmin: req.IsAdmin}
	if err := api.Lifecycle.CreateUser(&user); err != nil {
		if errors.Is(err, services.ErrUsernameTaken) {
			respondMessage(c, http.StatusConflict, err.Error())
			return
		}
		respondMessage(c, http.StatusInternalServerError, err.Error())
		return
	}

	api.Notifications.NotifyUserCreated(&user)
	c.JSON(http.StatusCreated, user)
}

// DeleteUser removes an account. The system admin (id 1) is protected from
// every caller, including itself.
func (api *UsersAPI) DeleteUser(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	if !identity.IsAdmin {
		respondMessage(c, http.StatusForbidden, msgNoPermission)
		return
	}

	var user models.User
	if err := api.DB.First(&user, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondMessage(c, http.StatusNotFound, "Nutzer nicht gefunden")
			return
		}
		respondMessage(c, http.StatusInternalServerError, err.Error())
		return
	}

	if err := api.Lifecycle.DeleteUser(&user); err != nil {
		if errors.Is(err, services.ErrProtectedUser) {
			respondMessage(c, http.StatusForbidden, err.Error())
			return
		}
		respondMessage(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondMessage(c, http.StatusOK, "Nutzer gelöscht")
}

type fieldUserDataResponse struct {
	User              interface{}                `json:"user"`
	Customers         []CustomerResponse         `json:"customers"`
	ActiveTours       []TourResponse             `json:"active_tours"`
	ArchivedTours     []TourResponse             `json:"archived_tours"`
	ConstructionSites []ConstructionSiteResponse `json:"construction_sites"`
}

func emptyFieldUserData() fieldUserDataResponse {
	return fieldUserDataResponse{
		User:              gin.H{},
		Customers:         []CustomerResponse{},
		ActiveTours:       []TourResponse{},
		ArchivedTours:     []TourResponse{},
		ConstructionSites: []ConstructionSiteResponse{},
	}
}

// GetFieldUserData is the back-office view-as projection: one combined
// snapshot of a field rep's data, read-only. Unauthorized callers and
// unknown targets get the empty snapshot with a success status so the
// endpoint never leaks whether a target id exists.
func (api *UsersAPI) GetFieldUserData(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		c.JSON(http.StatusOK, emptyFieldUserData())
		return
	}
	if identity.Role != models.RoleOffice && !identity.IsAdmin {
		c.JSON(http.StatusOK, emptyFieldUserData())
		return
	}

	var target models.User
	if err := api.DB.First(&target, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusOK, emptyFieldUserData())
		return
	}

	response := emptyFieldUserData()
	response.User = target

	var customers []models.Customer
	api.DB.Where("created_by = ?", target.ID).Find(&customers)
	for i := range customers {
		response.Customers = append(response.Customers, customerToResponse(&customers[i]))
	}

	loadTours := func(archived bool) []TourResponse {
		var tours []models.Tour
		api.DB.Where("created_by = ? AND archived = ?", target.ID, archived).
			Preload("Stops", func(db *gorm.DB) *gorm.DB { return db.Order("stop_order") }).
			Preload("Creator").
			Find(&tours)
		result := make([]TourResponse, 0, len(tours))
		for i := range tours {
			result = append(result, tourToResponse(&tours[i]))
		}
		return result
	}
	response.ActiveTours = loadTours(false)
	response.ArchivedTours = loadTours(true)

	var sites []models.ConstructionSite
	api.DB.Where("created_by = ?", target.ID).Find(&sites)
	for i := range sites {
		response.ConstructionSites = append(response.ConstructionSites, siteToResponse(&sites[i]))
	}

	log.Printf("[INNENDIENST] Data for %s: %d customers, %d active, %d archived, %d sites",
		target.Username, len(response.Customers), len(response.ActiveTours),
		len(response.ArchivedTours), len(response.ConstructionSites))
	c.JSON(http.StatusOK, response)
}
