package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"backend_customerpro/auth"
	"backend_customerpro/middleware"
	"backend_customerpro/models"
	"backend_customerpro/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ToursAPI handles tours and their archival lifecycle.
type ToursAPI struct {
	DB            *gorm.DB
	Lifecycle     *services.LifecycleService
	Exports       *services.ExportService
	Notifications *services.NotificationService
}

// NewToursAPI creates a new ToursAPI instance.
func NewToursAPI(db *gorm.DB, lifecycle *services.LifecycleService, exports *services.ExportService, notifications *services.NotificationService) *ToursAPI {
	return &ToursAPI{DB: db, Lifecycle: lifecycle, Exports: exports, Notifications: notifications}
}

// RegisterRoutes registers the tour routes.
func (api *ToursAPI) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/tours")
	{
		group.GET("", api.ListTours)
		group.POST("", api.CreateTour)
		group.POST("/:id/complete", api.CompleteTour)
		group.DELETE("/:id", api.DeleteTour)
		group.GET("/:id/pdf", api.TourPDF)
	}
}

func (api *ToursAPI) loadTour(id string) (*models.Tour, error) {
	var tour models.Tour
	err := api.DB.
		Preload("Stops", func(db *gorm.DB) *gorm.DB { return db.Order("stop_order") }).
		Preload("Creator").
		First(&tour, id).Error
	if err != nil {
		return nil, err
	}
	return &tour, nil
}

// ListTours returns active or archived tours, scope-filtered. Anonymous
// callers get an empty list.
func (api *ToursAPI) ListTours(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		c.JSON(http.StatusOK, []TourResponse{})
		return
	}

	archived := c.DefaultQuery("archived", "false") == "true"

	var tours []models.Tour
	query := auth.ScopeQuery(identity, api.DB).
		Where("archived = ?", archived).
		Preload("Stops", func(db *gorm.DB) *gorm.DB { return db.Order("stop_order") }).
		Preload("Creator")
	if err := query.Find(&tours).Error; err != nil {
		log.Printf("[TOURS] List failed: %v", err)
		c.JSON(http.StatusOK, []TourResponse{})
		return
	}

	response := make([]TourResponse, 0, len(tours))
	for i := range tours {
		response = append(response, tourToResponse(&tours[i]))
	}
	log.Printf("[TOURS] User %d: %d tours (archived=%v)", identity.UserID, len(tours), archived)
	c.JSON(http.StatusOK, response)
}

type tourStopRequest struct {
	CustomerName string `json:"customer_name"`
	Address      string `json:"address"`
	Goal         string `json:"goal"`
}

type tourCreateRequest struct {
	Title string            `json:"title"`
	Stops []tourStopRequest `json:"stops"`
}

// CreateTour creates a tour with its stops in one transaction. Stop order is
// the 1-based position in the submitted list.
func (api *ToursAPI) CreateTour(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req tourCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" || len(req.Stops) == 0 {
		respondMessage(c, http.StatusBadRequest, "Titel und Stopps erforderlich")
		return
	}

	tour := models.Tour{Title: req.Title, CreatedBy: identity.UserID}
	stops := make([]models.TourStop, 0, len(req.Stops))
	for _, stop := range req.Stops {
		if stop.CustomerName == "" || stop.Address == "" {
			respondMessage(c, http.StatusBadRequest, "Stopp ohne Kunde oder Adresse")
			return
		}
		stops = append(stops, models.TourStop{
			CustomerName: stop.CustomerName,
			Address:      stop.Address,
			Goal:         stop.Goal,
		})
	}

	if err := api.Lifecycle.CreateTourWithStops(&tour, stops); err != nil {
		respondMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	tour.Creator = &models.User{ID: identity.UserID, Username: identity.Username}
	log.Printf("[TOUR] Created %d by user %d", tour.ID, identity.UserID)
	c.JSON(http.StatusCreated, tourToResponse(&tour))
}

// CompleteTour archives a tour. Re-completing an archived tour succeeds
// without touching the original completion timestamp.
func (api *ToursAPI) CompleteTour(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	tour, err := api.loadTour(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondMessage(c, http.StatusNotFound, "Tour nicht gefunden")
			return
		}
		respondMessage(c, http.StatusInternalServerError, err.Error())
		return
	}

	if !authorizeWrite(c, identity, tour.CreatedBy) {
		return
	}

	if err := api.Lifecycle.CompleteTour(tour); err != nil {
		respondMessage(c, http.StatusInternalServerError, err.Error())
		return
	}

	api.Notifications.NotifyTourCompleted(tour, identity.Username)
	c.JSON(http.StatusOK, tourToResponse(tour))
}

// DeleteTour removes a tour with its stops.
func (api *ToursAPI) DeleteTour(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	tour, err := api.loadTour(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondMessage(c, http.StatusNotFound, "Tour nicht gefunden")
			return
		}
		respondMessage(c, http.StatusInternalServerError, err.Error())
		return
	}

	if !authorizeWrite(c, identity, tour.CreatedBy) {
		return
	}

	if err := api.Lifecycle.DeleteTourCascade(tour); err != nil {
		respondMessage(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondMessage(c, http.StatusOK, "Tour gelöscht")
}

// TourPDF downloads the tour run sheet as PDF.
func (api *ToursAPI) TourPDF(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	tour, err := api.loadTour(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondMessage(c, http.StatusNotFound, "Tour nicht gefunden")
			return
		}
		respondMessage(c, http.StatusInternalServerError, err.Error())
		return
	}

	if !authorizeRead(c, identity, tour.CreatedBy) {
		return
	}

	pdf, err := api.Exports.TourPDF(tour)
	if err != nil {
		respondMessage(c, http.StatusInternalServerError, err.Error())
		return
	}

	filename := fmt.Sprintf("tour_%d.pdf", tour.ID)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
