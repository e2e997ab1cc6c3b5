package api

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"backend_customerpro/auth"
	"backend_customerpro/middleware"
	"backend_customerpro/models"
	"backend_customerpro/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ConstructionSitesAPI handles construction sites and their notes.
type ConstructionSitesAPI struct {
	DB        *gorm.DB
	Lifecycle *services.LifecycleService
}

// NewConstructionSitesAPI creates a new ConstructionSitesAPI instance.
func NewConstructionSitesAPI(db *gorm.DB, lifecycle *services.LifecycleService) *ConstructionSitesAPI {
	return &ConstructionSitesAPI{DB: db, Lifecycle: lifecycle}
}

// RegisterRoutes registers the construction site and note routes.
func (api *ConstructionSitesAPI) RegisterRoutes(r *gin.RouterGroup) {
	sites := r.Group("/constructionsites")
	{
		sites.GET("", api.ListSites)
		sites.GET("/:id", api.GetSite)
		sites.POST("", api.CreateSite)
		sites.PUT("/:id", api.UpdateSite)
		sites.DELETE("/:id", api.DeleteSite)
		sites.POST("/:id/notes", api.CreateNote)
	}
	r.DELETE("/constructionnotes/:id", api.DeleteNote)
}

// ListSites returns the sites visible to the caller; anonymous callers get
// an empty list.
func (api *ConstructionSitesAPI) ListSites(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		c.JSON(http.StatusOK, []ConstructionSiteResponse{})
		return
	}

	var sites []models.ConstructionSite
	if err := auth.ScopeQuery(identity, api.DB).Find(&sites).Error; err != nil {
		log.Printf("[SITES] List failed: %v", err)
		c.JSON(http.StatusOK, []ConstructionSiteResponse{})
		return
	}

	response := make([]ConstructionSiteResponse, 0, len(sites))
	for i := range sites {
		response = append(response, siteToResponse(&sites[i]))
	}
	log.Printf("[SITES] User %d (%s): %d sites", identity.UserID, identity.Role, len(sites))
	c.JSON(http.StatusOK, response)
}

// GetSite returns one site with notes and documents, newest first.
func (api *ConstructionSitesAPI) GetSite(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var site models.ConstructionSite
	if err := api.DB.First(&site, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondMessage(c, http.StatusNotFound, "Baustelle nicht gefunden")
			return
		}
		respondMessage(c, http.StatusInternalServerError, err.Error())
		return
	}

	if !authorizeRead(c, identity, site.CreatedBy) {
		return
	}

	response := siteToResponse(&site)

	var notes []models.ConstructionNote
	api.DB.Preload("Creator").Where("construction_site_id = ?", site.ID).Order("created_at DESC").Find(&notes)
	response.Notes = make([]ConstructionNoteResponse, 0, len(notes))
	for i := range notes {
		response.Notes = append(response.Notes, noteToResponse(&notes[i]))
	}

	var documents []models.Document
	api.DB.Where("construction_site_id = ?", site.ID).Order("created_at DESC").Find(&documents)
	response.Documents = make([]DocumentResponse, 0, len(documents))
	for i := range documents {
		response.Documents = append(response.Documents, documentToResponse(&documents[i]))
	}

	c.JSON(http.StatusOK, response)
}

type siteCreateRequest struct {
	CustomerID uint   `json:"customer_id"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	Status     string `json:"status"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

// CreateSite creates a construction site owned by the caller.
func (api *ConstructionSitesAPI) CreateSite(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req siteCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Keine Daten")
		return
	}
	if req.CustomerID == 0 || req.Name == "" || req.Address == "" {
		respondMessage(c, http.StatusBadRequest, "Kunde, Name und Adresse sind erforderlich")
		return
	}

	site := models.ConstructionSite{
		CustomerID: req.CustomerID,
		Name:       req.Name,
		Address:    req.Address,
		Status:     req.Status,
		CreatedBy:  identity.UserID,
	}
	if site.Status == "" {
		site.Status = models.StatusPlanning
	}

	if req.StartDate != "" {
		startDate, err := parseDate(req.StartDate)
		if err != nil {
			respondMessage(c, http.StatusBadRequest, "Ungültiges Datum: "+req.StartDate)
			return
		}
		site.StartDate = &startDate
	}
	if req.EndDate != "" {
		endDate, err := parseDate(req.EndDate)
		if err != nil {
			respondMessage(c, http.StatusBadRequest, "Ungültiges Datum: "+req.EndDate)
			return
		}
		site.EndDate = &endDate
	}

	if err := api.DB.Create(&site).Error; err != nil {
		respondMessage(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusCreated, siteToResponse(&site))
}

type siteUpdateRequest struct {
	Name      *string `json:"name"`
	Address   *string `json:"address"`
	Status    *string `json:"status"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

// UpdateSite applies a field-masked update to a site.
func (api *ConstructionSitesAPI) UpdateSite(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var site models.ConstructionSite
	if err := api.DB.First(&site, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondMessage(c, http.StatusNotFound, "Baustelle nicht gefunden")
			return
		}
		respondMessage(c, http.StatusInternalServerError, err.Error())
		return
	}

	if !authorizeWrite(c, identity, site.CreatedBy) {
		return
	}

	var req siteUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Keine Daten")
		return
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		site.Name = *req.Name
	}
	if req.Address != nil && strings.TrimSpace(*req.Address) != "" {
		site.Address = *req.Address
	}
	if req.Status != nil && *req.Status != "" {
		site.Status = *req.Status
	}
	if req.StartDate != nil && *req.StartDate != "" {
		startDate, err := parseDate(*req.StartDate)
		if err != nil {
			respondMessage(c, http.StatusBadRequest, "Ungültiges Datum: "+*req.StartDate)
			return
		}
		site.StartDate = &startDate
	}
	if req.EndDate != nil && *req.EndDate != "" {
		endDate, err := parseDate(*req.EndDate)
		if err != nil {
			respondMessage(c, http.StatusBadRequest, "Ungültiges Datum: "+*req.EndDate)
			return
		}
		site.EndDate = &endDate
	}

	if err := api.DB.Save(&site).Error; err != nil {
		respondMessage(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, siteToResponse(&site))
}

// DeleteSite removes a site with its notes and documents.
func (api *ConstructionSitesAPI) DeleteSite(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var site models.ConstructionSite
	if err := api.DB.First(&site, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondMessage(c, http.StatusNotFound, "Baustelle nicht gefunden")
			return
		}
		respondMessage(c, http.StatusInternalServerError, err.Error())
		return
	}

	if !authorizeWrite(c, identity, site.CreatedBy) {
		return
	}

	if err := api.Lifecycle.DeleteConstructionSiteCascade(&site); err != nil {
		respondMessage(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondMessage(c, http.StatusOK, "Baustelle gelöscht")
}

type noteCreateRequest struct {
	Note string `json:"note"`
}

// CreateNote appends a note to a site. Notes are immutable once written.
func (api *ConstructionSitesAPI) CreateNote(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var site models.ConstructionSite
	if err := api.DB.First(&site, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondMessage(c, http.StatusNotFound, "Baustelle nicht gefunden")
			return
		}
		respondMessage(c, http.StatusInternalServerError, err.Error())
		return
	}

	var req noteCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Note == "" {
		respondMessage(c, http.StatusBadRequest, "Notiz ist erforderlich")
		return
	}

	note := models.ConstructionNote{
		ConstructionSiteID: site.ID,
		Note:               req.Note,
		CreatedBy:          identity.UserID,
	}
	if err := api.DB.Create(&note).Error; err != nil {
		respondMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	// Rendered with the author's name right away.
	note.Creator = &models.User{ID: identity.UserID, Username: identity.Username}
	c.JSON(http.StatusCreated, noteToResponse(&note))
}

// DeleteNote removes a note; deletion is the only mutation notes support.
func (api *ConstructionSitesAPI) DeleteNote(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var note models.ConstructionNote
	if err := api.DB.First(&note, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondMessage(c, http.StatusNotFound, "Notiz nicht gefunden")
			return
		}
		respondMessage(c, http.StatusInternalServerError, err.Error())
		return
	}

	if !authorizeWrite(c, identity, note.CreatedBy) {
		return
	}

	if err := api.DB.Delete(&note).Error; err != nil {
		respondMessage(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondMessage(c, http.StatusOK, "Notiz gelöscht")
}
