package api

import (
	"errors"
	"net/http"

	"backend_customerpro/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProtocolsAPI handles visit protocols.
type ProtocolsAPI struct {
	DB *gorm.DB
}

// NewProtocolsAPI creates a new ProtocolsAPI instance.
func NewProtocolsAPI(db *gorm.DB) *ProtocolsAPI {
	return &ProtocolsAPI{DB: db}
}

// RegisterRoutes registers the protocol routes.
func (api *ProtocolsAPI) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/protocols")
	{
		group.POST("", api.CreateProtocol)
		group.DELETE("/:id", api.DeleteProtocol)
	}
}

type protocolCreateRequest struct {
	CustomerID uint   `json:"customer_id"`
	VisitDate  string `json:"visit_date"`
	Summary    string `json:"summary"`
}

// CreateProtocol records a visit for a customer, authored by the caller.
func (api *ProtocolsAPI) CreateProtocol(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req protocolCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Keine Daten")
		return
	}
	if req.CustomerID == 0 || req.VisitDate == "" || req.Summary == "" {
		respondMessage(c, http.StatusBadRequest, "Kunde, Datum und Zusammenfassung sind erforderlich")
		return
	}

	visitDate, err := parseDate(req.VisitDate)
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "Ungültiges Datum: "+req.VisitDate)
		return
	}

	protocol := models.VisitProtocol{
		CustomerID: req.CustomerID,
		VisitDate:  visitDate,
		Summary:    req.Summary,
		CreatedBy:  identity.UserID,
	}
	if err := api.DB.Create(&protocol).Error; err != nil {
		respondMessage(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusCreated, protocolToResponse(&protocol))
}

// DeleteProtocol removes a visit protocol.
func (api *ProtocolsAPI) DeleteProtocol(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var protocol models.VisitProtocol
	if err := api.DB.First(&protocol, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondMessage(c, http.StatusNotFound, "Protokoll nicht gefunden")
			return
		}
		respondMessage(c, http.StatusInternalServerError, err.Error())
		return
	}

	if !authorizeWrite(c, identity, protocol.CreatedBy) {
		return
	}

	if err := api.DB.Delete(&protocol).Error; err != nil {
		respondMessage(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondMessage(c, http.StatusOK, "Protokoll gelöscht")
}
