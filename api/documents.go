package api

import (
	"encoding/base64"
	"errors"
	"log"
	"net/http"
	"strings"

	"backend_customerpro/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DocumentsAPI handles document attachments. A document hangs off either a
// customer or a construction site and carries a URL or an inline blob.
type DocumentsAPI struct {
	DB *gorm.DB
}

// NewDocumentsAPI creates a new DocumentsAPI instance.
func NewDocumentsAPI(db *gorm.DB) *DocumentsAPI {
	return &DocumentsAPI{DB: db}
}

// RegisterRoutes registers the document routes.
func (api *DocumentsAPI) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/documents")
	{
		group.POST("", api.CreateDocument)
		group.DELETE("/:id", api.DeleteDocument)
		group.GET("/:id/download", api.DownloadDocument)
	}
}

type documentCreateRequest struct {
	CustomerID         *uint  `json:"customer_id"`
	ConstructionSiteID *uint  `json:"construction_site_id"`
	Name               string `json:"name"`
	Type               string `json:"type"`
	FileURL            string `json:"file_url"`
	FileData           string `json:"file_data"` // base64, optionally a data URL
}

// CreateDocument stores a document. Inline content arrives base64-encoded,
// a data-URL prefix ("data:...;base64,") is stripped before decoding.
func (api *DocumentsAPI) CreateDocument(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req documentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Keine Daten")
		return
	}
	if req.Name == "" || req.Type == "" {
		respondMessage(c, http.StatusBadRequest, "Name und Typ sind erforderlich")
		return
	}

	document := models.Document{
		CustomerID:         req.CustomerID,
		ConstructionSiteID: req.ConstructionSiteID,
		Name:               req.Name,
		Type:               req.Type,
		FileURL:            req.FileURL,
		CreatedBy:          identity.UserID,
	}

	if req.FileData != "" {
		payload := req.FileData
		if idx := strings.Index(payload, ","); idx >= 0 {
			payload = payload[idx+1:]
		}
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			respondMessage(c, http.StatusBadRequest, "Ungültige Dateidaten")
			return
		}
		document.FileData = data
	}

	if err := api.DB.Create(&document).Error; err != nil {
		respondMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	log.Printf("[DOCUMENT] Created %s (ID:%d)", document.Name, document.ID)
	c.JSON(http.StatusCreated, documentToResponse(&document))
}

// DeleteDocument removes a document.
func (api *DocumentsAPI) DeleteDocument(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var document models.Document
	if err := api.DB.First(&document, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondMessage(c, http.StatusNotFound, "Dokument nicht gefunden")
			return
		}
		respondMessage(c, http.StatusInternalServerError, err.Error())
		return
	}

	if !authorizeWrite(c, identity, document.CreatedBy) {
		return
	}

	if err := api.DB.Delete(&document).Error; err != nil {
		respondMessage(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondMessage(c, http.StatusOK, "Dokument gelöscht")
}

// DownloadDocument serves the stored blob base64-encoded. Documents that only
// carry a URL have nothing to download.
func (api *DocumentsAPI) DownloadDocument(c *gin.Context) {
	var document models.Document
	if err := api.DB.First(&document, c.Param("id")).Error; err != nil || len(document.FileData) == 0 {
		respondMessage(c, http.StatusNotFound, "Dokument nicht gefunden")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name": document.Name,
		"type": document.Type,
		"data": base64.StdEncoding.EncodeToString(document.FileData),
	})
}
