package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"backend_customerpro/auth"
	"backend_customerpro/middleware"
	"backend_customerpro/models"
	"backend_customerpro/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CustomersAPI handles the customer CRUD with strict data isolation.
type CustomersAPI struct {
	DB        *gorm.DB
	Lifecycle *services.LifecycleService
	Exports   *services.ExportService
}

// NewCustomersAPI creates a new CustomersAPI instance.
func NewCustomersAPI(db *gorm.DB, lifecycle *services.LifecycleService, exports *services.ExportService) *CustomersAPI {
	return &CustomersAPI{DB: db, Lifecycle: lifecycle, Exports: exports}
}

// RegisterRoutes registers the customer routes.
func (api *CustomersAPI) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/customers")
	{
		group.GET("", api.ListCustomers)
		group.GET("/export", api.ExportCustomers)
		group.GET("/:id", api.GetCustomer)
		group.POST("", api.CreateCustomer)
		group.PUT("/:id", api.UpdateCustomer)
		group.DELETE("/:id", api.DeleteCustomer)
	}
}

// ListCustomers returns the customers visible to the caller. Anonymous
// callers get an empty list, never an error.
func (api *CustomersAPI) ListCustomers(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		c.JSON(http.StatusOK, []CustomerResponse{})
		return
	}

	var customers []models.Customer
	if err := auth.ScopeQuery(identity, api.DB).Find(&customers).Error; err != nil {
		log.Printf("[CUSTOMERS] List failed: %v", err)
		c.JSON(http.StatusOK, []CustomerResponse{})
		return
	}

	response := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		response = append(response, customerToResponse(&customers[i]))
	}
	log.Printf("[CUSTOMERS] User %d (%s): %d customers", identity.UserID, identity.Role, len(customers))
	c.JSON(http.StatusOK, response)
}

// GetCustomer returns one customer with protocols, documents and sites.
func (api *CustomersAPI) GetCustomer(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var customer models.Customer
	if err := api.DB.First(&customer, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondMessage(c, http.StatusNotFound, "Kunde nicht gefunden")
			return
		}
		respondMessage(c, http.StatusInternalServerError, err.Error())
		return
	}

	if !authorizeRead(c, identity, customer.CreatedBy) {
		return
	}

	response := customerToResponse(&customer)

	var protocols []models.VisitProtocol
	api.DB.Where("customer_id = ?", customer.ID).Order("visit_date DESC").Find(&protocols)
	response.Protocols = make([]ProtocolResponse, 0, len(protocols))
	for i := range protocols {
		response.Protocols = append(response.Protocols, protocolToResponse(&protocols[i]))
	}

	var documents []models.Document
	api.DB.Where("customer_id = ?", customer.ID).Order("created_at DESC").Find(&documents)
	response.Documents = make([]DocumentResponse, 0, len(documents))
	for i := range documents {
		response.Documents = append(response.Documents, documentToResponse(&documents[i]))
	}

	var sites []models.ConstructionSite
	api.DB.Where("customer_id = ?", customer.ID).Find(&sites)
	response.ConstructionSites = make([]ConstructionSiteResponse, 0, len(sites))
	for i := range sites {
		response.ConstructionSites = append(response.ConstructionSites, siteToResponse(&sites[i]))
	}

	c.JSON(http.StatusOK, response)
}

type customerCreateRequest struct {
	CustomerNumber string `json:"customer_number"`
	Name           string `json:"name"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
}

// CreateCustomer creates a customer owned by the caller. The customer number
// must be free within the caller's own data only.
func (api *CustomersAPI) CreateCustomer(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req customerCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Keine Daten")
		return
	}

	customerNumber := strings.TrimSpace(req.CustomerNumber)
	name := strings.TrimSpace(req.Name)
	if customerNumber == "" || name == "" {
		respondMessage(c, http.StatusBadRequest, "Kundennummer und Name sind erforderlich")
		return
	}

	if err := api.Lifecycle.CheckCustomerNumberFree(identity.UserID, customerNumber, 0); err != nil {
		if errors.Is(err, services.ErrCustomerNumberTaken) {
			respondMessage(c, http.StatusConflict, err.Error())
			return
		}
		respondMessage(c, http.StatusInternalServerError, err.Error())
		return
	}

	customer := models.Customer{
		CustomerNumber: customerNumber,
		Name:           name,
		Address:        strings.TrimSpace(req.Address),
		Phone:          strings.TrimSpace(req.Phone),
		Email:          strings.TrimSpace(req.Email),
		CreatedBy:      identity.UserID,
	}
	if err := api.DB.Create(&customer).Error; err != nil {
		respondMessage(c, http.StatusInternalServerError, err.Error())
		return
	}

	log.Printf("[CUSTOMER] Created %d by user %d", customer.ID, identity.UserID)
	c.JSON(http.StatusCreated, customerToResponse(&customer))
}

type customerUpdateRequest struct {
	CustomerNumber *string `json:"customer_number"`
	Name           *string `json:"name"`
	Address        *string `json:"address"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email"`
}

// UpdateCustomer applies a field-masked update: absent fields keep their
// values, an empty request is a no-op. A new customer number is checked
// against the record owner's scope, not the caller's.
func (api *CustomersAPI) UpdateCustomer(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var customer models.Customer
	if err := api.DB.First(&customer, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondMessage(c, http.StatusNotFound, "Kunde nicht gefunden")
			return
		}
		respondMessage(c, http.StatusInternalServerError, err.Error())
		return
	}

	if !authorizeWrite(c, identity, customer.CreatedBy) {
		return
	}

	var req customerUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Keine Daten")
		return
	}

	if req.CustomerNumber != nil {
		newNumber := strings.TrimSpace(*req.CustomerNumber)
		if newNumber != "" && newNumber != customer.CustomerNumber {
			if err := api.Lifecycle.CheckCustomerNumberFree(customer.CreatedBy, newNumber, customer.ID); err != nil {
				if errors.Is(err, services.ErrCustomerNumberTaken) {
					respondMessage(c, http.StatusConflict, err.Error())
					return
				}
				respondMessage(c, http.StatusInternalServerError, err.Error())
				return
			}
			customer.CustomerNumber = newNumber
		}
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		customer.Name = strings.TrimSpace(*req.Name)
	}
	if req.Address != nil {
		customer.Address = strings.TrimSpace(*req.Address)
	}
	if req.Phone != nil {
		customer.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		customer.Email = strings.TrimSpace(*req.Email)
	}

	if err := api.DB.Save(&customer).Error; err != nil {
		respondMessage(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, customerToResponse(&customer))
}

// DeleteCustomer removes a customer and cascades over all children.
func (api *CustomersAPI) DeleteCustomer(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var customer models.Customer
	if err := api.DB.First(&customer, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondMessage(c, http.StatusNotFound, "Kunde nicht gefunden")
			return
		}
		respondMessage(c, http.StatusInternalServerError, err.Error())
		return
	}

	if !authorizeWrite(c, identity, customer.CreatedBy) {
		return
	}

	if err := api.Lifecycle.DeleteCustomerCascade(&customer); err != nil {
		respondMessage(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondMessage(c, http.StatusOK, "Kunde gelöscht")
}

// ExportCustomers downloads the caller's visible customers as xlsx.
func (api *CustomersAPI) ExportCustomers(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var customers []models.Customer
	if err := auth.ScopeQuery(identity, api.DB).Order("customer_number").Find(&customers).Error; err != nil {
		respondMessage(c, http.StatusInternalServerError, err.Error())
		return
	}

	workbook, err := api.Exports.CustomersExcel(customers)
	if err != nil {
		respondMessage(c, http.StatusInternalServerError, err.Error())
		return
	}

	filename := fmt.Sprintf("kunden_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", workbook)
}
