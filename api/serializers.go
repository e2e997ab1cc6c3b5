package api

import (
	"time"

	"backend_customerpro/models"
)

// Response shapes mirror what the frontend expects: dates as "YYYY-MM-DD",
// timestamps as "YYYY-MM-DD HH:MM:SS", blobs reduced to a has_file flag.

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func formatDateTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateTimeLayout)
	return &s
}

type CustomerResponse struct {
	ID             uint   `json:"id"`
	CustomerNumber string `json:"customer_number"`
	Name           string `json:"name"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	CreatedBy      uint   `json:"created_by"`

	// Only populated on the detail endpoint.
	Protocols         []ProtocolResponse         `json:"protocols,omitempty"`
	Documents         []DocumentResponse         `json:"documents,omitempty"`
	ConstructionSites []ConstructionSiteResponse `json:"construction_sites,omitempty"`
}

func customerToResponse(customer *models.Customer) CustomerResponse {
	return CustomerResponse{
		ID:             customer.ID,
		CustomerNumber: customer.CustomerNumber,
		Name:           customer.Name,
		Address:        customer.Address,
		Phone:          customer.Phone,
		Email:          customer.Email,
		CreatedBy:      customer.CreatedBy,
	}
}

type ProtocolResponse struct {
	ID         uint   `json:"id"`
	CustomerID uint   `json:"customer_id"`
	VisitDate  string `json:"visit_date"`
	Summary    string `json:"summary"`
	CreatedBy  uint   `json:"created_by"`
}

func protocolToResponse(protocol *models.VisitProtocol) ProtocolResponse {
	return ProtocolResponse{
		ID:         protocol.ID,
		CustomerID: protocol.CustomerID,
		VisitDate:  protocol.VisitDate.Format(dateLayout),
		Summary:    protocol.Summary,
		CreatedBy:  protocol.CreatedBy,
	}
}

type DocumentResponse struct {
	ID                 uint   `json:"id"`
	CustomerID         *uint  `json:"customer_id"`
	ConstructionSiteID *uint  `json:"construction_site_id"`
	Name               string `json:"name"`
	Type               string `json:"type"`
	FileURL            string `json:"file_url"`
	HasFile            bool   `json:"has_file"`
	CreatedAt          string `json:"created_at"`
	CreatedBy          uint   `json:"created_by"`
}

func documentToResponse(document *models.Document) DocumentResponse {
	return DocumentResponse{
		ID:                 document.ID,
		CustomerID:         document.CustomerID,
		ConstructionSiteID: document.ConstructionSiteID,
		Name:               document.Name,
		Type:               document.Type,
		FileURL:            document.FileURL,
		HasFile:            len(document.FileData) > 0,
		CreatedAt:          document.CreatedAt.Format(dateTimeLayout),
		CreatedBy:          document.CreatedBy,
	}
}

type ConstructionSiteResponse struct {
	ID         uint    `json:"id"`
	CustomerID uint    `json:"customer_id"`
	Name       string  `json:"name"`
	Address    string  `json:"address"`
	Status     string  `json:"status"`
	StartDate  *string `json:"start_date"`
	EndDate    *string `json:"end_date"`
	CreatedBy  uint    `json:"created_by"`

	Notes     []ConstructionNoteResponse `json:"notes,omitempty"`
	Documents []DocumentResponse         `json:"documents,omitempty"`
}

func siteToResponse(site *models.ConstructionSite) ConstructionSiteResponse {
	return ConstructionSiteResponse{
		ID:         site.ID,
		CustomerID: site.CustomerID,
		Name:       site.Name,
		Address:    site.Address,
		Status:     site.Status,
		StartDate:  formatDate(site.StartDate),
		EndDate:    formatDate(site.EndDate),
		CreatedBy:  site.CreatedBy,
	}
}

type ConstructionNoteResponse struct {
	ID                 uint   `json:"id"`
	ConstructionSiteID uint   `json:"construction_site_id"`
	Note               string `json:"note"`
	CreatedAt          string `json:"created_at"`
	CreatedBy          string `json:"created_by"`
}

// noteToResponse renders the author by name. The author reference is weak,
// deleted users show up as "Unbekannt".
func noteToResponse(note *models.ConstructionNote) ConstructionNoteResponse {
	author := "Unbekannt"
	if note.Creator != nil {
		author = note.Creator.Username
	}
	return ConstructionNoteResponse{
		ID:                 note.ID,
		ConstructionSiteID: note.ConstructionSiteID,
		Note:               note.Note,
		CreatedAt:          note.CreatedAt.Format(dateTimeLayout),
		CreatedBy:          author,
	}
}

type TourResponse struct {
	ID            uint               `json:"id"`
	Title         string             `json:"title"`
	Archived      bool               `json:"archived"`
	CompletedAt   *string            `json:"completed_at"`
	CreatedAt     string             `json:"created_at"`
	CreatedBy     uint               `json:"created_by"`
	CreatedByName string             `json:"created_by_name"`
	Stops         []TourStopResponse `json:"stops"`
}

func tourToResponse(tour *models.Tour) TourResponse {
	creatorName := "Unbekannt"
	if tour.Creator != nil {
		creatorName = tour.Creator.Username
	}
	stops := make([]TourStopResponse, 0, len(tour.Stops))
	for i := range tour.Stops {
		stops = append(stops, stopToResponse(&tour.Stops[i]))
	}
	return TourResponse{
		ID:            tour.ID,
		Title:         tour.Title,
		Archived:      tour.Archived,
		CompletedAt:   formatDateTime(tour.CompletedAt),
		CreatedAt:     tour.CreatedAt.Format(dateTimeLayout),
		CreatedBy:     tour.CreatedBy,
		CreatedByName: creatorName,
		Stops:         stops,
	}
}

type TourStopResponse struct {
	ID           uint   `json:"id"`
	CustomerName string `json:"customer_name"`
	Address      string `json:"address"`
	Goal         string `json:"goal"`
	Order        int    `json:"order"`
}

func stopToResponse(stop *models.TourStop) TourStopResponse {
	return TourStopResponse{
		ID:           stop.ID,
		CustomerName: stop.CustomerName,
		Address:      stop.Address,
		Goal:         stop.Goal,
		Order:        stop.Order,
	}
}
