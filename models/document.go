package models

import "time"

// Document is attached to either a customer or a construction site, never both.
// The payload is an external URL or an inline blob; the blob is never serialized,
// clients only see has_file and fetch the content through the download endpoint.
type Document struct {
	ID                 uint      `json:"id" gorm:"primarykey"`
	CustomerID         *uint     `json:"customer_id" gorm:"index"`
	ConstructionSiteID *uint     `json:"construction_site_id" gorm:"index"`
	Name               string    `json:"name" gorm:"size:255;not null"`
	Type               string    `json:"type" gorm:"size:50;not null"`
	FileURL            string    `json:"file_url" gorm:"size:512"`
	FileData           []byte    `json:"-"`
	CreatedAt          time.Time `json:"-"`
	CreatedBy          uint      `json:"created_by"`
}

// TableName sets the table name for the Document model
func (Document) TableName() string {
	return "documents"
}
