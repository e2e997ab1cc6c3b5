package models

import "time"

// StatusPlanning is the initial lifecycle label of a construction site. The
// status is a free-form label, not an enum; "Planung" is only the default.
const StatusPlanning = "Planung"

// ConstructionSite belongs to a customer and is owned by a user, normally the
// customer's owner. Notes and site documents are removed together with the site.
type ConstructionSite struct {
	ID         uint       `json:"id" gorm:"primarykey"`
	CustomerID uint       `json:"customer_id" gorm:"not null;index"`
	Name       string     `json:"name" gorm:"size:255;not null"`
	Address    string     `json:"address" gorm:"size:255;not null"`
	Status     string     `json:"status" gorm:"size:50;default:'Planung'"`
	StartDate  *time.Time `json:"-"`
	EndDate    *time.Time `json:"-"`
	CreatedBy  uint       `json:"created_by" gorm:"not null;index"`

	Notes     []ConstructionNote `json:"-" gorm:"foreignKey:ConstructionSiteID;constraint:OnDelete:CASCADE"`
	Documents []Document         `json:"-" gorm:"foreignKey:ConstructionSiteID;constraint:OnDelete:CASCADE"`
}

// TableName sets the table name for the ConstructionSite model
func (ConstructionSite) TableName() string {
	return "construction_sites"
}

// ConstructionNote is an immutable site log entry. CreatedBy is a weak
// reference: deleting the author keeps the note, rendering falls back to
// "Unbekannt".
type ConstructionNote struct {
	ID                 uint      `json:"id" gorm:"primarykey"`
	ConstructionSiteID uint      `json:"construction_site_id" gorm:"not null;index"`
	Note               string    `json:"note" gorm:"type:text;not null"`
	CreatedAt          time.Time `json:"-"`
	CreatedBy          uint      `json:"-"`

	Creator *User `json:"-" gorm:"foreignKey:CreatedBy"`
}

// TableName sets the table name for the ConstructionNote model
func (ConstructionNote) TableName() string {
	return "construction_notes"
}
