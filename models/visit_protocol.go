package models

import "time"

// VisitProtocol records a single customer visit. It lives and dies with its
// customer; CreatedBy references the authoring user.
type VisitProtocol struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	CustomerID uint      `json:"customer_id" gorm:"not null;index"`
	VisitDate  time.Time `json:"-" gorm:"not null"`
	Summary    string    `json:"summary" gorm:"type:text;not null"`
	CreatedBy  uint      `json:"created_by"`
}

// TableName sets the table name for the VisitProtocol model
func (VisitProtocol) TableName() string {
	return "visit_protocols"
}
