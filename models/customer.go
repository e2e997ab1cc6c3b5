package models

// Customer is the central record of the CRM. Every customer belongs to exactly
// one user; the customer number is only unique within that user's data, two
// different reps may both have a customer "K-100".
type Customer struct {
	ID             uint   `json:"id" gorm:"primarykey"`
	CustomerNumber string `json:"customer_number" gorm:"size:50;not null;uniqueIndex:uq_customer_number_per_user"`
	Name           string `json:"name" gorm:"size:100;not null"`
	Address        string `json:"address" gorm:"size:255"`
	Phone          string `json:"phone" gorm:"size:50"`
	Email          string `json:"email" gorm:"size:120"`
	CreatedBy      uint   `json:"created_by" gorm:"not null;index;uniqueIndex:uq_customer_number_per_user"`

	// Children, removed together with the customer (see services.LifecycleService).
	Protocols         []VisitProtocol    `json:"-" gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	Documents         []Document         `json:"-" gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	ConstructionSites []ConstructionSite `json:"-" gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
}

// TableName sets the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
