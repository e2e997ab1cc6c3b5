package models

import "time"

// Tour is a planned sequence of customer visits. A tour is either active or
// archived; archiving is one-way and stamps CompletedAt. Stops are immutable
// once the tour is created.
type Tour struct {
	ID          uint       `json:"id" gorm:"primarykey"`
	Title       string     `json:"title" gorm:"size:255;not null"`
	Archived    bool       `json:"archived" gorm:"default:false;index"`
	CompletedAt *time.Time `json:"-"`
	CreatedBy   uint       `json:"created_by" gorm:"not null;index"`
	CreatedAt   time.Time  `json:"-"`

	Stops   []TourStop `json:"-" gorm:"foreignKey:TourID;constraint:OnDelete:CASCADE"`
	Creator *User      `json:"-" gorm:"foreignKey:CreatedBy"`
}

// TableName sets the table name for the Tour model
func (Tour) TableName() string {
	return "tours"
}

// TourStop is one station of a tour. Order is the 1-based position in the
// list submitted at tour creation; it is dense and strictly increasing.
type TourStop struct {
	ID           uint   `json:"id" gorm:"primarykey"`
	TourID       uint   `json:"-" gorm:"not null;index"`
	CustomerName string `json:"customer_name" gorm:"size:100;not null"`
	Address      string `json:"address" gorm:"size:255;not null"`
	Goal         string `json:"goal" gorm:"type:text"`
	Order        int    `json:"order" gorm:"column:stop_order;not null"`
}

// TableName sets the table name for the TourStop model
func (TourStop) TableName() string {
	return "tour_stops"
}
