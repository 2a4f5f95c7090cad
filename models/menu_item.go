package models

import "time"

type MenuItem struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	CategoryID  uint          `gorm:"not null;index" json:"category"`
	Category    *MenuCategory `gorm:"foreignKey:CategoryID;references:ID" json:"-"`
	Name        string        `gorm:"type:varchar(100);not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	Price       Money         `gorm:"type:decimal(8,2);not null" json:"price"`
	Available   bool          `gorm:"not null;default:true" json:"available"`
	Image       *string       `gorm:"type:varchar(255)" json:"image"`
	CreatedAt   time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"not null" json:"updated_at"`

	// CategoryName is filled from the joined category when listing.
	CategoryName string `gorm:"-" json:"category_name"`
}
