package models

import "gorm.io/gorm"

// Book represents a title in the catalog. Copies is the number of
// physical copies currently available for issue and never drops below
// zero.
type Book struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title      string `json:"title" gorm:"type:varchar(200)" validate:"required,min=1,max=200"`
	Author     string `json:"author" gorm:"type:varchar(100)" validate:"required,min=1,max=100"`
	Copies     int    `json:"copies" validate:"gte=0"`
	Section    string `json:"section" gorm:"type:varchar(10)" validate:"omitempty,max=10"`
	Shelf      string `json:"shelf" gorm:"type:varchar(10)" validate:"omitempty,max=10"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
