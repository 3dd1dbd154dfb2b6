package models

import "time"

// Occasion is a named celebration category (anniversary, birthday, ...) that a
// celebration request can reference. The catalog is read-mostly and managed
// through the seed.
type Occasion struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name           string    `json:"name" gorm:"type:varchar(100)" validate:"required,max=100"`
	Slug           string    `json:"slug" gorm:"uniqueIndex;type:varchar(100)" validate:"required,max=100"`
	Icon           string    `json:"icon" gorm:"type:varchar(50)"`
	PrimaryColor   string    `json:"primaryColor" gorm:"type:varchar(20)"`
	SecondaryColor *string   `json:"secondaryColor" gorm:"type:varchar(20)"`
	Description    *string   `json:"description" gorm:"type:text"`
	IsActive       bool      `json:"isActive"`
	SortOrder      int       `json:"sortOrder" gorm:"default:0"`
	CreatedAt      time.Time `json:"createdAt"`
}
