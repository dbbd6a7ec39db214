package models

import "time"

// Expense represents a single recorded expense.
// An expense belongs to exactly one category; it carries no user
// reference of its own, ownership is derived through the category.
// Amount is in cents and always positive.
type Expense struct {
	Base
	CategoryID  string    `gorm:"type:uuid;index;not null" json:"category_id"`
	Description string    `gorm:"not null" json:"description"`
	Label       string    `json:"label"`
	Amount      int64     `gorm:"type:bigint;not null" json:"amount"`
	Date        time.Time `gorm:"not null" json:"date"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
