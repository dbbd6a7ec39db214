package models

// Category represents an expense category.
// Name is unique per user, compared case-insensitively.
// Total is the running sum (in cents) of the amounts of all live
// expenses currently assigned to the category; it is maintained by
// the ledger service together with every expense mutation.
type Category struct {
	Base
	UserID string `gorm:"type:uuid;index;not null" json:"user_id"`
	Name   string `gorm:"not null" json:"name"`
	Total  int64  `gorm:"type:bigint;not null;default:0" json:"total"`

	// Relationships
	Expenses []Expense `gorm:"foreignKey:CategoryID" json:"expenses,omitempty"`
}

// DefaultCategoryNames is the fixed seed set created for every new user.
var DefaultCategoryNames = []string{
	"Food",
	"Transport",
	"Housing",
	"Leisure",
	"Health",
	"Other",
}
