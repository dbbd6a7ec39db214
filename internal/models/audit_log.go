package models

// AuditLog records a money-affecting action for later review.
type AuditLog struct {
	Base
	UserID       string `gorm:"type:uuid;index;not null" json:"user_id"`
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null" json:"resource_type"`
	ResourceID   string `gorm:"type:uuid" json:"resource_id"`
	IPAddress    string `json:"ip_address"`
	Changes      string `gorm:"type:text" json:"changes"`
}
