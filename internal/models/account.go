package models

// Account represents a user's single monetary account.
// Exactly one account exists per user, created at registration.
// Balance is stored in cents and is adjusted only by the ledger
// service and by deposits; it may go negative.
type Account struct {
	Base
	UserID  string `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Balance int64  `gorm:"type:bigint;not null;default:0" json:"balance"`
}
