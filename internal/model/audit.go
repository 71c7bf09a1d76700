package model

import "time"

// Outcome classifies how a removal request ended.
const (
	OutcomeSucceeded      = "succeeded"
	OutcomeClientError    = "client_error"
	OutcomeRateLimited    = "rate_limited"
	OutcomeProviderFailed = "provider_failed"
	OutcomeTimedOut       = "timed_out"
)

// RemovalAudit is one row of the optional audit trail. Only request
// metadata and the outcome are recorded; image bytes and provider job
// state never touch the database.
type RemovalAudit struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	ClientID   string    `gorm:"type:varchar(64);index;not null"`
	FileName   string    `gorm:"type:varchar(255)"`
	FileSize   int64     `gorm:"not null;default:0"`
	StatusCode int       `gorm:"not null"`
	Outcome    string    `gorm:"type:varchar(32);index;not null"`
	DurationMs int64     `gorm:"not null;default:0"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index"`
}

// TableName maps the model to its table.
func (RemovalAudit) TableName() string {
	return "removal_audit_logs"
}
