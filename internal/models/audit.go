package models

import "time"

type AuditKind string

const (
	AuditKindLogin     AuditKind = "login"
	AuditKindPromotion AuditKind = "promotion"
)

// AuditEvent records a login or a role promotion. Promotions are recorded
// separately from the login that triggered them.
type AuditEvent struct {
	ID     string `gorm:"type:uuid;primaryKey"`
	UserID string `gorm:"type:uuid;index"`

	Kind     AuditKind
	FromRole Role
	ToRole   Role

	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}
