package models

import (
	"fmt"
	"time"
)

type RegistrationStatus string

const (
	RegistrationStatusPending   RegistrationStatus = "pending"
	RegistrationStatusConfirmed RegistrationStatus = "confirmed"
	RegistrationStatusCancelled RegistrationStatus = "cancelled"
	RegistrationStatusWaitlist  RegistrationStatus = "waitlist"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// ValidPaymentStatus reports whether s is one of the three known values.
// Payment verification happens out of band, so any known value may be set
// from any other at any time.
func ValidPaymentStatus(s PaymentStatus) bool {
	return s == PaymentStatusPending || s == PaymentStatusCompleted || s == PaymentStatusFailed
}

type PaymentMode string

const (
	PaymentModeUPI  PaymentMode = "upi"
	PaymentModeCash PaymentMode = "cash"
)

type TeamMember struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type Registration struct {
	ID      string `gorm:"type:uuid;primaryKey"`
	UserID  string `gorm:"type:uuid;uniqueIndex:idx_user_event"`
	EventID string `gorm:"type:uuid;uniqueIndex:idx_user_event"`

	Status        RegistrationStatus
	PaymentStatus PaymentStatus

	PaymentMode    PaymentMode
	AmountDue      int
	AmountPaid     int
	TransactionRef string
	CashCode       string

	TeamName    string
	TeamMembers []TeamMember `gorm:"type:jsonb;serializer:json"`

	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

func (r *Registration) String() string {
	return fmt.Sprintf(
		"Registration(%s, user=%s, event=%s, %s/%s)",
		r.ID,
		r.UserID,
		r.EventID,
		r.Status,
		r.PaymentStatus,
	)
}
