package models

import "time"

// PaymentSettingsID is the fixed key of the single settings row.
const PaymentSettingsID = "default"

// PaymentSettings holds the fest-wide payment acknowledgment options shown
// to participants. Reconciliation itself is manual.
type PaymentSettings struct {
	ID string `gorm:"primaryKey"`

	UPIEnabled bool
	UPIID      string
	PayeeName  string

	CashEnabled bool

	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
