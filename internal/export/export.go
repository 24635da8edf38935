// Package export flattens registration and user records into CSV for
// offline consumption. Pure projection: column order is fixed, row order
// follows the input, and quoting is standard RFC 4180.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/technohack/backend/internal/storage"
)

var registrationHeader = []string{
	"Registration ID",
	"Event Title",
	"Event Category",
	"Event Date",
	"Event Venue",
	"Participant",
	"Email",
	"Team Name",
	"Team Size",
	"Status",
	"Payment Status",
	"Payment Mode",
	"Amount",
	"Amount Paid",
	"Transaction Reference",
	"Cash Code",
	"Registered At",
}

var userHeader = []string{
	"Full Name",
	"Email",
	"Role",
	"College",
	"Phone",
	"Course",
	"Year",
	"Created At",
	"Last Login",
	"Login Count",
	"Is Active",
	"Is Banned",
	"Registrations",
}

// Registrations writes the registrations flavor, header first.
func Registrations(w io.Writer, rows []*storage.RegistrationDetail) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(registrationHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, row := range rows {
		participant := row.ParticipantFirstName
		if row.ParticipantLastName != "" {
			if participant != "" {
				participant += " "
			}
			participant += row.ParticipantLastName
		}

		record := []string{
			row.ID,
			row.EventTitle,
			row.EventCategory,
			formatTime(&row.EventStartsAt),
			row.EventVenue,
			participant,
			row.ParticipantEmail,
			row.TeamName,
			strconv.Itoa(row.EventTeamSize),
			string(row.Status),
			string(row.PaymentStatus),
			string(row.PaymentMode),
			strconv.Itoa(row.AmountDue),
			strconv.Itoa(row.AmountPaid),
			row.TransactionRef,
			row.CashCode,
			formatTime(&row.CreatedAt),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Users writes the users flavor, header first.
func Users(w io.Writer, rows []*storage.UserWithRegistrationCount) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(userHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.FullName(),
			row.Email,
			string(row.Role),
			row.College,
			row.Phone,
			row.Course,
			row.Year,
			formatTime(&row.CreatedAt),
			formatTime(row.LastLogin),
			strconv.Itoa(row.LoginCount),
			strconv.FormatBool(row.IsActive),
			strconv.FormatBool(row.IsBanned),
			strconv.Itoa(row.Registrations),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// formatTime renders RFC 3339; absent dates render as an empty cell.
func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
