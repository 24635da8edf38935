package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/technohack/backend/internal/models"
	"github.com/technohack/backend/internal/storage"
)

func detailRow(teamName string) *storage.RegistrationDetail {
	return &storage.RegistrationDetail{
		Registration: models.Registration{
			ID:            "reg-1",
			Status:        models.RegistrationStatusConfirmed,
			PaymentStatus: models.PaymentStatusPending,
			PaymentMode:   models.PaymentModeUPI,
			AmountDue:     50,
			AmountPaid:    0,
			TeamName:      teamName,
			CreatedAt:     time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC),
		},
		EventTitle:           "WebSprint",
		EventCategory:        "Coding",
		EventVenue:           "Lab 2",
		EventStartsAt:        time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		EventTeamSize:        1,
		ParticipantFirstName: "Asha",
		ParticipantLastName:  "Rao",
		ParticipantEmail:     "asha@example.org",
	}
}

func TestRegistrationsHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Registrations(&buf, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, registrationHeader, records[0])
}

func TestRegistrationsRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Registrations(&buf, []*storage.RegistrationDetail{detailRow("")}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	row := records[1]
	assert.Equal(t, "reg-1", row[0])
	assert.Equal(t, "WebSprint", row[1])
	assert.Equal(t, "Coding", row[2])
	assert.Equal(t, "2026-03-01T10:00:00Z", row[3])
	assert.Equal(t, "Lab 2", row[4])
	assert.Equal(t, "Asha Rao", row[5])
	assert.Equal(t, "asha@example.org", row[6])
	assert.Equal(t, "1", row[8])
	assert.Equal(t, "confirmed", row[9])
	assert.Equal(t, "pending", row[10])
	assert.Equal(t, "upi", row[11])
	assert.Equal(t, "50", row[12])
	assert.Equal(t, "2026-02-14T09:30:00Z", row[16])
}

func TestRegistrationsQuotesCommaFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Registrations(&buf, []*storage.RegistrationDetail{detailRow("Alpha, Beta")}))

	raw := buf.String()
	assert.Contains(t, raw, `"Alpha, Beta"`)

	// Parsing back reproduces the exact source value.
	records, err := csv.NewReader(strings.NewReader(raw)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "Alpha, Beta", records[1][7])
}

func TestRegistrationsEscapesQuotes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Registrations(&buf, []*storage.RegistrationDetail{detailRow(`Team "X"`)}))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, `Team "X"`, records[1][7])
}

func TestRegistrationsPreservesInputOrder(t *testing.T) {
	first := detailRow("")
	second := detailRow("")
	second.ID = "reg-2"

	var buf bytes.Buffer
	require.NoError(t, Registrations(&buf, []*storage.RegistrationDetail{first, second}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "reg-1", records[1][0])
	assert.Equal(t, "reg-2", records[2][0])
}

func TestUsers(t *testing.T) {
	lastLogin := time.Date(2026, 2, 20, 8, 0, 0, 0, time.UTC)
	rows := []*storage.UserWithRegistrationCount{
		{
			User: models.User{
				FirstName:  "Asha",
				LastName:   "Rao",
				Email:      "asha@example.org",
				Role:       models.RoleAdmin,
				College:    "SVCE, Bengaluru",
				Phone:      "9999999999",
				Course:     "CSE",
				Year:       "3",
				CreatedAt:  time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC),
				LastLogin:  &lastLogin,
				LoginCount: 7,
				IsActive:   true,
			},
			Registrations: 3,
		},
		{
			// Never logged in: Last Login renders as an empty cell.
			User: models.User{FirstName: "New", Email: "new@example.org", Role: models.RoleUser, IsActive: true},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Users(&buf, rows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, userHeader, records[0])

	assert.Equal(t, "Asha Rao", records[1][0])
	assert.Equal(t, "admin", records[1][2])
	assert.Equal(t, "SVCE, Bengaluru", records[1][3])
	assert.Equal(t, "2026-02-20T08:00:00Z", records[1][8])
	assert.Equal(t, "7", records[1][9])
	assert.Equal(t, "true", records[1][10])
	assert.Equal(t, "false", records[1][11])
	assert.Equal(t, "3", records[1][12])

	assert.Equal(t, "New", records[2][0])
	assert.Equal(t, "", records[2][8])
	assert.Equal(t, "", records[2][7])
	assert.Equal(t, "0", records[2][12])
}
