package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/technohack/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateRegistration inserts the registration unless one already exists for
// the same (user, event) pair. The unique index is the only backstop against
// concurrent duplicate admissions; a conflicting insert affects zero rows
// and is reported as ErrAlreadyRegistered.
func (s *Storage) CreateRegistration(ctx context.Context, reg *models.Registration) error {
	if reg.ID == "" {
		reg.ID = uuid.New().String()
	}

	res := s.db.
		WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "event_id"},
			},
			DoNothing: true,
		}).
		Create(reg)
	if res.Error != nil {
		return fmt.Errorf("creating registration: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyRegistered
	}
	return nil
}

func (s *Storage) GetRegistration(ctx context.Context, registrationID string) (*models.Registration, error) {
	var reg models.Registration
	if err := s.db.WithContext(ctx).Where("id = ?", registrationID).First(&reg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("getting registration: %w", err)
	}
	return &reg, nil
}

func (s *Storage) GetRegistrationForPair(ctx context.Context, userID, eventID string) (*models.Registration, error) {
	var reg models.Registration
	if err := s.db.
		WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		First(&reg).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("getting registration: %w", err)
	}
	return &reg, nil
}

func (s *Storage) ListUserRegistrations(ctx context.Context, userID string) ([]*models.Registration, error) {
	var result []*models.Registration
	if err := s.db.
		WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&result).
		Error; err != nil {
		return nil, fmt.Errorf("listing registrations: %w", err)
	}
	return result, nil
}

func (s *Storage) SetRegistrationStatus(ctx context.Context, registrationID string, status models.RegistrationStatus) error {
	res := s.db.
		WithContext(ctx).
		Model(&models.Registration{}).
		Where("id = ?", registrationID).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("updating registration status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRegistrationNotFound
	}
	return nil
}

// UpdatePayment overwrites payment fields on the registration row only;
// the latest admin-set value wins, no ordering is enforced.
func (s *Storage) UpdatePayment(ctx context.Context, registrationID string, fields map[string]any) error {
	res := s.db.
		WithContext(ctx).
		Model(&models.Registration{}).
		Where("id = ?", registrationID).
		Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("updating payment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRegistrationNotFound
	}
	return nil
}

// RegistrationFilter narrows admin listings and exports. Query matches a
// substring of participant name, email, event title or team name.
type RegistrationFilter struct {
	Query         string
	PaymentStatus models.PaymentStatus
	EventID       string
}

// RegistrationDetail is a registration joined with its user and event,
// ordered by registration time descending.
type RegistrationDetail struct {
	models.Registration
	EventTitle           string
	EventCategory        string
	EventVenue           string
	EventStartsAt        time.Time
	EventTeamSize        int
	ParticipantFirstName string
	ParticipantLastName  string
	ParticipantEmail     string
}

func (s *Storage) ListRegistrationDetails(ctx context.Context, filter RegistrationFilter) ([]*RegistrationDetail, error) {
	q := s.db.
		WithContext(ctx).
		Model(&models.Registration{}).
		Select(`registrations.*,
			events.title AS event_title,
			events.category AS event_category,
			events.venue AS event_venue,
			events.starts_at AS event_starts_at,
			events.team_size AS event_team_size,
			users.first_name AS participant_first_name,
			users.last_name AS participant_last_name,
			users.email AS participant_email`).
		Joins("JOIN events ON events.id = registrations.event_id").
		Joins("JOIN users ON users.id = registrations.user_id").
		Order("registrations.created_at DESC")

	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		q = q.Where(
			`users.email ILIKE ? OR users.first_name ILIKE ? OR users.last_name ILIKE ?
				OR events.title ILIKE ? OR registrations.team_name ILIKE ?`,
			pattern, pattern, pattern, pattern, pattern,
		)
	}
	if filter.PaymentStatus != "" {
		q = q.Where("registrations.payment_status = ?", filter.PaymentStatus)
	}
	if filter.EventID != "" {
		q = q.Where("registrations.event_id = ?", filter.EventID)
	}

	var result []*RegistrationDetail
	if err := q.Find(&result).Error; err != nil {
		return nil, fmt.Errorf("listing registration details: %w", err)
	}
	return result, nil
}

type EventStat struct {
	EventID       string
	Title         string
	Registrations int64
}

type Stats struct {
	TotalUsers         int64
	TotalRegistrations int64
	PaymentsPending    int64
	PaymentsCompleted  int64
	PaymentsFailed     int64
	AmountCollected    int64
	PerEvent           []EventStat
}

func (s *Storage) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("counting users: %w", err)
	}
	if err := db.Model(&models.Registration{}).Count(&stats.TotalRegistrations).Error; err != nil {
		return nil, fmt.Errorf("counting registrations: %w", err)
	}

	type paymentCount struct {
		PaymentStatus models.PaymentStatus
		Count         int64
	}
	var counts []paymentCount
	if err := db.
		Model(&models.Registration{}).
		Select("payment_status, COUNT(*) AS count").
		Group("payment_status").
		Find(&counts).
		Error; err != nil {
		return nil, fmt.Errorf("counting payments: %w", err)
	}
	for _, c := range counts {
		switch c.PaymentStatus {
		case models.PaymentStatusPending:
			stats.PaymentsPending = c.Count
		case models.PaymentStatusCompleted:
			stats.PaymentsCompleted = c.Count
		case models.PaymentStatusFailed:
			stats.PaymentsFailed = c.Count
		}
	}

	if err := db.
		Model(&models.Registration{}).
		Select("COALESCE(SUM(amount_paid), 0)").
		Where("payment_status = ?", models.PaymentStatusCompleted).
		Scan(&stats.AmountCollected).
		Error; err != nil {
		return nil, fmt.Errorf("summing payments: %w", err)
	}

	if err := db.
		Model(&models.Registration{}).
		Select("registrations.event_id, events.title, COUNT(*) AS registrations").
		Joins("JOIN events ON events.id = registrations.event_id").
		Group("registrations.event_id, events.title").
		Order("registrations DESC").
		Find(&stats.PerEvent).
		Error; err != nil {
		return nil, fmt.Errorf("counting per-event registrations: %w", err)
	}

	return stats, nil
}
