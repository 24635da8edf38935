package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/technohack/backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEventNotFound        = errors.New("event not found")
	ErrRegistrationNotFound = errors.New("registration not found")

	// ErrAlreadyRegistered is the expected outcome of a duplicate admission
	// attempt, enforced by the unique (user_id, event_id) index.
	ErrAlreadyRegistered = errors.New("already registered for this event")
)

type Storage struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.Registration{},
		&models.AuditEvent{},
		&models.PaymentSettings{},
	); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	return nil
}
