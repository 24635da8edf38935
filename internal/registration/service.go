package registration

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/technohack/backend/internal/models"
	"github.com/technohack/backend/internal/storage"
)

var (
	ErrNotOwner = errors.New("registration belongs to another user")

	ErrInvalidPaymentStatus = errors.New("unknown payment status")
	ErrInvalidPaymentMode   = errors.New("unknown payment mode")
)

// Store is the storage surface admission and payment transitions need.
type Store interface {
	GetEventBySlug(ctx context.Context, slug string) (*models.Event, error)
	GetRegistrationForPair(ctx context.Context, userID, eventID string) (*models.Registration, error)
	CreateRegistration(ctx context.Context, reg *models.Registration) error
	GetRegistration(ctx context.Context, registrationID string) (*models.Registration, error)
	SetRegistrationStatus(ctx context.Context, registrationID string, status models.RegistrationStatus) error
	UpdatePayment(ctx context.Context, registrationID string, fields map[string]any) error
}

// Notifier fans registration activity out to the organizer channel.
// Implementations must not block or fail the request.
type Notifier interface {
	RegistrationCreated(user *models.User, event *models.Event, reg *models.Registration)
	PaymentUpdated(reg *models.Registration)
}

type Service struct {
	store    Store
	notifier Notifier
}

func NewService(store Store, notifier Notifier) *Service {
	return &Service{store: store, notifier: notifier}
}

// TeamInfo is the optional team captured for multi-member events.
type TeamInfo struct {
	Name    string
	Members []models.TeamMember
}

// Admit creates the registration for (user, event), enforcing at most one
// per pair. The friendly pre-check catches most duplicates; the unique
// index on (user_id, event_id) is the backstop that makes concurrent
// duplicate admissions collapse to exactly one row. Capacity and team size
// are not enforced: events admit regardless of fullness.
func (s *Service) Admit(ctx context.Context, user *models.User, eventSlug string, team TeamInfo) (*models.Registration, error) {
	event, err := s.store.GetEventBySlug(ctx, eventSlug)
	if err != nil {
		return nil, err
	}
	if !event.Published {
		return nil, storage.ErrEventNotFound
	}

	if _, err := s.store.GetRegistrationForPair(ctx, user.ID, event.ID); err == nil {
		return nil, storage.ErrAlreadyRegistered
	} else if !errors.Is(err, storage.ErrRegistrationNotFound) {
		return nil, fmt.Errorf("checking existing registration: %w", err)
	}

	reg := &models.Registration{
		UserID:        user.ID,
		EventID:       event.ID,
		Status:        models.RegistrationStatusConfirmed,
		PaymentStatus: models.PaymentStatusPending,
		AmountDue:     event.Price,
	}
	if event.TeamSize > 1 {
		reg.TeamName = team.Name
		reg.TeamMembers = team.Members
	}

	if err := s.store.CreateRegistration(ctx, reg); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"registration_id": reg.ID,
		"user_id":         user.ID,
		"event":           event.Slug,
	}).Info("registration admitted")

	s.notifier.RegistrationCreated(user, event, reg)

	return reg, nil
}

// Cancel marks the caller's own registration cancelled.
func (s *Service) Cancel(ctx context.Context, user *models.User, registrationID string) error {
	reg, err := s.store.GetRegistration(ctx, registrationID)
	if err != nil {
		return err
	}
	if reg.UserID != user.ID {
		return ErrNotOwner
	}
	return s.store.SetRegistrationStatus(ctx, registrationID, models.RegistrationStatusCancelled)
}

// PaymentUpdate carries the admin-set payment fields. Zero-valued optional
// fields are left untouched.
type PaymentUpdate struct {
	Status         models.PaymentStatus
	Mode           models.PaymentMode
	AmountPaid     *int
	TransactionRef string
	CashCode       string
}

// SetPaymentStatus applies an out-of-band reconciliation result. Any of the
// three payment states may be set from any other; the latest admin-set
// value wins. Only the registration row is touched.
func (s *Service) SetPaymentStatus(ctx context.Context, registrationID string, update PaymentUpdate) (*models.Registration, error) {
	if !models.ValidPaymentStatus(update.Status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, update.Status)
	}
	if update.Mode != "" && update.Mode != models.PaymentModeUPI && update.Mode != models.PaymentModeCash {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentMode, update.Mode)
	}

	fields := map[string]any{"payment_status": update.Status}
	if update.Mode != "" {
		fields["payment_mode"] = update.Mode
	}
	if update.AmountPaid != nil {
		fields["amount_paid"] = *update.AmountPaid
	}
	if update.TransactionRef != "" {
		fields["transaction_ref"] = update.TransactionRef
	}
	if update.CashCode != "" {
		fields["cash_code"] = update.CashCode
	}

	if err := s.store.UpdatePayment(ctx, registrationID, fields); err != nil {
		return nil, err
	}

	reg, err := s.store.GetRegistration(ctx, registrationID)
	if err != nil {
		return nil, err
	}

	s.notifier.PaymentUpdated(reg)

	return reg, nil
}
