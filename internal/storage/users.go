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

func (s *Storage) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return &user, nil
}

// GetOrCreateUser inserts the candidate row unless a user with the same
// subject id already exists, then returns whichever row won. Concurrent
// first-time resolutions for one subject id collapse onto a single row via
// the unique index.
func (s *Storage) GetOrCreateUser(ctx context.Context, candidate *models.User) (*models.User, error) {
	if candidate.ID == "" {
		candidate.ID = uuid.New().String()
	}

	var user models.User
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "subject_id"}},
				DoNothing: true,
			}).
			Create(candidate).
			Error; err != nil {
			return fmt.Errorf("creating user: %w", err)
		}

		if err := tx.
			Where("subject_id = ?", candidate.SubjectID).
			First(&user).
			Error; err != nil {
			return fmt.Errorf("getting user: %w", err)
		}

		return nil
	}); err != nil {
		return nil, fmt.Errorf("in tx: %w", err)
	}

	return &user, nil
}

// PromoteRole raises the user's role only if the persisted role is still
// "user". Returns whether the update took effect, so concurrent or repeated
// resolutions promote at most once.
func (s *Storage) PromoteRole(ctx context.Context, userID string, to models.Role) (bool, error) {
	res := s.db.
		WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND role = ?", userID, models.RoleUser).
		Update("role", to)
	if res.Error != nil {
		return false, fmt.Errorf("promoting user: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// SetUserRole is the explicit superadmin grant path; unlike PromoteRole it
// overwrites unconditionally.
func (s *Storage) SetUserRole(ctx context.Context, userID string, role models.Role) error {
	if err := s.db.
		WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("role", role).
		Error; err != nil {
		return fmt.Errorf("setting user role: %w", err)
	}
	return nil
}

func (s *Storage) RecordLogin(ctx context.Context, userID string) error {
	if err := s.db.
		WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"last_login":  time.Now(),
			"login_count": gorm.Expr("login_count + 1"),
		}).
		Error; err != nil {
		return fmt.Errorf("recording login: %w", err)
	}
	return nil
}

func (s *Storage) UpdateUserProfile(ctx context.Context, userID string, fields map[string]any) error {
	if err := s.db.
		WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(fields).
		Error; err != nil {
		return fmt.Errorf("updating user profile: %w", err)
	}
	return nil
}

func (s *Storage) SetUserFlags(ctx context.Context, userID string, isActive, isBanned bool) error {
	if err := s.db.
		WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"is_active": isActive,
			"is_banned": isBanned,
		}).
		Error; err != nil {
		return fmt.Errorf("setting user flags: %w", err)
	}
	return nil
}

func (s *Storage) AddAuditEvent(ctx context.Context, event *models.AuditEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("creating audit event: %w", err)
	}
	return nil
}

// UserWithRegistrationCount backs the users listing and export.
type UserWithRegistrationCount struct {
	models.User
	Registrations int
}

func (s *Storage) ListUsers(ctx context.Context, query string) ([]*UserWithRegistrationCount, error) {
	q := s.db.
		WithContext(ctx).
		Model(&models.User{}).
		Select("users.*, COUNT(registrations.id) AS registrations").
		Joins("LEFT JOIN registrations ON registrations.user_id = users.id").
		Group("users.id").
		Order("users.created_at DESC")

	if query != "" {
		pattern := "%" + query + "%"
		q = q.Where(
			"users.email ILIKE ? OR users.first_name ILIKE ? OR users.last_name ILIKE ? OR users.college ILIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	var result []*UserWithRegistrationCount
	if err := q.Find(&result).Error; err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return result, nil
}
