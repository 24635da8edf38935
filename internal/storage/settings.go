package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/technohack/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetPaymentSettings returns the single settings row, or defaults when the
// fest has not configured payments yet.
func (s *Storage) GetPaymentSettings(ctx context.Context) (*models.PaymentSettings, error) {
	var settings models.PaymentSettings
	if err := s.db.
		WithContext(ctx).
		Where("id = ?", models.PaymentSettingsID).
		First(&settings).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.PaymentSettings{ID: models.PaymentSettingsID, CashEnabled: true}, nil
		}
		return nil, fmt.Errorf("getting payment settings: %w", err)
	}
	return &settings, nil
}

func (s *Storage) SavePaymentSettings(ctx context.Context, settings *models.PaymentSettings) error {
	settings.ID = models.PaymentSettingsID
	if err := s.db.
		WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(settings).
		Error; err != nil {
		return fmt.Errorf("saving payment settings: %w", err)
	}
	return nil
}
