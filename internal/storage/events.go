package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/technohack/backend/internal/models"
	"gorm.io/gorm"
)

func (s *Storage) GetEventBySlug(ctx context.Context, slug string) (*models.Event, error) {
	var event models.Event
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("getting event: %w", err)
	}
	return &event, nil
}

func (s *Storage) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	var event models.Event
	if err := s.db.WithContext(ctx).Where("id = ?", eventID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("getting event: %w", err)
	}
	return &event, nil
}

func (s *Storage) ListEvents(ctx context.Context, publishedOnly bool) ([]*models.Event, error) {
	q := s.db.WithContext(ctx).Order("starts_at ASC")
	if publishedOnly {
		q = q.Where("published = ?", true)
	}

	var events []*models.Event
	if err := q.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return events, nil
}

func (s *Storage) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("creating event: %w", err)
	}
	return nil
}

func (s *Storage) UpdateEvent(ctx context.Context, eventID string, fields map[string]any) error {
	res := s.db.
		WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ?", eventID).
		Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("updating event: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}
