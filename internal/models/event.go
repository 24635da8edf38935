package models

import "time"

type Event struct {
	ID   string `gorm:"type:uuid;primaryKey"`
	Slug string `gorm:"uniqueIndex"`

	Title       string
	Category    string
	Description string

	StartsAt time.Time
	Venue    string

	// TeamSize is the declared size of a participating team; 1 means a
	// solo event and disables team capture on registration.
	TeamSize int `gorm:"default:1"`

	// Price in rupees. Zero means a free event.
	Price int

	Published bool `gorm:"default:false"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
