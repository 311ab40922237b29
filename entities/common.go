package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the identifier and timestamps shared by every table.
// IDs are UUIDv7 so they sort by creation time.
type Base struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"uid"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		b.ID = id
	}
	return nil
}
