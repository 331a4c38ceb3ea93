// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventCategory string

const (
	OperatorCategory     EventCategory = "OPERATOR"
	ServiceStateCategory EventCategory = "SERVICE_STATE"
	CellInfoCategory     EventCategory = "CELL_INFO"
	CountryCategory      EventCategory = "COUNTRY"
)

// LocaleEvent is one entry of the locale history: an input the tracker
// received or a country it decided on.
type LocaleEvent struct {
	ID        uint          `gorm:"primaryKey" json:"-"`
	EID       uuid.UUID     `gorm:"type:char(36);not null;uniqueIndex" json:"eid"`
	Category  EventCategory `gorm:"size:32;not null;index" json:"category"`
	PhoneID   int           `gorm:"not null;index" json:"phone_id"`
	Value     string        `gorm:"size:255" json:"value"`
	Previous  *string       `gorm:"size:255;default:null" json:"previous,omitempty"`
	Source    *string       `gorm:"size:32;default:null" json:"source,omitempty"`
	CreatedAt time.Time     `gorm:"index" json:"created_at"`
}

func (event *LocaleEvent) BeforeCreate(tx *gorm.DB) (err error) {
	event.EID = uuid.New()
	return
}

func init() {
	AllModels = append(AllModels, &LocaleEvent{})
}
