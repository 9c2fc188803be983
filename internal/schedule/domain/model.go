package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Schedule is the legacy appointment entity, materialized only by the
// legacy_schedule reconciliation path. New code never creates one.
type Schedule struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id"`
	CustomerID      snowflake.ID `gorm:"not null;index" json:"customer_id"`
	ArtistID        snowflake.ID `gorm:"not null;index" json:"artist_id"`
	ServiceID       string       `json:"service_id,omitempty"`
	AppointmentDate time.Time    `gorm:"not null" json:"appointment_date"`
	Slot            string       `gorm:"not null" json:"slot"`
	Place           string       `json:"place,omitempty"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}
