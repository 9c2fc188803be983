package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	TypeBooking      = "booking"
	TypeSubscription = "subscription"
)

// Payment status machine: processing is initial, paid and failed are
// terminal. A payment transitions exactly once.
const (
	StatusProcessing = "processing"
	StatusPaid       = "paid"
	StatusFailed     = "failed"
)

type Payment struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	BookingID snowflake.ID `gorm:"index" json:"booking_id,omitempty"`
	Type      string       `gorm:"not null" json:"type"`
	Amount    int64        `gorm:"not null" json:"amount"`
	Status    string       `gorm:"not null;default:processing" json:"status"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
