package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Booking status machine. Paying is initial; requested and
// pay_cancelled are reachable only from paying; completed only from
// requested. Bookings are never deleted.
const (
	StatusPaying       = "paying"
	StatusRequested    = "requested"
	StatusPayCancelled = "pay_cancelled"
	StatusCompleted    = "completed"
)

// ActiveStatuses are the statuses that hold a slot. At most one booking
// per (cameraman, date, slot) may be in one of them at a time.
var ActiveStatuses = []string{StatusPaying, StatusRequested}

type Booking struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	CustomerID    snowflake.ID `gorm:"not null;index" json:"customer_id"`
	CameramanID   snowflake.ID `gorm:"not null;index" json:"cameraman_id"`
	ServiceID     snowflake.ID `gorm:"not null;index" json:"service_id"`
	ScheduledDate time.Time    `gorm:"not null" json:"scheduled_date"`
	TimeOfDay     string       `gorm:"not null" json:"time_of_day"`
	Amount        int64        `gorm:"not null" json:"amount"`
	Status        string       `gorm:"not null;default:paying" json:"status"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
