package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Time-of-day slots a service can be booked in.
const (
	SlotMorning   = "morning"
	SlotAfternoon = "afternoon"
	SlotEvening   = "evening"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusDisabled = "disabled"
)

func ValidSlot(slot string) bool {
	switch slot {
	case SlotMorning, SlotAfternoon, SlotEvening:
		return true
	default:
		return false
	}
}

// Service is a cameraman's offering: a working day plus the time-of-day
// slots it can be booked in.
type Service struct {
	ID              snowflake.ID                 `gorm:"primaryKey" json:"id"`
	CameramanID     snowflake.ID                 `gorm:"not null;index" json:"cameraman_id"`
	Title           string                       `gorm:"not null" json:"title"`
	Description     string                       `json:"description,omitempty"`
	Amount          int64                        `gorm:"not null" json:"amount"`
	Styles          datatypes.JSONSlice[string]  `json:"styles"`
	Categories      datatypes.JSONSlice[string]  `json:"categories"`
	Areas           datatypes.JSONSlice[string]  `json:"areas"`
	VideoDemoURLs   datatypes.JSONSlice[string]  `json:"video_demo_urls"`
	DateGetJob      time.Time                    `gorm:"not null" json:"date_get_job"`
	TimeOfDay       datatypes.JSONSlice[string]  `gorm:"not null" json:"time_of_day"`
	Status          string                       `gorm:"not null;default:pending" json:"status"`
	RejectionReason string                       `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time                    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time                    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
