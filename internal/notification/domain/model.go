package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	TypeBookingRequested      = "booking_requested"
	TypeReviewNew             = "review_new"
	TypeServiceConfirm        = "service_confirm"
	TypeServiceApproved       = "service_approved"
	TypeServiceRejected       = "service_rejected"
	TypeSubscriptionActivated = "subscription_activated"
	TypeSubscriptionWarning   = "subscription_warning"
	TypeSubscriptionExpired   = "subscription_expired"
)

type Notification struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	ReceiverID snowflake.ID `gorm:"not null;index" json:"receiver_id"`
	Type       string       `gorm:"not null" json:"type"`
	Content    string       `gorm:"not null" json:"content"`
	IsRead     bool         `gorm:"not null;default:false" json:"is_read"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}
