package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	RoleCustomer  = "customer"
	RoleCameraman = "cameraman"
	RoleAdmin     = "admin"
)

const (
	StatusActive  = "active"
	StatusBlocked = "blocked"
)

// Membership tiers. Normal is the free tier; paid tiers carry a
// subscription window on the user row.
const (
	MembershipNormal   = "normal"
	MembershipOneMonth = "one_month"
	MembershipSixMonth = "six_month"
)

type User struct {
	ID                    snowflake.ID `gorm:"primaryKey" json:"id"`
	Email                 string       `gorm:"not null;index" json:"email"`
	FullName              string       `gorm:"not null" json:"full_name"`
	AvatarURL             string       `json:"avatar_url,omitempty"`
	PhoneNumber           string       `json:"phone_number,omitempty"`
	Role                  string       `gorm:"column:role_name;not null" json:"role_name"`
	Status                string       `gorm:"not null;default:active" json:"status"`
	IsVerified            bool         `gorm:"not null;default:false" json:"is_verified"`
	AvgRating             float64      `gorm:"not null;default:0" json:"avg_rating"`
	Membership            string       `gorm:"column:membership_subscription;not null;default:normal" json:"membership_subscription"`
	SubscriptionStartDate *time.Time   `json:"subscription_start_date,omitempty"`
	SubscriptionEndDate   *time.Time   `json:"subscription_end_date,omitempty"`
	CreatedAt             time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt             time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
