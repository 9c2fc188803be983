package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Kind discriminates what a gateway confirmation means. The reconciler
// switches over these exhaustively; adding a kind means adding a case.
type Kind string

const (
	KindBookingPayment         Kind = "booking_payment"
	KindBuyService             Kind = "buy_service"
	KindMembershipSubscription Kind = "membership_subscription"
	KindLegacySchedule         Kind = "legacy_schedule"
)

// PendingTransaction correlates an external order code with the business
// action to perform once the gateway reports an outcome. It exists from
// payment-link creation until the webhook consumes it, exactly once.
type PendingTransaction struct {
	OrderCode int64        `gorm:"primaryKey;autoIncrement:false" json:"order_code"`
	Kind      Kind         `gorm:"not null" json:"kind"`
	UserID    snowflake.ID `gorm:"not null;index" json:"user_id"`

	// booking_payment
	BookingID snowflake.ID `json:"booking_id,omitempty"`
	PaymentID snowflake.ID `json:"payment_id,omitempty"`

	// buy_service and legacy_schedule
	ServiceIDs datatypes.JSONSlice[string] `json:"service_ids,omitempty"`

	// membership_subscription
	MembershipType string `json:"membership_type,omitempty"`
	Amount         int64  `json:"amount,omitempty"`

	// legacy_schedule
	CustomerID      snowflake.ID `json:"customer_id,omitempty"`
	ArtistID        snowflake.ID `json:"artist_id,omitempty"`
	AppointmentDate *time.Time   `json:"appointment_date,omitempty"`
	Slot            string       `json:"slot,omitempty"`
	Place           string       `json:"place,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}
