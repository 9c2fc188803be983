package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const PaymentMethodInternetBanking = "internet_banking"

// Transaction is the purchase ledger entry written once the gateway
// confirms a service purchase.
type Transaction struct {
	ID              snowflake.ID                `gorm:"primaryKey" json:"id"`
	UserID          snowflake.ID                `gorm:"not null;index" json:"user_id"`
	ServiceIDs      datatypes.JSONSlice[string] `gorm:"not null" json:"service_ids"`
	PaymentMethod   string                      `gorm:"not null" json:"payment_method"`
	Amount          int64                       `gorm:"not null" json:"amount"`
	TransactionCode int64                       `gorm:"not null;index" json:"transaction_code"`
	CreatedAt       time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}
