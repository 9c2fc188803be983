package domain

import (
	"context"
	"errors"
)

type Service interface {
	// Register stores the correlation before the user is redirected to
	// pay. Fails if the order code is already taken.
	Register(ctx context.Context, tx PendingTransaction) error
	// Consume atomically fetches and deletes; the first caller wins,
	// later callers get ErrNotFound.
	Consume(ctx context.Context, orderCode int64) (PendingTransaction, error)
}

var (
	ErrInvalidOrderCode = errors.New("invalid_order_code")
	ErrOrderCodeExists  = errors.New("order_code_exists")
	ErrNotFound         = errors.New("not_found")
)
