package domain

import (
	"context"
	"errors"
)

type GetUserRequest struct {
	ID string
}

type Service interface {
	GetByID(context.Context, GetUserRequest) (User, error)
}

var (
	ErrInvalidID = errors.New("invalid_id")
	ErrNotFound  = errors.New("not_found")
)
