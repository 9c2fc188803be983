package domain

import (
	"context"
	"errors"

	"github.com/DuongHuynhTrung/CamCrew/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
)

type ListNotificationRequest struct {
	PageToken string
	PageSize  int32
}

type ListNotificationResponse struct {
	pagination.PageInfo
	Notifications []Notification `json:"notifications"`
}

type MarkReadRequest struct {
	ID string
}

type Service interface {
	// Emit is fire-and-forget: persistence failures are logged, never
	// propagated, so a notification can't abort reconciliation.
	Emit(ctx context.Context, receiverID snowflake.ID, notificationType, content string)
	List(context.Context, ListNotificationRequest) (ListNotificationResponse, error)
	MarkRead(context.Context, MarkReadRequest) error
}

var (
	ErrInvalidID = errors.New("invalid_id")
	ErrNotFound  = errors.New("not_found")
	ErrForbidden = errors.New("forbidden")
)
