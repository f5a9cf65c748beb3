package service

import (
	"context"

	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/apperrors"
	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/model"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 100
	latestNotificationLimit  = 5
)

// NotificationService serves the staff dashboard's in-app notifications.
type NotificationService struct {
	notifications NotificationStore
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(notifications NotificationStore) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// List returns one page, newest first. Non-positive page or limit fall back to defaults.
func (s *NotificationService) List(ctx context.Context, page, limit int) (*model.NotificationPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultNotificationLimit
	}
	if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}

	items, total, err := s.notifications.List(ctx, page, limit)
	if err != nil {
		return nil, apperrors.NewInternalError("list notifications", err)
	}
	if items == nil {
		items = []model.Notification{}
	}
	return &model.NotificationPage{Total: total, Page: page, Limit: limit, Data: items}, nil
}

// SetRead marks a notification read or unread.
func (s *NotificationService) SetRead(ctx context.Context, id string, req model.UpdateNotificationRequest) (*model.Notification, error) {
	if err := model.Validate(req); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	n, err := s.notifications.SetRead(ctx, id, *req.Read)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewNotFoundError("notification not found")
		}
		return nil, apperrors.NewInternalError("update notification", err)
	}
	return n, nil
}

// Latest returns the newest few notifications for the dashboard bell.
func (s *NotificationService) Latest(ctx context.Context) ([]model.Notification, error) {
	items, _, err := s.notifications.List(ctx, 1, latestNotificationLimit)
	if err != nil {
		return nil, apperrors.NewInternalError("list notifications", err)
	}
	if items == nil {
		items = []model.Notification{}
	}
	return items, nil
}

// Delete removes a notification.
func (s *NotificationService) Delete(ctx context.Context, id string) error {
	if err := s.notifications.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return apperrors.NewNotFoundError("notification not found")
		}
		return apperrors.NewInternalError("delete notification", err)
	}
	return nil
}
