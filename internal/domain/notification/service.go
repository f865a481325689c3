// internal/domain/notification/service.go
package notification

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/your-org/bookstore-backend/internal/config"
)

// ErrNotificationNotFound is returned when a notification does not belong to the user
var ErrNotificationNotFound = errors.New("notification not found")

// Service handles in-app notification delivery
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new notification service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ListResponse bundles a user's notifications with the unread count
type ListResponse struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int64          `json:"unread_count"`
}

// Notify stores a notification for a user. Failures are the caller's choice
// to ignore; a lost notification never fails the operation that produced it.
func (s *Service) Notify(userID uint, notifType Type, title, message, link string) error {
	n := Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    notifType,
		Link:    link,
	}
	if err := s.db.Create(&n).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListForUser returns a user's notifications newest first plus the unread count
func (s *Service) ListForUser(userID uint, limit int) (*ListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var notifications []Notification
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve notifications: %w", err)
	}

	var unread int64
	err = s.db.Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&unread).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return &ListResponse{Notifications: notifications, UnreadCount: unread}, nil
}

// MarkRead marks a single notification as read, scoped to its owner
func (s *Service) MarkRead(userID, notificationID uint) error {
	result := s.db.Model(&Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification of the user as read
func (s *Service) MarkAllRead(userID uint) (int64, error) {
	result := s.db.Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", result.Error)
	}
	return result.RowsAffected, nil
}
