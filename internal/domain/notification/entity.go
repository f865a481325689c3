// internal/domain/notification/entity.go
package notification

import (
	"time"
)

// Type classifies a notification
type Type string

const (
	TypeOrder     Type = "order"
	TypePromotion Type = "promotion"
	TypeSystem    Type = "system"
	TypeMessage   Type = "message"
)

// Notification represents an in-app message shown to a user
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Title     string    `gorm:"not null;size:100" json:"title"`
	Message   string    `gorm:"not null;type:text" json:"message"`
	Type      Type      `gorm:"size:20;not null;default:'system'" json:"type"`
	IsRead    bool      `gorm:"default:false;index" json:"is_read"`
	Link      string    `gorm:"size:255" json:"link"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Notification) TableName() string {
	return "notifications"
}
