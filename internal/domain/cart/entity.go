// internal/domain/cart/entity.go
package cart

import (
	"time"

	"gorm.io/gorm"
)

// Cart represents a per-user cart. Totals are recomputed from the item rows
// and current book prices on every read, never trusted from storage.
type Cart struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items,omitempty"`
}

// CartItem represents one line of a stored cart. PriceCents is a snapshot
// taken when the item was added; the authoritative price is re-read from the
// book on fetch and at order time.
type CartItem struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CartID     uint           `gorm:"not null;index" json:"cart_id"`
	BookID     uint           `gorm:"not null;index" json:"book_id"`
	Quantity   int            `gorm:"not null;default:1" json:"quantity"`
	PriceCents int64          `gorm:"not null" json:"price_cents"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// SessionCart represents a guest cart stored in Redis under a session id
type SessionCart struct {
	SessionID string            `json:"session_id"`
	Items     []SessionCartItem `json:"items"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// SessionCartItem represents one line of a guest cart
type SessionCartItem struct {
	BookID     uint      `json:"book_id"`
	Quantity   int       `json:"quantity"`
	PriceCents int64     `json:"price_cents"`
	AddedAt    time.Time `json:"added_at"`
}

// TableName overrides
func (Cart) TableName() string     { return "carts" }
func (CartItem) TableName() string { return "cart_items" }
