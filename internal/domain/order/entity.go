// internal/domain/order/entity.go
package order

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/your-org/bookstore-backend/internal/domain/book"
	"github.com/your-org/bookstore-backend/internal/domain/user"
)

// Status represents the order lifecycle status
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// PaymentStatus represents payment state
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Order represents a purchase with one or more line items. Amounts are
// computed once at creation time and stored in cents.
type Order struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	OrderCode       string         `gorm:"uniqueIndex;not null;size:50" json:"order_code"`
	UserID          uint           `gorm:"not null;index" json:"user_id"`
	TotalCents      int64          `gorm:"not null" json:"total_cents"`
	DiscountCents   int64          `gorm:"default:0" json:"discount_cents"`
	FinalCents      int64          `gorm:"not null" json:"final_cents"`
	Status          Status         `gorm:"size:20;not null;default:'pending';index" json:"status"`
	PaymentStatus   PaymentStatus  `gorm:"size:20;not null;default:'pending'" json:"payment_status"`
	PaymentMethod   string         `gorm:"size:50" json:"payment_method"`
	ShippingAddress string         `gorm:"type:text" json:"shipping_address"`
	ShippingPhone   string         `gorm:"size:20" json:"shipping_phone"`
	Notes           string         `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User  *user.User  `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// OrderItem is an immutable snapshot of one purchased line: unit price,
// per-unit discount and subtotal are fixed at purchase time.
type OrderItem struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrderID        uint      `gorm:"not null;index" json:"order_id"`
	BookID         uint      `gorm:"not null;index" json:"book_id"`
	Quantity       int       `gorm:"not null;default:1" json:"quantity"`
	UnitPriceCents int64     `gorm:"not null" json:"unit_price_cents"`
	DiscountCents  int64     `gorm:"default:0" json:"discount_cents"`
	SubtotalCents  int64     `gorm:"not null" json:"subtotal_cents"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Book *book.Book `gorm:"foreignKey:BookID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"book,omitempty"`
}

// TableName overrides
func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }

// GenerateOrderCode builds the external order identifier
func GenerateOrderCode(now time.Time) string {
	return fmt.Sprintf("ORD-%d", now.UnixMilli())
}

// CanBeCancelled reports whether the user may still cancel the order
func (o *Order) CanBeCancelled() bool {
	return o.Status == StatusPending || o.Status == StatusConfirmed
}

// GetFormattedFinal returns the final amount as a float
func (o *Order) GetFormattedFinal() float64 {
	return float64(o.FinalCents) / 100
}
