// internal/domain/promotion/entity.go
package promotion

import (
	"time"

	"gorm.io/gorm"
)

// Promotion represents a time-windowed discount attached to books.
// Either DiscountPercent or DiscountCents may be set; percent wins when both are.
type Promotion struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Name            string         `gorm:"not null;size:100" json:"name"`
	Description     string         `gorm:"type:text" json:"description"`
	DiscountPercent float64        `gorm:"type:decimal(5,2);default:0" json:"discount_percent"`
	DiscountCents   int64          `gorm:"default:0" json:"discount_cents"`
	StartDate       time.Time      `gorm:"not null" json:"start_date"`
	EndDate         time.Time      `gorm:"not null" json:"end_date"`
	IsActive        bool           `gorm:"default:true" json:"is_active"`
	MaxUsage        *int           `json:"max_usage,omitempty"`
	CurrentUsage    int            `gorm:"default:0" json:"current_usage"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Promotion) TableName() string {
	return "promotions"
}

// IsActiveAt reports whether the promotion grants discounts at the given
// instant: flagged active, inside its window, and under its usage cap.
func (p *Promotion) IsActiveAt(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if now.Before(p.StartDate) || now.After(p.EndDate) {
		return false
	}
	if p.MaxUsage != nil && p.CurrentUsage >= *p.MaxUsage {
		return false
	}
	return true
}

// DiscountFor returns the discount in cents for a unit price.
// The discount never exceeds the price itself.
func (p *Promotion) DiscountFor(priceCents int64) int64 {
	var discount int64
	if p.DiscountPercent > 0 {
		discount = int64(float64(priceCents) * p.DiscountPercent / 100)
	} else {
		discount = p.DiscountCents
	}
	if discount > priceCents {
		discount = priceCents
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}
