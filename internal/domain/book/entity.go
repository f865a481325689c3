// internal/domain/book/entity.go
package book

import (
	"time"

	"gorm.io/gorm"

	"github.com/your-org/bookstore-backend/internal/domain/promotion"
)

// Book represents the book entity. Price is stored in cents; Rating is a
// denormalized average recomputed whenever a review is created.
type Book struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Title           string         `gorm:"not null;size:255;index" json:"title"`
	Description     string         `gorm:"type:text" json:"description"`
	PriceCents      int64          `gorm:"not null" json:"price_cents"`
	Stock           int            `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	ISBN            *string        `gorm:"uniqueIndex;size:20" json:"isbn,omitempty"`
	PublishedDate   *time.Time     `json:"published_date,omitempty"`
	PublicationYear *int           `json:"publication_year,omitempty"`
	Pages           int            `json:"pages"`
	Language        string         `gorm:"size:50;default:'Vietnamese'" json:"language"`
	Image           string         `gorm:"size:255" json:"image"`
	Rating          float64        `gorm:"type:decimal(3,2);default:0" json:"rating"`
	Views           int64          `gorm:"default:0" json:"views"`
	AuthorID        *uint          `gorm:"index" json:"author_id"`
	PublisherID     *uint          `gorm:"index" json:"publisher_id"`
	CategoryID      *uint          `gorm:"index" json:"category_id"`
	PromotionID     *uint          `gorm:"index" json:"promotion_id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Author    *Author              `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"author,omitempty"`
	Publisher *Publisher           `gorm:"foreignKey:PublisherID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"publisher,omitempty"`
	Category  *Category            `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category,omitempty"`
	Promotion *promotion.Promotion `gorm:"foreignKey:PromotionID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"promotion,omitempty"`
	Reviews   []Review             `gorm:"foreignKey:BookID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"reviews,omitempty"`
}

// Author represents a book author
type Author struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null;size:100;index" json:"name"`
	Biography   string         `gorm:"type:text" json:"biography"`
	BirthDate   *time.Time     `json:"birth_date,omitempty"`
	Nationality string         `gorm:"size:50" json:"nationality"`
	Avatar      string         `gorm:"size:255" json:"avatar"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Books []Book `gorm:"foreignKey:AuthorID" json:"books,omitempty"`
}

// Publisher represents a publishing house
type Publisher struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null;size:100;index" json:"name"`
	Address   string         `gorm:"type:text" json:"address"`
	Phone     string         `gorm:"size:20" json:"phone"`
	Email     string         `gorm:"size:100" json:"email"`
	Website   string         `gorm:"size:255" json:"website"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Books []Book `gorm:"foreignKey:PublisherID" json:"books,omitempty"`
}

// Category represents a book category
type Category struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"uniqueIndex;not null;size:100" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Icon        string         `gorm:"size:255" json:"icon"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Books []Book `gorm:"foreignKey:CategoryID" json:"books,omitempty"`
}

// Review represents a customer review. Uniqueness per (user, book) is
// enforced both by a pre-check and a composite unique index.
type Review struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UserID             uint      `gorm:"not null;uniqueIndex:idx_reviews_user_book" json:"user_id"`
	BookID             uint      `gorm:"not null;uniqueIndex:idx_reviews_user_book;index" json:"book_id"`
	Rating             int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment            string    `gorm:"type:text" json:"comment"`
	IsVerifiedPurchase bool      `gorm:"default:false" json:"is_verified_purchase"`
	HelpfulCount       int       `gorm:"default:0" json:"helpful_count"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	Reviewer *ReviewUser `gorm:"-" json:"user,omitempty"`
}

// ReviewUser is the public slice of a reviewer's profile
type ReviewUser struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// TableName overrides
func (Book) TableName() string      { return "books" }
func (Author) TableName() string    { return "authors" }
func (Publisher) TableName() string { return "publishers" }
func (Category) TableName() string  { return "categories" }
func (Review) TableName() string    { return "reviews" }

// Business methods for Book

// IsInStock reports whether at least one copy is purchasable
func (b *Book) IsInStock() bool {
	return b.Stock > 0
}

// GetFormattedPrice returns the list price as a float
func (b *Book) GetFormattedPrice() float64 {
	return float64(b.PriceCents) / 100
}

// DiscountCentsAt returns the per-unit discount granted by the book's
// promotion at the given instant, zero when no promotion applies.
func (b *Book) DiscountCentsAt(now time.Time) int64 {
	if b.Promotion == nil || !b.Promotion.IsActiveAt(now) {
		return 0
	}
	return b.Promotion.DiscountFor(b.PriceCents)
}
