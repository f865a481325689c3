// internal/domain/book/review_service.go
package book

import (
	"errors"
	"fmt"
	"math"

	"gorm.io/gorm"

	"github.com/your-org/bookstore-backend/internal/config"
)

// Sentinel errors returned by the review service
var (
	ErrReviewNotPurchased = errors.New("you can only review books you have purchased")
	ErrReviewExists       = errors.New("you have already reviewed this book")
	ErrReviewNotFound     = errors.New("review not found")
)

// ReviewService handles book review business logic
type ReviewService struct {
	db     *gorm.DB
	config *config.Config
}

// NewReviewService creates a new review service
func NewReviewService(db *gorm.DB, cfg *config.Config) *ReviewService {
	return &ReviewService{
		db:     db,
		config: cfg,
	}
}

// CreateReviewRequest represents review submission data
type CreateReviewRequest struct {
	BookID  uint   `json:"book_id" binding:"required"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// Create submits a review for a purchased book and refreshes the book's
// aggregate rating. One review per user per book.
func (s *ReviewService) Create(userID uint, req *CreateReviewRequest) (*Review, error) {
	var book Book
	if err := s.db.First(&book, req.BookID).Error; err != nil {
		return nil, ErrBookNotFound
	}

	purchased, err := s.hasPurchased(userID, req.BookID)
	if err != nil {
		return nil, err
	}
	if !purchased {
		return nil, ErrReviewNotPurchased
	}

	var existing Review
	if err := s.db.Where("user_id = ? AND book_id = ?", userID, req.BookID).First(&existing).Error; err == nil {
		return nil, ErrReviewExists
	}

	review := Review{
		UserID:             userID,
		BookID:             req.BookID,
		Rating:             req.Rating,
		Comment:            req.Comment,
		IsVerifiedPurchase: true,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}
		return s.refreshBookRating(tx, req.BookID)
	})
	if err != nil {
		return nil, err
	}

	s.attachReviewer(&review)
	return &review, nil
}

// ListForBook retrieves a book's reviews newest first with reviewer profiles
func (s *ReviewService) ListForBook(bookID uint) ([]Review, error) {
	var book Book
	if err := s.db.First(&book, bookID).Error; err != nil {
		return nil, ErrBookNotFound
	}

	var reviews []Review
	if err := s.db.Where("book_id = ?", bookID).Order("created_at DESC").Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve reviews: %w", err)
	}

	for i := range reviews {
		s.attachReviewer(&reviews[i])
	}
	return reviews, nil
}

// Delete removes a review the user owns and refreshes the book's rating
func (s *ReviewService) Delete(userID, reviewID uint) error {
	var review Review
	if err := s.db.Where("id = ? AND user_id = ?", reviewID, userID).First(&review).Error; err != nil {
		return ErrReviewNotFound
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&review).Error; err != nil {
			return fmt.Errorf("failed to delete review: %w", err)
		}
		return s.refreshBookRating(tx, review.BookID)
	})
}

// MarkHelpful increments a review's helpful counter
func (s *ReviewService) MarkHelpful(reviewID uint) error {
	result := s.db.Model(&Review{}).Where("id = ?", reviewID).
		UpdateColumn("helpful_count", gorm.Expr("helpful_count + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to update review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

// hasPurchased reports whether the user has any order containing the book.
// Order status does not matter; having ordered at all grants eligibility.
func (s *ReviewService) hasPurchased(userID, bookID uint) (bool, error) {
	var count int64
	err := s.db.Table("order_items").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND order_items.book_id = ?", userID, bookID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check purchase history: %w", err)
	}
	return count > 0, nil
}

// refreshBookRating recomputes the aggregate rating, rounded to two decimals
func (s *ReviewService) refreshBookRating(tx *gorm.DB, bookID uint) error {
	var avg float64
	err := tx.Model(&Review{}).Where("book_id = ?", bookID).
		Select("COALESCE(AVG(rating), 0)").Scan(&avg).Error
	if err != nil {
		return fmt.Errorf("failed to compute rating: %w", err)
	}

	rounded := math.Round(avg*100) / 100
	if err := tx.Model(&Book{}).Where("id = ?", bookID).Update("rating", rounded).Error; err != nil {
		return fmt.Errorf("failed to update book rating: %w", err)
	}
	return nil
}

func (s *ReviewService) attachReviewer(review *Review) {
	var reviewer ReviewUser
	s.db.Table("users").Select("id, name, avatar").Where("id = ?", review.UserID).Scan(&reviewer)
	review.Reviewer = &reviewer
}
