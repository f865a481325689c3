// internal/domain/book/service.go
package book

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/your-org/bookstore-backend/internal/config"
)

// Sentinel errors returned by the book service
var (
	ErrBookNotFound = errors.New("book not found")
)

// Service handles book business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new book service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ListRequest represents book list query parameters
type ListRequest struct {
	CategoryID uint   `form:"category_id"`
	AuthorID   uint   `form:"author_id"`
	Search     string `form:"search"`
	Sort       string `form:"sort"`
	Page       int    `form:"page,default=1"`
	Limit      int    `form:"limit,default=12"`
}

// ListResponse represents a paginated book listing
type ListResponse struct {
	Books      []Book     `json:"books"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// UpsertRequest represents admin book creation/update data. Author,
// publisher and category may be referenced by id or by free-text name;
// names are resolved by exact match and created when absent.
type UpsertRequest struct {
	Title           string  `json:"title" binding:"required"`
	Description     string  `json:"description"`
	PriceCents      int64   `json:"price_cents" binding:"required,gt=0"`
	Stock           int     `json:"stock" binding:"gte=0"`
	ISBN            string  `json:"isbn"`
	PublicationYear *int    `json:"publication_year"`
	Pages           int     `json:"pages"`
	Language        string  `json:"language"`
	Image           string  `json:"image"`
	AuthorID        *uint   `json:"author_id"`
	PublisherID     *uint   `json:"publisher_id"`
	CategoryID      *uint   `json:"category_id"`
	PromotionID     *uint   `json:"promotion_id"`
	AuthorName      string  `json:"author_name"`
	PublisherName   string  `json:"publisher_name"`
	CategoryName    string  `json:"category_name"`
}

// List retrieves books with filtering, sorting and pagination
func (s *Service) List(req *ListRequest) (*ListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 12
	}

	query := s.db.Model(&Book{}).
		Preload("Author").
		Preload("Publisher").
		Preload("Category").
		Preload("Promotion")

	if req.CategoryID > 0 {
		query = query.Where("category_id = ?", req.CategoryID)
	}
	if req.AuthorID > 0 {
		query = query.Where("author_id = ?", req.AuthorID)
	}
	if req.Search != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(req.Search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count books: %w", err)
	}

	query = query.Order(s.buildOrderClause(req.Sort))

	var books []Book
	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Find(&books).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve books: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &ListResponse{
		Books: books,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// Get retrieves a single book with its relationships and the five most
// recent reviews, and increments the view counter.
func (s *Service) Get(id uint) (*Book, error) {
	var book Book
	result := s.db.
		Preload("Author").
		Preload("Publisher").
		Preload("Category").
		Preload("Promotion").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC").Limit(5)
		}).
		First(&book, id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to retrieve book: %w", result.Error)
	}

	// View counting is best-effort; a failed bump never fails the read.
	s.db.Model(&book).UpdateColumn("views", gorm.Expr("views + 1"))
	book.Views++

	s.attachReviewers(book.Reviews)

	return &book, nil
}

// ListAdmin retrieves all books with relationships for the admin dashboard
func (s *Service) ListAdmin() ([]Book, error) {
	var books []Book
	err := s.db.
		Preload("Author").
		Preload("Publisher").
		Preload("Category").
		Preload("Promotion").
		Order("created_at DESC").
		Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve books: %w", err)
	}
	return books, nil
}

// Create creates a book, resolving free-text author/publisher/category names
func (s *Service) Create(req *UpsertRequest) (*Book, error) {
	book := Book{
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		PriceCents:      req.PriceCents,
		Stock:           req.Stock,
		PublicationYear: req.PublicationYear,
		Pages:           req.Pages,
		Language:        req.Language,
		Image:           req.Image,
		AuthorID:        req.AuthorID,
		PublisherID:     req.PublisherID,
		CategoryID:      req.CategoryID,
		PromotionID:     req.PromotionID,
	}

	// Empty ISBN stays NULL so the unique index tolerates repeats.
	if isbn := strings.TrimSpace(req.ISBN); isbn != "" {
		book.ISBN = &isbn
	}

	if err := s.resolveNames(&book, req); err != nil {
		return nil, err
	}

	if err := s.db.Create(&book).Error; err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	return s.loadFull(book.ID)
}

// Update updates a book, resolving free-text names the same way as Create
func (s *Service) Update(id uint, req *UpsertRequest) (*Book, error) {
	var book Book
	if err := s.db.First(&book, id).Error; err != nil {
		return nil, ErrBookNotFound
	}

	book.Title = strings.TrimSpace(req.Title)
	book.Description = req.Description
	book.PriceCents = req.PriceCents
	book.Stock = req.Stock
	book.PublicationYear = req.PublicationYear
	book.Pages = req.Pages
	book.Language = req.Language
	book.Image = req.Image
	if req.AuthorID != nil {
		book.AuthorID = req.AuthorID
	}
	if req.PublisherID != nil {
		book.PublisherID = req.PublisherID
	}
	if req.CategoryID != nil {
		book.CategoryID = req.CategoryID
	}
	book.PromotionID = req.PromotionID

	if isbn := strings.TrimSpace(req.ISBN); isbn != "" {
		book.ISBN = &isbn
	} else {
		book.ISBN = nil
	}

	if err := s.resolveNames(&book, req); err != nil {
		return nil, err
	}

	if err := s.db.Save(&book).Error; err != nil {
		return nil, fmt.Errorf("failed to update book: %w", err)
	}

	return s.loadFull(book.ID)
}

// Delete soft-deletes a book
func (s *Service) Delete(id uint) error {
	var book Book
	if err := s.db.First(&book, id).Error; err != nil {
		return ErrBookNotFound
	}

	if err := s.db.Delete(&book).Error; err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	return nil
}

// resolveNames maps free-text author/publisher/category names onto foreign
// keys, creating missing rows. Matching is exact on the trimmed name.
func (s *Service) resolveNames(book *Book, req *UpsertRequest) error {
	if name := strings.TrimSpace(req.AuthorName); name != "" {
		var author Author
		result := s.db.Where("name = ?", name).First(&author)
		if result.Error != nil {
			author = Author{Name: name}
			if err := s.db.Create(&author).Error; err != nil {
				return fmt.Errorf("failed to create author %q: %w", name, err)
			}
		}
		book.AuthorID = &author.ID
	}

	if name := strings.TrimSpace(req.PublisherName); name != "" {
		var publisher Publisher
		result := s.db.Where("name = ?", name).First(&publisher)
		if result.Error != nil {
			publisher = Publisher{Name: name}
			if err := s.db.Create(&publisher).Error; err != nil {
				return fmt.Errorf("failed to create publisher %q: %w", name, err)
			}
		}
		book.PublisherID = &publisher.ID
	}

	if name := strings.TrimSpace(req.CategoryName); name != "" {
		var category Category
		result := s.db.Where("name = ?", name).First(&category)
		if result.Error != nil {
			category = Category{Name: name}
			if err := s.db.Create(&category).Error; err != nil {
				return fmt.Errorf("failed to create category %q: %w", name, err)
			}
		}
		book.CategoryID = &category.ID
	}

	return nil
}

func (s *Service) loadFull(id uint) (*Book, error) {
	var book Book
	err := s.db.
		Preload("Author").
		Preload("Publisher").
		Preload("Category").
		Preload("Promotion").
		First(&book, id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load book: %w", err)
	}
	return &book, nil
}

// attachReviewers fills the public reviewer profile on each review
func (s *Service) attachReviewers(reviews []Review) {
	for i := range reviews {
		var reviewer ReviewUser
		s.db.Table("users").Select("id, name, avatar").Where("id = ?", reviews[i].UserID).Scan(&reviewer)
		reviews[i].Reviewer = &reviewer
	}
}

func (s *Service) buildOrderClause(sort string) string {
	switch sort {
	case "price-asc":
		return "price_cents ASC"
	case "price-desc":
		return "price_cents DESC"
	case "rating":
		return "rating DESC"
	case "newest":
		return "created_at DESC"
	default:
		return "created_at DESC"
	}
}
