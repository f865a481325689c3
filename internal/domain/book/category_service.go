// internal/domain/book/category_service.go
package book

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/your-org/bookstore-backend/internal/config"
)

// ErrCategoryNotFound is returned when a category id does not resolve
var ErrCategoryNotFound = errors.New("category not found")

// CategoryService handles category business logic
type CategoryService struct {
	db     *gorm.DB
	config *config.Config
}

// NewCategoryService creates a new category service
func NewCategoryService(db *gorm.DB, cfg *config.Config) *CategoryService {
	return &CategoryService{
		db:     db,
		config: cfg,
	}
}

// CategoryRequest represents category creation/update data
type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// CategoryWithBookCount represents a category plus the number of books in it
type CategoryWithBookCount struct {
	Category
	BookCount int64 `json:"book_count"`
}

// GetCategories retrieves all categories ordered by name
func (s *CategoryService) GetCategories() ([]Category, error) {
	var categories []Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}
	return categories, nil
}

// GetCategoriesWithBookCount retrieves categories with their book counts
func (s *CategoryService) GetCategoriesWithBookCount() ([]CategoryWithBookCount, error) {
	categories, err := s.GetCategories()
	if err != nil {
		return nil, err
	}

	result := make([]CategoryWithBookCount, len(categories))
	for i, cat := range categories {
		var count int64
		if err := s.db.Model(&Book{}).Where("category_id = ?", cat.ID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to count books for category %d: %w", cat.ID, err)
		}
		result[i] = CategoryWithBookCount{Category: cat, BookCount: count}
	}
	return result, nil
}

// GetCategory retrieves a single category by ID
func (s *CategoryService) GetCategory(id uint) (*Category, error) {
	var category Category
	if err := s.db.First(&category, id).Error; err != nil {
		return nil, ErrCategoryNotFound
	}
	return &category, nil
}

// CreateCategory creates a new category
func (s *CategoryService) CreateCategory(req *CategoryRequest) (*Category, error) {
	name := strings.TrimSpace(req.Name)

	var existing Category
	if err := s.db.Where("name = ?", name).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("category %q already exists", name)
	}

	category := Category{
		Name:        name,
		Description: req.Description,
		Icon:        req.Icon,
	}

	if err := s.db.Create(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &category, nil
}

// UpdateCategory updates an existing category
func (s *CategoryService) UpdateCategory(id uint, req *CategoryRequest) (*Category, error) {
	var category Category
	if err := s.db.First(&category, id).Error; err != nil {
		return nil, ErrCategoryNotFound
	}

	updates := map[string]interface{}{
		"name":        strings.TrimSpace(req.Name),
		"description": req.Description,
		"icon":        req.Icon,
	}

	if err := s.db.Model(&category).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return &category, nil
}

// DeleteCategory soft-deletes a category; books keep a dangling-free NULL fk
func (s *CategoryService) DeleteCategory(id uint) error {
	var category Category
	if err := s.db.First(&category, id).Error; err != nil {
		return ErrCategoryNotFound
	}

	if err := s.db.Model(&Book{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
		return fmt.Errorf("failed to detach books from category: %w", err)
	}

	if err := s.db.Delete(&category).Error; err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}
