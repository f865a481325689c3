// internal/domain/book/directory_service.go
package book

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/your-org/bookstore-backend/internal/config"
)

// Sentinel errors for the author/publisher directory
var (
	ErrAuthorNotFound    = errors.New("author not found")
	ErrPublisherNotFound = errors.New("publisher not found")
)

// DirectoryService manages the author and publisher directory
type DirectoryService struct {
	db     *gorm.DB
	config *config.Config
}

// NewDirectoryService creates a new directory service
func NewDirectoryService(db *gorm.DB, cfg *config.Config) *DirectoryService {
	return &DirectoryService{
		db:     db,
		config: cfg,
	}
}

// AuthorRequest represents author creation/update data
type AuthorRequest struct {
	Name        string `json:"name" binding:"required"`
	Biography   string `json:"biography"`
	Nationality string `json:"nationality"`
	Avatar      string `json:"avatar"`
}

// PublisherRequest represents publisher creation/update data
type PublisherRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Website string `json:"website"`
}

// ListAuthors returns all authors ordered by name
func (s *DirectoryService) ListAuthors() ([]Author, error) {
	var authors []Author
	if err := s.db.Order("name ASC").Find(&authors).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve authors: %w", err)
	}
	return authors, nil
}

// CreateAuthor creates a new author
func (s *DirectoryService) CreateAuthor(req *AuthorRequest) (*Author, error) {
	author := Author{
		Name:        strings.TrimSpace(req.Name),
		Biography:   req.Biography,
		Nationality: req.Nationality,
		Avatar:      req.Avatar,
	}

	if err := s.db.Create(&author).Error; err != nil {
		return nil, fmt.Errorf("failed to create author: %w", err)
	}
	return &author, nil
}

// UpdateAuthor updates an existing author
func (s *DirectoryService) UpdateAuthor(id uint, req *AuthorRequest) (*Author, error) {
	var author Author
	if err := s.db.First(&author, id).Error; err != nil {
		return nil, ErrAuthorNotFound
	}

	updates := map[string]interface{}{
		"name":        strings.TrimSpace(req.Name),
		"biography":   req.Biography,
		"nationality": req.Nationality,
		"avatar":      req.Avatar,
	}
	if err := s.db.Model(&author).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update author: %w", err)
	}
	return &author, nil
}

// DeleteAuthor soft-deletes an author; their books fall back to a NULL fk
func (s *DirectoryService) DeleteAuthor(id uint) error {
	var author Author
	if err := s.db.First(&author, id).Error; err != nil {
		return ErrAuthorNotFound
	}

	if err := s.db.Model(&Book{}).Where("author_id = ?", id).Update("author_id", nil).Error; err != nil {
		return fmt.Errorf("failed to detach books from author: %w", err)
	}

	if err := s.db.Delete(&author).Error; err != nil {
		return fmt.Errorf("failed to delete author: %w", err)
	}
	return nil
}

// ListPublishers returns all publishers ordered by name
func (s *DirectoryService) ListPublishers() ([]Publisher, error) {
	var publishers []Publisher
	if err := s.db.Order("name ASC").Find(&publishers).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve publishers: %w", err)
	}
	return publishers, nil
}

// CreatePublisher creates a new publisher
func (s *DirectoryService) CreatePublisher(req *PublisherRequest) (*Publisher, error) {
	publisher := Publisher{
		Name:    strings.TrimSpace(req.Name),
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
		Website: req.Website,
	}

	if err := s.db.Create(&publisher).Error; err != nil {
		return nil, fmt.Errorf("failed to create publisher: %w", err)
	}
	return &publisher, nil
}

// UpdatePublisher updates an existing publisher
func (s *DirectoryService) UpdatePublisher(id uint, req *PublisherRequest) (*Publisher, error) {
	var publisher Publisher
	if err := s.db.First(&publisher, id).Error; err != nil {
		return nil, ErrPublisherNotFound
	}

	updates := map[string]interface{}{
		"name":    strings.TrimSpace(req.Name),
		"address": req.Address,
		"phone":   req.Phone,
		"email":   req.Email,
		"website": req.Website,
	}
	if err := s.db.Model(&publisher).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update publisher: %w", err)
	}
	return &publisher, nil
}

// DeletePublisher soft-deletes a publisher
func (s *DirectoryService) DeletePublisher(id uint) error {
	var publisher Publisher
	if err := s.db.First(&publisher, id).Error; err != nil {
		return ErrPublisherNotFound
	}

	if err := s.db.Model(&Book{}).Where("publisher_id = ?", id).Update("publisher_id", nil).Error; err != nil {
		return fmt.Errorf("failed to detach books from publisher: %w", err)
	}

	if err := s.db.Delete(&publisher).Error; err != nil {
		return fmt.Errorf("failed to delete publisher: %w", err)
	}
	return nil
}
