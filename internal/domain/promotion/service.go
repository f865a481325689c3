// internal/domain/promotion/service.go
package promotion

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/your-org/bookstore-backend/internal/config"
)

// ErrPromotionNotFound is returned when a promotion id does not resolve
var ErrPromotionNotFound = errors.New("promotion not found")

// Service handles promotion business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new promotion service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// UpsertRequest represents promotion creation/update data
type UpsertRequest struct {
	Name            string    `json:"name" binding:"required"`
	Description     string    `json:"description"`
	DiscountPercent float64   `json:"discount_percent" binding:"gte=0,lte=100"`
	DiscountCents   int64     `json:"discount_cents" binding:"gte=0"`
	StartDate       time.Time `json:"start_date" binding:"required"`
	EndDate         time.Time `json:"end_date" binding:"required"`
	IsActive        *bool     `json:"is_active"`
	MaxUsage        *int      `json:"max_usage"`
}

// ListActive returns promotions currently granting discounts
func (s *Service) ListActive() ([]Promotion, error) {
	now := time.Now().UTC()

	var promotions []Promotion
	err := s.db.
		Where("is_active = ? AND start_date <= ? AND end_date >= ?", true, now, now).
		Order("end_date ASC").
		Find(&promotions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve promotions: %w", err)
	}

	// The usage cap cannot be expressed portably in the window query.
	active := promotions[:0]
	for _, p := range promotions {
		if p.IsActiveAt(now) {
			active = append(active, p)
		}
	}
	return active, nil
}

// ListAll returns every promotion for the admin dashboard, newest first
func (s *Service) ListAll() ([]Promotion, error) {
	var promotions []Promotion
	if err := s.db.Order("created_at DESC").Find(&promotions).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve promotions: %w", err)
	}
	return promotions, nil
}

// Get retrieves a single promotion
func (s *Service) Get(id uint) (*Promotion, error) {
	var promotion Promotion
	if err := s.db.First(&promotion, id).Error; err != nil {
		return nil, ErrPromotionNotFound
	}
	return &promotion, nil
}

// Create creates a new promotion
func (s *Service) Create(req *UpsertRequest) (*Promotion, error) {
	if err := validateWindow(req); err != nil {
		return nil, err
	}

	promotion := Promotion{
		Name:            req.Name,
		Description:     req.Description,
		DiscountPercent: req.DiscountPercent,
		DiscountCents:   req.DiscountCents,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		IsActive:        true,
		MaxUsage:        req.MaxUsage,
	}
	if req.IsActive != nil {
		promotion.IsActive = *req.IsActive
	}

	if err := s.db.Create(&promotion).Error; err != nil {
		return nil, fmt.Errorf("failed to create promotion: %w", err)
	}
	return &promotion, nil
}

// Update updates an existing promotion
func (s *Service) Update(id uint, req *UpsertRequest) (*Promotion, error) {
	if err := validateWindow(req); err != nil {
		return nil, err
	}

	var promotion Promotion
	if err := s.db.First(&promotion, id).Error; err != nil {
		return nil, ErrPromotionNotFound
	}

	updates := map[string]interface{}{
		"name":             req.Name,
		"description":      req.Description,
		"discount_percent": req.DiscountPercent,
		"discount_cents":   req.DiscountCents,
		"start_date":       req.StartDate,
		"end_date":         req.EndDate,
		"max_usage":        req.MaxUsage,
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if err := s.db.Model(&promotion).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update promotion: %w", err)
	}
	return &promotion, nil
}

// Delete soft-deletes a promotion
func (s *Service) Delete(id uint) error {
	var promotion Promotion
	if err := s.db.First(&promotion, id).Error; err != nil {
		return ErrPromotionNotFound
	}

	if err := s.db.Delete(&promotion).Error; err != nil {
		return fmt.Errorf("failed to delete promotion: %w", err)
	}
	return nil
}

func validateWindow(req *UpsertRequest) error {
	if !req.EndDate.After(req.StartDate) {
		return fmt.Errorf("end_date must be after start_date")
	}
	return nil
}
