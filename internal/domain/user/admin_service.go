// internal/domain/user/admin_service.go
package user

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/your-org/bookstore-backend/internal/config"
)

// AdminService handles administrative user management
type AdminService struct {
	db     *gorm.DB
	config *config.Config
}

// NewAdminService creates a new admin user service
func NewAdminService(db *gorm.DB, cfg *config.Config) *AdminService {
	return &AdminService{
		db:     db,
		config: cfg,
	}
}

// ListUsers returns all accounts, passwords stripped, newest first
func (s *AdminService) ListUsers() ([]User, error) {
	var users []User
	if err := s.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}

	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

// UpdateRole changes an account's role between user and admin
func (s *AdminService) UpdateRole(userID uint, role Role) (*User, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid role: must be %q or %q", RoleUser, RoleAdmin)
	}

	var user User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	if err := s.db.Model(&user).Update("role", role).Error; err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	user.Password = ""
	return &user, nil
}

// SetActive activates or deactivates an account
func (s *AdminService) SetActive(userID uint, active bool) (*User, error) {
	var user User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	if err := s.db.Model(&user).Update("is_active", active).Error; err != nil {
		return nil, fmt.Errorf("failed to update account state: %w", err)
	}

	user.Password = ""
	return &user, nil
}
