// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/book"
	"github.com/your-org/bookstore-backend/internal/domain/cart"
	"github.com/your-org/bookstore-backend/internal/domain/notification"
	"github.com/your-org/bookstore-backend/internal/domain/order"
	"github.com/your-org/bookstore-backend/internal/domain/promotion"
	"github.com/your-org/bookstore-backend/internal/domain/user"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	config *config.Config
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, cfg *config.Config) *Migration {
	return &Migration{
		db:     db,
		config: cfg,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Dependency order: referenced tables before referencing ones
	models := []interface{}{
		&user.User{},

		&book.Author{},
		&book.Publisher{},
		&book.Category{},
		&promotion.Promotion{},
		&book.Book{},
		&book.Review{},

		&cart.Cart{},
		&cart.CartItem{},

		&order.Order{},
		&order.OrderItem{},

		&notification.Notification{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at DESC)",

		"CREATE INDEX IF NOT EXISTS idx_books_category ON books(category_id)",
		"CREATE INDEX IF NOT EXISTS idx_books_author ON books(author_id)",
		"CREATE INDEX IF NOT EXISTS idx_books_price ON books(price_cents)",
		"CREATE INDEX IF NOT EXISTS idx_books_rating ON books(rating DESC)",
		"CREATE INDEX IF NOT EXISTS idx_books_created_at ON books(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_books_title_lower ON books(LOWER(title))",

		"CREATE INDEX IF NOT EXISTS idx_reviews_book_created ON reviews(book_id, created_at DESC)",

		"CREATE INDEX IF NOT EXISTS idx_orders_user_status ON orders(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",

		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_book ON order_items(book_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_user_book ON order_items(book_id, order_id)",

		"CREATE INDEX IF NOT EXISTS idx_notifications_user_read ON notifications(user_id, is_read)",
		"CREATE INDEX IF NOT EXISTS idx_notifications_created_at ON notifications(created_at DESC)",

		"CREATE INDEX IF NOT EXISTS idx_promotions_window ON promotions(start_date, end_date)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedCategories(); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	if err := m.seedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if m.config.IsDevelopment() {
		if err := m.seedSampleBooks(); err != nil {
			return fmt.Errorf("failed to seed sample books: %w", err)
		}
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

// seedCategories creates default book categories
func (m *Migration) seedCategories() error {
	categories := []book.Category{
		{Name: "Văn học", Description: "Tiểu thuyết, truyện ngắn và thơ"},
		{Name: "Kinh tế", Description: "Kinh doanh, tài chính và quản trị"},
		{Name: "Kỹ năng sống", Description: "Phát triển bản thân"},
		{Name: "Thiếu nhi", Description: "Sách cho trẻ em"},
		{Name: "Khoa học", Description: "Khoa học và công nghệ"},
	}

	for _, category := range categories {
		var existing book.Category
		if err := m.db.Where("name = ?", category.Name).First(&existing).Error; err == nil {
			continue
		}
		if err := m.db.Create(&category).Error; err != nil {
			return err
		}
	}
	return nil
}

// seedAdminUser creates the default admin account when none exists
func (m *Migration) seedAdminUser() error {
	var count int64
	if err := m.db.Model(&user.User{}).Where("role = ?", user.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := "admin123456"
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), m.config.Security.BcryptCost)
	if err != nil {
		return err
	}

	admin := user.User{
		Name:     "Administrator",
		Email:    "admin@bookstore.local",
		Password: string(hashed),
		Role:     user.RoleAdmin,
		IsActive: true,
	}

	if err := m.db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("👤 Created admin user %s (change the password immediately)", admin.Email)
	return nil
}

// seedSampleBooks creates a few books for local development
func (m *Migration) seedSampleBooks() error {
	var count int64
	if err := m.db.Model(&book.Book{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var category book.Category
	if err := m.db.Where("name = ?", "Văn học").First(&category).Error; err != nil {
		return err
	}

	author := book.Author{Name: "Nguyễn Nhật Ánh", Nationality: "Việt Nam"}
	if err := m.db.Where("name = ?", author.Name).FirstOrCreate(&author).Error; err != nil {
		return err
	}

	publisher := book.Publisher{Name: "NXB Trẻ"}
	if err := m.db.Where("name = ?", publisher.Name).FirstOrCreate(&publisher).Error; err != nil {
		return err
	}

	books := []book.Book{
		{
			Title:       "Tôi thấy hoa vàng trên cỏ xanh",
			Description: "Tuổi thơ miền quê qua đôi mắt của Thiều.",
			PriceCents:  125000,
			Stock:       40,
			Language:    "Vietnamese",
			AuthorID:    &author.ID,
			PublisherID: &publisher.ID,
			CategoryID:  &category.ID,
		},
		{
			Title:       "Mắt biếc",
			Description: "Chuyện tình Ngạn và Hà Lan.",
			PriceCents:  98000,
			Stock:       25,
			Language:    "Vietnamese",
			AuthorID:    &author.ID,
			PublisherID: &publisher.ID,
			CategoryID:  &category.ID,
		},
	}

	for _, b := range books {
		if err := m.db.Create(&b).Error; err != nil {
			return err
		}
	}
	return nil
}
