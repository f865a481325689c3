// internal/domain/order/service.go
package order

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/book"
	"github.com/your-org/bookstore-backend/internal/domain/notification"
	"github.com/your-org/bookstore-backend/internal/domain/promotion"
)

// Sentinel errors returned by the order service
var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrEmptyOrder        = errors.New("order must contain at least one item")
	ErrBookUnavailable   = errors.New("book not available")
	ErrInsufficientStock = errors.New("not enough copies in stock")
	ErrCannotCancel      = errors.New("order can no longer be cancelled")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Service handles order business logic
type Service struct {
	db            *gorm.DB
	config        *config.Config
	notifications *notification.Service
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config, notifications *notification.Service) *Service {
	return &Service{
		db:            db,
		config:        cfg,
		notifications: notifications,
	}
}

// CreateItemRequest represents one requested order line
type CreateItemRequest struct {
	BookID   uint `json:"book_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1"`
}

// CreateRequest represents order creation data
type CreateRequest struct {
	Items           []CreateItemRequest `json:"items" binding:"required,dive"`
	ShippingAddress string              `json:"shipping_address" binding:"required"`
	ShippingPhone   string              `json:"shipping_phone"`
	PaymentMethod   string              `json:"payment_method"`
	Notes           string              `json:"notes"`
}

// UpdateStatusRequest represents an admin status change
type UpdateStatusRequest struct {
	Status        Status         `json:"status" binding:"required"`
	PaymentStatus *PaymentStatus `json:"payment_status"`
}

// ListResponse represents a paginated order listing
type ListResponse struct {
	Orders     []Order `json:"orders"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	Total      int64   `json:"total"`
	TotalPages int     `json:"total_pages"`
}

// Create places an order inside a single transaction. Stock is decremented
// conditionally so two orders for the last copy can never both succeed, and
// any missing book or short stock rolls the whole order back.
func (s *Service) Create(userID uint, req *CreateRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "cod"
	}

	now := time.Now().UTC()
	var created Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		o := Order{
			OrderCode:       GenerateOrderCode(now),
			UserID:          userID,
			Status:          StatusPending,
			PaymentStatus:   PaymentStatusPending,
			PaymentMethod:   paymentMethod,
			ShippingAddress: req.ShippingAddress,
			ShippingPhone:   req.ShippingPhone,
			Notes:           req.Notes,
		}

		var items []OrderItem
		for _, line := range req.Items {
			var b book.Book
			if err := tx.Preload("Promotion").First(&b, line.BookID).Error; err != nil {
				return fmt.Errorf("%w: book %d", ErrBookUnavailable, line.BookID)
			}

			// Conditional decrement: only succeeds when enough stock remains.
			result := tx.Model(&book.Book{}).
				Where("id = ? AND stock >= ?", line.BookID, line.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", line.Quantity))
			if result.Error != nil {
				return fmt.Errorf("failed to reserve stock for book %d: %w", line.BookID, result.Error)
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("%w: %q", ErrInsufficientStock, b.Title)
			}

			unitDiscount := s.promotionDiscount(tx, &b, now)
			subtotal := (b.PriceCents - unitDiscount) * int64(line.Quantity)

			items = append(items, OrderItem{
				BookID:         line.BookID,
				Quantity:       line.Quantity,
				UnitPriceCents: b.PriceCents,
				DiscountCents:  unitDiscount,
				SubtotalCents:  subtotal,
			})

			o.TotalCents += b.PriceCents * int64(line.Quantity)
			o.DiscountCents += unitDiscount * int64(line.Quantity)
		}

		o.FinalCents = o.TotalCents - o.DiscountCents
		o.Items = items

		if err := tx.Create(&o).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		created = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyOrder(userID, &created, "Đặt hàng thành công",
		fmt.Sprintf("Đơn hàng %s đã được tạo và đang chờ xác nhận.", created.OrderCode))

	return s.loadFull(created.ID)
}

// GetUserOrders returns the user's orders newest first
func (s *Service) GetUserOrders(userID uint, page, limit int) (*ListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	query := s.db.Model(&Order{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []Order
	err := query.
		Preload("Items").
		Preload("Items.Book").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	return &ListResponse{
		Orders:     orders,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

// GetOrder returns one order scoped to its owner
func (s *Service) GetOrder(userID, orderID uint) (*Order, error) {
	var o Order
	err := s.db.
		Preload("Items").
		Preload("Items.Book").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&o).Error
	if err != nil {
		return nil, ErrOrderNotFound
	}
	return &o, nil
}

// Cancel cancels a pending or confirmed order and restores the stock it
// reserved, all inside one transaction.
func (s *Service) Cancel(userID, orderID uint) (*Order, error) {
	var cancelled Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var o Order
		err := tx.Preload("Items").
			Where("id = ? AND user_id = ?", orderID, userID).
			First(&o).Error
		if err != nil {
			return ErrOrderNotFound
		}

		if !o.CanBeCancelled() {
			return ErrCannotCancel
		}

		if err := s.restock(tx, o.Items); err != nil {
			return err
		}

		if err := tx.Model(&o).Update("status", StatusCancelled).Error; err != nil {
			return fmt.Errorf("failed to cancel order: %w", err)
		}

		o.Status = StatusCancelled
		cancelled = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyOrder(userID, &cancelled, "Đơn hàng đã hủy",
		fmt.Sprintf("Đơn hàng %s đã được hủy, số lượng sách đã được hoàn lại.", cancelled.OrderCode))

	return s.loadFull(cancelled.ID)
}

// AdminList returns all orders for the admin dashboard, optionally filtered
// by status, newest first.
func (s *Service) AdminList(status Status, page, limit int) (*ListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := s.db.Model(&Order{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []Order
	err := query.
		Preload("User").
		Preload("Items").
		Preload("Items.Book").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	for i := range orders {
		if orders[i].User != nil {
			orders[i].User.Password = ""
		}
	}

	return &ListResponse{
		Orders:     orders,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

// AdminGet returns any order by id with full relationships
func (s *Service) AdminGet(orderID uint) (*Order, error) {
	o, err := s.loadFull(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

// AdminUpdateStatus moves an order along its lifecycle. Cancelling from
// pending or confirmed restores stock the same way a user cancel does.
func (s *Service) AdminUpdateStatus(orderID uint, req *UpdateStatusRequest) (*Order, error) {
	var updated Order
	statusChanged := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var o Order
		if err := tx.Preload("Items").First(&o, orderID).Error; err != nil {
			return ErrOrderNotFound
		}

		// A request carrying the current status is a payment-only update.
		statusChanged = req.Status != o.Status
		if statusChanged && !validTransition(o.Status, req.Status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, req.Status)
		}

		if statusChanged && req.Status == StatusCancelled {
			if err := s.restock(tx, o.Items); err != nil {
				return err
			}
		}

		updates := map[string]interface{}{"status": req.Status}
		if req.PaymentStatus != nil {
			updates["payment_status"] = *req.PaymentStatus
		} else if req.Status == StatusDelivered && o.PaymentMethod == "cod" {
			updates["payment_status"] = PaymentStatusPaid
		}

		if err := tx.Model(&o).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}

		o.Status = req.Status
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	if statusChanged {
		s.notifyOrder(updated.UserID, &updated, "Cập nhật đơn hàng",
			fmt.Sprintf("Đơn hàng %s chuyển sang trạng thái %s.", updated.OrderCode, updated.Status))
	}

	return s.loadFull(updated.ID)
}

// promotionDiscount returns the per-unit discount for a book's promotion and
// bumps the promotion usage counter when it applies.
func (s *Service) promotionDiscount(tx *gorm.DB, b *book.Book, now time.Time) int64 {
	if b.PromotionID == nil {
		return 0
	}

	var p promotion.Promotion
	if err := tx.First(&p, *b.PromotionID).Error; err != nil {
		return 0
	}
	if !p.IsActiveAt(now) {
		return 0
	}

	tx.Model(&p).UpdateColumn("current_usage", gorm.Expr("current_usage + 1"))
	return p.DiscountFor(b.PriceCents)
}

func (s *Service) restock(tx *gorm.DB, items []OrderItem) error {
	for _, item := range items {
		err := tx.Model(&book.Book{}).
			Where("id = ?", item.BookID).
			UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity)).Error
		if err != nil {
			return fmt.Errorf("failed to restore stock for book %d: %w", item.BookID, err)
		}
	}
	return nil
}

func (s *Service) loadFull(orderID uint) (*Order, error) {
	var o Order
	err := s.db.
		Preload("User").
		Preload("Items").
		Preload("Items.Book").
		Preload("Items.Book.Author").
		First(&o, orderID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if o.User != nil {
		o.User.Password = ""
	}
	return &o, nil
}

// notifyOrder records an in-app notification; delivery failure never fails
// the order operation that triggered it.
func (s *Service) notifyOrder(userID uint, o *Order, title, message string) {
	if s.notifications == nil {
		return
	}
	link := fmt.Sprintf("/orders/%d", o.ID)
	_ = s.notifications.Notify(userID, notification.TypeOrder, title, message, link)
}

func validTransition(from, to Status) bool {
	if from == to {
		return false
	}
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusShipped || to == StatusCancelled
	case StatusShipped:
		return to == StatusDelivered
	default:
		return false
	}
}
