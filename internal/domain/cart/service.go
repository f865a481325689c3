// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/book"
	redisdb "github.com/your-org/bookstore-backend/internal/infrastructure/database/redis"
)

// Sentinel errors returned by the cart service
var (
	ErrBookNotFound      = errors.New("book not found")
	ErrInsufficientStock = errors.New("not enough copies in stock")
	ErrItemNotFound      = errors.New("cart item not found")
)

// SessionStore is the slice of the Redis client the guest cart needs.
// *redisdb.Client satisfies it.
type SessionStore interface {
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetJSON(ctx context.Context, key string, dest interface{}) error
	Del(ctx context.Context, keys ...string) error
}

// Service handles cart business logic for both authenticated users
// (database-backed) and guests (Redis session carts).
type Service struct {
	db       *gorm.DB
	sessions SessionStore
	config   *config.Config
}

// NewService creates a new cart service
func NewService(db *gorm.DB, sessions SessionStore, cfg *config.Config) *Service {
	return &Service{
		db:       db,
		sessions: sessions,
		config:   cfg,
	}
}

// AddItemRequest represents an add-to-cart request
type AddItemRequest struct {
	BookID   uint `json:"book_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1"`
}

// UpdateItemRequest represents a quantity change; zero removes the line
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"gte=0"`
}

// ItemView is a cart line joined with current book data
type ItemView struct {
	ID            uint       `json:"id"`
	BookID        uint       `json:"book_id"`
	Quantity      int        `json:"quantity"`
	PriceCents    int64      `json:"price_cents"`
	SubtotalCents int64      `json:"subtotal_cents"`
	Book          *book.Book `json:"book,omitempty"`
}

// Response is a cart with totals recomputed from current prices
type Response struct {
	SessionID  string     `json:"session_id,omitempty"`
	Items      []ItemView `json:"items"`
	ItemCount  int        `json:"item_count"`
	TotalCents int64      `json:"total_cents"`
}

// GetCart returns the user's cart, creating an empty one on first use.
// Prices come from the books table at read time, not the stored snapshot.
func (s *Service) GetCart(userID uint) (*Response, error) {
	c, err := s.findOrCreateCart(userID)
	if err != nil {
		return nil, err
	}

	var items []CartItem
	if err := s.db.Where("cart_id = ?", c.ID).Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve cart items: %w", err)
	}

	return s.buildResponse(items)
}

// AddItem adds a book to the user's cart or bumps the quantity of an
// existing line. Quantity is capped by available stock.
func (s *Service) AddItem(userID uint, req *AddItemRequest) (*Response, error) {
	b, err := s.loadBook(req.BookID)
	if err != nil {
		return nil, err
	}

	c, err := s.findOrCreateCart(userID)
	if err != nil {
		return nil, err
	}

	var item CartItem
	result := s.db.Where("cart_id = ? AND book_id = ?", c.ID, req.BookID).First(&item)
	if result.Error == nil {
		newQuantity := item.Quantity + req.Quantity
		if newQuantity > b.Stock {
			return nil, ErrInsufficientStock
		}
		updates := map[string]interface{}{
			"quantity":    newQuantity,
			"price_cents": b.PriceCents,
		}
		if err := s.db.Model(&item).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	} else {
		if req.Quantity > b.Stock {
			return nil, ErrInsufficientStock
		}
		item = CartItem{
			CartID:     c.ID,
			BookID:     req.BookID,
			Quantity:   req.Quantity,
			PriceCents: b.PriceCents,
		}
		if err := s.db.Create(&item).Error; err != nil {
			return nil, fmt.Errorf("failed to add cart item: %w", err)
		}
	}

	return s.GetCart(userID)
}

// UpdateItem sets the quantity of a cart line; zero removes it
func (s *Service) UpdateItem(userID, itemID uint, req *UpdateItemRequest) (*Response, error) {
	c, err := s.findOrCreateCart(userID)
	if err != nil {
		return nil, err
	}

	var item CartItem
	if err := s.db.Where("id = ? AND cart_id = ?", itemID, c.ID).First(&item).Error; err != nil {
		return nil, ErrItemNotFound
	}

	if req.Quantity == 0 {
		if err := s.db.Delete(&item).Error; err != nil {
			return nil, fmt.Errorf("failed to remove cart item: %w", err)
		}
		return s.GetCart(userID)
	}

	b, err := s.loadBook(item.BookID)
	if err != nil {
		return nil, err
	}
	if req.Quantity > b.Stock {
		return nil, ErrInsufficientStock
	}

	if err := s.db.Model(&item).Update("quantity", req.Quantity).Error; err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	return s.GetCart(userID)
}

// RemoveItem removes a cart line
func (s *Service) RemoveItem(userID, itemID uint) (*Response, error) {
	c, err := s.findOrCreateCart(userID)
	if err != nil {
		return nil, err
	}

	result := s.db.Where("id = ? AND cart_id = ?", itemID, c.ID).Delete(&CartItem{})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrItemNotFound
	}
	return s.GetCart(userID)
}

// Clear removes every line from the user's cart
func (s *Service) Clear(userID uint) error {
	c, err := s.findOrCreateCart(userID)
	if err != nil {
		return err
	}
	if err := s.db.Where("cart_id = ?", c.ID).Delete(&CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// GetGuestCart returns the guest cart for a session, creating the session
// when sessionID is empty. The cart lives in Redis with a sliding TTL.
func (s *Service) GetGuestCart(ctx context.Context, sessionID string) (*Response, error) {
	sc, sid, err := s.loadSessionCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	resp, err := s.buildGuestResponse(sc)
	if err != nil {
		return nil, err
	}
	resp.SessionID = sid
	return resp, nil
}

// AddGuestItem adds a book to a guest session cart
func (s *Service) AddGuestItem(ctx context.Context, sessionID string, req *AddItemRequest) (*Response, error) {
	b, err := s.loadBook(req.BookID)
	if err != nil {
		return nil, err
	}

	sc, sid, err := s.loadSessionCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range sc.Items {
		if sc.Items[i].BookID == req.BookID {
			newQuantity := sc.Items[i].Quantity + req.Quantity
			if newQuantity > b.Stock {
				return nil, ErrInsufficientStock
			}
			sc.Items[i].Quantity = newQuantity
			sc.Items[i].PriceCents = b.PriceCents
			found = true
			break
		}
	}
	if !found {
		if req.Quantity > b.Stock {
			return nil, ErrInsufficientStock
		}
		sc.Items = append(sc.Items, SessionCartItem{
			BookID:     req.BookID,
			Quantity:   req.Quantity,
			PriceCents: b.PriceCents,
			AddedAt:    time.Now().UTC(),
		})
	}

	if err := s.saveSessionCart(ctx, sc); err != nil {
		return nil, err
	}

	resp, err := s.buildGuestResponse(sc)
	if err != nil {
		return nil, err
	}
	resp.SessionID = sid
	return resp, nil
}

// RemoveGuestItem removes a book from a guest session cart
func (s *Service) RemoveGuestItem(ctx context.Context, sessionID string, bookID uint) (*Response, error) {
	sc, sid, err := s.loadSessionCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	kept := sc.Items[:0]
	removed := false
	for _, item := range sc.Items {
		if item.BookID == bookID {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if !removed {
		return nil, ErrItemNotFound
	}
	sc.Items = kept

	if err := s.saveSessionCart(ctx, sc); err != nil {
		return nil, err
	}

	resp, err := s.buildGuestResponse(sc)
	if err != nil {
		return nil, err
	}
	resp.SessionID = sid
	return resp, nil
}

// UpdateGuestItem sets the quantity of a guest cart line, addressed by book
// id; zero removes the line.
func (s *Service) UpdateGuestItem(ctx context.Context, sessionID string, bookID uint, req *UpdateItemRequest) (*Response, error) {
	sc, sid, err := s.loadSessionCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range sc.Items {
		if sc.Items[i].BookID == bookID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrItemNotFound
	}

	if req.Quantity == 0 {
		sc.Items = append(sc.Items[:idx], sc.Items[idx+1:]...)
	} else {
		b, err := s.loadBook(bookID)
		if err != nil {
			return nil, err
		}
		if req.Quantity > b.Stock {
			return nil, ErrInsufficientStock
		}
		sc.Items[idx].Quantity = req.Quantity
		sc.Items[idx].PriceCents = b.PriceCents
	}

	if err := s.saveSessionCart(ctx, sc); err != nil {
		return nil, err
	}

	resp, err := s.buildGuestResponse(sc)
	if err != nil {
		return nil, err
	}
	resp.SessionID = sid
	return resp, nil
}

// ClearGuestCart drops the whole guest session cart
func (s *Service) ClearGuestCart(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Del(ctx, sessionCartKey(sessionID)); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// MergeGuestCart folds a guest session cart into the user's stored cart
// after login and deletes the session.
func (s *Service) MergeGuestCart(ctx context.Context, sessionID string, userID uint) error {
	if sessionID == "" {
		return nil
	}

	var sc SessionCart
	err := s.sessions.GetJSON(ctx, sessionCartKey(sessionID), &sc)
	if err != nil {
		if redisdb.IsNil(err) {
			return nil
		}
		return fmt.Errorf("failed to load guest cart: %w", err)
	}

	for _, item := range sc.Items {
		req := &AddItemRequest{BookID: item.BookID, Quantity: item.Quantity}
		if _, err := s.AddItem(userID, req); err != nil {
			// Out-of-stock or deleted books are skipped, the rest merge.
			if errors.Is(err, ErrInsufficientStock) || errors.Is(err, ErrBookNotFound) {
				continue
			}
			return err
		}
	}

	return s.sessions.Del(ctx, sessionCartKey(sessionID))
}

func (s *Service) findOrCreateCart(userID uint) (*Cart, error) {
	var c Cart
	result := s.db.Where("user_id = ?", userID).First(&c)
	if result.Error == nil {
		return &c, nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to retrieve cart: %w", result.Error)
	}

	c = Cart{UserID: userID}
	if err := s.db.Create(&c).Error; err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	return &c, nil
}

func (s *Service) loadBook(bookID uint) (*book.Book, error) {
	var b book.Book
	if err := s.db.First(&b, bookID).Error; err != nil {
		return nil, ErrBookNotFound
	}
	return &b, nil
}

func (s *Service) loadSessionCart(ctx context.Context, sessionID string) (*SessionCart, string, error) {
	if sessionID == "" {
		sessionID = uuid.New().String()
		sc := &SessionCart{
			SessionID: sessionID,
			Items:     []SessionCartItem{},
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
		}
		return sc, sessionID, nil
	}

	var sc SessionCart
	err := s.sessions.GetJSON(ctx, sessionCartKey(sessionID), &sc)
	if err != nil {
		if redisdb.IsNil(err) {
			sc = SessionCart{
				SessionID: sessionID,
				Items:     []SessionCartItem{},
				CreatedAt: time.Now().UTC(),
			}
			return &sc, sessionID, nil
		}
		return nil, "", fmt.Errorf("failed to load guest cart: %w", err)
	}
	return &sc, sessionID, nil
}

func (s *Service) saveSessionCart(ctx context.Context, sc *SessionCart) error {
	sc.UpdatedAt = time.Now().UTC()
	key := sessionCartKey(sc.SessionID)
	if err := s.sessions.SetJSON(ctx, key, sc, s.config.Redis.GuestCartTTL); err != nil {
		return fmt.Errorf("failed to save guest cart: %w", err)
	}
	return nil
}

func (s *Service) buildResponse(items []CartItem) (*Response, error) {
	resp := &Response{Items: []ItemView{}}
	for _, item := range items {
		b, err := s.loadBook(item.BookID)
		if err != nil {
			// A deleted book silently drops out of the cart view.
			continue
		}
		view := ItemView{
			ID:            item.ID,
			BookID:        item.BookID,
			Quantity:      item.Quantity,
			PriceCents:    b.PriceCents,
			SubtotalCents: b.PriceCents * int64(item.Quantity),
			Book:          b,
		}
		resp.Items = append(resp.Items, view)
		resp.ItemCount += item.Quantity
		resp.TotalCents += view.SubtotalCents
	}
	return resp, nil
}

func (s *Service) buildGuestResponse(sc *SessionCart) (*Response, error) {
	resp := &Response{Items: []ItemView{}}
	for _, item := range sc.Items {
		b, err := s.loadBook(item.BookID)
		if err != nil {
			continue
		}
		view := ItemView{
			BookID:        item.BookID,
			Quantity:      item.Quantity,
			PriceCents:    b.PriceCents,
			SubtotalCents: b.PriceCents * int64(item.Quantity),
			Book:          b,
		}
		resp.Items = append(resp.Items, view)
		resp.ItemCount += item.Quantity
		resp.TotalCents += view.SubtotalCents
	}
	return resp, nil
}

func sessionCartKey(sessionID string) string {
	return "cart:session:" + sessionID
}
