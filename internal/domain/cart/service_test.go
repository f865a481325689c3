// internal/domain/cart/service_test.go
package cart

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/book"
	"github.com/your-org/bookstore-backend/internal/domain/user"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&user.User{},
		&book.Author{},
		&book.Publisher{},
		&book.Category{},
		&book.Book{},
		&Cart{},
		&CartItem{},
	))
	return db
}

// Stored carts never touch Redis, so the session client stays nil here.
func newStoredCartService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db := setupDB(t)
	return NewService(db, nil, &config.Config{}), db
}

func seedBook(t *testing.T, db *gorm.DB, title string, priceCents int64, stock int) *book.Book {
	t.Helper()

	b := &book.Book{Title: title, PriceCents: priceCents, Stock: stock}
	require.NoError(t, db.Create(b).Error)
	return b
}

func TestAddItemAndTotals(t *testing.T) {
	svc, db := newStoredCartService(t)
	b := seedBook(t, db, "In Cart", 25000, 10)

	resp, err := svc.AddItem(1, &AddItemRequest{BookID: b.ID, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.ItemCount)
	assert.Equal(t, int64(50000), resp.TotalCents)

	// Adding the same book again bumps the existing line.
	resp, err = svc.AddItem(1, &AddItemRequest{BookID: b.ID, Quantity: 1})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 3, resp.Items[0].Quantity)
	assert.Equal(t, int64(75000), resp.TotalCents)
}

func TestAddItemStockCap(t *testing.T) {
	svc, db := newStoredCartService(t)
	b := seedBook(t, db, "Scarce", 10000, 2)

	_, err := svc.AddItem(1, &AddItemRequest{BookID: b.ID, Quantity: 3})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	_, err = svc.AddItem(1, &AddItemRequest{BookID: b.ID, Quantity: 2})
	require.NoError(t, err)

	_, err = svc.AddItem(1, &AddItemRequest{BookID: b.ID, Quantity: 1})
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestAddUnknownBook(t *testing.T) {
	svc, _ := newStoredCartService(t)

	_, err := svc.AddItem(1, &AddItemRequest{BookID: 999, Quantity: 1})
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestCartPricesFollowCurrentBookPrice(t *testing.T) {
	svc, db := newStoredCartService(t)
	b := seedBook(t, db, "Repriced", 10000, 10)

	_, err := svc.AddItem(1, &AddItemRequest{BookID: b.ID, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, db.Model(&book.Book{}).Where("id = ?", b.ID).Update("price_cents", 12000).Error)

	resp, err := svc.GetCart(1)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, int64(12000), resp.Items[0].PriceCents)
	assert.Equal(t, int64(12000), resp.TotalCents)
}

func TestUpdateItemZeroRemoves(t *testing.T) {
	svc, db := newStoredCartService(t)
	b := seedBook(t, db, "Removable", 10000, 10)

	resp, err := svc.AddItem(1, &AddItemRequest{BookID: b.ID, Quantity: 2})
	require.NoError(t, err)
	itemID := resp.Items[0].ID

	resp, err = svc.UpdateItem(1, itemID, &UpdateItemRequest{Quantity: 0})
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.Zero(t, resp.TotalCents)
}

func TestCartsAreScopedPerUser(t *testing.T) {
	svc, db := newStoredCartService(t)
	b := seedBook(t, db, "Mine", 10000, 10)

	resp, err := svc.AddItem(1, &AddItemRequest{BookID: b.ID, Quantity: 1})
	require.NoError(t, err)
	itemID := resp.Items[0].ID

	// Another user cannot touch the first user's cart line.
	_, err = svc.RemoveItem(2, itemID)
	assert.ErrorIs(t, err, ErrItemNotFound)

	other, err := svc.GetCart(2)
	require.NoError(t, err)
	assert.Empty(t, other.Items)
}

func TestClearCart(t *testing.T) {
	svc, db := newStoredCartService(t)
	b := seedBook(t, db, "Cleared", 10000, 10)

	_, err := svc.AddItem(1, &AddItemRequest{BookID: b.ID, Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, svc.Clear(1))

	resp, err := svc.GetCart(1)
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
}
