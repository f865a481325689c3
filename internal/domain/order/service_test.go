// internal/domain/order/service_test.go
package order

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/book"
	"github.com/your-org/bookstore-backend/internal/domain/notification"
	"github.com/your-org/bookstore-backend/internal/domain/promotion"
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
		&promotion.Promotion{},
		&book.Book{},
		&book.Review{},
		&Order{},
		&OrderItem{},
		&notification.Notification{},
	))
	return db
}

func newService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db := setupDB(t)
	cfg := &config.Config{}
	return NewService(db, cfg, notification.NewService(db, cfg)), db
}

func seedUser(t *testing.T, db *gorm.DB) *user.User {
	t.Helper()

	u := &user.User{Name: "Reader", Email: fmt.Sprintf("reader-%s@example.com", t.Name()), Password: "x", IsActive: true}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedBook(t *testing.T, db *gorm.DB, title string, priceCents int64, stock int) *book.Book {
	t.Helper()

	b := &book.Book{Title: title, PriceCents: priceCents, Stock: stock}
	require.NoError(t, db.Create(b).Error)
	return b
}

func TestCreateOrderDecrementsStock(t *testing.T) {
	svc, db := newService(t)
	u := seedUser(t, db)
	b := seedBook(t, db, "Dế Mèn phiêu lưu ký", 50000, 10)

	o, err := svc.Create(u.ID, &CreateRequest{
		Items:           []CreateItemRequest{{BookID: b.ID, Quantity: 3}},
		ShippingAddress: "12 Hàng Bài, Hà Nội",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, PaymentStatusPending, o.PaymentStatus)
	assert.Equal(t, int64(150000), o.TotalCents)
	assert.Equal(t, int64(0), o.DiscountCents)
	assert.Equal(t, int64(150000), o.FinalCents)
	assert.Contains(t, o.OrderCode, "ORD-")
	require.Len(t, o.Items, 1)
	assert.Equal(t, int64(50000), o.Items[0].UnitPriceCents)

	var after book.Book
	require.NoError(t, db.First(&after, b.ID).Error)
	assert.Equal(t, 7, after.Stock)
}

func TestCreateOrderEmptyItems(t *testing.T) {
	svc, db := newService(t)
	u := seedUser(t, db)

	_, err := svc.Create(u.ID, &CreateRequest{ShippingAddress: "somewhere"})
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestCreateOrderInsufficientStockRollsBack(t *testing.T) {
	svc, db := newService(t)
	u := seedUser(t, db)
	plenty := seedBook(t, db, "Plenty", 10000, 100)
	scarce := seedBook(t, db, "Scarce", 20000, 1)

	_, err := svc.Create(u.ID, &CreateRequest{
		Items: []CreateItemRequest{
			{BookID: plenty.ID, Quantity: 5},
			{BookID: scarce.ID, Quantity: 2},
		},
		ShippingAddress: "somewhere",
	})
	require.ErrorIs(t, err, ErrInsufficientStock)

	// The whole order rolls back, including the first line's decrement.
	var b1, b2 book.Book
	require.NoError(t, db.First(&b1, plenty.ID).Error)
	require.NoError(t, db.First(&b2, scarce.ID).Error)
	assert.Equal(t, 100, b1.Stock)
	assert.Equal(t, 1, b2.Stock)

	var count int64
	require.NoError(t, db.Model(&Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateOrderMissingBookFailsAll(t *testing.T) {
	svc, db := newService(t)
	u := seedUser(t, db)
	b := seedBook(t, db, "Exists", 10000, 10)

	_, err := svc.Create(u.ID, &CreateRequest{
		Items: []CreateItemRequest{
			{BookID: b.ID, Quantity: 1},
			{BookID: 99999, Quantity: 1},
		},
		ShippingAddress: "somewhere",
	})
	require.ErrorIs(t, err, ErrBookUnavailable)

	var after book.Book
	require.NoError(t, db.First(&after, b.ID).Error)
	assert.Equal(t, 10, after.Stock)
}

func TestLastCopyCannotBeSoldTwice(t *testing.T) {
	svc, db := newService(t)
	first := seedUser(t, db)
	second := &user.User{Name: "Second", Email: "second@example.com", Password: "x", IsActive: true}
	require.NoError(t, db.Create(second).Error)
	b := seedBook(t, db, "Last Copy", 30000, 1)

	_, err := svc.Create(first.ID, &CreateRequest{
		Items:           []CreateItemRequest{{BookID: b.ID, Quantity: 1}},
		ShippingAddress: "somewhere",
	})
	require.NoError(t, err)

	_, err = svc.Create(second.ID, &CreateRequest{
		Items:           []CreateItemRequest{{BookID: b.ID, Quantity: 1}},
		ShippingAddress: "somewhere else",
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	var after book.Book
	require.NoError(t, db.First(&after, b.ID).Error)
	assert.Equal(t, 0, after.Stock)
}

func TestCreateOrderAppliesPromotion(t *testing.T) {
	svc, db := newService(t)
	u := seedUser(t, db)

	now := time.Now().UTC()
	p := &promotion.Promotion{
		Name:            "Summer Sale",
		DiscountPercent: 10,
		StartDate:       now.Add(-time.Hour),
		EndDate:         now.Add(time.Hour),
		IsActive:        true,
	}
	require.NoError(t, db.Create(p).Error)

	b := seedBook(t, db, "Discounted", 100000, 10)
	require.NoError(t, db.Model(&book.Book{}).Where("id = ?", b.ID).Update("promotion_id", p.ID).Error)

	o, err := svc.Create(u.ID, &CreateRequest{
		Items:           []CreateItemRequest{{BookID: b.ID, Quantity: 2}},
		ShippingAddress: "somewhere",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(200000), o.TotalCents)
	assert.Equal(t, int64(20000), o.DiscountCents)
	assert.Equal(t, int64(180000), o.FinalCents)
	require.Len(t, o.Items, 1)
	assert.Equal(t, int64(10000), o.Items[0].DiscountCents)
	assert.Equal(t, int64(180000), o.Items[0].SubtotalCents)

	var usage promotion.Promotion
	require.NoError(t, db.First(&usage, p.ID).Error)
	assert.Equal(t, 1, usage.CurrentUsage)
}

func TestCancelRestoresStock(t *testing.T) {
	svc, db := newService(t)
	u := seedUser(t, db)
	b := seedBook(t, db, "Cancellable", 10000, 5)

	o, err := svc.Create(u.ID, &CreateRequest{
		Items:           []CreateItemRequest{{BookID: b.ID, Quantity: 2}},
		ShippingAddress: "somewhere",
	})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(u.ID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	var after book.Book
	require.NoError(t, db.First(&after, b.ID).Error)
	assert.Equal(t, 5, after.Stock)

	// Cancelling twice must not restock twice.
	_, err = svc.Cancel(u.ID, o.ID)
	assert.ErrorIs(t, err, ErrCannotCancel)
	require.NoError(t, db.First(&after, b.ID).Error)
	assert.Equal(t, 5, after.Stock)
}

func TestCancelScopedToOwner(t *testing.T) {
	svc, db := newService(t)
	owner := seedUser(t, db)
	other := &user.User{Name: "Other", Email: "other@example.com", Password: "x", IsActive: true}
	require.NoError(t, db.Create(other).Error)
	b := seedBook(t, db, "Private", 10000, 5)

	o, err := svc.Create(owner.ID, &CreateRequest{
		Items:           []CreateItemRequest{{BookID: b.ID, Quantity: 1}},
		ShippingAddress: "somewhere",
	})
	require.NoError(t, err)

	_, err = svc.Cancel(other.ID, o.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestAdminStatusTransitions(t *testing.T) {
	svc, db := newService(t)
	u := seedUser(t, db)
	b := seedBook(t, db, "Lifecycle", 10000, 5)

	o, err := svc.Create(u.ID, &CreateRequest{
		Items:           []CreateItemRequest{{BookID: b.ID, Quantity: 1}},
		ShippingAddress: "somewhere",
		PaymentMethod:   "cod",
	})
	require.NoError(t, err)

	// pending cannot jump straight to delivered
	_, err = svc.AdminUpdateStatus(o.ID, &UpdateStatusRequest{Status: StatusDelivered})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	for _, status := range []Status{StatusConfirmed, StatusShipped, StatusDelivered} {
		o, err = svc.AdminUpdateStatus(o.ID, &UpdateStatusRequest{Status: status})
		require.NoError(t, err)
		assert.Equal(t, status, o.Status)
	}

	// COD orders flip to paid on delivery
	assert.Equal(t, PaymentStatusPaid, o.PaymentStatus)

	// delivered is terminal
	_, err = svc.AdminUpdateStatus(o.ID, &UpdateStatusRequest{Status: StatusCancelled})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAdminPaymentOnlyUpdate(t *testing.T) {
	svc, db := newService(t)
	u := seedUser(t, db)
	b := seedBook(t, db, "Prepaid", 10000, 5)

	o, err := svc.Create(u.ID, &CreateRequest{
		Items:           []CreateItemRequest{{BookID: b.ID, Quantity: 1}},
		ShippingAddress: "somewhere",
		PaymentMethod:   "bank_transfer",
	})
	require.NoError(t, err)

	// Carrying the current status marks the order paid without a transition.
	paid := PaymentStatusPaid
	o, err = svc.AdminUpdateStatus(o.ID, &UpdateStatusRequest{Status: StatusPending, PaymentStatus: &paid})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, PaymentStatusPaid, o.PaymentStatus)

	// Only the order-created notification exists; a payment-only update is
	// not announced as a status change.
	var count int64
	require.NoError(t, db.Model(&notification.Notification{}).Where("user_id = ?", u.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAdminRepeatedCancelDoesNotRestockTwice(t *testing.T) {
	svc, db := newService(t)
	u := seedUser(t, db)
	b := seedBook(t, db, "Once Restocked", 10000, 5)

	o, err := svc.Create(u.ID, &CreateRequest{
		Items:           []CreateItemRequest{{BookID: b.ID, Quantity: 2}},
		ShippingAddress: "somewhere",
	})
	require.NoError(t, err)

	_, err = svc.AdminUpdateStatus(o.ID, &UpdateStatusRequest{Status: StatusCancelled})
	require.NoError(t, err)

	_, err = svc.AdminUpdateStatus(o.ID, &UpdateStatusRequest{Status: StatusCancelled})
	require.NoError(t, err)

	var after book.Book
	require.NoError(t, db.First(&after, b.ID).Error)
	assert.Equal(t, 5, after.Stock)
}

func TestAdminCancelRestocks(t *testing.T) {
	svc, db := newService(t)
	u := seedUser(t, db)
	b := seedBook(t, db, "Admin Cancel", 10000, 4)

	o, err := svc.Create(u.ID, &CreateRequest{
		Items:           []CreateItemRequest{{BookID: b.ID, Quantity: 3}},
		ShippingAddress: "somewhere",
	})
	require.NoError(t, err)

	_, err = svc.AdminUpdateStatus(o.ID, &UpdateStatusRequest{Status: StatusCancelled})
	require.NoError(t, err)

	var after book.Book
	require.NoError(t, db.First(&after, b.ID).Error)
	assert.Equal(t, 4, after.Stock)
}

func TestOrderCreatesNotification(t *testing.T) {
	svc, db := newService(t)
	u := seedUser(t, db)
	b := seedBook(t, db, "Notify", 10000, 5)

	o, err := svc.Create(u.ID, &CreateRequest{
		Items:           []CreateItemRequest{{BookID: b.ID, Quantity: 1}},
		ShippingAddress: "somewhere",
	})
	require.NoError(t, err)

	var notifications []notification.Notification
	require.NoError(t, db.Where("user_id = ?", u.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, notification.TypeOrder, notifications[0].Type)
	assert.Contains(t, notifications[0].Message, o.OrderCode)
}

func TestGetOrderScopedToOwner(t *testing.T) {
	svc, db := newService(t)
	owner := seedUser(t, db)
	other := &user.User{Name: "Other", Email: "other2@example.com", Password: "x", IsActive: true}
	require.NoError(t, db.Create(other).Error)
	b := seedBook(t, db, "Scoped", 10000, 5)

	o, err := svc.Create(owner.ID, &CreateRequest{
		Items:           []CreateItemRequest{{BookID: b.ID, Quantity: 1}},
		ShippingAddress: "somewhere",
	})
	require.NoError(t, err)

	_, err = svc.GetOrder(owner.ID, o.ID)
	assert.NoError(t, err)

	_, err = svc.GetOrder(other.ID, o.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
