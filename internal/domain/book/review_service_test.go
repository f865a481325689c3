// internal/domain/book/review_service_test.go
package book_test

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
	"github.com/your-org/bookstore-backend/internal/domain/order"
	"github.com/your-org/bookstore-backend/internal/domain/user"
)

func setupReviewDB(t *testing.T) *gorm.DB {
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
		&book.Review{},
		&order.Order{},
		&order.OrderItem{},
	))
	return db
}

func seedReviewer(t *testing.T, db *gorm.DB, email string) *user.User {
	t.Helper()

	u := &user.User{Name: "Reviewer", Email: email, Password: "x", IsActive: true}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedPurchase(t *testing.T, db *gorm.DB, userID, bookID uint, status order.Status) {
	t.Helper()

	o := &order.Order{
		OrderCode:  fmt.Sprintf("ORD-%d-%d-%s", userID, bookID, status),
		UserID:     userID,
		TotalCents: 10000,
		FinalCents: 10000,
		Status:     status,
		Items: []order.OrderItem{
			{BookID: bookID, Quantity: 1, UnitPriceCents: 10000, SubtotalCents: 10000},
		},
	}
	require.NoError(t, db.Create(o).Error)
}

func TestCreateReviewRequiresPurchase(t *testing.T) {
	db := setupReviewDB(t)
	svc := book.NewReviewService(db, &config.Config{})
	u := seedReviewer(t, db, "no-purchase@example.com")

	b := &book.Book{Title: "Unbought", PriceCents: 10000}
	require.NoError(t, db.Create(b).Error)

	_, err := svc.Create(u.ID, &book.CreateReviewRequest{BookID: b.ID, Rating: 5})
	assert.ErrorIs(t, err, book.ErrReviewNotPurchased)
}

func TestCreateReviewAnyOrderStatusQualifies(t *testing.T) {
	db := setupReviewDB(t)
	svc := book.NewReviewService(db, &config.Config{})

	// Even a cancelled order grants review eligibility.
	u := seedReviewer(t, db, "cancelled@example.com")
	b := &book.Book{Title: "Cancelled Purchase", PriceCents: 10000}
	require.NoError(t, db.Create(b).Error)
	seedPurchase(t, db, u.ID, b.ID, order.StatusCancelled)

	review, err := svc.Create(u.ID, &book.CreateReviewRequest{BookID: b.ID, Rating: 4, Comment: "ổn"})
	require.NoError(t, err)
	assert.Equal(t, 4, review.Rating)
	assert.True(t, review.IsVerifiedPurchase)
}

func TestCreateReviewDuplicateRejected(t *testing.T) {
	db := setupReviewDB(t)
	svc := book.NewReviewService(db, &config.Config{})
	u := seedReviewer(t, db, "dup@example.com")

	b := &book.Book{Title: "Once Only", PriceCents: 10000}
	require.NoError(t, db.Create(b).Error)
	seedPurchase(t, db, u.ID, b.ID, order.StatusDelivered)

	_, err := svc.Create(u.ID, &book.CreateReviewRequest{BookID: b.ID, Rating: 5})
	require.NoError(t, err)

	_, err = svc.Create(u.ID, &book.CreateReviewRequest{BookID: b.ID, Rating: 1})
	assert.ErrorIs(t, err, book.ErrReviewExists)
}

func TestReviewUpdatesAggregateRating(t *testing.T) {
	db := setupReviewDB(t)
	svc := book.NewReviewService(db, &config.Config{})

	b := &book.Book{Title: "Rated", PriceCents: 10000}
	require.NoError(t, db.Create(b).Error)

	first := seedReviewer(t, db, "first@example.com")
	second := seedReviewer(t, db, "second@example.com")
	seedPurchase(t, db, first.ID, b.ID, order.StatusDelivered)
	seedPurchase(t, db, second.ID, b.ID, order.StatusDelivered)

	_, err := svc.Create(first.ID, &book.CreateReviewRequest{BookID: b.ID, Rating: 5})
	require.NoError(t, err)

	var after book.Book
	require.NoError(t, db.First(&after, b.ID).Error)
	assert.InDelta(t, 5.0, after.Rating, 0.001)

	_, err = svc.Create(second.ID, &book.CreateReviewRequest{BookID: b.ID, Rating: 4})
	require.NoError(t, err)

	// round(avg(5,4), 2) = 4.5
	require.NoError(t, db.First(&after, b.ID).Error)
	assert.InDelta(t, 4.5, after.Rating, 0.001)
}

func TestDeleteReviewRecomputesRating(t *testing.T) {
	db := setupReviewDB(t)
	svc := book.NewReviewService(db, &config.Config{})

	b := &book.Book{Title: "Recount", PriceCents: 10000}
	require.NoError(t, db.Create(b).Error)

	first := seedReviewer(t, db, "del-first@example.com")
	second := seedReviewer(t, db, "del-second@example.com")
	seedPurchase(t, db, first.ID, b.ID, order.StatusDelivered)
	seedPurchase(t, db, second.ID, b.ID, order.StatusDelivered)

	r1, err := svc.Create(first.ID, &book.CreateReviewRequest{BookID: b.ID, Rating: 2})
	require.NoError(t, err)
	_, err = svc.Create(second.ID, &book.CreateReviewRequest{BookID: b.ID, Rating: 4})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(first.ID, r1.ID))

	var after book.Book
	require.NoError(t, db.First(&after, b.ID).Error)
	assert.InDelta(t, 4.0, after.Rating, 0.001)

	// Deleting someone else's review is not allowed.
	err = svc.Delete(first.ID, 99999)
	assert.ErrorIs(t, err, book.ErrReviewNotFound)
}

func TestListForBookNewestFirstWithReviewer(t *testing.T) {
	db := setupReviewDB(t)
	svc := book.NewReviewService(db, &config.Config{})

	b := &book.Book{Title: "Listed", PriceCents: 10000}
	require.NoError(t, db.Create(b).Error)

	u := seedReviewer(t, db, "lister@example.com")
	seedPurchase(t, db, u.ID, b.ID, order.StatusDelivered)

	_, err := svc.Create(u.ID, &book.CreateReviewRequest{BookID: b.ID, Rating: 3, Comment: "tạm được"})
	require.NoError(t, err)

	reviews, err := svc.ListForBook(b.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	require.NotNil(t, reviews[0].Reviewer)
	assert.Equal(t, u.ID, reviews[0].Reviewer.ID)
	assert.Equal(t, "Reviewer", reviews[0].Reviewer.Name)

	_, err = svc.ListForBook(99999)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}
