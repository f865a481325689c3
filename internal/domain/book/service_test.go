// internal/domain/book/service_test.go
package book

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/your-org/bookstore-backend/internal/config"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Author{}, &Publisher{}, &Category{}, &Book{}, &Review{}))
	return db
}

func TestCreateBookResolvesNamesByFindOrCreate(t *testing.T) {
	db := setupDB(t)
	svc := NewService(db, &config.Config{})

	first, err := svc.Create(&UpsertRequest{
		Title:        "Số đỏ",
		PriceCents:   75000,
		Stock:        10,
		AuthorName:   "Vũ Trọng Phụng",
		CategoryName: "Văn học",
	})
	require.NoError(t, err)
	require.NotNil(t, first.AuthorID)
	require.NotNil(t, first.CategoryID)

	// Same names must reuse the existing rows, not create duplicates.
	second, err := svc.Create(&UpsertRequest{
		Title:        "Giông tố",
		PriceCents:   80000,
		Stock:        5,
		AuthorName:   "  Vũ Trọng Phụng  ",
		CategoryName: "Văn học",
	})
	require.NoError(t, err)
	assert.Equal(t, *first.AuthorID, *second.AuthorID)
	assert.Equal(t, *first.CategoryID, *second.CategoryID)

	var authorCount, categoryCount int64
	require.NoError(t, db.Model(&Author{}).Count(&authorCount).Error)
	require.NoError(t, db.Model(&Category{}).Count(&categoryCount).Error)
	assert.Equal(t, int64(1), authorCount)
	assert.Equal(t, int64(1), categoryCount)
}

func TestCreateBookEmptyISBNStaysNull(t *testing.T) {
	svc := NewService(setupDB(t), &config.Config{})

	first, err := svc.Create(&UpsertRequest{Title: "No ISBN 1", PriceCents: 1000, ISBN: "  "})
	require.NoError(t, err)
	assert.Nil(t, first.ISBN)

	// A second empty ISBN must not trip the unique index.
	second, err := svc.Create(&UpsertRequest{Title: "No ISBN 2", PriceCents: 1000})
	require.NoError(t, err)
	assert.Nil(t, second.ISBN)
}

func TestListFiltersAndPagination(t *testing.T) {
	db := setupDB(t)
	svc := NewService(db, &config.Config{})

	cat := Category{Name: "Kinh tế"}
	require.NoError(t, db.Create(&cat).Error)

	for i := 1; i <= 5; i++ {
		b := Book{Title: fmt.Sprintf("Kinh tế học %d", i), PriceCents: int64(i * 1000), CategoryID: &cat.ID}
		require.NoError(t, db.Create(&b).Error)
	}
	require.NoError(t, db.Create(&Book{Title: "Truyện Kiều", PriceCents: 9000}).Error)

	resp, err := svc.List(&ListRequest{CategoryID: cat.ID, Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.Pagination.Total)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.Len(t, resp.Books, 2)
	assert.True(t, resp.Pagination.HasNext)
	assert.False(t, resp.Pagination.HasPrev)

	search, err := svc.List(&ListRequest{Search: "kiều"})
	require.NoError(t, err)
	require.Len(t, search.Books, 1)
	assert.Equal(t, "Truyện Kiều", search.Books[0].Title)

	sorted, err := svc.List(&ListRequest{CategoryID: cat.ID, Sort: "price-asc", Limit: 10})
	require.NoError(t, err)
	require.Len(t, sorted.Books, 5)
	assert.Equal(t, int64(1000), sorted.Books[0].PriceCents)
	assert.Equal(t, int64(5000), sorted.Books[4].PriceCents)
}

func TestGetIncrementsViews(t *testing.T) {
	db := setupDB(t)
	svc := NewService(db, &config.Config{})

	b := Book{Title: "Viewed", PriceCents: 1000}
	require.NoError(t, db.Create(&b).Error)

	got, err := svc.Get(b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Views)

	_, err = svc.Get(b.ID)
	require.NoError(t, err)

	var after Book
	require.NoError(t, db.First(&after, b.ID).Error)
	assert.Equal(t, int64(2), after.Views)
}

func TestGetUnknownBook(t *testing.T) {
	svc := NewService(setupDB(t), &config.Config{})

	_, err := svc.Get(12345)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestDeleteIsSoft(t *testing.T) {
	db := setupDB(t)
	svc := NewService(db, &config.Config{})

	b := Book{Title: "Ephemeral", PriceCents: 1000}
	require.NoError(t, db.Create(&b).Error)

	require.NoError(t, svc.Delete(b.ID))

	_, err := svc.Get(b.ID)
	assert.ErrorIs(t, err, ErrBookNotFound)

	var raw int64
	require.NoError(t, db.Unscoped().Model(&Book{}).Where("id = ?", b.ID).Count(&raw).Error)
	assert.Equal(t, int64(1), raw)
}

func TestCategoryDeleteDetachesBooks(t *testing.T) {
	db := setupDB(t)
	catSvc := NewCategoryService(db, &config.Config{})

	cat, err := catSvc.CreateCategory(&CategoryRequest{Name: "Tạm"})
	require.NoError(t, err)

	b := Book{Title: "Orphan", PriceCents: 1000, CategoryID: &cat.ID}
	require.NoError(t, db.Create(&b).Error)

	require.NoError(t, catSvc.DeleteCategory(cat.ID))

	var after Book
	require.NoError(t, db.First(&after, b.ID).Error)
	assert.Nil(t, after.CategoryID)
}
