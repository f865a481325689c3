// internal/domain/notification/service_test.go
package notification

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

func setupService(t *testing.T) *Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Notification{}))
	return NewService(db, &config.Config{})
}

func TestNotifyAndList(t *testing.T) {
	svc := setupService(t)

	require.NoError(t, svc.Notify(1, TypeOrder, "Đặt hàng thành công", "Đơn hàng ORD-1 đã được tạo.", "/orders/1"))
	require.NoError(t, svc.Notify(1, TypeSystem, "Chào mừng", "Cảm ơn bạn đã đăng ký.", ""))
	require.NoError(t, svc.Notify(2, TypeSystem, "Other user", "not yours", ""))

	resp, err := svc.ListForUser(1, 50)
	require.NoError(t, err)
	assert.Len(t, resp.Notifications, 2)
	assert.Equal(t, int64(2), resp.UnreadCount)
}

func TestMarkReadScopedToOwner(t *testing.T) {
	svc := setupService(t)

	require.NoError(t, svc.Notify(1, TypeOrder, "t", "m", ""))

	resp, err := svc.ListForUser(1, 50)
	require.NoError(t, err)
	id := resp.Notifications[0].ID

	assert.ErrorIs(t, svc.MarkRead(2, id), ErrNotificationNotFound)
	require.NoError(t, svc.MarkRead(1, id))

	resp, err = svc.ListForUser(1, 50)
	require.NoError(t, err)
	assert.Zero(t, resp.UnreadCount)
}

func TestMarkAllRead(t *testing.T) {
	svc := setupService(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Notify(1, TypePromotion, "sale", "msg", ""))
	}

	updated, err := svc.MarkAllRead(1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated)

	updated, err = svc.MarkAllRead(1)
	require.NoError(t, err)
	assert.Zero(t, updated)
}
