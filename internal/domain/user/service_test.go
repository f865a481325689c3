// internal/domain/user/service_test.go
package user

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/your-org/bookstore-backend/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "Bookstore Test"},
		JWT: config.JWTConfig{
			Secret:               "test-secret-key-that-is-long-enough-123",
			AccessTokenExpiry:    15 * time.Minute,
			RefreshTokenExpiry:   7 * 24 * time.Hour,
			RefreshTokenRotation: true,
		},
		Security: config.SecurityConfig{BcryptCost: bcrypt.MinCost},
	}
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}))
	return db
}

func TestRegisterAndLogin(t *testing.T) {
	svc := NewService(setupDB(t), testConfig())

	resp, err := svc.Register(&RegisterRequest{
		Name:     "Mai Anh",
		Email:    "Mai.Anh@Example.COM",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "mai.anh@example.com", resp.User.Email)
	assert.Equal(t, RoleUser, resp.User.Role)
	assert.Empty(t, resp.User.Password)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	login, err := svc.Login(&LoginRequest{Email: "mai.anh@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(setupDB(t), testConfig())

	req := &RegisterRequest{Name: "A", Email: "dup@example.com", Password: "secret123"}
	_, err := svc.Register(req)
	require.NoError(t, err)

	_, err = svc.Register(req)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc := NewService(setupDB(t), testConfig())

	_, err := svc.Register(&RegisterRequest{Name: "A", Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, wrongPassword := svc.Login(&LoginRequest{Email: "a@example.com", Password: "nope-nope"})
	_, unknownEmail := svc.Login(&LoginRequest{Email: "ghost@example.com", Password: "secret123"})

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLoginInactiveAccount(t *testing.T) {
	db := setupDB(t)
	svc := NewService(db, testConfig())

	resp, err := svc.Register(&RegisterRequest{Name: "A", Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, db.Model(&User{}).Where("id = ?", resp.User.ID).Update("is_active", false).Error)

	_, err = svc.Login(&LoginRequest{Email: "a@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshTokenRotation(t *testing.T) {
	svc := NewService(setupDB(t), testConfig())

	resp, err := svc.Register(&RegisterRequest{Name: "A", Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEmpty(t, refreshed.RefreshToken)

	_, err = svc.RefreshToken(resp.AccessToken)
	assert.Error(t, err, "access token must not be redeemable as refresh token")
}

func TestUpdateProfileWhitelist(t *testing.T) {
	svc := NewService(setupDB(t), testConfig())

	resp, err := svc.Register(&RegisterRequest{Name: "A", Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)

	name := "Ngọc Lan"
	phone := "0912345678"
	address := "12 Lý Thường Kiệt, Hà Nội"
	updated, err := svc.UpdateProfile(resp.User.ID, &UpdateProfileRequest{
		Name:    &name,
		Phone:   &phone,
		Address: &address,
	})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, phone, updated.Phone)
	assert.Equal(t, address, updated.Address)

	bad := "not-a-phone"
	_, err = svc.UpdateProfile(resp.User.ID, &UpdateProfileRequest{Phone: &bad})
	assert.Error(t, err)

	empty := "   "
	_, err = svc.UpdateProfile(resp.User.ID, &UpdateProfileRequest{Name: &empty})
	assert.Error(t, err)
}

func TestChangePassword(t *testing.T) {
	svc := NewService(setupDB(t), testConfig())

	resp, err := svc.Register(&RegisterRequest{Name: "A", Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)

	assert.Error(t, svc.ChangePassword(resp.User.ID, "wrong", "newsecret1"))
	require.NoError(t, svc.ChangePassword(resp.User.ID, "secret123", "newsecret1"))

	_, err = svc.Login(&LoginRequest{Email: "a@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(&LoginRequest{Email: "a@example.com", Password: "newsecret1"})
	assert.NoError(t, err)
}

func TestAdminRoleManagement(t *testing.T) {
	db := setupDB(t)
	svc := NewService(db, testConfig())
	admin := NewAdminService(db, testConfig())

	resp, err := svc.Register(&RegisterRequest{Name: "A", Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)

	promoted, err := admin.UpdateRole(resp.User.ID, RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, promoted.Role)

	_, err = admin.UpdateRole(resp.User.ID, Role("superuser"))
	assert.Error(t, err)

	deactivated, err := admin.SetActive(resp.User.ID, false)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)
}
