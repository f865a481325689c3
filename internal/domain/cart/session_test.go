// internal/domain/cart/session_test.go
package cart

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/your-org/bookstore-backend/internal/config"
)

// fakeSessionStore keeps session blobs in a map so guest-cart behavior can be
// exercised without a Redis server.
type fakeSessionStore struct {
	data map[string][]byte
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{data: map[string][]byte{}}
}

func (f *fakeSessionStore) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = b
	return nil
}

func (f *fakeSessionStore) GetJSON(_ context.Context, key string, dest interface{}) error {
	b, ok := f.data[key]
	if !ok {
		return redis.Nil
	}
	return json.Unmarshal(b, dest)
}

func (f *fakeSessionStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func newGuestCartService(t *testing.T) (*Service, *gorm.DB, *fakeSessionStore) {
	t.Helper()

	db := setupDB(t)
	store := newFakeSessionStore()
	return NewService(db, store, &config.Config{}), db, store
}

func TestGuestCartSessionRoundTrip(t *testing.T) {
	svc, db, store := newGuestCartService(t)
	ctx := context.Background()
	b := seedBook(t, db, "Guest Pick", 20000, 10)

	// First add with no session id mints one.
	resp, err := svc.AddGuestItem(ctx, "", &AddItemRequest{BookID: b.ID, Quantity: 2})
	require.NoError(t, err)
	require.NotEmpty(t, resp.SessionID)
	assert.Contains(t, store.data, sessionCartKey(resp.SessionID))

	// A later request with the same session id sees the stored cart.
	again, err := svc.GetGuestCart(ctx, resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, resp.SessionID, again.SessionID)
	require.Len(t, again.Items, 1)
	assert.Equal(t, b.ID, again.Items[0].BookID)
	assert.Equal(t, 2, again.Items[0].Quantity)
	assert.Equal(t, int64(40000), again.TotalCents)
}

func TestGuestUpdateItemByBookID(t *testing.T) {
	svc, db, _ := newGuestCartService(t)
	ctx := context.Background()
	b := seedBook(t, db, "Guest Adjust", 10000, 3)

	resp, err := svc.AddGuestItem(ctx, "", &AddItemRequest{BookID: b.ID, Quantity: 2})
	require.NoError(t, err)
	sid := resp.SessionID

	resp, err = svc.UpdateGuestItem(ctx, sid, b.ID, &UpdateItemRequest{Quantity: 1})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 1, resp.Items[0].Quantity)
	assert.Equal(t, int64(10000), resp.TotalCents)

	_, err = svc.UpdateGuestItem(ctx, sid, b.ID, &UpdateItemRequest{Quantity: 5})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	_, err = svc.UpdateGuestItem(ctx, sid, 99999, &UpdateItemRequest{Quantity: 1})
	assert.ErrorIs(t, err, ErrItemNotFound)

	// Zero removes the line.
	resp, err = svc.UpdateGuestItem(ctx, sid, b.ID, &UpdateItemRequest{Quantity: 0})
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.Zero(t, resp.TotalCents)
}

func TestGuestRemoveItem(t *testing.T) {
	svc, db, _ := newGuestCartService(t)
	ctx := context.Background()
	b := seedBook(t, db, "Guest Remove", 10000, 5)

	resp, err := svc.AddGuestItem(ctx, "", &AddItemRequest{BookID: b.ID, Quantity: 1})
	require.NoError(t, err)
	sid := resp.SessionID

	_, err = svc.RemoveGuestItem(ctx, sid, 99999)
	assert.ErrorIs(t, err, ErrItemNotFound)

	resp, err = svc.RemoveGuestItem(ctx, sid, b.ID)
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
}

func TestClearGuestCart(t *testing.T) {
	svc, db, store := newGuestCartService(t)
	ctx := context.Background()
	b := seedBook(t, db, "Guest Clear", 10000, 5)

	resp, err := svc.AddGuestItem(ctx, "", &AddItemRequest{BookID: b.ID, Quantity: 2})
	require.NoError(t, err)
	sid := resp.SessionID

	require.NoError(t, svc.ClearGuestCart(ctx, sid))
	assert.NotContains(t, store.data, sessionCartKey(sid))

	resp, err = svc.GetGuestCart(ctx, sid)
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
}

func TestMergeGuestCartSkipsUnmergeableLines(t *testing.T) {
	svc, db, store := newGuestCartService(t)
	ctx := context.Background()

	ok := seedBook(t, db, "Mergeable", 15000, 10)
	scarce := seedBook(t, db, "Too Scarce", 10000, 1)

	sid := "guest-merge-session"
	sc := SessionCart{
		SessionID: sid,
		Items: []SessionCartItem{
			{BookID: ok.ID, Quantity: 2, PriceCents: ok.PriceCents},
			{BookID: scarce.ID, Quantity: 5, PriceCents: scarce.PriceCents},
			{BookID: 99999, Quantity: 1, PriceCents: 10000},
		},
	}
	require.NoError(t, store.SetJSON(ctx, sessionCartKey(sid), &sc, 0))

	require.NoError(t, svc.MergeGuestCart(ctx, sid, 1))

	// Only the mergeable line lands in the stored cart; the over-stock and
	// unknown-book lines are skipped rather than failing the merge.
	merged, err := svc.GetCart(1)
	require.NoError(t, err)
	require.Len(t, merged.Items, 1)
	assert.Equal(t, ok.ID, merged.Items[0].BookID)
	assert.Equal(t, 2, merged.Items[0].Quantity)

	// The session is consumed by the merge.
	assert.NotContains(t, store.data, sessionCartKey(sid))
}

func TestMergeGuestCartUnknownSessionIsNoop(t *testing.T) {
	svc, _, _ := newGuestCartService(t)
	ctx := context.Background()

	require.NoError(t, svc.MergeGuestCart(ctx, "never-seen", 1))
	require.NoError(t, svc.MergeGuestCart(ctx, "", 1))

	merged, err := svc.GetCart(1)
	require.NoError(t, err)
	assert.Empty(t, merged.Items)
}
