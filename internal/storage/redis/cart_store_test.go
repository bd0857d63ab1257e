package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
)

func sampleCart() domain.Cart {
	return domain.Cart{
		UserID:    "user-1",
		Items:     []domain.CartItem{{ProductID: "otc-ibuprofen", Quantity: 2}},
		UpdatedAt: time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestCartStoreSave(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewCartStore(db, time.Hour)
	cart := sampleCart()

	raw, err := json.Marshal(cart)
	require.NoError(t, err)
	mock.ExpectSet("cart:user-1", raw, time.Hour).SetVal("OK")

	require.NoError(t, store.Save(context.Background(), cart))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCartStoreSaveRequiresUser(t *testing.T) {
	db, _ := redismock.NewClientMock()
	store := NewCartStore(db, 0)

	err := store.Save(context.Background(), domain.Cart{})
	require.ErrorIs(t, err, domain.ErrUserRequired)
}

func TestCartStoreFindByUser(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewCartStore(db, 0)
	cart := sampleCart()

	raw, err := json.Marshal(cart)
	require.NoError(t, err)
	mock.ExpectGet("cart:user-1").SetVal(string(raw))

	got, err := store.FindByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, cart.Items, got.Items)
	require.True(t, cart.UpdatedAt.Equal(got.UpdatedAt))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCartStoreFindByUserMissing(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewCartStore(db, 0)

	mock.ExpectGet("cart:ghost").RedisNil()

	_, err := store.FindByUser(context.Background(), "ghost")
	require.ErrorIs(t, err, domain.ErrCartNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCartStoreFindByUserBackendError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewCartStore(db, 0)

	mock.ExpectGet("cart:user-1").SetErr(errors.New("connection refused"))

	_, err := store.FindByUser(context.Background(), "user-1")
	require.Error(t, err)
	require.NotErrorIs(t, err, domain.ErrCartNotFound)
}

func TestCartStoreFindByUserCorruptPayload(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewCartStore(db, 0)

	mock.ExpectGet("cart:user-1").SetVal("{not json")

	_, err := store.FindByUser(context.Background(), "user-1")
	require.ErrorContains(t, err, "decode cart")
}

func TestCartStoreDelete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewCartStore(db, 0)

	mock.ExpectDel("cart:user-1").SetVal(1)
	mock.ExpectDel("cart:user-1").SetVal(0)

	require.NoError(t, store.Delete(context.Background(), "user-1"))
	require.NoError(t, store.Delete(context.Background(), "user-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCartStorePing(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewCartStore(db, 0)

	mock.ExpectPing().SetVal("PONG")
	require.NoError(t, store.Ping(context.Background()))

	mock.ExpectPing().SetErr(errors.New("down"))
	require.Error(t, store.Ping(context.Background()))
}
