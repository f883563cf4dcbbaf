package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/caisse-api/internal/domain/entity"
	"github.com/sangkips/caisse-api/internal/domain/enum"
	"github.com/sangkips/caisse-api/internal/infrastructure/database"
	"github.com/sangkips/caisse-api/pkg/apperror"
	"github.com/sangkips/caisse-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewSQLiteDB("file:"+uuid.NewString()+"?mode=memory&cache=shared", false)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, database.SeedDemoData(db, logger.Discard()))
	return db
}

func confirmedOrder(t *testing.T, db *gorm.DB, day string, number int, deleted bool) {
	t.Helper()
	at := time.Now().UTC()
	order := &entity.Order{
		RestaurantID: database.DemoRestaurantID,
		Status:       enum.OrderStatusReady,
		BusinessDay:  &day,
		Number:       &number,
		ConfirmedAt:  &at,
	}
	require.NoError(t, db.Create(order).Error)
	if deleted {
		require.NoError(t, db.Delete(order).Error)
	}
}

func TestMaxDailyNumberCountsDeletedOrders(t *testing.T) {
	db := openTestDB(t)
	repo := NewOrderRepository(db)
	ctx := WithRestaurant(context.Background(), database.DemoRestaurantID)

	n, err := repo.MaxDailyNumber(ctx, database.DemoRestaurantID, "2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	confirmedOrder(t, db, "2024-03-15", 1, false)
	confirmedOrder(t, db, "2024-03-15", 2, true)
	confirmedOrder(t, db, "2024-03-14", 9, false)

	n, err = repo.MaxDailyNumber(ctx, database.DemoRestaurantID, "2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestDuplicateDailyNumberIsConcurrencyError(t *testing.T) {
	db := openTestDB(t)
	repo := NewOrderRepository(db)
	ctx := WithRestaurant(context.Background(), database.DemoRestaurantID)
	confirmedOrder(t, db, "2024-03-15", 1, false)

	order := &entity.Order{RestaurantID: database.DemoRestaurantID}
	require.NoError(t, repo.Create(ctx, order))

	day, number := "2024-03-15", 1
	order.BusinessDay, order.Number = &day, &number
	err := repo.Update(ctx, order)
	assert.True(t, apperror.Is(err, apperror.KindConcurrency), "got %v", err)
}

func TestRestaurantScopeWithoutRestaurantMatchesNothing(t *testing.T) {
	db := openTestDB(t)
	repo := NewOrderRepository(db)
	scoped := WithRestaurant(context.Background(), database.DemoRestaurantID)

	order := &entity.Order{RestaurantID: database.DemoRestaurantID}
	require.NoError(t, repo.Create(scoped, order))

	got, err := repo.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.GetByID(WithRestaurant(context.Background(), uuid.New()), order.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.GetByID(scoped, order.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestTxManagerJoinsAndRollsBack(t *testing.T) {
	db := openTestDB(t)
	txm := NewTxManager(db)
	repo := NewOrderRepository(db)
	ctx := WithRestaurant(context.Background(), database.DemoRestaurantID)
	boom := errors.New("boom")

	var id uuid.UUID
	err := txm.WithTransaction(ctx, func(ctx context.Context) error {
		order := &entity.Order{RestaurantID: database.DemoRestaurantID}
		if err := repo.Create(ctx, order); err != nil {
			return err
		}
		id = order.ID
		// The inner call joins the outer transaction, so its failure undoes the insert.
		return txm.WithTransaction(ctx, func(context.Context) error { return boom })
	})
	assert.ErrorIs(t, err, boom)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStoredResponses(t *testing.T) {
	db := openTestDB(t)
	repo := NewIdempotencyRepository(db)
	ctx := context.Background()
	restaurant := database.DemoRestaurantID

	got, err := repo.Find(ctx, restaurant, "k1")
	require.NoError(t, err)
	assert.Nil(t, got)

	expired := &entity.StoredResponse{RestaurantID: restaurant, Key: "k1", Route: "POST /x", StatusCode: 200, Body: []byte(`{"old":true}`), ExpiresAt: time.Now().Add(-time.Minute)}
	require.NoError(t, repo.Save(ctx, expired))

	// An expired entry gives way to a new one under the same key.
	fresh := &entity.StoredResponse{RestaurantID: restaurant, Key: "k1", Route: "POST /x", StatusCode: 200, Body: []byte(`{"ok":true}`), ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, repo.Save(ctx, fresh))

	got, err = repo.Find(ctx, restaurant, "k1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, `{"ok":true}`, string(got.Body))

	// Same key, another restaurant: independent.
	other, err := repo.Find(ctx, uuid.New(), "k1")
	require.NoError(t, err)
	assert.Nil(t, other)

	// A live entry cannot be overwritten.
	assert.Error(t, repo.Save(ctx, &entity.StoredResponse{RestaurantID: restaurant, Key: "k1", Route: "POST /x", StatusCode: 200, ExpiresAt: time.Now().Add(time.Hour)}))

	n, err := repo.Purge(ctx, time.Now().Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
