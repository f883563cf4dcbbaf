package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/caisse-api/internal/infrastructure/database"
	infraRepo "github.com/sangkips/caisse-api/internal/infrastructure/repository"
	"github.com/sangkips/caisse-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type idempotencyFixture struct {
	router *gin.Engine
	calls  int
	status int
	now    time.Time
}

func newIdempotencyFixture(t *testing.T) *idempotencyFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewSQLiteDB("file:"+uuid.NewString()+"?mode=memory&cache=shared", false)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	require.NoError(t, database.AutoMigrate(db))

	f := &idempotencyFixture{status: http.StatusOK, now: time.Now()}
	f.router = gin.New()
	f.router.Use(func(c *gin.Context) {
		if id, err := uuid.Parse(c.GetHeader(RestaurantHeader)); err == nil {
			c.Set("restaurant_id", id)
		}
		c.Next()
	})
	f.router.POST("/orders/:id/confirm", Idempotency(IdempotencyConfig{
		Repo: infraRepo.NewIdempotencyRepository(db),
		Log:  logger.Discard(),
		TTL:  time.Hour,
		Now:  func() time.Time { return f.now },
	}), func(c *gin.Context) {
		f.calls++
		c.JSON(f.status, gin.H{"call": f.calls, "order": c.Param("id")})
	})
	return f
}

func (f *idempotencyFixture) post(restaurant, key string) *httptest.ResponseRecorder {
	return f.confirm(restaurant, key, "a")
}

func (f *idempotencyFixture) confirm(restaurant, key, orderID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/orders/"+orderID+"/confirm", nil)
	req.Header.Set(RestaurantHeader, restaurant)
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestIdempotencyReplaysSuccessfulResponse(t *testing.T) {
	f := newIdempotencyFixture(t)
	restaurant := uuid.NewString()

	first := f.post(restaurant, "abc")
	second := f.post(restaurant, "abc")

	assert.Equal(t, 1, f.calls)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get(IdempotencyReplayedHeader))
	assert.Empty(t, first.Header().Get(IdempotencyReplayedHeader))
}

func TestIdempotencyKeysAreScopedPerRestaurant(t *testing.T) {
	f := newIdempotencyFixture(t)

	f.post(uuid.NewString(), "abc")
	f.post(uuid.NewString(), "abc")
	assert.Equal(t, 2, f.calls)
}

func TestIdempotencyDoesNotStoreFailures(t *testing.T) {
	f := newIdempotencyFixture(t)
	restaurant := uuid.NewString()

	f.status = http.StatusUnprocessableEntity
	assert.Equal(t, http.StatusUnprocessableEntity, f.post(restaurant, "abc").Code)

	f.status = http.StatusOK
	assert.Equal(t, http.StatusOK, f.post(restaurant, "abc").Code)
	assert.Equal(t, 2, f.calls)
}

func TestIdempotencyExpiredKeyRunsAgain(t *testing.T) {
	f := newIdempotencyFixture(t)
	restaurant := uuid.NewString()

	f.post(restaurant, "abc")
	f.now = f.now.Add(2 * time.Hour)
	w := f.post(restaurant, "abc")

	assert.Equal(t, 2, f.calls)
	assert.Empty(t, w.Header().Get(IdempotencyReplayedHeader))

	// The second response replaced the expired one.
	assert.Equal(t, w.Body.String(), f.post(restaurant, "abc").Body.String())
	assert.Equal(t, 2, f.calls)
}

func TestIdempotencyWithoutKeyPassesThrough(t *testing.T) {
	f := newIdempotencyFixture(t)
	restaurant := uuid.NewString()

	f.post(restaurant, "")
	f.post(restaurant, "")
	assert.Equal(t, 2, f.calls)
}

func TestIdempotencyKeyReusedForAnotherOrderIsRejected(t *testing.T) {
	f := newIdempotencyFixture(t)
	restaurant := uuid.NewString()

	first := f.confirm(restaurant, "k1", "a")
	require.Equal(t, http.StatusOK, first.Code)

	w := f.confirm(restaurant, "k1", "b")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Empty(t, w.Header().Get(IdempotencyReplayedHeader))
	assert.NotContains(t, w.Body.String(), `"order":"a"`)
	assert.Equal(t, 1, f.calls)

	// The original request still replays.
	again := f.confirm(restaurant, "k1", "a")
	assert.Equal(t, first.Body.String(), again.Body.String())
	assert.Equal(t, 1, f.calls)
}
