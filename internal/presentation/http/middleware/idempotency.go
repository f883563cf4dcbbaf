package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/caisse-api/internal/domain/entity"
	"github.com/sangkips/caisse-api/internal/domain/repository"
	"github.com/sangkips/caisse-api/internal/presentation/http/dto/response"
	"github.com/sirupsen/logrus"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayedHeader marks a response served from storage.
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"
	// DefaultIdempotencyTTL is how long a stored response can be replayed.
	DefaultIdempotencyTTL = 24 * time.Hour
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
	Log  *logrus.Logger
	TTL  time.Duration
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// capturingWriter tees the response body so it can be stored.
type capturingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *capturingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the stored response of a request already processed
// under the same Idempotency-Key for the same restaurant. Only 2xx responses
// are stored, so a rejected confirmation can be retried with the same key.
// A live key sent to another method or path is rejected with 422 rather than
// answered with the other request's response.
// Requests without the header, or outside a restaurant scope, pass through.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultIdempotencyTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		restaurantID := GetRestaurantID(c)
		if key == "" || restaurantID == uuid.Nil || c.Request.Method == http.MethodGet {
			c.Next()
			return
		}
		route := requestRoute(c)
		log := cfg.Log.WithFields(logrus.Fields{"restaurant_id": restaurantID, "idempotency_key": key})

		stored, err := cfg.Repo.Find(c.Request.Context(), restaurantID, key)
		if err != nil {
			log.WithError(err).Warn("Idempotency lookup failed, processing request")
		} else if stored != nil && !stored.ExpiredAt(cfg.Now()) {
			if stored.Route != route {
				log.WithFields(logrus.Fields{"route": route, "stored_route": stored.Route}).Warn("Idempotency key reused for another request")
				response.ErrorWithCode(c, http.StatusUnprocessableEntity, "Idempotency-Key was already used for a different request")
				c.Abort()
				return
			}
			c.Header(IdempotencyReplayedHeader, "true")
			c.Data(stored.StatusCode, "application/json; charset=utf-8", stored.Body)
			c.Abort()
			return
		}

		w := &capturingWriter{ResponseWriter: c.Writer}
		c.Writer = w
		c.Next()

		status := w.Status()
		if status < 200 || status >= 300 {
			return
		}
		now := cfg.Now().UTC()
		resp := &entity.StoredResponse{
			RestaurantID: restaurantID,
			Key:          key,
			Route:        route,
			StatusCode:   status,
			Body:         w.body.Bytes(),
			CreatedAt:    now,
			ExpiresAt:    now.Add(cfg.TTL),
		}
		if err := cfg.Repo.Save(c.Request.Context(), resp); err != nil {
			log.WithError(err).WithField("route", resp.Route).Warn("Response not stored for replay")
		}
	}
}

// requestRoute names the concrete target, so /orders/A/confirm and
// /orders/B/confirm never share a stored response.
func requestRoute(c *gin.Context) string {
	return c.Request.Method + " " + c.Request.URL.Path
}
