package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/caisse-api/internal/domain/repository"
	infraRepo "github.com/sangkips/caisse-api/internal/infrastructure/repository"
	"github.com/sangkips/caisse-api/internal/presentation/http/dto/response"
)

// RestaurantHeader names the restaurant a request acts for.
const RestaurantHeader = "X-Restaurant-ID"

// RestaurantMiddleware resolves the restaurant from the X-Restaurant-ID header
// and adds it to both the gin and the request context.
func RestaurantMiddleware(restaurantRepo repository.RestaurantRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(RestaurantHeader)
		if raw == "" {
			response.BadRequest(c, "Restaurant context required")
			c.Abort()
			return
		}
		restaurantID, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "Invalid restaurant ID")
			c.Abort()
			return
		}

		restaurant, err := restaurantRepo.GetByID(c.Request.Context(), restaurantID)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if restaurant == nil {
			response.NotFound(c, "Restaurant not found")
			c.Abort()
			return
		}

		c.Set("restaurant_id", restaurant.ID)
		c.Request = c.Request.WithContext(infraRepo.WithRestaurant(c.Request.Context(), restaurant.ID))
		c.Next()
	}
}

// GetRestaurantID retrieves the restaurant ID from gin context
func GetRestaurantID(c *gin.Context) uuid.UUID {
	restaurantID, exists := c.Get("restaurant_id")
	if !exists {
		return uuid.Nil
	}
	id, ok := restaurantID.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
