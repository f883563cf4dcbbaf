package middleware

import (
	"testing"

	"github.com/sangkips/caisse-api/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestCORSConfigAlwaysAllowsAPIHeaders(t *testing.T) {
	cfg := corsConfig(&config.CORSConfig{
		AllowedOrigins: []string{"https://till.example.com"},
		AllowedHeaders: []string{"Content-Type", "x-restaurant-id"},
	})

	assert.Equal(t, []string{"https://till.example.com"}, cfg.AllowOrigins)
	assert.Equal(t, defaultCORSMethods, cfg.AllowMethods)
	assert.Equal(t, []string{"Content-Type", "x-restaurant-id", IdempotencyKeyHeader}, cfg.AllowHeaders)
	assert.Contains(t, cfg.ExposeHeaders, "Content-Disposition")
}

func TestCORSConfigIgnoresBlankEntries(t *testing.T) {
	cfg := corsConfig(&config.CORSConfig{AllowedOrigins: []string{""}})
	assert.Equal(t, defaultCORSOrigins, cfg.AllowOrigins)
	assert.Contains(t, cfg.AllowHeaders, RestaurantHeader)
}
