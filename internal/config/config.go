package config

import (
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Restaurant RestaurantConfig
	Invoice    InvoiceConfig
	Printer    PrinterConfig
	Redis      RedisConfig
	CORS       CORSConfig
	RateLimit  RateLimitConfig
}

type AppConfig struct {
	Name         string
	Env          string
	Port         string
	Debug        bool
	LogLevel     string
	SeedDemoData bool
}

type DatabaseConfig struct {
	Driver   string // postgres, mysql or sqlite
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
	Path     string // sqlite file, ":memory:" allowed
}

// RestaurantConfig holds defaults for restaurants that do not set their own.
type RestaurantConfig struct {
	Timezone string
}

type InvoiceConfig struct {
	PaperWidthMM float64
	CharWidth    int
	DateLayout   string
	CacheTTL     time.Duration
}

type PrinterConfig struct {
	Type           string
	USBPath        string
	Address        string
	PrintOnConfirm bool
}

type RedisConfig struct {
	Addr string
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	setDefaults(viper.GetViper())
	return fromViper(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "caisse-api")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SEED_DEMO_DATA", false)
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "caisse")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "Europe/Paris")
	v.SetDefault("DB_PATH", "caisse.db")
	v.SetDefault("RESTAURANT_TIMEZONE", "Europe/Paris")
	v.SetDefault("INVOICE_PAPER_WIDTH_MM", 80)
	v.SetDefault("INVOICE_CHAR_WIDTH", 48)
	v.SetDefault("INVOICE_LOCALE_LAYOUT", "02/01/2006 15:04")
	v.SetDefault("INVOICE_CACHE_TTL_MINUTES", 1440)
	v.SetDefault("PRINTER_TYPE", "none")
	v.SetDefault("PRINT_ON_CONFIRM", false)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_DURATION", 60)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Name:         v.GetString("APP_NAME"),
			Env:          v.GetString("APP_ENV"),
			Port:         v.GetString("APP_PORT"),
			Debug:        v.GetBool("APP_DEBUG"),
			LogLevel:     v.GetString("LOG_LEVEL"),
			SeedDemoData: v.GetBool("SEED_DEMO_DATA"),
		},
		Database: DatabaseConfig{
			Driver:   v.GetString("DB_DRIVER"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			SSLMode:  v.GetString("DB_SSL_MODE"),
			Timezone: v.GetString("DB_TIMEZONE"),
			Path:     v.GetString("DB_PATH"),
		},
		Restaurant: RestaurantConfig{
			Timezone: v.GetString("RESTAURANT_TIMEZONE"),
		},
		Invoice: InvoiceConfig{
			PaperWidthMM: v.GetFloat64("INVOICE_PAPER_WIDTH_MM"),
			CharWidth:    v.GetInt("INVOICE_CHAR_WIDTH"),
			DateLayout:   v.GetString("INVOICE_LOCALE_LAYOUT"),
			CacheTTL:     time.Duration(v.GetInt("INVOICE_CACHE_TTL_MINUTES")) * time.Minute,
		},
		Printer: PrinterConfig{
			Type:           v.GetString("PRINTER_TYPE"),
			USBPath:        v.GetString("PRINTER_USB_PATH"),
			Address:        v.GetString("PRINTER_ADDRESS"),
			PrintOnConfirm: v.GetBool("PRINT_ON_CONFIRM"),
		},
		Redis: RedisConfig{
			Addr: v.GetString("REDIS_ADDR"),
		},
		CORS: CORSConfig{
			AllowedOrigins: v.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: v.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: v.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: v.GetInt("RATE_LIMIT_DURATION"),
		},
	}
}

// DSN returns the connection string for the configured driver.
func (c *DatabaseConfig) DSN() string {
	switch c.Driver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=%s",
			c.User, c.Password, c.Host, c.Port, c.Name, mysqlLoc(c.Timezone))
	case "sqlite":
		return c.Path
	default:
		return "host=" + c.Host +
			" user=" + c.User +
			" password=" + c.Password +
			" dbname=" + c.Name +
			" port=" + c.Port +
			" sslmode=" + c.SSLMode +
			" TimeZone=" + c.Timezone
	}
}

// Location resolves the default restaurant timezone, falling back to UTC.
func (c *RestaurantConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func mysqlLoc(tz string) string {
	if tz == "" {
		return "Local"
	}
	return url.QueryEscape(tz)
}
