package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds postgres connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds the pending-quote store settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig holds event publishing settings.
type KafkaConfig struct {
	Brokers []string
}

// RoutingConfig selects and configures the mapping provider.
type RoutingConfig struct {
	// Provider is "osrm" (free Nominatim+OSRM pair) or "google".
	Provider     string
	NominatimURL string
	OSRMURL      string
	CountryCodes string
	UserAgent    string
	GoogleAPIKey string
}

// ServiceConfig holds all configuration for the booking service.
type ServiceConfig struct {
	Port      string
	AppEnv    string
	JWTSecret string
	QuoteTTL  time.Duration
	DBConfig  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Routing   RoutingConfig
}

// Load reads configuration from BOOKING_-prefixed environment variables.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("BOOKING")
	v.AutomaticEnv()

	v.SetDefault("PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("JWT_SECRET", "dev-only-secret")
	v.SetDefault("QUOTE_TTL_SECONDS", 1800)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "limo")
	v.SetDefault("DB_PASSWORD", "limo")
	v.SetDefault("DB_NAME", "limo_bookings")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("KAFKA_BROKERS", "localhost:9092")

	v.SetDefault("ROUTING_PROVIDER", "osrm")
	v.SetDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org/search")
	v.SetDefault("OSRM_URL", "http://router.project-osrm.org/route/v1/driving")
	v.SetDefault("ROUTING_COUNTRY_CODES", "au")
	v.SetDefault("ROUTING_USER_AGENT", "MelbourneLimoBooking/1.0 (bookings@melbournelimo.com.au)")
	v.SetDefault("GOOGLE_MAPS_API_KEY", "")

	return &ServiceConfig{
		Port:      v.GetString("PORT"),
		AppEnv:    v.GetString("APP_ENV"),
		JWTSecret: v.GetString("JWT_SECRET"),
		QuoteTTL:  time.Duration(v.GetInt("QUOTE_TTL_SECONDS")) * time.Second,
		DBConfig: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Kafka: KafkaConfig{
			Brokers: strings.Split(v.GetString("KAFKA_BROKERS"), ","),
		},
		Routing: RoutingConfig{
			Provider:     v.GetString("ROUTING_PROVIDER"),
			NominatimURL: v.GetString("NOMINATIM_URL"),
			OSRMURL:      v.GetString("OSRM_URL"),
			CountryCodes: v.GetString("ROUTING_COUNTRY_CODES"),
			UserAgent:    v.GetString("ROUTING_USER_AGENT"),
			GoogleAPIKey: v.GetString("GOOGLE_MAPS_API_KEY"),
		},
	}, nil
}
