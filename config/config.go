package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	FrontendOrigin    string `mapstructure:"FRONTEND_ORIGIN"`

	// Provider mode: when true, every external collaborator (reasoning
	// service, search providers, payment, audit store) runs against
	// in-process mocks.
	UseMockProviders bool `mapstructure:"USE_MOCK_PROVIDERS"`

	// Reasoning service.
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`

	// Booking gate.
	BookingHMACSecret      string `mapstructure:"BOOKING_HMAC_SECRET"`
	BookingTokenTTLSeconds int    `mapstructure:"BOOKING_TOKEN_TTL_SECONDS"`
	DevOTP                 string `mapstructure:"DEV_OTP"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisOTPDB    int    `mapstructure:"REDIS_OTP_DB"`
	RedisTokenDB  int    `mapstructure:"REDIS_TOKEN_DB"`

	// Audit log store (MongoDB).
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Payments.
	StripeKey string `mapstructure:"STRIPE_KEY"`

	// Live search providers.
	AmadeusAPIKey      string `mapstructure:"AMADEUS_API_KEY"`
	AmadeusAPISecret   string `mapstructure:"AMADEUS_API_SECRET"`
	BookingComUsername string `mapstructure:"BOOKING_COM_USERNAME"`
	BookingComPassword string `mapstructure:"BOOKING_COM_PASSWORD"`
	GoogleAccessToken  string `mapstructure:"GOOGLE_ACCESS_TOKEN"`

	// Flight searches need a departure airport; trip requests do not carry one.
	DefaultOriginAirport string `mapstructure:"DEFAULT_ORIGIN_AIRPORT"`

	// Completed sessions older than this are evicted from the registry.
	// Zero disables the sweep.
	SessionRetentionHours int `mapstructure:"SESSION_RETENTION_HOURS"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("FRONTEND_ORIGIN", "http://localhost:3000")
	viper.SetDefault("USE_MOCK_PROVIDERS", true)
	viper.SetDefault("BOOKING_HMAC_SECRET", "dev-secret-change-in-production")
	viper.SetDefault("BOOKING_TOKEN_TTL_SECONDS", 600)
	viper.SetDefault("DEV_OTP", "123456")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_OTP_DB", 2)
	viper.SetDefault("REDIS_TOKEN_DB", 3)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DEFAULT_ORIGIN_AIRPORT", "CGK")
	viper.SetDefault("SESSION_RETENTION_HOURS", 0)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
