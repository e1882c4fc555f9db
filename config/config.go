package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Stripe.
	StripeKey string `mapstructure:"STRIPE_KEY"`

	// Marketplace policy knobs.
	CommissionRatePct        float64 `mapstructure:"COMMISSION_RATE_PCT"`
	OwnerConfirmWindowMins   int     `mapstructure:"OWNER_CONFIRM_WINDOW_MINS"`
	OwnerConfirmExtensionMin int     `mapstructure:"OWNER_CONFIRM_EXTENSION_MINS"`
	OwnerConfirmMaxExts      int     `mapstructure:"OWNER_CONFIRM_MAX_EXTENSIONS"`
	EscrowHoldDays           int     `mapstructure:"ESCROW_HOLD_DAYS"`

	// Fair value scoring.
	FairValueWindowDays  int     `mapstructure:"FAIR_VALUE_WINDOW_DAYS"`
	FairValueMinSamples  int     `mapstructure:"FAIR_VALUE_MIN_SAMPLES"`
	FairValueLowPctile   float64 `mapstructure:"FAIR_VALUE_LOW_PCTILE"`
	FairValueHighPctile  float64 `mapstructure:"FAIR_VALUE_HIGH_PCTILE"`
	FairValueCacheTTLMin int     `mapstructure:"FAIR_VALUE_CACHE_TTL_MINS"`

	// Sweep intervals (asynq periodic tasks).
	BidSweepEvery    string `mapstructure:"BID_SWEEP_EVERY"`
	EscrowSweepEvery string `mapstructure:"ESCROW_SWEEP_EVERY"`
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
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "ravmarket")
	viper.SetDefault("STRIPE_KEY", "")

	viper.SetDefault("COMMISSION_RATE_PCT", 15.0)
	viper.SetDefault("OWNER_CONFIRM_WINDOW_MINS", 60)
	viper.SetDefault("OWNER_CONFIRM_EXTENSION_MINS", 30)
	viper.SetDefault("OWNER_CONFIRM_MAX_EXTENSIONS", 2)
	viper.SetDefault("ESCROW_HOLD_DAYS", 5)

	viper.SetDefault("FAIR_VALUE_WINDOW_DAYS", 90)
	viper.SetDefault("FAIR_VALUE_MIN_SAMPLES", 3)
	viper.SetDefault("FAIR_VALUE_LOW_PCTILE", 25.0)
	viper.SetDefault("FAIR_VALUE_HIGH_PCTILE", 75.0)
	viper.SetDefault("FAIR_VALUE_CACHE_TTL_MINS", 5)

	viper.SetDefault("BID_SWEEP_EVERY", "@every 5m")
	viper.SetDefault("ESCROW_SWEEP_EVERY", "@every 1m")

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
