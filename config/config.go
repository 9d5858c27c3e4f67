package config

import (
	"log"
	"time"

	"barberbook/models"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// TierConfig is one row of the package discount table as written in config.yaml.
type TierConfig struct {
	MinServices int     `mapstructure:"minServices"`
	Percentage  float64 `mapstructure:"percentage"`
	Label       string  `mapstructure:"label"`
}

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisBookingDB       int    `mapstructure:"REDIS_BOOKING_DB"`
	RedisCategoryDB      int    `mapstructure:"REDIS_CATEGORY_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	// Booking flow.
	SessionTTLMinutes       int          `mapstructure:"SESSION_TTL_MINUTES"`
	CategoryCacheTTLSeconds int          `mapstructure:"CATEGORY_CACHE_TTL_SECONDS"`
	ReminderLeadMinutes     int          `mapstructure:"REMINDER_LEAD_MINUTES"`
	ShopTimezone            string       `mapstructure:"SHOP_TIMEZONE"`
	PackageTiers            []TierConfig `mapstructure:"PACKAGE_TIERS"`
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
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "barberbook")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_BOOKING_DB", 0)
	viper.SetDefault("REDIS_CATEGORY_DB", 1)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 2)
	viper.SetDefault("SESSION_TTL_MINUTES", 30)
	viper.SetDefault("CATEGORY_CACHE_TTL_SECONDS", 5)
	viper.SetDefault("REMINDER_LEAD_MINUTES", 120)
	viper.SetDefault("SHOP_TIMEZONE", "UTC")
	viper.SetDefault("PACKAGE_TIERS", []map[string]any{
		{"minServices": 1, "percentage": 10, "label": "Duo"},
		{"minServices": 3, "percentage": 25, "label": "Full package"},
	})

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

// DiscountTiers converts the configured tier rows into the core's value objects.
// Ordering and monotonicity are checked by the caller.
func (c Config) DiscountTiers() []models.DiscountTier {
	tiers := make([]models.DiscountTier, 0, len(c.PackageTiers))
	for _, t := range c.PackageTiers {
		tiers = append(tiers, models.DiscountTier{
			MinServices: t.MinServices,
			Percentage:  decimal.NewFromFloat(t.Percentage),
			Label:       t.Label,
		})
	}
	return tiers
}

func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

func (c Config) CategoryCacheTTL() time.Duration {
	return time.Duration(c.CategoryCacheTTLSeconds) * time.Second
}

func (c Config) ReminderLead() time.Duration {
	return time.Duration(c.ReminderLeadMinutes) * time.Minute
}
