package config

import (
	"fmt"  // DSN formatting
	"time" // Durations

	"github.com/ilyakaznacheev/cleanenv" // Struct-tag env reader
	"github.com/joho/godotenv"           // For loading .env files
	"github.com/shopspring/decimal"      // Decimal amounts
	"github.com/sirupsen/logrus"         // Logging
)

// Config holds the application configuration
type Config struct {
	AppPort          string        `env:"APP_PORT" env-default:"8080"` // Application port
	IsProd           bool          `env:"IS_PROD" env-default:"false"` // Is production environment
	DB               DBConfig      // Database settings
	Redis            RedisConfig   // Redis settings
	JWTSecret        string        `env:"JWT_SECRET" env-required:"true"`        // JWT secret key
	CatalogCacheTTL  time.Duration `env:"CATALOG_CACHE_TTL" env-default:"60s"`   // Redis catalog snapshot lifetime
	DefaultBuyAmount string        `env:"DEFAULT_BUY_AMOUNT" env-default:"0.01"` // Spend used when a user has none set
	SeedCatalogPath  string        `env:"SEED_CATALOG_PATH" env-default:""`      // JSON catalog loaded by the migrate command
	AdminEmail       string        `env:"ADMIN_EMAIL" env-default:""`            // Email that registers with the admin role
}

// DBConfig holds the database connection settings
type DBConfig struct {
	Driver         string        `env:"DB_DRIVER" env-default:"mysql"`            // mysql, postgres or sqlite
	User           string        `env:"DB_USER" env-default:"root"`               // Database user
	Password       string        `env:"DB_PASSWORD" env-default:""`               // Database password
	Host           string        `env:"DB_HOST" env-default:"localhost"`          // Database host
	Port           string        `env:"DB_PORT" env-default:"3306"`               // Database port
	Name           string        `env:"DB_NAME" env-default:"token_swipe"`        // Database name
	SQLitePath     string        `env:"SQLITE_PATH" env-default:"token_swipe.db"` // SQLite file when DB_DRIVER=sqlite
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" env-default:"30s"`     // Give up connecting after this long
}

// RedisConfig holds the redis connection settings
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR" env-default:"localhost:6379"` // Redis server address
	Pass string `env:"REDIS_PASS" env-default:""`               // Redis password
	DB   int    `env:"REDIS_DB" env-default:"0"`                // Redis database number
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, reading from environment variables")
	}
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if _, err := cfg.DefaultSpend(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad loads the configuration or exits the process
func MustLoad() *Config {
	cfg, err := LoadConfig()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err) // Fatal error if config is unusable
	}
	return cfg
}

// DefaultSpend parses DEFAULT_BUY_AMOUNT, which must be positive
func (c *Config) DefaultSpend() (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(c.DefaultBuyAmount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("DEFAULT_BUY_AMOUNT: %w", err)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("DEFAULT_BUY_AMOUNT must be positive, got %s", amount)
	}
	return amount, nil
}

// DSN builds the data source name for the configured driver
func (d DBConfig) DSN() (string, error) {
	switch d.Driver {
	case "mysql":
		return d.User + ":" + d.Password + "@tcp(" + d.Host + ":" + d.Port + ")/" + d.Name + "?parseTime=true", nil
	case "postgres":
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			d.Host, d.User, d.Password, d.Name, d.Port), nil
	case "sqlite":
		return d.SQLitePath, nil
	default:
		return "", fmt.Errorf("unsupported DB_DRIVER %q", d.Driver)
	}
}
