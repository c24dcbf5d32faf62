package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	Database    DatabaseConfig
	Sanity      SanityConfig
	Netopia     NetopiaConfig
	AMQP        AMQPConfig
	API         APIConfig
	Cart        CartConfig
	LogLevel    string
}

type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrationsPath string
}

// SanityConfig points at the CMS project that owns catalog prices
type SanityConfig struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	Token      string
}

// NetopiaConfig holds the payment provider credentials. When either field
// is empty the checkout falls back to the mock payment flow.
type NetopiaConfig struct {
	APIKey       string
	PosSignature string
}

type AMQPConfig struct {
	URL      string
	Exchange string
}

type APIConfig struct {
	AdminKeyHash string
}

type CartConfig struct {
	// DepositUnit is the flat refundable SGR deposit charged per
	// product-type unit, in lei.
	DepositUnit float64
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("MIGRATIONS_PATH", "./migrations")
	viper.SetDefault("SANITY_DATASET", "production")
	viper.SetDefault("SANITY_API_VERSION", "v2024-01-01")
	viper.SetDefault("AMQP_EXCHANGE", "orders")
	viper.SetDefault("SGR_DEPOSIT", "0.50")
	viper.SetDefault("LOG_LEVEL", "info")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	depositUnit, err := strconv.ParseFloat(getEnvOrViper("SGR_DEPOSIT", "0.50"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid SGR_DEPOSIT: %w", err)
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Database: DatabaseConfig{
			Host:           getEnvOrViper("DB_HOST", "localhost"),
			Port:           getEnvOrViper("DB_PORT", "5432"),
			User:           getEnvOrViper("DB_USER", "postgres"),
			Password:       getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:         getEnvOrViper("DB_NAME", "necstaz"),
			SSLMode:        getEnvOrViper("DB_SSLMODE", "disable"),
			MigrationsPath: getEnvOrViper("MIGRATIONS_PATH", "./migrations"),
		},
		Sanity: SanityConfig{
			ProjectID:  getEnvOrViper("SANITY_PROJECT_ID", ""),
			Dataset:    getEnvOrViper("SANITY_DATASET", "production"),
			APIVersion: getEnvOrViper("SANITY_API_VERSION", "v2024-01-01"),
			Token:      getEnvOrViper("SANITY_TOKEN", ""),
		},
		Netopia: NetopiaConfig{
			APIKey:       getEnvOrViper("NETOPIA_API_KEY", ""),
			PosSignature: getEnvOrViper("NETOPIA_POS_SIGNATURE", ""),
		},
		AMQP: AMQPConfig{
			URL:      getEnvOrViper("AMQP_URL", ""),
			Exchange: getEnvOrViper("AMQP_EXCHANGE", "orders"),
		},
		API: APIConfig{
			AdminKeyHash: getEnvOrViper("ADMIN_API_KEY_HASH", ""),
		},
		Cart: CartConfig{
			DepositUnit: depositUnit,
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.Sanity.ProjectID == "" {
		return nil, fmt.Errorf("SANITY_PROJECT_ID is required")
	}

	return cfg, nil
}

// Configured reports whether real payment initiation is possible.
func (c NetopiaConfig) Configured() bool {
	return c.APIKey != "" && c.PosSignature != ""
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
