// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// DefaultTransactionMaxAmount caps a single transaction when
// TRANSACTION_MAX_AMOUNT is not configured.
const DefaultTransactionMaxAmount = "1000000000"

// Config stores all configuration of the application.
//
// The values are read by viper from a config file or environement variables.
type Config struct {
	DBDriver             string        `mapstructure:"DB_DRIVER"`
	DBSource             string        `mapstructure:"DB_SOURCE"`
	MigrationURL         string        `mapstructure:"MIGRATION_URL"`
	ServerAddress        string        `mapstructure:"SERVER_ADDRESS"`
	TokenSymmetricKey    string        `mapstructure:"TOKEN_SYMMETRIC_KEY"`
	AccessTokenDuration  time.Duration `mapstructure:"ACCESS_TOKEN_DURATION"`
	GeoAPIURL            string        `mapstructure:"GEO_API_URL"`
	GeoAPIKey            string        `mapstructure:"GEO_API_KEY"`
	GeoLookupTimeout     time.Duration `mapstructure:"GEO_LOOKUP_TIMEOUT"`
	TransactionMaxAmount string        `mapstructure:"TRANSACTION_MAX_AMOUNT"`
	Environement         string        `mapstructure:"GO_ENV"`
}

// MaxTransactionAmount parses the configured single transaction cap.
func (c Config) MaxTransactionAmount() (decimal.Decimal, error) {
	raw := c.TransactionMaxAmount
	if raw == "" {
		raw = DefaultTransactionMaxAmount
	}

	return decimal.NewFromString(raw)
}

// Load read configuration from file or environment variables.
func Load(path string) (Config, error) {
	var c Config

	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		return c, err
	}

	err = viper.Unmarshal(&c)
	if err != nil {
		return c, err
	}

	return c, nil
}
