// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
//
// The values are read by viper from a config file or environment variables.
type Config struct {
	DBDriver         string        `mapstructure:"DB_DRIVER"`
	DBSource         string        `mapstructure:"DB_SOURCE"`
	ServerAddress    string        `mapstructure:"SERVER_ADDRESS"`
	QuoteAPIBaseURL  string        `mapstructure:"QUOTE_API_BASE_URL"`
	QuoteAPIKey      string        `mapstructure:"QUOTE_API_KEY"`
	QuoteTimeout     time.Duration `mapstructure:"QUOTE_TIMEOUT"`
	QuoteMaxInFlight int           `mapstructure:"QUOTE_MAX_IN_FLIGHT"`
	LiveValuePartial bool          `mapstructure:"LIVE_VALUE_PARTIAL"`
	FrontendOrigin   string        `mapstructure:"FRONTEND_ORIGIN"`
	Environment      string        `mapstructure:"GO_ENV"`
}

// Load reads configuration from file or environment variables.
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

	if c.QuoteTimeout == 0 {
		c.QuoteTimeout = 5 * time.Second
	}

	if c.QuoteMaxInFlight == 0 {
		c.QuoteMaxInFlight = 4
	}

	return c, nil
}
