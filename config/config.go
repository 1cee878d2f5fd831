package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log        Logger          `mapstructure:"logger"`
	API        API             `mapstructure:"api"`
	Redis      Redis           `mapstructure:"redis"`
	Gemini     Gemini          `mapstructure:"gemini"`
	MarketData MarketData      `mapstructure:"market_data"`
	Learning   Learning        `mapstructure:"learning"`
	Scheduler  SchedulerConfig `mapstructure:"scheduler"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type API struct {
	Port int `mapstructure:"port"`
}

// Redis holds the credentials for the remote cache store. Both URL and token
// must be set for caching to be enabled; the adapter degrades to disabled
// otherwise.
type Redis struct {
	URL   string `mapstructure:"url"`
	Token string `mapstructure:"token"`
}

type Gemini struct {
	APIKey              string  `mapstructure:"api_key"`
	BaseModel           string  `mapstructure:"base_model"`
	Temperature         float64 `mapstructure:"temperature"`
	MaxOutputTokens     int     `mapstructure:"max_output_tokens"`
	MaxRequestPerMinute int     `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int     `mapstructure:"max_token_per_minute"`
}

type MarketData struct {
	BaseURL             string        `mapstructure:"base_url"`
	APIKey              string        `mapstructure:"api_key"`
	BaseTimeout         time.Duration `mapstructure:"base_timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	ValidationCacheTTL  time.Duration `mapstructure:"validation_cache_ttl"`
	CleanupInterval     time.Duration `mapstructure:"cleanup_interval"`
}

type Learning struct {
	MaxInflightWrites int64 `mapstructure:"max_inflight_writes"`
}

type SchedulerConfig struct {
	WarmCacheSpec     string `mapstructure:"warm_cache_spec"`
	RegimeRefreshSpec string `mapstructure:"regime_refresh_spec"`
}

func Load() (*Config, error) {
	// Optional .env for local development, real deployments use env vars.
	_ = godotenv.Load()

	viper.SetConfigType("yaml")
	viper.SetConfigName("config")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	setDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")
	viper.SetDefault("api.port", 8080)
	viper.SetDefault("gemini.base_model", "gemini-2.0-flash")
	viper.SetDefault("gemini.temperature", 0.3)
	viper.SetDefault("gemini.max_output_tokens", 4000)
	viper.SetDefault("gemini.max_request_per_minute", 10)
	viper.SetDefault("gemini.max_token_per_minute", 250000)
	viper.SetDefault("market_data.base_timeout", 10*time.Second)
	viper.SetDefault("market_data.max_request_per_minute", 60)
	viper.SetDefault("market_data.validation_cache_ttl", time.Hour)
	viper.SetDefault("market_data.cleanup_interval", 10*time.Minute)
	viper.SetDefault("learning.max_inflight_writes", 8)
	viper.SetDefault("scheduler.warm_cache_spec", "30 5 * * *")
	viper.SetDefault("scheduler.regime_refresh_spec", "0 */6 * * *")
}
