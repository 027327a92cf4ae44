package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	DeepSeek  DeepSeekConfig  `yaml:"deepseek" mapstructure:"deepseek"`
	Nexar     NexarConfig     `yaml:"nexar" mapstructure:"nexar"`
	Brand     BrandConfig     `yaml:"brand" mapstructure:"brand"`
	Recommend RecommendConfig `yaml:"recommend" mapstructure:"recommend"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// DeepSeekConfig holds LLM API settings.
type DeepSeekConfig struct {
	Key       string  `yaml:"key" mapstructure:"key"`
	BaseURL   string  `yaml:"base_url" mapstructure:"base_url"`
	Model     string  `yaml:"model" mapstructure:"model"`
	RateRPS   float64 `yaml:"rate_rps" mapstructure:"rate_rps"`
	RateBurst int     `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// NexarConfig holds parts-search API credentials.
type NexarConfig struct {
	ClientID     string `yaml:"client_id" mapstructure:"client_id"`
	ClientSecret string `yaml:"client_secret" mapstructure:"client_secret"`
	APIURL       string `yaml:"api_url" mapstructure:"api_url"`
	TokenURL     string `yaml:"token_url" mapstructure:"token_url"`
}

// BrandConfig points to an optional brand-table override file.
type BrandConfig struct {
	TablesPath string `yaml:"tables_path" mapstructure:"tables_path"`
}

// RecommendConfig tunes the recommendation pipeline.
type RecommendConfig struct {
	DemoData bool `yaml:"demo_data" mapstructure:"demo_data"`
}

// BatchConfig tunes BOM batch processing.
type BatchConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging output.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from config.yaml in the working directory
// (optional) and SUB_-prefixed environment variables, with defaults for
// every knob that has a sensible one.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Credentials default to empty so AutomaticEnv can fill them.
	v.SetDefault("deepseek.key", "")
	v.SetDefault("nexar.client_id", "")
	v.SetDefault("nexar.client_secret", "")
	v.SetDefault("brand.tables_path", "")
	v.SetDefault("deepseek.base_url", "https://api.deepseek.com")
	v.SetDefault("deepseek.model", "deepseek-chat")
	v.SetDefault("deepseek.rate_rps", 1.0)
	v.SetDefault("deepseek.rate_burst", 2)
	v.SetDefault("nexar.api_url", "https://api.nexar.com/graphql")
	v.SetDefault("nexar.token_url", "https://identity.nexar.com/connect/token")
	v.SetDefault("recommend.demo_data", false)
	v.SetDefault("batch.workers", 1)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger builds the global zap logger from the log config.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
